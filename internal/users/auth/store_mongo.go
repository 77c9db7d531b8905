// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/database/schema"
	"github.com/taibuivan/vidtube/internal/platform/dberr"
)

// # User Repository (MongoDB)

// MongoUserRepository implements the UserRepository interface on the users collection.
type MongoUserRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

// NewMongoUserRepository binds a repository to the users collection of database.
func NewMongoUserRepository(database *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{
		collection: database.Collection(schema.UserDocument.Collection),
		now:        time.Now,
	}
}

/*
EnsureIndexes creates the unique username and email indexes.

It is idempotent and runs once at startup. The indexes are what enforce
identity uniqueness when two registrations race.
*/
func (repository *MongoUserRepository) EnsureIndexes(context context.Context) error {
	_, err := repository.collection.Indexes().CreateMany(context, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: schema.UserDocument.Username, Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_username"),
		},
		{
			Keys:    bson.D{{Key: schema.UserDocument.Email, Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_email"),
		},
	})
	if err != nil {
		return fmt.Errorf("mongo_user_repo_ensure_indexes_failed: %w", err)
	}
	return nil
}

func (repository *MongoUserRepository) findOne(context context.Context, action string, filter bson.D) (*User, error) {
	user := &User{}
	if err := repository.collection.FindOne(context, filter).Decode(user); err != nil {
		return nil, dberr.Wrap(err, action, dberr.MsgUserNotFound)
	}
	if user.WatchHistory == nil {
		user.WatchHistory = []string{}
	}
	return user, nil
}

// FindByID retrieves a user document by its _id.
func (repository *MongoUserRepository) FindByID(context context.Context, id string) (*User, error) {
	return repository.findOne(context, "mongo_user_repo_find_by_id",
		bson.D{{Key: schema.UserDocument.ID, Value: id}})
}

// FindByEmail retrieves a user document by email.
func (repository *MongoUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findOne(context, "mongo_user_repo_find_by_email",
		bson.D{{Key: schema.UserDocument.Email, Value: email}})
}

// FindByUsername retrieves a user document by username.
func (repository *MongoUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	return repository.findOne(context, "mongo_user_repo_find_by_username",
		bson.D{{Key: schema.UserDocument.Username, Value: username}})
}

// FindByUsernameOrEmail retrieves a user document matching either identity.
func (repository *MongoUserRepository) FindByUsernameOrEmail(context context.Context, username, email string) (*User, error) {
	return repository.findOne(context, "mongo_user_repo_find_by_identity", bson.D{
		{Key: "$or", Value: bson.A{
			bson.D{{Key: schema.UserDocument.Username, Value: username}},
			bson.D{{Key: schema.UserDocument.Email, Value: email}},
		}},
	})
}

/*
Create inserts a new user document.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: apperr.Conflict on a duplicate key, or driver errors
*/
func (repository *MongoUserRepository) Create(context context.Context, user *User) error {
	now := repository.now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	if user.WatchHistory == nil {
		user.WatchHistory = []string{}
	}

	_, err := repository.collection.InsertOne(context, user)
	return dberr.Wrap(err, "mongo_user_repo_create", dberr.MsgUserNotFound)
}

// setField runs a single-document $set of one field plus updatedAt.
func (repository *MongoUserRepository) setField(context context.Context, action, userID, field string, value any) error {
	result, err := repository.collection.UpdateOne(context,
		bson.D{{Key: schema.UserDocument.ID, Value: userID}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: field, Value: value},
			{Key: schema.UserDocument.UpdatedAt, Value: repository.now().UTC()},
		}}},
	)
	if err != nil {
		return dberr.Wrap(err, action, dberr.MsgUserNotFound)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFound(dberr.MsgUserNotFound)
	}
	return nil
}

/*
SetRefreshToken replaces only the refreshToken field.

A nil digest stores null.
*/
func (repository *MongoUserRepository) SetRefreshToken(context context.Context, userID string, digest *string) error {
	return repository.setField(context, "mongo_user_repo_set_refresh_token",
		userID, schema.UserDocument.RefreshToken, digest)
}

// UpdatePassword replaces only the password field.
func (repository *MongoUserRepository) UpdatePassword(context context.Context, userID, newHash string) error {
	return repository.setField(context, "mongo_user_repo_update_password",
		userID, schema.UserDocument.Password, newHash)
}
