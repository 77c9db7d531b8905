// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/database/schema"
	"github.com/taibuivan/vidtube/internal/platform/dberr"
	"github.com/taibuivan/vidtube/internal/users/auth"
)

// MongoAccountRepository implements [AccountRepository] on the users collection.
//
// Reads are inherited from [auth.MongoUserRepository].
type MongoAccountRepository struct {
	*auth.MongoUserRepository
	collection *mongo.Collection
}

// NewMongoAccountRepository binds a repository to the users collection of database.
func NewMongoAccountRepository(database *mongo.Database) *MongoAccountRepository {
	return &MongoAccountRepository{
		MongoUserRepository: auth.NewMongoUserRepository(database),
		collection:          database.Collection(schema.UserDocument.Collection),
	}
}

func (repository *MongoAccountRepository) set(context context.Context, action, userID string, fields bson.D) error {
	fields = append(fields, bson.E{Key: schema.UserDocument.UpdatedAt, Value: time.Now().UTC()})

	result, err := repository.collection.UpdateOne(context,
		bson.D{{Key: schema.UserDocument.ID, Value: userID}},
		bson.D{{Key: "$set", Value: fields}},
	)
	if err != nil {
		return dberr.Wrap(err, action, dberr.MsgUserNotFound)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFound(dberr.MsgUserNotFound)
	}
	return nil
}

// UpdateDetails sets fullname and email together.
func (repository *MongoAccountRepository) UpdateDetails(context context.Context, userID, fullName, email string) error {
	return repository.set(context, "mongo_account_repo_update_details", userID, bson.D{
		{Key: schema.UserDocument.FullName, Value: fullName},
		{Key: schema.UserDocument.Email, Value: email},
	})
}

// UpdateAvatar sets only the avatar field.
func (repository *MongoAccountRepository) UpdateAvatar(context context.Context, userID, url string) error {
	return repository.set(context, "mongo_account_repo_update_avatar", userID, bson.D{
		{Key: schema.UserDocument.Avatar, Value: url},
	})
}

// UpdateCoverImage sets only the coverImage field.
func (repository *MongoAccountRepository) UpdateCoverImage(context context.Context, userID, url string) error {
	return repository.set(context, "mongo_account_repo_update_cover", userID, bson.D{
		{Key: schema.UserDocument.CoverImage, Value: url},
	})
}
