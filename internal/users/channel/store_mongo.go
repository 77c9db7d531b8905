// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package channel

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/database/schema"
)

// MongoRepository implements [Repository] with aggregation pipelines.
type MongoRepository struct {
	users *mongo.Collection
}

// NewMongoRepository binds a repository to database.
func NewMongoRepository(database *mongo.Database) *MongoRepository {
	return &MongoRepository{users: database.Collection(schema.UserDocument.Collection)}
}

// field prefixes a document field for use as an aggregation expression.
func field(name string) string {
	return "$" + name
}

/*
channelProfilePipeline matches one user and counts both subscription edges.

An empty viewerID makes isSubscribed a constant false.
*/
func channelProfilePipeline(username, viewerID string) mongo.Pipeline {
	users := schema.UserDocument
	subscriptions := schema.SubscriptionDocument

	var isSubscribed any = false
	if viewerID != "" {
		isSubscribed = bson.D{{Key: "$in", Value: bson.A{
			viewerID,
			field("subscribers." + subscriptions.Subscriber),
		}}}
	}

	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: users.Username, Value: username}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: subscriptions.Collection},
			{Key: "localField", Value: users.ID},
			{Key: "foreignField", Value: subscriptions.Channel},
			{Key: "as", Value: "subscribers"},
		}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: subscriptions.Collection},
			{Key: "localField", Value: users.ID},
			{Key: "foreignField", Value: subscriptions.Subscriber},
			{Key: "as", Value: "subscribedTo"},
		}}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "subscribersCount", Value: bson.D{{Key: "$size", Value: "$subscribers"}}},
			{Key: "channelsSubscribedToCount", Value: bson.D{{Key: "$size", Value: "$subscribedTo"}}},
			{Key: "isSubscribed", Value: isSubscribed},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: users.FullName, Value: 1},
			{Key: users.Username, Value: 1},
			{Key: users.Email, Value: 1},
			{Key: users.Avatar, Value: 1},
			{Key: users.CoverImage, Value: 1},
			{Key: "subscribersCount", Value: 1},
			{Key: "channelsSubscribedToCount", Value: 1},
			{Key: "isSubscribed", Value: 1},
		}}},
	}
}

/*
watchHistoryPipeline joins the user's history ids to videos and each video
to a single owner summary.

$lookup returns matches in collection order, so the caller restores history
order with [orderByHistory].
*/
func watchHistoryPipeline(userID string) mongo.Pipeline {
	users := schema.UserDocument
	videos := schema.VideoDocument

	ownerLookup := bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: users.Collection},
		{Key: "localField", Value: videos.Owner},
		{Key: "foreignField", Value: users.ID},
		{Key: "as", Value: videos.Owner},
		{Key: "pipeline", Value: bson.A{
			bson.D{{Key: "$project", Value: bson.D{
				{Key: users.FullName, Value: 1},
				{Key: users.Username, Value: 1},
				{Key: users.Avatar, Value: 1},
			}}},
		}},
	}}}

	flattenOwner := bson.D{{Key: "$addFields", Value: bson.D{
		{Key: videos.Owner, Value: bson.D{{Key: "$first", Value: field(videos.Owner)}}},
	}}}

	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: users.ID, Value: userID}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: videos.Collection},
			{Key: "localField", Value: users.WatchHistory},
			{Key: "foreignField", Value: videos.ID},
			{Key: "as", Value: "videos"},
			{Key: "pipeline", Value: bson.A{ownerLookup, flattenOwner}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: users.WatchHistory, Value: 1},
			{Key: "videos", Value: 1},
		}}},
	}
}

/*
ChannelProfile runs the profile pipeline.

Returns:
  - *Profile
  - error: apperr.NotFound when no user has that username
*/
func (repository *MongoRepository) ChannelProfile(context context.Context, username, viewerID string) (*Profile, error) {
	cursor, err := repository.users.Aggregate(context, channelProfilePipeline(username, viewerID))
	if err != nil {
		return nil, fmt.Errorf("mongo_channel_repo_profile_failed: %w", err)
	}

	var profiles []Profile
	if err := cursor.All(context, &profiles); err != nil {
		return nil, fmt.Errorf("mongo_channel_repo_profile_decode_failed: %w", err)
	}
	if len(profiles) == 0 {
		return nil, apperr.NotFound(MsgChannelNotFound)
	}
	return &profiles[0], nil
}

// historyDocument is the shape produced by watchHistoryPipeline.
type historyDocument struct {
	WatchHistory []string       `bson:"watchHistory"`
	Videos       []HistoryVideo `bson:"videos"`
}

// WatchHistory runs the history pipeline and restores history order.
func (repository *MongoRepository) WatchHistory(context context.Context, userID string) ([]HistoryVideo, error) {
	cursor, err := repository.users.Aggregate(context, watchHistoryPipeline(userID))
	if err != nil {
		return nil, fmt.Errorf("mongo_channel_repo_history_failed: %w", err)
	}

	var documents []historyDocument
	if err := cursor.All(context, &documents); err != nil {
		return nil, fmt.Errorf("mongo_channel_repo_history_decode_failed: %w", err)
	}
	if len(documents) == 0 {
		return []HistoryVideo{}, nil
	}
	return orderByHistory(documents[0].WatchHistory, documents[0].Videos), nil
}
