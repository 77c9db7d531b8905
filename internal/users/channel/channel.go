// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package channel serves the read-only views built from users, subscriptions
and videos: a public channel profile and a user's watch history.

Both views are assembled inside the store (aggregation pipelines on MongoDB,
joins on PostgreSQL) so each request costs a single round-trip.
*/
package channel

import (
	"context"
	"time"
)

// # Read Models

// Profile is the public view of a channel.
type Profile struct {
	ID                        string `json:"id"                        bson:"_id"`
	FullName                  string `json:"fullname"                  bson:"fullname"`
	Username                  string `json:"username"                  bson:"username"`
	Email                     string `json:"email"                     bson:"email"`
	Avatar                    string `json:"avatar"                    bson:"avatar"`
	CoverImage                string `json:"coverImage"                bson:"coverImage"`
	SubscribersCount          int64  `json:"subscribersCount"          bson:"subscribersCount"`
	ChannelsSubscribedToCount int64  `json:"channelsSubscribedToCount" bson:"channelsSubscribedToCount"`
	IsSubscribed              bool   `json:"isSubscribed"              bson:"isSubscribed"`
}

// Owner is the embedded uploader summary of a video.
type Owner struct {
	ID       string `json:"id"       bson:"_id"`
	FullName string `json:"fullname" bson:"fullname"`
	Username string `json:"username" bson:"username"`
	Avatar   string `json:"avatar"   bson:"avatar"`
}

// HistoryVideo is one resolved watch history entry.
//
// Owner is nil when the uploader no longer exists.
type HistoryVideo struct {
	ID          string    `json:"id"          bson:"_id"`
	VideoFile   string    `json:"videoFile"   bson:"videoFile"`
	Thumbnail   string    `json:"thumbnail"   bson:"thumbnail"`
	Title       string    `json:"title"       bson:"title"`
	Description string    `json:"description" bson:"description"`
	Duration    float64   `json:"duration"    bson:"duration"`
	Views       int64     `json:"views"       bson:"views"`
	IsPublished bool      `json:"isPublished" bson:"isPublished"`
	Owner       *Owner    `json:"owner"       bson:"owner,omitempty"`
	CreatedAt   time.Time `json:"createdAt"   bson:"createdAt"`
}

// # Repository Contracts

// Repository resolves the channel read models.
type Repository interface {
	/*
		ChannelProfile loads the profile of username as seen by viewerID.

		Parameters:
		  - context: context.Context
		  - username: string (normalized)
		  - viewerID: string ("" for anonymous viewers)

		Returns:
		  - *Profile
		  - error: apperr.NotFound or storage failures
	*/
	ChannelProfile(context context.Context, username, viewerID string) (*Profile, error)

	/*
		WatchHistory resolves the user's history in order.

		Duplicates are kept and ids without a video are dropped. A missing
		user yields an empty slice.
	*/
	WatchHistory(context context.Context, userID string) ([]HistoryVideo, error)
}

// # Client Messages

const (
	MsgUsernameMissing = "Username is missing"
	MsgChannelNotFound = "Channel not found"
	MsgChannelFetched  = "User channel fetched successfully"
	MsgHistoryFetched  = "Watch history fetched successfully"
)

// orderByHistory lays videos out in history order, one entry per history slot.
func orderByHistory(history []string, videos []HistoryVideo) []HistoryVideo {
	byID := make(map[string]HistoryVideo, len(videos))
	for _, video := range videos {
		byID[video.ID] = video
	}

	ordered := make([]HistoryVideo, 0, len(history))
	for _, id := range history {
		if video, ok := byID[id]; ok {
			ordered = append(ordered, video)
		}
	}
	return ordered
}
