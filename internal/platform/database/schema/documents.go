// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// # Document Collections (MongoDB)

// UserCollection represents the 'users' collection
type UserCollection struct {
	Collection   string
	ID           string
	Username     string
	Email        string
	FullName     string
	Avatar       string
	CoverImage   string
	Password     string
	RefreshToken string
	WatchHistory string
	CreatedAt    string
	UpdatedAt    string
}

// UserDocument is the schema definition for the users collection
var UserDocument = UserCollection{
	Collection:   "users",
	ID:           "_id",
	Username:     "username",
	Email:        "email",
	FullName:     "fullname",
	Avatar:       "avatar",
	CoverImage:   "coverImage",
	Password:     "password",
	RefreshToken: "refreshToken",
	WatchHistory: "watchHistory",
	CreatedAt:    "createdAt",
	UpdatedAt:    "updatedAt",
}

// SubscriptionCollection represents the 'subscriptions' collection
type SubscriptionCollection struct {
	Collection string
	ID         string
	Subscriber string
	Channel    string
	CreatedAt  string
}

// SubscriptionDocument is the schema definition for the subscriptions collection
var SubscriptionDocument = SubscriptionCollection{
	Collection: "subscriptions",
	ID:         "_id",
	Subscriber: "subscriber",
	Channel:    "channel",
	CreatedAt:  "createdAt",
}

// VideoCollection represents the 'videos' collection
type VideoCollection struct {
	Collection  string
	ID          string
	VideoFile   string
	Thumbnail   string
	Title       string
	Description string
	Duration    string
	Views       string
	IsPublished string
	Owner       string
	CreatedAt   string
}

// VideoDocument is the schema definition for the videos collection
var VideoDocument = VideoCollection{
	Collection:  "videos",
	ID:          "_id",
	VideoFile:   "videoFile",
	Thumbnail:   "thumbnail",
	Title:       "title",
	Description: "description",
	Duration:    "duration",
	Views:       "views",
	IsPublished: "isPublished",
	Owner:       "owner",
	CreatedAt:   "createdAt",
}
