// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// MediaVideoTable represents the 'media.video' table
type MediaVideoTable struct {
	Table       string
	ID          string
	VideoFile   string
	Thumbnail   string
	Title       string
	Description string
	Duration    string
	Views       string
	IsPublished string
	OwnerID     string
	CreatedAt   string
	UpdatedAt   string
}

// MediaVideo is the schema definition for media.video
var MediaVideo = MediaVideoTable{
	Table:       "media.video",
	ID:          "id",
	VideoFile:   "videofile",
	Thumbnail:   "thumbnail",
	Title:       "title",
	Description: "description",
	Duration:    "duration",
	Views:       "views",
	IsPublished: "ispublished",
	OwnerID:     "ownerid",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}
