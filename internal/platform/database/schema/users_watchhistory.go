// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UserWatchHistoryTable represents the 'users.watchhistory' table
//
// One row per history slot; Position preserves order and allows repeats.
type UserWatchHistoryTable struct {
	Table     string
	UserID    string
	Position  string
	VideoID   string
	WatchedAt string
}

// UserWatchHistory is the schema definition for users.watchhistory
var UserWatchHistory = UserWatchHistoryTable{
	Table:     "users.watchhistory",
	UserID:    "userid",
	Position:  "position",
	VideoID:   "videoid",
	WatchedAt: "watchedat",
}
