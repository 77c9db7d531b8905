// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package channel

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/vidtube/internal/platform/database/schema"
	"github.com/taibuivan/vidtube/internal/platform/dberr"
	"github.com/taibuivan/vidtube/pkg/pointer"
)

// PostgresRepository implements [Repository] with joins and correlated sub-selects.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL channel repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// channelProfileQuery selects one account with both subscription counts.
//
// $2 is the viewer id; no account has the empty id, so anonymous viewers
// always get false.
func channelProfileQuery() string {
	account := schema.UserAccount
	subscription := schema.UserSubscription

	return fmt.Sprintf(`
		SELECT a.%[1]s, a.%[2]s, a.%[3]s, a.%[4]s, a.%[5]s, a.%[6]s,
			(SELECT count(*) FROM %[8]s s WHERE s.%[9]s = a.%[1]s),
			(SELECT count(*) FROM %[8]s s WHERE s.%[10]s = a.%[1]s),
			EXISTS (SELECT 1 FROM %[8]s s WHERE s.%[9]s = a.%[1]s AND s.%[10]s = $2)
		FROM %[7]s a
		WHERE a.%[3]s = $1`,
		account.ID, account.FullName, account.Username, account.Email, account.Avatar, account.CoverImage,
		account.Table, subscription.Table, subscription.ChannelID, subscription.SubscriberID,
	)
}

// watchHistoryQuery resolves history rows to videos and owners in position order.
func watchHistoryQuery() string {
	history := schema.UserWatchHistory
	video := schema.MediaVideo
	account := schema.UserAccount

	return fmt.Sprintf(`
		SELECT v.%s, v.%s, v.%s, v.%s, v.%s, v.%s, v.%s, v.%s, v.%s,
			o.%s, o.%s, o.%s, o.%s
		FROM %s h
		JOIN %s v ON v.%s = h.%s
		LEFT JOIN %s o ON o.%s = v.%s
		WHERE h.%s = $1
		ORDER BY h.%s`,
		video.ID, video.VideoFile, video.Thumbnail, video.Title, video.Description,
		video.Duration, video.Views, video.IsPublished, video.CreatedAt,
		account.ID, account.FullName, account.Username, account.Avatar,
		history.Table,
		video.Table, video.ID, history.VideoID,
		account.Table, account.ID, video.OwnerID,
		history.UserID,
		history.Position,
	)
}

/*
ChannelProfile loads a channel profile by username.

Returns:
  - *Profile
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresRepository) ChannelProfile(context context.Context, username, viewerID string) (*Profile, error) {
	profile := &Profile{}
	err := repository.pool.QueryRow(context, channelProfileQuery(), username, viewerID).Scan(
		&profile.ID,
		&profile.FullName,
		&profile.Username,
		&profile.Email,
		&profile.Avatar,
		&profile.CoverImage,
		&profile.SubscribersCount,
		&profile.ChannelsSubscribedToCount,
		&profile.IsSubscribed,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_channel_repo_profile", MsgChannelNotFound)
	}
	return profile, nil
}

// WatchHistory resolves the user's history; a missing user has no rows.
func (repository *PostgresRepository) WatchHistory(context context.Context, userID string) ([]HistoryVideo, error) {
	rows, err := repository.pool.Query(context, watchHistoryQuery(), userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_channel_repo_history_failed: %w", err)
	}
	defer rows.Close()

	videos := []HistoryVideo{}
	for rows.Next() {
		var video HistoryVideo
		var ownerID, ownerName, ownerUsername, ownerAvatar *string

		err := rows.Scan(
			&video.ID,
			&video.VideoFile,
			&video.Thumbnail,
			&video.Title,
			&video.Description,
			&video.Duration,
			&video.Views,
			&video.IsPublished,
			&video.CreatedAt,
			&ownerID,
			&ownerName,
			&ownerUsername,
			&ownerAvatar,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres_channel_repo_history_scan_failed: %w", err)
		}

		if ownerID != nil {
			video.Owner = &Owner{
				ID:       *ownerID,
				FullName: pointer.Val(ownerName),
				Username: pointer.Val(ownerUsername),
				Avatar:   pointer.Val(ownerAvatar),
			}
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_channel_repo_history_rows_failed: %w", err)
	}
	return videos, nil
}
