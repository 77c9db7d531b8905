// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package channel

import (
	"context"
	"fmt"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/validate"
	"github.com/taibuivan/vidtube/internal/users/auth"
	"github.com/taibuivan/vidtube/pkg/ident"
)

// Service answers channel profile and watch history queries.
type Service struct {
	repository Repository
}

// NewService constructs a new channel [Service].
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

/*
GetChannelProfile loads the public profile of username.

Parameters:
  - context: context.Context
  - viewerID: string ("" for anonymous viewers)
  - username: string

Returns:
  - *Profile: isSubscribed reflects viewerID
  - error: ValidationError, NotFound or storage failures
*/
func (service *Service) GetChannelProfile(context context.Context, viewerID, username string) (*Profile, error) {
	username = ident.Normalize(username)
	if username == "" {
		return nil, validate.RequiredError(auth.FieldUsername, MsgUsernameMissing)
	}

	profile, err := service.repository.ChannelProfile(context, username, viewerID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound(MsgChannelNotFound)
		}
		return nil, fmt.Errorf("channel_service_profile_failed: %w", err)
	}
	return profile, nil
}

/*
GetWatchHistory resolves the user's watch history.

Returns:
  - []HistoryVideo: never nil
  - error: storage failures
*/
func (service *Service) GetWatchHistory(context context.Context, userID string) ([]HistoryVideo, error) {
	videos, err := service.repository.WatchHistory(context, userID)
	if err != nil {
		return nil, fmt.Errorf("channel_service_history_failed: %w", err)
	}
	if videos == nil {
		videos = []HistoryVideo{}
	}
	return videos, nil
}
