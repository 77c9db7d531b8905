// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles the authenticated user's own profile.

It lets a user read their identity, change their name and email, and replace
their avatar or cover image.

# Architecture

  - Domain: This package depends on the auth package for the User entity.
  - Media: Images go through [media.Uploader]; only the returned URL is stored.
  - Storage: Both credential store backends extend the auth repositories.
*/
package account

import (
	"context"

	"github.com/taibuivan/vidtube/internal/users/auth"
)

// # Repository Contracts

// AccountRepository defines the persistence contract for profile updates.
type AccountRepository interface {
	/*
		FindByID retrieves a user record by their unique ID.

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	// FindByEmail retrieves a user record by (normalized) email.
	FindByEmail(context context.Context, email string) (*auth.User, error)

	/*
		UpdateDetails overwrites the full name and email of a user.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - fullName: string
		  - email: string

		Returns:
		  - error: apperr.Conflict if the email is taken, apperr.NotFound, or storage failures
	*/
	UpdateDetails(context context.Context, userID, fullName, email string) error

	// UpdateAvatar overwrites only the avatar URL.
	UpdateAvatar(context context.Context, userID, url string) error

	// UpdateCoverImage overwrites only the cover image URL.
	UpdateCoverImage(context context.Context, userID, url string) error
}

// # Client Messages

const (
	MsgFieldsRequired     = "All fields are required"
	MsgEmailTaken         = "Email is already in use by another account"
	MsgAvatarMissing      = "Avatar file is missing"
	MsgCoverMissing       = "Cover image file is missing"
	MsgAvatarUploadFailed = "Error while uploading the avatar"
	MsgCoverUploadFailed  = "Error while uploading the cover image"
	MsgCurrentUser        = "Current user fetched successfully"
	MsgDetailsUpdated     = "Account details updated successfully"
	MsgAvatarUpdated      = "Avatar image updated successfully"
	MsgCoverUpdated       = "Cover image updated successfully"
)
