// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user credentials.
//
// Lookups return apperr.NotFound when nothing matches. Writes that collide
// with the username or email unique index return apperr.Conflict.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given (normalized) email.
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByUsername returns the account with the given (normalized) username.
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		FindByUsernameOrEmail returns any account holding either identity.

		Used as the registration pre-check; the unique indexes remain the
		source of truth under concurrency.
	*/
	FindByUsernameOrEmail(context context.Context, username, email string) (*User, error)

	/*
		Create persists a brand-new user account.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: apperr.Conflict on a duplicate identity, or storage failures
	*/
	Create(context context.Context, user *User) error

	/*
		SetRefreshToken replaces only the stored refresh token reference.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - digest: *string (nil clears the reference)

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	SetRefreshToken(context context.Context, userID string, digest *string) error

	/*
		UpdatePassword replaces only the user's password hash.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - newHash: string

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	UpdatePassword(context context.Context, userID, newHash string) error
}

// # Volatile Data Access

// ResetTokenRepository defines the contract for storing volatile password reset tokens.
//
// Callers pass the token digest, never the raw token.
type ResetTokenRepository interface {

	/*
		Set stores a reset token digest associated with a userID for a limited duration.
	*/
	Set(context context.Context, digest string, userID string, ttl time.Duration) error

	/*
		Get retrieves the userID associated with a reset token digest.

		Returns:
		  - string: UserID
		  - error: apperr.NotFound when absent or expired
	*/
	Get(context context.Context, digest string) (string, error)

	/*
		Delete removes a reset token after successful use.
	*/
	Delete(context context.Context, digest string) error
}
