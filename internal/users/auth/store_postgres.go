// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/database/schema"
	"github.com/taibuivan/vidtube/internal/platform/dberr"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
//
// The watch history lives in users.watchhistory; reads aggregate it back into
// [User.WatchHistory] in position order.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool, now: time.Now}
}

// userSelect builds the shared SELECT with the given WHERE clause.
func userSelect(where string) string {
	account := schema.UserAccount
	history := schema.UserWatchHistory

	return fmt.Sprintf(`
		SELECT a.%s, a.%s, a.%s, a.%s, a.%s, a.%s, a.%s, a.%s, a.%s, a.%s,
			COALESCE((
				SELECT array_agg(h.%s ORDER BY h.%s)
				FROM %s h
				WHERE h.%s = a.%s
			), '{}')
		FROM %s a
		WHERE %s`,
		account.ID, account.Username, account.Email, account.FullName, account.Avatar,
		account.CoverImage, account.Password, account.RefreshToken, account.CreatedAt, account.UpdatedAt,
		history.VideoID, history.Position, history.Table, history.UserID, account.ID,
		account.Table, where,
	)
}

// scanUser hydrates a [User] from a row produced by userSelect.
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.Avatar,
		&user.CoverImage,
		&user.PasswordHash,
		&user.RefreshToken,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.WatchHistory,
	)
	if err != nil {
		return nil, err
	}
	if user.WatchHistory == nil {
		user.WatchHistory = []string{}
	}
	return user, nil
}

func (repository *PostgresUserRepository) findOne(context context.Context, action, where string, args ...any) (*User, error) {
	user, err := scanUser(repository.pool.QueryRow(context, userSelect(where), args...))
	if err != nil {
		return nil, dberr.Wrap(err, action, dberr.MsgUserNotFound)
	}
	return user, nil
}

/*
FindByID retrieves a user record by their unique ID.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	return repository.findOne(context, "postgres_user_repo_find_by_id",
		fmt.Sprintf("a.%s = $1", schema.UserAccount.ID), id)
}

/*
FindByEmail retrieves a user record by their unique email address.
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findOne(context, "postgres_user_repo_find_by_email",
		fmt.Sprintf("a.%s = $1", schema.UserAccount.Email), email)
}

/*
FindByUsername retrieves a user record by their unique username.
*/
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	return repository.findOne(context, "postgres_user_repo_find_by_username",
		fmt.Sprintf("a.%s = $1", schema.UserAccount.Username), username)
}

/*
FindByUsernameOrEmail retrieves the first user matching either identity.
*/
func (repository *PostgresUserRepository) FindByUsernameOrEmail(context context.Context, username, email string) (*User, error) {
	return repository.findOne(context, "postgres_user_repo_find_by_identity",
		fmt.Sprintf("a.%s = $1 OR a.%s = $2 LIMIT 1", schema.UserAccount.Username, schema.UserAccount.Email),
		username, email)
}

/*
Create persists a new user record into the users.account table.

Description: Initializes timestamps when they are not provided. A unique
violation on username or email surfaces as apperr.Conflict.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	account := schema.UserAccount
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		account.Table,
		account.ID, account.Username, account.Email, account.FullName, account.Avatar,
		account.CoverImage, account.Password, account.RefreshToken, account.CreatedAt, account.UpdatedAt,
	)

	now := repository.now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.FullName,
		user.Avatar,
		user.CoverImage,
		user.PasswordHash,
		user.RefreshToken,
		user.CreatedAt,
		user.UpdatedAt,
	)
	return dberr.Wrap(err, "postgres_user_repo_create", dberr.MsgUserNotFound)
}

// updateColumn sets one column plus updatedat on a single account.
func (repository *PostgresUserRepository) updateColumn(context context.Context, action, userID, column string, value any) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		schema.UserAccount.Table, column, schema.UserAccount.UpdatedAt, schema.UserAccount.ID)

	tag, err := repository.pool.Exec(context, query, userID, value, repository.now().UTC())
	if err != nil {
		return dberr.Wrap(err, action, dberr.MsgUserNotFound)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(dberr.MsgUserNotFound)
	}
	return nil
}

/*
SetRefreshToken replaces the stored refresh token digest.

Parameters:
  - context: context.Context
  - userID: string
  - digest: *string (nil writes NULL)

Returns:
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) SetRefreshToken(context context.Context, userID string, digest *string) error {
	return repository.updateColumn(context, "postgres_user_repo_set_refresh_token",
		userID, schema.UserAccount.RefreshToken, digest)
}

/*
UpdatePassword replaces the password hash.
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, newHash string) error {
	return repository.updateColumn(context, "postgres_user_repo_update_password",
		userID, schema.UserAccount.Password, newHash)
}
