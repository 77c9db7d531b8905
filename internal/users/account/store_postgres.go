// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/database/schema"
	"github.com/taibuivan/vidtube/internal/platform/dberr"
	"github.com/taibuivan/vidtube/internal/users/auth"
)

// # Repository Implementations

// PostgresAccountRepository implements [AccountRepository] using pgx.
//
// Reads are inherited from [auth.PostgresUserRepository].
type PostgresAccountRepository struct {
	*auth.PostgresUserRepository
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new Postgres implementation for profile management.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{
		PostgresUserRepository: auth.NewUserRepository(pool),
		pool:                   pool,
	}
}

/*
UpdateDetails writes fullname and email in a single statement.

Returns:
  - error: apperr.Conflict on a duplicate email, apperr.NotFound, or database errors
*/
func (repository *PostgresAccountRepository) UpdateDetails(context context.Context, userID, fullName, email string) error {
	account := schema.UserAccount
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4 WHERE %s = $1`,
		account.Table, account.FullName, account.Email, account.UpdatedAt, account.ID)

	tag, err := repository.pool.Exec(context, query, userID, fullName, email, time.Now().UTC())
	if err != nil {
		return dberr.Wrap(err, "postgres_account_repo_update_details", dberr.MsgUserNotFound)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(dberr.MsgUserNotFound)
	}
	return nil
}

// UpdateAvatar replaces the avatar column.
func (repository *PostgresAccountRepository) UpdateAvatar(context context.Context, userID, url string) error {
	return repository.updateImage(context, "postgres_account_repo_update_avatar", schema.UserAccount.Avatar, userID, url)
}

// UpdateCoverImage replaces the coverimage column.
func (repository *PostgresAccountRepository) UpdateCoverImage(context context.Context, userID, url string) error {
	return repository.updateImage(context, "postgres_account_repo_update_cover", schema.UserAccount.CoverImage, userID, url)
}

func (repository *PostgresAccountRepository) updateImage(context context.Context, action, column, userID, url string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		schema.UserAccount.Table, column, schema.UserAccount.UpdatedAt, schema.UserAccount.ID)

	tag, err := repository.pool.Exec(context, query, userID, url, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%s_failed: %w", action, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(dberr.MsgUserNotFound)
	}
	return nil
}
