// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// Both credential store backends funnel their driver errors through [Wrap], so
// a missing row and a missing document look identical to the service layer.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
)

// pgUniqueViolation is the SQLSTATE for a unique constraint failure.
const pgUniqueViolation = "23505"

// Messages used when a driver error is classified.
const (
	MsgUserNotFound = "User not found"
	MsgUserExists   = "User already exists with the provided email or username"
)

// Wrap inspects a database error and classifies it.
//
//   - no row / no document → apperr.NotFound(notFound)
//   - unique violation / duplicate key → apperr.Conflict(MsgUserExists)
//   - anything else → "<action>_failed: <err>" for the caller to surface as 500
func Wrap(err error, action, notFound string) error {
	if err == nil {
		return nil
	}

	if IsNoRows(err) {
		return apperr.NotFound(notFound).WithCause(err)
	}

	if IsDuplicate(err) {
		return apperr.Conflict(MsgUserExists).WithCause(err)
	}

	return fmt.Errorf("%s_failed: %w", action, err)
}

// IsNoRows reports whether err means "nothing matched" in either backend.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, mongo.ErrNoDocuments)
}

// IsDuplicate reports whether err is a unique-index violation in either backend.
func IsDuplicate(err error) bool {
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) && pgError.Code == pgUniqueViolation {
		return true
	}
	return mongo.IsDuplicateKeyError(err)
}
