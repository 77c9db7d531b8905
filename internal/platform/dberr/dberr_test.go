// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/dberr"
)

/*
TestWrap_Classification maps both backends' errors onto one taxonomy.
*/
func TestWrap_Classification(t *testing.T) {
	duplicateKey := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}

	tests := []struct {
		name string
		err  error
		code string
	}{
		{"pg_no_rows", pgx.ErrNoRows, apperr.CodeNotFound},
		{"mongo_no_documents", fmt.Errorf("find: %w", mongo.ErrNoDocuments), apperr.CodeNotFound},
		{"pg_unique", &pgconn.PgError{Code: "23505"}, apperr.CodeConflict},
		{"mongo_duplicate", duplicateKey, apperr.CodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := dberr.Wrap(tt.err, "user_find", dberr.MsgUserNotFound)
			ae := apperr.As(wrapped)
			if assert.NotNil(t, ae) {
				assert.Equal(t, tt.code, ae.Code)
			}
		})
	}
}

/*
TestWrap_Unknown keeps unknown errors as wrapped infrastructure failures.
*/
func TestWrap_Unknown(t *testing.T) {
	cause := errors.New("connection reset")
	wrapped := dberr.Wrap(cause, "user_find", dberr.MsgUserNotFound)

	assert.False(t, apperr.IsAppError(wrapped))
	assert.ErrorIs(t, wrapped, cause)
	assert.Contains(t, wrapped.Error(), "user_find_failed")
	assert.NoError(t, dberr.Wrap(nil, "x", "y"))
}
