// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/media"
	"github.com/taibuivan/vidtube/internal/users/account"
	"github.com/taibuivan/vidtube/internal/users/auth"
)

// # Fakes

type memoryAccounts struct {
	mu    sync.Mutex
	users map[string]auth.User
}

func newMemoryAccounts(users ...auth.User) *memoryAccounts {
	store := &memoryAccounts{users: map[string]auth.User{}}
	for _, user := range users {
		store.users[user.ID] = user
	}
	return store
}

func (store *memoryAccounts) FindByID(_ context.Context, id string) (*auth.User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	user, ok := store.users[id]
	if !ok {
		return nil, apperr.NotFound("User not found")
	}
	return &user, nil
}

func (store *memoryAccounts) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, user := range store.users {
		if user.Email == email {
			copied := user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User not found")
}

func (store *memoryAccounts) update(userID string, mutate func(*auth.User)) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	user, ok := store.users[userID]
	if !ok {
		return apperr.NotFound("User not found")
	}
	mutate(&user)
	store.users[userID] = user
	return nil
}

func (store *memoryAccounts) UpdateDetails(_ context.Context, userID, fullName, email string) error {
	return store.update(userID, func(user *auth.User) {
		user.FullName = fullName
		user.Email = email
	})
}

func (store *memoryAccounts) UpdateAvatar(_ context.Context, userID, url string) error {
	return store.update(userID, func(user *auth.User) { user.Avatar = url })
}

func (store *memoryAccounts) UpdateCoverImage(_ context.Context, userID, url string) error {
	return store.update(userID, func(user *auth.User) { user.CoverImage = url })
}

type stubUploader struct {
	url string
	err error
}

func (uploader stubUploader) Upload(_ context.Context, file media.File) (*media.UploadResult, error) {
	if uploader.err != nil {
		return nil, uploader.err
	}
	return &media.UploadResult{Key: file.Filename, URL: uploader.url}, nil
}

func png() *media.File {
	return &media.File{Filename: "new.png", ContentType: "image/png", Size: 4, Body: strings.NewReader("\x89PNG")}
}

var (
	alice = auth.User{ID: "u-alice", Username: "alice", Email: "alice@example.com", FullName: "Alice", Avatar: "https://cdn.test/a.png", WatchHistory: []string{}}
	bob   = auth.User{ID: "u-bob", Username: "bob", Email: "bob@example.com", FullName: "Bob", Avatar: "https://cdn.test/b.png", WatchHistory: []string{}}
)

func requireCode(t *testing.T, err error, code string) *apperr.AppError {
	t.Helper()
	appError := apperr.As(err)
	require.NotNil(t, appError, "expected AppError, got %v", err)
	assert.Equal(t, code, appError.Code)
	return appError
}

// # Tests

func TestGetCurrentUser(t *testing.T) {
	service := account.NewService(newMemoryAccounts(alice), stubUploader{})

	user, err := service.GetCurrentUser(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = service.GetCurrentUser(context.Background(), "missing")
	requireCode(t, err, apperr.CodeNotFound)
}

func TestUpdateAccountDetails(t *testing.T) {
	store := newMemoryAccounts(alice, bob)
	service := account.NewService(store, stubUploader{})
	ctx := context.Background()

	t.Run("blank_fields", func(t *testing.T) {
		_, err := service.UpdateAccountDetails(ctx, alice.ID, account.UpdateDetailsInput{FullName: " ", Email: ""})
		appError := requireCode(t, err, apperr.CodeValidation)
		assert.Equal(t, account.MsgFieldsRequired, appError.Message)
		assert.Len(t, appError.Details, 2)
	})

	t.Run("invalid_email", func(t *testing.T) {
		_, err := service.UpdateAccountDetails(ctx, alice.ID, account.UpdateDetailsInput{FullName: "A", Email: "nope"})
		requireCode(t, err, apperr.CodeValidation)
	})

	t.Run("email_owned_by_other_user", func(t *testing.T) {
		_, err := service.UpdateAccountDetails(ctx, alice.ID, account.UpdateDetailsInput{FullName: "A", Email: "BOB@example.com"})
		appError := requireCode(t, err, apperr.CodeConflict)
		assert.Equal(t, account.MsgEmailTaken, appError.Message)
	})

	t.Run("keeps_own_email", func(t *testing.T) {
		user, err := service.UpdateAccountDetails(ctx, alice.ID, account.UpdateDetailsInput{FullName: " Alice L. ", Email: "alice@example.com"})
		require.NoError(t, err)
		assert.Equal(t, "Alice L.", user.FullName)
	})

	t.Run("new_email_normalized", func(t *testing.T) {
		user, err := service.UpdateAccountDetails(ctx, alice.ID, account.UpdateDetailsInput{FullName: "Alice", Email: " Alice@New.Example "})
		require.NoError(t, err)
		assert.Equal(t, "alice@new.example", user.Email)
	})
}

func TestUpdateImages(t *testing.T) {
	ctx := context.Background()

	t.Run("avatar_missing", func(t *testing.T) {
		service := account.NewService(newMemoryAccounts(alice), stubUploader{url: "https://cdn.test/new.png"})
		_, err := service.UpdateAvatar(ctx, alice.ID, nil)
		appError := requireCode(t, err, apperr.CodeValidation)
		assert.Equal(t, account.MsgAvatarMissing, appError.Message)
	})

	t.Run("cover_missing", func(t *testing.T) {
		service := account.NewService(newMemoryAccounts(alice), stubUploader{url: "https://cdn.test/new.png"})
		_, err := service.UpdateCoverImage(ctx, alice.ID, nil)
		appError := requireCode(t, err, apperr.CodeValidation)
		assert.Equal(t, account.MsgCoverMissing, appError.Message)
	})

	t.Run("upload_error", func(t *testing.T) {
		service := account.NewService(newMemoryAccounts(alice), stubUploader{err: errors.New("s3 down")})
		_, err := service.UpdateAvatar(ctx, alice.ID, png())
		appError := requireCode(t, err, apperr.CodeUpload)
		assert.Equal(t, account.MsgAvatarUploadFailed, appError.Message)
	})

	t.Run("empty_url", func(t *testing.T) {
		service := account.NewService(newMemoryAccounts(alice), stubUploader{url: ""})
		_, err := service.UpdateCoverImage(ctx, alice.ID, png())
		requireCode(t, err, apperr.CodeUpload)
		assert.ErrorIs(t, err, media.ErrEmptyURL)
	})

	t.Run("replaces_urls", func(t *testing.T) {
		store := newMemoryAccounts(alice)
		service := account.NewService(store, stubUploader{url: "https://cdn.test/new.png"})

		user, err := service.UpdateAvatar(ctx, alice.ID, png())
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.test/new.png", user.Avatar)

		user, err = service.UpdateCoverImage(ctx, alice.ID, png())
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.test/new.png", user.CoverImage)
		assert.Equal(t, "alice", user.Username)
	})
}
