// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/mail"
	"github.com/taibuivan/vidtube/internal/platform/media"
	"github.com/taibuivan/vidtube/internal/platform/sec"
	"github.com/taibuivan/vidtube/internal/users/auth"
)

// # In-memory User Repository

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]auth.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: map[string]auth.User{}}
}

func (store *memoryUsers) find(match func(auth.User) bool) (*auth.User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, user := range store.users {
		if match(user) {
			copied := user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User not found")
}

func (store *memoryUsers) FindByID(_ context.Context, id string) (*auth.User, error) {
	return store.find(func(user auth.User) bool { return user.ID == id })
}

func (store *memoryUsers) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	return store.find(func(user auth.User) bool { return user.Email == email })
}

func (store *memoryUsers) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	return store.find(func(user auth.User) bool { return user.Username == username })
}

func (store *memoryUsers) FindByUsernameOrEmail(_ context.Context, username, email string) (*auth.User, error) {
	return store.find(func(user auth.User) bool { return user.Username == username || user.Email == email })
}

func (store *memoryUsers) Create(_ context.Context, user *auth.User) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, existing := range store.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return apperr.Conflict(auth.MsgUserExists)
		}
	}
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	store.users[user.ID] = *user
	return nil
}

func (store *memoryUsers) update(userID string, mutate func(*auth.User)) error {
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

func (store *memoryUsers) SetRefreshToken(_ context.Context, userID string, digest *string) error {
	return store.update(userID, func(user *auth.User) { user.RefreshToken = digest })
}

func (store *memoryUsers) UpdatePassword(_ context.Context, userID, newHash string) error {
	return store.update(userID, func(user *auth.User) { user.PasswordHash = newHash })
}

func (store *memoryUsers) get(t *testing.T, id string) auth.User {
	t.Helper()
	store.mu.Lock()
	defer store.mu.Unlock()
	user, ok := store.users[id]
	require.True(t, ok, "user %s not stored", id)
	return user
}

// # In-memory Reset Tokens

type memoryResetTokens struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newMemoryResetTokens() *memoryResetTokens {
	return &memoryResetTokens{tokens: map[string]string{}}
}

func (store *memoryResetTokens) Set(_ context.Context, digest, userID string, _ time.Duration) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.tokens[digest] = userID
	return nil
}

func (store *memoryResetTokens) Get(_ context.Context, digest string) (string, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	userID, ok := store.tokens[digest]
	if !ok {
		return "", apperr.NotFound(auth.MsgResetTokenInvalid)
	}
	return userID, nil
}

func (store *memoryResetTokens) Delete(_ context.Context, digest string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.tokens, digest)
	return nil
}

// # Media, Mail and Metrics Fakes

// fakeUploader fails for any filename listed in failures.
type fakeUploader struct {
	failures map[string]error
	uploaded []string
}

func (uploader *fakeUploader) Upload(_ context.Context, file media.File) (*media.UploadResult, error) {
	if err, ok := uploader.failures[file.Filename]; ok {
		return nil, err
	}
	if _, err := io.ReadAll(file.Body); err != nil {
		return nil, err
	}
	uploader.uploaded = append(uploader.uploaded, file.Filename)
	key := "avatars/" + file.Filename
	return &media.UploadResult{Key: key, URL: "https://cdn.test/" + key}, nil
}

type fakeMailer struct {
	sent []mail.Message
	err  error
}

func (mailer *fakeMailer) Send(_ context.Context, message mail.Message) error {
	if mailer.err != nil {
		return mailer.err
	}
	mailer.sent = append(mailer.sent, message)
	return nil
}

type countingEvents struct {
	mu     sync.Mutex
	counts map[string]int
}

func (events *countingEvents) AuthEvent(event string) {
	events.mu.Lock()
	defer events.mu.Unlock()
	if events.counts == nil {
		events.counts = map[string]int{}
	}
	events.counts[event]++
}

func (events *countingEvents) count(event string) int {
	events.mu.Lock()
	defer events.mu.Unlock()
	return events.counts[event]
}

var errGateway = errors.New("gateway unavailable")

func imageFile(name string) *media.File {
	return &media.File{Filename: name, ContentType: "image/png", Size: 4, Body: strings.NewReader("\x89PNG")}
}

// # Fixture

type fixture struct {
	service  *auth.Service
	users    *memoryUsers
	resets   *memoryResetTokens
	tokens   *sec.TokenService
	uploader *fakeUploader
	mailer   *fakeMailer
	events   *countingEvents
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tokens, err := sec.NewTokenService(sec.TokenConfig{
		Access:  sec.KeyConfig{Secret: "access-secret", TTL: 15 * time.Minute},
		Refresh: sec.KeyConfig{Secret: "refresh-secret", TTL: 240 * time.Hour},
		Issuer:  "vidtube.test",
	})
	require.NoError(t, err)

	f := &fixture{
		users:    newMemoryUsers(),
		resets:   newMemoryResetTokens(),
		tokens:   tokens,
		uploader: &fakeUploader{failures: map[string]error{}},
		mailer:   &fakeMailer{},
		events:   &countingEvents{},
	}
	f.service = auth.NewService(f.users, f.resets, f.tokens, f.uploader, f.mailer, f.events,
		"https://app.test/reset-password")
	return f
}

// staleTokens signs with the fixture's secrets on a clock set back by age.
func staleTokens(t *testing.T, age time.Duration) *sec.TokenService {
	t.Helper()
	tokens, err := sec.NewTokenService(sec.TokenConfig{
		Access:  sec.KeyConfig{Secret: "access-secret", TTL: 15 * time.Minute},
		Refresh: sec.KeyConfig{Secret: "refresh-secret", TTL: 240 * time.Hour},
		Issuer:  "vidtube.test",
		Clock:   func() time.Time { return time.Now().Add(-age) },
	})
	require.NoError(t, err)
	return tokens
}

// register creates alice with password "correct-horse".
func (f *fixture) register(t *testing.T) *auth.User {
	t.Helper()
	user, err := f.service.Register(context.Background(), auth.RegisterInput{
		FullName: "Alice Liddell",
		Email:    "alice@example.com",
		Username: "alice",
		Password: "correct-horse",
		Avatar:   imageFile("alice.png"),
	})
	require.NoError(t, err)
	return user
}
