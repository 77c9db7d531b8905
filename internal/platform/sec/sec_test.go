// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidtube/internal/platform/sec"
)

func newTokenService(t *testing.T) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService(sec.TokenConfig{
		Access:  sec.KeyConfig{Secret: "access-secret", TTL: 15 * time.Minute},
		Refresh: sec.KeyConfig{Secret: "refresh-secret", TTL: 240 * time.Hour},
		Issuer:  "vidtube.test",
	})
	require.NoError(t, err)
	return service
}

/*
TestTokenService_AccessRoundTrip verifies identity claims survive signing.
*/
func TestTokenService_AccessRoundTrip(t *testing.T) {
	service := newTokenService(t)

	token, err := service.GenerateAccessToken(sec.AccessSubject{
		UserID:   "u-1",
		Username: "alice",
		Email:    "alice@example.com",
		FullName: "Alice Liddell",
	})
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "Alice Liddell", claims.FullName)
	assert.Equal(t, sec.TokenAccess, claims.Kind)
}

/*
TestTokenService_KindsAreNotInterchangeable verifies each kind has its own secret.
*/
func TestTokenService_KindsAreNotInterchangeable(t *testing.T) {
	service := newTokenService(t)

	refresh, err := service.GenerateRefreshToken("u-1")
	require.NoError(t, err)
	access, err := service.GenerateAccessToken(sec.AccessSubject{UserID: "u-1"})
	require.NoError(t, err)

	_, err = service.Verify(refresh, sec.TokenAccess)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)

	_, err = service.Verify(access, sec.TokenRefresh)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)

	claims, err := service.Verify(refresh, sec.TokenRefresh)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.NotEmpty(t, claims.ID)
}

/*
TestTokenService_RefreshTokensAreUnique verifies back-to-back rotations differ.
*/
func TestTokenService_RefreshTokensAreUnique(t *testing.T) {
	service := newTokenService(t)

	first, err := service.GenerateRefreshToken("u-1")
	require.NoError(t, err)
	second, err := service.GenerateRefreshToken("u-1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

/*
TestTokenService_RejectsTampered verifies garbage and modified tokens fail.
*/
func TestTokenService_RejectsTampered(t *testing.T) {
	service := newTokenService(t)

	token, err := service.GenerateAccessToken(sec.AccessSubject{UserID: "u-1"})
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + ".AAAA" + parts[2][4:]

	for _, candidate := range []string{"", "not-a-jwt", tampered} {
		_, err := service.VerifyToken(candidate)
		assert.ErrorIs(t, err, sec.ErrInvalidToken, candidate)
	}
}

/*
TestTokenService_RejectsForeignIssuer verifies tokens from another issuer fail.
*/
func TestTokenService_RejectsForeignIssuer(t *testing.T) {
	other, err := sec.NewTokenService(sec.TokenConfig{
		Access:  sec.KeyConfig{Secret: "access-secret", TTL: time.Minute},
		Refresh: sec.KeyConfig{Secret: "refresh-secret", TTL: time.Hour},
		Issuer:  "someone-else",
	})
	require.NoError(t, err)

	token, err := other.GenerateAccessToken(sec.AccessSubject{UserID: "u-1"})
	require.NoError(t, err)

	_, err = newTokenService(t).VerifyToken(token)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

/*
TestNewTokenService_RejectsEmptySecrets guards the constructor.
*/
func TestNewTokenService_RejectsEmptySecrets(t *testing.T) {
	_, err := sec.NewTokenService(sec.TokenConfig{
		Access:  sec.KeyConfig{Secret: "", TTL: time.Minute},
		Refresh: sec.KeyConfig{Secret: "x", TTL: time.Minute},
	})
	assert.Error(t, err)
}

/*
TestPasswordHash verifies bcrypt hashing and comparison.
*/
func TestPasswordHash(t *testing.T) {
	hash, err := sec.HashPassword("correct horse")
	require.NoError(t, err)

	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, sec.CheckPasswordHash("correct horse", hash))
	assert.False(t, sec.CheckPasswordHash("wrong", hash))
	assert.False(t, sec.CheckPasswordHash("correct horse", ""))

	_, err = sec.HashPassword(strings.Repeat("x", 80))
	assert.ErrorIs(t, err, sec.ErrPasswordTooLong)
}

/*
TestTokenDigest verifies digests match only the exact token.
*/
func TestTokenDigest(t *testing.T) {
	digest := sec.HashToken("token-a")

	assert.Len(t, digest, 64)
	assert.True(t, sec.TokenMatches("token-a", digest))
	assert.False(t, sec.TokenMatches("token-b", digest))
	assert.False(t, sec.TokenMatches("", digest))
	assert.False(t, sec.TokenMatches("token-a", ""))
}

/*
TestGenerateSecureToken verifies tokens are URL-safe and distinct.
*/
func TestGenerateSecureToken(t *testing.T) {
	first, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)
	second, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NotContains(t, first, "+")
	assert.NotContains(t, first, "/")
	assert.Len(t, first, 43)
}
