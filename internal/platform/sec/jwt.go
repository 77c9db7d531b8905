// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. Access and refresh tokens are HS256 JWTs signed with two
// independent secrets, so a leaked access secret cannot mint refresh tokens.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for every verification failure.
//
// Callers never need to distinguish expiry from a bad signature; both end the
// session the same way.
var ErrInvalidToken = errors.New("invalid token")

// TokenKind selects which secret and TTL a token is bound to.
type TokenKind string

const (
	TokenAccess  TokenKind = "access"
	TokenRefresh TokenKind = "refresh"
)

// AuthClaims represents the payload embedded inside a JWT.
//
// Access tokens carry the identity fields so that [middleware.Authenticate]
// can build the request identity without a store round-trip. Refresh tokens
// carry only the user id and a unique token id.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	UserID   string    `json:"uid"`
	Username string    `json:"unm,omitempty"`
	Email    string    `json:"eml,omitempty"`
	FullName string    `json:"fnm,omitempty"`
	Kind     TokenKind `json:"typ"`
}

// AccessSubject is the identity snapshot embedded in an access token.
type AccessSubject struct {
	UserID   string
	Username string
	Email    string
	FullName string
}

// KeyConfig is the signing material for one token kind.
type KeyConfig struct {
	Secret string
	TTL    time.Duration
}

// TokenConfig configures a [TokenService].
type TokenConfig struct {
	Access  KeyConfig
	Refresh KeyConfig
	Issuer  string

	// Clock overrides the time source. Nil means [time.Now].
	Clock func() time.Time
}

// TokenService handles generation and verification of JWT tokens using HS256.
type TokenService struct {
	keys   map[TokenKind]KeyConfig
	issuer string
	now    func() time.Time
}

// NewTokenService creates a new TokenService.
func NewTokenService(config TokenConfig) (*TokenService, error) {
	if config.Access.Secret == "" || config.Refresh.Secret == "" {
		return nil, errors.New("sec: token secrets must not be empty")
	}
	if config.Access.TTL <= 0 || config.Refresh.TTL <= 0 {
		return nil, errors.New("sec: token ttl must be positive")
	}

	clock := config.Clock
	if clock == nil {
		clock = time.Now
	}

	return &TokenService{
		keys: map[TokenKind]KeyConfig{
			TokenAccess:  config.Access,
			TokenRefresh: config.Refresh,
		},
		issuer: config.Issuer,
		now:    clock,
	}, nil
}

// TTL returns the configured lifetime of the given token kind.
func (service *TokenService) TTL(kind TokenKind) time.Duration {
	return service.keys[kind].TTL
}

// GenerateAccessToken creates a new JWT access token for a user.
func (service *TokenService) GenerateAccessToken(subject AccessSubject) (string, error) {
	return service.sign(TokenAccess, AuthClaims{
		UserID:   subject.UserID,
		Username: subject.Username,
		Email:    subject.Email,
		FullName: subject.FullName,
	})
}

// GenerateRefreshToken creates a new JWT refresh token for a user.
//
// Every token gets a fresh jti, so two rotations inside the same second still
// produce different strings.
func (service *TokenService) GenerateRefreshToken(userID string) (string, error) {
	claims := AuthClaims{UserID: userID}
	claims.ID = uuid.NewString()
	return service.sign(TokenRefresh, claims)
}

func (service *TokenService) sign(kind TokenKind, claims AuthClaims) (string, error) {
	key := service.keys[kind]
	currentTime := service.now()

	claims.Kind = kind
	claims.Subject = claims.UserID
	claims.Issuer = service.issuer
	claims.IssuedAt = jwt.NewNumericDate(currentTime)
	claims.ExpiresAt = jwt.NewNumericDate(currentTime.Add(key.TTL))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(key.Secret))
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign %s token: %w", kind, err)
	}

	return signedToken, nil
}

// Verify checks the signature, issuer, expiry and kind of a JWT string.
func (service *TokenService) Verify(tokenString string, kind TokenKind) (*AuthClaims, error) {
	key, ok := service.keys[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown token kind %q", ErrInvalidToken, kind)
	}

	claims := &AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(key.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(service.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(service.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid || claims.Kind != kind || claims.UserID == "" {
		return nil, fmt.Errorf("%w: claims rejected", ErrInvalidToken)
	}

	return claims, nil
}

// VerifyToken verifies an access token. It satisfies the middleware's TokenVerifier.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	return service.Verify(tokenString, TokenAccess)
}
