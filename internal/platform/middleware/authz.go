// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/constants"
	"github.com/taibuivan/vidtube/internal/platform/ctxutil"
	"github.com/taibuivan/vidtube/internal/platform/respond"
	"github.com/taibuivan/vidtube/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify access tokens in middleware.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// Authenticate extracts and verifies the access token.
//
// # Flow
//  1. Take the token from 'Authorization: Bearer <token>', else from the
//     access token cookie. The header wins when both are present.
//  2. If neither is present, the request proceeds as anonymous.
//  3. Otherwise verify it via [TokenVerifier]. A malformed, expired or
//     forged token also proceeds as anonymous; [RequireAuth] answers 401.
//  4. Inject [*sec.AuthClaims] into the request context for downstream use.
//
// Verification is stateless: no store lookup happens here.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			token, ok := accessToken(request)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if token == "" {
				if !ok {
					ctxutil.GetLogger(request.Context()).Debug("access_token_malformed")
				}
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Token Verification ─────────────────────────────────────────
			claims, err := verifier.VerifyToken(token)
			if err != nil {
				ctxutil.GetLogger(request.Context()).Debug("access_token_rejected", slog.Any("error", err))
				next.ServeHTTP(writer, request)
				return
			}

			// ── 3. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			reportIdentity(ctx, claims.UserID)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// accessToken returns the presented token. ok is false for a malformed header.
func accessToken(request *http.Request) (token string, ok bool) {
	if header := request.Header.Get(constants.HeaderAuthorization); header != "" {
		scheme, value, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(value) == "" {
			return "", false
		}
		return strings.TrimSpace(value), true
	}

	if cookie, err := request.Cookie(constants.AccessTokenCookieName); err == nil {
		return cookie.Value, true
	}

	return "", true
}

// RequireAuth blocks requests that are not authenticated.
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetAuthUser(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Unauthorized request"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}
