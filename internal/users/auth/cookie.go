// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/taibuivan/vidtube/internal/platform/constants"
	"github.com/taibuivan/vidtube/internal/platform/sec"
)

// tokenCookie builds an auth cookie that lives exactly as long as its token.
func tokenCookie(name, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     constants.AuthCookiePath,
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl / time.Second),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// expiredCookie instructs the client to drop the named cookie.
func expiredCookie(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     constants.AuthCookiePath,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// sessionCookies returns the access and refresh cookies for session.
func sessionCookies(session *Session, ttl func(sec.TokenKind) time.Duration) []*http.Cookie {
	return []*http.Cookie{
		tokenCookie(constants.AccessTokenCookieName, session.AccessToken, ttl(sec.TokenAccess)),
		tokenCookie(constants.RefreshTokenCookieName, session.RefreshToken, ttl(sec.TokenRefresh)),
	}
}

// clearedCookies returns cookies that remove both auth cookies.
func clearedCookies() []*http.Cookie {
	return []*http.Cookie{
		expiredCookie(constants.AccessTokenCookieName),
		expiredCookie(constants.RefreshTokenCookieName),
	}
}
