// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidtube/internal/platform/constants"
	"github.com/taibuivan/vidtube/internal/platform/middleware"
	"github.com/taibuivan/vidtube/internal/platform/sec"
	"github.com/taibuivan/vidtube/internal/users/auth"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
	Errors     []any           `json:"errors"`
}

func newRouter(f *fixture) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Authenticate(f.tokens))
	router.Route("/api/v1/users", func(users chi.Router) {
		auth.NewHandler(f.service).Mount(users)
	})
	return router
}

func serve(t *testing.T, handler http.Handler, request *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	var body envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body), recorder.Body.String())
	return recorder, body
}

func jsonRequest(method, path, body string) *http.Request {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	return request
}

func registerRequest(t *testing.T, fields map[string]string, withAvatar bool) *http.Request {
	t.Helper()
	var buffer bytes.Buffer
	writer := multipart.NewWriter(&buffer)
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	if withAvatar {
		part, err := writer.CreateFormFile("avatar", "me.png")
		require.NoError(t, err)
		_, err = part.Write(pngHeader)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	request := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", &buffer)
	request.Header.Set("Content-Type", writer.FormDataContentType())
	return request
}

func cookieByName(recorder *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

var aliceFields = map[string]string{
	"fullname": "Alice Liddell",
	"email":    "alice@example.com",
	"username": "alice",
	"password": "correct-horse",
}

func TestHTTP_Register(t *testing.T) {
	f := newFixture(t)
	router := newRouter(f)

	recorder, body := serve(t, router, registerRequest(t, aliceFields, true))
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	assert.True(t, body.Success)
	assert.Equal(t, http.StatusCreated, body.StatusCode)
	assert.Equal(t, auth.MsgRegistered, body.Message)
	assert.NotContains(t, string(body.Data), "password")
	assert.NotContains(t, string(body.Data), "refreshToken")
	assert.Contains(t, string(body.Data), `"avatar":"https://cdn.test/avatars/me.png"`)

	recorder, body = serve(t, router, registerRequest(t, aliceFields, true))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.False(t, body.Success)
	assert.Equal(t, auth.MsgUserExists, body.Message)
	assert.Equal(t, "null", string(body.Data))
	assert.NotNil(t, body.Errors)
}

func TestHTTP_RegisterWithoutAvatar(t *testing.T) {
	f := newFixture(t)

	recorder, body := serve(t, newRouter(f), registerRequest(t, aliceFields, false))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, auth.MsgAvatarRequired, body.Message)
}

func TestHTTP_LoginRefreshLogout(t *testing.T) {
	f := newFixture(t)
	f.register(t)
	router := newRouter(f)

	// Login sets both cookies.
	recorder, body := serve(t, router, jsonRequest(http.MethodPost, "/api/v1/users/login",
		`{"username":"alice","password":"correct-horse"}`))
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.Equal(t, auth.MsgLoggedIn, body.Message)
	assert.NotContains(t, string(body.Data), "password")

	access := cookieByName(recorder, constants.AccessTokenCookieName)
	refresh := cookieByName(recorder, constants.RefreshTokenCookieName)
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	assert.True(t, access.HttpOnly)
	assert.True(t, access.Secure)
	assert.Equal(t, "/", refresh.Path)
	assert.Equal(t, http.SameSiteLaxMode, refresh.SameSite)
	assert.Equal(t, int(f.tokens.TTL("refresh").Seconds()), refresh.MaxAge)

	// Refresh via cookie rotates.
	request := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", nil)
	request.AddCookie(&http.Cookie{Name: constants.RefreshTokenCookieName, Value: refresh.Value})
	recorder, body = serve(t, router, request)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.Equal(t, auth.MsgTokenRefreshed, body.Message)

	var rotated auth.Session
	require.NoError(t, json.Unmarshal(body.Data, &rotated))
	assert.NotEqual(t, refresh.Value, rotated.RefreshToken)

	// The body fallback still sees the old token as used.
	recorder, body = serve(t, router, jsonRequest(http.MethodPost, "/api/v1/users/refresh-token",
		`{"refreshToken":"`+refresh.Value+`"}`))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, auth.MsgRefreshTokenReused, body.Message)

	// Logout requires an access token and clears both cookies.
	recorder, _ = serve(t, router, httptest.NewRequest(http.MethodPost, "/api/v1/users/logout", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	request = httptest.NewRequest(http.MethodPost, "/api/v1/users/logout", nil)
	request.Header.Set(constants.HeaderAuthorization, "Bearer "+rotated.AccessToken)
	recorder, body = serve(t, router, request)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, auth.MsgLoggedOut, body.Message)
	assert.Equal(t, "{}", string(body.Data))
	cleared := cookieByName(recorder, constants.RefreshTokenCookieName)
	require.NotNil(t, cleared)
	assert.Equal(t, -1, cleared.MaxAge)
}

func login(t *testing.T, router http.Handler) *httptest.ResponseRecorder {
	t.Helper()
	recorder, _ := serve(t, router, jsonRequest(http.MethodPost, "/api/v1/users/login",
		`{"username":"alice","password":"correct-horse"}`))
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	return recorder
}

func TestHTTP_RefreshWithExpiredAccessToken(t *testing.T) {
	f := newFixture(t)
	user := f.register(t)
	router := newRouter(f)

	refresh := cookieByName(login(t, router), constants.RefreshTokenCookieName)
	require.NotNil(t, refresh)

	expired, err := staleTokens(t, time.Hour).GenerateAccessToken(sec.AccessSubject{UserID: user.ID})
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", nil)
	request.Header.Set(constants.HeaderAuthorization, "Bearer "+expired)
	request.AddCookie(&http.Cookie{Name: constants.RefreshTokenCookieName, Value: refresh.Value})

	recorder, body := serve(t, router, request)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.Equal(t, auth.MsgTokenRefreshed, body.Message)

	// The same stale header still cannot reach a protected route.
	request = httptest.NewRequest(http.MethodPost, "/api/v1/users/logout", nil)
	request.Header.Set(constants.HeaderAuthorization, "Bearer "+expired)
	recorder, _ = serve(t, router, request)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestHTTP_RefreshWithLowercaseBodyKey(t *testing.T) {
	f := newFixture(t)
	f.register(t)
	router := newRouter(f)

	refresh := cookieByName(login(t, router), constants.RefreshTokenCookieName)
	require.NotNil(t, refresh)

	request := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token",
		strings.NewReader("refreshtoken="+refresh.Value))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	recorder, body := serve(t, router, request)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var rotated auth.Session
	require.NoError(t, json.Unmarshal(body.Data, &rotated))

	recorder, _ = serve(t, router, jsonRequest(http.MethodPost, "/api/v1/users/refresh-token",
		`{"refreshtoken":"`+rotated.RefreshToken+`"}`))
	assert.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
}

func TestHTTP_LoginWithForm(t *testing.T) {
	f := newFixture(t)
	f.register(t)

	request := httptest.NewRequest(http.MethodPost, "/api/v1/users/login",
		strings.NewReader("email=alice%40example.com&password=wrong"))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	recorder, body := serve(t, newRouter(f), request)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, auth.MsgIncorrectPassword, body.Message)
}

func TestHTTP_ChangePasswordPatch(t *testing.T) {
	f := newFixture(t)
	f.register(t)
	router := newRouter(f)

	recorder, _ := serve(t, router, jsonRequest(http.MethodPost, "/api/v1/users/login",
		`{"email":"alice@example.com","password":"correct-horse"}`))
	access := cookieByName(recorder, constants.AccessTokenCookieName)
	require.NotNil(t, access)

	request := jsonRequest(http.MethodPatch, "/api/v1/users/change-password",
		`{"oldPassword":"correct-horse","newPassword":"battery-staple"}`)
	request.AddCookie(&http.Cookie{Name: constants.AccessTokenCookieName, Value: access.Value})

	recorder, body := serve(t, router, request)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.Equal(t, auth.MsgPasswordChanged, body.Message)
	assert.Equal(t, "{}", string(body.Data))
}

func TestHTTP_ForgotPasswordAlwaysOK(t *testing.T) {
	f := newFixture(t)

	recorder, body := serve(t, newRouter(f), jsonRequest(http.MethodPost, "/api/v1/users/forgot-password",
		`{"email":"ghost@example.com"}`))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, auth.MsgResetRequested, body.Message)
}
