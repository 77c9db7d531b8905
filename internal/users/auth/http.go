// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidtube/internal/platform/constants"
	"github.com/taibuivan/vidtube/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidtube/internal/platform/request"
	"github.com/taibuivan/vidtube/internal/platform/respond"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// Account creation, session lifecycle and password recovery. Every session
// change is returned as cookies on the [respond.Reply].
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Mount registers the authentication routes on the shared users router.
//
// # Endpoints
//   - POST /register        : Creates a new account (multipart).
//   - POST /login           : Issues tokens and cookies.
//   - POST /refresh-token   : Rotates the session.
//   - POST /forgot-password : Emails a reset link.
//   - POST /reset-password  : Sets a new password from a reset token.
//   - POST /logout          : Clears the session (auth).
//   - POST|PATCH /change-password (auth).
func (handler *Handler) Mount(router chi.Router) {

	// Public endpoints
	router.Post("/register", respond.Handle(handler.register))
	router.Post("/login", respond.Handle(handler.login))
	router.Post("/refresh-token", respond.Handle(handler.refreshToken))
	router.Post("/forgot-password", respond.Handle(handler.forgotPassword))
	router.Post("/reset-password", respond.Handle(handler.resetPassword))

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", respond.Handle(handler.logout))
		r.Post("/change-password", respond.Handle(handler.changePassword))
		r.Patch("/change-password", respond.Handle(handler.changePassword))
	})
}

// # Request Payloads

type registerRequest struct {
	FullName string `json:"fullname"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`

	// LegacyRefreshToken is the all-lowercase key older clients send.
	LegacyRefreshToken string `json:"refreshtoken"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

/*
Register handles the creation of a new user account.

POST /api/v1/users/register

Request:
  - Body: multipart form (fullname, email, username, password, avatar, coverImage?)

Response:
  - 201: User: Created user profile
  - 400: Validation, conflict or upload failure
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) (*respond.Reply, error) {
	var input registerRequest
	if err := requestutil.DecodeBody(request, &input); err != nil {
		return nil, err
	}

	avatar, err := requestutil.FormFile(request, FieldAvatar)
	if err != nil {
		return nil, err
	}

	cover, err := requestutil.FormFile(request, FieldCoverImage)
	if err != nil {
		closeFiles(avatar)
		return nil, err
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		FullName:   input.FullName,
		Email:      input.Email,
		Username:   input.Username,
		Password:   input.Password,
		Avatar:     avatar,
		CoverImage: cover,
	})
	if err != nil {
		return nil, err
	}

	return respond.Created(user, MsgRegistered), nil
}

/*
Login authenticates a user and establishes a session.

POST /api/v1/users/login

Request:
  - Body: loginRequest (Email or Username, Password)

Response:
  - 200: {user, accessToken, refreshToken} plus both cookies
  - 401: Incorrect password
  - 404: Unknown user
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) (*respond.Reply, error) {
	var input loginRequest
	if err := requestutil.DecodeBody(request, &input); err != nil {
		return nil, err
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Username: input.Username,
		Password: input.Password,
	})
	if err != nil {
		return nil, err
	}

	return respond.OK(session, MsgLoggedIn).
		WithCookies(sessionCookies(session, handler.authService.TokenTTL)...), nil
}

/*
Logout terminates the current user session.

POST /api/v1/users/logout

Response:
  - 200: {} and cleared cookies
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) (*respond.Reply, error) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		return nil, err
	}

	if err := handler.authService.Logout(request.Context(), userID); err != nil {
		return nil, err
	}

	return respond.OK(struct{}{}, MsgLoggedOut).WithCookies(clearedCookies()...), nil
}

/*
RefreshToken rotates the session.

POST /api/v1/users/refresh-token

Description: The refresh token is read from the refreshtoken cookie, falling
back to the refreshToken (or lowercase refreshtoken) body field.

Response:
  - 200: {accessToken, refreshToken} plus both cookies
  - 401: Missing, invalid or already used refresh token
*/
func (handler *Handler) refreshToken(writer http.ResponseWriter, request *http.Request) (*respond.Reply, error) {
	token := requestutil.Cookie(request, constants.RefreshTokenCookieName)
	if token == "" {
		var input refreshRequest
		if err := requestutil.DecodeBody(request, &input); err != nil {
			return nil, err
		}
		token = input.RefreshToken
		if token == "" {
			token = input.LegacyRefreshToken
		}
	}

	session, err := handler.authService.Refresh(request.Context(), token)
	if err != nil {
		return nil, err
	}

	return respond.OK(session, MsgTokenRefreshed).
		WithCookies(sessionCookies(session, handler.authService.TokenTTL)...), nil
}

/*
ChangePassword updates the authenticated user's password.

POST|PATCH /api/v1/users/change-password

Request:
  - Body: changePasswordRequest (OldPassword, NewPassword)

Response:
  - 200: {}
  - 400: Validation failure
  - 401: Invalid old password
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) (*respond.Reply, error) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		return nil, err
	}

	var input changePasswordRequest
	if err := requestutil.DecodeBody(request, &input); err != nil {
		return nil, err
	}

	err = handler.authService.ChangePassword(request.Context(), userID, ChangePasswordInput{
		OldPassword: input.OldPassword,
		NewPassword: input.NewPassword,
	})
	if err != nil {
		return nil, err
	}

	return respond.OK(struct{}{}, MsgPasswordChanged), nil
}

/*
ForgotPassword initiates the password recovery flow.

POST /api/v1/users/forgot-password

Response:
  - 200: {} whether or not the email is registered
  - 400: Invalid email format
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) (*respond.Reply, error) {
	var input forgotPasswordRequest
	if err := requestutil.DecodeBody(request, &input); err != nil {
		return nil, err
	}

	if err := handler.authService.ForgotPassword(request.Context(), input.Email); err != nil {
		return nil, err
	}

	return respond.OK(struct{}{}, MsgResetRequested), nil
}

/*
ResetPassword completes the password recovery flow.

POST /api/v1/users/reset-password

Response:
  - 200: {}
  - 400: Invalid token or weak password
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) (*respond.Reply, error) {
	var input resetPasswordRequest
	if err := requestutil.DecodeBody(request, &input); err != nil {
		return nil, err
	}

	err := handler.authService.ResetPassword(request.Context(), ResetPasswordInput{
		Token:    input.Token,
		Password: input.Password,
	})
	if err != nil {
		return nil, err
	}

	return respond.OK(struct{}{}, MsgPasswordReset), nil
}
