// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidtube/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidtube/internal/platform/request"
	"github.com/taibuivan/vidtube/internal/platform/respond"
	"github.com/taibuivan/vidtube/internal/users/auth"
)

// # Handler Definition

// Handler implements the HTTP endpoints for a user's own account.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Mount registers the account routes on the shared users router.
//
// # Endpoints
//   - GET   /current-user   : Current user profile.
//   - PATCH /update-account : Full name and email.
//   - PATCH /avatar         : Replaces the avatar (multipart).
//   - PATCH /cover-image    : Replaces the cover image (multipart).
func (handler *Handler) Mount(router chi.Router) {
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/current-user", respond.Handle(handler.getCurrentUser))
		r.Patch("/update-account", respond.Handle(handler.updateAccount))
		r.Patch("/avatar", respond.Handle(handler.updateAvatar))
		r.Patch("/cover-image", respond.Handle(handler.updateCoverImage))
	})
}

// # Request Payloads

type updateAccountRequest struct {
	FullName string `json:"fullname"`
	Email    string `json:"email"`
}

/*
GET /api/v1/users/current-user

Response:
  - 200: auth.User
  - 401: Unauthenticated
*/
func (handler *Handler) getCurrentUser(writer http.ResponseWriter, request *http.Request) (*respond.Reply, error) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		return nil, err
	}

	user, err := handler.accountService.GetCurrentUser(request.Context(), userID)
	if err != nil {
		return nil, err
	}

	return respond.OK(user, MsgCurrentUser), nil
}

/*
PATCH /api/v1/users/update-account

Request:
  - Body: updateAccountRequest (FullName, Email)

Response:
  - 200: auth.User
  - 400: Validation failure or email owned by another account
*/
func (handler *Handler) updateAccount(writer http.ResponseWriter, request *http.Request) (*respond.Reply, error) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		return nil, err
	}

	var input updateAccountRequest
	if err := requestutil.DecodeBody(request, &input); err != nil {
		return nil, err
	}

	user, err := handler.accountService.UpdateAccountDetails(request.Context(), userID, UpdateDetailsInput{
		FullName: input.FullName,
		Email:    input.Email,
	})
	if err != nil {
		return nil, err
	}

	return respond.OK(user, MsgDetailsUpdated), nil
}

/*
PATCH /api/v1/users/avatar

Request:
  - Body: multipart form with an "avatar" image part

Response:
  - 200: auth.User
  - 400: Missing file, non-image file or upload failure
*/
func (handler *Handler) updateAvatar(writer http.ResponseWriter, request *http.Request) (*respond.Reply, error) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		return nil, err
	}

	file, err := requestutil.FormFile(request, auth.FieldAvatar)
	if err != nil {
		return nil, err
	}

	user, err := handler.accountService.UpdateAvatar(request.Context(), userID, file)
	if err != nil {
		return nil, err
	}

	return respond.OK(user, MsgAvatarUpdated), nil
}

/*
PATCH /api/v1/users/cover-image

Request:
  - Body: multipart form with a "coverImage" image part
*/
func (handler *Handler) updateCoverImage(writer http.ResponseWriter, request *http.Request) (*respond.Reply, error) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		return nil, err
	}

	file, err := requestutil.FormFile(request, auth.FieldCoverImage)
	if err != nil {
		return nil, err
	}

	user, err := handler.accountService.UpdateCoverImage(request.Context(), userID, file)
	if err != nil {
		return nil, err
	}

	return respond.OK(user, MsgCoverUpdated), nil
}
