// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package channel

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidtube/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidtube/internal/platform/request"
	"github.com/taibuivan/vidtube/internal/platform/respond"
)

// Handler implements the channel read endpoints.
type Handler struct {
	channelService *Service
}

// NewHandler constructs a new channel [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{channelService: service}
}

// Mount registers the channel routes on the shared users router.
//
// # Endpoints
//   - GET /c/{username} : Channel profile (authentication optional).
//   - GET /history      : Watch history (auth).
func (handler *Handler) Mount(router chi.Router) {
	router.Get("/c/{username}", respond.Handle(handler.getChannelProfile))

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/history", respond.Handle(handler.getWatchHistory))
	})
}

/*
GET /api/v1/users/c/{username}

Response:
  - 200: Profile
  - 404: Channel not found
*/
func (handler *Handler) getChannelProfile(writer http.ResponseWriter, request *http.Request) (*respond.Reply, error) {
	// Anonymous viewers are never subscribed.
	var viewerID string
	if claims := requestutil.Claims(request); claims != nil {
		viewerID = claims.UserID
	}

	profile, err := handler.channelService.GetChannelProfile(request.Context(), viewerID, requestutil.Param(request, "username"))
	if err != nil {
		return nil, err
	}

	return respond.OK(profile, MsgChannelFetched), nil
}

/*
GET /api/v1/users/history

Response:
  - 200: []HistoryVideo
*/
func (handler *Handler) getWatchHistory(writer http.ResponseWriter, request *http.Request) (*respond.Reply, error) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		return nil, err
	}

	videos, err := handler.channelService.GetWatchHistory(request.Context(), userID)
	if err != nil {
		return nil, err
	}

	return respond.OK(videos, MsgHistoryFetched), nil
}
