// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond provides HTTP response helpers used by all API handlers.
//
// # Architecture
//
// This package centralizes the presentation logic for HTTP responses.
// Every response (Success or Error) follows one JSON envelope:
//
//	{"statusCode": 200, "data": {...}, "message": "...", "success": true}
//
// Errors use the same shape with "data": null, "success": false and an
// "errors" array of field-level details.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/ctxutil"
)

// SuccessEnvelope is the JSON envelope for successful responses.
type SuccessEnvelope struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

// ErrorEnvelope is the JSON envelope for error responses.
type ErrorEnvelope struct {
	StatusCode int                 `json:"statusCode"`
	Data       interface{}         `json:"data"`
	Message    string              `json:"message"`
	Success    bool                `json:"success"`
	Errors     []apperr.FieldError `json:"errors"`
}

// Reply is what a handler produces on success.
//
// Cookies are part of the reply so that session state changes are visible in
// the handler's return value rather than hidden in writer side effects.
type Reply struct {
	Status  int
	Data    interface{}
	Message string
	Cookies []*http.Cookie
}

// OK builds a 200 reply.
func OK(data interface{}, message string) *Reply {
	return &Reply{Status: http.StatusOK, Data: data, Message: message}
}

// Created builds a 201 reply.
func Created(data interface{}, message string) *Reply {
	return &Reply{Status: http.StatusCreated, Data: data, Message: message}
}

// WithCookies attaches cookies to the reply.
func (reply *Reply) WithCookies(cookies ...*http.Cookie) *Reply {
	reply.Cookies = append(reply.Cookies, cookies...)
	return reply
}

// HandlerFunc is the signature of every API handler.
type HandlerFunc func(writer http.ResponseWriter, request *http.Request) (*Reply, error)

// Handle adapts a [HandlerFunc] to [http.HandlerFunc].
//
// It is the single place where errors become HTTP responses.
func Handle(handler HandlerFunc) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		reply, err := handler(writer, request)
		if err != nil {
			Error(writer, request, err)
			return
		}
		Write(writer, reply)
	}
}

// Write renders a successful [Reply], cookies first.
func Write(writer http.ResponseWriter, reply *Reply) {
	if reply == nil {
		reply = OK(struct{}{}, "")
	}
	for _, cookie := range reply.Cookies {
		http.SetCookie(writer, cookie)
	}

	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}

	data := reply.Data
	if data == nil {
		data = struct{}{}
	}

	JSON(writer, status, SuccessEnvelope{
		StatusCode: status,
		Data:       data,
		Message:    reply.Message,
		Success:    status < http.StatusBadRequest,
	})
}

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload interface{}) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// Error converts any Go error into a standardized JSON API error response.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	logger := ctxutil.GetLogger(request.Context())

	appError := apperr.As(err)
	if appError == nil {
		// Unexpected internal error: log full details but hide them from the client.
		logger.ErrorContext(request.Context(), "unhandled_error_swallowed",
			slog.String("error", err.Error()),
		)
		appError = apperr.Internal(err)
	}

	if appError.HTTPStatus >= http.StatusInternalServerError {
		logger.ErrorContext(request.Context(), "api_server_error",
			slog.String("code", appError.Code),
			slog.Any("cause", appError.Cause),
		)
	}

	details := appError.Details
	if details == nil {
		details = []apperr.FieldError{}
	}

	JSON(writer, appError.HTTPStatus, ErrorEnvelope{
		StatusCode: appError.HTTPStatus,
		Data:       nil,
		Message:    appError.Message,
		Success:    false,
		Errors:     details,
	})
}
