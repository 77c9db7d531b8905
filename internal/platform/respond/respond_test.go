// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/respond"
)

func serve(handler respond.HandlerFunc) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	respond.Handle(handler).ServeHTTP(recorder, request)
	return recorder
}

func decode(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

/*
TestHandle_SuccessEnvelope verifies the success shape and cookie emission.
*/
func TestHandle_SuccessEnvelope(t *testing.T) {
	recorder := serve(func(http.ResponseWriter, *http.Request) (*respond.Reply, error) {
		return respond.Created(map[string]string{"id": "1"}, "created").
			WithCookies(&http.Cookie{Name: "accesstoken", Value: "abc"}), nil
	})

	assert.Equal(t, http.StatusCreated, recorder.Code)
	body := decode(t, recorder)
	assert.EqualValues(t, 201, body["statusCode"])
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "created", body["message"])
	assert.Equal(t, map[string]interface{}{"id": "1"}, body["data"])
	assert.NotContains(t, body, "errors")
	assert.Contains(t, recorder.Header().Get("Set-Cookie"), "accesstoken=abc")
}

/*
TestHandle_AppErrorEnvelope verifies client errors keep their status and details.
*/
func TestHandle_AppErrorEnvelope(t *testing.T) {
	recorder := serve(func(http.ResponseWriter, *http.Request) (*respond.Reply, error) {
		return nil, apperr.ValidationError("All fields are required",
			apperr.FieldError{Field: "email", Message: "is required"})
	})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	body := decode(t, recorder)
	assert.Equal(t, false, body["success"])
	assert.Nil(t, body["data"])
	assert.Equal(t, "All fields are required", body["message"])
	assert.Len(t, body["errors"], 1)
}

/*
TestHandle_UnknownErrorIsMasked verifies raw errors become opaque 500s.
*/
func TestHandle_UnknownErrorIsMasked(t *testing.T) {
	recorder := serve(func(http.ResponseWriter, *http.Request) (*respond.Reply, error) {
		return nil, errors.New("pq: relation does not exist")
	})

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	body := decode(t, recorder)
	assert.NotContains(t, recorder.Body.String(), "relation")
	assert.Equal(t, []interface{}{}, body["errors"])
}
