// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/ctxutil"
	"github.com/taibuivan/vidtube/internal/platform/sec"
	"github.com/taibuivan/vidtube/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.ValidationError("Request body too large")
		}
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
DecodeBody decodes a JSON or url-encoded body into target.

Form values are matched against the `json` tag of each string field, so one
request struct serves both encodings. An empty body decodes to the zero value.

Parameters:
  - request: *http.Request
  - target: pointer to a struct with string fields
*/
func DecodeBody(request *http.Request, target interface{}) error {
	mediaType, _, _ := mime.ParseMediaType(request.Header.Get("Content-Type"))

	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := parseForm(request, mediaType); err != nil {
			return err
		}
		bindForm(request, target)
		return nil
	default:
		if request.Body == nil || request.ContentLength == 0 {
			return nil
		}
		return DecodeJSON(request, target)
	}
}

func parseForm(request *http.Request, mediaType string) error {
	var err error
	if mediaType == "multipart/form-data" {
		err = request.ParseMultipartForm(multipartMemory)
	} else {
		err = request.ParseForm()
	}
	if err == nil {
		return nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperr.ValidationError("Request body too large")
	}
	return apperr.ValidationError("Invalid form payload")
}

// bindForm copies form values into string fields keyed by their json tag.
func bindForm(request *http.Request, target interface{}) {
	value := reflect.ValueOf(target)
	if value.Kind() != reflect.Pointer || value.Elem().Kind() != reflect.Struct {
		return
	}

	element := value.Elem()
	fields := element.Type()
	for i := 0; i < fields.NumField(); i++ {
		field := fields.Field(i)
		if field.Type.Kind() != reflect.String || !field.IsExported() {
			continue
		}

		name := strings.Split(field.Tag.Get("json"), ",")[0]
		if name == "" || name == "-" {
			continue
		}

		if _, present := request.Form[name]; present {
			element.Field(i).SetString(request.FormValue(name))
		}
	}
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Claims extracts the authenticated user claims from the request context.

Returns nil if the request is not authenticated.
*/
func Claims(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetAuthUser(request.Context())
}

/*
RequiredClaims ensures the request is authenticated and returns the user claims.

Returns:
  - *sec.AuthClaims: The authenticated user claims
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {

	// Get user claims
	claims := ctxutil.GetAuthUser(request.Context())

	// If the user is not authenticated, return an error
	if claims == nil {
		return nil, apperr.Unauthorized("Unauthorized request")
	}

	return claims, nil
}

/*
RequiredUserID returns the User ID of the currently logged-in user.

Returns:
  - string: User UUID
  - error: apperr.Unauthorized if not authenticated
*/
func RequiredUserID(request *http.Request) (string, error) {
	claims, err := RequiredClaims(request)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

/*
Cookie returns the value of the named cookie, or "" when absent.
*/
func Cookie(request *http.Request, name string) string {
	cookie, err := request.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
