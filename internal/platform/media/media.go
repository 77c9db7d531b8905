// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package media is the gateway to durable object storage for user images.

Handlers turn multipart parts into a [File]; services hand that file to an
[Uploader] and persist only the returned URL. Replaced objects are never
deleted here.
*/
package media

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

// ErrEmptyURL is returned when the backend accepted an object but produced no URL.
var ErrEmptyURL = errors.New("media: upload produced an empty url")

// File is one uploaded part.
type File struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Ext returns the lowercase filename extension, or "" when there is none.
func (file File) Ext() string {
	ext := strings.ToLower(path.Ext(file.Filename))
	if len(ext) > 8 || strings.ContainsAny(ext, "/\\ ") {
		return ""
	}
	return ext
}

// Close releases the underlying part when it holds an open file.
func (file *File) Close() error {
	if closer, ok := file.Body.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// UploadResult describes a stored object.
type UploadResult struct {
	Key string
	URL string
}

// Uploader stores a file and returns where it can be fetched.
type Uploader interface {
	Upload(context context.Context, file File) (*UploadResult, error)
}

/*
UploadURL stores file through uploader and returns its durable URL.

The file is closed afterwards. A backend that reports success without a URL
yields [ErrEmptyURL].
*/
func UploadURL(context context.Context, uploader Uploader, file *File) (string, error) {
	defer file.Close()

	result, err := uploader.Upload(context, *file)
	if err != nil {
		return "", err
	}
	if result == nil || result.URL == "" {
		return "", ErrEmptyURL
	}
	return result.URL, nil
}

// ErrStorageDisabled is returned by [DisabledUploader].
var ErrStorageDisabled = errors.New("media: object storage is not configured")

// DisabledUploader rejects every upload. It stands in when no bucket is configured.
type DisabledUploader struct{}

// Upload always fails with [ErrStorageDisabled].
func (DisabledUploader) Upload(context context.Context, file File) (*UploadResult, error) {
	return nil, ErrStorageDisabled
}
