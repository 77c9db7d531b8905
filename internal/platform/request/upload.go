// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/media"
)

// multipartMemory is how much of a multipart body is kept in memory before
// parts spill to temporary files.
const multipartMemory = 4 << 20

// sniffLen is the prefix size net/http inspects to detect a content type.
const sniffLen = 512

/*
FormFile reads an optional image part from a multipart request.

The request body must already be parsed (see [DecodeBody]) or parseable.
A missing part yields (nil, nil). A part that is not an image yields a
ValidationError naming the field.

Returns:
  - *media.File: ready for [media.Uploader.Upload]
  - error: apperr.ValidationError on malformed or non-image parts
*/
func FormFile(request *http.Request, field string) (*media.File, error) {
	if request.MultipartForm == nil {
		if err := request.ParseMultipartForm(multipartMemory); err != nil {
			if errors.Is(err, http.ErrNotMultipart) {
				return nil, nil
			}
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return nil, apperr.ValidationError("Uploaded file is too large")
			}
			return nil, apperr.ValidationError("Invalid multipart payload")
		}
	}

	headers := request.MultipartForm.File[field]
	if len(headers) == 0 {
		return nil, nil
	}

	return openImage(field, headers[0])
}

func openImage(field string, header *multipart.FileHeader) (*media.File, error) {
	if header.Size == 0 {
		return nil, apperr.ValidationError("Uploaded file is empty", apperr.FieldError{
			Field: field, Message: "File is empty",
		})
	}

	file, err := header.Open()
	if err != nil {
		return nil, apperr.Internal(err)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		_ = file.Close()
		return nil, apperr.Internal(err)
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	if !strings.HasPrefix(contentType, "image/") {
		_ = file.Close()
		return nil, apperr.ValidationError("Only image uploads are allowed", apperr.FieldError{
			Field: field, Message: "Must be an image",
		})
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		_ = file.Close()
		return nil, apperr.Internal(err)
	}

	return &media.File{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Body:        file,
	}, nil
}
