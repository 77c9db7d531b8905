// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Config configures an S3-compatible bucket (AWS, MinIO, Cloudflare R2).
type S3Config struct {
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
	KeyPrefix     string
}

// objectPutter is the subset of *s3.Client the uploader needs.
type objectPutter interface {
	PutObject(context context.Context, input *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader stores images in a single bucket.
type S3Uploader struct {
	client  objectPutter
	bucket  string
	baseURL string
	prefix  string
	now     func() time.Time
}

// NewS3Uploader builds an uploader with static credentials and path-style addressing.
func NewS3Uploader(context context.Context, cfg S3Config) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("media: bucket is required")
	}

	options := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		options = append(options, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context, options...)
	if err != nil {
		return nil, fmt.Errorf("media: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true
	})

	return newS3Uploader(client, cfg), nil
}

func newS3Uploader(client objectPutter, cfg S3Config) *S3Uploader {
	baseURL := strings.TrimRight(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		endpoint := cfg.Endpoint
		if endpoint == "" {
			endpoint = fmt.Sprintf("https://s3.%s.amazonaws.com", cfg.Region)
		}
		baseURL = strings.TrimRight(endpoint, "/") + "/" + cfg.Bucket
	}

	prefix := strings.Trim(cfg.KeyPrefix, "/")
	if prefix == "" {
		prefix = "uploads"
	}

	return &S3Uploader{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: baseURL,
		prefix:  prefix,
		now:     time.Now,
	}
}

// Upload puts the file under a fresh date-partitioned key.
func (uploader *S3Uploader) Upload(context context.Context, file File) (*UploadResult, error) {
	if file.Body == nil {
		return nil, errors.New("media: file body is nil")
	}

	body, size, err := seekable(file)
	if err != nil {
		return nil, err
	}

	key := uploader.objectKey(file)

	_, err = uploader.client.PutObject(context, &s3.PutObjectInput{
		Bucket:        aws.String(uploader.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(file.ContentType),
	})
	if err != nil {
		return nil, fmt.Errorf("media: put object %s: %w", key, err)
	}

	return &UploadResult{Key: key, URL: uploader.baseURL + "/" + key}, nil
}

func (uploader *S3Uploader) objectKey(file File) string {
	return fmt.Sprintf("%s/%s/%s%s",
		uploader.prefix,
		uploader.now().UTC().Format("2006/01/02"),
		uuid.NewString(),
		file.Ext(),
	)
}

// seekable returns a body SigV4 can hash, plus its length.
func seekable(file File) (io.ReadSeeker, int64, error) {
	if readSeeker, ok := file.Body.(io.ReadSeeker); ok && file.Size > 0 {
		return readSeeker, file.Size, nil
	}

	data, err := io.ReadAll(file.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("media: read upload: %w", err)
	}
	return bytes.NewReader(data), int64(len(data)), nil
}
