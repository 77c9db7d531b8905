// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidtube/internal/platform/config"
	"github.com/taibuivan/vidtube/internal/platform/constants"
)

func baseEnv() map[string]string {
	return map[string]string{
		"REDIS_URL":            "redis://localhost:6379/0",
		"MONGO_URI":            "mongodb://localhost:27017",
		"ACCESS_TOKEN_SECRET":  "access",
		"REFRESH_TOKEN_SECRET": "refresh",
	}
}

/*
TestLoad_Defaults verifies the defaults applied to a minimal environment.
*/
func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.LoadFrom(baseEnv())
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.ServerPort)
	assert.Equal(t, config.DriverMongo, cfg.StoreDriver)
	assert.Equal(t, "vidtube", cfg.MongoDatabase)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenExpiry)
	assert.Equal(t, 240*time.Hour, cfg.RefreshTokenExpiry)
	assert.EqualValues(t, constants.DefaultMaxUploadBytes, cfg.MaxUploadBytes)
	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.MediaEnabled())
	assert.False(t, cfg.MailEnabled())
}

/*
TestLoad_CORSList verifies comma separated origins.
*/
func TestLoad_CORSList(t *testing.T) {
	environment := baseEnv()
	environment["CORS_ORIGIN"] = "http://localhost:5173,https://vidtube.app"

	cfg, err := config.LoadFrom(environment)
	require.NoError(t, err)
	assert.Equal(t, []string{"http://localhost:5173", "https://vidtube.app"}, cfg.CORSOrigin)
}

/*
TestLoad_Rejects covers the cross-field rules.
*/
func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]string)
	}{
		{"missing_redis", func(e map[string]string) { delete(e, "REDIS_URL") }},
		{"missing_access_secret", func(e map[string]string) { delete(e, "ACCESS_TOKEN_SECRET") }},
		{"same_secrets", func(e map[string]string) { e["REFRESH_TOKEN_SECRET"] = "access" }},
		{"unknown_driver", func(e map[string]string) { e["STORE_DRIVER"] = "sqlite" }},
		{"mongo_without_uri", func(e map[string]string) { delete(e, "MONGO_URI") }},
		{"postgres_without_url", func(e map[string]string) { e["STORE_DRIVER"] = "postgres" }},
		{"bad_duration", func(e map[string]string) { e["ACCESS_TOKEN_EXPIRY"] = "soon" }},
		{"production_without_bucket", func(e map[string]string) {
			e["ENVIRONMENT"] = "production"
			e["SMTP_HOST"] = "smtp.test"
		}},
		{"production_without_smtp", func(e map[string]string) {
			e["ENVIRONMENT"] = "production"
			e["S3_BUCKET"] = "media"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			environment := baseEnv()
			tt.mutate(environment)

			_, err := config.LoadFrom(environment)
			assert.Error(t, err)
		})
	}
}

/*
TestLoad_Postgres accepts a complete postgres configuration.
*/
func TestLoad_Postgres(t *testing.T) {
	environment := baseEnv()
	environment["STORE_DRIVER"] = "postgres"
	environment["DATABASE_URL"] = "postgres://localhost/vidtube"
	delete(environment, "MONGO_URI")

	cfg, err := config.LoadFrom(environment)
	require.NoError(t, err)
	assert.Equal(t, "./data/migrations", cfg.MigrationPath)
}

/*
TestLoad_Production accepts production once storage and mail are configured.
*/
func TestLoad_Production(t *testing.T) {
	environment := baseEnv()
	environment["ENVIRONMENT"] = "production"
	environment["S3_BUCKET"] = "media"
	environment["SMTP_HOST"] = "smtp.test"

	cfg, err := config.LoadFrom(environment)
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}
