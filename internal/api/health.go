// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/vidtube/internal/platform/respond"
)

// Check pings one dependency.
type Check func(context context.Context) error

// HealthDependencies holds the injectable dependency checkers for the /ready endpoint.
type HealthDependencies struct {
	// StoreName labels the active credential store ("mongo" or "postgres").
	StoreName string

	// CheckStore pings the active credential store.
	CheckStore Check

	// CheckCache pings the Redis client.
	CheckCache Check
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// NewHealthHandlers creates the /health and /ready handlers.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return respond.Handle(handler.liveness), respond.Handle(handler.readiness)
}

// liveness handles GET /health (Liveness probe).
func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) (*respond.Reply, error) {
	return respond.OK(map[string]string{"status": "ok"}, "alive"), nil
}

// readiness handles GET /ready (Readiness probe).
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) (*respond.Reply, error) {
	results := make([]checkResult, 0, 2)
	isSystemReady := true

	run := func(name string, check Check) {
		if check == nil {
			return
		}
		result := checkResult{Name: name, IsOK: true}
		if err := check(request.Context()); err != nil {
			result.IsOK = false
			result.Error = err.Error()
			isSystemReady = false
			handler.logger.Error("readiness_check_failed", slog.String("dependency", name), slog.Any("error", err))
		}
		results = append(results, result)
	}

	run(handler.dependencies.StoreName, handler.dependencies.CheckStore)
	run("redis", handler.dependencies.CheckCache)

	reply := respond.OK(map[string]any{"status": "ready", "checks": results}, "ready")
	if !isSystemReady {
		reply.Status = http.StatusServiceUnavailable
		reply.Message = "degraded"
		reply.Data = map[string]any{"status": "degraded", "checks": results}
	}
	return reply, nil
}
