// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mongodb provides a managed MongoDB client for the document credential store.

It mirrors the postgres package: connect, verify with a ping, and hand the
database handle to repositories through their constructors.
*/
package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const (
	connectTimeout = 10 * time.Second
	pingTimeout    = 2 * time.Second
	maxPoolSize    = 50
)

// Connect opens a client against uri and returns the named database.
func Connect(ctx context.Context, uri, database string, logger *slog.Logger) (*mongo.Client, *mongo.Database, error) {
	clientOptions := options.Client().
		ApplyURI(uri).
		SetAppName("vidtube").
		SetConnectTimeout(connectTimeout).
		SetMaxPoolSize(maxPoolSize)

	client, err := mongo.Connect(clientOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("mongodb: failed to create client: %w", err)
	}

	if err := Ping(ctx, client); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, nil, err
	}

	logger.Info("mongodb_client_connected", slog.String("database", database))

	return client, client.Database(database), nil
}

// Ping verifies that the primary is reachable.
func Ping(ctx context.Context, client *mongo.Client) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongodb: ping failed: %w", err)
	}

	return nil
}
