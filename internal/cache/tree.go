// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"toolstore/internal/models"
)

const (
	// treeKey is the Valkey key holding the normalized category forest.
	treeKey = "catalog:tree"

	// DefaultTreeTTL is how long a fetched tree is served before refetching.
	DefaultTreeTTL = 5 * time.Minute
)

// TreeCache stores the normalized category forest in Valkey so every page
// and every instance shares one fetch per TTL. Errors are logged and
// treated as misses; the backend stays the source of truth.
type TreeCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTreeCache creates a tree cache. A zero ttl uses DefaultTreeTTL.
func NewTreeCache(client *redis.Client, ttl time.Duration) *TreeCache {
	if ttl <= 0 {
		ttl = DefaultTreeTTL
	}
	return &TreeCache{client: client, ttl: ttl}
}

// Get returns the cached forest, or ok=false on a miss.
func (tc *TreeCache) Get(ctx context.Context) ([]models.CategoryNode, bool) {
	val, err := tc.client.Get(ctx, treeKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("tree cache get error", "error", err)
		return nil, false
	}

	var tree []models.CategoryNode
	if err := json.Unmarshal(val, &tree); err != nil {
		slog.Warn("tree cache decode error", "error", err)
		tc.Invalidate(ctx)
		return nil, false
	}
	slog.Debug("tree cache hit", "roots", len(tree))
	return tree, true
}

// Set stores the forest with the configured TTL.
func (tc *TreeCache) Set(ctx context.Context, tree []models.CategoryNode) {
	payload, err := json.Marshal(tree)
	if err != nil {
		slog.Warn("tree cache encode error", "error", err)
		return
	}
	if err := tc.client.Set(ctx, treeKey, payload, tc.ttl).Err(); err != nil {
		slog.Warn("tree cache set error", "error", err)
	}
}

// Invalidate removes the cached forest.
func (tc *TreeCache) Invalidate(ctx context.Context) {
	if err := tc.client.Del(ctx, treeKey).Err(); err != nil {
		slog.Warn("tree cache invalidate error", "error", err)
	}
}
