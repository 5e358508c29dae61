// Copyright (c) 2025, Michael Hull.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied. See the License for the
// specific language governing permissions and limitations
// under the License.

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/michaelhull/wazuh/pkg/core"
	"github.com/redis/go-redis/v9"
)

const historyKey = "respond:history"

// RedisStore is the shared history backend for multi-node deployments.
// Records live in a capped list, newest at the head, with a rolling TTL on
// the key.
type RedisStore struct {
	client     *redis.Client
	ttl        time.Duration
	maxEntries int
	logger     *slog.Logger
}

func NewRedisStore(addr string, ttl time.Duration, maxEntries int, logger *slog.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	logger.Info("redis history store connected", "addr", addr)
	return &RedisStore{
		client:     client,
		ttl:        ttl,
		maxEntries: maxEntries,
		logger:     logger,
	}, nil
}

func (r *RedisStore) Append(ctx context.Context, rec core.DispatchRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.LPush(ctx, historyKey, data)
	if r.maxEntries > 0 {
		pipe.LTrim(ctx, historyKey, 0, int64(r.maxEntries-1))
	}
	if r.ttl > 0 {
		pipe.Expire(ctx, historyKey, r.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	return nil
}

func (r *RedisStore) Recent(ctx context.Context, limit int) ([]core.DispatchRecord, error) {
	if limit <= 0 {
		limit = r.maxEntries
	}
	end := int64(limit) - 1
	if limit <= 0 {
		end = -1
	}

	results, err := r.client.LRange(ctx, historyKey, 0, end).Result()
	if err != nil {
		return nil, fmt.Errorf("retrieve records: %w", err)
	}

	records := make([]core.DispatchRecord, 0, len(results))
	for _, data := range results {
		var rec core.DispatchRecord
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			r.logger.Warn("corrupt history record skipped", "error", err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (r *RedisStore) Count(ctx context.Context) (int64, error) {
	return r.client.LLen(ctx, historyKey).Result()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
