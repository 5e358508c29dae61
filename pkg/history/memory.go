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
	"sync"
	"time"

	"github.com/michaelhull/wazuh/pkg/core"
)

// MemoryStore is the in-process history backend. Oldest records are evicted
// first when the size cap is hit; a background loop drops records past TTL.
type MemoryStore struct {
	mu          sync.RWMutex
	records     []core.DispatchRecord
	ttl         time.Duration
	maxEntries  int
	stopCleanup chan struct{}
}

func NewMemoryStore(ttl time.Duration, maxEntries int) *MemoryStore {
	s := &MemoryStore{
		ttl:         ttl,
		maxEntries:  maxEntries,
		stopCleanup: make(chan struct{}),
	}
	if ttl > 0 {
		go s.cleanupLoop()
	}
	return s
}

func (s *MemoryStore) Append(ctx context.Context, rec core.DispatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, rec)
	if s.maxEntries > 0 && len(s.records) > s.maxEntries {
		s.records = s.records[len(s.records)-s.maxEntries:]
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *MemoryStore) Recent(ctx context.Context, limit int) ([]core.DispatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.records)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]core.DispatchRecord, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}

func (s *MemoryStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.records)), nil
}

func (s *MemoryStore) Close() error {
	close(s.stopCleanup)
	return nil
}

func (s *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCleanup:
			return
		case <-ticker.C:
			s.expire(time.Now().Add(-s.ttl))
		}
	}
}

func (s *MemoryStore) expire(cutoff time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := 0
	for i < len(s.records) && s.records[i].Timestamp.Before(cutoff) {
		i++
	}
	if i > 0 {
		s.records = append([]core.DispatchRecord(nil), s.records[i:]...)
	}
}
