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
	"fmt"
	"log/slog"
	"time"

	"github.com/michaelhull/wazuh/pkg/config"
	"github.com/michaelhull/wazuh/pkg/core"
)

// New builds the history backend named by the config. An empty backend
// selects the in-memory store.
func New(cfg config.HistoryConfig, logger *slog.Logger) (Store, error) {
	var ttl time.Duration
	if cfg.TTL != "" {
		var err error
		ttl, err = time.ParseDuration(cfg.TTL)
		if err != nil {
			return nil, fmt.Errorf("parse history ttl: %w", err)
		}
	}

	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStore(ttl, cfg.MaxEntries), nil
	case "redis":
		return NewRedisStore(cfg.Addr, ttl, cfg.MaxEntries, logger)
	default:
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownBackend, cfg.Backend)
	}
}
