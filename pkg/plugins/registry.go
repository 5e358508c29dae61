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

package plugins

import (
	"context"
	"log/slog"
	"sync"

	"github.com/michaelhull/wazuh/pkg/core"
)

type Registry struct {
	intakes  map[string]core.Intake
	channels map[string]core.Channel
	healthy  map[string]bool
	logger   *slog.Logger
	mu       sync.RWMutex
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		intakes:  make(map[string]core.Intake),
		channels: make(map[string]core.Channel),
		healthy:  make(map[string]bool),
		logger:   logger,
	}
}

func (r *Registry) RegisterIntake(i core.Intake) {
	r.mu.Lock()
	r.intakes[i.Name()] = i
	r.mu.Unlock()
	r.logger.Info("registered intake", "name", i.Name(), "type", i.Type())
}

func (r *Registry) RegisterChannel(c core.Channel) {
	r.mu.Lock()
	r.channels[c.Name()] = c
	r.mu.Unlock()
	r.logger.Info("registered channel", "name", c.Name(), "type", c.Type())
}

func (r *Registry) Channel(name string) (core.Channel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.channels[name]
	return c, ok
}

func (r *Registry) Channels() map[string]core.Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cp := make(map[string]core.Channel, len(r.channels))
	for k, v := range r.channels {
		cp[k] = v
	}
	return cp
}

func (r *Registry) ConnectChannels(ctx context.Context) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	connected := 0
	for name, ch := range r.channels {
		if err := ch.Connect(ctx); err != nil {
			r.logger.Error("channel connect failed", "name", name, "error", err)
			r.healthy[name] = false
		} else {
			r.healthy[name] = true
			connected++
		}
	}
	return connected
}

func (r *Registry) IsChannelHealthy(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.healthy[name]
}

func (r *Registry) Health() map[string]bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cp := make(map[string]bool, len(r.healthy))
	for k, v := range r.healthy {
		cp[k] = v
	}
	return cp
}

func (r *Registry) StartIntakes(ctx context.Context, sink core.AlertSink) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for name, in := range r.intakes {
		go func(n string, i core.Intake) {
			if err := i.Start(ctx, sink); err != nil {
				r.logger.Error("intake failed", "name", n, "error", err)
			}
		}(name, in)
	}
}

func (r *Registry) StopAll(ctx context.Context) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for name, in := range r.intakes {
		r.logger.Info("stopping intake", "name", name)
		in.Stop(ctx)
	}
	for name, ch := range r.channels {
		r.logger.Info("disconnecting channel", "name", name)
		ch.Disconnect(ctx)
	}
}
