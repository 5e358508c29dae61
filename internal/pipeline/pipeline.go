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

package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/michaelhull/wazuh/internal/dispatch"
	"github.com/michaelhull/wazuh/internal/rules"
	"github.com/michaelhull/wazuh/pkg/core"
	"github.com/michaelhull/wazuh/pkg/history"
)

// Pipeline wires intakes to the dispatcher: for each incoming event it
// looks up the matching responses, dispatches every one, and records the
// outcome. One failed response delivery never stops the remaining
// responses or subsequent events.
type Pipeline struct {
	table      *rules.Table
	dispatcher *dispatch.Dispatcher
	store      history.Store
	logger     *slog.Logger

	mu   sync.Mutex
	subs map[chan core.DispatchRecord]struct{}
}

func New(table *rules.Table, d *dispatch.Dispatcher, store history.Store, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		table:      table,
		dispatcher: d,
		store:      store,
		logger:     logger,
		subs:       make(map[chan core.DispatchRecord]struct{}),
	}
}

func (p *Pipeline) HandleAlert(ctx context.Context, evt core.Event) error {
	matched := p.table.Match(evt)
	if len(matched) == 0 {
		return nil
	}

	for _, rule := range matched {
		res := p.dispatcher.Dispatch(ctx, evt, rule)
		rec := toRecord(evt, rule, res)

		if p.store != nil {
			if err := p.store.Append(ctx, rec); err != nil {
				p.logger.Warn("history append failed", "event_id", evt.ID, "error", err)
			}
		}
		p.publish(rec)
	}
	return nil
}

// Subscribe returns a feed of dispatch records and a cancel func. The feed
// is lossy: a slow subscriber misses records instead of stalling dispatch.
func (p *Pipeline) Subscribe() (<-chan core.DispatchRecord, func()) {
	ch := make(chan core.DispatchRecord, 16)

	p.mu.Lock()
	p.subs[ch] = struct{}{}
	p.mu.Unlock()

	cancel := func() {
		p.mu.Lock()
		if _, ok := p.subs[ch]; ok {
			delete(p.subs, ch)
			close(ch)
		}
		p.mu.Unlock()
	}
	return ch, cancel
}

func (p *Pipeline) publish(rec core.DispatchRecord) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for ch := range p.subs {
		select {
		case ch <- rec:
		default:
		}
	}
}

func toRecord(evt core.Event, rule *core.ResponseRule, res core.Result) core.DispatchRecord {
	rec := core.DispatchRecord{
		EventID:   evt.ID,
		Response:  rule.Name,
		Outcome:   res.Outcome.String(),
		Channel:   res.Channel,
		Message:   res.Message,
		Timestamp: time.Now().UTC(),
	}
	if res.Err != nil {
		rec.Error = res.Err.Error()
	}
	return rec
}
