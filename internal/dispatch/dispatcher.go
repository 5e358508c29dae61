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

package dispatch

import (
	"context"
	"log/slog"

	"github.com/michaelhull/wazuh/internal/logging"
	"github.com/michaelhull/wazuh/pkg/core"
)

// Dispatcher is the active-response decision point. It holds no mutable
// state of its own: policy and exemptions are start-time constants owned by
// configuration, and every call writes to at most one channel.
type Dispatcher struct {
	policy     core.GlobalPolicy
	exemptions []string
	local      core.Channel
	forward    core.Channel
	logger     *slog.Logger
	decisions  *logging.DecisionLogger
}

func New(
	policy core.GlobalPolicy,
	exemptions []string,
	local core.Channel,
	forward core.Channel,
	logger *slog.Logger,
	decisions *logging.DecisionLogger,
) *Dispatcher {
	return &Dispatcher{
		policy:     policy,
		exemptions: exemptions,
		local:      local,
		forward:    forward,
		logger:     logger,
		decisions:  decisions,
	}
}

// Dispatch routes one matched response for one event. Exempt sources and
// administratively disabled dispositions are silent no-ops, not errors. A
// channel write failure is logged and reported in the Result but never
// aborts the calling pipeline.
func (d *Dispatcher) Dispatch(ctx context.Context, evt core.Event, rule *core.ResponseRule) core.Result {
	var res core.Result

	if isExempt(evt.SourceAddress, d.exemptions) {
		res = core.Result{Outcome: core.OutcomeSuppressed}
		d.logDecision(evt, rule, res)
		return res
	}

	addr := normalizeAddress(evt.SourceAddress)

	switch route(rule, evt, d.policy) {
	case DispositionLocal:
		res = d.send(ctx, d.local, composeLocal(rule, evt, addr))
	case DispositionForward:
		res = d.send(ctx, d.forward, composeForward(rule, evt, addr))
	default:
		res = core.Result{Outcome: core.OutcomeDisabled}
	}

	d.logDecision(evt, rule, res)
	return res
}

func (d *Dispatcher) send(ctx context.Context, ch core.Channel, msg string) core.Result {
	if err := ch.Send(ctx, msg); err != nil {
		d.logger.Error("command send failed",
			"channel", ch.Name(),
			"channel_type", ch.Type(),
			"error", err,
		)
		return core.Result{Outcome: core.OutcomeFailed, Channel: ch.Name(), Message: msg, Err: err}
	}
	return core.Result{Outcome: core.OutcomeSent, Channel: ch.Name(), Message: msg}
}

func (d *Dispatcher) logDecision(evt core.Event, rule *core.ResponseRule, res core.Result) {
	if d.decisions != nil {
		d.decisions.Log(evt, rule, res)
	}
}
