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

package logging

import (
	"log/slog"

	"github.com/michaelhull/wazuh/pkg/core"
)

// DecisionLogger emits one structured record per dispatch decision,
// including the silent ones, so suppression is observable without relying
// on absence of output.
type DecisionLogger struct {
	logger *slog.Logger
}

func NewDecisionLogger(logger *slog.Logger) *DecisionLogger {
	return &DecisionLogger{logger: logger}
}

func (d *DecisionLogger) Log(evt core.Event, rule *core.ResponseRule, res core.Result) {
	d.logger.Info("dispatch",
		"event_id", evt.ID,
		"event_location", evt.Location,
		"source_address", evt.SourceAddress,
		"response", rule.Name,
		"rule_location", rule.Location.String(),
		"outcome", res.Outcome.String(),
		"channel", res.Channel,
		"message_size", len(res.Message),
	)
}
