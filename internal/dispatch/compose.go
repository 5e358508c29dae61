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
	"fmt"

	"github.com/michaelhull/wazuh/pkg/core"
)

// The command lines are positional and versionless: the consuming daemons
// split on spaces and index by field, so empty values still occupy their
// token and the field count never changes.

// composeLocal builds the 3-field line for the local execution daemon:
// response name, event user, canonical source address.
func composeLocal(rule *core.ResponseRule, evt core.Event, addr string) string {
	return truncate(fmt.Sprintf("%s %s %s", rule.Name, evt.User, addr))
}

// composeForward builds the 6-field line for the forwarding daemon: event
// location, rule location tag, agent id, response name, event user,
// canonical source address.
func composeForward(rule *core.ResponseRule, evt core.Event, addr string) string {
	return truncate(fmt.Sprintf("%s %c %s %s %s %s",
		evt.Location,
		rule.Location.Tag(),
		rule.AgentID,
		rule.Name,
		evt.User,
		addr,
	))
}

// One byte of the buffer is reserved for the consuming daemons' string
// terminator, so content is capped one short of the full size.
func truncate(msg string) string {
	if len(msg) > core.MaxMessageSize-1 {
		return msg[:core.MaxMessageSize-1]
	}
	return msg
}
