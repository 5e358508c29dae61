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

import "github.com/michaelhull/wazuh/pkg/core"

// Disposition is the routing outcome for one response.
type Disposition int

const (
	// DispositionNone: nothing is sent. Covers administratively disabled
	// flags and rule locations this table does not recognize.
	DispositionNone Disposition = iota
	DispositionLocal
	DispositionForward
)

// route decides where a response runs. A response executes locally when its
// rule is bound to the server, or bound to the originating agent for an
// event that was generated here (no relay marker in its location). Anything
// else is forwarded, so a relayed event is never also executed at the
// analysis server. Either branch is realized only if the matching global
// flag is on.
func route(rule *core.ResponseRule, evt core.Event, policy core.GlobalPolicy) Disposition {
	switch rule.Location {
	case core.LocationServer:
		// server-only, always local
	case core.LocationRemoteAgent:
		if evt.Relayed() {
			if !policy.RemoteEnabled {
				return DispositionNone
			}
			return DispositionForward
		}
	case core.LocationDefinedAgent, core.LocationAllAgents:
		if !policy.RemoteEnabled {
			return DispositionNone
		}
		return DispositionForward
	default:
		// Unrecognized location: drop rather than guess a disposition.
		return DispositionNone
	}

	if !policy.LocalEnabled {
		return DispositionNone
	}
	return DispositionLocal
}
