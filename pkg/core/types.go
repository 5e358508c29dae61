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

package core

import (
	"strings"
	"time"
)

const (
	// MaxMessageSize is the hard cap on a composed command line. The
	// consuming daemons read into fixed buffers of this size.
	MaxMessageSize = 6144

	// RelayMarker in an event's location tag means the event was forwarded
	// from a remote collection point rather than generated here.
	RelayMarker = '>'
)

// Location declares where a response rule is allowed to execute.
type Location int

const (
	LocationUnknown Location = iota
	LocationServer
	LocationRemoteAgent
	LocationDefinedAgent
	LocationAllAgents
)

// Tag is the single-character wire encoding of a location, used as the
// second field of forwarded command lines.
func (l Location) Tag() byte {
	switch l {
	case LocationServer:
		return 'S'
	case LocationRemoteAgent:
		return 'R'
	case LocationDefinedAgent:
		return 'D'
	case LocationAllAgents:
		return 'A'
	default:
		return '?'
	}
}

func (l Location) String() string {
	switch l {
	case LocationServer:
		return "server"
	case LocationRemoteAgent:
		return "local"
	case LocationDefinedAgent:
		return "defined-agent"
	case LocationAllAgents:
		return "all"
	default:
		return "unknown"
	}
}

// Event is one correlated security occurrence produced by the analysis
// stage. SourceAddress may carry a port suffix after a colon; Location
// carries the relay marker when the event arrived through a collector.
type Event struct {
	ID            string    `json:"id"`
	SourceAddress string    `json:"source_address"`
	Location      string    `json:"location"`
	User          string    `json:"user"`
	RuleID        string    `json:"rule_id"`
	Level         int       `json:"level"`
	Groups        []string  `json:"groups"`
	Timestamp     time.Time `json:"timestamp"`
}

// Relayed reports whether the event was forwarded from a remote collection
// point rather than generated at the analysis server.
func (e Event) Relayed() bool {
	return strings.ContainsRune(e.Location, RelayMarker)
}

// Trigger holds the criteria binding a response to detection rules. A
// response fires when any populated criterion accepts the event; a trigger
// with no criteria never fires.
type Trigger struct {
	RuleIDs  []string
	MinLevel int
	Groups   []string
}

// ResponseRule is one configured active-response binding.
type ResponseRule struct {
	Name     string
	Location Location
	AgentID  string
	Trigger  Trigger
}

// GlobalPolicy carries the process-wide enablement flags. Read-only to the
// dispatcher.
type GlobalPolicy struct {
	LocalEnabled  bool
	RemoteEnabled bool
}

// Outcome tags the result of a single dispatch decision. Suppressed and
// Disabled are routine policy outcomes, not failures.
type Outcome int

const (
	OutcomeSent Outcome = iota
	OutcomeSuppressed
	OutcomeDisabled
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSent:
		return "sent"
	case OutcomeSuppressed:
		return "suppressed"
	case OutcomeDisabled:
		return "disabled"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is what one dispatch call produced. Channel and Message are set
// only when a command line was composed; Err only for OutcomeFailed.
type Result struct {
	Outcome Outcome
	Channel string
	Message string
	Err     error
}

// DispatchRecord is the persisted audit form of a Result.
type DispatchRecord struct {
	EventID   string    `json:"event_id"`
	Response  string    `json:"response"`
	Outcome   string    `json:"outcome"`
	Channel   string    `json:"channel,omitempty"`
	Message   string    `json:"message,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
