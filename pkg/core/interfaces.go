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

import "context"

// Channel is an outbound sink for composed command lines. Sends are
// fire-and-forget; implementations must be safe for concurrent Send.
type Channel interface {
	Name() string
	Type() string
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Send(ctx context.Context, msg string) error
}

// Intake is an inbound source of correlated events. Start blocks until the
// context is cancelled or the source fails.
type Intake interface {
	Name() string
	Type() string
	Start(ctx context.Context, sink AlertSink) error
	Stop(ctx context.Context) error
}

// AlertSink consumes events handed over by intakes.
type AlertSink interface {
	HandleAlert(ctx context.Context, evt Event) error
}
