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
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/michaelhull/wazuh/pkg/core"
)

type mockChannel struct {
	name    string
	sendErr error
	mu      sync.Mutex
	sent    []string
}

func (m *mockChannel) Name() string                         { return m.name }
func (m *mockChannel) Type() string                         { return "mock" }
func (m *mockChannel) Connect(ctx context.Context) error    { return nil }
func (m *mockChannel) Disconnect(ctx context.Context) error { return nil }

func (m *mockChannel) Send(ctx context.Context, msg string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()
	return nil
}

func (m *mockChannel) sentMessages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sent...)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestDispatcher(policy core.GlobalPolicy, exemptions []string) (*Dispatcher, *mockChannel, *mockChannel) {
	local := &mockChannel{name: "execq"}
	forward := &mockChannel{name: "arq"}
	return New(policy, exemptions, local, forward, testLogger(), nil), local, forward
}

func TestDispatchLocal(t *testing.T) {
	d, local, forward := newTestDispatcher(core.GlobalPolicy{LocalEnabled: true, RemoteEnabled: true}, nil)

	evt := core.Event{ID: "evt-1", SourceAddress: "::ffff:10.0.0.5", Location: "srv1", User: "root"}
	rule := &core.ResponseRule{Name: "block-ip", Location: core.LocationServer}

	res := d.Dispatch(context.Background(), evt, rule)
	if res.Outcome != core.OutcomeSent {
		t.Fatalf("expected sent, got %s", res.Outcome)
	}

	sent := local.sentMessages()
	if len(sent) != 1 {
		t.Fatalf("expected 1 local message, got %d", len(sent))
	}
	if sent[0] != "block-ip root 10.0.0.5" {
		t.Fatalf("unexpected local message: %q", sent[0])
	}
	if len(forward.sentMessages()) != 0 {
		t.Fatal("expected no forward messages")
	}
}

func TestDispatchForwardRelayedEvent(t *testing.T) {
	d, local, forward := newTestDispatcher(core.GlobalPolicy{LocalEnabled: true, RemoteEnabled: true}, nil)

	evt := core.Event{ID: "evt-2", SourceAddress: "::ffff:10.0.0.5", Location: "collector>srv1", User: "root"}
	rule := &core.ResponseRule{Name: "block-ip", Location: core.LocationRemoteAgent, AgentID: "007"}

	res := d.Dispatch(context.Background(), evt, rule)
	if res.Outcome != core.OutcomeSent {
		t.Fatalf("expected sent, got %s", res.Outcome)
	}

	sent := forward.sentMessages()
	if len(sent) != 1 {
		t.Fatalf("expected 1 forward message, got %d", len(sent))
	}
	if sent[0] != "collector>srv1 R 007 block-ip root 10.0.0.5" {
		t.Fatalf("unexpected forward message: %q", sent[0])
	}
	if len(local.sentMessages()) != 0 {
		t.Fatal("expected no local messages")
	}
}

func TestDispatchExemptSourceSuppressed(t *testing.T) {
	d, local, forward := newTestDispatcher(
		core.GlobalPolicy{LocalEnabled: true, RemoteEnabled: true},
		[]string{"10.0.0.5:4444"},
	)

	evt := core.Event{SourceAddress: "10.0.0.5:4444", Location: "srv1", User: "root"}
	rule := &core.ResponseRule{Name: "block-ip", Location: core.LocationServer}

	res := d.Dispatch(context.Background(), evt, rule)
	if res.Outcome != core.OutcomeSuppressed {
		t.Fatalf("expected suppressed, got %s", res.Outcome)
	}
	if res.Err != nil {
		t.Fatalf("suppression is not an error, got %v", res.Err)
	}
	if len(local.sentMessages()) != 0 || len(forward.sentMessages()) != 0 {
		t.Fatal("expected zero channel writes for exempt source")
	}
}

func TestDispatchDisabledFlags(t *testing.T) {
	tests := []struct {
		name     string
		policy   core.GlobalPolicy
		location core.Location
		eventLoc string
	}{
		{"local disabled", core.GlobalPolicy{RemoteEnabled: true}, core.LocationServer, "srv1"},
		{"remote disabled", core.GlobalPolicy{LocalEnabled: true}, core.LocationAllAgents, "srv1"},
	}

	for _, tt := range tests {
		d, local, forward := newTestDispatcher(tt.policy, nil)
		evt := core.Event{SourceAddress: "10.0.0.5", Location: tt.eventLoc, User: "root"}
		rule := &core.ResponseRule{Name: "block-ip", Location: tt.location}

		res := d.Dispatch(context.Background(), evt, rule)
		if res.Outcome != core.OutcomeDisabled {
			t.Fatalf("%s: expected disabled, got %s", tt.name, res.Outcome)
		}
		if len(local.sentMessages()) != 0 || len(forward.sentMessages()) != 0 {
			t.Fatalf("%s: expected zero channel writes", tt.name)
		}
	}
}

func TestDispatchUnknownLocationDropped(t *testing.T) {
	d, local, forward := newTestDispatcher(core.GlobalPolicy{LocalEnabled: true, RemoteEnabled: true}, nil)

	evt := core.Event{SourceAddress: "10.0.0.5", Location: "srv1"}
	rule := &core.ResponseRule{Name: "block-ip", Location: core.LocationUnknown}

	res := d.Dispatch(context.Background(), evt, rule)
	if res.Outcome != core.OutcomeDisabled {
		t.Fatalf("expected disabled for unknown location, got %s", res.Outcome)
	}
	if len(local.sentMessages()) != 0 || len(forward.sentMessages()) != 0 {
		t.Fatal("expected zero channel writes for unknown location")
	}
}

func TestDispatchSendFailureReported(t *testing.T) {
	local := &mockChannel{name: "execq", sendErr: errors.New("socket closed")}
	forward := &mockChannel{name: "arq"}
	d := New(core.GlobalPolicy{LocalEnabled: true, RemoteEnabled: true}, nil, local, forward, testLogger(), nil)

	evt := core.Event{SourceAddress: "10.0.0.5", Location: "srv1", User: "root"}
	rule := &core.ResponseRule{Name: "block-ip", Location: core.LocationServer}

	res := d.Dispatch(context.Background(), evt, rule)
	if res.Outcome != core.OutcomeFailed {
		t.Fatalf("expected failed, got %s", res.Outcome)
	}
	if res.Err == nil {
		t.Fatal("expected error in result")
	}
	if res.Channel != "execq" {
		t.Fatalf("expected failing channel identity, got %q", res.Channel)
	}
}

// An exemption for the bare host must not suppress the colon-qualified
// form: filtering is on the raw address while composition uses the
// normalized one.
func TestDispatchExemptionAsymmetry(t *testing.T) {
	d, local, _ := newTestDispatcher(
		core.GlobalPolicy{LocalEnabled: true, RemoteEnabled: true},
		[]string{"10.0.0.5"},
	)

	evt := core.Event{SourceAddress: "10.0.0.5:4444", Location: "srv1", User: "root"}
	rule := &core.ResponseRule{Name: "block-ip", Location: core.LocationServer}

	res := d.Dispatch(context.Background(), evt, rule)
	if res.Outcome != core.OutcomeSent {
		t.Fatalf("expected sent despite host-only exemption, got %s", res.Outcome)
	}
	if len(local.sentMessages()) != 1 {
		t.Fatal("expected the response to fire")
	}
}
