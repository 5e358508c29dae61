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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/michaelhull/wazuh/pkg/core"
)

func TestLoad(t *testing.T) {
	content := `
policy:
  local_enabled: true
  remote_enabled: true
exemptions:
  - "10.0.0.5"
responses:
  - name: firewall-drop
    location: local
    rules: ["5712"]
    min_level: 7
channels:
  local:
    name: execq
    type: unixgram
    config:
      path: /var/run/respond/execq
  forward:
    name: arq
    type: kafka
    config:
      brokers: "localhost:9092"
      topic: active-response
intakes:
  - name: alerts-in
    type: http_post
    port: 8077
history:
  backend: memory
  max_entries: 500
`
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte(content), 0644)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Policy.LocalEnabled || !cfg.Policy.RemoteEnabled {
		t.Fatal("expected both policy flags enabled")
	}
	if len(cfg.Exemptions) != 1 || cfg.Exemptions[0] != "10.0.0.5" {
		t.Fatalf("unexpected exemptions: %v", cfg.Exemptions)
	}
	if len(cfg.Responses) != 1 {
		t.Fatalf("expected 1 response, got %d", len(cfg.Responses))
	}
	if cfg.Channels.Forward.Type != "kafka" {
		t.Fatalf("expected kafka forward channel, got %s", cfg.Channels.Forward.Type)
	}
	if len(cfg.Intakes) != 1 || cfg.Intakes[0].Port != 8077 {
		t.Fatalf("unexpected intakes: %v", cfg.Intakes)
	}

	rule := cfg.Responses[0].ToRule()
	if rule.Location != core.LocationRemoteAgent {
		t.Fatalf("expected local agent location, got %v", rule.Location)
	}
	if rule.Trigger.MinLevel != 7 {
		t.Fatalf("expected min level 7, got %d", rule.Trigger.MinLevel)
	}
	if len(rule.Trigger.RuleIDs) != 1 || rule.Trigger.RuleIDs[0] != "5712" {
		t.Fatalf("unexpected rule ids: %v", rule.Trigger.RuleIDs)
	}
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		input string
		want  core.Location
	}{
		{"server", core.LocationServer},
		{"local", core.LocationRemoteAgent},
		{"defined-agent", core.LocationDefinedAgent},
		{"all", core.LocationAllAgents},
		{"", core.LocationUnknown},
		{"everywhere", core.LocationUnknown},
	}
	for _, tt := range tests {
		if got := ParseLocation(tt.input); got != tt.want {
			t.Errorf("ParseLocation(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestToRulesAndPolicy(t *testing.T) {
	cfg := &Config{
		Policy: PolicyConfig{LocalEnabled: true},
		Responses: []ResponseConfig{
			{Name: "block-ip", Location: "server"},
			{Name: "host-deny", Location: "all", AgentID: "003"},
		},
	}

	pol := cfg.ToPolicy()
	if !pol.LocalEnabled || pol.RemoteEnabled {
		t.Fatalf("unexpected policy: %+v", pol)
	}

	rules := cfg.ToRules()
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rules))
	}
	if rules[1].Location != core.LocationAllAgents || rules[1].AgentID != "003" {
		t.Fatalf("unexpected rule: %+v", rules[1])
	}
}
