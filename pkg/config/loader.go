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
	"fmt"
	"os"

	"github.com/michaelhull/wazuh/pkg/core"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Policy     PolicyConfig     `yaml:"policy"`
	Exemptions []string         `yaml:"exemptions"`
	Responses  []ResponseConfig `yaml:"responses"`
	Channels   ChannelsConfig   `yaml:"channels"`
	Intakes    []IntakeConfig   `yaml:"intakes"`
	History    HistoryConfig    `yaml:"history"`
	Ops        OpsConfig        `yaml:"ops"`
}

type PolicyConfig struct {
	LocalEnabled  bool `yaml:"local_enabled"`
	RemoteEnabled bool `yaml:"remote_enabled"`
}

type ResponseConfig struct {
	Name     string   `yaml:"name"`
	Location string   `yaml:"location"`
	AgentID  string   `yaml:"agent_id"`
	Rules    []string `yaml:"rules"`
	MinLevel int      `yaml:"min_level"`
	Groups   []string `yaml:"groups"`
}

type ChannelsConfig struct {
	Local   ChannelConfig `yaml:"local"`
	Forward ChannelConfig `yaml:"forward"`
}

type ChannelConfig struct {
	Name   string            `yaml:"name"`
	Type   string            `yaml:"type"`
	Config map[string]string `yaml:"config"`
}

type IntakeConfig struct {
	Name   string            `yaml:"name"`
	Type   string            `yaml:"type"`
	Port   int               `yaml:"port"`
	Config map[string]string `yaml:"config"`
}

type HistoryConfig struct {
	Backend    string `yaml:"backend"`
	Addr       string `yaml:"addr"`
	TTL        string `yaml:"ttl"`
	MaxEntries int    `yaml:"max_entries"`
}

type OpsConfig struct {
	Port int `yaml:"port"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// ParseLocation maps the configuration vocabulary onto the routing enum:
// "server" runs at the analysis server, "local" at the agent where the
// event originated, "defined-agent" at a named agent, "all" everywhere.
func ParseLocation(s string) core.Location {
	switch s {
	case "server":
		return core.LocationServer
	case "local":
		return core.LocationRemoteAgent
	case "defined-agent":
		return core.LocationDefinedAgent
	case "all":
		return core.LocationAllAgents
	default:
		return core.LocationUnknown
	}
}

func (rc ResponseConfig) ToRule() *core.ResponseRule {
	return &core.ResponseRule{
		Name:     rc.Name,
		Location: ParseLocation(rc.Location),
		AgentID:  rc.AgentID,
		Trigger: core.Trigger{
			RuleIDs:  rc.Rules,
			MinLevel: rc.MinLevel,
			Groups:   rc.Groups,
		},
	}
}

func (cfg *Config) ToPolicy() core.GlobalPolicy {
	return core.GlobalPolicy{
		LocalEnabled:  cfg.Policy.LocalEnabled,
		RemoteEnabled: cfg.Policy.RemoteEnabled,
	}
}

func (cfg *Config) ToRules() []*core.ResponseRule {
	rules := make([]*core.ResponseRule, 0, len(cfg.Responses))
	for _, rc := range cfg.Responses {
		rules = append(rules, rc.ToRule())
	}
	return rules
}
