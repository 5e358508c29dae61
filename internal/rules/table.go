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

package rules

import (
	"sync"

	"github.com/michaelhull/wazuh/pkg/core"
)

// Table holds the configured response bindings, keyed by response name.
// Safe for concurrent lookup while the config watcher replaces entries.
type Table struct {
	responses sync.Map
}

func NewTable() *Table {
	return &Table{}
}

func (t *Table) Add(r *core.ResponseRule) {
	t.responses.Store(r.Name, r)
}

func (t *Table) Remove(name string) {
	t.responses.Delete(name)
}

func (t *Table) Lookup(name string) (*core.ResponseRule, bool) {
	v, ok := t.responses.Load(name)
	if !ok {
		return nil, false
	}
	return v.(*core.ResponseRule), true
}

func (t *Table) ReplaceAll(responses []*core.ResponseRule) {
	t.responses.Range(func(key, _ any) bool {
		t.responses.Delete(key)
		return true
	})
	for _, r := range responses {
		t.responses.Store(r.Name, r)
	}
}

func (t *Table) Len() int {
	count := 0
	t.responses.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

// Match returns every response whose trigger accepts the event. A trigger
// matches on any populated criterion: exact rule id, minimum level, or rule
// group membership. Order is unspecified.
func (t *Table) Match(evt core.Event) []*core.ResponseRule {
	var matched []*core.ResponseRule
	t.responses.Range(func(_, v any) bool {
		r := v.(*core.ResponseRule)
		if triggers(r.Trigger, evt) {
			matched = append(matched, r)
		}
		return true
	})
	return matched
}

func triggers(tr core.Trigger, evt core.Event) bool {
	for _, id := range tr.RuleIDs {
		if id == evt.RuleID {
			return true
		}
	}
	if tr.MinLevel > 0 && evt.Level >= tr.MinLevel {
		return true
	}
	for _, g := range tr.Groups {
		for _, eg := range evt.Groups {
			if g == eg {
				return true
			}
		}
	}
	return false
}
