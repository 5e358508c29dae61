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
	"testing"

	"github.com/michaelhull/wazuh/pkg/core"
)

func TestTableAddAndLookup(t *testing.T) {
	table := NewTable()
	table.Add(&core.ResponseRule{Name: "block-ip", Location: core.LocationServer})

	got, ok := table.Lookup("block-ip")
	if !ok {
		t.Fatal("expected response to be found")
	}
	if got.Location != core.LocationServer {
		t.Fatalf("expected server location, got %v", got.Location)
	}

	if _, ok := table.Lookup("nonexistent"); ok {
		t.Fatal("expected response not to be found")
	}
}

func TestTableReplaceAll(t *testing.T) {
	table := NewTable()
	table.Add(&core.ResponseRule{Name: "old-response"})

	table.ReplaceAll([]*core.ResponseRule{
		{Name: "host-deny"},
		{Name: "firewall-drop"},
	})

	if _, ok := table.Lookup("old-response"); ok {
		t.Fatal("expected old response to be removed")
	}
	if _, ok := table.Lookup("host-deny"); !ok {
		t.Fatal("expected host-deny to exist")
	}
	if table.Len() != 2 {
		t.Fatalf("expected 2 responses, got %d", table.Len())
	}
}

func TestMatchByRuleID(t *testing.T) {
	table := NewTable()
	table.Add(&core.ResponseRule{
		Name:    "block-ip",
		Trigger: core.Trigger{RuleIDs: []string{"5712"}},
	})

	matched := table.Match(core.Event{RuleID: "5712"})
	if len(matched) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matched))
	}

	if got := table.Match(core.Event{RuleID: "1002"}); len(got) != 0 {
		t.Fatalf("expected no match, got %d", len(got))
	}
}

func TestMatchByLevelAndGroup(t *testing.T) {
	table := NewTable()
	table.Add(&core.ResponseRule{
		Name:    "host-deny",
		Trigger: core.Trigger{MinLevel: 7},
	})
	table.Add(&core.ResponseRule{
		Name:    "disable-account",
		Trigger: core.Trigger{Groups: []string{"authentication_failed"}},
	})

	matched := table.Match(core.Event{Level: 10, Groups: []string{"authentication_failed"}})
	if len(matched) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matched))
	}

	matched = table.Match(core.Event{Level: 3, Groups: []string{"syscheck"}})
	if len(matched) != 0 {
		t.Fatalf("expected no matches, got %d", len(matched))
	}
}

func TestEmptyTriggerNeverFires(t *testing.T) {
	table := NewTable()
	table.Add(&core.ResponseRule{Name: "block-ip"})

	if got := table.Match(core.Event{RuleID: "5712", Level: 15}); len(got) != 0 {
		t.Fatalf("expected empty trigger to never fire, got %d matches", len(got))
	}
}

func TestTableConcurrentAccess(t *testing.T) {
	table := NewTable()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			table.Add(&core.ResponseRule{Name: "block-ip", Trigger: core.Trigger{MinLevel: 7}})
			table.Match(core.Event{Level: 9})
		}()
	}
	wg.Wait()
}
