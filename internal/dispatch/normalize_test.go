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

import "testing"

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"10.0.0.5", "10.0.0.5"},
		{"10.0.0.5:4444", "4444"},
		{"::ffff:10.0.0.5", "10.0.0.5"},
		{"fe80::1:22", "22"},
		{"", ""},
		{"host:", ""},
	}
	for _, tt := range tests {
		if got := normalizeAddress(tt.input); got != tt.want {
			t.Errorf("normalizeAddress(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestIsExempt(t *testing.T) {
	list := []string{"10.0.0.5", "192.168.1.9"}

	if !isExempt("10.0.0.5", list) {
		t.Fatal("expected exact match to be exempt")
	}
	if isExempt("10.0.0.6", list) {
		t.Fatal("expected non-listed address not to be exempt")
	}
	if isExempt("10.0.0.5", nil) {
		t.Fatal("expected empty list to exempt nothing")
	}
}

// The exemption check runs against the raw source address, before
// normalization. An exemption for the bare host does not cover the same
// host with a colon-qualified suffix.
func TestExemptionUsesRawAddress(t *testing.T) {
	list := []string{"10.0.0.5"}

	if isExempt("10.0.0.5:4444", list) {
		t.Fatal("exemption unexpectedly matched the port-qualified form")
	}
	if !isExempt("10.0.0.5", list) {
		t.Fatal("exemption should match the raw form verbatim")
	}
}
