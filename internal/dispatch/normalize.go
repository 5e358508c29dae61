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

import "strings"

// normalizeAddress returns the canonical host address of a possibly
// composite source identifier: everything after the last colon, so
// "10.0.0.5:4444" and IPv6-style embedded forms both reduce to their final
// segment. Without a colon the input is returned unchanged.
func normalizeAddress(source string) string {
	if i := strings.LastIndexByte(source, ':'); i >= 0 {
		return source[i+1:]
	}
	return source
}

// isExempt tests the RAW source address against the exemption list, exact
// case-sensitive match. The list is checked unnormalized on purpose: an
// exemption for "10.0.0.5" does not cover "::ffff:10.0.0.5". Operators
// list addresses in the exact form the events carry them.
func isExempt(rawSource string, exemptions []string) bool {
	for _, e := range exemptions {
		if e == rawSource {
			return true
		}
	}
	return false
}
