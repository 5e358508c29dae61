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

package history

import (
	"context"

	"github.com/michaelhull/wazuh/pkg/core"
)

// Store keeps recent dispatch records for operational inspection. It is an
// audit surface, not a delivery guarantee: a failed append never blocks a
// dispatch.
type Store interface {
	Append(ctx context.Context, rec core.DispatchRecord) error
	Recent(ctx context.Context, limit int) ([]core.DispatchRecord, error)
	Count(ctx context.Context) (int64, error)
	Close() error
}
