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

package unixq

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/michaelhull/wazuh/pkg/core"
)

// Channel writes command lines to a Unix datagram socket owned by a local
// daemon. Each Send is one datagram, so message boundaries survive without
// any framing on top.
type Channel struct {
	name   string
	path   string
	logger *slog.Logger
	mu     sync.Mutex
	conn   net.Conn
}

func New(name, path string, logger *slog.Logger) *Channel {
	return &Channel{
		name:   name,
		path:   path,
		logger: logger,
	}
}

func (c *Channel) Name() string { return c.name }
func (c *Channel) Type() string { return "unixgram" }

func (c *Channel) Connect(ctx context.Context) error {
	conn, err := net.Dial("unixgram", c.path)
	if err != nil {
		return fmt.Errorf("unixgram dial %s: %w", c.path, err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	c.logger.Info("unixgram channel connected", "name", c.name, "path", c.path)
	return nil
}

func (c *Channel) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Channel) Send(ctx context.Context, msg string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return core.ErrChannelUnavailable
	}
	if deadline, ok := ctx.Deadline(); ok {
		c.conn.SetWriteDeadline(deadline)
	} else {
		c.conn.SetWriteDeadline(time.Time{})
	}
	if _, err := c.conn.Write([]byte(msg)); err != nil {
		return fmt.Errorf("unixgram write %s: %w", c.path, err)
	}
	return nil
}
