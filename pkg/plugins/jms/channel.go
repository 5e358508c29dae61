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

package jms

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Azure/go-amqp"
	"github.com/michaelhull/wazuh/pkg/core"
)

// Channel publishes command lines to an AMQP 1.0 queue (ActiveMQ, Artemis
// and similar JMS brokers).
type Channel struct {
	name   string
	url    string
	queue  string
	conn   *amqp.Conn
	sess   *amqp.Session
	sender *amqp.Sender
	logger *slog.Logger
}

func New(name, url, queue string, logger *slog.Logger) *Channel {
	return &Channel{
		name:   name,
		url:    url,
		queue:  queue,
		logger: logger,
	}
}

func (c *Channel) Name() string { return c.name }
func (c *Channel) Type() string { return "jms" }

func (c *Channel) Connect(ctx context.Context) error {
	var err error
	c.conn, err = amqp.Dial(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("jms dial: %w", err)
	}

	c.sess, err = c.conn.NewSession(ctx, nil)
	if err != nil {
		return fmt.Errorf("jms session: %w", err)
	}

	c.sender, err = c.sess.NewSender(ctx, c.queue, nil)
	if err != nil {
		return fmt.Errorf("jms sender: %w", err)
	}

	c.logger.Info("jms channel connected", "name", c.name, "queue", c.queue)
	return nil
}

func (c *Channel) Disconnect(ctx context.Context) error {
	if c.sender != nil {
		c.sender.Close(ctx)
	}
	if c.sess != nil {
		c.sess.Close(ctx)
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *Channel) Send(ctx context.Context, msg string) error {
	if c.sender == nil {
		return core.ErrChannelUnavailable
	}
	return c.sender.Send(ctx, &amqp.Message{
		Data: [][]byte{[]byte(msg)},
	}, nil)
}
