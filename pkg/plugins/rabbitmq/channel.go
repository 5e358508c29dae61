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

package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/michaelhull/wazuh/pkg/core"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Channel publishes command lines to a durable RabbitMQ queue drained by
// the forwarding daemon.
type Channel struct {
	name   string
	url    string
	queue  string
	conn   *amqp.Connection
	pubCh  *amqp.Channel
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
func (c *Channel) Type() string { return "rabbitmq" }

func (c *Channel) Connect(ctx context.Context) error {
	var err error
	c.conn, err = amqp.Dial(c.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}

	c.pubCh, err = c.conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq publish channel: %w", err)
	}

	if _, err := c.pubCh.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq queue declare %s: %w", c.queue, err)
	}

	c.logger.Info("rabbitmq channel connected", "name", c.name, "queue", c.queue)
	return nil
}

func (c *Channel) Disconnect(ctx context.Context) error {
	if c.pubCh != nil {
		c.pubCh.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *Channel) Send(ctx context.Context, msg string) error {
	if c.pubCh == nil {
		return core.ErrChannelUnavailable
	}
	return c.pubCh.PublishWithContext(ctx,
		"",
		c.queue,
		false,
		false,
		amqp.Publishing{
			ContentType: "text/plain",
			Body:        []byte(msg),
			Timestamp:   time.Now().UTC(),
		},
	)
}
