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

package kafka

import (
	"context"
	"log/slog"
	"strings"

	"github.com/michaelhull/wazuh/pkg/core"
	"github.com/segmentio/kafka-go"
)

// Channel publishes command lines to a Kafka topic consumed by the
// forwarding daemon of a distributed deployment.
type Channel struct {
	name    string
	brokers []string
	topic   string
	writer  *kafka.Writer
	logger  *slog.Logger
}

func NewChannel(name string, brokers []string, topic string, logger *slog.Logger) *Channel {
	return &Channel{
		name:    name,
		brokers: brokers,
		topic:   topic,
		logger:  logger,
	}
}

func (c *Channel) Name() string { return c.name }
func (c *Channel) Type() string { return "kafka" }

func (c *Channel) Connect(ctx context.Context) error {
	c.writer = &kafka.Writer{
		Addr:     kafka.TCP(c.brokers...),
		Topic:    c.topic,
		Balancer: &kafka.LeastBytes{},
	}
	c.logger.Info("kafka channel connected",
		"name", c.name,
		"brokers", strings.Join(c.brokers, ","),
		"topic", c.topic,
	)
	return nil
}

func (c *Channel) Disconnect(ctx context.Context) error {
	if c.writer != nil {
		return c.writer.Close()
	}
	return nil
}

func (c *Channel) Send(ctx context.Context, msg string) error {
	if c.writer == nil {
		return core.ErrChannelUnavailable
	}
	return c.writer.WriteMessages(ctx, kafka.Message{
		Value: []byte(msg),
	})
}
