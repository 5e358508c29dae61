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

package mqtt5

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/eclipse/paho.golang/autopaho"
	"github.com/eclipse/paho.golang/paho"
	"github.com/google/uuid"
	"github.com/michaelhull/wazuh/pkg/core"
)

// Channel publishes command lines to an MQTT v5 topic at QoS 1, for
// deployments whose enforcement points sit behind an MQTT broker.
type Channel struct {
	name      string
	brokerURL string
	topic     string
	cm        *autopaho.ConnectionManager
	logger    *slog.Logger
}

func New(name, brokerURL, topic string, logger *slog.Logger) *Channel {
	return &Channel{
		name:      name,
		brokerURL: brokerURL,
		topic:     topic,
		logger:    logger,
	}
}

func (c *Channel) Name() string { return c.name }
func (c *Channel) Type() string { return "mqtt5" }

func (c *Channel) Connect(ctx context.Context) error {
	serverURL, err := url.Parse(c.brokerURL)
	if err != nil {
		return fmt.Errorf("mqtt5 invalid URL: %w", err)
	}

	cfg := autopaho.ClientConfig{
		ServerUrls:                    []*url.URL{serverURL},
		KeepAlive:                     30,
		CleanStartOnInitialConnection: true,
		SessionExpiryInterval:         60,
		OnConnectionUp: func(cm *autopaho.ConnectionManager, connAck *paho.Connack) {
			c.logger.Info("mqtt5 connection up", "name", c.name)
		},
		ClientConfig: paho.ClientConfig{
			ClientID: "respond-" + c.name + "-" + uuid.New().String()[:8],
		},
	}

	c.cm, err = autopaho.NewConnection(ctx, cfg)
	if err != nil {
		return fmt.Errorf("mqtt5 connection: %w", err)
	}

	if err := c.cm.AwaitConnection(ctx); err != nil {
		return fmt.Errorf("mqtt5 await connection: %w", err)
	}

	c.logger.Info("mqtt5 channel connected", "name", c.name, "broker", c.brokerURL)
	return nil
}

func (c *Channel) Disconnect(ctx context.Context) error {
	if c.cm != nil {
		return c.cm.Disconnect(ctx)
	}
	return nil
}

func (c *Channel) Send(ctx context.Context, msg string) error {
	if c.cm == nil {
		return core.ErrChannelUnavailable
	}
	_, err := c.cm.Publish(ctx, &paho.Publish{
		Topic:   c.topic,
		QoS:     1,
		Payload: []byte(msg),
	})
	return err
}
