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

package solace

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/michaelhull/wazuh/pkg/core"
	"solace.dev/go/messaging"
	"solace.dev/go/messaging/pkg/solace"
	"solace.dev/go/messaging/pkg/solace/config"
	"solace.dev/go/messaging/pkg/solace/resource"
)

// Channel publishes command lines to a Solace topic.
type Channel struct {
	name      string
	host      string
	vpn       string
	username  string
	password  string
	topic     string
	service   solace.MessagingService
	publisher solace.DirectMessagePublisher
	logger    *slog.Logger
}

func New(name, host, vpn, username, password, topic string, logger *slog.Logger) *Channel {
	return &Channel{
		name:     name,
		host:     host,
		vpn:      vpn,
		username: username,
		password: password,
		topic:    topic,
		logger:   logger,
	}
}

func (c *Channel) Name() string { return c.name }
func (c *Channel) Type() string { return "solace" }

func (c *Channel) Connect(ctx context.Context) error {
	var err error
	c.service, err = messaging.NewMessagingServiceBuilder().
		FromConfigurationProvider(config.ServicePropertyMap{
			config.TransportLayerPropertyHost:                c.host,
			config.ServicePropertyVPNName:                    c.vpn,
			config.AuthenticationPropertySchemeBasicUserName: c.username,
			config.AuthenticationPropertySchemeBasicPassword: c.password,
		}).Build()
	if err != nil {
		return fmt.Errorf("solace build: %w", err)
	}
	if err = c.service.Connect(); err != nil {
		return fmt.Errorf("solace connect: %w", err)
	}

	c.publisher, err = c.service.CreateDirectMessagePublisherBuilder().Build()
	if err != nil {
		return fmt.Errorf("solace publisher build: %w", err)
	}
	if err = c.publisher.Start(); err != nil {
		return fmt.Errorf("solace publisher start: %w", err)
	}

	c.logger.Info("solace channel connected", "name", c.name, "host", c.host)
	return nil
}

func (c *Channel) Disconnect(ctx context.Context) error {
	if c.publisher != nil {
		c.publisher.Terminate(5 * time.Second)
	}
	if c.service != nil {
		c.service.Disconnect()
	}
	return nil
}

func (c *Channel) Send(ctx context.Context, msg string) error {
	if c.publisher == nil {
		return core.ErrChannelUnavailable
	}
	outMsg, err := c.service.MessageBuilder().BuildWithStringPayload(msg)
	if err != nil {
		return err
	}
	return c.publisher.Publish(outMsg, resource.TopicOf(c.topic))
}
