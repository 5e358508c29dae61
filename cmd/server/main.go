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

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/michaelhull/wazuh/internal/dispatch"
	"github.com/michaelhull/wazuh/internal/logging"
	"github.com/michaelhull/wazuh/internal/ops"
	"github.com/michaelhull/wazuh/internal/pipeline"
	"github.com/michaelhull/wazuh/internal/rules"
	"github.com/michaelhull/wazuh/pkg/config"
	"github.com/michaelhull/wazuh/pkg/core"
	"github.com/michaelhull/wazuh/pkg/history"
	"github.com/michaelhull/wazuh/pkg/plugins"
	"github.com/michaelhull/wazuh/pkg/plugins/httppost"
	"github.com/michaelhull/wazuh/pkg/plugins/jms"
	"github.com/michaelhull/wazuh/pkg/plugins/kafka"
	"github.com/michaelhull/wazuh/pkg/plugins/mqtt5"
	"github.com/michaelhull/wazuh/pkg/plugins/rabbitmq"
	"github.com/michaelhull/wazuh/pkg/plugins/solace"
	"github.com/michaelhull/wazuh/pkg/plugins/unixq"
	"github.com/michaelhull/wazuh/pkg/plugins/ws"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "/etc/respond/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("failed to load config", "path", configPath, "error", err)
		os.Exit(1)
	}

	registry := plugins.NewRegistry(logger)

	local := buildChannel(cfg.Channels.Local, "execq", logger)
	forward := buildChannel(cfg.Channels.Forward, "arq", logger)
	if local == nil || forward == nil {
		logger.Error("both local and forward channels must be configured")
		os.Exit(1)
	}
	registry.RegisterChannel(local)
	registry.RegisterChannel(forward)

	registerIntakes(cfg, registry, logger)

	table := rules.NewTable()
	table.ReplaceAll(cfg.ToRules())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry.ConnectChannels(ctx)

	store, err := history.New(cfg.History, logger.With("component", "history"))
	if err != nil {
		logger.Error("failed to open history store", "error", err)
		os.Exit(1)
	}

	decisions := logging.NewDecisionLogger(logger.With("component", "decision"))
	dispatcher := dispatch.New(cfg.ToPolicy(), cfg.Exemptions, local, forward, logger, decisions)
	pipe := pipeline.New(table, dispatcher, store, logger)

	watcher := config.NewWatcher(configPath, table, logger)
	go watcher.Watch(ctx)

	registry.StartIntakes(ctx, pipe)

	if cfg.Ops.Port > 0 {
		opsServer := ops.NewServer(cfg.Ops.Port, registry, store, pipe, logger.With("component", "ops"))
		go func() {
			if err := opsServer.Start(ctx); err != nil {
				logger.Error("ops server failed", "error", err)
			}
		}()
	}

	logger.Info("response dispatcher started",
		"config", configPath,
		"responses", table.Len(),
		"local_enabled", cfg.Policy.LocalEnabled,
		"remote_enabled", cfg.Policy.RemoteEnabled,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down response dispatcher")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	registry.StopAll(shutdownCtx)
	store.Close()

	logger.Info("response dispatcher stopped")
}

func buildChannel(cc config.ChannelConfig, fallbackName string, logger *slog.Logger) core.Channel {
	name := cc.Name
	if name == "" {
		name = fallbackName
	}

	switch cc.Type {
	case "unixgram":
		return unixq.New(name, cc.Config["path"], logger)
	case "kafka":
		brokers := strings.Split(cc.Config["brokers"], ",")
		return kafka.NewChannel(name, brokers, cc.Config["topic"], logger)
	case "rabbitmq":
		return rabbitmq.New(name, cc.Config["url"], cc.Config["queue"], logger)
	case "mqtt5":
		return mqtt5.New(name, cc.Config["url"], cc.Config["topic"], logger)
	case "jms":
		return jms.New(name, cc.Config["url"], cc.Config["queue"], logger)
	case "solace":
		return solace.New(
			name,
			cc.Config["host"], cc.Config["vpn"],
			cc.Config["username"], cc.Config["password"],
			cc.Config["topic"],
			logger,
		)
	default:
		logger.Warn("unknown channel type", "name", name, "type", cc.Type)
		return nil
	}
}

func registerIntakes(cfg *config.Config, reg *plugins.Registry, logger *slog.Logger) {
	for _, in := range cfg.Intakes {
		switch in.Type {
		case "http_post":
			reg.RegisterIntake(httppost.New(in.Name, in.Port, logger))
		case "websocket":
			reg.RegisterIntake(ws.New(in.Name, in.Port, logger))
		case "kafka":
			brokers := strings.Split(in.Config["brokers"], ",")
			reg.RegisterIntake(kafka.NewIntake(
				in.Name, brokers,
				in.Config["topic"], in.Config["group_id"],
				logger,
			))
		default:
			logger.Warn("unknown intake type", "name", in.Name, "type", in.Type)
		}
	}
}
