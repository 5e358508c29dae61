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

package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/michaelhull/wazuh/pkg/core"
)

// Intake accepts a websocket stream of correlated alerts from remote
// collectors. One JSON-encoded event per message.
type Intake struct {
	name     string
	port     int
	upgrader websocket.Upgrader
	sink     core.AlertSink
	server   *http.Server
	logger   *slog.Logger
}

func New(name string, port int, logger *slog.Logger) *Intake {
	return &Intake{
		name: name,
		port: port,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

func (i *Intake) Name() string { return i.name }
func (i *Intake) Type() string { return "websocket" }

func (i *Intake) Start(ctx context.Context, sink core.AlertSink) error {
	i.sink = sink

	mux := http.NewServeMux()
	mux.HandleFunc("/", i.handleConnection)

	i.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", i.port),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		i.server.Shutdown(shutdownCtx)
	}()

	i.logger.Info("websocket intake starting", "name", i.name, "port", i.port)
	if err := i.server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (i *Intake) Stop(ctx context.Context) error {
	if i.server != nil {
		return i.server.Shutdown(ctx)
	}
	return nil
}

func (i *Intake) handleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := i.upgrader.Upgrade(w, r, nil)
	if err != nil {
		i.logger.Error("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	collectorID := core.GenerateCollectorID(r)
	i.logger.Info("collector connected", "name", i.name, "collector_id", collectorID)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				i.logger.Error("ws read error", "collector_id", collectorID, "error", err)
			}
			i.logger.Info("collector disconnected", "name", i.name, "collector_id", collectorID)
			return
		}

		var evt core.Event
		if err := json.Unmarshal(payload, &evt); err != nil {
			i.logger.Warn("malformed alert skipped", "collector_id", collectorID, "error", err)
			continue
		}
		if evt.ID == "" {
			evt.ID = uuid.New().String()
		}

		if err := i.sink.HandleAlert(r.Context(), evt); err != nil {
			i.logger.Error("alert handling failed", "collector_id", collectorID, "event_id", evt.ID, "error", err)
		}
	}
}
