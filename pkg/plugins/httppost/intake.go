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

package httppost

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/michaelhull/wazuh/pkg/core"
)

// Intake accepts correlated alerts pushed as JSON over HTTP POST.
type Intake struct {
	name    string
	port    int
	sink    core.AlertSink
	server  *http.Server
	logger  *slog.Logger
	maxBody int64
}

func New(name string, port int, logger *slog.Logger) *Intake {
	return &Intake{
		name:    name,
		port:    port,
		logger:  logger,
		maxBody: 1 << 20,
	}
}

func (i *Intake) Name() string { return i.name }
func (i *Intake) Type() string { return "http_post" }

func (i *Intake) Start(ctx context.Context, sink core.AlertSink) error {
	i.sink = sink
	mux := http.NewServeMux()
	mux.HandleFunc("/", i.handlePost)

	i.server = &http.Server{Addr: fmt.Sprintf(":%d", i.port), Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		i.server.Shutdown(shutdownCtx)
	}()

	i.logger.Info("http_post intake starting", "name", i.name, "port", i.port)
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

func (i *Intake) handlePost(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, i.maxBody))
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var evt core.Event
	if err := json.Unmarshal(body, &evt); err != nil {
		http.Error(w, "malformed alert", http.StatusBadRequest)
		return
	}
	if evt.ID == "" {
		evt.ID = uuid.New().String()
	}

	if err := i.sink.HandleAlert(r.Context(), evt); err != nil {
		i.logger.Error("alert handling failed", "name", i.name, "event_id", evt.ID, "error", err)
		http.Error(w, "dispatch failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	w.Write([]byte(`{"status":"accepted"}`))
}
