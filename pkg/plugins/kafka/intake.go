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
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/michaelhull/wazuh/pkg/core"
	"github.com/segmentio/kafka-go"
)

// Intake consumes correlated alerts from a Kafka topic. Messages are
// committed after handoff; a message that fails to decode is committed and
// skipped so one malformed alert cannot wedge the partition.
type Intake struct {
	name    string
	brokers []string
	topic   string
	groupID string
	reader  *kafka.Reader
	logger  *slog.Logger
}

func NewIntake(name string, brokers []string, topic, groupID string, logger *slog.Logger) *Intake {
	return &Intake{
		name:    name,
		brokers: brokers,
		topic:   topic,
		groupID: groupID,
		logger:  logger,
	}
}

func (i *Intake) Name() string { return i.name }
func (i *Intake) Type() string { return "kafka" }

func (i *Intake) Start(ctx context.Context, sink core.AlertSink) error {
	groupID := i.groupID
	if groupID == "" {
		groupID = "respond-" + i.name
	}

	i.reader = kafka.NewReader(kafka.ReaderConfig{
		Brokers:  i.brokers,
		Topic:    i.topic,
		GroupID:  groupID,
		MaxWait:  500 * time.Millisecond,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer i.reader.Close()

	i.logger.Info("kafka intake starting", "name", i.name, "topic", i.topic, "group_id", groupID)

	for {
		msg, err := i.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			i.logger.Error("kafka fetch error", "name", i.name, "error", err)
			return err
		}

		var evt core.Event
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			i.logger.Warn("malformed alert skipped", "name", i.name, "offset", msg.Offset, "error", err)
			i.reader.CommitMessages(ctx, msg)
			continue
		}
		if evt.ID == "" {
			evt.ID = uuid.New().String()
		}

		if err := sink.HandleAlert(ctx, evt); err != nil {
			i.logger.Error("alert handling failed", "name", i.name, "event_id", evt.ID, "error", err)
		}

		if err := i.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			i.logger.Warn("kafka commit failed", "name", i.name, "error", err)
		}
	}
}

func (i *Intake) Stop(ctx context.Context) error {
	if i.reader != nil {
		return i.reader.Close()
	}
	return nil
}
