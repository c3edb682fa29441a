// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/campaignwatch/internal/logging"
	"github.com/tomtom215/campaignwatch/internal/metrics"
	"github.com/tomtom215/campaignwatch/internal/models"
)

// IngestStats are the consumer's running totals.
type IngestStats struct {
	Received  int64 `json:"received"`
	Processed int64 `json:"processed"`
	Failed    int64 `json:"failed"`
}

// Ingestor is the in-process transport between collectors and the
// processor. The subscription is opened at construction so items published
// before the consumer starts are buffered rather than dropped.
type Ingestor struct {
	pubsub   *gochannel.GoChannel
	topic    string
	proc     *Processor
	messages <-chan *message.Message
	cancel   context.CancelFunc

	received  atomic.Int64
	processed atomic.Int64
	failed    atomic.Int64
}

func NewIngestor(cfg Config, proc *Processor) (*Ingestor, error) {
	pubsub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: cfg.BufferSize},
		logging.NewWatermillAdapter(logging.WithComponent("ingest")),
	)

	ctx, cancel := context.WithCancel(context.Background())
	messages, err := pubsub.Subscribe(ctx, cfg.Topic)
	if err != nil {
		cancel()
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe to %s: %w", cfg.Topic, err)
	}

	return &Ingestor{
		pubsub:   pubsub,
		topic:    cfg.Topic,
		proc:     proc,
		messages: messages,
		cancel:   cancel,
	}, nil
}

// Publish encodes items and hands them to the consumer.
func (i *Ingestor) Publish(ctx context.Context, items ...models.ContentItem) error {
	msgs := make([]*message.Message, 0, len(items))
	for idx := range items {
		payload, err := json.Marshal(&items[idx])
		if err != nil {
			return fmt.Errorf("encode item %s: %w", items[idx].Key(), err)
		}
		msg := message.NewMessage(uuid.NewString(), payload)
		msg.Metadata.Set("platform", items[idx].Platform)
		if id := logging.CorrelationIDFromContext(ctx); id != "" {
			msg.Metadata.Set("correlation_id", id)
		}
		msgs = append(msgs, msg)
	}
	if err := i.pubsub.Publish(i.topic, msgs...); err != nil {
		return fmt.Errorf("publish to %s: %w", i.topic, err)
	}
	return nil
}

// Serve consumes until ctx is done. It is the single writer of the
// processor's window.
func (i *Ingestor) Serve(ctx context.Context) error {
	logging.Info().Str("topic", i.topic).Msg("Ingest consumer started")
	for {
		select {
		case <-ctx.Done():
			logging.Info().Msg("Ingest consumer stopped")
			return ctx.Err()
		case msg, ok := <-i.messages:
			if !ok {
				return nil
			}
			i.handle(ctx, msg)
		}
	}
}

func (i *Ingestor) handle(ctx context.Context, msg *message.Message) {
	defer msg.Ack()
	i.received.Add(1)

	if id := msg.Metadata.Get("correlation_id"); id != "" {
		ctx = logging.ContextWithCorrelationID(ctx, id)
	} else {
		ctx = logging.ContextWithNewCorrelationID(ctx)
	}

	var item models.ContentItem
	if err := json.Unmarshal(msg.Payload, &item); err != nil {
		i.failed.Add(1)
		metrics.IngestErrors.WithLabelValues("decode").Inc()
		logging.Ctx(ctx).Warn().Err(err).Str("message_uuid", msg.UUID).Msg("Failed to decode content item")
		return
	}
	metrics.ItemsIngested.WithLabelValues(item.Platform).Inc()

	if _, _, err := i.proc.Process(ctx, item); err != nil {
		i.failed.Add(1)
		logging.Ctx(ctx).Error().Err(err).Str("message_uuid", msg.UUID).Msg("Failed to process content item")
		return
	}
	i.processed.Add(1)
}

func (i *Ingestor) Stats() IngestStats {
	return IngestStats{
		Received:  i.received.Load(),
		Processed: i.processed.Load(),
		Failed:    i.failed.Load(),
	}
}

// Close ends the subscription and shuts down the transport.
func (i *Ingestor) Close() error {
	i.cancel()
	return i.pubsub.Close()
}

func (i *Ingestor) String() string {
	return "ingest-consumer"
}
