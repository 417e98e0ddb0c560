// Package kafkaconsumer consumes asset-update events and purges cached tile
// URLs for the affected assets.
package kafkaconsumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"

	"github.com/openterra/tilegate/internal/invalidation"
	"github.com/openterra/tilegate/internal/observability"
)

// Purger is the slice of the cache the consumer needs.
type Purger interface {
	PurgeAsset(ctx context.Context, assetID string) (int, error)
}

type Consumer struct {
	cfg    Config
	logger *slog.Logger
	cache  Purger
}

func New(cfg Config, logger *slog.Logger, cache Purger) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Consumer{cfg: cfg, logger: logger, cache: cache}
}

// Start joins the consumer group and processes events until ctx is done.
func (c *Consumer) Start(ctx context.Context) error {
	if c.cache == nil {
		return errors.New("kafkaconsumer: missing cache")
	}

	cfg := sarama.NewConfig()
	cfg.Version = sarama.V2_1_0_0
	cfg.Consumer.Group.Session.Timeout = c.cfg.SessionTimeout
	cfg.Consumer.Group.Heartbeat.Interval = c.cfg.Heartbeat
	cfg.Consumer.Group.Rebalance.Timeout = c.cfg.RebalanceTimeout
	if c.cfg.InitialOffsetOldest {
		cfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		cfg.Consumer.Offsets.Initial = sarama.OffsetNewest
	}
	cfg.Consumer.Offsets.AutoCommit.Enable = true

	group, err := sarama.NewConsumerGroup(c.cfg.Brokers, c.cfg.GroupID, cfg)
	if err != nil {
		return fmt.Errorf("create consumer group: %w", err)
	}
	defer func() { _ = group.Close() }()

	handler := &groupHandler{process: c.ProcessOne}

	c.logger.Info("invalidation consumer starting",
		"brokers", c.cfg.Brokers, "topic", c.cfg.Topic, "group", c.cfg.GroupID)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("invalidation consumer shutting down")
			return nil
		default:
			if err := group.Consume(ctx, []string{c.cfg.Topic}, handler); err != nil {
				c.logger.Error("consumer error", "err", err)
				time.Sleep(2 * time.Second)
			}
		}
	}
}

// ProcessOne handles a single event message.
func (c *Consumer) ProcessOne(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var ev invalidation.Event
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		observability.ObserveInvalidation("decode", err)
		c.logger.Error("invalidation decode failed",
			"topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset, "err", err)
		return fmt.Errorf("json decode: %w", err)
	}
	if err := ev.Validate(); err != nil {
		observability.ObserveInvalidation(ev.Op, err)
		c.logger.Warn("invalid invalidation event skipped",
			"topic", msg.Topic, "offset", msg.Offset, "err", err)
		// Bad events are dropped, not retried.
		return nil
	}

	n, err := c.cache.PurgeAsset(ctx, ev.AssetID)
	observability.ObserveInvalidation(ev.Op, err)
	if err != nil {
		c.logger.Error("cache purge failed", "asset_id", ev.AssetID, "err", err)
		return fmt.Errorf("purge asset %s: %w", ev.AssetID, err)
	}

	c.logger.Debug("cached tile urls purged",
		"asset_id", ev.AssetID, "op", ev.Op, "keys", n)
	return nil
}
