// internal/ingest/consumer.go
// Consumer group Kafka untuk topic telemetry meter

package ingest

import (
	"context"
	"log"
	"time"

	"github.com/Shopify/sarama"
)

type ConsumerConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

type Consumer struct {
	cfg      ConsumerConfig
	group    sarama.ConsumerGroup
	pipeline *Pipeline
}

func NewConsumer(cfg ConsumerConfig, pipeline *Pipeline) (*Consumer, error) {
	sc := sarama.NewConfig()
	sc.Consumer.Return.Errors = true
	sc.Consumer.Offsets.Initial = sarama.OffsetOldest
	sc.Consumer.Group.Rebalance.Strategy = sarama.BalanceStrategyRoundRobin
	sc.Consumer.MaxWaitTime = 250 * time.Millisecond

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, sc)
	if err != nil {
		return nil, err
	}
	return &Consumer{cfg: cfg, group: group, pipeline: pipeline}, nil
}

// Run blok sampai ctx dibatalkan. Consume dipanggil ulang setelah
// setiap rebalance sesuai kontrak sarama.
func (c *Consumer) Run(ctx context.Context) error {
	go func() {
		for err := range c.group.Errors() {
			log.Printf("[ERROR] kafka consumer: %v", err)
		}
	}()

	handler := &groupHandler{pipeline: c.pipeline, ctx: ctx}
	for {
		if ctx.Err() != nil {
			return nil
		}
		if err := c.group.Consume(ctx, []string{c.cfg.Topic}, handler); err != nil {
			if err == context.Canceled {
				return nil
			}
			return err
		}
	}
}

func (c *Consumer) Close() error { return c.group.Close() }

type groupHandler struct {
	pipeline *Pipeline
	ctx      context.Context
}

func (h *groupHandler) Setup(_ sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(_ sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		if h.ctx.Err() != nil {
			return h.ctx.Err()
		}
		// Error DB tidak mark offset supaya pesan diproses ulang
		// setelah restart; payload rusak tetap di-mark (sudah dilog
		// dan dihitung oleh pipeline).
		if err := h.pipeline.HandleRaw(h.ctx, msg.Value); err != nil {
			log.Printf("[ERROR] ingest: partition=%d offset=%d: %v", msg.Partition, msg.Offset, err)
			continue
		}
		session.MarkMessage(msg, "")
	}
	return nil
}
