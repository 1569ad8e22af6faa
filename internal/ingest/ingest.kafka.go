package ingest

import (
	"context"
	"time"

	"github.com/agrotech/fieldwatch/internal/config"
	"github.com/agrotech/fieldwatch/internal/errors"
	"github.com/segmentio/kafka-go"
	nuts "github.com/vaudience/go-nuts"
)

const (
	minRetryBackoff = 500 * time.Millisecond
	maxRetryBackoff = 30 * time.Second
)

// messageReader is the part of *kafka.Reader the consumer uses.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaConsumer reads JSON readings from one topic of a consumer group.
type KafkaConsumer struct {
	reader     messageReader
	recorder   Recorder
	commit     bool
	minBackoff time.Duration
	maxBackoff time.Duration
}

func NewKafkaConsumer(cfg config.KafkaConfig, recorder Recorder) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  500 * time.Millisecond,
	})
	nuts.L.Infof("[Ingest] Kafka consumer created: brokers=%v topic=%s group=%s", cfg.Brokers, cfg.Topic, cfg.GroupID)
	return newKafkaConsumer(reader, recorder, cfg.GroupID != "")
}

func newKafkaConsumer(reader messageReader, recorder Recorder, commit bool) *KafkaConsumer {
	return &KafkaConsumer{
		reader:     reader,
		recorder:   recorder,
		commit:     commit,
		minBackoff: minRetryBackoff,
		maxBackoff: maxRetryBackoff,
	}
}

// Run consumes until ctx is cancelled. Messages that can never be stored
// (malformed payload, unknown sensor) are logged and committed. Any other
// failure is retried with backoff and the offset stays uncommitted until the
// reading is stored.
func (c *KafkaConsumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		if err := c.process(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

func (c *KafkaConsumer) process(ctx context.Context, msg kafka.Message) error {
	backoff := c.minBackoff
	for {
		err := handle(ctx, c.recorder, SourceKafka, string(msg.Key), msg.Value)
		if err == nil {
			return c.commitMessage(ctx, msg)
		}
		if permanent(err) {
			nuts.L.Warnf("[Ingest] Dropping kafka message partition=%d offset=%d: %v", msg.Partition, msg.Offset, err)
			return c.commitMessage(ctx, msg)
		}

		nuts.L.Errorf("[Ingest] Kafka message partition=%d offset=%d not stored, retrying in %s: %v", msg.Partition, msg.Offset, backoff, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > c.maxBackoff {
			backoff = c.maxBackoff
		}
	}
}

func (c *KafkaConsumer) commitMessage(ctx context.Context, msg kafka.Message) error {
	if !c.commit {
		return nil
	}
	if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
		nuts.L.Warnf("[Ingest] Kafka commit failed at offset %d: %v", msg.Offset, err)
	}
	return nil
}

// permanent reports errors that a retry cannot fix.
func permanent(err error) bool {
	return errors.IsValidation(err) || errors.IsNotFound(err)
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
