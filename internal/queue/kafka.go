package queue

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/repvision/repvision-api/internal/config"
)

// KafkaPublisher publishes job dispatch messages to the analysis topic.
// Writes are synchronous and acknowledged by all replicas so that a job is
// only reported as submitted once the broker durably holds its message.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// Make sure we conform to Publisher interface
var _ Publisher = (*KafkaPublisher)(nil)

func NewKafkaPublisher(cfg *config.Config) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Queue.Brokers...),
		Topic:        cfg.Queue.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: cfg.Queue.WriteTimeout,
		Transport:    &kafka.Transport{ClientID: cfg.Queue.ClientID},
	}
	return &KafkaPublisher{writer: writer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	// keying by job id keeps redeliveries of the same job on one partition
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(msg.JobID, 10)),
		Value: data,
	})
	if err != nil {
		zap.S().Named("queue").Errorw("failed to publish job", "job_id", msg.JobID, "error", err)
		return err
	}

	zap.S().Named("queue").Infow("job published", "job_id", msg.JobID, "exercise", msg.ExerciseName)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
