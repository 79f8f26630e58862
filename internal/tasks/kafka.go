package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

// KafkaQueue publishes request envelopes to the task topic with a sync
// producer and consumes result envelopes through a consumer group.
type KafkaQueue struct {
	producer    sarama.SyncProducer
	group       sarama.ConsumerGroup
	taskTopic   string
	resultTopic string
	results     chan ResultEnvelope

	closeOnce sync.Once
	cancel    context.CancelFunc
}

var _ Publisher = (*KafkaQueue)(nil)
var _ ResultSource = (*KafkaQueue)(nil)

type KafkaConfig struct {
	Brokers     []string
	TaskTopic   string
	ResultTopic string
	ClientID    string
	GroupID     string
	Version     sarama.KafkaVersion
	Sarama      *sarama.Config
}

func NewKafkaQueue(cfg KafkaConfig) (*KafkaQueue, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("no kafka brokers configured")
	}

	sc := cfg.Sarama
	if sc == nil {
		sc = sarama.NewConfig()
	}
	if cfg.ClientID != "" {
		sc.ClientID = cfg.ClientID
	}
	if cfg.Version != (sarama.KafkaVersion{}) {
		sc.Version = cfg.Version
	}
	sc.Producer.Return.Successes = true
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Consumer.Offsets.Initial = sarama.OffsetOldest

	producer, err := sarama.NewSyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, err
	}

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, sc)
	if err != nil {
		_ = producer.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	q := &KafkaQueue{
		producer:    producer,
		group:       group,
		taskTopic:   cfg.TaskTopic,
		resultTopic: cfg.ResultTopic,
		results:     make(chan ResultEnvelope, channelQueueCapacity),
		cancel:      cancel,
	}

	go q.consume(ctx)
	return q, nil
}

func (q *KafkaQueue) Publish(_ context.Context, req RequestEnvelope) error {
	data, err := json.Marshal(req)
	if err != nil {
		return err
	}

	_, _, err = q.producer.SendMessage(&sarama.ProducerMessage{
		Topic: q.taskTopic,
		Key:   sarama.StringEncoder(req.MessageID.String()),
		Value: sarama.ByteEncoder(data),
	})
	return err
}

func (q *KafkaQueue) Results() <-chan ResultEnvelope {
	return q.results
}

func (q *KafkaQueue) Close() error {
	var err error
	q.closeOnce.Do(func() {
		q.cancel()
		err = q.group.Close()
		if perr := q.producer.Close(); perr != nil && err == nil {
			err = perr
		}
		close(q.results)
	})
	return err
}

func (q *KafkaQueue) consume(ctx context.Context) {
	handler := &resultHandler{results: q.results}
	for {
		if err := q.group.Consume(ctx, []string{q.resultTopic}, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return
			}
			zap.S().Named("kafka_queue").Errorf("consume error: %s", err)
		}
		if ctx.Err() != nil {
			return
		}
	}
}

type resultHandler struct {
	results chan ResultEnvelope
}

func (h *resultHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *resultHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *resultHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		var res ResultEnvelope
		if err := json.Unmarshal(msg.Value, &res); err != nil {
			// malformed results are dropped; the offset is still marked so
			// one bad message cannot wedge the partition
			zap.S().Named("kafka_queue").Errorw("dropping malformed result message", "error", err, "offset", msg.Offset)
			session.MarkMessage(msg, "")
			continue
		}

		// the session context is cancelled on close and rebalance; bailing out
		// here keeps group.Close from waiting on a full results buffer. The
		// unmarked message is redelivered and reconciled idempotently.
		select {
		case h.results <- res:
			session.MarkMessage(msg, "")
		case <-session.Context().Done():
			return nil
		}
	}
	return nil
}
