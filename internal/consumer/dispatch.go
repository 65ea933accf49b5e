package consumer

import (
	"context"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	"github.com/kafka-dispatcher/kafka-dispatcher/internal/metrics"
	"github.com/kafka-dispatcher/kafka-dispatcher/pkg/errors"
	"github.com/kafka-dispatcher/kafka-dispatcher/pkg/logger"
	"go.uber.org/zap"
)

// pollLoop 消费循环
func (c *Consumer[K, V]) pollLoop(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		if ctx.Err() != nil {
			logger.Info("delivery loop stopped")
			return
		}

		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			logger.Info("kafka client closed")
			return
		}
		if ctx.Err() != nil {
			logger.Info("delivery loop stopped")
			return
		}

		c.handleFetches(ctx, fetches)
	}
}

// handleFetches 并发处理各分区（上限concurrency_factor），分区内按offset顺序处理
func (c *Consumer[K, V]) handleFetches(ctx context.Context, fetches kgo.Fetches) {
	for _, fe := range fetches.Errors() {
		logger.Error("fetch error",
			zap.String("topic", fe.Topic),
			zap.Int32("partition", fe.Partition),
			zap.Error(fe.Err),
		)
		metrics.KafkaFetchErrors.WithLabelValues(fe.Topic).Inc()
	}

	var g errgroup.Group
	g.SetLimit(c.cfg.ConcurrencyFactor)

	fetches.EachPartition(func(p kgo.FetchTopicPartition) {
		if p.Err != nil || len(p.Records) == 0 {
			return
		}
		g.Go(func() error {
			c.processPartition(ctx, p.Topic, p.Partition, p.Records)
			return nil
		})
	})

	_ = g.Wait()
}

// processPartition 顺序处理一个分区的消息。分发失败时回退到失败的消息，
// 暂停该分区pause_timeout_ms后由客户端重新投递，本批剩余消息丢弃。
// 回调中对本分区调用Rollback或Pause时同样中断本批次且不再标记后续消息。
func (c *Consumer[K, V]) processPartition(ctx context.Context, topic string, partition int32, records []*kgo.Record) {
	for _, record := range records {
		if ctx.Err() != nil {
			return
		}

		before := c.control(topic, partition)

		if err := c.dispatch(ctx, record); err != nil {
			logger.Error("failed to dispatch message",
				zap.String("topic", topic),
				zap.Int32("partition", partition),
				zap.Int64("offset", record.Offset),
				zap.Error(err),
			)
			metrics.DispatchErrors.WithLabelValues(topic, errorType(err)).Inc()
			metrics.OffsetRollbacks.WithLabelValues(topic, "dispatch_error").Inc()

			c.seek(topic, partition, record.Offset)
			c.Pause(topic, partition, 0)
			return
		}

		after := c.control(topic, partition)
		if after.seeks != before.seeks {
			// 回调已seek，位置由回调决定，当前消息不标记
			logger.Debug("partition seeked by callback, dropping rest of batch",
				zap.String("topic", topic),
				zap.Int32("partition", partition),
				zap.Int64("offset", record.Offset),
			)
			return
		}

		if c.cfg.AutoCommit {
			c.client.MarkCommitRecords(record)
		}

		if after.pauses != before.pauses {
			// 客户端位置已越过本批次，回到下一条未处理的消息，恢复后重新拉取
			c.seek(topic, partition, record.Offset+1)
			logger.Debug("partition paused by callback, dropping rest of batch",
				zap.String("topic", topic),
				zap.Int32("partition", partition),
				zap.Int64("next_offset", record.Offset+1),
			)
			return
		}
	}
}

// dispatch 反序列化消息并并发调用topic的全部回调，等待全部返回
func (c *Consumer[K, V]) dispatch(ctx context.Context, record *kgo.Record) error {
	c.mu.RLock()
	callbacks := c.subscribers[record.Topic]
	c.mu.RUnlock()

	if len(callbacks) == 0 {
		metrics.DispatchSkipped.WithLabelValues(record.Topic).Inc()
		return nil
	}

	key, err := c.keySerde.Deserialize(record.Key)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDeserialize, "failed to deserialize key", err)
	}
	value, err := c.valueSerde.Deserialize(record.Value)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDeserialize, "failed to deserialize value", err)
	}

	msg := &Message[K, V]{
		Key:       key,
		Value:     value,
		Topic:     record.Topic,
		Partition: record.Partition,
		Offset:    record.Offset,
		Headers:   convertHeaders(record.Headers),
		Timestamp: record.Timestamp,
	}

	startTime := time.Now()

	var g errgroup.Group
	for _, callback := range callbacks {
		callback := callback
		g.Go(func() error {
			return callback(ctx, msg)
		})
	}
	err = g.Wait()

	metrics.CallbackDuration.WithLabelValues(record.Topic).Observe(time.Since(startTime).Seconds())

	if err != nil {
		return errors.Wrap(errors.ErrCodeCallback, "callback failed", err)
	}

	metrics.KafkaMessagesConsumed.WithLabelValues(record.Topic).Inc()
	metrics.KafkaBytesConsumed.WithLabelValues(record.Topic).Add(float64(len(record.Key) + len(record.Value)))

	return nil
}

// convertHeaders 构建header映射：丢弃null值，重复的key以逗号拼接
func convertHeaders(headers []kgo.RecordHeader) map[string]string {
	out := make(map[string]string, len(headers))
	for _, h := range headers {
		if h.Value == nil {
			continue
		}
		if prev, ok := out[h.Key]; ok {
			out[h.Key] = prev + "," + string(h.Value)
			continue
		}
		out[h.Key] = string(h.Value)
	}
	return out
}

func errorType(err error) string {
	switch errors.CodeOf(err) {
	case errors.ErrCodeDeserialize:
		return "deserialize"
	case errors.ErrCodeCallback:
		return "callback"
	default:
		return "unknown"
	}
}
