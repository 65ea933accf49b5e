package consumer

import (
	"context"
	"sync"
	"time"

	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/kmsg"

	"github.com/kafka-dispatcher/kafka-dispatcher/internal/config"
	"github.com/kafka-dispatcher/kafka-dispatcher/internal/metrics"
	"github.com/kafka-dispatcher/kafka-dispatcher/internal/serde"
	"github.com/kafka-dispatcher/kafka-dispatcher/pkg/errors"
	"github.com/kafka-dispatcher/kafka-dispatcher/pkg/logger"
	"github.com/kafka-dispatcher/kafka-dispatcher/pkg/utils"
	"go.uber.org/zap"
)

// Consumer 将kafka消息分发给按topic注册的回调
type Consumer[K, V any] struct {
	cfg        config.KafkaConfig
	client     Client
	keySerde   serde.Serializer[K]
	valueSerde serde.Serializer[V]

	mu          sync.RWMutex
	subscribers map[string][]Callback[K, V]
	topics      []string // 注册顺序
	started     bool
	closed      bool
	cancel      context.CancelFunc
	done        chan struct{}

	// 回调中调用Pause/Rollback时递增，分区处理据此中断当前批次
	ctlMu    sync.Mutex
	controls map[topicPartition]partitionControl
}

type topicPartition struct {
	topic     string
	partition int32
}

// partitionControl 分区控制操作计数
type partitionControl struct {
	pauses uint64
	seeks  uint64
}

// NewConsumer 创建消费者
func NewConsumer[K, V any](
	cfg config.KafkaConfig,
	client Client,
	keySerde serde.Serializer[K],
	valueSerde serde.Serializer[V],
) *Consumer[K, V] {
	if cfg.ConcurrencyFactor <= 0 {
		cfg.ConcurrencyFactor = 1
	}

	return &Consumer[K, V]{
		cfg:         cfg,
		client:      client,
		keySerde:    keySerde,
		valueSerde:  valueSerde,
		subscribers: make(map[string][]Callback[K, V]),
		controls:    make(map[topicPartition]partitionControl),
	}
}

// control 返回分区当前的控制计数
func (c *Consumer[K, V]) control(topic string, partition int32) partitionControl {
	c.ctlMu.Lock()
	defer c.ctlMu.Unlock()
	return c.controls[topicPartition{topic, partition}]
}

func (c *Consumer[K, V]) bumpControl(topic string, partition int32, seek bool) {
	c.ctlMu.Lock()
	defer c.ctlMu.Unlock()

	tp := topicPartition{topic, partition}
	ctl := c.controls[tp]
	if seek {
		ctl.seeks++
	} else {
		ctl.pauses++
	}
	c.controls[tp] = ctl
}

// Subscribe 为topic注册回调，同一topic可注册多个，不去重。
// 启动后注册的新topic会立即加入客户端订阅。
func (c *Consumer[K, V]) Subscribe(topic string, callback Callback[K, V]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, exists := c.subscribers[topic]
	c.subscribers[topic] = append(current, callback)
	if !exists {
		c.topics = append(c.topics, topic)
		if c.started {
			c.client.AddConsumeTopics(topic)
		}
	}

	metrics.Subscribers.WithLabelValues(topic).Set(float64(len(c.subscribers[topic])))
	logger.Debug("kafka consumer registered a subscriber",
		zap.String("topic", topic),
		zap.Int("subscribers", len(c.subscribers[topic])),
		zap.String("group_id", c.cfg.GroupID),
	)
}

// Topics 返回已注册的topic，按注册顺序
func (c *Consumer[K, V]) Topics() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	topics := make([]string, len(c.topics))
	copy(topics, c.topics)
	return topics
}

// Start 连接kafka，按注册顺序订阅所有topic，然后启动消费循环
func (c *Consumer[K, V]) Start(ctx context.Context) error {
	c.mu.RLock()
	if c.started || c.closed {
		c.mu.RUnlock()
		return errors.New(errors.ErrCodeKafkaConsume, "consumer already started or closed")
	}
	c.mu.RUnlock()

	logger.Info("connecting to kafka",
		zap.Strings("brokers", c.cfg.Brokers),
		zap.String("group_id", c.cfg.GroupID),
	)

	err := utils.Retry(ctx, "kafka ping", c.cfg.ConnectRetries, time.Second, func(ctx context.Context) error {
		if err := c.client.Ping(ctx); err != nil {
			return errors.Wrap(errors.ErrCodeKafkaConnect, "failed to ping kafka", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started || c.closed {
		return errors.New(errors.ErrCodeKafkaConsume, "consumer already started or closed")
	}

	logger.Info("kafka client is connected, subscribing to topics",
		zap.Strings("topics", c.topics),
		zap.String("group_id", c.cfg.GroupID),
	)
	for _, topic := range c.topics {
		logger.Info("kafka client subscribing to topic", zap.String("topic", topic))
		c.client.AddConsumeTopics(topic)
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	c.started = true

	logger.Info("kafka client is starting to consume messages",
		zap.Strings("topics", c.topics),
		zap.Int("concurrency_factor", c.cfg.ConcurrencyFactor),
	)
	go c.pollLoop(runCtx, c.done)

	return nil
}

// Ready 消费循环是否在运行
func (c *Consumer[K, V]) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.started
}

// Pause 暂停分区拉取，timeout后无条件恢复；timeout<=0时使用pause_timeout_ms。
// 定时器启动后不可取消。
func (c *Consumer[K, V]) Pause(topic string, partition int32, timeout time.Duration) {
	if timeout <= 0 {
		timeout = time.Duration(c.cfg.PauseTimeoutMs) * time.Millisecond
	}

	c.client.PauseFetchPartitions(map[string][]int32{topic: {partition}})
	c.bumpControl(topic, partition, false)
	metrics.PartitionPauses.WithLabelValues(topic).Inc()
	logger.Debug("partition paused",
		zap.String("topic", topic),
		zap.Int32("partition", partition),
		zap.Duration("timeout", timeout),
	)

	time.AfterFunc(timeout, func() {
		c.client.ResumeFetchPartitions(map[string][]int32{topic: {partition}})
		logger.Debug("partition resumed",
			zap.String("topic", topic),
			zap.Int32("partition", partition),
		)
	})
}

// Commit 提交消息的topic/partition/offset，offset原样传递
func (c *Consumer[K, V]) Commit(ctx context.Context, msg *Message[K, V]) error {
	offsets := map[string]map[int32]kgo.EpochOffset{
		msg.Topic: {msg.Partition: {Epoch: -1, Offset: msg.Offset}},
	}

	var commitErr error
	c.client.CommitOffsetsSync(ctx, offsets,
		func(_ *kgo.Client, _ *kmsg.OffsetCommitRequest, resp *kmsg.OffsetCommitResponse, err error) {
			if err != nil {
				commitErr = err
				return
			}
			for _, t := range resp.Topics {
				for _, p := range t.Partitions {
					if err := kerr.ErrorForCode(p.ErrorCode); err != nil {
						commitErr = err
						return
					}
				}
			}
		},
	)

	if commitErr != nil {
		metrics.OffsetCommits.WithLabelValues(msg.Topic, "failed").Inc()
		return errors.Wrap(errors.ErrCodeKafkaCommit, "failed to commit offset", commitErr)
	}

	metrics.OffsetCommits.WithLabelValues(msg.Topic, "success").Inc()
	logger.Debug("offset committed",
		zap.String("topic", msg.Topic),
		zap.Int32("partition", msg.Partition),
		zap.Int64("offset", msg.Offset),
	)
	return nil
}

// Rollback 将分区seek到消息的offset，该消息会被重新投递
func (c *Consumer[K, V]) Rollback(msg *Message[K, V]) {
	c.seek(msg.Topic, msg.Partition, msg.Offset)
	metrics.OffsetRollbacks.WithLabelValues(msg.Topic, "rollback").Inc()
	logger.Debug("partition rewound",
		zap.String("topic", msg.Topic),
		zap.Int32("partition", msg.Partition),
		zap.Int64("offset", msg.Offset),
	)
}

func (c *Consumer[K, V]) seek(topic string, partition int32, offset int64) {
	c.client.SetOffsets(map[string]map[int32]kgo.EpochOffset{
		topic: {partition: {Epoch: -1, Offset: offset}},
	})
	c.bumpControl(topic, partition, true)
}

// Close 停止消费循环，提交已标记的offset并断开连接
func (c *Consumer[K, V]) Close(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	started := c.started
	c.started = false
	cancel, done := c.cancel, c.done
	c.mu.Unlock()

	logger.Warn("kafka consumer disconnecting", zap.String("group_id", c.cfg.GroupID))

	if started {
		cancel()
		stopped := true
		select {
		case <-done:
		case <-ctx.Done():
			stopped = false
			logger.Warn("timed out waiting for delivery loop to stop, skipping marked offset commit")
		}

		if c.cfg.AutoCommit && stopped {
			if err := c.client.CommitMarkedOffsets(ctx); err != nil {
				logger.Error("failed to commit marked offsets", zap.Error(err))
			}
		}
	}

	c.client.Close()
	logger.Info("kafka consumer closed")

	return nil
}
