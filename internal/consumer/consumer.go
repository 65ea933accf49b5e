package consumer

import (
	"context"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/kmsg"
)

// Message 分发给回调的消息，key/value已反序列化
type Message[K, V any] struct {
	Key       K
	Value     V
	Topic     string
	Partition int32
	Offset    int64
	Headers   map[string]string
	Timestamp time.Time
}

// Callback 消息回调，返回错误会使该分区回退到此消息
type Callback[K, V any] func(ctx context.Context, msg *Message[K, V]) error

// Client 消费者使用的kafka客户端方法集合，生产环境为*kgo.Client
type Client interface {
	Ping(ctx context.Context) error
	AddConsumeTopics(topics ...string)
	PollFetches(ctx context.Context) kgo.Fetches
	PauseFetchPartitions(topicPartitions map[string][]int32) map[string][]int32
	ResumeFetchPartitions(topicPartitions map[string][]int32)
	SetOffsets(setOffsets map[string]map[int32]kgo.EpochOffset)
	CommitOffsetsSync(
		ctx context.Context,
		uncommitted map[string]map[int32]kgo.EpochOffset,
		onDone func(*kgo.Client, *kmsg.OffsetCommitRequest, *kmsg.OffsetCommitResponse, error),
	)
	MarkCommitRecords(rs ...*kgo.Record)
	CommitMarkedOffsets(ctx context.Context) error
	Close()
}

var _ Client = (*kgo.Client)(nil)
