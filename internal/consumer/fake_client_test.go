package consumer

import (
	"context"
	"sync"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/kmsg"
)

// fakeClient 记录所有调用的Client实现
type fakeClient struct {
	mu sync.Mutex

	pingErr    error
	pings      int
	topics     []string
	paused     []map[string][]int32
	resumed    []map[string][]int32
	setOffsets []map[string]map[int32]kgo.EpochOffset
	committed  []map[string]map[int32]kgo.EpochOffset
	marked     []*kgo.Record
	flushes    int
	closed     bool

	// commitErr作为onDone的err参数；commitCode作为响应中的分区错误码
	commitErr  error
	commitCode int16

	fetches chan kgo.Fetches
}

func newFakeClient() *fakeClient {
	return &fakeClient{fetches: make(chan kgo.Fetches, 8)}
}

func (f *fakeClient) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pings++
	return f.pingErr
}

func (f *fakeClient) AddConsumeTopics(topics ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topics = append(f.topics, topics...)
}

func (f *fakeClient) PollFetches(ctx context.Context) kgo.Fetches {
	f.mu.Lock()
	closed := f.closed
	f.mu.Unlock()
	if closed {
		return kgo.NewErrFetch(kgo.ErrClientClosed)
	}

	select {
	case fs := <-f.fetches:
		return fs
	case <-ctx.Done():
		return kgo.NewErrFetch(ctx.Err())
	}
}

func (f *fakeClient) PauseFetchPartitions(tps map[string][]int32) map[string][]int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paused = append(f.paused, tps)
	return tps
}

func (f *fakeClient) ResumeFetchPartitions(tps map[string][]int32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resumed = append(f.resumed, tps)
}

func (f *fakeClient) SetOffsets(offsets map[string]map[int32]kgo.EpochOffset) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setOffsets = append(f.setOffsets, offsets)
}

func (f *fakeClient) CommitOffsetsSync(
	ctx context.Context,
	uncommitted map[string]map[int32]kgo.EpochOffset,
	onDone func(*kgo.Client, *kmsg.OffsetCommitRequest, *kmsg.OffsetCommitResponse, error),
) {
	f.mu.Lock()
	f.committed = append(f.committed, uncommitted)
	commitErr, commitCode := f.commitErr, f.commitCode
	f.mu.Unlock()

	resp := kmsg.NewPtrOffsetCommitResponse()
	for topic, partitions := range uncommitted {
		rt := kmsg.NewOffsetCommitResponseTopic()
		rt.Topic = topic
		for partition := range partitions {
			rp := kmsg.NewOffsetCommitResponseTopicPartition()
			rp.Partition = partition
			rp.ErrorCode = commitCode
			rt.Partitions = append(rt.Partitions, rp)
		}
		resp.Topics = append(resp.Topics, rt)
	}

	if onDone != nil {
		onDone(nil, kmsg.NewPtrOffsetCommitRequest(), resp, commitErr)
	}
}

func (f *fakeClient) MarkCommitRecords(rs ...*kgo.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marked = append(f.marked, rs...)
}

func (f *fakeClient) CommitMarkedOffsets(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushes++
	return nil
}

func (f *fakeClient) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

// snapshot 在锁内读取fakeClient状态
func (f *fakeClient) snapshot(fn func(f *fakeClient)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func fetchOf(topic string, partition int32, records ...*kgo.Record) kgo.Fetches {
	return kgo.Fetches{{
		Topics: []kgo.FetchTopic{{
			Topic:      topic,
			Partitions: []kgo.FetchPartition{{Partition: partition, Records: records}},
		}},
	}}
}

func record(topic string, partition int32, offset int64, key, value string) *kgo.Record {
	return &kgo.Record{
		Topic:     topic,
		Partition: partition,
		Offset:    offset,
		Key:       []byte(key),
		Value:     []byte(value),
	}
}
