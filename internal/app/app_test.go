package app

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kafka-dispatcher/kafka-dispatcher/internal/config"
	"github.com/kafka-dispatcher/kafka-dispatcher/pkg/errors"
)

type fakeConsumer struct {
	mu       sync.Mutex
	startErr error
	started  bool
	closed   bool
}

func (f *fakeConsumer) Start(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	f.started = true
	return nil
}

func (f *fakeConsumer) Close(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConsumer) Ready() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.started && !f.closed
}

func testConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.Metrics.Enabled = false
	cfg.Pprof.Enabled = false
	return *cfg
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	fc := &fakeConsumer{}
	a := New(testConfig(), fc)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- a.Run(ctx) }()

	require.Eventually(t, fc.Ready, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.True(t, fc.closed)
}

func TestRun_StartFailure(t *testing.T) {
	cause := stderrors.New("brokers unreachable")
	fc := &fakeConsumer{startErr: cause}
	a := New(testConfig(), fc)

	err := a.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, errors.ErrCodeKafkaConsume, errors.CodeOf(err))
	assert.True(t, fc.closed)
}
