package utils

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kafka-dispatcher/kafka-dispatcher/pkg/errors"
)

func TestRetry_SucceedsAfterRetryableErrors(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), "ping", 3, time.Millisecond, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New(errors.ErrCodeKafkaConnect, "broker unreachable")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetry_GivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), "ping", 2, time.Millisecond, func(ctx context.Context) error {
		calls++
		return errors.New(errors.ErrCodeKafkaConnect, "broker unreachable")
	})

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeKafkaConnect, errors.CodeOf(err))
	assert.Equal(t, 3, calls)
}

func TestRetry_StopsOnNonRetryable(t *testing.T) {
	calls := 0
	cause := stderrors.New("invalid sasl mechanism")
	err := Retry(context.Background(), "ping", 5, time.Millisecond, func(ctx context.Context) error {
		calls++
		return cause
	})

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 1, calls)
}

func TestRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Retry(ctx, "ping", 5, time.Hour, func(ctx context.Context) error {
		calls++
		cancel()
		return errors.New(errors.ErrCodeKafkaConnect, "broker unreachable")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
