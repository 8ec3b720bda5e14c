package app

import (
	"context"
	stderrors "errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoinsight/domain/core"
	"autoinsight/domain/stage"
	apperrors "autoinsight/internal/errors"
)

func fastPolicy() RetryPolicy {
	return RetryPolicy{
		Timeout:    time.Second,
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
	}
}

func TestStageRunnerSucceeds(t *testing.T) {
	r := NewStageRunner(fastPolicy(), nil)
	_, st, err := r.Run(context.Background(), stage.StageDescriptive, func(context.Context) (any, bool, error) {
		return nil, false, nil
	})
	require.NoError(t, err)
	assert.Equal(t, stage.StatusSucceeded, st.Status)
	assert.Equal(t, 1, st.Attempts)
}

func TestStageRunnerEmpty(t *testing.T) {
	r := NewStageRunner(fastPolicy(), nil)
	_, st, err := r.Run(context.Background(), stage.StagePredictive, func(context.Context) (any, bool, error) {
		return nil, true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, stage.StatusEmpty, st.Status)
	assert.True(t, st.OK())
}

func TestStageRunnerRetriesTransientFailure(t *testing.T) {
	r := NewStageRunner(fastPolicy(), nil)
	calls := 0
	_, st, err := r.Run(context.Background(), stage.StageDiagnostic, func(context.Context) (any, bool, error) {
		calls++
		if calls < 2 {
			return nil, false, stderrors.New("flaky")
		}
		return nil, false, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, st.Attempts)
}

func TestStageRunnerExhaustsRetries(t *testing.T) {
	r := NewStageRunner(fastPolicy(), nil)
	_, st, err := r.Run(context.Background(), stage.StageDiagnostic, func(context.Context) (any, bool, error) {
		return nil, false, stderrors.New("boom")
	})
	require.Error(t, err)
	assert.Equal(t, 3, st.Attempts)
	assert.Equal(t, stage.StatusFailed, st.Status)
	assert.Equal(t, apperrors.CodeStageFailed, apperrors.GetCode(err))
	assert.Contains(t, st.Error, "stage diagnostic failed")
	assert.Contains(t, st.Error, "boom")
}

func TestStageRunnerDoesNotRetryPreconditions(t *testing.T) {
	r := NewStageRunner(fastPolicy(), nil)
	calls := 0
	_, st, err := r.Run(context.Background(), stage.StageCleaning, func(context.Context) (any, bool, error) {
		calls++
		return nil, false, apperrors.InvalidInputCause("cannot clean dataset", core.NewEmptyDatasetError("cleaning"))
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, st.Attempts)
	assert.True(t, stderrors.Is(err, core.ErrEmptyDataset))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}

func TestStageRunnerTimeout(t *testing.T) {
	policy := fastPolicy()
	policy.Timeout = 10 * time.Millisecond
	policy.MaxRetries = 0
	r := NewStageRunner(policy, nil)

	release := make(chan struct{})
	defer close(release)
	_, _, err := r.Run(context.Background(), stage.StageDescriptive, func(context.Context) (any, bool, error) {
		<-release
		return nil, false, nil
	})
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, core.ErrStageTimeout))
	assert.True(t, stderrors.Is(err, core.ErrStageFailed))
}

func TestStageRunnerRecoversPanic(t *testing.T) {
	policy := fastPolicy()
	policy.MaxRetries = 0
	r := NewStageRunner(policy, nil)
	_, _, err := r.Run(context.Background(), stage.StagePrescriptive, func(context.Context) (any, bool, error) {
		panic("index out of range")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic: index out of range")
}

func TestStageRunnerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := NewStageRunner(fastPolicy(), nil)
	calls := 0
	_, _, err := r.Run(ctx, stage.StageDiagnostic, func(context.Context) (any, bool, error) {
		calls++
		cancel()
		return nil, false, context.Canceled
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestStageRunnerReturnsValue(t *testing.T) {
	r := NewStageRunner(fastPolicy(), nil)
	value, st, err := r.Run(context.Background(), stage.StageDescriptive, func(context.Context) (any, bool, error) {
		return "summary", false, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "summary", value)
	assert.Equal(t, stage.StatusSucceeded, st.Status)
}

func TestStageRunnerDiscardsAbandonedAttempt(t *testing.T) {
	policy := fastPolicy()
	policy.Timeout = 20 * time.Millisecond
	policy.MaxRetries = 1
	r := NewStageRunner(policy, nil)

	var calls atomic.Int32
	release := make(chan struct{})
	returned := make(chan struct{})
	value, st, err := r.Run(context.Background(), stage.StageDiagnostic, func(context.Context) (any, bool, error) {
		if calls.Add(1) == 1 {
			<-release
			defer close(returned)
			return "stale", false, nil
		}
		close(release)
		<-returned
		return "fresh", false, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", value)
	assert.Equal(t, 2, st.Attempts)
}

func TestRunStageTyped(t *testing.T) {
	r := NewStageRunner(fastPolicy(), nil)
	got, st, err := RunStage(context.Background(), r, stage.StageClassification,
		func(context.Context) ([]string, error) { return nil, nil },
		func(v []string) bool { return len(v) == 0 })
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, stage.StatusEmpty, st.Status)

	policy := fastPolicy()
	policy.MaxRetries = 0
	n, st, err := RunStage(context.Background(), NewStageRunner(policy, nil), stage.StageDescriptive,
		func(context.Context) (int, error) { return 7, stderrors.New("boom") }, nil)
	require.Error(t, err)
	assert.Zero(t, n)
	assert.Equal(t, stage.StatusFailed, st.Status)
}

func TestRetryPolicyBackoff(t *testing.T) {
	p := RetryPolicy{RetryDelay: 100 * time.Millisecond, MaxDelay: 350 * time.Millisecond}
	assert.Equal(t, 100*time.Millisecond, p.Backoff(1))
	assert.Equal(t, 200*time.Millisecond, p.Backoff(2))
	assert.Equal(t, 350*time.Millisecond, p.Backoff(3))
	assert.Equal(t, 350*time.Millisecond, p.Backoff(8))
}
