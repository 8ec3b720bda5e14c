package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"autoinsight/domain/core"
	"autoinsight/domain/stage"
	"autoinsight/internal"
	"autoinsight/internal/config"
	apperrors "autoinsight/internal/errors"
	"autoinsight/internal/observability"
)

// RetryPolicy bounds every stage attempt.
type RetryPolicy struct {
	Timeout    time.Duration // per attempt
	MaxRetries int           // attempts after the first
	RetryDelay time.Duration // first backoff
	MaxDelay   time.Duration // backoff ceiling
}

// RetryPolicyFrom maps pipeline configuration onto a policy.
func RetryPolicyFrom(cfg config.PipelineConfig) RetryPolicy {
	return RetryPolicy{
		Timeout:    cfg.StageTimeout,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		MaxDelay:   cfg.MaxDelay,
	}
}

// Backoff returns the delay before the given retry (1-based): RetryDelay doubled
// per attempt, capped at MaxDelay.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	delay := p.RetryDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if p.MaxDelay > 0 && delay > p.MaxDelay {
			return p.MaxDelay
		}
	}
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		return p.MaxDelay
	}
	return delay
}

// StageFunc runs one attempt of a stage and returns its value. empty reports a
// successful run that produced nothing. The value of an attempt that timed out
// or was abandoned is never returned by Run.
type StageFunc func(ctx context.Context) (value any, empty bool, err error)

// StageRunner executes stages with a per-attempt timeout, retry with
// exponential backoff and one span per attempt.
type StageRunner struct {
	policy RetryPolicy
	logger *internal.Logger
}

// NewStageRunner creates a stage runner. A nil logger uses DefaultLogger.
func NewStageRunner(policy RetryPolicy, logger *internal.Logger) *StageRunner {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &StageRunner{policy: policy, logger: logger}
}

// Run executes fn until it succeeds, fails permanently or runs out of retries,
// and returns the value of the successful attempt. The returned error is a
// STAGE_FAILED AppError naming the stage.
func (r *StageRunner) Run(ctx context.Context, name stage.StageName, fn StageFunc) (any, stage.StageStatus, error) {
	log := r.logger.With("stage", string(name))
	start := time.Now()
	status := stage.StageStatus{Stage: name}

	var lastErr error
	for attempt := 1; attempt <= r.policy.MaxRetries+1; attempt++ {
		if attempt > 1 {
			delay := r.policy.Backoff(attempt - 1)
			log.Warn("retrying in %s (attempt %d): %v", delay, attempt, lastErr)
			select {
			case <-ctx.Done():
				lastErr = ctx.Err()
				st, err := r.fail(status, start, lastErr, log)
				return nil, st, err
			case <-time.After(delay):
			}
		}

		status.Attempts = attempt
		log.Debug("starting attempt %d", attempt)
		res := r.attempt(ctx, name, attempt, fn)
		if res.err == nil {
			status.Status = stage.StatusSucceeded
			if res.empty {
				status.Status = stage.StatusEmpty
			}
			status.DurationMs = time.Since(start).Milliseconds()
			log.Info("finished in %dms (%s)", status.DurationMs, status.Status)
			return res.value, status, nil
		}

		lastErr = res.err
		if !retryable(lastErr) || ctx.Err() != nil {
			break
		}
	}
	st, err := r.fail(status, start, lastErr, log)
	return nil, st, err
}

func (r *StageRunner) fail(status stage.StageStatus, start time.Time, err error, log *internal.Logger) (stage.StageStatus, error) {
	wrapped := apperrors.StageFailed(string(status.Stage), err)
	status.Status = stage.StatusFailed
	status.Error = wrapped.Error()
	status.DurationMs = time.Since(start).Milliseconds()
	log.Error("%v", wrapped)
	return status, wrapped
}

type attemptResult struct {
	value any
	empty bool
	err   error
}

// attempt runs fn in its own goroutine so a stage that never polls ctx is
// still bounded by the timeout. A goroutine that outlives its attempt writes
// into a buffered channel nobody reads again.
func (r *StageRunner) attempt(ctx context.Context, name stage.StageName, n int, fn StageFunc) attemptResult {
	ctx, span := observability.StartStageSpan(ctx, string(name), n)
	defer span.End()

	attemptCtx := ctx
	cancel := context.CancelFunc(func() {})
	if r.policy.Timeout > 0 {
		attemptCtx, cancel = context.WithTimeout(ctx, r.policy.Timeout)
	}
	defer cancel()

	done := make(chan attemptResult, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- attemptResult{err: fmt.Errorf("panic: %v", p)}
			}
		}()
		value, empty, err := fn(attemptCtx)
		done <- attemptResult{value: value, empty: empty, err: err}
	}()

	var res attemptResult
	select {
	case res = <-done:
	case <-attemptCtx.Done():
		res.err = attemptCtx.Err()
	}

	if res.err != nil && errors.Is(res.err, context.DeadlineExceeded) && ctx.Err() == nil {
		res.err = fmt.Errorf("%w after %s", core.ErrStageTimeout, r.policy.Timeout)
	}
	if res.err != nil {
		res.value = nil
	}
	observability.RecordError(span, res.err)
	return res
}

// RunStage runs a typed stage through r. The value is returned only when the
// stage succeeded; empty decides whether a successful value counts as empty.
func RunStage[T any](ctx context.Context, r *StageRunner, name stage.StageName,
	fn func(ctx context.Context) (T, error), empty func(T) bool) (T, stage.StageStatus, error) {
	var zero T
	value, st, err := r.Run(ctx, name, func(ctx context.Context) (any, bool, error) {
		res, err := fn(ctx)
		if err != nil {
			return nil, false, err
		}
		return res, empty != nil && empty(res), nil
	})
	if err != nil {
		return zero, st, err
	}
	out, _ := value.(T)
	return out, st, nil
}

// retryable excludes violated preconditions and caller cancellation.
func retryable(err error) bool {
	switch {
	case core.IsPreconditionError(err):
		return false
	case apperrors.HasCode(err, apperrors.CodeInvalidInput):
		return false
	case errors.Is(err, context.Canceled):
		return false
	}
	return true
}
