package util

import (
	"context"
	"time"
)

// BackoffPolicy configures RetryWithBackoff.
type BackoffPolicy struct {
	// MaxAttempts is the total number of calls, including the first one.
	MaxAttempts int
	// InitialDelay is the wait before the second attempt.
	InitialDelay time.Duration
	// Multiplier grows the delay after every wait. Values below 1 keep it constant.
	Multiplier float64
	// Sleep waits for d or until ctx is done. Defaults to SleepContext.
	Sleep func(ctx context.Context, d time.Duration) error
	// OnRetry is called before every wait.
	OnRetry func(attempt int, delay time.Duration, err error)
}

type retryState int

const (
	stateAttempting retryState = iota
	stateWaiting
	stateSucceeded
	stateFailed
)

// RetryWithBackoff calls fn until it succeeds, fails with an error that
// isTransient rejects, or MaxAttempts calls have been made. Waits between
// attempts start at InitialDelay and are multiplied by Multiplier each time.
// The last error is returned unchanged. If ctx is done while waiting, ctx.Err()
// is returned.
func RetryWithBackoff[T any](
	ctx context.Context,
	policy BackoffPolicy,
	isTransient func(error) bool,
	fn func(context.Context) (T, error),
) (T, error) {
	maxAttempts := max(policy.MaxAttempts, 1)
	multiplier := policy.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}
	sleep := policy.Sleep
	if sleep == nil {
		sleep = SleepContext
	}

	var (
		zero    T
		result  T
		lastErr error
		attempt int
	)
	delay := policy.InitialDelay
	state := stateAttempting

	for {
		switch state {
		case stateAttempting:
			if ctx.Err() != nil {
				return zero, ctx.Err()
			}
			attempt++
			result, lastErr = fn(ctx)
			switch {
			case lastErr == nil:
				state = stateSucceeded
			case attempt < maxAttempts && isTransient(lastErr):
				state = stateWaiting
			default:
				state = stateFailed
			}
		case stateWaiting:
			if policy.OnRetry != nil {
				policy.OnRetry(attempt, delay, lastErr)
			}
			if err := sleep(ctx, delay); err != nil {
				return zero, err
			}
			delay = time.Duration(float64(delay) * multiplier)
			state = stateAttempting
		case stateSucceeded:
			return result, nil
		case stateFailed:
			return zero, lastErr
		}
	}
}

// SleepContext blocks for d or until ctx is done.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
