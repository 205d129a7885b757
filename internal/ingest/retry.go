package ingest

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jask/fraudscope/internal/errs"
	"github.com/jask/fraudscope/internal/logging"
)

// Policy bounds retries at the ingestion boundary.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultPolicy is three attempts, 1s doubling, capped at 10s.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, BaseDelay: time.Second, MaxDelay: 10 * time.Second}
}

// Delay is the wait after the given failed attempt (1-based):
// min(BaseDelay*2^(attempt-1), MaxDelay).
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := p.BaseDelay
	for i := 1; i < attempt; i++ {
		d *= 2
		if p.MaxDelay > 0 && d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

type sleeper func(ctx context.Context, d time.Duration) error

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Retry runs op until it succeeds, fails with a non-retryable error, or the
// policy's attempts are used up. The last error is returned.
func Retry[T any](ctx context.Context, p Policy, log *zap.SugaredLogger, op func(context.Context) (T, error)) (T, error) {
	return retry(ctx, p, logging.OrNop(log), sleepCtx, op)
}

func retry[T any](ctx context.Context, p Policy, log *zap.SugaredLogger, sleep sleeper, op func(context.Context) (T, error)) (T, error) {
	attempts := max(p.MaxAttempts, 1)
	var zero T
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		var v T
		v, err = op(ctx)
		if err == nil {
			return v, nil
		}
		if !errs.Retryable(err) || attempt == attempts {
			break
		}
		d := p.Delay(attempt)
		log.Warnw("retrying after failure", "attempt", attempt, "max_attempts", attempts, "delay", d, "error", err)
		if serr := sleep(ctx, d); serr != nil {
			return zero, serr
		}
	}
	return zero, err
}
