package ingest

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jask/fraudscope/internal/logging"
	"github.com/jask/fraudscope/internal/table"
)

// Loader fetches and parses the dataset under a retry policy.
type Loader struct {
	Source  Source
	Policy  Policy
	Log     *zap.SugaredLogger
	Metrics *Metrics

	sleep sleeper
}

// NewLoader builds a loader with unregistered metrics.
func NewLoader(src Source, p Policy, log *zap.SugaredLogger) *Loader {
	return &Loader{Source: src, Policy: p, Log: logging.OrNop(log), Metrics: NewMetrics(nil)}
}

// Load returns every record of the source. Transport failures are retried;
// parse failures end the load immediately.
func (l *Loader) Load(ctx context.Context) ([]table.Record, error) {
	log := logging.OrNop(l.Log).With("source", l.Source.String())
	metrics := l.Metrics
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	sleep := l.sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	start := time.Now()
	records, err := retry(ctx, l.Policy, log, sleep, func(ctx context.Context) ([]table.Record, error) {
		metrics.Attempts.Inc()
		recs, err := l.once(ctx)
		if err != nil {
			metrics.observeFailure(err)
			return nil, err
		}
		return recs, nil
	})
	if err != nil {
		log.Errorw("dataset load failed", "error", err)
		return nil, err
	}
	metrics.Records.Set(float64(len(records)))
	log.Infow("dataset loaded", "records", len(records), "elapsed", time.Since(start))
	return records, nil
}

func (l *Loader) once(ctx context.Context) ([]table.Record, error) {
	rc, err := l.Source.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return ParseCSV(rc)
}
