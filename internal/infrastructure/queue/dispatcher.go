package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/smartfdx/authgate/internal/api/metrics"
	"github.com/smartfdx/authgate/internal/core/domain"
	"github.com/smartfdx/authgate/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes login-attempt audit records to a fixed set of
// workers using consistent hashing on the account, so the audit trail
// for one account is written in order while the login path never blocks
// on persistence.
type Dispatcher struct {
	workers  []chan domain.LoginAttempt
	recorder ports.AttemptRecorder
	log      zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, recorder ports.AttemptRecorder, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan domain.LoginAttempt, numWorkers),
		recorder: recorder,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.LoginAttempt, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands an attempt to the worker responsible for its account.
// When that worker's buffer is full the record is dropped with a log
// line rather than stalling a login.
func (d *Dispatcher) Enqueue(attempt domain.LoginAttempt) {
	idx := d.shardIndex(attempt.Account)
	select {
	case d.workers[idx] <- attempt:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.AuditErrorsTotal.Inc()
		d.log.Warn().Str("account", attempt.Account).Int("worker_id", idx).
			Msg("audit queue full, dropping record")
	}
}

// shardIndex maps an account deterministically to a worker index.
func (d *Dispatcher) shardIndex(account string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(account))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.LoginAttempt) {
	worker := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case attempt, ok := <-ch:
			if !ok {
				return
			}
			metrics.AuditQueueDepth.WithLabelValues(worker).Set(float64(len(ch)))
			if err := d.recorder.Record(ctx, attempt); err != nil {
				metrics.AuditErrorsTotal.Inc()
				d.log.Error().Err(err).
					Str("account", attempt.Account).
					Int("worker_id", id).
					Msg("audit record persistence failed")
			}
		}
	}
}
