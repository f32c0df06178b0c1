package drawcheck

import (
	"context"
	"errors"
	"sync"
)

// ErrBusy is returned by Submit while an analysis job is already in flight.
// The engine runs at most one job at a time; callers retry after the
// current job finishes or is cancelled.
var ErrBusy = errors.New("drawcheck: analysis already in flight")

// ErrSuperseded is reported by a job whose result arrived after it was
// cancelled or replaced. Its report is discarded, never delivered.
var ErrSuperseded = errors.New("drawcheck: job superseded")

// Runner executes analysis jobs as cancellable background units of work
// with one-at-a-time admission control and stale-result suppression: every
// job gets a monotonically increasing sequence number, and a job's result
// is delivered only while its sequence number is still the current one.
type Runner struct {
	mu      sync.Mutex
	lastSeq uint64
	current uint64 // sequence of the in-flight job, 0 when idle
}

// NewRunner creates an idle runner.
func NewRunner() *Runner {
	return &Runner{}
}

// Task is a unit of analysis work the runner can execute. *Checker
// satisfies it.
type Task interface {
	Check(ctx context.Context) (*Report, []Warning, error)
}

// Job is one submitted analysis: a future for its report plus its sequence
// number and cancellation handle.
type Job struct {
	seq    uint64
	runner *Runner
	cancel context.CancelFunc

	done     chan struct{}
	report   *Report
	warnings []Warning
	err      error
}

// Submit starts the task in the background. It returns ErrBusy while a
// previous job is still in flight.
func (r *Runner) Submit(ctx context.Context, task Task) (*Job, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	r.mu.Lock()
	if r.current != 0 {
		r.mu.Unlock()
		return nil, ErrBusy
	}
	r.lastSeq++
	seq := r.lastSeq
	r.current = seq
	r.mu.Unlock()

	jobCtx, cancel := context.WithCancel(ctx)
	job := &Job{
		seq:    seq,
		runner: r,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer cancel()
		report, warnings, err := task.Check(jobCtx)

		r.mu.Lock()
		stale := r.current != seq
		if !stale {
			r.current = 0
		}
		r.mu.Unlock()

		if stale {
			job.err = ErrSuperseded
		} else {
			job.report = report
			job.warnings = warnings
			job.err = err
		}
		close(job.done)
	}()

	return job, nil
}

// Active reports whether a job is currently in flight.
func (r *Runner) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current != 0
}

// Seq returns the job's sequence number.
func (j *Job) Seq() uint64 {
	return j.seq
}

// Cancel requests cooperative cancellation and releases the admission slot
// immediately, so a superseding job can start before this one unwinds. The
// cancelled job's late result is suppressed.
func (j *Job) Cancel() {
	j.runner.mu.Lock()
	if j.runner.current == j.seq {
		j.runner.current = 0
	}
	j.runner.mu.Unlock()
	j.cancel()
}

// Wait blocks until the job finishes and returns its result. A cancelled or
// superseded job returns ErrSuperseded or the context error, never a
// partial report.
func (j *Job) Wait() (*Report, []Warning, error) {
	<-j.done
	return j.report, j.warnings, j.err
}

// Done returns a channel closed when the job has finished.
func (j *Job) Done() <-chan struct{} {
	return j.done
}
