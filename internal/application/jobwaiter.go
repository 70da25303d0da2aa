package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/ericfisherdev/qbique/internal/domain/model"
	"github.com/ericfisherdev/qbique/internal/domain/port/driven"
)

const defaultWaitTimeout = 300 * time.Second

var jobStatusPaths = map[string]string{
	"backtest":     "/api/backtest/status/%s",
	"optimization": "/api/optimization/result/%s",
	"contract":     "/api/contracts/%s/status",
}

// JobKinds returns the job kinds JobStatusPath understands, sorted.
func JobKinds() []string {
	kinds := make([]string, 0, len(jobStatusPaths))
	for k := range jobStatusPaths {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// JobStatusPath returns the status endpoint for a job of the given kind.
func JobStatusPath(kind, id string) (string, error) {
	format, ok := jobStatusPaths[kind]
	if !ok {
		return "", &model.ConfigError{
			Key:    "kind",
			Reason: fmt.Sprintf("unknown job kind %q", kind),
			Hint:   fmt.Sprintf("qbique jobs wait <%s> <id>", strings.Join(JobKinds(), "|")),
		}
	}
	return fmt.Sprintf(format, url.PathEscape(id)), nil
}

// JobFailedError is returned when a polled job ends in the failed state.
type JobFailedError struct {
	JobID   string
	Message string
}

func (e *JobFailedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("job %s failed", e.JobID)
	}
	return fmt.Sprintf("job %s failed: %s", e.JobID, e.Message)
}

// WaitOptions controls a Wait call. A zero Interval selects the adaptive
// schedule; a zero Timeout selects five minutes.
type WaitOptions struct {
	Interval   time.Duration
	Timeout    time.Duration
	Call       model.CallOptions
	OnProgress func(model.JobStatus)
}

// JobWaiter polls a job status endpoint until the job finishes. Each poll is
// an independent gateway call; the overall wait has its own deadline.
type JobWaiter struct {
	gateway driven.APIGateway
	logger  *slog.Logger
}

// NewJobWaiter creates a JobWaiter.
func NewJobWaiter(gateway driven.APIGateway, logger *slog.Logger) *JobWaiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &JobWaiter{gateway: gateway, logger: logger}
}

// Wait polls statusPath immediately and then after every interval. It
// returns the final status on completion, a *JobFailedError on failure, and
// the context error when the deadline passes or ctx is canceled. Gateway
// errors abort the wait.
func (w *JobWaiter) Wait(ctx context.Context, statusPath string, opts WaitOptions) (model.JobStatus, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultWaitTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	started := time.Now()

	for {
		status, done, err := w.poll(ctx, statusPath, opts)
		if err != nil || done {
			return status, err
		}

		timer := time.NewTimer(nextInterval(opts.Interval, time.Since(started)))
		select {
		case <-ctx.Done():
			timer.Stop()
			w.logger.Debug("job wait stopped", "path", statusPath, "error", ctx.Err())
			return status, fmt.Errorf("wait for %s: %w", statusPath, ctx.Err())
		case <-timer.C:
		}
	}
}

func (w *JobWaiter) poll(ctx context.Context, statusPath string, opts WaitOptions) (model.JobStatus, bool, error) {
	var status model.JobStatus
	if err := callJSON(ctx, w.gateway, http.MethodGet, statusPath, nil, &status, opts.Call); err != nil {
		if ctx.Err() != nil {
			return status, true, fmt.Errorf("wait for %s: %w", statusPath, ctx.Err())
		}
		return status, true, fmt.Errorf("poll %s: %w", statusPath, err)
	}

	w.logger.Debug("job polled", "path", statusPath, "status", status.Status)
	if opts.OnProgress != nil {
		opts.OnProgress(status)
	}

	switch status.Status {
	case model.JobCompleted:
		return status, true, nil
	case model.JobFailed:
		return status, true, &JobFailedError{JobID: status.JobID, Message: status.Message}
	default:
		return status, false, nil
	}
}
