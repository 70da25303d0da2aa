package application

import "time"

// WaitTier classifies a running job by how long it has been polled. Young
// jobs are polled often; long-running ones back off.
type WaitTier int

const (
	// TierFresh covers the first 30 seconds. Polls every 2 seconds.
	TierFresh WaitTier = iota
	// TierRunning covers up to 2 minutes. Polls every 5 seconds.
	TierRunning
	// TierLong covers everything after that. Polls every 10 seconds.
	TierLong
)

const (
	intervalFresh   = 2 * time.Second
	intervalRunning = 5 * time.Second
	intervalLong    = 10 * time.Second
)

// String returns a human-readable name for the tier.
func (t WaitTier) String() string {
	switch t {
	case TierFresh:
		return "fresh"
	case TierRunning:
		return "running"
	case TierLong:
		return "long"
	default:
		return "unknown"
	}
}

// classifyWait returns the tier for a job that has been waited on for
// elapsed.
func classifyWait(elapsed time.Duration) WaitTier {
	switch {
	case elapsed < 30*time.Second:
		return TierFresh
	case elapsed < 2*time.Minute:
		return TierRunning
	default:
		return TierLong
	}
}

// tierInterval returns the polling interval for tier.
func tierInterval(tier WaitTier) time.Duration {
	switch tier {
	case TierFresh:
		return intervalFresh
	case TierRunning:
		return intervalRunning
	case TierLong:
		return intervalLong
	default:
		return intervalFresh
	}
}

// nextInterval returns the delay before the next poll. A fixed interval
// disables the adaptive schedule.
func nextInterval(fixed, elapsed time.Duration) time.Duration {
	if fixed > 0 {
		return fixed
	}
	return tierInterval(classifyWait(elapsed))
}
