package restart

import (
	"context"
	"time"

	"github.com/maplelabs/chaos-actions/pkg/cerrors"
	"github.com/maplelabs/chaos-actions/pkg/log"
	"github.com/maplelabs/chaos-actions/pkg/platform"
)

const (
	// DefaultPollInterval is the cadence of convergence polls
	DefaultPollInterval = 2 * time.Second
	// DefaultPollTimeout bounds how long a single strategy is given to converge
	DefaultPollTimeout = 60 * time.Second
)

// Verifier turns "command was issued" into "restart was observed" by polling
// the sub-unit's restart counter until it rises above the baseline.
type Verifier struct {
	Client       platform.Client
	PollInterval time.Duration
	Timeout      time.Duration
}

// Verify polls the counter at the configured cadence, starting immediately.
// It returns confirmed=true with the first counter seen above baseline, or
// confirmed=false once the deadline has passed without an increase. A poll
// that fails to read the counter does not reset the deadline. Context
// cancellation aborts the wait with a Cancelled error.
func (v Verifier) Verify(ctx context.Context, namespace, target, subUnit string, baseline int32) (bool, *int32, error) {
	pollInterval := v.PollInterval
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	timeout := v.Timeout
	if timeout <= 0 {
		timeout = DefaultPollTimeout
	}

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var final *int32
	for {
		count, err := v.Client.ReadCounter(ctx, namespace, target, subUnit)
		if err != nil {
			log.Warnf("could not read restart count for %v/%v: %v", target, subUnit, err)
		} else {
			current := count
			final = &current
			if count > baseline {
				return true, final, nil
			}
		}

		if !time.Now().Before(deadline) {
			return false, final, nil
		}

		select {
		case <-ctx.Done():
			return false, final, cerrors.Cancelled{Phase: "verification"}
		case <-ticker.C:
		}
	}
}
