package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maplelabs/chaos-actions/pkg/cerrors"
	"github.com/maplelabs/chaos-actions/pkg/platform"
	"github.com/maplelabs/chaos-actions/pkg/restart"
	"github.com/maplelabs/chaos-actions/pkg/selection"
)

// fakePlatform restarts every target on the first dispatched command so
// cycles complete almost instantly.
type fakePlatform struct {
	platform.Client
	mu       sync.Mutex
	targets  []platform.Target
	listErr  error
	counters map[string]int32
}

func (f *fakePlatform) ListTargets(ctx context.Context, namespace, labelSelector string) ([]platform.Target, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.targets, nil
}

func (f *fakePlatform) ReadCounter(ctx context.Context, namespace, target, subUnit string) (int32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counters[target], nil
}

func (f *fakePlatform) Dispatch(ctx context.Context, namespace, target, subUnit string, command []string) (platform.Execution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.counters == nil {
		f.counters = map[string]int32{}
	}
	f.counters[target]++
	return platform.Execution{Stdout: "ok"}, nil
}

func newScheduler(client platform.Client, cfg Config) Scheduler {
	return Scheduler{
		Resolver: selection.Resolver{Client: client},
		Actor: restart.Executor{
			Client:   client,
			Verifier: restart.Verifier{Client: client, PollInterval: time.Millisecond, Timeout: 20 * time.Millisecond},
		},
		Config: cfg,
	}
}

func demoTargets() []platform.Target {
	return []platform.Target{
		{Name: "web-0", Namespace: "demo", SubUnits: []string{"app"}},
		{Name: "web-1", Namespace: "demo", SubUnits: []string{"app"}},
		{Name: "web-2", Namespace: "demo", SubUnits: []string{"app"}},
	}
}

func TestRunRespectsBudget(t *testing.T) {
	client := &fakePlatform{targets: demoTargets()}
	s := newScheduler(client, Config{
		Criteria:      selection.Criteria{Namespace: "demo", All: true},
		Interval:      30 * time.Millisecond,
		TotalDuration: 100 * time.Millisecond,
	})

	start := time.Now()
	report, err := s.Run(context.Background())
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, restart.RunCompleted, report.Status)
	assert.GreaterOrEqual(t, report.Cycles, 1)
	assert.LessOrEqual(t, report.Cycles, 4)
	assert.Equal(t, report.Cycles*3, report.TotalConfirmed)
	assert.Less(t, elapsed, 200*time.Millisecond, "must not sleep past the budget deadline")
	assert.Len(t, report.CycleReports, report.Cycles)
}

func TestRunCancelled(t *testing.T) {
	client := &fakePlatform{targets: demoTargets()}
	s := newScheduler(client, Config{
		Criteria:      selection.Criteria{Namespace: "demo", All: true},
		Interval:      time.Hour,
		TotalDuration: 24 * time.Hour,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	report, err := s.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, restart.RunCancelled, report.Status)
	assert.GreaterOrEqual(t, report.Cycles, 1)
}

func TestRunInvalidCriteria(t *testing.T) {
	client := &fakePlatform{targets: demoTargets()}
	s := newScheduler(client, Config{
		Criteria: selection.Criteria{NamePattern: "("},
	})

	_, err := s.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, cerrors.ErrorTypeInvalidCriteria, cerrors.GetErrorType(err))
}

func TestRunContainsResolverFailures(t *testing.T) {
	client := &fakePlatform{listErr: errors.New("apiserver unavailable")}
	s := newScheduler(client, Config{
		Criteria:      selection.Criteria{Namespace: "demo", All: true},
		Interval:      10 * time.Millisecond,
		TotalDuration: 35 * time.Millisecond,
	})

	report, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, restart.RunCompleted, report.Status)
	assert.GreaterOrEqual(t, report.Cycles, 2, "the run must outlive a failing cycle")
	for _, cycle := range report.CycleReports {
		assert.Contains(t, cycle.Error, "apiserver unavailable")
		assert.Empty(t, cycle.Outcomes)
	}
}

func TestRunCycleParallel(t *testing.T) {
	client := &fakePlatform{targets: demoTargets()}
	s := newScheduler(client, Config{
		Criteria: selection.Criteria{Namespace: "demo", All: true},
		Sequence: "parallel",
	})

	cycle := s.RunCycle(context.Background(), 1)
	require.Len(t, cycle.Outcomes, 3)
	assert.Equal(t, 3, cycle.Confirmed())

	seen := map[string]bool{}
	for _, outcome := range cycle.Outcomes {
		assert.Equal(t, restart.OutcomeConfirmed, outcome.Status)
		seen[outcome.Target] = true
	}
	assert.Len(t, seen, 3)
}

func TestRunCycleSerialOrder(t *testing.T) {
	client := &fakePlatform{targets: demoTargets()}
	s := newScheduler(client, Config{
		Criteria: selection.Criteria{Namespace: "demo", Policy: selection.PolicyFixed, Quantity: 2},
	})

	cycle := s.RunCycle(context.Background(), 1)
	require.Len(t, cycle.Outcomes, 2)
	assert.Equal(t, "web-0", cycle.Outcomes[0].Target)
	assert.Equal(t, "web-1", cycle.Outcomes[1].Target)
}
