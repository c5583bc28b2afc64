package restart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maplelabs/chaos-actions/pkg/platform"
)

// restartingTarget simulates a target whose restart counter increments only
// after a configured number of successful dispatches.
type restartingTarget struct {
	platform.Client
	mu           sync.Mutex
	baseline     int32
	baselineErr  error
	confirmAfter int
	dispatchErrs map[int]error
	attempts     int
	dispatched   int
}

func (c *restartingTarget) ReadCounter(ctx context.Context, namespace, target, subUnit string) (int32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.baselineErr != nil {
		return 0, c.baselineErr
	}
	if c.confirmAfter > 0 && c.dispatched >= c.confirmAfter {
		return c.baseline + 1, nil
	}
	return c.baseline, nil
}

func (c *restartingTarget) Dispatch(ctx context.Context, namespace, target, subUnit string, command []string) (platform.Execution, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attempts++
	if err, ok := c.dispatchErrs[c.attempts]; ok {
		return platform.Execution{}, err
	}
	c.dispatched++
	return platform.Execution{Stdout: fmt.Sprintf("attempt %d", c.attempts)}, nil
}

func fastExecutor(client platform.Client, strategies []Strategy) Executor {
	return Executor{
		Client:     client,
		Verifier:   Verifier{Client: client, PollInterval: time.Millisecond, Timeout: 20 * time.Millisecond},
		Strategies: strategies,
	}
}

func webTarget() platform.Target {
	return platform.Target{Name: "web-0", Namespace: "default", SubUnits: []string{"app"}}
}

func TestExecuteTargetThirdStrategyWins(t *testing.T) {
	client := &restartingTarget{baseline: 4, confirmAfter: 3}
	strategies := DefaultStrategies()
	require.Len(t, strategies, 4)

	outcome := fastExecutor(client, strategies).ExecuteTarget(context.Background(), webTarget())

	assert.Equal(t, OutcomeConfirmed, outcome.Status)
	assert.Equal(t, 3, outcome.StrategyIndexUsed)
	require.Len(t, outcome.Attempts, 3, "the fourth strategy must never be tried")
	require.NotNil(t, outcome.BaselineCounter)
	require.NotNil(t, outcome.FinalCounter)
	assert.Equal(t, int32(4), *outcome.BaselineCounter)
	assert.Equal(t, int32(5), *outcome.FinalCounter)
}

func TestExecuteTargetTransportFailureEscalates(t *testing.T) {
	client := &restartingTarget{
		baseline:     0,
		confirmAfter: 1,
		dispatchErrs: map[int]error{1: errors.New("connection reset")},
	}

	outcome := fastExecutor(client, DefaultStrategies()).ExecuteTarget(context.Background(), webTarget())

	assert.Equal(t, OutcomeConfirmed, outcome.Status)
	assert.Equal(t, 2, outcome.StrategyIndexUsed)
	require.Len(t, outcome.Attempts, 2)
	assert.Equal(t, "connection reset", outcome.Attempts[0].DispatchError)
	assert.Empty(t, outcome.Attempts[1].DispatchError)
}

func TestExecuteTargetExhaustion(t *testing.T) {
	client := &restartingTarget{baseline: 2}
	strategies := DefaultStrategies()[:2]

	outcome := fastExecutor(client, strategies).ExecuteTarget(context.Background(), webTarget())

	assert.Equal(t, OutcomeFailed, outcome.Status)
	assert.Zero(t, outcome.StrategyIndexUsed)
	require.Len(t, outcome.Attempts, 2)
	assert.Contains(t, outcome.FailureReason, "exhausted")
	require.NotNil(t, outcome.FinalCounter)
	assert.Equal(t, int32(2), *outcome.FinalCounter)
}

func TestExecuteTargetBaselineUnreadable(t *testing.T) {
	client := &restartingTarget{baselineErr: errors.New("pod not found")}

	outcome := fastExecutor(client, DefaultStrategies()).ExecuteTarget(context.Background(), webTarget())

	assert.Equal(t, OutcomeFailed, outcome.Status)
	assert.Contains(t, outcome.FailureReason, "baseline")
	assert.Empty(t, outcome.Attempts, "no strategy should be dispatched without a baseline")
	assert.Zero(t, client.dispatched)
}

func TestExecuteTargetCancelled(t *testing.T) {
	client := &restartingTarget{baseline: 0}
	executor := Executor{
		Client:     client,
		Verifier:   Verifier{Client: client, PollInterval: 10 * time.Millisecond, Timeout: time.Minute},
		Strategies: DefaultStrategies(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	outcome := executor.ExecuteTarget(ctx, webTarget())
	assert.Equal(t, OutcomeCancelled, outcome.Status)
}

func TestPrimarySubUnit(t *testing.T) {
	tests := []struct {
		name     string
		subUnits []string
		want     string
	}{
		{name: "skips istio sidecar", subUnits: []string{"istio-proxy", "app"}, want: "app"},
		{name: "skips linkerd sidecar", subUnits: []string{"linkerd-proxy", "app"}, want: "app"},
		{name: "first non sidecar wins", subUnits: []string{"app", "istio-proxy"}, want: "app"},
		{name: "all sidecars falls back to the first", subUnits: []string{"istio-proxy", "envoy-proxy"}, want: "istio-proxy"},
		{name: "no sub-units", subUnits: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PrimarySubUnit(platform.Target{Name: "web-0", SubUnits: tt.subUnits})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWithCustomCommand(t *testing.T) {
	base := DefaultStrategies()

	custom := WithCustomCommand([]string{"sh", "-c", "reboot"}, base)
	require.Len(t, custom, len(base)+1)
	assert.Equal(t, StrategyCustom, custom[0].Kind)
	assert.Equal(t, []string{"sh", "-c", "reboot"}, custom[0].Command)
	assert.Equal(t, base[0], custom[1])

	assert.Equal(t, base, WithCustomCommand(nil, base))
}
