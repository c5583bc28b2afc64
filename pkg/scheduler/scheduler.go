package scheduler

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/maplelabs/chaos-actions/pkg/log"
	"github.com/maplelabs/chaos-actions/pkg/platform"
	"github.com/maplelabs/chaos-actions/pkg/restart"
	"github.com/maplelabs/chaos-actions/pkg/selection"
)

// Actor disrupts a single target and reports what it observed. The
// exec-based restart executor and the delete-based pod terminator both
// satisfy it, sharing the cycle engine.
type Actor interface {
	ExecuteTarget(ctx context.Context, target platform.Target) restart.TargetOutcome
}

// Config holds the timing and sequencing knobs of a continuous run.
type Config struct {
	Criteria      selection.Criteria
	Interval      time.Duration
	TotalDuration time.Duration
	// Sequence is serial (default) or parallel
	Sequence string
}

// Scheduler repeats resolve, select, execute, verify at a fixed interval
// until the wall-clock budget is spent.
type Scheduler struct {
	Resolver selection.Resolver
	Actor    Actor
	Config   Config
	// OnCycle, when set, observes every finished cycle report
	OnCycle func(restart.CycleReport)
}

// Run drives cycles until the budget deadline or context cancellation and
// returns the aggregated report. The only fatal error is criteria that can
// never select anything; every per-cycle failure is contained in the report.
func (s Scheduler) Run(ctx context.Context) (restart.ExperimentReport, error) {
	report := restart.ExperimentReport{Status: restart.RunCompleted}
	if err := s.Config.Criteria.Validate(); err != nil {
		return report, err
	}

	start := time.Now()
	deadline := start.Add(s.Config.TotalDuration)

	for {
		cycle := s.RunCycle(ctx, report.Cycles+1)
		report.Cycles++
		report.TotalConfirmed += cycle.Confirmed()
		report.CycleReports = append(report.CycleReports, cycle)
		if s.OnCycle != nil {
			s.OnCycle(cycle)
		}
		log.InfoWithValues("[Chaos]: Cycle finished", map[string]interface{}{
			"cycle":     cycle.Number,
			"confirmed": cycle.Confirmed(),
			"targets":   len(cycle.Outcomes),
		})

		if ctx.Err() != nil {
			report.Status = restart.RunCancelled
			break
		}
		remaining := time.Until(deadline)
		if remaining <= s.Config.Interval {
			log.Infof("[Chaos]: %v remaining is within the %v interval, stopping", remaining.Round(time.Second), s.Config.Interval)
			break
		}

		select {
		case <-ctx.Done():
			report.Status = restart.RunCancelled
		case <-time.After(s.Config.Interval):
			continue
		}
		break
	}

	report.Elapsed = time.Since(start)
	if report.Cycles > 0 {
		report.AverageCycle = report.Elapsed / time.Duration(report.Cycles)
	}
	return report, nil
}

// RunCycle performs one resolve, select, execute pass. A resolver failure
// aborts only this cycle; the error is recorded and zero targets are
// processed.
func (s Scheduler) RunCycle(ctx context.Context, number int) (cycle restart.CycleReport) {
	cycle = restart.CycleReport{Number: number, StartedAt: time.Now()}
	defer func() {
		cycle.Duration = time.Since(cycle.StartedAt)
	}()

	candidates, err := s.Resolver.Resolve(ctx, s.Config.Criteria)
	if err != nil {
		log.Errorf("cycle %v: could not resolve targets: %v", number, err)
		cycle.Error = err.Error()
		return cycle
	}
	selected := selection.SelectTargets(candidates, s.Config.Criteria)
	if len(selected) == 0 {
		log.Warnf("cycle %v: no targets matched the selection criteria", number)
		return cycle
	}
	log.Infof("[Chaos]: Cycle %v selected %v of %v candidate targets", number, len(selected), len(candidates))

	if strings.EqualFold(s.Config.Sequence, "parallel") {
		cycle.Outcomes = s.executeInParallelMode(ctx, selected)
	} else {
		cycle.Outcomes = s.executeInSerialMode(ctx, selected)
	}
	return cycle
}

// executeInSerialMode disrupts the targets one at a time, preserving
// selector order.
func (s Scheduler) executeInSerialMode(ctx context.Context, targets []platform.Target) []restart.TargetOutcome {
	outcomes := make([]restart.TargetOutcome, 0, len(targets))
	for _, target := range targets {
		outcomes = append(outcomes, s.Actor.ExecuteTarget(ctx, target))
		if ctx.Err() != nil {
			break
		}
	}
	return outcomes
}

// executeInParallelMode fans out one goroutine per target. Each goroutine
// writes only its own slot, the cycle report is assembled after every
// target has finished.
func (s Scheduler) executeInParallelMode(ctx context.Context, targets []platform.Target) []restart.TargetOutcome {
	outcomes := make([]restart.TargetOutcome, len(targets))
	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target platform.Target) {
			defer wg.Done()
			outcomes[i] = s.Actor.ExecuteTarget(ctx, target)
		}(i, target)
	}
	wg.Wait()
	return outcomes
}
