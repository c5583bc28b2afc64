package lib

import (
	"context"
	"time"

	"github.com/palantir/stacktrace"

	"github.com/maplelabs/chaos-actions/pkg/clients"
	"github.com/maplelabs/chaos-actions/pkg/events"
	experimentTypes "github.com/maplelabs/chaos-actions/pkg/generic/container-restart/types"
	"github.com/maplelabs/chaos-actions/pkg/log"
	"github.com/maplelabs/chaos-actions/pkg/platform/kubernetes"
	"github.com/maplelabs/chaos-actions/pkg/restart"
	"github.com/maplelabs/chaos-actions/pkg/scheduler"
	"github.com/maplelabs/chaos-actions/pkg/selection"
	"github.com/maplelabs/chaos-actions/pkg/telemetry"
	"github.com/maplelabs/chaos-actions/pkg/types"
)

// PrepareContainerRestart runs the continuous verified-restart protocol:
// every cycle it resolves the target pods, dispatches the signal ladder
// against the selected containers, and confirms each restart through the
// restart counter before escalating.
func PrepareContainerRestart(ctx context.Context, experimentsDetails *experimentTypes.ExperimentDetails, clients clients.ClientSets, resultDetails *types.ResultDetails, eventsDetails *types.EventDetails, chaosDetails *types.ChaosDetails) (restart.ExperimentReport, error) {
	span := telemetry.StartTracing(clients, "InjectContainerRestartChaos")
	defer span.End()

	if experimentsDetails.RampTime != 0 {
		log.Infof("[Ramp]: Waiting for the %vs ramp time before injecting chaos", experimentsDetails.RampTime)
		time.Sleep(time.Duration(experimentsDetails.RampTime) * time.Second)
	}

	sched := newScheduler(ctx, experimentsDetails, clients, eventsDetails, chaosDetails)
	report, err := sched.Run(ctx)
	if err != nil {
		return report, stacktrace.Propagate(err, "could not run the restart cycles")
	}

	log.InfoWithValues("[Chaos]: Continuous restart run finished", map[string]interface{}{
		"cycles":    report.Cycles,
		"confirmed": report.TotalConfirmed,
		"status":    report.Status,
	})
	return report, nil
}

// RestartContainersOnce performs a single resolve, select, restart pass.
func RestartContainersOnce(ctx context.Context, experimentsDetails *experimentTypes.ExperimentDetails, clients clients.ClientSets, eventsDetails *types.EventDetails, chaosDetails *types.ChaosDetails) (restart.CycleReport, error) {
	sched := newScheduler(ctx, experimentsDetails, clients, eventsDetails, chaosDetails)
	if err := sched.Config.Criteria.Validate(); err != nil {
		return restart.CycleReport{}, err
	}
	return sched.RunCycle(ctx, 1), nil
}

func newScheduler(ctx context.Context, experimentsDetails *experimentTypes.ExperimentDetails, clients clients.ClientSets, eventsDetails *types.EventDetails, chaosDetails *types.ChaosDetails) scheduler.Scheduler {
	client := kubernetes.New(clients)

	metrics, err := telemetry.NewExperimentMetrics()
	if err != nil {
		log.Warnf("could not register experiment metrics: %v", err)
	}

	return scheduler.Scheduler{
		Resolver: selection.Resolver{Client: client},
		Actor: restart.Executor{
			Client: client,
			Verifier: restart.Verifier{
				Client:       client,
				PollInterval: time.Duration(experimentsDetails.PollInterval) * time.Second,
				Timeout:      time.Duration(experimentsDetails.PollTimeout) * time.Second,
			},
			Strategies: restart.WithCustomCommand(customCommand(experimentsDetails.RestartCommand), restart.DefaultStrategies()),
			SubUnit:    experimentsDetails.TargetContainer,
		},
		Config: scheduler.Config{
			Criteria: selection.Criteria{
				Namespace:     experimentsDetails.AppNS,
				LabelSelector: experimentsDetails.AppLabel,
				NamePattern:   experimentsDetails.NamePattern,
				All:           experimentsDetails.SelectAll,
				Randomize:     experimentsDetails.Randomize,
				Policy:        selection.Policy(experimentsDetails.Policy),
				Order:         selection.Order(experimentsDetails.Order),
				Quantity:      experimentsDetails.Quantity,
			},
			Interval:      time.Duration(experimentsDetails.Interval) * time.Second,
			TotalDuration: time.Duration(experimentsDetails.TotalDuration) * time.Second,
			Sequence:      experimentsDetails.Sequence,
		},
		OnCycle: func(cycle restart.CycleReport) {
			metrics.RecordCycle(ctx, experimentsDetails.ExperimentName, cycle)
			for _, outcome := range cycle.Outcomes {
				if outcome.Status != restart.OutcomeConfirmed {
					continue
				}
				types.SetEventAttributes(eventsDetails, types.ChaosInject, "Normal", "Container restart confirmed", chaosDetails)
				eventsDetails.ResourceName = outcome.Target
				if err := events.GenerateEvents(eventsDetails, clients, chaosDetails); err != nil {
					log.Warnf("could not generate event for %v: %v", outcome.Target, err)
				}
			}
		},
	}
}

// customCommand wraps a user-supplied shell string for dispatch, matching
// the form of the built-in ladder.
func customCommand(command string) []string {
	if command == "" {
		return nil
	}
	return []string{"sh", "-c", command}
}
