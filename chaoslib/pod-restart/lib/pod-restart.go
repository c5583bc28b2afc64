package lib

import (
	"context"
	"fmt"
	"time"

	"github.com/palantir/stacktrace"

	"github.com/maplelabs/chaos-actions/pkg/clients"
	"github.com/maplelabs/chaos-actions/pkg/events"
	experimentTypes "github.com/maplelabs/chaos-actions/pkg/generic/pod-restart/types"
	"github.com/maplelabs/chaos-actions/pkg/log"
	"github.com/maplelabs/chaos-actions/pkg/platform"
	"github.com/maplelabs/chaos-actions/pkg/platform/kubernetes"
	"github.com/maplelabs/chaos-actions/pkg/restart"
	"github.com/maplelabs/chaos-actions/pkg/scheduler"
	"github.com/maplelabs/chaos-actions/pkg/selection"
	"github.com/maplelabs/chaos-actions/pkg/status"
	"github.com/maplelabs/chaos-actions/pkg/telemetry"
	"github.com/maplelabs/chaos-actions/pkg/types"
)

// podTerminator deletes the target pod and confirms the controller brought
// a replacement back to ready, so a termination is only counted when the
// workload actually recovered.
type podTerminator struct {
	client      platform.Client
	clients     clients.ClientSets
	label       string
	gracePeriod int64
	timeout     int
	delay       int
}

func (p podTerminator) ExecuteTarget(ctx context.Context, target platform.Target) restart.TargetOutcome {
	outcome := restart.TargetOutcome{Target: target.Name}

	log.Infof("[Chaos]: Deleting pod %v with grace period %v", target.Name, p.gracePeriod)
	if err := p.client.Delete(ctx, target.Namespace, target.Name, p.gracePeriod); err != nil {
		if ctx.Err() != nil {
			outcome.Status = restart.OutcomeCancelled
			outcome.FailureReason = ctx.Err().Error()
			return outcome
		}
		outcome.Status = restart.OutcomeFailed
		outcome.FailureReason = fmt.Sprintf("could not delete pod: %v", err)
		return outcome
	}

	if err := status.CheckTargetStatus(ctx, target.Namespace, p.label, p.timeout, p.delay, p.clients); err != nil {
		outcome.Status = restart.OutcomeFailed
		outcome.FailureReason = fmt.Sprintf("pod deleted but recreation was not observed: %v", err)
		return outcome
	}
	outcome.Status = restart.OutcomeConfirmed
	return outcome
}

// PreparePodRestart continuously terminates the selected pods and verifies
// their recreation until the chaos duration is spent.
func PreparePodRestart(ctx context.Context, experimentsDetails *experimentTypes.ExperimentDetails, clients clients.ClientSets, resultDetails *types.ResultDetails, eventsDetails *types.EventDetails, chaosDetails *types.ChaosDetails) (restart.ExperimentReport, error) {
	span := telemetry.StartTracing(clients, "InjectPodRestartChaos")
	defer span.End()

	if experimentsDetails.RampTime != 0 {
		log.Infof("[Ramp]: Waiting for the %vs ramp time before injecting chaos", experimentsDetails.RampTime)
		time.Sleep(time.Duration(experimentsDetails.RampTime) * time.Second)
	}

	sched := newScheduler(ctx, experimentsDetails, clients, eventsDetails, chaosDetails)
	report, err := sched.Run(ctx)
	if err != nil {
		return report, stacktrace.Propagate(err, "could not run the termination cycles")
	}

	log.InfoWithValues("[Chaos]: Continuous pod restart run finished", map[string]interface{}{
		"cycles":    report.Cycles,
		"confirmed": report.TotalConfirmed,
		"status":    report.Status,
	})
	return report, nil
}

// TerminatePodsOnce performs a single resolve, select, terminate pass.
func TerminatePodsOnce(ctx context.Context, experimentsDetails *experimentTypes.ExperimentDetails, clients clients.ClientSets, eventsDetails *types.EventDetails, chaosDetails *types.ChaosDetails) (restart.CycleReport, error) {
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
		Actor: podTerminator{
			client:      client,
			clients:     clients,
			label:       experimentsDetails.AppLabel,
			gracePeriod: int64(experimentsDetails.GracePeriod),
			timeout:     experimentsDetails.Timeout,
			delay:       experimentsDetails.Delay,
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
		},
		OnCycle: func(cycle restart.CycleReport) {
			metrics.RecordCycle(ctx, experimentsDetails.ExperimentName, cycle)
			for _, outcome := range cycle.Outcomes {
				if outcome.Status != restart.OutcomeConfirmed {
					continue
				}
				types.SetEventAttributes(eventsDetails, types.ChaosInject, "Normal", "Pod restart confirmed", chaosDetails)
				eventsDetails.ResourceName = outcome.Target
				if err := events.GenerateEvents(eventsDetails, clients, chaosDetails); err != nil {
					log.Warnf("could not generate event for %v: %v", outcome.Target, err)
				}
			}
		},
	}
}
