package restart

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/maplelabs/chaos-actions/pkg/log"
	"github.com/maplelabs/chaos-actions/pkg/platform"
)

// sidecar containers never host the workload process being restarted
var sidecarPattern = regexp.MustCompile(`(istio|linkerd|proxy)`)

// PrimarySubUnit picks the sub-unit to disrupt: the first one whose name
// does not look like a sidecar, falling back to the first one.
func PrimarySubUnit(target platform.Target) string {
	if len(target.SubUnits) == 0 {
		return ""
	}
	for _, name := range target.SubUnits {
		if !sidecarPattern.MatchString(name) {
			return name
		}
	}
	return target.SubUnits[0]
}

// Executor tries a prioritized strategy list against one target until the
// verifier confirms a restart or the list is exhausted.
type Executor struct {
	Client     platform.Client
	Verifier   Verifier
	Strategies []Strategy
	// SubUnit overrides the sidecar-aware default selection when set
	SubUnit string
}

// ExecuteTarget runs the escalation protocol against one target. The
// baseline counter is captured once, before the first dispatch, so a slow
// effect of an earlier strategy is still attributed correctly. Every
// dispatch attempt is retained in the outcome whether it won or not.
func (e Executor) ExecuteTarget(ctx context.Context, target platform.Target) TargetOutcome {
	strategies := e.Strategies
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	outcome := TargetOutcome{Target: target.Name}

	subUnit := e.SubUnit
	if subUnit == "" {
		subUnit = PrimarySubUnit(target)
	}
	if subUnit == "" {
		outcome.Status = OutcomeFailed
		outcome.FailureReason = "target exposes no sub-units"
		return outcome
	}
	outcome.SubUnit = subUnit

	baseline, err := e.Client.ReadCounter(ctx, target.Namespace, target.Name, subUnit)
	if err != nil {
		outcome.Status = OutcomeFailed
		outcome.FailureReason = fmt.Sprintf("could not capture baseline restart count: %v", err)
		return outcome
	}
	outcome.BaselineCounter = &baseline

	for i, strategy := range strategies {
		log.Infof("[Chaos]: Trying restart strategy %v/%v on %v/%v: %v", i+1, len(strategies), target.Name, subUnit, strings.Join(strategy.Command, " "))
		attempt := DispatchAttempt{Strategy: strategy}

		execution, err := e.Client.Dispatch(ctx, target.Namespace, target.Name, subUnit, strategy.Command)
		if err != nil {
			attempt.DispatchError = err.Error()
			outcome.Attempts = append(outcome.Attempts, attempt)
			if ctx.Err() != nil {
				outcome.Status = OutcomeCancelled
				outcome.FailureReason = ctx.Err().Error()
				return outcome
			}
			log.Warnf("could not dispatch strategy %v on %v/%v: %v", i+1, target.Name, subUnit, err)
			continue
		}
		attempt.Stdout = execution.Stdout
		attempt.Stderr = execution.Stderr
		attempt.CtrlErr = execution.CtrlErr
		outcome.Attempts = append(outcome.Attempts, attempt)

		// the dispatch result alone never decides success, only the counter does
		confirmed, final, err := e.Verifier.Verify(ctx, target.Namespace, target.Name, subUnit, baseline)
		if final != nil {
			outcome.FinalCounter = final
		}
		if err != nil {
			outcome.Status = OutcomeCancelled
			outcome.FailureReason = err.Error()
			return outcome
		}
		if confirmed {
			log.Infof("[Chaos]: Restart of %v/%v observed: %v -> %v", target.Name, subUnit, baseline, *final)
			outcome.Status = OutcomeConfirmed
			outcome.StrategyIndexUsed = i + 1
			return outcome
		}
		log.Warnf("strategy %v produced no observed restart on %v/%v, escalating", i+1, target.Name, subUnit)
	}

	outcome.Status = OutcomeFailed
	outcome.FailureReason = fmt.Sprintf("all %v strategies exhausted without an observed restart", len(strategies))
	return outcome
}
