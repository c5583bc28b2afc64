package restart

import (
	"time"
)

// StrategyKind tags the origin of a strategy command.
type StrategyKind string

const (
	// StrategySignal is one rung of the built-in signal ladder
	StrategySignal StrategyKind = "signal"
	// StrategyCustom is a user-supplied command, always tried first
	StrategyCustom StrategyKind = "custom"
)

// Strategy is one disruptive command the executor can dispatch against a
// target's sub-unit.
type Strategy struct {
	Kind    StrategyKind
	Command []string
}

// DefaultStrategies returns the signal escalation ladder against PID 1,
// mildest first.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Kind: StrategySignal, Command: []string{"sh", "-c", "kill -INT 1"}},
		{Kind: StrategySignal, Command: []string{"sh", "-c", "kill -2 1"}},
		{Kind: StrategySignal, Command: []string{"sh", "-c", "kill -TERM 1"}},
		{Kind: StrategySignal, Command: []string{"sh", "-c", "kill -9 1"}},
	}
}

// WithCustomCommand prepends a user-supplied command to the strategy list.
// A nil command returns the list unchanged.
func WithCustomCommand(command []string, strategies []Strategy) []Strategy {
	if len(command) == 0 {
		return strategies
	}
	out := make([]Strategy, 0, len(strategies)+1)
	out = append(out, Strategy{Kind: StrategyCustom, Command: command})
	return append(out, strategies...)
}

// DispatchAttempt retains the captured streams of one strategy dispatch,
// winning or not.
type DispatchAttempt struct {
	Strategy      Strategy `json:"strategy"`
	Stdout        string   `json:"stdout,omitempty"`
	Stderr        string   `json:"stderr,omitempty"`
	CtrlErr       string   `json:"ctrlErr,omitempty"`
	DispatchError string   `json:"dispatchError,omitempty"`
}

// OutcomeStatus is the terminal state of one target in one cycle.
type OutcomeStatus string

const (
	OutcomeConfirmed OutcomeStatus = "confirmed"
	OutcomeFailed    OutcomeStatus = "failed"
	OutcomeCancelled OutcomeStatus = "cancelled"
)

// TargetOutcome records everything observed while disrupting one target:
// the baseline and final counters, every dispatch attempt, and which
// strategy (1-based) produced the confirmed restart.
type TargetOutcome struct {
	Target            string            `json:"target"`
	SubUnit           string            `json:"subUnit"`
	Status            OutcomeStatus     `json:"status"`
	StrategyIndexUsed int               `json:"strategyIndexUsed,omitempty"`
	BaselineCounter   *int32            `json:"baselineCounter,omitempty"`
	FinalCounter      *int32            `json:"finalCounter,omitempty"`
	Attempts          []DispatchAttempt `json:"attempts,omitempty"`
	FailureReason     string            `json:"failureReason,omitempty"`
}

// CycleReport folds the outcomes of one resolve/select/execute pass.
type CycleReport struct {
	Number    int             `json:"number"`
	StartedAt time.Time       `json:"startedAt"`
	Duration  time.Duration   `json:"duration"`
	Error     string          `json:"error,omitempty"`
	Outcomes  []TargetOutcome `json:"outcomes,omitempty"`
}

// Confirmed counts the outcomes of this cycle that were verified.
func (c CycleReport) Confirmed() int {
	var n int
	for _, outcome := range c.Outcomes {
		if outcome.Status == OutcomeConfirmed {
			n += 1
		}
	}
	return n
}

// RunStatus distinguishes a run that exhausted its budget from one that was
// stopped externally.
type RunStatus string

const (
	RunCompleted RunStatus = "completed"
	RunCancelled RunStatus = "cancelled"
)

// ExperimentReport is the terminal report of a continuous run.
type ExperimentReport struct {
	Status         RunStatus     `json:"status"`
	Cycles         int           `json:"cycles"`
	TotalConfirmed int           `json:"totalConfirmed"`
	Elapsed        time.Duration `json:"elapsed"`
	AverageCycle   time.Duration `json:"averageCycle"`
	CycleReports   []CycleReport `json:"cycleReports,omitempty"`
}

// Failed enumerates every non-confirmed target outcome across all cycles.
func (r ExperimentReport) Failed() []TargetOutcome {
	var failed []TargetOutcome
	for _, cycle := range r.CycleReports {
		for _, outcome := range cycle.Outcomes {
			if outcome.Status != OutcomeConfirmed {
				failed = append(failed, outcome)
			}
		}
	}
	return failed
}
