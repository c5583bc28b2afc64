package types

import (
	"os"
)

const (
	// PreChaosCheck initial stage of experiment check for health before chaos injection
	PreChaosCheck string = "PreChaosCheck"
	// PostChaosCheck  pre-final stage of experiment check for health after chaos injection
	PostChaosCheck string = "PostChaosCheck"
	// Summary final stage of experiment update the verdict
	Summary string = "Summary"
	// ChaosInject this stage refer to the main chaos injection
	ChaosInject string = "ChaosInject"
	// AwaitedVerdict marked the start of test
	AwaitedVerdict string = "Awaited"
	// PassVerdict marked the verdict as passed in the end of experiment
	PassVerdict string = "Pass"
	// FailVerdict marked the verdict as failed in the end of experiment
	FailVerdict string = "Fail"
	// StopVerdict marked the verdict as stopped when the experiment is cancelled
	StopVerdict string = "Stop"
)

// ResultDetails is for collecting all the experiment-result-related details
type ResultDetails struct {
	Name     string
	Verdict  string
	Phase    string
	FailStep string
}

// EventDetails is for collecting all the events-related details
type EventDetails struct {
	Message      string
	Reason       string
	ResourceName string
	Type         string
}

// ChaosDetails is for collecting the experiment-wide variables
type ChaosDetails struct {
	ExperimentName string
	InstanceID     string
	Namespace      string
	RunID          string
	Timeout        int
	Delay          int
}

// Getenv fetch the env and set the default value, if unset
func Getenv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}
	return value
}

//SetResultAttributes initialise all the chaos result details
func SetResultAttributes(resultDetails *ResultDetails, chaosDetails ChaosDetails) {
	resultDetails.Verdict = AwaitedVerdict
	resultDetails.Phase = "Running"
	resultDetails.FailStep = "N/A"
	resultDetails.Name = chaosDetails.ExperimentName
	if chaosDetails.InstanceID != "" {
		resultDetails.Name = resultDetails.Name + "-" + chaosDetails.InstanceID
	}
}

//SetResultAfterCompletion set all the chaos result details at the end of the experiment
func SetResultAfterCompletion(resultDetails *ResultDetails, verdict, phase, failStep string) {
	resultDetails.Verdict = verdict
	resultDetails.Phase = phase
	resultDetails.FailStep = failStep
}

//SetEventAttributes initialise attributes for event generation
func SetEventAttributes(eventsDetails *EventDetails, Reason, Type, Message string, chaosDetails *ChaosDetails) {
	eventsDetails.Reason = Reason
	eventsDetails.Message = Message
	eventsDetails.ResourceName = chaosDetails.ExperimentName
	eventsDetails.Type = Type
}
