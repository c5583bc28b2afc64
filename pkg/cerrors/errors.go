package cerrors

import "fmt"

type Generic struct {
	Phase  string
	Reason string
}

func (e Generic) Error() string {
	if e.Phase == "" {
		return e.Reason
	}
	return fmt.Sprintf("[%s]: %s", e.Phase, e.Reason)
}

func (e Generic) UserFriendly() bool {
	return true
}

func (e Generic) ErrorType() ErrorType {
	return ErrorTypeGeneric
}

// Criteria marks selection input that can never match anything, it fails
// the experiment before any platform query is issued.
type Criteria struct {
	Field  string
	Reason string
}

func (e Criteria) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid selection criteria: %s", e.Reason)
	}
	return fmt.Sprintf("invalid selection criteria '%s': %s", e.Field, e.Reason)
}

func (e Criteria) UserFriendly() bool {
	return true
}

func (e Criteria) ErrorType() ErrorType {
	return ErrorTypeInvalidCriteria
}

// Platform wraps transport failures of the orchestration platform client
type Platform struct {
	Operation string
	Target    string
	Reason    string
}

func (e Platform) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("platform %s failed: %s", e.Operation, e.Reason)
	}
	return fmt.Sprintf("platform %s failed for '%s': %s", e.Operation, e.Target, e.Reason)
}

func (e Platform) UserFriendly() bool {
	return true
}

func (e Platform) ErrorType() ErrorType {
	return ErrorTypePlatformUnavailable
}

// Dispatch marks a single strategy command that could not be issued,
// the executor escalates past it
type Dispatch struct {
	Target  string
	SubUnit string
	Reason  string
}

func (e Dispatch) Error() string {
	return fmt.Sprintf("could not dispatch command to '%s/%s': %s", e.Target, e.SubUnit, e.Reason)
}

func (e Dispatch) UserFriendly() bool {
	return true
}

func (e Dispatch) ErrorType() ErrorType {
	return ErrorTypeDispatchFailed
}

// Verification marks the absence of observed convergence within the deadline
type Verification struct {
	Target  string
	SubUnit string
	Reason  string
}

func (e Verification) Error() string {
	return fmt.Sprintf("no convergence observed on '%s/%s': %s", e.Target, e.SubUnit, e.Reason)
}

func (e Verification) UserFriendly() bool {
	return true
}

func (e Verification) ErrorType() ErrorType {
	return ErrorTypeVerificationTimeout
}

// Cancelled marks an external stop, it unwinds pending polls immediately
type Cancelled struct {
	Phase string
}

func (e Cancelled) Error() string {
	if e.Phase == "" {
		return "experiment cancelled"
	}
	return fmt.Sprintf("[%s]: experiment cancelled", e.Phase)
}

func (e Cancelled) UserFriendly() bool {
	return true
}

func (e Cancelled) ErrorType() ErrorType {
	return ErrorTypeCancelled
}
