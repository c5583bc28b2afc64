// Package platform defines the boundary to the orchestration platform. The
// engine only ever lists targets, reads an observable counter, execs a
// command inside a sub-unit, or deletes a target; everything platform
// specific stays behind this interface.
package platform

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by ReadCounter when the addressed sub-unit does
// not exist on the target.
var ErrNotFound = errors.New("sub-unit not found")

// Target is a read-only snapshot of one disruptable unit. The engine never
// mutates a Target, it only issues commands against the identity it names.
type Target struct {
	Name         string
	Namespace    string
	CreationTime time.Time
	Labels       map[string]string
	// SubUnits are the addressable components of the target in declaration
	// order, e.g. the containers of a pod.
	SubUnits []string
}

// Execution holds the captured streams of one dispatched command. CtrlErr
// carries the control-channel error of the exec session, a command can
// report a non-zero exit here and still have triggered the disruption.
type Execution struct {
	Stdout  string
	Stderr  string
	CtrlErr string
}

// Client is the orchestration-platform client consumed by the engine.
type Client interface {
	// ListTargets returns the targets of the namespace, optionally narrowed
	// by a server-side label selector.
	ListTargets(ctx context.Context, namespace, labelSelector string) ([]Target, error)

	// ReadCounter returns the observable restart counter of one sub-unit.
	// It returns ErrNotFound when the sub-unit is absent.
	ReadCounter(ctx context.Context, namespace, target, subUnit string) (int32, error)

	// Dispatch runs a command inside the sub-unit and captures its streams.
	// A non-nil error means the command could not be issued at all.
	Dispatch(ctx context.Context, namespace, target, subUnit string, command []string) (Execution, error)

	// Delete removes the target. A negative gracePeriodSeconds keeps the
	// platform default.
	Delete(ctx context.Context, namespace, target string, gracePeriodSeconds int64) error
}
