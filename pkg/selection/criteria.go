package selection

import (
	"regexp"

	"github.com/maplelabs/chaos-actions/pkg/cerrors"
)

// Policy derives the execution quota from the configured quantity.
type Policy string

const (
	// PolicyFixed treats the quantity as an absolute target count
	PolicyFixed Policy = "fixed"
	// PolicyPercentage treats the quantity as a percentage of the candidates
	PolicyPercentage Policy = "percentage"
)

// Order fixes the candidate ordering before the quota is applied.
type Order string

const (
	// OrderAlphabetic keeps the listing order of the platform, which returns
	// targets sorted by name
	OrderAlphabetic Order = "alphabetic"
	// OrderOldest sorts the candidates ascending by creation time
	OrderOldest Order = "oldest"
)

// Criteria is the immutable selection input of one experiment.
type Criteria struct {
	Namespace     string
	LabelSelector string
	NamePattern   string
	All           bool
	Randomize     bool
	Policy        Policy
	Order         Order
	Quantity      int
}

// Validate fails fast on criteria that could never be applied, before any
// platform query is issued.
func (c Criteria) Validate() error {
	if c.NamePattern != "" {
		if _, err := regexp.Compile(c.NamePattern); err != nil {
			return cerrors.Criteria{Field: "namePattern", Reason: err.Error()}
		}
	}
	switch c.Policy {
	case "", PolicyFixed, PolicyPercentage:
	default:
		return cerrors.Criteria{Field: "policy", Reason: "must be one of fixed, percentage"}
	}
	switch c.Order {
	case "", OrderAlphabetic, OrderOldest:
	default:
		return cerrors.Criteria{Field: "order", Reason: "must be one of alphabetic, oldest"}
	}
	return nil
}
