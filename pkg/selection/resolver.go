package selection

import (
	"context"
	"regexp"

	"github.com/maplelabs/chaos-actions/pkg/cerrors"
	"github.com/maplelabs/chaos-actions/pkg/platform"
)

// Resolver turns selection criteria into an ordered candidate list with a
// single listing query against the platform.
type Resolver struct {
	Client platform.Client
}

// Resolve lists the targets scoped by namespace and label selector, then
// applies the name pattern client-side. The pattern uses search semantics,
// it matches anywhere in the target name.
func (r Resolver) Resolve(ctx context.Context, criteria Criteria) ([]platform.Target, error) {
	var pattern *regexp.Regexp
	if criteria.NamePattern != "" {
		var err error
		pattern, err = regexp.Compile(criteria.NamePattern)
		if err != nil {
			return nil, cerrors.Criteria{Field: "namePattern", Reason: err.Error()}
		}
	}

	targets, err := r.Client.ListTargets(ctx, criteria.Namespace, criteria.LabelSelector)
	if err != nil {
		return nil, cerrors.Platform{Operation: "list", Target: criteria.LabelSelector, Reason: err.Error()}
	}

	if pattern == nil {
		return targets, nil
	}
	filtered := make([]platform.Target, 0, len(targets))
	for _, target := range targets {
		if pattern.MatchString(target.Name) {
			filtered = append(filtered, target)
		}
	}
	return filtered, nil
}
