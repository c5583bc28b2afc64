package selection

import (
	"math/rand"
	"sort"

	"github.com/maplelabs/chaos-actions/pkg/math"
	"github.com/maplelabs/chaos-actions/pkg/platform"
)

// SelectTargets narrows the candidates to the execution quota. It is a pure
// function over its inputs apart from the random sampling.
//
// Ordering is applied first, then the quota: under the percentage policy the
// quantity is recomputed as ceil(quantity * len(candidates) / 100). The
// randomize flag draws a uniform sample without replacement, discarding any
// ordering; otherwise the quota is the prefix of the ordered list. A quota
// larger than the candidate set saturates to all candidates.
func SelectTargets(candidates []platform.Target, criteria Criteria) []platform.Target {
	if len(candidates) == 0 {
		return nil
	}

	ordered := make([]platform.Target, len(candidates))
	copy(ordered, candidates)
	if criteria.Order == OrderOldest {
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].CreationTime.Before(ordered[j].CreationTime)
		})
	}

	if criteria.All {
		return ordered
	}

	quantity := criteria.Quantity
	if criteria.Policy == PolicyPercentage {
		quantity = math.AdjustmentCeil(quantity, len(ordered))
	}
	if quantity > len(ordered) {
		quantity = len(ordered)
	}
	if quantity <= 0 {
		return nil
	}

	if criteria.Randomize {
		sample := make([]platform.Target, 0, quantity)
		for _, i := range rand.Perm(len(ordered))[:quantity] {
			sample = append(sample, ordered[i])
		}
		return sample
	}
	return ordered[:quantity]
}
