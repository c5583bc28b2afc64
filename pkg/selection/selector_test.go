package selection

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maplelabs/chaos-actions/pkg/platform"
)

func makeCandidates(n int) []platform.Target {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	targets := make([]platform.Target, 0, n)
	for i := 0; i < n; i++ {
		targets = append(targets, platform.Target{
			Name:         fmt.Sprintf("t%d", i),
			Namespace:    "default",
			CreationTime: base.Add(time.Duration(n-i) * time.Minute),
		})
	}
	return targets
}

func names(targets []platform.Target) []string {
	out := make([]string, 0, len(targets))
	for _, t := range targets {
		out = append(out, t.Name)
	}
	return out
}

func TestSelectTargets(t *testing.T) {
	tests := []struct {
		name       string
		candidates []platform.Target
		criteria   Criteria
		want       []string
	}{
		{
			name:       "fixed quantity takes the prefix",
			candidates: makeCandidates(10),
			criteria:   Criteria{Policy: PolicyFixed, Quantity: 3, Order: OrderAlphabetic},
			want:       []string{"t0", "t1", "t2"},
		},
		{
			name:       "all flag ignores the quota",
			candidates: makeCandidates(5),
			criteria:   Criteria{All: true, Quantity: 1},
			want:       []string{"t0", "t1", "t2", "t3", "t4"},
		},
		{
			name:       "quantity saturates to the candidate count",
			candidates: makeCandidates(3),
			criteria:   Criteria{Policy: PolicyFixed, Quantity: 50},
			want:       []string{"t0", "t1", "t2"},
		},
		{
			name:       "percentage quota rounds up",
			candidates: makeCandidates(10),
			criteria:   Criteria{Policy: PolicyPercentage, Quantity: 33},
			want:       []string{"t0", "t1", "t2", "t3"},
		},
		{
			name:       "oldest ordering sorts by creation time before the quota",
			candidates: makeCandidates(5),
			criteria:   Criteria{Policy: PolicyFixed, Quantity: 2, Order: OrderOldest},
			want:       []string{"t4", "t3"},
		},
		{
			name:       "zero quantity selects nothing",
			candidates: makeCandidates(5),
			criteria:   Criteria{Policy: PolicyFixed, Quantity: 0},
			want:       []string{},
		},
		{
			name:       "empty candidates",
			candidates: nil,
			criteria:   Criteria{Policy: PolicyFixed, Quantity: 3},
			want:       []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectTargets(tt.candidates, tt.criteria)
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestSelectTargetsRandomSample(t *testing.T) {
	candidates := makeCandidates(10)
	got := SelectTargets(candidates, Criteria{Policy: PolicyFixed, Quantity: 4, Randomize: true})
	require.Len(t, got, 4)

	seen := map[string]bool{}
	for _, target := range got {
		require.False(t, seen[target.Name], "duplicate target %v in sample", target.Name)
		seen[target.Name] = true
	}
}

func TestSelectTargetsRandomSampleSaturates(t *testing.T) {
	candidates := makeCandidates(3)
	got := SelectTargets(candidates, Criteria{Policy: PolicyFixed, Quantity: 10, Randomize: true})
	require.Len(t, got, 3)
}

func TestSelectTargetsPercentageProperty(t *testing.T) {
	for _, count := range []int{1, 3, 7, 10, 50} {
		candidates := makeCandidates(count)
		for qty := 1; qty <= 100; qty++ {
			got := SelectTargets(candidates, Criteria{Policy: PolicyPercentage, Quantity: qty})
			want := (qty*count + 99) / 100
			if want > count {
				want = count
			}
			require.Len(t, got, want, "count=%d qty=%d", count, qty)
		}
	}
}

func TestSelectTargetsOldestIsNonDecreasing(t *testing.T) {
	candidates := makeCandidates(8)
	got := SelectTargets(candidates, Criteria{Policy: PolicyFixed, Quantity: 8, Order: OrderOldest})
	require.Len(t, got, 8)
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].CreationTime.Before(got[i-1].CreationTime))
	}
}

func TestSelectTargetsDoesNotMutateInput(t *testing.T) {
	candidates := makeCandidates(5)
	before := names(candidates)
	_ = SelectTargets(candidates, Criteria{Policy: PolicyFixed, Quantity: 2, Order: OrderOldest})
	assert.Equal(t, before, names(candidates))
}
