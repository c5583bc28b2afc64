package k6

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// MetricSummary is one metric block of the k6 summary export.
type MetricSummary struct {
	Count float64 `json:"count"`
	Avg   float64 `json:"avg"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	P90   float64 `json:"p(90)"`
	P95   float64 `json:"p(95)"`
}

// Summary is the parsed --summary-export artifact.
type Summary struct {
	Metrics map[string]MetricSummary `json:"metrics"`
}

// Metric returns the named metric or nil when the run never produced it.
func (s *Summary) Metric(name string) *MetricSummary {
	if s == nil {
		return nil
	}
	metric, ok := s.Metrics[name]
	if !ok {
		return nil
	}
	return &metric
}

// ParseSummaryFile reads and decodes a summary export from disk.
func ParseSummaryFile(path string) (*Summary, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read k6 summary %v", path)
	}
	return ParseSummary(raw)
}

// ParseSummary decodes a summary export.
func ParseSummary(raw []byte) (*Summary, error) {
	summary := &Summary{}
	if err := json.Unmarshal(raw, summary); err != nil {
		return nil, errors.Wrap(err, "unable to parse k6 summary")
	}
	return summary, nil
}
