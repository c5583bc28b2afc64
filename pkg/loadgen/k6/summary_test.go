package k6

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSummary = `{
  "metrics": {
    "http_reqs": {"count": 1204, "rate": 120.4},
    "http_req_duration": {"avg": 41.7, "min": 3.2, "max": 512.9, "p(90)": 88.1, "p(95)": 120.5}
  }
}`

func TestParseSummary(t *testing.T) {
	summary, err := ParseSummary([]byte(sampleSummary))
	require.NoError(t, err)

	requests := summary.Metric("http_reqs")
	require.NotNil(t, requests)
	assert.Equal(t, float64(1204), requests.Count)

	duration := summary.Metric("http_req_duration")
	require.NotNil(t, duration)
	assert.Equal(t, 41.7, duration.Avg)
	assert.Equal(t, 120.5, duration.P95)

	assert.Nil(t, summary.Metric("iterations"))
}

func TestParseSummaryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleSummary), 0644))

	summary, err := ParseSummaryFile(path)
	require.NoError(t, err)
	assert.NotNil(t, summary.Metric("http_reqs"))
}

func TestParseSummaryErrors(t *testing.T) {
	_, err := ParseSummary([]byte("not json"))
	assert.Error(t, err)

	_, err = ParseSummaryFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
