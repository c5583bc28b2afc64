// Package k6 shells out to the k6 binary to put load on the application
// while chaos is injected, and reads back its machine-readable summary.
package k6

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"strconv"

	"github.com/pkg/errors"

	"github.com/maplelabs/chaos-actions/pkg/log"
)

// RunConfig describes one k6 invocation.
type RunConfig struct {
	ScriptPath  string
	URL         string
	VUs         int
	Duration    string
	Method      string
	Body        string
	Headers     map[string]string
	LoginToken  string
	SummaryFile string
	LogFile     string
}

// Run executes the script with --summary-export and returns the parsed
// summary. The script reads its runtime configuration from CHAOS_K6_* env
// variables.
func Run(ctx context.Context, cfg RunConfig) (*Summary, error) {
	if _, err := os.Stat(cfg.ScriptPath); err != nil {
		return nil, errors.Wrapf(err, "k6 script not found at %v", cfg.ScriptPath)
	}
	summaryFile := cfg.SummaryFile
	if summaryFile == "" {
		summaryFile = "k6_summary.json"
	}

	cmd := exec.CommandContext(ctx, "k6", "run",
		"--summary-export", summaryFile,
		"--vus", strconv.Itoa(cfg.VUs),
		"--duration", cfg.Duration,
		cfg.ScriptPath,
	)
	cmd.Env = append(os.Environ(), runEnv(cfg)...)

	if cfg.LogFile != "" {
		logFile, err := os.Create(cfg.LogFile)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to create k6 log file %v", cfg.LogFile)
		}
		defer logFile.Close()
		cmd.Stdout = logFile
		cmd.Stderr = logFile
	}

	log.Infof("[Load]: Running k6 against %v with %v VUs for %v", cfg.URL, cfg.VUs, cfg.Duration)
	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(err, "k6 run failed")
	}

	summary, err := ParseSummaryFile(summaryFile)
	if err != nil {
		log.Warnf("could not parse k6 summary: %v", err)
		return nil, err
	}
	requests := summary.Metric("http_reqs")
	duration := summary.Metric("http_req_duration")
	if requests != nil && duration != nil {
		log.Infof("[Load]: Requests: %v, Avg: %.2f ms, P95: %.2f ms", requests.Count, duration.Avg, duration.P95)
	}
	return summary, nil
}

func runEnv(cfg RunConfig) []string {
	env := []string{
		"CHAOS_K6_URL=" + cfg.URL,
		"CHAOS_K6_VUS=" + strconv.Itoa(cfg.VUs),
		"CHAOS_K6_DURATION=" + cfg.Duration,
	}
	if cfg.Method != "" {
		env = append(env, "CHAOS_K6_METHOD="+cfg.Method)
	}
	if cfg.Body != "" {
		env = append(env, "CHAOS_K6_BODY="+cfg.Body)
	}
	if cfg.LoginToken != "" {
		env = append(env, "CHAOS_K6_LOGIN_TOKEN="+cfg.LoginToken)
	}
	if len(cfg.Headers) > 0 {
		if raw, err := json.Marshal(cfg.Headers); err == nil {
			env = append(env, "CHAOS_K6_HEADERS="+string(raw))
		}
	}
	return env
}
