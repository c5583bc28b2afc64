package result

import (
	"encoding/json"
	"time"

	"github.com/kyokomi/emoji"
	"github.com/sirupsen/logrus"

	"github.com/maplelabs/chaos-actions/pkg/log"
	"github.com/maplelabs/chaos-actions/pkg/restart"
	"github.com/maplelabs/chaos-actions/pkg/types"
)

// Verdict maps the terminal run status onto an experiment verdict.
func Verdict(report restart.ExperimentReport) string {
	switch report.Status {
	case restart.RunCancelled:
		return types.StopVerdict
	default:
		if len(report.Failed()) > 0 {
			return types.FailVerdict
		}
		return types.PassVerdict
	}
}

// Summarize sets the terminal verdict on the result details and logs the
// aggregated report, enumerating every target that never confirmed.
func Summarize(report restart.ExperimentReport, resultDetails *types.ResultDetails, chaosDetails *types.ChaosDetails) {
	verdict := Verdict(report)
	types.SetResultAfterCompletion(resultDetails, verdict, "Completed", "N/A")

	log.InfoWithValues("[Summary]: The experiment run details", logrus.Fields{
		"experiment":     chaosDetails.ExperimentName,
		"status":         report.Status,
		"cycles":         report.Cycles,
		"totalConfirmed": report.TotalConfirmed,
		"elapsed":        report.Elapsed.Round(time.Second).String(),
		"averageCycle":   report.AverageCycle.Round(time.Second).String(),
	})

	failed := report.Failed()
	for _, outcome := range failed {
		log.ErrorWithValues("[Summary]: Target was not disrupted", logrus.Fields{
			"target":  outcome.Target,
			"subUnit": outcome.SubUnit,
			"status":  outcome.Status,
			"reason":  outcome.FailureReason,
		})
	}

	switch verdict {
	case types.PassVerdict:
		log.Infof("[Summary]: Experiment verdict: %v %v", verdict, emoji.Sprint(":thumbsup:"))
	default:
		log.Infof("[Summary]: Experiment verdict: %v %v", verdict, emoji.Sprint(":thumbsdown:"))
	}
}

// ToJSON renders the report for machine consumption.
func ToJSON(report restart.ExperimentReport) (string, error) {
	raw, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
