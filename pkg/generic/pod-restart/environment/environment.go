package environment

import (
	"strconv"

	experimentTypes "github.com/maplelabs/chaos-actions/pkg/generic/pod-restart/types"
	"github.com/maplelabs/chaos-actions/pkg/types"
)

//GetENV fetches all the env variables from the runner pod
func GetENV(experimentDetails *experimentTypes.ExperimentDetails) {
	experimentDetails.ExperimentName = types.Getenv("EXPERIMENT_NAME", "pod-restart")
	experimentDetails.InstanceID = types.Getenv("INSTANCE_ID", "")
	experimentDetails.AppNS = types.Getenv("APP_NAMESPACE", "default")
	experimentDetails.AppLabel = types.Getenv("APP_LABEL", "")
	experimentDetails.NamePattern = types.Getenv("NAME_PATTERN", "")
	experimentDetails.GracePeriod, _ = strconv.Atoi(types.Getenv("TERMINATION_GRACE_PERIOD_SECONDS", "-1"))
	experimentDetails.Quantity, _ = strconv.Atoi(types.Getenv("TARGET_QUANTITY", "1"))
	experimentDetails.Policy = types.Getenv("SELECTION_POLICY", "fixed")
	experimentDetails.Order = types.Getenv("SELECTION_ORDER", "alphabetic")
	experimentDetails.Randomize, _ = strconv.ParseBool(types.Getenv("RANDOMIZE", "false"))
	experimentDetails.SelectAll, _ = strconv.ParseBool(types.Getenv("SELECT_ALL", "false"))
	experimentDetails.Interval, _ = strconv.Atoi(types.Getenv("CHAOS_INTERVAL", "3"))
	experimentDetails.TotalDuration, _ = strconv.Atoi(types.Getenv("TOTAL_CHAOS_DURATION", "30"))
	experimentDetails.Delay, _ = strconv.Atoi(types.Getenv("STATUS_CHECK_DELAY", "2"))
	experimentDetails.Timeout, _ = strconv.Atoi(types.Getenv("STATUS_CHECK_TIMEOUT", "180"))
	experimentDetails.RampTime, _ = strconv.Atoi(types.Getenv("RAMP_TIME", "0"))
	experimentDetails.OTelEndpoint = types.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	experimentDetails.MetricsAddr = types.Getenv("METRICS_LISTEN_ADDR", "")
}
