package experiment

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"

	containerRestartLib "github.com/maplelabs/chaos-actions/chaoslib/container-restart/lib"
	"github.com/maplelabs/chaos-actions/pkg/clients"
	"github.com/maplelabs/chaos-actions/pkg/environment"
	"github.com/maplelabs/chaos-actions/pkg/events"
	experimentEnv "github.com/maplelabs/chaos-actions/pkg/generic/container-restart/environment"
	experimentTypes "github.com/maplelabs/chaos-actions/pkg/generic/container-restart/types"
	"github.com/maplelabs/chaos-actions/pkg/log"
	"github.com/maplelabs/chaos-actions/pkg/result"
	"github.com/maplelabs/chaos-actions/pkg/status"
	"github.com/maplelabs/chaos-actions/pkg/telemetry"
	"github.com/maplelabs/chaos-actions/pkg/types"
	"github.com/maplelabs/chaos-actions/pkg/utils/stringutils"
)

// ContainerRestart sends an escalating signal ladder to the main process of
// the selected containers and confirms every restart through the restart
// counter, cycling until the chaos duration is spent.
func ContainerRestart(ctx context.Context, clients clients.ClientSets) {
	var err error
	experimentsDetails := experimentTypes.ExperimentDetails{}
	resultDetails := types.ResultDetails{}
	eventsDetails := types.EventDetails{}

	if path := types.Getenv("EXPERIMENT_FILE", ""); path != "" {
		file, err := environment.LoadExperimentFile(path)
		if err != nil {
			log.Fatalf("Unable to load the experiment file, err: %v", err)
		}
		if err := file.Export(); err != nil {
			log.Fatalf("Unable to export the experiment file env, err: %v", err)
		}
	}

	//Fetching all the ENV passed for the runner pod
	experimentEnv.GetENV(&experimentsDetails)
	experimentsDetails.RunID = stringutils.GetRunID()

	chaosDetails := types.ChaosDetails{
		ExperimentName: experimentsDetails.ExperimentName,
		InstanceID:     experimentsDetails.InstanceID,
		Namespace:      experimentsDetails.AppNS,
		RunID:          experimentsDetails.RunID,
		Timeout:        experimentsDetails.Timeout,
		Delay:          experimentsDetails.Delay,
	}
	types.SetResultAttributes(&resultDetails, chaosDetails)

	if experimentsDetails.OTelEndpoint != "" {
		shutdown, err := telemetry.InitOTelSDK(ctx, experimentsDetails.OTelEndpoint)
		if err != nil {
			log.Errorf("Unable to initialise otel, err: %v", err)
		} else {
			defer shutdown(ctx)
			ctx = telemetry.GetTraceParentContext()
		}
	}
	if experimentsDetails.MetricsAddr != "" {
		telemetry.ServeMetrics(experimentsDetails.MetricsAddr)
	}
	clients.Context = ctx

	//DISPLAY THE APP INFORMATION
	log.InfoWithValues("The application information is as follows", logrus.Fields{
		"Namespace": experimentsDetails.AppNS,
		"Label":     experimentsDetails.AppLabel,
		"Duration":  experimentsDetails.TotalDuration,
		"Interval":  experimentsDetails.Interval,
		"Sequence":  experimentsDetails.Sequence,
		"Ramp Time": experimentsDetails.RampTime,
	})

	//PRE-CHAOS APPLICATION STATUS CHECK
	log.Info("[Status]: Verify that the AUT (Application Under Test) is running (pre-chaos)")
	if err := status.CheckTargetStatus(ctx, experimentsDetails.AppNS, experimentsDetails.AppLabel, experimentsDetails.Timeout, experimentsDetails.Delay, clients); err != nil {
		log.Errorf("Application status check failed, err: %v", err)
		types.SetResultAfterCompletion(&resultDetails, types.FailVerdict, "Completed", "pre-chaos application status check")
		return
	}
	types.SetEventAttributes(&eventsDetails, types.PreChaosCheck, "Normal", "AUT is running successfully", &chaosDetails)
	if err := events.GenerateEvents(&eventsDetails, clients, &chaosDetails); err != nil {
		log.Warnf("unable to generate the pre-chaos event, err: %v", err)
	}

	report, err := containerRestartLib.PrepareContainerRestart(ctx, &experimentsDetails, clients, &resultDetails, &eventsDetails, &chaosDetails)
	if err != nil {
		log.Errorf("Chaos injection failed, err: %v", err)
		types.SetResultAfterCompletion(&resultDetails, types.FailVerdict, "Completed", "chaos injection")
		return
	}

	//POST-CHAOS APPLICATION STATUS CHECK
	log.Info("[Status]: Verify that the AUT (Application Under Test) is running (post-chaos)")
	if err := status.CheckTargetStatus(ctx, experimentsDetails.AppNS, experimentsDetails.AppLabel, experimentsDetails.Timeout, experimentsDetails.Delay, clients); err != nil {
		log.Errorf("Application status check failed, err: %v", err)
		types.SetResultAfterCompletion(&resultDetails, types.FailVerdict, "Completed", "post-chaos application status check")
		return
	}
	types.SetEventAttributes(&eventsDetails, types.PostChaosCheck, "Normal", "AUT is running successfully", &chaosDetails)
	if err := events.GenerateEvents(&eventsDetails, clients, &chaosDetails); err != nil {
		log.Warnf("unable to generate the post-chaos event, err: %v", err)
	}

	result.Summarize(report, &resultDetails, &chaosDetails)
	types.SetEventAttributes(&eventsDetails, types.Summary, "Normal", experimentsDetails.ExperimentName+" experiment has been "+resultDetails.Verdict+"ed", &chaosDetails)
	if err := events.GenerateEvents(&eventsDetails, clients, &chaosDetails); err != nil {
		log.Warnf("unable to generate the summary event, err: %v", err)
	}

	if raw, err := result.ToJSON(report); err == nil {
		os.Stdout.WriteString(raw + "\n")
	}
}
