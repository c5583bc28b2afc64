package main

import (
	"context"
	"flag"

	"github.com/sirupsen/logrus"

	containerRestart "github.com/maplelabs/chaos-actions/experiments/generic/container-restart/experiment"
	podRestart "github.com/maplelabs/chaos-actions/experiments/generic/pod-restart/experiment"

	"github.com/maplelabs/chaos-actions/pkg/clients"
	"github.com/maplelabs/chaos-actions/pkg/log"
)

func init() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:          true,
		DisableSorting:         true,
		DisableLevelTruncation: true,
	})
}

func main() {

	ctx := context.Background()
	clients := clients.ClientSets{}

	// parse the experiment name
	experimentName := flag.String("name", "container-restart", "name of the chaos experiment")

	//Getting kubeConfig and Generate ClientSets
	if err := clients.GenerateClientSetFromKubeConfig(); err != nil {
		log.Errorf("Unable to Get the kubeconfig, err: %v", err)
		return
	}

	log.Infof("Experiment Name: %v", *experimentName)

	// invoke the corresponding experiment based on the (-name) flag
	switch *experimentName {
	case "container-restart":
		containerRestart.ContainerRestart(ctx, clients)
	case "pod-restart":
		podRestart.PodRestart(ctx, clients)
	default:
		log.Errorf("Unsupported -name %v, please provide the correct value of -name args", *experimentName)
		return
	}
}
