package status

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/maplelabs/chaos-actions/pkg/clients"
	"github.com/maplelabs/chaos-actions/pkg/log"
	"github.com/maplelabs/chaos-actions/pkg/utils/retry"
)

// CheckTargetStatus verifies that every pod matching the label is running
// with all containers ready. It is used before a run to confirm the targets
// are healthy and after a pod termination to confirm recreation.
func CheckTargetStatus(ctx context.Context, namespace, label string, timeout, delay int, clients clients.ClientSets) error {
	if label == "" {
		log.Info("[Status]: No label provided, skipping the target status checks")
		return nil
	}
	log.Info("[Status]: Checking whether target containers are in ready state")
	if err := CheckContainerStatus(ctx, namespace, label, timeout, delay, clients); err != nil {
		return err
	}
	log.Info("[Status]: Checking whether target pods are in running state")
	return CheckPodStatus(ctx, namespace, label, timeout, delay, clients)
}

// CheckPodStatus polls until all pods with the matching label are in the
// running phase.
func CheckPodStatus(ctx context.Context, namespace, label string, timeout, delay int, clients clients.ClientSets) error {
	return retry.
		Times(uint(timeout / delay)).
		Wait(time.Duration(delay) * time.Second).
		Try(func(attempt uint) error {
			podList, err := clients.KubeClient.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{LabelSelector: label})
			if err != nil {
				return errors.Errorf("unable to find the pods with matching labels, err: %v", err)
			} else if len(podList.Items) == 0 {
				return errors.Errorf("no pods found with matching labels")
			}
			for _, pod := range podList.Items {
				if pod.Status.Phase != "Running" {
					return errors.Errorf("%v pod is not yet in running state", pod.Name)
				}
				log.InfoWithValues("[Status]: The status of Pods are as follows", logrus.Fields{
					"Pod": pod.Name, "Status": pod.Status.Phase})
			}
			return nil
		})
}

// CheckContainerStatus polls until every container of every matching pod
// reports ready and none is terminated.
func CheckContainerStatus(ctx context.Context, namespace, label string, timeout, delay int, clients clients.ClientSets) error {
	return retry.
		Times(uint(timeout / delay)).
		Wait(time.Duration(delay) * time.Second).
		Try(func(attempt uint) error {
			podList, err := clients.KubeClient.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{LabelSelector: label})
			if err != nil {
				return errors.Errorf("unable to find the pods with matching labels, err: %v", err)
			} else if len(podList.Items) == 0 {
				return errors.Errorf("no pods found with matching labels")
			}
			for _, pod := range podList.Items {
				for _, container := range pod.Status.ContainerStatuses {
					if container.State.Terminated != nil {
						return errors.Errorf("container %v of pod %v is in terminated state", container.Name, pod.Name)
					}
					if !container.Ready {
						return errors.Errorf("container %v of pod %v is not yet in ready state", container.Name, pod.Name)
					}
					log.InfoWithValues("[Status]: The Container status are as follows", logrus.Fields{
						"container": container.Name, "Pod": pod.Name, "Readiness": container.Ready})
				}
			}
			return nil
		})
}
