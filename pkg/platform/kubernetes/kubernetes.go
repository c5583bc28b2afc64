// Package kubernetes implements the platform client against a Kubernetes
// cluster: targets are pods, sub-units are containers, the observable
// counter is the container restart count.
package kubernetes

import (
	"bytes"
	"context"
	"fmt"

	"github.com/maplelabs/chaos-actions/pkg/clients"
	"github.com/maplelabs/chaos-actions/pkg/platform"
	"github.com/pkg/errors"
	apiv1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/tools/remotecommand"
)

// Client talks to the cluster through the shared clientSets.
type Client struct {
	clients clients.ClientSets
}

// New returns a platform client backed by the given clientSets.
func New(c clients.ClientSets) *Client {
	return &Client{clients: c}
}

var _ platform.Client = (*Client)(nil)

//ListTargets lists the pods of the namespace with the matching labels
func (c *Client) ListTargets(ctx context.Context, namespace, labelSelector string) ([]platform.Target, error) {
	podList, err := c.clients.KubeClient.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{LabelSelector: labelSelector})
	if err != nil {
		return nil, errors.Wrapf(err, "unable to list the pods in %v namespace", namespace)
	}

	targets := make([]platform.Target, 0, len(podList.Items))
	for _, pod := range podList.Items {
		subUnits := make([]string, 0, len(pod.Spec.Containers))
		for _, container := range pod.Spec.Containers {
			subUnits = append(subUnits, container.Name)
		}
		targets = append(targets, platform.Target{
			Name:         pod.Name,
			Namespace:    pod.Namespace,
			CreationTime: pod.CreationTimestamp.Time,
			Labels:       pod.Labels,
			SubUnits:     subUnits,
		})
	}
	return targets, nil
}

//ReadCounter derive the restart count of the given container from the pod status
func (c *Client) ReadCounter(ctx context.Context, namespace, target, subUnit string) (int32, error) {
	pod, err := c.clients.KubeClient.CoreV1().Pods(namespace).Get(ctx, target, metav1.GetOptions{})
	if err != nil {
		return 0, errors.Wrapf(err, "unable to read the status of %v pod in %v namespace", target, namespace)
	}
	for _, containerStatus := range pod.Status.ContainerStatuses {
		if containerStatus.Name == subUnit {
			return containerStatus.RestartCount, nil
		}
	}
	return 0, errors.Wrapf(platform.ErrNotFound, "no %v container in the status of %v pod", subUnit, target)
}

//Dispatch runs the given command inside the target container over an exec stream
// both output streams are captured, an exec-session error lands in CtrlErr so that
// the caller can still verify whether the command took effect
func (c *Client) Dispatch(ctx context.Context, namespace, target, subUnit string, command []string) (platform.Execution, error) {

	req := c.clients.KubeClient.CoreV1().RESTClient().Post().
		Resource("pods").
		Name(target).
		Namespace(namespace).
		SubResource("exec")
	scheme := runtime.NewScheme()
	if err := apiv1.AddToScheme(scheme); err != nil {
		return platform.Execution{}, fmt.Errorf("error adding to scheme: %v", err)
	}

	// NewParameterCodec creates a ParameterCodec capable of transforming url values into versioned objects and back.
	parameterCodec := runtime.NewParameterCodec(scheme)

	req.VersionedParams(&apiv1.PodExecOptions{
		Command:   command,
		Container: subUnit,
		Stdin:     false,
		Stdout:    true,
		Stderr:    true,
		TTY:       false,
	}, parameterCodec)

	// NewSPDYExecutor connects to the provided server and upgrades the connection to
	// multiplexed bidirectional streams.
	exec, err := remotecommand.NewSPDYExecutor(c.clients.KubeConfig, "POST", req.URL())
	if err != nil {
		return platform.Execution{}, fmt.Errorf("error while creating Executor: %v", err)
	}

	var stdout, stderr bytes.Buffer
	streamErr := exec.StreamWithContext(ctx, remotecommand.StreamOptions{
		Stdin:  nil,
		Stdout: &stdout,
		Stderr: &stderr,
		Tty:    false,
	})

	execution := platform.Execution{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if streamErr != nil {
		if ctx.Err() != nil {
			return execution, ctx.Err()
		}
		// the command reached the container, record the control error and
		// let the verifier decide whether the disruption still happened
		execution.CtrlErr = streamErr.Error()
	}
	return execution, nil
}

//Delete deletes the target pod, a negative grace period keeps the cluster default
func (c *Client) Delete(ctx context.Context, namespace, target string, gracePeriodSeconds int64) error {
	deleteOptions := metav1.DeleteOptions{}
	if gracePeriodSeconds >= 0 {
		deleteOptions.GracePeriodSeconds = &gracePeriodSeconds
	}
	if err := c.clients.KubeClient.CoreV1().Pods(namespace).Delete(ctx, target, deleteOptions); err != nil {
		return errors.Wrapf(err, "unable to delete %v pod in %v namespace", target, namespace)
	}
	return nil
}
