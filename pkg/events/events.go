package events

import (
	"time"

	apiv1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/maplelabs/chaos-actions/pkg/clients"
	"github.com/maplelabs/chaos-actions/pkg/types"
)

// CreateEvents creates an event against the target pod so the experiment's
// phases are visible alongside the workload itself.
func CreateEvents(eventsDetails *types.EventDetails, clients clients.ClientSets, chaosDetails *types.ChaosDetails) error {

	events := &apiv1.Event{
		ObjectMeta: metav1.ObjectMeta{
			Name:      eventsDetails.Reason + "-" + chaosDetails.ExperimentName + "-" + chaosDetails.RunID,
			Namespace: chaosDetails.Namespace,
		},
		Source: apiv1.EventSource{
			Component: chaosDetails.ExperimentName + "-" + chaosDetails.RunID,
		},
		Message:        eventsDetails.Message,
		Reason:         eventsDetails.Reason,
		Type:           eventsDetails.Type,
		Count:          1,
		FirstTimestamp: metav1.Time{Time: time.Now()},
		LastTimestamp:  metav1.Time{Time: time.Now()},
		InvolvedObject: apiv1.ObjectReference{
			APIVersion: "v1",
			Kind:       "Pod",
			Name:       eventsDetails.ResourceName,
			Namespace:  chaosDetails.Namespace,
		},
	}

	_, err := clients.KubeClient.CoreV1().Events(chaosDetails.Namespace).Create(clients.Context, events, metav1.CreateOptions{})
	return err
}

// GenerateEvents creates the event or bumps its count when it already exists
func GenerateEvents(eventsDetails *types.EventDetails, clients clients.ClientSets, chaosDetails *types.ChaosDetails) error {

	eventName := eventsDetails.Reason + "-" + chaosDetails.ExperimentName + "-" + chaosDetails.RunID
	event, err := clients.KubeClient.CoreV1().Events(chaosDetails.Namespace).Get(clients.Context, eventName, metav1.GetOptions{})
	if err != nil || event.Name != eventName {
		return CreateEvents(eventsDetails, clients, chaosDetails)
	}

	event.Count = event.Count + 1
	event.LastTimestamp = metav1.Time{Time: time.Now()}

	_, err = clients.KubeClient.CoreV1().Events(chaosDetails.Namespace).Update(clients.Context, event, metav1.UpdateOptions{})
	return err
}
