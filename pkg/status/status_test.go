package status

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	v1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/maplelabs/chaos-actions/pkg/clients"
)

func readyPod(name string, ready bool) *v1.Pod {
	return &v1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: "demo",
			Labels:    map[string]string{"app": "web"},
		},
		Status: v1.PodStatus{
			Phase: v1.PodRunning,
			ContainerStatuses: []v1.ContainerStatus{
				{Name: "app", Ready: ready},
			},
		},
	}
}

func TestCheckTargetStatus(t *testing.T) {
	tests := []struct {
		name    string
		pods    []*v1.Pod
		wantErr bool
	}{
		{
			name: "healthy target passes",
			pods: []*v1.Pod{readyPod("web-0", true), readyPod("web-1", true)},
		},
		{
			name:    "unready container fails",
			pods:    []*v1.Pod{readyPod("web-0", false)},
			wantErr: true,
		},
		{
			name:    "no matching pods fails",
			pods:    nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := fake.NewSimpleClientset()
			for _, pod := range tt.pods {
				_, err := client.CoreV1().Pods("demo").Create(context.Background(), pod, metav1.CreateOptions{})
				assert.NoError(t, err)
			}

			err := CheckTargetStatus(context.Background(), "demo", "app=web", 1, 1, clients.ClientSets{KubeClient: client})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCheckTargetStatusSkipsWithoutLabel(t *testing.T) {
	err := CheckTargetStatus(context.Background(), "demo", "", 1, 1, clients.ClientSets{KubeClient: fake.NewSimpleClientset()})
	assert.NoError(t, err)
}
