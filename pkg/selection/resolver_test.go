package selection

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maplelabs/chaos-actions/pkg/cerrors"
	"github.com/maplelabs/chaos-actions/pkg/platform"
)

type stubClient struct {
	platform.Client
	targets []platform.Target
	listErr error

	gotNamespace string
	gotSelector  string
}

func (s *stubClient) ListTargets(ctx context.Context, namespace, labelSelector string) ([]platform.Target, error) {
	s.gotNamespace = namespace
	s.gotSelector = labelSelector
	return s.targets, s.listErr
}

func TestResolve(t *testing.T) {
	now := time.Now()
	candidates := []platform.Target{
		{Name: "web-frontend-0", Namespace: "demo", CreationTime: now},
		{Name: "web-backend-0", Namespace: "demo", CreationTime: now},
		{Name: "worker-0", Namespace: "demo", CreationTime: now},
	}

	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{
			name:     "no pattern returns the listing unchanged",
			criteria: Criteria{Namespace: "demo", LabelSelector: "app=web"},
			want:     []string{"web-frontend-0", "web-backend-0", "worker-0"},
		},
		{
			name:     "pattern matches anywhere in the name",
			criteria: Criteria{Namespace: "demo", NamePattern: "backend"},
			want:     []string{"web-backend-0"},
		},
		{
			name:     "pattern matching nothing yields an empty set",
			criteria: Criteria{Namespace: "demo", NamePattern: "database"},
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &stubClient{targets: candidates}
			got, err := Resolver{Client: client}.Resolve(context.Background(), tt.criteria)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
			assert.Equal(t, tt.criteria.Namespace, client.gotNamespace)
			assert.Equal(t, tt.criteria.LabelSelector, client.gotSelector)
		})
	}
}

func TestResolveInvalidPattern(t *testing.T) {
	client := &stubClient{}
	_, err := Resolver{Client: client}.Resolve(context.Background(), Criteria{NamePattern: "["})
	require.Error(t, err)
	assert.Equal(t, cerrors.ErrorTypeInvalidCriteria, cerrors.GetErrorType(err))
	assert.Empty(t, client.gotNamespace, "no query should be issued for a bad pattern")
}

func TestResolveListFailure(t *testing.T) {
	client := &stubClient{listErr: errors.New("connection refused")}
	_, err := Resolver{Client: client}.Resolve(context.Background(), Criteria{Namespace: "demo"})
	require.Error(t, err)
	assert.Equal(t, cerrors.ErrorTypePlatformUnavailable, cerrors.GetErrorType(err))
}

func TestCriteriaValidate(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		wantErr  bool
	}{
		{name: "empty criteria", criteria: Criteria{}, wantErr: false},
		{name: "valid pattern and policy", criteria: Criteria{NamePattern: "web-.*", Policy: PolicyPercentage, Order: OrderOldest}, wantErr: false},
		{name: "bad pattern", criteria: Criteria{NamePattern: "("}, wantErr: true},
		{name: "unknown policy", criteria: Criteria{Policy: "half"}, wantErr: true},
		{name: "unknown order", criteria: Criteria{Order: "newest"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.criteria.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, cerrors.ErrorTypeInvalidCriteria, cerrors.GetErrorType(err))
				return
			}
			require.NoError(t, err)
		})
	}
}
