package v1_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	stellarnodev1 "github.com/stellarnode/operator/api/v1"
)

func validNode() *stellarnodev1.StellarNode {
	return &stellarnodev1.StellarNode{
		ObjectMeta: metav1.ObjectMeta{Name: "horizon1", Namespace: "default"},
		Spec: stellarnodev1.StellarNodeSpec{
			NodeType: stellarnodev1.NodeTypeHorizon,
			Network:  stellarnodev1.NetworkTestnet,
			Version:  "registry.example/horizon:v21.0.0",
			Replicas: 1,
			HorizonConfig: &stellarnodev1.HorizonConfig{
				DatabaseSecretRef: corev1.LocalObjectReference{Name: "horizon1-db"},
				StellarCoreUrl:    "http://core:11626",
			},
		},
	}
}

func TestValidateCreate_AcceptsWellFormedSpec(t *testing.T) {
	_, err := validNode().ValidateCreate()
	assert.NoError(t, err)
}

func TestValidateCreate_RejectsUnknownNodeType(t *testing.T) {
	node := validNode()
	node.Spec.NodeType = "Unknown"

	_, err := node.ValidateCreate()
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestValidateCreate_RejectsUnknownNetwork(t *testing.T) {
	node := validNode()
	node.Spec.Network = "Devnet"

	_, err := node.ValidateCreate()
	assert.Error(t, err)
}

func TestValidateCreate_RejectsZeroReplicas(t *testing.T) {
	node := validNode()
	node.Spec.Replicas = 0

	_, err := node.ValidateCreate()
	assert.Error(t, err)
}

func TestValidateCreate_RejectsMisplacedSubConfig(t *testing.T) {
	node := validNode()
	node.Spec.ValidatorConfig = &stellarnodev1.ValidatorConfig{
		SeedSecretRef: corev1.LocalObjectReference{Name: "seed"},
	}

	_, err := node.ValidateCreate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validatorConfig")
}

func TestValidateCreate_RejectsMissingRequiredSubConfig(t *testing.T) {
	node := validNode()
	node.Spec.HorizonConfig = nil

	_, err := node.ValidateCreate()
	assert.Error(t, err)
}

func TestValidateCreate_RejectsAmbiguousServiceMesh(t *testing.T) {
	node := validNode()
	node.Spec.ServiceMesh = &stellarnodev1.ServiceMeshSpec{
		Istio:   &stellarnodev1.MeshPolicy{},
		Linkerd: &stellarnodev1.MeshPolicy{},
	}

	_, err := node.ValidateCreate()
	assert.Error(t, err)
}

func TestValidateCreate_RejectsNeitherMeshVendorSet(t *testing.T) {
	node := validNode()
	node.Spec.ServiceMesh = &stellarnodev1.ServiceMeshSpec{}

	_, err := node.ValidateCreate()
	assert.Error(t, err)
}

func TestValidateCreate_RejectsCircuitBreakerConsecutiveErrorsZero(t *testing.T) {
	// §8 boundary scenario: consecutiveErrors=0 is rejected at validation.
	node := validNode()
	node.Spec.ServiceMesh = &stellarnodev1.ServiceMeshSpec{
		Istio: &stellarnodev1.MeshPolicy{
			CircuitBreaker: &stellarnodev1.CircuitBreaker{
				ConsecutiveErrors: 0,
				TimeWindowSecs:    30,
				BaseEjectionSecs:  30,
			},
		},
	}

	_, err := node.ValidateCreate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "consecutiveErrors")
}

func TestValidateCreate_RejectsLimitBelowRequest(t *testing.T) {
	node := validNode()
	node.Spec.Resources = corev1.ResourceRequirements{
		Requests: corev1.ResourceList{corev1.ResourceCPU: resource.MustParse("500m")},
		Limits:   corev1.ResourceList{corev1.ResourceCPU: resource.MustParse("250m")},
	}

	_, err := node.ValidateCreate()
	assert.Error(t, err)
}

func TestValidateCreate_RejectsCaptiveCoreWithNoHistoryArchiveUrls(t *testing.T) {
	node := validNode()
	node.Spec.NodeType = stellarnodev1.NodeTypeSorobanRpc
	node.Spec.HorizonConfig = nil
	node.Spec.SorobanConfig = &stellarnodev1.SorobanConfig{
		DatabaseSecretRef: corev1.LocalObjectReference{Name: "rpc1-db"},
		StellarCoreUrl:    "http://core:11626",
		CaptiveCore:       &stellarnodev1.CaptiveCoreConfig{},
	}

	_, err := node.ValidateCreate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "historyArchiveUrls")
}

func TestValidateCreate_RejectsMalformedStorageSize(t *testing.T) {
	node := validNode()
	node.Spec.Storage = &stellarnodev1.StorageSpec{StorageClass: "fast", Size: "not-a-quantity"}

	_, err := node.ValidateCreate()
	assert.Error(t, err)
}

func TestValidateUpdate_RejectsImmutableFieldChanges(t *testing.T) {
	old := validNode()
	updated := old.DeepCopy()
	updated.Spec.NodeType = stellarnodev1.NodeTypeSorobanRpc

	_, err := updated.ValidateUpdate(old)
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
	assert.Contains(t, err.Error(), "nodeType")
}

func TestValidateUpdate_AllowsMutableFieldChanges(t *testing.T) {
	old := validNode()
	updated := old.DeepCopy()
	updated.Spec.Replicas = 3
	updated.Spec.Version = "registry.example/horizon:v21.1.0"

	_, err := updated.ValidateUpdate(old)
	assert.NoError(t, err)
}

func TestValidateUpdate_RejectsImmutableStorageChange(t *testing.T) {
	old := validNode()
	old.Spec.Storage = &stellarnodev1.StorageSpec{StorageClass: "fast", Size: "50Gi"}
	updated := old.DeepCopy()
	updated.Spec.Storage.StorageClass = "slow"

	_, err := updated.ValidateUpdate(old)
	assert.Error(t, err)
}

func TestValidateUpdate_RejectsImmutableSeedSecretChange(t *testing.T) {
	old := &stellarnodev1.StellarNode{
		ObjectMeta: metav1.ObjectMeta{Name: "sdf1", Namespace: "default"},
		Spec: stellarnodev1.StellarNodeSpec{
			NodeType: stellarnodev1.NodeTypeValidator,
			Network:  stellarnodev1.NetworkTestnet,
			Version:  "registry.example/stellar-core:v21.0.0",
			Replicas: 1,
			ValidatorConfig: &stellarnodev1.ValidatorConfig{
				SeedSecretRef: corev1.LocalObjectReference{Name: "seed-a"},
			},
		},
	}
	updated := old.DeepCopy()
	updated.Spec.ValidatorConfig.SeedSecretRef.Name = "seed-b"

	_, err := updated.ValidateUpdate(old)
	assert.Error(t, err)
}

func TestValidateDelete_AlwaysAllowed(t *testing.T) {
	_, err := validNode().ValidateDelete()
	assert.NoError(t, err)
}

func TestValidate_MirrorsValidateCreateWithoutImmutabilityChecks(t *testing.T) {
	node := validNode()
	assert.Empty(t, node.Validate())

	node.Spec.Replicas = 0
	assert.NotEmpty(t, node.Validate())
}
