/*
Copyright 2022.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// NodeType selects the workload shape of a StellarNode.
type NodeType string

const (
	NodeTypeValidator   NodeType = "Validator"
	NodeTypeHorizon     NodeType = "Horizon"
	NodeTypeSorobanRpc  NodeType = "SorobanRpc"
)

// Network selects the Stellar network a node participates in.
type Network string

const (
	NetworkMainnet   Network = "Mainnet"
	NetworkTestnet   Network = "Testnet"
	NetworkFuturenet Network = "Futurenet"
)

// RetentionPolicy controls what happens to a storage claim on node deletion.
type RetentionPolicy string

const (
	RetentionRetain RetentionPolicy = "Retain"
	RetentionDelete RetentionPolicy = "Delete"
)

// NodePhase is the coarse-grained lifecycle phase reported in status.
type NodePhase string

const (
	PhasePending  NodePhase = "Pending"
	PhaseCreating NodePhase = "Creating"
	PhaseRunning  NodePhase = "Running"
	PhaseFailed   NodePhase = "Failed"
	PhaseDeleting NodePhase = "Deleting"
	PhaseDeleted  NodePhase = "Deleted"
)

// StellarNodeSpec defines the desired state of a StellarNode.
type StellarNodeSpec struct {
	// NodeType selects the workload shape: Validator, Horizon or SorobanRpc.
	// Immutable after creation.
	// +kubebuilder:validation:Enum=Validator;Horizon;SorobanRpc
	NodeType NodeType `json:"nodeType"`

	// Network is the Stellar network this node participates in.
	// Immutable after creation.
	// +kubebuilder:validation:Enum=Mainnet;Testnet;Futurenet
	Network Network `json:"network"`

	// Version is the container image reference for the node workload.
	Version string `json:"version"`

	// Replicas is the desired pod count.
	// +kubebuilder:validation:Minimum=1
	Replicas int32 `json:"replicas"`

	// Resources are the request/limit pairs applied to the node's primary container.
	// +kubebuilder:validation:Optional
	Resources corev1.ResourceRequirements `json:"resources,omitempty"`

	// Storage describes the persistent volume claim backing this node, when applicable.
	// +kubebuilder:validation:Optional
	Storage *StorageSpec `json:"storage,omitempty"`

	// ValidatorConfig is required iff NodeType is Validator.
	// +kubebuilder:validation:Optional
	ValidatorConfig *ValidatorConfig `json:"validatorConfig,omitempty"`

	// HorizonConfig is required iff NodeType is Horizon.
	// +kubebuilder:validation:Optional
	HorizonConfig *HorizonConfig `json:"horizonConfig,omitempty"`

	// SorobanConfig is required iff NodeType is SorobanRpc.
	// +kubebuilder:validation:Optional
	SorobanConfig *SorobanConfig `json:"sorobanConfig,omitempty"`

	// ServiceMesh configures a sidecar mesh policy for this node's traffic.
	// +kubebuilder:validation:Optional
	ServiceMesh *ServiceMeshSpec `json:"serviceMesh,omitempty"`
}

// StorageSpec describes the persistent volume claim backing a node.
type StorageSpec struct {
	// StorageClass is the name of the StorageClass to request. Immutable after creation.
	StorageClass string `json:"storageClass"`

	// Size is the requested claim size, e.g. "100Gi". Immutable after creation.
	Size string `json:"size"`

	// Retention controls claim disposition on node deletion.
	// +kubebuilder:validation:Enum=Retain;Delete
	// +kubebuilder:default=Retain
	Retention RetentionPolicy `json:"retention,omitempty"`
}

// ValidatorConfig configures a Validator node.
type ValidatorConfig struct {
	// SeedSecretRef names the Secret holding the validator's signing seed.
	// Immutable after creation.
	SeedSecretRef corev1.LocalObjectReference `json:"seedSecretRef"`

	// QuorumSet is the structural description of this validator's trusted peer set.
	// +kubebuilder:validation:Optional
	QuorumSet *QuorumSetSpec `json:"quorumSet,omitempty"`

	// EnableHistoryArchive toggles publishing a history archive from this validator.
	// +kubebuilder:validation:Optional
	EnableHistoryArchive bool `json:"enableHistoryArchive,omitempty"`
}

// QuorumSetSpec is a weighted threshold description of a validator's trusted peers.
// It is opaque to the operator beyond being a validated structure: see pkg/quorum.
type QuorumSetSpec struct {
	// Threshold is the number of members (direct validators plus satisfied inner sets)
	// required to reach quorum at this level.
	// +kubebuilder:validation:Minimum=1
	Threshold int32 `json:"threshold"`

	// Validators are the public keys of directly trusted peers at this level.
	// +kubebuilder:validation:Optional
	Validators []string `json:"validators,omitempty"`

	// InnerSets are nested quorum sets, each contributing one vote toward Threshold
	// when its own threshold is satisfied.
	// +kubebuilder:validation:Optional
	InnerSets []QuorumSetSpec `json:"innerSets,omitempty"`
}

// HorizonConfig configures a Horizon node.
type HorizonConfig struct {
	// DatabaseSecretRef names the Secret holding the Horizon database DSN.
	DatabaseSecretRef corev1.LocalObjectReference `json:"databaseSecretRef"`

	// StellarCoreUrl is the HTTP endpoint of the core node Horizon ingests from.
	StellarCoreUrl string `json:"stellarCoreUrl"`

	// IngestEnabled toggles whether this Horizon instance runs ledger ingestion.
	// +kubebuilder:validation:Optional
	IngestEnabled bool `json:"ingestEnabled,omitempty"`
}

// SorobanConfig configures a SorobanRpc node.
type SorobanConfig struct {
	// DatabaseSecretRef names the Secret holding the Soroban RPC database DSN.
	DatabaseSecretRef corev1.LocalObjectReference `json:"databaseSecretRef"`

	// StellarCoreUrl is the HTTP endpoint of the captive-core instance this RPC node drives.
	StellarCoreUrl string `json:"stellarCoreUrl"`

	// CaptiveCore configures an in-pod captive-core sidecar. When nil, the
	// SorobanRpc workload runs with no sidecar container and StellarCoreUrl
	// must point at an externally managed core instance instead.
	// +kubebuilder:validation:Optional
	CaptiveCore *CaptiveCoreConfig `json:"captiveCore,omitempty"`
}

// CaptiveCoreConfig tunes the captive-core sidecar's network, history
// archives, ports, and logging.
type CaptiveCoreConfig struct {
	// NetworkPassphrase overrides the network's default passphrase.
	// +kubebuilder:validation:Optional
	NetworkPassphrase string `json:"networkPassphrase,omitempty"`

	// HistoryArchiveUrls lists the history archives captive-core catches up
	// from. At least one is required.
	HistoryArchiveUrls []string `json:"historyArchiveUrls,omitempty"`

	// PeerPort is captive-core's peer network port. Defaults to 11625.
	// +kubebuilder:validation:Optional
	PeerPort int32 `json:"peerPort,omitempty"`

	// HttpPort is captive-core's local HTTP admin port. Defaults to 11626.
	// +kubebuilder:validation:Optional
	HttpPort int32 `json:"httpPort,omitempty"`

	// LogLevel is captive-core's log verbosity. Defaults to "info".
	// +kubebuilder:validation:Optional
	LogLevel string `json:"logLevel,omitempty"`

	// AdditionalConfig is appended verbatim to the generated captive-core
	// configuration, for settings this type doesn't otherwise expose.
	// +kubebuilder:validation:Optional
	AdditionalConfig string `json:"additionalConfig,omitempty"`
}

// ServiceMeshSpec configures exactly one mesh integration.
type ServiceMeshSpec struct {
	// Istio configures an Istio mesh policy. Exactly one of Istio/Linkerd must be set.
	// +kubebuilder:validation:Optional
	Istio *MeshPolicy `json:"istio,omitempty"`

	// Linkerd configures a Linkerd mesh policy. Exactly one of Istio/Linkerd must be set.
	// +kubebuilder:validation:Optional
	Linkerd *MeshPolicy `json:"linkerd,omitempty"`
}

// MeshPolicy carries optional circuit-breaker parameters for a mesh integration.
type MeshPolicy struct {
	// CircuitBreaker tunes outlier detection for this node's traffic.
	// +kubebuilder:validation:Optional
	CircuitBreaker *CircuitBreaker `json:"circuitBreaker,omitempty"`
}

// CircuitBreaker configures outlier-detection ejection behavior.
type CircuitBreaker struct {
	// ConsecutiveErrors is the number of consecutive errors before ejection.
	// +kubebuilder:validation:Minimum=1
	ConsecutiveErrors int32 `json:"consecutiveErrors"`

	// TimeWindowSecs is the sliding window used to count consecutive errors.
	// +kubebuilder:validation:Minimum=1
	TimeWindowSecs int32 `json:"timeWindowSecs"`

	// BaseEjectionSecs is the minimum ejection duration.
	// +kubebuilder:validation:Minimum=1
	BaseEjectionSecs int32 `json:"baseEjectionSecs"`
}

// StellarNodeStatus defines the observed state of a StellarNode.
type StellarNodeStatus struct {
	// NodeID is a server-assigned identifier, generated once on first
	// reconciliation and stable for the object's lifetime.
	// +kubebuilder:validation:Optional
	NodeID string `json:"nodeId,omitempty"`

	// Phase is the coarse lifecycle phase.
	// +kubebuilder:validation:Optional
	Phase NodePhase `json:"phase,omitempty"`

	// ObservedGeneration is the last spec generation this operator has reconciled.
	// +kubebuilder:validation:Optional
	ObservedGeneration int64 `json:"observedGeneration,omitempty"`

	// Conditions report the detailed status of this node's reconciliation.
	// +kubebuilder:validation:Optional
	// +listType=map
	// +listMapKey=type
	// +patchStrategy=merge
	// +patchMergeKey=type
	Conditions []metav1.Condition `json:"conditions,omitempty" patchStrategy:"merge" patchMergeKey:"type"`

	// LedgerSequence is the last-known head-ledger reported by a healthy probe.
	// +kubebuilder:validation:Optional
	LedgerSequence int64 `json:"ledgerSequence,omitempty"`

	// Message is a freeform human-readable status summary.
	// +kubebuilder:validation:Optional
	Message string `json:"message,omitempty"`
}

// StellarNode is the Schema for the stellarnodes API.
// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:scope=Namespaced,shortName=stnode
// +kubebuilder:printcolumn:name="NodeType",type=string,JSONPath=`.spec.nodeType`
// +kubebuilder:printcolumn:name="Network",type=string,JSONPath=`.spec.network`
// +kubebuilder:printcolumn:name="Phase",type=string,JSONPath=`.status.phase`
// +kubebuilder:printcolumn:name="Ledger",type=integer,JSONPath=`.status.ledgerSequence`
type StellarNode struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   StellarNodeSpec   `json:"spec,omitempty"`
	Status StellarNodeStatus `json:"status,omitempty"`
}

// StellarNodeList contains a list of StellarNode.
// +kubebuilder:object:root=true
type StellarNodeList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []StellarNode `json:"items"`
}

func init() {
	SchemeBuilder.Register(&StellarNode{}, &StellarNodeList{})
}
