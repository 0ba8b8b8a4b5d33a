//go:build !ignore_autogenerated

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

// Code generated by hand in the style of controller-gen object:headerFile=hack/boilerplate.go.txt; DO NOT derive semantics from this file.

package v1

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	runtime "k8s.io/apimachinery/pkg/runtime"
)

func (in *CircuitBreaker) DeepCopy() *CircuitBreaker {
	if in == nil {
		return nil
	}
	out := new(CircuitBreaker)
	*out = *in
	return out
}

func (in *MeshPolicy) DeepCopyInto(out *MeshPolicy) {
	*out = *in
	if in.CircuitBreaker != nil {
		out.CircuitBreaker = in.CircuitBreaker.DeepCopy()
	}
}

func (in *MeshPolicy) DeepCopy() *MeshPolicy {
	if in == nil {
		return nil
	}
	out := new(MeshPolicy)
	in.DeepCopyInto(out)
	return out
}

func (in *ServiceMeshSpec) DeepCopyInto(out *ServiceMeshSpec) {
	*out = *in
	if in.Istio != nil {
		out.Istio = in.Istio.DeepCopy()
	}
	if in.Linkerd != nil {
		out.Linkerd = in.Linkerd.DeepCopy()
	}
}

func (in *ServiceMeshSpec) DeepCopy() *ServiceMeshSpec {
	if in == nil {
		return nil
	}
	out := new(ServiceMeshSpec)
	in.DeepCopyInto(out)
	return out
}

func (in *StorageSpec) DeepCopy() *StorageSpec {
	if in == nil {
		return nil
	}
	out := new(StorageSpec)
	*out = *in
	return out
}

func (in *QuorumSetSpec) DeepCopyInto(out *QuorumSetSpec) {
	*out = *in
	if in.Validators != nil {
		out.Validators = make([]string, len(in.Validators))
		copy(out.Validators, in.Validators)
	}
	if in.InnerSets != nil {
		out.InnerSets = make([]QuorumSetSpec, len(in.InnerSets))
		for i := range in.InnerSets {
			in.InnerSets[i].DeepCopyInto(&out.InnerSets[i])
		}
	}
}

func (in *QuorumSetSpec) DeepCopy() *QuorumSetSpec {
	if in == nil {
		return nil
	}
	out := new(QuorumSetSpec)
	in.DeepCopyInto(out)
	return out
}

func (in *ValidatorConfig) DeepCopyInto(out *ValidatorConfig) {
	*out = *in
	out.SeedSecretRef = in.SeedSecretRef
	if in.QuorumSet != nil {
		out.QuorumSet = in.QuorumSet.DeepCopy()
	}
}

func (in *ValidatorConfig) DeepCopy() *ValidatorConfig {
	if in == nil {
		return nil
	}
	out := new(ValidatorConfig)
	in.DeepCopyInto(out)
	return out
}

func (in *HorizonConfig) DeepCopy() *HorizonConfig {
	if in == nil {
		return nil
	}
	out := new(HorizonConfig)
	*out = *in
	return out
}

func (in *CaptiveCoreConfig) DeepCopyInto(out *CaptiveCoreConfig) {
	*out = *in
	if in.HistoryArchiveUrls != nil {
		out.HistoryArchiveUrls = make([]string, len(in.HistoryArchiveUrls))
		copy(out.HistoryArchiveUrls, in.HistoryArchiveUrls)
	}
}

func (in *CaptiveCoreConfig) DeepCopy() *CaptiveCoreConfig {
	if in == nil {
		return nil
	}
	out := new(CaptiveCoreConfig)
	in.DeepCopyInto(out)
	return out
}

func (in *SorobanConfig) DeepCopyInto(out *SorobanConfig) {
	*out = *in
	if in.CaptiveCore != nil {
		out.CaptiveCore = in.CaptiveCore.DeepCopy()
	}
}

func (in *SorobanConfig) DeepCopy() *SorobanConfig {
	if in == nil {
		return nil
	}
	out := new(SorobanConfig)
	in.DeepCopyInto(out)
	return out
}

func (in *StellarNodeSpec) DeepCopyInto(out *StellarNodeSpec) {
	*out = *in
	in.Resources.DeepCopyInto(&out.Resources)
	if in.Storage != nil {
		out.Storage = in.Storage.DeepCopy()
	}
	if in.ValidatorConfig != nil {
		out.ValidatorConfig = in.ValidatorConfig.DeepCopy()
	}
	if in.HorizonConfig != nil {
		out.HorizonConfig = in.HorizonConfig.DeepCopy()
	}
	if in.SorobanConfig != nil {
		out.SorobanConfig = in.SorobanConfig.DeepCopy()
	}
	if in.ServiceMesh != nil {
		out.ServiceMesh = in.ServiceMesh.DeepCopy()
	}
}

func (in *StellarNodeSpec) DeepCopy() *StellarNodeSpec {
	if in == nil {
		return nil
	}
	out := new(StellarNodeSpec)
	in.DeepCopyInto(out)
	return out
}

func (in *StellarNodeStatus) DeepCopyInto(out *StellarNodeStatus) {
	*out = *in
	if in.Conditions != nil {
		out.Conditions = make([]metav1.Condition, len(in.Conditions))
		for i := range in.Conditions {
			in.Conditions[i].DeepCopyInto(&out.Conditions[i])
		}
	}
}

func (in *StellarNodeStatus) DeepCopy() *StellarNodeStatus {
	if in == nil {
		return nil
	}
	out := new(StellarNodeStatus)
	in.DeepCopyInto(out)
	return out
}

func (in *StellarNode) DeepCopyInto(out *StellarNode) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

func (in *StellarNode) DeepCopy() *StellarNode {
	if in == nil {
		return nil
	}
	out := new(StellarNode)
	in.DeepCopyInto(out)
	return out
}

func (in *StellarNode) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

func (in *StellarNodeList) DeepCopyInto(out *StellarNodeList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]StellarNode, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

func (in *StellarNodeList) DeepCopy() *StellarNodeList {
	if in == nil {
		return nil
	}
	out := new(StellarNodeList)
	in.DeepCopyInto(out)
	return out
}

func (in *StellarNodeList) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

// unused import guards for generated-style symmetry with corev1-derived fields
var _ = corev1.ResourceRequirements{}
