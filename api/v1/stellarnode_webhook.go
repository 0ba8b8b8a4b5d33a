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
	"fmt"

	resource "k8s.io/apimachinery/pkg/api/resource"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/util/validation/field"
	ctrl "sigs.k8s.io/controller-runtime"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/webhook"
	"sigs.k8s.io/controller-runtime/pkg/webhook/admission"

	"github.com/stellarnode/operator/pkg/quorum"
)

var stellarnodelog = logf.Log.WithName("stellarnode-resource")

func (r *StellarNode) SetupWebhookWithManager(mgr ctrl.Manager) error {
	return ctrl.NewWebhookManagedBy(mgr).
		For(r).
		Complete()
}

//+kubebuilder:webhook:path=/validate-stellarnode-stellar-org-v1-stellarnode,mutating=false,failurePolicy=fail,sideEffects=None,groups=stellarnode.stellar.org,resources=stellarnodes,verbs=create;update,versions=v1,name=vstellarnode.kb.io,admissionReviewVersions=v1

var _ webhook.Validator = &StellarNode{}

// ValidateCreate implements webhook.Validator.
func (r *StellarNode) ValidateCreate() (admission.Warnings, error) {
	stellarnodelog.Info("validate create", "name", r.Name)

	warnings, errs := r.validate(nil)
	if len(errs) != 0 {
		return warnings, apierrors.NewInvalid(schema.GroupKind{Group: GroupVersion.Group, Kind: "StellarNode"}, r.Name, errs)
	}

	return warnings, nil
}

// ValidateUpdate implements webhook.Validator.
func (r *StellarNode) ValidateUpdate(oldObj runtime.Object) (admission.Warnings, error) {
	stellarnodelog.Info("validate update", "name", r.Name)

	old, ok := oldObj.(*StellarNode)
	if !ok {
		return nil, fmt.Errorf("expected a StellarNode, got %T", oldObj)
	}

	warnings, errs := r.validate(old)
	if len(errs) != 0 {
		return warnings, apierrors.NewInvalid(schema.GroupKind{Group: GroupVersion.Group, Kind: "StellarNode"}, r.Name, errs)
	}

	return warnings, nil
}

// ValidateDelete implements webhook.Validator.
func (r *StellarNode) ValidateDelete() (admission.Warnings, error) {
	stellarnodelog.Info("validate delete", "name", r.Name)
	return nil, nil
}

// Validate runs every §4.A shape check with no immutability comparison, so
// the reconciler's ValidateSpec state (§4.F) can re-check a spec that may
// have bypassed the admission webhook (e.g. a subresource update, or the
// webhook being temporarily disabled) using the same rules the webhook
// enforces at admission time.
func (r *StellarNode) Validate() field.ErrorList {
	_, errs := r.validate(nil)
	return errs
}

// validate runs every §4.A shape check plus, on update, the immutability
// checks from §6. old is nil on create.
func (r *StellarNode) validate(old *StellarNode) (admission.Warnings, field.ErrorList) {
	var errs field.ErrorList
	spec := field.NewPath("spec")

	errs = append(errs, validateEnum(spec.Child("nodeType"), string(r.Spec.NodeType), []string{
		string(NodeTypeValidator), string(NodeTypeHorizon), string(NodeTypeSorobanRpc),
	})...)
	errs = append(errs, validateEnum(spec.Child("network"), string(r.Spec.Network), []string{
		string(NetworkMainnet), string(NetworkTestnet), string(NetworkFuturenet),
	})...)

	if r.Spec.Replicas < 1 {
		errs = append(errs, field.Invalid(spec.Child("replicas"), r.Spec.Replicas, "must be >= 1"))
	}

	if r.Spec.Storage != nil {
		errs = append(errs, validateStorage(spec.Child("storage"), r.Spec.Storage)...)
	}

	errs = append(errs, validateSubConfig(spec, r.Spec)...)

	if r.Spec.ServiceMesh != nil {
		errs = append(errs, validateServiceMesh(spec.Child("serviceMesh"), r.Spec.ServiceMesh)...)
	}

	resources := spec.Child("resources")
	for name, limit := range r.Spec.Resources.Limits {
		if request, ok := r.Spec.Resources.Requests[name]; ok && limit.Cmp(request) < 0 {
			errs = append(errs, field.Invalid(resources.Child("limits", string(name)), limit.String(),
				fmt.Sprintf("must be >= request %s", request.String())))
		}
	}

	if old != nil {
		errs = append(errs, validateImmutable(spec, old, r)...)
	}

	return nil, errs
}

func validateEnum(path *field.Path, got string, allowed []string) field.ErrorList {
	for _, a := range allowed {
		if got == a {
			return nil
		}
	}
	return field.ErrorList{field.NotSupported(path, got, allowed)}
}

func validateStorage(path *field.Path, s *StorageSpec) field.ErrorList {
	var errs field.ErrorList

	if s.StorageClass == "" {
		errs = append(errs, field.Required(path.Child("storageClass"), "must be set"))
	}

	q, err := resource.ParseQuantity(s.Size)
	if err != nil {
		errs = append(errs, field.Invalid(path.Child("size"), s.Size, "must be a valid quantity"))
	} else if q.Sign() <= 0 {
		errs = append(errs, field.Invalid(path.Child("size"), s.Size, "must be > 0"))
	}

	if s.Retention != "" && s.Retention != RetentionRetain && s.Retention != RetentionDelete {
		errs = append(errs, field.NotSupported(path.Child("retention"), string(s.Retention),
			[]string{string(RetentionRetain), string(RetentionDelete)}))
	}

	return errs
}

// validateSubConfig enforces that exactly the sub-config matching NodeType is
// present, and recurses into validator quorum-set structural checks.
func validateSubConfig(spec *field.Path, s StellarNodeSpec) field.ErrorList {
	var errs field.ErrorList

	present := map[NodeType]bool{
		NodeTypeValidator:  s.ValidatorConfig != nil,
		NodeTypeHorizon:    s.HorizonConfig != nil,
		NodeTypeSorobanRpc: s.SorobanConfig != nil,
	}

	for nt, isPresent := range present {
		if nt == s.NodeType {
			continue
		}
		if isPresent {
			errs = append(errs, field.Forbidden(spec.Child(subConfigFieldName(nt)),
				fmt.Sprintf("must not be set when nodeType=%s", s.NodeType)))
		}
	}

	switch s.NodeType {
	case NodeTypeValidator:
		if s.ValidatorConfig == nil {
			errs = append(errs, field.Required(spec.Child("validatorConfig"), "required when nodeType=Validator"))
			break
		}
		if s.ValidatorConfig.SeedSecretRef.Name == "" {
			errs = append(errs, field.Required(spec.Child("validatorConfig", "seedSecretRef", "name"), "must be set"))
		}
		if s.ValidatorConfig.QuorumSet != nil {
			for _, issue := range quorum.Validate(quorum.FromSpec(s.ValidatorConfig.QuorumSet)) {
				errs = append(errs, field.Invalid(spec.Child("validatorConfig", "quorumSet"), issue.Path, issue.Message))
			}
		}
	case NodeTypeHorizon:
		if s.HorizonConfig == nil {
			errs = append(errs, field.Required(spec.Child("horizonConfig"), "required when nodeType=Horizon"))
			break
		}
		if s.HorizonConfig.DatabaseSecretRef.Name == "" {
			errs = append(errs, field.Required(spec.Child("horizonConfig", "databaseSecretRef", "name"), "must be set"))
		}
	case NodeTypeSorobanRpc:
		if s.SorobanConfig == nil {
			errs = append(errs, field.Required(spec.Child("sorobanConfig"), "required when nodeType=SorobanRpc"))
			break
		}
		if s.SorobanConfig.DatabaseSecretRef.Name == "" {
			errs = append(errs, field.Required(spec.Child("sorobanConfig", "databaseSecretRef", "name"), "must be set"))
		}
		if cc := s.SorobanConfig.CaptiveCore; cc != nil && len(cc.HistoryArchiveUrls) == 0 {
			errs = append(errs, field.Required(spec.Child("sorobanConfig", "captiveCore", "historyArchiveUrls"),
				"at least one history archive URL is required when captiveCore is set"))
		}
	}

	return errs
}

func subConfigFieldName(nt NodeType) string {
	switch nt {
	case NodeTypeValidator:
		return "validatorConfig"
	case NodeTypeHorizon:
		return "horizonConfig"
	default:
		return "sorobanConfig"
	}
}

func validateServiceMesh(path *field.Path, m *ServiceMeshSpec) field.ErrorList {
	var errs field.ErrorList

	count := 0
	if m.Istio != nil {
		count++
	}
	if m.Linkerd != nil {
		count++
	}
	if count != 1 {
		errs = append(errs, field.Invalid(path, m, "exactly one of istio, linkerd must be set"))
		return errs
	}

	policy := m.Istio
	name := "istio"
	if m.Linkerd != nil {
		policy = m.Linkerd
		name = "linkerd"
	}

	if policy.CircuitBreaker != nil {
		cb := policy.CircuitBreaker
		cbPath := path.Child(name, "circuitBreaker")
		if cb.ConsecutiveErrors < 1 {
			errs = append(errs, field.Invalid(cbPath.Child("consecutiveErrors"), cb.ConsecutiveErrors, "must be >= 1"))
		}
		if cb.TimeWindowSecs < 1 {
			errs = append(errs, field.Invalid(cbPath.Child("timeWindowSecs"), cb.TimeWindowSecs, "must be >= 1"))
		}
		if cb.BaseEjectionSecs < 1 {
			errs = append(errs, field.Invalid(cbPath.Child("baseEjectionSecs"), cb.BaseEjectionSecs, "must be >= 1"))
		}
	}

	return errs
}

func validateImmutable(spec *field.Path, old, new *StellarNode) field.ErrorList {
	var errs field.ErrorList

	if old.Spec.NodeType != new.Spec.NodeType {
		errs = append(errs, field.Invalid(spec.Child("nodeType"), new.Spec.NodeType, "field is immutable"))
	}
	if old.Spec.Network != new.Spec.Network {
		errs = append(errs, field.Invalid(spec.Child("network"), new.Spec.Network, "field is immutable"))
	}

	oldStorage, newStorage := old.Spec.Storage, new.Spec.Storage
	if oldStorage != nil && newStorage != nil {
		if oldStorage.StorageClass != newStorage.StorageClass {
			errs = append(errs, field.Invalid(spec.Child("storage", "storageClass"), newStorage.StorageClass, "field is immutable"))
		}
		if oldStorage.Size != newStorage.Size {
			errs = append(errs, field.Invalid(spec.Child("storage", "size"), newStorage.Size, "field is immutable"))
		}
	}

	if old.Spec.ValidatorConfig != nil && new.Spec.ValidatorConfig != nil {
		if old.Spec.ValidatorConfig.SeedSecretRef.Name != new.Spec.ValidatorConfig.SeedSecretRef.Name {
			errs = append(errs, field.Invalid(spec.Child("validatorConfig", "seedSecretRef", "name"),
				new.Spec.ValidatorConfig.SeedSecretRef.Name, "field is immutable"))
		}
	}

	return errs
}
