// SPDX-FileCopyrightText: 2026 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package v1alpha1

import (
	"context"
	"fmt"
	"strings"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/util/validation"
	"k8s.io/apimachinery/pkg/util/validation/field"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/webhook/admission"
)

// ObservationValidator implements admission.Validator for Observation.
// +kubebuilder:object:generate=false
type ObservationValidator struct{}

var _ admission.Validator[*Observation] = &ObservationValidator{}

// SetupWebhookWithManager will setup the manager to manage the webhooks.
func (o *Observation) SetupWebhookWithManager(mgr ctrl.Manager) error {
	return ctrl.NewWebhookManagedBy(mgr, o).
		WithValidator(&ObservationValidator{}).
		Complete()
}

// +kubebuilder:webhook:path=/validate-observe-t-caas-telekom-com-v1alpha1-observation,mutating=false,failurePolicy=fail,sideEffects=None,groups=observe.t-caas.telekom.com,resources=observations,verbs=create;update,versions=v1alpha1,name=observation.validating.webhook.observe.t-caas.telekom.de,admissionReviewVersions=v1

// ValidateCreate implements admission.Validator for Observation.
func (v *ObservationValidator) ValidateCreate(ctx context.Context, obj *Observation) (admission.Warnings, error) {
	logger := log.FromContext(ctx).WithName("observation-webhook")
	logger.V(1).Info("validating create", "namespace", obj.Namespace, "name", obj.Name)
	return ValidateObservation(obj)
}

// ValidateUpdate implements admission.Validator for Observation.
func (v *ObservationValidator) ValidateUpdate(ctx context.Context, _, newObj *Observation) (admission.Warnings, error) {
	logger := log.FromContext(ctx).WithName("observation-webhook")
	logger.V(1).Info("validating update", "namespace", newObj.Namespace, "name", newObj.Name)
	return ValidateObservation(newObj)
}

// ValidateDelete implements admission.Validator for Observation.
func (v *ObservationValidator) ValidateDelete(ctx context.Context, obj *Observation) (admission.Warnings, error) {
	logger := log.FromContext(ctx).WithName("observation-webhook")
	logger.V(1).Info("validating delete", "namespace", obj.Namespace, "name", obj.Name)
	return nil, nil
}

// ValidateObservation checks the target reference and the selected condition
// types. Every selected type must still be a valid condition type once the
// Target prefix is prepended, so prefixed types such as "example.com/Foo"
// are rejected.
func ValidateObservation(o *Observation) (admission.Warnings, error) {
	var (
		warnings admission.Warnings
		errs     field.ErrorList
	)
	specPath := field.NewPath("spec")
	targetPath := specPath.Child("target")

	switch o.Spec.Target.Kind {
	case TargetKindPod:
		if ns := o.Spec.Target.Namespace; ns != "" {
			for _, msg := range validation.IsDNS1123Label(ns) {
				errs = append(errs, field.Invalid(targetPath.Child("namespace"), ns, msg))
			}
		}
	case TargetKindNode:
		if o.Spec.Target.Namespace != "" {
			warnings = append(warnings,
				fmt.Sprintf("spec.target.namespace %q is ignored for Node targets", o.Spec.Target.Namespace))
		}
	default:
		errs = append(errs, field.NotSupported(targetPath.Child("kind"), o.Spec.Target.Kind,
			[]TargetKind{TargetKindPod, TargetKindNode}))
	}

	if o.Spec.Target.Name == "" {
		errs = append(errs, field.Required(targetPath.Child("name"), ""))
	} else {
		for _, msg := range validation.IsDNS1123Subdomain(o.Spec.Target.Name) {
			errs = append(errs, field.Invalid(targetPath.Child("name"), o.Spec.Target.Name, msg))
		}
	}

	typesPath := specPath.Child("conditionTypes")
	seen := make(map[string]struct{}, len(o.Spec.ConditionTypes))
	for i, t := range o.Spec.ConditionTypes {
		p := typesPath.Index(i)
		if t == "" {
			errs = append(errs, field.Required(p, ""))
			continue
		}
		if _, dup := seen[t]; dup {
			warnings = append(warnings, fmt.Sprintf("spec.conditionTypes[%d] %q is listed more than once", i, t))
			continue
		}
		seen[t] = struct{}{}
		if strings.Contains(t, "/") {
			errs = append(errs, field.Invalid(p, t, "must not have a prefix"))
			continue
		}
		for _, msg := range validation.IsQualifiedName(string(MirroredConditionType(ObserveConditionType(t)))) {
			errs = append(errs, field.Invalid(p, t, msg))
		}
	}

	if len(errs) > 0 {
		return warnings, apierrors.NewInvalid(GroupVersion.WithKind("Observation").GroupKind(), o.Name, errs)
	}
	return warnings, nil
}
