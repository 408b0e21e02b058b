/*
Copyright © 2026 Deutsche Telekom AG.
*/
package indexer

import (
	"context"
	"fmt"
	"strings"

	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/manager"

	observev1alpha1 "github.com/telekom/kube-observe/api/observe/v1alpha1"
)

const (
	// ObservationTargetField indexes Observations by TargetKey of their target.
	ObservationTargetField = ".spec.target"

	// ObservationTargetKindField indexes Observations by spec.target.kind.
	ObservationTargetKindField = ".spec.target.kind"
)

// TargetKey returns the index value for a target. Nodes have an empty
// namespace segment.
func TargetKey(kind observev1alpha1.TargetKind, namespace, name string) string {
	return strings.Join([]string{string(kind), namespace, name}, "/")
}

// SetupIndexes registers field indexes on the manager's cache for efficient lookups.
// This should be called before starting the manager.
func SetupIndexes(ctx context.Context, mgr manager.Manager) error {
	if err := mgr.GetFieldIndexer().IndexField(
		ctx,
		&observev1alpha1.Observation{},
		ObservationTargetField,
		ObservationTargetFunc,
	); err != nil {
		return fmt.Errorf("failed to create index for Observation.Spec.Target: %w", err)
	}

	if err := mgr.GetFieldIndexer().IndexField(
		ctx,
		&observev1alpha1.Observation{},
		ObservationTargetKindField,
		ObservationTargetKindFunc,
	); err != nil {
		return fmt.Errorf("failed to create index for Observation.Spec.Target.Kind: %w", err)
	}

	return nil
}

// ObservationTargetFunc extracts the ObservationTargetField value.
// Exported for testing and fake client setup.
func ObservationTargetFunc(obj client.Object) []string {
	o, ok := obj.(*observev1alpha1.Observation)
	if !ok || o.Spec.Target.Name == "" {
		return nil
	}
	return []string{TargetKey(o.Spec.Target.Kind, o.TargetNamespace(), o.Spec.Target.Name)}
}

// ObservationTargetKindFunc extracts the ObservationTargetKindField value.
func ObservationTargetKindFunc(obj client.Object) []string {
	o, ok := obj.(*observev1alpha1.Observation)
	if !ok || o.Spec.Target.Kind == "" {
		return nil
	}
	return []string{string(o.Spec.Target.Kind)}
}
