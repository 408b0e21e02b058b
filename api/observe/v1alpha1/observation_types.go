package v1alpha1

import (
	"slices"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/telekom/kube-observe/pkg/conditions"
)

// TargetKind is the kind of built-in resource an Observation watches.
// +kubebuilder:validation:Enum=Pod;Node
type TargetKind string

const (
	// TargetKindPod observes a Pod. Pods are namespaced.
	TargetKindPod TargetKind = "Pod"
	// TargetKindNode observes a Node. Nodes are cluster scoped.
	TargetKindNode TargetKind = "Node"
)

// MirroredConditionPrefix is prepended to every condition type copied from a
// target, so that a mirrored "Ready" does not collide with the Observation's
// own kstatus Ready condition.
const MirroredConditionPrefix = "Target"

// DefaultConditionTypes are mirrored when spec.conditionTypes is empty.
var DefaultConditionTypes = []string{"Ready"}

// ObservationTarget identifies the observed resource.
type ObservationTarget struct {
	// Kind of the observed resource.
	// +kubebuilder:validation:Required
	Kind TargetKind `json:"kind"`

	// Name of the observed resource.
	// +kubebuilder:validation:Required
	// +kubebuilder:validation:MinLength=1
	// +kubebuilder:validation:MaxLength=253
	Name string `json:"name"`

	// Namespace of an observed Pod. Defaults to the namespace of the
	// Observation and is ignored for Nodes.
	// +kubebuilder:validation:Optional
	// +kubebuilder:validation:MaxLength=63
	Namespace string `json:"namespace,omitempty"`
}

// ObservationSpec defines the desired state of Observation.
type ObservationSpec struct {
	// Target is the resource whose conditions are mirrored.
	// +kubebuilder:validation:Required
	Target ObservationTarget `json:"target"`

	// ConditionTypes lists the target condition types to mirror.
	// +kubebuilder:validation:Optional
	// +kubebuilder:validation:MaxItems=32
	// +kubebuilder:default={"Ready"}
	ConditionTypes []string `json:"conditionTypes,omitempty"`
}

// ObservationStatus defines the observed state of Observation.
type ObservationStatus struct {
	// ObservedGeneration is the last observed generation of the resource.
	// This is used by kstatus to determine if the resource is current.
	// +kubebuilder:validation:Optional
	ObservedGeneration int64 `json:"observedGeneration,omitempty"`

	// Conditions holds the kstatus conditions of the Observation and one
	// Target-prefixed condition per mirrored target condition.
	// +kubebuilder:validation:Optional
	// +listType=map
	// +listMapKey=type
	Conditions []metav1.Condition `json:"conditions,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:printcolumn:name="Kind",type="string",JSONPath=".spec.target.kind"
// +kubebuilder:printcolumn:name="Target",type="string",JSONPath=".spec.target.name"
// +kubebuilder:printcolumn:name="Ready",type="string",JSONPath=".status.conditions[?(@.type=='Ready')].status",description="Whether all mirrored conditions are True"
// +kubebuilder:printcolumn:name="Age",type="date",JSONPath=".metadata.creationTimestamp",description="Time duration since creation"

// Observation is the Schema for the observations API. It mirrors selected
// conditions of a Pod or Node into its own status.
type Observation struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   ObservationSpec   `json:"spec,omitempty"`
	Status ObservationStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// ObservationList contains a list of Observation.
type ObservationList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []Observation `json:"items"`
}

func init() {
	SchemeBuilder.Register(&Observation{}, &ObservationList{})
}

var _ conditions.Setter = &Observation{}

// GetConditions returns the conditions of the Observation.
func (o *Observation) GetConditions() []metav1.Condition {
	return o.Status.Conditions
}

// SetConditions sets the conditions of the Observation.
func (o *Observation) SetConditions(conditions []metav1.Condition) {
	o.Status.Conditions = conditions
}

// TargetNamespace returns the namespace the target lives in, or "" for Nodes.
func (o *Observation) TargetNamespace() string {
	if o.Spec.Target.Kind != TargetKindPod {
		return ""
	}
	if o.Spec.Target.Namespace != "" {
		return o.Spec.Target.Namespace
	}
	return o.Namespace
}

// MirroredTypes returns the configured target condition types in order,
// without duplicates and empty entries, falling back to DefaultConditionTypes.
func (o *Observation) MirroredTypes() []conditions.ConditionType {
	source := o.Spec.ConditionTypes
	if len(source) == 0 {
		source = DefaultConditionTypes
	}
	result := make([]conditions.ConditionType, 0, len(source))
	for _, t := range source {
		ct := conditions.ConditionType(t)
		if t == "" || slices.Contains(result, ct) {
			continue
		}
		result = append(result, ct)
	}
	return result
}

// MirroredConditionType returns the condition type a target condition is
// stored under on the Observation.
func MirroredConditionType(t conditions.ConditionType) conditions.ConditionType {
	return MirroredConditionPrefix + t
}
