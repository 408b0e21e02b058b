package conditions

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// Getter is implemented by objects that expose status conditions.
type Getter interface {
	client.Object
	GetConditions() []metav1.Condition
}

// Condition returns a copy of the condition of type t, or a default with
// status Unknown, empty reason and message, no observed generation and a
// LastTransitionTime of now. The object's conditions are never modified.
//
// The timestamp on a synthesized default is not canonical; it only becomes
// meaningful once the condition is persisted through Mut.
func (e *Engine) Condition(from Getter, t ConditionType) metav1.Condition {
	if from != nil {
		for _, c := range from.GetConditions() {
			if ConditionType(c.Type) != t {
				continue
			}
			if c.LastTransitionTime.IsZero() {
				c.LastTransitionTime = e.now()
			}
			return c
		}
	}
	return unknownCondition(t, e.now())
}

// Condition is Engine.Condition on the default Engine.
func Condition(from Getter, t ConditionType) metav1.Condition {
	return defaultEngine.Condition(from, t)
}

// Get returns a copy of the condition of type t, or nil if there is none.
func Get(from Getter, t ConditionType) *metav1.Condition {
	if from == nil {
		return nil
	}
	conditions := from.GetConditions()
	if conditions == nil {
		return nil
	}

	for _, condition := range conditions {
		if ConditionType(condition.Type) == t {
			return &condition
		}
	}

	return nil
}

func Has(from Getter, t ConditionType) bool {
	return Get(from, t) != nil
}

func IsTrue(from Getter, t ConditionType) bool {
	if c := Get(from, t); c != nil {
		return c.Status == metav1.ConditionTrue
	}
	return false
}

func IsFalse(from Getter, t ConditionType) bool {
	if c := Get(from, t); c != nil {
		return c.Status == metav1.ConditionFalse
	}
	return false
}

// IsUnknown reports whether the condition has status Unknown. A missing
// condition counts as Unknown.
func IsUnknown(from Getter, t ConditionType) bool {
	if c := Get(from, t); c != nil {
		return c.Status == metav1.ConditionUnknown
	}
	return true
}

// HasReason reports whether the condition of type t carries reason.
func HasReason(from Getter, t ConditionType, reason ConditionReason) bool {
	return GetReason(from, t) == string(reason)
}

// IsCurrent reports whether the condition of type t was computed against the
// object's current metadata.generation. A missing condition is treated like
// the default, which carries no observed generation.
func IsCurrent(from Getter, t ConditionType) bool {
	if from == nil {
		return false
	}
	return GetObservedGeneration(from, t) == from.GetGeneration()
}

func GetObservedGeneration(from Getter, t ConditionType) int64 {
	if c := Get(from, t); c != nil {
		return c.ObservedGeneration
	}
	return 0
}

func GetLastTransitionTime(from Getter, t ConditionType) *metav1.Time {
	if c := Get(from, t); c != nil {
		return &c.LastTransitionTime
	}
	return nil
}

func GetReason(from Getter, t ConditionType) string {
	if c := Get(from, t); c != nil {
		return c.Reason
	}
	return ""
}

func GetMessage(from Getter, t ConditionType) string {
	if c := Get(from, t); c != nil {
		return c.Message
	}
	return ""
}
