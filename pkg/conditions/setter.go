package conditions

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Set upserts condition on the object. The list stays sorted and unique, and
// LastTransitionTime only moves when status, reason, message or observed
// generation differ from the stored condition. The LastTransitionTime of
// condition is ignored on input and set to the stored value on return.
func (e *Engine) Set(to Setter, condition *metav1.Condition) {
	if to == nil || condition == nil {
		return
	}

	h := e.Mut(to, ConditionType(condition.Type))
	h.Apply(func(c *metav1.Condition) {
		c.Status = condition.Status
		c.ObservedGeneration = condition.ObservedGeneration
		c.Reason = condition.Reason
		c.Message = condition.Message
	})
	condition.LastTransitionTime = h.Get().LastTransitionTime
}

// Set is Engine.Set on the default Engine.
func Set(to Setter, condition *metav1.Condition) {
	defaultEngine.Set(to, condition)
}

// TrueCondition creates a new condition with status True.
func TrueCondition(
	t ConditionType, gen int64, reason ConditionReason, message ConditionMessage, messageArgs ...interface{},
) *metav1.Condition {
	return newCondition(t, metav1.ConditionTrue, gen, reason, message, messageArgs...)
}

// FalseCondition creates a new condition with status False.
func FalseCondition(
	t ConditionType, gen int64, reason ConditionReason, message ConditionMessage, messageArgs ...interface{},
) *metav1.Condition {
	return newCondition(t, metav1.ConditionFalse, gen, reason, message, messageArgs...)
}

// UnknownCondition creates a new condition with status Unknown.
func UnknownCondition(
	t ConditionType, gen int64, reason ConditionReason, message ConditionMessage, messageArgs ...interface{},
) *metav1.Condition {
	return newCondition(t, metav1.ConditionUnknown, gen, reason, message, messageArgs...)
}

func newCondition(
	t ConditionType, status metav1.ConditionStatus, gen int64,
	reason ConditionReason, message ConditionMessage, messageArgs ...interface{},
) *metav1.Condition {
	return &metav1.Condition{
		Type:               string(t),
		Status:             status,
		ObservedGeneration: gen,
		Reason:             string(reason),
		Message:            formatMessage(message, messageArgs...),
	}
}

// MarkTrue sets a condition with status True on the object.
func (e *Engine) MarkTrue(
	to Setter, t ConditionType, gen int64, reason ConditionReason, message ConditionMessage, messageArgs ...interface{},
) {
	e.Set(to, TrueCondition(t, gen, reason, message, messageArgs...))
}

// MarkFalse sets a condition with status False on the object.
func (e *Engine) MarkFalse(
	to Setter, t ConditionType, gen int64, reason ConditionReason, message ConditionMessage, messageArgs ...interface{},
) {
	e.Set(to, FalseCondition(t, gen, reason, message, messageArgs...))
}

// MarkUnknown sets a condition with status Unknown on the object.
func (e *Engine) MarkUnknown(
	to Setter, t ConditionType, gen int64, reason ConditionReason, message ConditionMessage, messageArgs ...interface{},
) {
	e.Set(to, UnknownCondition(t, gen, reason, message, messageArgs...))
}

// MarkTrue sets a condition with status True on the object.
func MarkTrue(
	to Setter, t ConditionType, gen int64, reason ConditionReason, message ConditionMessage, messageArgs ...interface{},
) {
	defaultEngine.MarkTrue(to, t, gen, reason, message, messageArgs...)
}

// MarkFalse sets a condition with status False on the object.
func MarkFalse(
	to Setter, t ConditionType, gen int64, reason ConditionReason, message ConditionMessage, messageArgs ...interface{},
) {
	defaultEngine.MarkFalse(to, t, gen, reason, message, messageArgs...)
}

// MarkUnknown sets a condition with status Unknown on the object.
func MarkUnknown(
	to Setter, t ConditionType, gen int64, reason ConditionReason, message ConditionMessage, messageArgs ...interface{},
) {
	defaultEngine.MarkUnknown(to, t, gen, reason, message, messageArgs...)
}

// Delete removes the condition with the given type from the object. The object
// is left untouched if there is no such condition.
func Delete(to Setter, t ConditionType) {
	if to == nil {
		return
	}

	conditions := to.GetConditions()
	if indexOf(conditions, t) < 0 {
		return
	}
	newConditions := make([]metav1.Condition, 0, len(conditions))
	for _, condition := range conditions {
		if ConditionType(condition.Type) != t {
			newConditions = append(newConditions, condition)
		}
	}
	to.SetConditions(newConditions)
}
