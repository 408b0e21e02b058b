// SPDX-FileCopyrightText: 2026 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package conditions

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Handle refers to one condition of one object by type. It does not hold a
// pointer into the condition list: every call looks the condition up again,
// so a Handle stays valid when the list is re-sorted, and a condition that
// was removed in the meantime is re-inserted as the Unknown default before
// the call proceeds.
//
// A Handle is not safe for concurrent use, just like the object it refers to.
type Handle struct {
	engine        *Engine
	obj           Setter
	conditionType ConditionType
}

// Type returns the condition type the handle refers to.
func (h *Handle) Type() ConditionType {
	return h.conditionType
}

// Get returns a copy of the current condition.
func (h *Handle) Get() metav1.Condition {
	return h.engine.Condition(h.obj, h.conditionType)
}

func (h *Handle) IsTrue() bool {
	return h.Get().Status == metav1.ConditionTrue
}

func (h *Handle) IsFalse() bool {
	return h.Get().Status == metav1.ConditionFalse
}

func (h *Handle) IsUnknown() bool {
	return h.Get().Status == metav1.ConditionUnknown
}

func (h *Handle) HasReason(reason ConditionReason) bool {
	return h.Get().Reason == string(reason)
}

// IsCurrent reports whether the condition's observed generation matches the
// generation of obj.
func (h *Handle) IsCurrent(obj metav1.Object) bool {
	return obj != nil && h.Get().ObservedGeneration == obj.GetGeneration()
}

func (h *Handle) SetTrue() bool {
	return h.SetStatus(StatusTrue)
}

func (h *Handle) SetFalse() bool {
	return h.SetStatus(StatusFalse)
}

func (h *Handle) SetUnknown() bool {
	return h.SetStatus(StatusUnknown)
}

// SetStatus sets the status. Like every setter it reports whether the
// condition transitioned.
func (h *Handle) SetStatus(s Status) bool {
	return h.Apply(func(c *metav1.Condition) {
		c.Status = s.ConditionStatus()
	})
}

func (h *Handle) SetReason(reason ConditionReason) bool {
	return h.Apply(func(c *metav1.Condition) {
		c.Reason = string(reason)
	})
}

// SetMessage sets the message, formatting it with messageArgs if any are
// given.
func (h *Handle) SetMessage(message ConditionMessage, messageArgs ...interface{}) bool {
	msg := formatMessage(message, messageArgs...)
	return h.Apply(func(c *metav1.Condition) {
		c.Message = msg
	})
}

// SetGenerationFrom records the generation of obj as observed.
func (h *Handle) SetGenerationFrom(obj metav1.Object) bool {
	if obj == nil {
		return false
	}
	gen := obj.GetGeneration()
	return h.Apply(func(c *metav1.Condition) {
		c.ObservedGeneration = gen
	})
}

// Apply changes any number of fields in a single transition. Changes to Type
// and LastTransitionTime made by fn are discarded.
func (h *Handle) Apply(fn func(*metav1.Condition)) bool {
	e := h.engine
	conditions, idx, changed := e.ensure(h.obj.GetConditions(), h.conditionType)

	previous := conditions[idx]
	transitioned := Update(&conditions[idx], e.now(), fn)
	if changed || transitioned {
		h.obj.SetConditions(conditions)
	}
	if transitioned {
		e.notify(h.obj, previous, conditions[idx])
	}
	return transitioned
}
