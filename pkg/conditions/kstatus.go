// SPDX-FileCopyrightText: 2026 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package conditions

// kstatus condition types as defined by:
// https://github.com/kubernetes-sigs/cli-utils/blob/master/pkg/kstatus/README.md
const (
	// ReadyConditionType is the kstatus Ready condition type.
	ReadyConditionType ConditionType = "Ready"
	// ReconcilingConditionType is the kstatus Reconciling condition type (abnormal-true).
	ReconcilingConditionType ConditionType = "Reconciling"
	// StalledConditionType is the kstatus Stalled condition type (abnormal-true).
	StalledConditionType ConditionType = "Stalled"
)

// MarkReady sets Ready to True and removes Reconciling and Stalled.
func (e *Engine) MarkReady(to Setter, gen int64, reason ConditionReason, message ConditionMessage, messageArgs ...interface{}) {
	e.MarkTrue(to, ReadyConditionType, gen, reason, message, messageArgs...)
	Delete(to, ReconcilingConditionType)
	Delete(to, StalledConditionType)
}

// MarkNotReady sets Ready to False and keeps Reconciling and Stalled as they are.
func (e *Engine) MarkNotReady(to Setter, gen int64, reason ConditionReason, message ConditionMessage, messageArgs ...interface{}) {
	e.MarkFalse(to, ReadyConditionType, gen, reason, message, messageArgs...)
}

// MarkReconciling sets Reconciling to True and Ready to False.
// Stalled is cleared since the controller is making progress.
func (e *Engine) MarkReconciling(to Setter, gen int64, reason ConditionReason, message ConditionMessage, messageArgs ...interface{}) {
	e.MarkTrue(to, ReconcilingConditionType, gen, reason, message, messageArgs...)
	e.MarkFalse(to, ReadyConditionType, gen, reason, message, messageArgs...)
	Delete(to, StalledConditionType)
}

// MarkStalled sets Stalled to True and Ready to False, and clears Reconciling.
func (e *Engine) MarkStalled(to Setter, gen int64, reason ConditionReason, message ConditionMessage, messageArgs ...interface{}) {
	e.MarkTrue(to, StalledConditionType, gen, reason, message, messageArgs...)
	e.MarkFalse(to, ReadyConditionType, gen, reason, message, messageArgs...)
	Delete(to, ReconcilingConditionType)
}

func MarkReady(to Setter, gen int64, reason ConditionReason, message ConditionMessage, messageArgs ...interface{}) {
	defaultEngine.MarkReady(to, gen, reason, message, messageArgs...)
}

func MarkNotReady(to Setter, gen int64, reason ConditionReason, message ConditionMessage, messageArgs ...interface{}) {
	defaultEngine.MarkNotReady(to, gen, reason, message, messageArgs...)
}

func MarkReconciling(to Setter, gen int64, reason ConditionReason, message ConditionMessage, messageArgs ...interface{}) {
	defaultEngine.MarkReconciling(to, gen, reason, message, messageArgs...)
}

func MarkStalled(to Setter, gen int64, reason ConditionReason, message ConditionMessage, messageArgs ...interface{}) {
	defaultEngine.MarkStalled(to, gen, reason, message, messageArgs...)
}

// IsReady returns true if the Ready condition is True.
func IsReady(from Getter) bool {
	return IsTrue(from, ReadyConditionType)
}

// IsReconciling returns true if the Reconciling condition is True.
func IsReconciling(from Getter) bool {
	return IsTrue(from, ReconcilingConditionType)
}

// IsStalled returns true if the Stalled condition is True.
func IsStalled(from Getter) bool {
	return IsTrue(from, StalledConditionType)
}

// ReadyStatus returns the status of the Ready condition. A missing or
// malformed condition reads as StatusUnknown.
func ReadyStatus(from Getter) Status {
	c := Get(from, ReadyConditionType)
	if c == nil {
		return StatusUnknown
	}
	s, err := ParseStatus(c.Status)
	if err != nil {
		return StatusUnknown
	}
	return s
}
