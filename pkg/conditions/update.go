// SPDX-FileCopyrightText: 2026 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package conditions

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Update applies fn to c if, and only if, doing so changes the observed
// generation, reason, status or message. On change LastTransitionTime is set
// to now, or kept if now would move it backwards. Otherwise c is left
// completely untouched, including its timestamp. It reports whether c changed.
func Update(c *metav1.Condition, now metav1.Time, fn func(*metav1.Condition)) bool {
	if c == nil || fn == nil {
		return false
	}

	candidate := *c
	fn(&candidate)
	if hasSameState(c, &candidate) {
		return false
	}

	// fn may only touch the four tracked fields; identity and time are ours.
	candidate.Type = c.Type
	candidate.LastTransitionTime = c.LastTransitionTime
	if !now.Before(&c.LastTransitionTime) {
		candidate.LastTransitionTime = now
	}
	*c = candidate
	return true
}

func hasSameState(i, j *metav1.Condition) bool {
	return i.ObservedGeneration == j.ObservedGeneration &&
		i.Reason == j.Reason &&
		i.Status == j.Status &&
		i.Message == j.Message
}
