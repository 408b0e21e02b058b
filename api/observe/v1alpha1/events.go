// SPDX-FileCopyrightText: 2026 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package v1alpha1

// Event reason constants for Kubernetes events emitted by the observation controller.
// These follow the convention of using PascalCase for event reasons.
// See: https://github.com/kubernetes/community/blob/master/contributors/devel/sig-instrumentation/events.md
const (
	// EventReasonBecameReady is emitted when Ready flips to True.
	EventReasonBecameReady = "BecameReady"

	// EventReasonBecameNotReady is emitted when Ready leaves True.
	EventReasonBecameNotReady = "BecameNotReady"

	// EventReasonTargetNotFound is emitted when the target disappears.
	EventReasonTargetNotFound = "TargetNotFound"
)
