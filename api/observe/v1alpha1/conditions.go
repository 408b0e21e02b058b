package v1alpha1

import "github.com/telekom/kube-observe/pkg/conditions"

// ObserveConditionType represents observation condition types.
type ObserveConditionType = conditions.ConditionType

// ObserveConditionReason represents observation condition reasons.
type ObserveConditionReason = conditions.ConditionReason

// ObserveConditionMessage represents observation condition messages.
type ObserveConditionMessage = conditions.ConditionMessage

// kstatus-compliant condition types.
// See: https://github.com/kubernetes-sigs/cli-utils/blob/master/pkg/kstatus/README.md
const (
	// ReadyCondition is True when every mirrored target condition is True.
	ReadyCondition ObserveConditionType = conditions.ReadyConditionType

	// ReconcilingCondition is present and True while the controller works on
	// the Observation (abnormal-true).
	ReconcilingCondition ObserveConditionType = conditions.ReconcilingConditionType

	// StalledCondition is present and True when the controller cannot make
	// progress, e.g. because the target does not exist (abnormal-true).
	StalledCondition ObserveConditionType = conditions.StalledConditionType
)

// Ready condition reasons.
const (
	// ReadyReasonAllTrue indicates every mirrored condition is True.
	ReadyReasonAllTrue ObserveConditionReason = "AllConditionsTrue"
	// ReadyReasonNotAllTrue indicates at least one mirrored condition is not True.
	ReadyReasonNotAllTrue ObserveConditionReason = "ConditionsNotTrue"
)

// Ready condition messages.
const (
	// ReadyMessageAllTrue is the message when every mirrored condition is True.
	ReadyMessageAllTrue ObserveConditionMessage = "All %d observed conditions of %s %s are True"
	// ReadyMessageNotAllTrue lists the mirrored types that are not True.
	ReadyMessageNotAllTrue ObserveConditionMessage = "Conditions not True on %s %s: %s"
)

// Reconciling condition reasons.
const (
	// ReconcilingReasonProgressing indicates the controller is making progress.
	ReconcilingReasonProgressing ObserveConditionReason = "Progressing"
)

// Reconciling condition messages.
const (
	// ReconcilingMessageProgressing is the message when the controller is progressing.
	ReconcilingMessageProgressing ObserveConditionMessage = "Reading conditions of %s %s"
)

// Stalled condition reasons.
const (
	// StalledReasonTargetNotFound indicates the target does not exist.
	StalledReasonTargetNotFound ObserveConditionReason = "TargetNotFound"
	// StalledReasonInvalidTarget indicates the target kind is not supported.
	StalledReasonInvalidTarget ObserveConditionReason = "InvalidTarget"
)

// Stalled condition messages.
const (
	// StalledMessageTargetNotFound is the message when the target does not exist.
	StalledMessageTargetNotFound ObserveConditionMessage = "%s %s not found"
	// StalledMessageInvalidTarget is the message for an unsupported target kind.
	StalledMessageInvalidTarget ObserveConditionMessage = "Unsupported target kind %q"
)

// Mirrored condition reasons.
const (
	// MirroredReasonUnrecognizedStatus replaces the target's reason when the
	// target reports a status other than True, False or Unknown.
	MirroredReasonUnrecognizedStatus ObserveConditionReason = "UnrecognizedStatus"
	// MirroredReasonNotReported is used when the target has no such condition.
	MirroredReasonNotReported ObserveConditionReason = "NotReported"
)

// Mirrored condition messages.
const (
	// MirroredMessageUnrecognizedStatus names the offending status value.
	MirroredMessageUnrecognizedStatus ObserveConditionMessage = "Target reported unrecognized status %q"
	// MirroredMessageNotReported is the message when the target has no such condition.
	MirroredMessageNotReported ObserveConditionMessage = "Target does not report condition %s"
)
