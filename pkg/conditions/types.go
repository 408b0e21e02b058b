package conditions

import (
	"errors"
	"fmt"
	"unicode/utf8"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ConditionType represents aggregated condition types.
type ConditionType string

// ConditionReason represents aggregated condition reasons.
type ConditionReason string

// ConditionMessage represents aggregated condition messages.
type ConditionMessage string

// MaxConditionMessageLength is the maximum length of a condition message.
// Longer messages are truncated with an ellipsis. Matches the metav1.Condition
// schema limit.
const MaxConditionMessageLength = 32768

// ErrUnrecognizedStatus is returned when a condition carries a status other
// than "True", "False" or "Unknown".
var ErrUnrecognizedStatus = errors.New("unrecognized condition status")

// Status is the tri-state value of a condition.
type Status int

const (
	// StatusUnknown is the zero value so a defaulted Status reads as Unknown.
	StatusUnknown Status = iota
	StatusTrue
	StatusFalse
)

// ParseStatus maps one of the three canonical wire strings to a Status.
func ParseStatus(s metav1.ConditionStatus) (Status, error) {
	switch s {
	case metav1.ConditionTrue:
		return StatusTrue, nil
	case metav1.ConditionFalse:
		return StatusFalse, nil
	case metav1.ConditionUnknown:
		return StatusUnknown, nil
	default:
		return StatusUnknown, fmt.Errorf("%w: %q", ErrUnrecognizedStatus, string(s))
	}
}

// StatusFromBool returns StatusTrue for true and StatusFalse for false.
func StatusFromBool(b bool) Status {
	if b {
		return StatusTrue
	}
	return StatusFalse
}

// ConditionStatus returns the canonical wire string of s.
func (s Status) ConditionStatus() metav1.ConditionStatus {
	switch s {
	case StatusTrue:
		return metav1.ConditionTrue
	case StatusFalse:
		return metav1.ConditionFalse
	default:
		return metav1.ConditionUnknown
	}
}

func (s Status) String() string {
	return string(s.ConditionStatus())
}

// truncateConditionMessage truncates a message to MaxConditionMessageLength
// bytes. The cut never splits a multi-byte rune.
func truncateConditionMessage(msg string) string {
	if len(msg) <= MaxConditionMessageLength {
		return msg
	}
	cut := MaxConditionMessageLength - len("...")
	for cut > 0 && !utf8.RuneStart(msg[cut]) {
		cut--
	}
	return msg[:cut] + "..."
}

// formatMessage renders message with messageArgs. Without args the message is
// taken verbatim so a literal '%' survives.
func formatMessage(message ConditionMessage, messageArgs ...interface{}) string {
	if len(messageArgs) == 0 {
		return truncateConditionMessage(string(message))
	}
	return truncateConditionMessage(fmt.Sprintf(string(message), messageArgs...))
}
