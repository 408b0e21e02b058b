// SPDX-FileCopyrightText: 2026 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package conditions

import (
	"time"

	"github.com/go-logr/logr"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/clock"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// Observer is notified after a condition genuinely transitioned, i.e. after
// one of status, reason, message or observed generation changed.
type Observer interface {
	ConditionChanged(obj client.Object, previous, current metav1.Condition)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(obj client.Object, previous, current metav1.Condition)

// ConditionChanged calls f.
func (f ObserverFunc) ConditionChanged(obj client.Object, previous, current metav1.Condition) {
	f(obj, previous, current)
}

// Engine reads and mutates condition lists. Its configuration is fixed at
// construction, so a single Engine can be shared by concurrent reconcilers as
// long as each works on its own object.
type Engine struct {
	clock     clock.PassiveClock
	log       logr.Logger
	observers []Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used to stamp LastTransitionTime.
func WithClock(c clock.PassiveClock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithLogger sets the logger transitions are reported to at V(1).
func WithLogger(l logr.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// WithObserver registers an observer for condition transitions.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observers = append(e.observers, o)
		}
	}
}

// New creates an Engine. Without options it uses the wall clock and discards
// logs.
func New(opts ...Option) *Engine {
	e := &Engine{
		clock: clock.RealClock{},
		log:   logr.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = New()

// Default returns the Engine used by the package-level helpers.
func Default() *Engine {
	return defaultEngine
}

// now returns the current time at the second precision metav1.Time
// serializes with.
func (e *Engine) now() metav1.Time {
	return metav1.NewTime(e.clock.Now().UTC().Truncate(time.Second))
}

func (e *Engine) notify(obj client.Object, previous, current metav1.Condition) {
	e.log.V(1).Info("condition transitioned",
		"object", client.ObjectKeyFromObject(obj).String(),
		"conditionType", current.Type,
		"status", current.Status,
		"reason", current.Reason,
		"previousStatus", previous.Status)
	for _, o := range e.observers {
		o.ConditionChanged(obj, previous, current)
	}
}

// unknownCondition returns the default placeholder for a missing condition.
func unknownCondition(t ConditionType, now metav1.Time) metav1.Condition {
	return metav1.Condition{
		Type:               string(t),
		Status:             metav1.ConditionUnknown,
		Reason:             "",
		Message:            "",
		ObservedGeneration: 0,
		LastTransitionTime: now,
	}
}
