// SPDX-FileCopyrightText: 2026 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package observation

import (
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/telekom/kube-observe/pkg/conditions"
)

// ReconcilerOption is a functional option for configuring the ObservationReconciler.
type ReconcilerOption func(*ObservationReconciler)

// WithTracer sets the OpenTelemetry tracer used for reconcile spans.
func WithTracer(t trace.Tracer) ReconcilerOption {
	return func(r *ObservationReconciler) {
		r.tracer = t
	}
}

// WithEngine sets the conditions engine. A nil engine keeps the default.
func WithEngine(e *conditions.Engine) ReconcilerOption {
	return func(r *ObservationReconciler) {
		if e != nil {
			r.engine = e
		}
	}
}

// WithResyncInterval sets how often Observations are requeued. Zero disables
// periodic requeues; watch events still trigger reconciles.
func WithResyncInterval(d time.Duration) ReconcilerOption {
	return func(r *ObservationReconciler) {
		if d >= 0 {
			r.resyncInterval = d
		}
	}
}
