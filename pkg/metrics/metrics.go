/*
Copyright © 2026 Deutsche Telekom AG
*/

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/apiutil"
	"sigs.k8s.io/controller-runtime/pkg/metrics"

	"github.com/telekom/kube-observe/pkg/conditions"
)

const (
	// Namespace is the Prometheus metrics namespace for kube-observe
	Namespace = "kube_observe"
)

var (
	// ConditionTransitionsTotal counts genuine condition transitions, i.e.
	// changes that moved LastTransitionTime.
	ConditionTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "condition_transitions_total",
			Help:      "Total number of condition transitions per kind, condition type and new status",
		},
		[]string{"kind", "type", "status"},
	)

	// ReconcileTotal counts the total number of reconciliations per controller
	ReconcileTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "reconcile_total",
			Help:      "Total number of reconciliations per controller",
		},
		[]string{"controller", "result"},
	)

	// ReconcileDuration measures the duration of reconciliations in seconds
	ReconcileDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "reconcile_duration_seconds",
			Help:      "Duration of reconciliations per controller in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"controller"},
	)

	// ReconcileErrors counts the total number of reconciliation errors per controller
	ReconcileErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "reconcile_errors_total",
			Help:      "Total number of reconciliation errors per controller",
		},
		[]string{"controller", "error_type"},
	)

	// ObservationsManaged tracks the number of observations per target kind
	ObservationsManaged = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "observations_managed",
			Help:      "Number of Observations currently reconciled per target kind",
		},
		[]string{"target_kind"},
	)
)

func init() {
	// Register all metrics with controller-runtime's registry
	metrics.Registry.MustRegister(
		ConditionTransitionsTotal,
		ReconcileTotal,
		ReconcileDuration,
		ReconcileErrors,
		ObservationsManaged,
	)
}

// ReconcileResult constants for labeling reconcile outcomes
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultRequeue = "requeue"
	ResultSkipped = "skipped"
)

// ErrorType constants for categorizing reconciliation errors
const (
	ErrorTypeAPI      = "api"
	ErrorTypeConflict = "conflict"
	ErrorTypeNotFound = "not_found"
	ErrorTypeInternal = "internal"
)

// ControllerName constants
const (
	ControllerObservation = "Observation"
)

// KindUnknown labels transitions on objects whose kind cannot be resolved.
const KindUnknown = "unknown"

// TransitionRecorder counts condition transitions in
// ConditionTransitionsTotal. Register it with conditions.WithObserver.
type TransitionRecorder struct {
	scheme *runtime.Scheme
}

var _ conditions.Observer = &TransitionRecorder{}

// NewTransitionRecorder returns a recorder resolving object kinds with
// scheme. A nil scheme only uses the kind set on the object itself.
func NewTransitionRecorder(scheme *runtime.Scheme) *TransitionRecorder {
	return &TransitionRecorder{scheme: scheme}
}

// ConditionChanged implements conditions.Observer.
func (r *TransitionRecorder) ConditionChanged(obj client.Object, _, current metav1.Condition) {
	ConditionTransitionsTotal.WithLabelValues(r.kindOf(obj), current.Type, string(current.Status)).Inc()
}

func (r *TransitionRecorder) kindOf(obj client.Object) string {
	if kind := obj.GetObjectKind().GroupVersionKind().Kind; kind != "" {
		return kind
	}
	if r.scheme == nil {
		return KindUnknown
	}
	gvk, err := apiutil.GVKForObject(obj, r.scheme)
	if err != nil {
		return KindUnknown
	}
	return gvk.Kind
}
