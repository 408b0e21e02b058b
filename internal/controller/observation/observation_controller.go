// SPDX-FileCopyrightText: 2026 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package observation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/equality"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/builder"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller"
	"sigs.k8s.io/controller-runtime/pkg/handler"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/predicate"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"

	observev1alpha1 "github.com/telekom/kube-observe/api/observe/v1alpha1"
	"github.com/telekom/kube-observe/pkg/conditions"
	"github.com/telekom/kube-observe/pkg/indexer"
	"github.com/telekom/kube-observe/pkg/metrics"
	"github.com/telekom/kube-observe/pkg/tracing"
)

const (
	// DefaultResyncInterval is how often an Observation is re-read when no
	// watch event arrives for it.
	DefaultResyncInterval = 5 * time.Minute

	// missingTargetLogInterval bounds how often a missing target is logged
	// at info level. Other occurrences go to V(1).
	missingTargetLogInterval = time.Minute

	// managedGaugeInterval bounds how often reconciles recount Observations
	// for the ObservationsManaged gauge.
	managedGaugeInterval = 30 * time.Second
)

// errInvalidTarget is returned by fetchTarget for unsupported target kinds.
var errInvalidTarget = errors.New("unsupported target kind")

// +kubebuilder:rbac:groups=observe.t-caas.telekom.com,resources=observations,verbs=get;list;watch
// +kubebuilder:rbac:groups=observe.t-caas.telekom.com,resources=observations/status,verbs=get;update;patch
// +kubebuilder:rbac:groups="",resources=pods;nodes,verbs=get;list;watch
// +kubebuilder:rbac:groups="",resources=events,verbs=create;patch

// ObservationReconciler reconciles an Observation object. It copies the
// selected conditions of the target Pod or Node into the Observation status
// and summarizes them in the kstatus Ready condition.
type ObservationReconciler struct {
	client         client.Client
	recorder       record.EventRecorder
	engine         *conditions.Engine
	tracer         trace.Tracer
	resyncInterval time.Duration
	missingTarget  rate.Sometimes
	managedGauge   rate.Sometimes
}

// NewObservationReconciler creates a new Observation reconciler.
func NewObservationReconciler(
	c client.Client,
	recorder record.EventRecorder,
	opts ...ReconcilerOption,
) *ObservationReconciler {
	r := &ObservationReconciler{
		client:         c,
		recorder:       recorder,
		engine:         conditions.Default(),
		resyncInterval: DefaultResyncInterval,
		missingTarget:  rate.Sometimes{Interval: missingTargetLogInterval},
		managedGauge:   rate.Sometimes{Interval: managedGaugeInterval},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetupWithManager sets up the controller with the Manager. Pod and Node
// events are mapped back to the Observations targeting them through the
// ObservationTargetField index.
func (r *ObservationReconciler) SetupWithManager(mgr ctrl.Manager, concurrency int) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&observev1alpha1.Observation{}, builder.WithPredicates(predicate.GenerationChangedPredicate{})).
		Watches(&corev1.Pod{}, handler.EnqueueRequestsFromMapFunc(r.mapTarget(observev1alpha1.TargetKindPod))).
		Watches(&corev1.Node{}, handler.EnqueueRequestsFromMapFunc(r.mapTarget(observev1alpha1.TargetKindNode))).
		WithOptions(controller.Options{MaxConcurrentReconciles: concurrency}).
		Named("observation").
		Complete(r)
}

// Reconcile handles the reconciliation loop for Observation resources.
//
// The reconciliation flow:
//  1. Fetch the Observation (return early if not found)
//  2. Fetch the target Pod or Node (mark Stalled if it is missing, or
//     Reconciling if an unobserved generation cannot be read yet)
//  3. Mirror each selected target condition as a Target-prefixed condition
//  4. Mark Ready when every mirrored condition is True, NotReady otherwise
//  5. Patch the status if anything changed and emit an event when Ready flips
//
// Each reconcile sets the kstatus conditions once, so observers only see the
// transitions that are written.
func (r *ObservationReconciler) Reconcile(ctx context.Context, req ctrl.Request) (result ctrl.Result, retErr error) {
	startTime := time.Now()
	logger := log.FromContext(ctx)

	ctx, span := tracing.StartReconcile(ctx, r.tracer, metrics.ControllerObservation, req.NamespacedName)
	defer span.End()

	logger.V(1).Info("=== Reconcile START ===",
		"observation", req.NamespacedName)

	defer func() {
		duration := time.Since(startTime)
		metrics.ReconcileDuration.WithLabelValues(metrics.ControllerObservation).Observe(duration.Seconds())
		tracing.RecordError(span, retErr)
		logger.V(1).Info("=== Reconcile END ===",
			"observation", req.NamespacedName,
			"duration", duration.String())
	}()

	r.managedGauge.Do(func() {
		if err := r.refreshManagedGauge(ctx); err != nil {
			logger.V(1).Info("failed to refresh managed observations gauge", "error", err.Error())
		}
	})

	// Step 1: Fetch the Observation
	obs := &observev1alpha1.Observation{}
	if err := r.client.Get(ctx, req.NamespacedName, obs); err != nil {
		if apierrors.IsNotFound(err) {
			logger.V(1).Info("Observation not found (deleted), skipping reconcile",
				"observation", req.NamespacedName)
			r.finish(span, metrics.ResultSkipped)
			return ctrl.Result{}, nil
		}
		logger.Error(err, "failed to fetch Observation",
			"observation", req.NamespacedName)
		r.fail(metrics.ErrorTypeAPI)
		return ctrl.Result{}, fmt.Errorf("fetch Observation %s: %w", req.NamespacedName, err)
	}
	orig := obs.DeepCopy()
	target := obs.Spec.Target
	span.SetAttributes(
		tracing.AttrTargetKind.String(string(target.Kind)),
		tracing.AttrTargetName.String(target.Name),
	)

	// Step 2: Fetch the target
	getter, err := r.fetchTarget(ctx, obs)
	switch {
	case errors.Is(err, errInvalidTarget):
		r.engine.MarkStalled(obs, obs.Generation,
			observev1alpha1.StalledReasonInvalidTarget, observev1alpha1.StalledMessageInvalidTarget, target.Kind)
		obs.Status.ObservedGeneration = obs.Generation
		if err := r.patchStatus(ctx, orig, obs); err != nil {
			return ctrl.Result{}, err
		}
		// A permanent user error. GenerationChangedPredicate re-reconciles
		// once .spec.target is fixed.
		logger.Info("Observation has an unsupported target kind",
			"observation", req.NamespacedName, "kind", target.Kind)
		r.finish(span, metrics.ResultSkipped)
		return ctrl.Result{}, nil
	case apierrors.IsNotFound(err):
		key := targetRef(obs)
		r.missingTarget.Do(func() {
			logger.Info("target of Observation not found",
				"observation", req.NamespacedName, "kind", target.Kind, "target", key)
		})
		logger.V(1).Info("target not found, marking Observation as stalled",
			"observation", req.NamespacedName, "kind", target.Kind, "target", key)
		wasStalled := conditions.HasReason(orig, observev1alpha1.StalledCondition, observev1alpha1.StalledReasonTargetNotFound)
		r.engine.MarkStalled(obs, obs.Generation,
			observev1alpha1.StalledReasonTargetNotFound, observev1alpha1.StalledMessageTargetNotFound,
			target.Kind, key)
		obs.Status.ObservedGeneration = obs.Generation
		if err := r.patchStatus(ctx, orig, obs); err != nil {
			return ctrl.Result{}, err
		}
		if !wasStalled {
			r.recorder.Eventf(obs, corev1.EventTypeWarning, observev1alpha1.EventReasonTargetNotFound,
				"%s %s not found", target.Kind, key)
		}
		r.finish(span, metrics.ResultRequeue)
		return ctrl.Result{RequeueAfter: r.resyncInterval}, nil
	case err != nil:
		logger.Error(err, "failed to fetch target",
			"observation", req.NamespacedName, "kind", target.Kind, "target", target.Name)
		if obs.Status.ObservedGeneration != obs.Generation {
			r.engine.MarkReconciling(obs, obs.Generation,
				observev1alpha1.ReconcilingReasonProgressing, observev1alpha1.ReconcilingMessageProgressing,
				target.Kind, targetRef(obs))
			if patchErr := r.patchStatus(ctx, orig, obs); patchErr != nil {
				logger.V(1).Info("failed to record Reconciling", "error", patchErr.Error())
			}
		}
		r.fail(metrics.ErrorTypeAPI)
		return ctrl.Result{}, fmt.Errorf("fetch %s %s: %w", target.Kind, target.Name, err)
	}

	// The target exists, so a Stalled or Reconciling left by an earlier
	// reconcile no longer applies.
	conditions.Delete(obs, observev1alpha1.StalledCondition)
	conditions.Delete(obs, observev1alpha1.ReconcilingCondition)

	// Step 3: Mirror the selected conditions
	notTrue := r.mirror(obs, getter)

	// Step 4: Summarize in Ready
	if len(notTrue) == 0 {
		r.engine.MarkReady(obs, obs.Generation,
			observev1alpha1.ReadyReasonAllTrue, observev1alpha1.ReadyMessageAllTrue,
			len(obs.MirroredTypes()), target.Kind, targetRef(obs))
	} else {
		r.engine.MarkNotReady(obs, obs.Generation,
			observev1alpha1.ReadyReasonNotAllTrue, observev1alpha1.ReadyMessageNotAllTrue,
			target.Kind, targetRef(obs), strings.Join(notTrue, ", "))
	}
	obs.Status.ObservedGeneration = obs.Generation

	// Step 5: Patch the status and report Ready flips
	if err := r.patchStatus(ctx, orig, obs); err != nil {
		return ctrl.Result{}, err
	}
	r.emitReadyEvent(orig, obs)

	r.finish(span, metrics.ResultSuccess)
	logger.V(1).Info("Observation reconciled successfully",
		"observation", req.NamespacedName,
		"generation", obs.Generation,
		"ready", conditions.IsReady(obs))

	return ctrl.Result{RequeueAfter: r.resyncInterval}, nil
}

// fetchTarget reads the target of obs and returns its conditions.
func (r *ObservationReconciler) fetchTarget(ctx context.Context, obs *observev1alpha1.Observation) (conditions.Getter, error) {
	key := types.NamespacedName{Namespace: obs.TargetNamespace(), Name: obs.Spec.Target.Name}
	switch obs.Spec.Target.Kind {
	case observev1alpha1.TargetKindPod:
		pod := &corev1.Pod{}
		if err := r.client.Get(ctx, key, pod); err != nil {
			return nil, err
		}
		return conditions.ForPod(pod), nil
	case observev1alpha1.TargetKindNode:
		node := &corev1.Node{}
		if err := r.client.Get(ctx, key, node); err != nil {
			return nil, err
		}
		return conditions.ForNode(node), nil
	default:
		return nil, fmt.Errorf("%w %q", errInvalidTarget, obs.Spec.Target.Kind)
	}
}

// targetRef names the target as namespace/name for Pods and name for Nodes.
func targetRef(obs *observev1alpha1.Observation) string {
	if ns := obs.TargetNamespace(); ns != "" {
		return ns + "/" + obs.Spec.Target.Name
	}
	return obs.Spec.Target.Name
}

// mirror copies the selected conditions of the target onto obs, removes
// Target-prefixed conditions that are no longer selected and returns the
// selected types that are not True.
func (r *ObservationReconciler) mirror(obs *observev1alpha1.Observation, target conditions.Getter) []string {
	selected := obs.MirroredTypes()
	wanted := make(map[conditions.ConditionType]struct{}, len(selected))
	var notTrue []string

	for _, t := range selected {
		mirrored := observev1alpha1.MirroredConditionType(t)
		wanted[mirrored] = struct{}{}

		src := r.engine.Condition(target, t)
		reported := conditions.Has(target, t)
		status, parseErr := conditions.ParseStatus(src.Status)

		r.engine.Mut(obs, mirrored).Apply(func(c *metav1.Condition) {
			c.ObservedGeneration = obs.Generation
			switch {
			case !reported:
				c.Status = metav1.ConditionUnknown
				c.Reason = string(observev1alpha1.MirroredReasonNotReported)
				c.Message = fmt.Sprintf(string(observev1alpha1.MirroredMessageNotReported), t)
			case parseErr != nil:
				c.Status = metav1.ConditionUnknown
				c.Reason = string(observev1alpha1.MirroredReasonUnrecognizedStatus)
				c.Message = fmt.Sprintf(string(observev1alpha1.MirroredMessageUnrecognizedStatus), src.Status)
			default:
				c.Status = status.ConditionStatus()
				c.Reason = src.Reason
				c.Message = src.Message
			}
		})

		if !r.engine.Mut(obs, mirrored).IsTrue() {
			notTrue = append(notTrue, string(t))
		}
	}

	for _, c := range obs.GetConditions() {
		t := conditions.ConditionType(c.Type)
		if !strings.HasPrefix(c.Type, observev1alpha1.MirroredConditionPrefix) {
			continue
		}
		if _, ok := wanted[t]; !ok {
			conditions.Delete(obs, t)
		}
	}

	return notTrue
}

// patchStatus writes the status of obs when it differs from orig.
func (r *ObservationReconciler) patchStatus(ctx context.Context, orig, obs *observev1alpha1.Observation) error {
	logger := log.FromContext(ctx)

	if equality.Semantic.DeepEqual(orig.Status, obs.Status) {
		logger.V(2).Info("status unchanged, skipping patch", "observation", client.ObjectKeyFromObject(obs))
		return nil
	}
	logger.V(2).Info("patching Observation status",
		"observation", client.ObjectKeyFromObject(obs),
		"diff", cmp.Diff(orig.Status, obs.Status))

	if err := r.client.Status().Patch(ctx, obs, client.MergeFrom(orig)); err != nil {
		errorType := metrics.ErrorTypeAPI
		if apierrors.IsConflict(err) {
			errorType = metrics.ErrorTypeConflict
		}
		logger.Error(err, "failed to patch Observation status",
			"observation", client.ObjectKeyFromObject(obs))
		r.fail(errorType)
		return fmt.Errorf("patch Observation %s status: %w", client.ObjectKeyFromObject(obs), err)
	}
	return nil
}

// emitReadyEvent emits an event when Ready moved into or out of True.
func (r *ObservationReconciler) emitReadyEvent(orig, obs *observev1alpha1.Observation) {
	wasReady, isReady := conditions.IsReady(orig), conditions.IsReady(obs)
	switch {
	case !wasReady && isReady:
		r.recorder.Event(obs, corev1.EventTypeNormal, observev1alpha1.EventReasonBecameReady,
			conditions.GetMessage(obs, observev1alpha1.ReadyCondition))
	case wasReady && !isReady:
		r.recorder.Event(obs, corev1.EventTypeWarning, observev1alpha1.EventReasonBecameNotReady,
			conditions.GetMessage(obs, observev1alpha1.ReadyCondition))
	}
}

// mapTarget returns a map function that enqueues every Observation whose
// target is the given object.
func (r *ObservationReconciler) mapTarget(kind observev1alpha1.TargetKind) handler.MapFunc {
	return func(ctx context.Context, obj client.Object) []reconcile.Request {
		list := &observev1alpha1.ObservationList{}
		key := indexer.TargetKey(kind, obj.GetNamespace(), obj.GetName())
		if err := r.client.List(ctx, list, client.MatchingFields{indexer.ObservationTargetField: key}); err != nil {
			log.FromContext(ctx).Error(err, "failed to list Observations for target", "target", key)
			return nil
		}

		requests := make([]reconcile.Request, 0, len(list.Items))
		for i := range list.Items {
			requests = append(requests, reconcile.Request{
				NamespacedName: client.ObjectKeyFromObject(&list.Items[i]),
			})
		}
		return requests
	}
}

// refreshManagedGauge counts Observations per target kind.
func (r *ObservationReconciler) refreshManagedGauge(ctx context.Context) error {
	kinds := []observev1alpha1.TargetKind{observev1alpha1.TargetKindPod, observev1alpha1.TargetKindNode}
	counts := make([]int, len(kinds))

	g, ctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		g.Go(func() error {
			list := &observev1alpha1.ObservationList{}
			if err := r.client.List(ctx, list, client.MatchingFields{indexer.ObservationTargetKindField: string(kind)}); err != nil {
				return fmt.Errorf("list %s Observations: %w", kind, err)
			}
			counts[i] = len(list.Items)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, kind := range kinds {
		metrics.ObservationsManaged.WithLabelValues(string(kind)).Set(float64(counts[i]))
	}
	return nil
}

func (r *ObservationReconciler) finish(span trace.Span, result string) {
	metrics.ReconcileTotal.WithLabelValues(metrics.ControllerObservation, result).Inc()
	span.SetAttributes(tracing.AttrResult.String(result))
}

func (r *ObservationReconciler) fail(errorType string) {
	metrics.ReconcileTotal.WithLabelValues(metrics.ControllerObservation, metrics.ResultError).Inc()
	metrics.ReconcileErrors.WithLabelValues(metrics.ControllerObservation, errorType).Inc()
}
