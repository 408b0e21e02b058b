package discovery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/gobuffalo/flect"
	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/apimachinery/pkg/util/wait"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/telekom/kube-observe/pkg/conditions"
)

// DefaultBackoff is used by NewCRDWaiter. It polls for roughly 2.5 minutes.
var DefaultBackoff = wait.Backoff{
	Duration: 500 * time.Millisecond,
	Factor:   1.5,
	Jitter:   0.1,
	Steps:    30,
	Cap:      10 * time.Second,
}

// CRDWaiter provides functionality to wait for CRDs to become available and established.
type CRDWaiter struct {
	client  client.Client
	log     logr.Logger
	backoff wait.Backoff
}

// NewCRDWaiter creates a new CRDWaiter.
func NewCRDWaiter(c client.Client, log logr.Logger) *CRDWaiter {
	return &CRDWaiter{
		client:  c,
		log:     log.WithName("crd-waiter"),
		backoff: DefaultBackoff,
	}
}

// WithBackoff returns a copy of the waiter polling with backoff.
func (w *CRDWaiter) WithBackoff(backoff wait.Backoff) *CRDWaiter {
	cp := *w
	cp.backoff = backoff
	return &cp
}

// WaitForCRDs waits for all specified CRDs to be established.
// It returns an error if the context is cancelled or times out.
func (w *CRDWaiter) WaitForCRDs(ctx context.Context, gvks []schema.GroupVersionKind, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	for _, gvk := range gvks {
		crdName := CRDNameFromGVK(gvk)
		w.log.Info("waiting for CRD to be established", "crd", crdName, "gvk", gvk.String())

		if err := w.waitForCRD(ctx, crdName); err != nil {
			return fmt.Errorf("failed waiting for CRD %s: %w", crdName, err)
		}
		w.log.Info("CRD is established", "crd", crdName)
	}

	return nil
}

func (w *CRDWaiter) waitForCRD(ctx context.Context, crdName string) error {
	return wait.ExponentialBackoffWithContext(ctx, w.backoff, func(ctx context.Context) (bool, error) {
		crd := &apiextensionsv1.CustomResourceDefinition{}
		if err := w.client.Get(ctx, types.NamespacedName{Name: crdName}, crd); err != nil {
			if apierrors.IsNotFound(err) {
				w.log.V(1).Info("CRD not found, retrying...", "crd", crdName)
				return false, nil
			}
			// Transient error, retry
			w.log.V(1).Info("error fetching CRD, retrying...", "crd", crdName, "error", err.Error())
			return false, nil
		}

		if Established(crd) {
			return true, nil
		}
		established := conditions.Condition(conditions.ForCRD(crd), conditions.ConditionType(apiextensionsv1.Established))
		w.log.V(1).Info("CRD not yet established, retrying...",
			"crd", crdName, "status", established.Status, "reason", established.Reason)
		return false, nil
	})
}

// Established reports whether the CRD's Established condition is True.
func Established(crd *apiextensionsv1.CustomResourceDefinition) bool {
	return conditions.IsTrue(conditions.ForCRD(crd), conditions.ConditionType(apiextensionsv1.Established))
}

// CRDNameFromGVK returns the CRD name <plural>.<group> for a kind,
// e.g. observations.observe.t-caas.telekom.com.
func CRDNameFromGVK(gvk schema.GroupVersionKind) string {
	return fmt.Sprintf("%s.%s", strings.ToLower(flect.Pluralize(gvk.Kind)), gvk.Group)
}
