// Package certrotator provisions and rotates the serving certificate of the
// Observation admission webhook.
package certrotator

import (
	"errors"

	"github.com/open-policy-agent/cert-controller/pkg/rotator"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/manager"
)

// +kubebuilder:rbac:groups=admissionregistration.k8s.io,resources=validatingwebhookconfigurations,verbs=get;list;watch;update;patch
// +kubebuilder:rbac:groups="",resources=secrets,verbs=get;list;watch;update;patch

const (
	caName         = "kube-observe-ca"
	caOrganization = "t-caas"
)

var (
	// ErrMissingNamespace is returned when the rotator has no namespace for its secret.
	ErrMissingNamespace = errors.New("namespace is undefined, can't enable cert rotator")
	// ErrMissingCertDir is returned when no certificate directory is configured.
	ErrMissingCertDir = errors.New("certs-dir is undefined, can't enable cert rotator")
	// ErrMissingSecretName is returned when no certificate secret name is configured.
	ErrMissingSecretName = errors.New("cert-rotation-secret-name is undefined, can't enable cert rotator")
	// ErrNilManager is returned when no manager is passed in.
	ErrNilManager = errors.New("manager is nil, can't enable cert rotator")
)

// Options configures the certificate rotator.
type Options struct {
	// Namespace and SecretName locate the secret holding the CA and serving pair.
	Namespace  string
	SecretName string
	// CertDir is where the webhook server reads tls.crt and tls.key from.
	CertDir string
	// DNSName is the service DNS name the certificate is issued for.
	DNSName string
	// ValidatingWebhooks are the ValidatingWebhookConfigurations whose
	// caBundle is kept in sync.
	ValidatingWebhooks []string
}

// Validate reports the first missing required option.
func (o Options) Validate() error {
	switch {
	case o.Namespace == "":
		return ErrMissingNamespace
	case o.CertDir == "":
		return ErrMissingCertDir
	case o.SecretName == "":
		return ErrMissingSecretName
	}
	return nil
}

// Webhooks returns the rotator entries for the configured webhooks.
func (o Options) Webhooks() []rotator.WebhookInfo {
	webhooks := make([]rotator.WebhookInfo, 0, len(o.ValidatingWebhooks))
	for _, name := range o.ValidatingWebhooks {
		webhooks = append(webhooks, rotator.WebhookInfo{Type: rotator.Validating, Name: name})
	}
	return webhooks
}

// Enable adds the cert rotator to mgr. ready is closed once certificates
// are in place and the webhook server may start serving.
func Enable(mgr manager.Manager, opts Options, ready chan struct{}) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if mgr == nil {
		return ErrNilManager
	}

	return rotator.AddRotator(mgr, &rotator.CertRotator{
		SecretKey:              types.NamespacedName{Namespace: opts.Namespace, Name: opts.SecretName},
		RequireLeaderElection:  true,
		RestartOnSecretRefresh: true,
		CertDir:                opts.CertDir,
		CAName:                 caName,
		CAOrganization:         caOrganization,
		DNSName:                opts.DNSName,
		IsReady:                ready,
		Webhooks:               opts.Webhooks(),
	})
}
