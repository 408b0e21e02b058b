/*
Copyright © 2026 Deutsche Telekom AG
*/
package cmd

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/spf13/cobra"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	"sigs.k8s.io/controller-runtime/pkg/manager"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"
	"sigs.k8s.io/controller-runtime/pkg/webhook"

	observev1alpha1 "github.com/telekom/kube-observe/api/observe/v1alpha1"
	"github.com/telekom/kube-observe/internal/system"
	"github.com/telekom/kube-observe/internal/webhook/certrotator"
)

var (
	webhookPort                    int
	webhookCertsDir                string
	enableHTTP2                    bool
	disableCertRotation            bool
	certRotationDNSName            string
	certRotationSecretName         string
	certRotationValidatingWebhooks []string
)

// errCertsPending is reported by the readiness probe until the webhooks
// are registered on the server.
var errCertsPending = errors.New("webhook server not ready: waiting for certificate setup")

// webhookCmd represents the webhook command
var webhookCmd = &cobra.Command{
	Use:   "webhook",
	Short: "Run the kube-observe webhook server",
	Long: `Run the kube-observe webhook server which validates Observation
resources during admission. It rejects unsupported target kinds, invalid
target names and condition types that cannot be mirrored.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		setupLog.Info("starting webhook server",
			"port", webhookPort,
			"certsDir", webhookCertsDir,
			"disableCertRotation", disableCertRotation,
			"namespace", namespace,
			"flags", redactCommandFlags(cmd.Flags()),
		)
		ctx, cancel := context.WithCancelCause(ctrl.SetupSignalHandler())
		defer cancel(nil)

		mgr, err := newWebhookManager()
		if err != nil {
			return err
		}

		var ready atomic.Bool
		if err := mgr.AddHealthzCheck("healthz", healthz.Ping); err != nil {
			return fmt.Errorf("unable to set up health check: %w", err)
		}
		if err := mgr.AddReadyzCheck("readyz", func(*http.Request) error {
			if !ready.Load() {
				return errCertsPending
			}
			return nil
		}); err != nil {
			return fmt.Errorf("unable to set up ready check: %w", err)
		}

		certsReady := make(chan struct{})
		go func() {
			<-certsReady
			if err := configureWebhooks(mgr); err != nil {
				setupLog.Error(err, "failed to configure webhooks")
				cancel(fmt.Errorf("error configuring webhooks: %w", err))
				return
			}
			setupLog.Info("webhooks configured, server is ready")
			ready.Store(true)
		}()

		if err := setupCertRotation(mgr, certsReady); err != nil {
			return err
		}

		setupLog.Info("starting manager")
		if err := mgr.Start(ctx); err != nil {
			return fmt.Errorf("problem running manager: %w", err)
		}
		if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, context.Canceled) {
			return cause
		}
		return nil
	},
}

// webhookTLSOptions pins the server to HTTP/1.1 unless HTTP/2 is enabled.
func webhookTLSOptions(http2 bool) []func(*tls.Config) {
	if http2 {
		return nil
	}
	return []func(*tls.Config){func(c *tls.Config) {
		c.NextProtos = []string{"http/1.1"}
	}}
}

func newWebhookManager() (manager.Manager, error) {
	cfg, err := ctrl.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("unable to get kubeconfig: %w", err)
	}
	cfg.UserAgent = system.UserAgent()

	mgr, err := ctrl.NewManager(cfg, ctrl.Options{
		Scheme: scheme,
		WebhookServer: webhook.NewServer(webhook.Options{
			Port:    webhookPort,
			CertDir: webhookCertsDir,
			TLSOpts: webhookTLSOptions(enableHTTP2),
		}),
		Metrics:                metricsserver.Options{BindAddress: metricsAddr},
		HealthProbeBindAddress: probeAddr,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to start manager: %w", err)
	}
	return mgr, nil
}

// setupCertRotation closes certsReady once serving certificates exist. With
// rotation disabled the certificates in the certs dir are used as they are.
func setupCertRotation(mgr manager.Manager, certsReady chan struct{}) error {
	if disableCertRotation {
		setupLog.Info("certificate rotation disabled, using existing certificates")
		close(certsReady)
		return nil
	}
	opts := certrotator.Options{
		Namespace:          namespace,
		SecretName:         certRotationSecretName,
		CertDir:            webhookCertsDir,
		DNSName:            certRotationDNSName,
		ValidatingWebhooks: certRotationValidatingWebhooks,
	}
	setupLog.Info("enabling certificate rotation",
		"dnsName", opts.DNSName,
		"validatingWebhooks", opts.ValidatingWebhooks,
	)
	if err := certrotator.Enable(mgr, opts, certsReady); err != nil {
		return fmt.Errorf("unable to set up cert rotation: %w", err)
	}
	return nil
}

func configureWebhooks(mgr manager.Manager) error {
	if err := (&observev1alpha1.Observation{}).SetupWebhookWithManager(mgr); err != nil {
		return fmt.Errorf("unable to create webhook for Observation: %w", err)
	}
	ctrl.Log.WithName("webhook-setup").V(1).Info("registered webhook", "kind", "Observation")
	return nil
}

func init() {
	rootCmd.AddCommand(webhookCmd)

	webhookCmd.Flags().IntVar(&webhookPort, "port", 9443, "Port the webhook server listens on.")
	webhookCmd.Flags().BoolVar(&enableHTTP2, "enable-http2", false, "Serve HTTP/2 in addition to HTTP/1.1.")
	webhookCmd.Flags().StringVar(&webhookCertsDir, "certs-dir", "", "Directory holding tls.crt and tls.key.")
	webhookCmd.Flags().BoolVar(&disableCertRotation, "disable-cert-rotation", false, "Use the certificates in certs-dir instead of generating and rotating them.")
	webhookCmd.Flags().StringVar(&certRotationDNSName, "cert-rotation-dns-name", "", "DNS name of the webhook service, e.g. kube-observe-webhook.kube-observe.svc.")
	webhookCmd.Flags().StringVar(&certRotationSecretName, "cert-rotation-secret-name", "", "Secret that stores the rotated serving certificate.")
	webhookCmd.Flags().StringSliceVar(&certRotationValidatingWebhooks, "cert-rotation-validating-webhook", nil, "ValidatingWebhookConfigurations whose CA bundle is kept up to date.")
}
