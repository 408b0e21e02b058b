/*
Copyright © 2026 Deutsche Telekom AG
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/runtime/schema"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/config"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"

	observev1alpha1 "github.com/telekom/kube-observe/api/observe/v1alpha1"
	observationcontroller "github.com/telekom/kube-observe/internal/controller/observation"
	"github.com/telekom/kube-observe/internal/system"
	"github.com/telekom/kube-observe/pkg/conditions"
	"github.com/telekom/kube-observe/pkg/discovery"
	"github.com/telekom/kube-observe/pkg/indexer"
	"github.com/telekom/kube-observe/pkg/metrics"
	"github.com/telekom/kube-observe/pkg/tracing"
)

var (
	enableLeaderElection    bool
	observationConcurrency  int
	resyncInterval          time.Duration
	cacheSyncTimeout        time.Duration
	gracefulShutdownTimeout time.Duration
	waitForCRDs             bool
	tracingConfig           tracing.Config
)

// errNegativeConcurrency is returned for worker counts below zero.
var errNegativeConcurrency = errors.New("concurrency must not be negative")

// controllerCmd represents the controller command
var controllerCmd = &cobra.Command{
	Use:   "controller",
	Short: "Run the Observation controller",
	Long: `Run the controller that mirrors the conditions of Pods and Nodes into
Observation resources and maintains their Ready, Reconciling and Stalled
conditions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateConcurrency(observationConcurrency); err != nil {
			return err
		}
		if err := tracingConfig.Validate(); err != nil {
			return fmt.Errorf("invalid tracing configuration: %w", err)
		}

		setupLog.Info("starting controller")
		setupLog.Info("controller configuration",
			"enableLeaderElection", enableLeaderElection,
			"observationConcurrency", observationConcurrency,
			"resyncInterval", resyncInterval,
			"cacheSyncTimeout", cacheSyncTimeout,
			"gracefulShutdownTimeout", gracefulShutdownTimeout,
			"waitForCRDs", waitForCRDs,
			"tracingEnabled", tracingConfig.Enabled,
			"namespace", namespace,
			"flags", redactCommandFlags(cmd.Flags()),
			"klogFlags", redactSensitiveFlags(),
		)

		ctx := ctrl.SetupSignalHandler()

		provider, err := tracing.Setup(ctx, tracingConfig, system.Version)
		if err != nil {
			return fmt.Errorf("unable to set up tracing: %w", err)
		}
		defer func() {
			if err := provider.Shutdown(context.Background()); err != nil {
				setupLog.Error(err, "failed to shut down tracer provider")
			}
		}()

		cfg, err := ctrl.GetConfig()
		if err != nil {
			return fmt.Errorf("unable to get kubeconfig: %w", err)
		}
		cfg.UserAgent = system.UserAgent()

		if waitForCRDs {
			crdClient, err := client.New(cfg, client.Options{Scheme: scheme})
			if err != nil {
				return fmt.Errorf("unable to create client for CRD discovery: %w", err)
			}
			if err := discovery.NewCRDWaiter(crdClient, setupLog).WaitForCRDs(ctx,
				[]schema.GroupVersionKind{observev1alpha1.GroupVersion.WithKind("Observation")},
				cacheSyncTimeout,
			); err != nil {
				return fmt.Errorf("required CRDs are not established: %w", err)
			}
		}

		mgr, err := ctrl.NewManager(cfg, ctrl.Options{
			Scheme:                  scheme,
			Metrics:                 metricsserver.Options{BindAddress: metricsAddr},
			LeaderElection:          enableLeaderElection,
			LeaderElectionID:        "observe.t-caas.telekom.com",
			HealthProbeBindAddress:  probeAddr,
			GracefulShutdownTimeout: &gracefulShutdownTimeout,
			Controller:              config.Controller{CacheSyncTimeout: cacheSyncTimeout},
		})
		if err != nil {
			return fmt.Errorf("unable to start manager: %w", err)
		}

		if err := indexer.SetupIndexes(ctx, mgr); err != nil {
			return fmt.Errorf("unable to setup field indexes: %w", err)
		}

		if observationConcurrency > 0 {
			engine := conditions.New(
				conditions.WithLogger(ctrl.Log.WithName("conditions")),
				conditions.WithObserver(metrics.NewTransitionRecorder(mgr.GetScheme())),
			)
			reconciler := observationcontroller.NewObservationReconciler(
				mgr.GetClient(),
				mgr.GetEventRecorderFor("observation-controller"),
				observationcontroller.WithEngine(engine),
				observationcontroller.WithTracer(provider.Tracer()),
				observationcontroller.WithResyncInterval(resyncInterval),
			)
			if err := reconciler.SetupWithManager(mgr, observationConcurrency); err != nil {
				return fmt.Errorf("unable to setup controller Observation with manager: %w", err)
			}
		} else {
			setupLog.Info("Observation reconciler is disabled")
		}

		if err := mgr.AddHealthzCheck("healthz", healthz.Ping); err != nil {
			return fmt.Errorf("unable to set up health check: %w", err)
		}
		if err := mgr.AddReadyzCheck("readyz", healthz.Ping); err != nil {
			return fmt.Errorf("unable to set up ready check: %w", err)
		}

		setupLog.Info("starting manager")
		if err := mgr.Start(ctx); err != nil {
			return fmt.Errorf("problem running manager: %w", err)
		}
		return nil
	},
}

// validateConcurrency rejects negative worker counts. Zero disables a reconciler.
func validateConcurrency(values ...int) error {
	for _, v := range values {
		if v < 0 {
			return fmt.Errorf("%w: got %d", errNegativeConcurrency, v)
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(controllerCmd)

	controllerCmd.Flags().BoolVar(&enableLeaderElection, "leader-elect", false, "Enable leader election for controller manager. "+"Enabling this will ensure there is only one active controller manager.")
	controllerCmd.Flags().IntVar(&observationConcurrency, "observation-concurrency", 5, "Number of concurrent workers for the Observation reconciler. Use 0 to disable the reconciler.")
	controllerCmd.Flags().DurationVar(&resyncInterval, "resync-interval", observationcontroller.DefaultResyncInterval, "Interval in which Observations are requeued even without target events. Use 0 to rely on events only.")
	controllerCmd.Flags().DurationVar(&cacheSyncTimeout, "cache-sync-timeout", 2*time.Minute, "Time to wait for informer caches and required CRDs at startup.")
	controllerCmd.Flags().DurationVar(&gracefulShutdownTimeout, "graceful-shutdown-timeout", 30*time.Second, "Time to wait for running reconciles to finish on shutdown.")
	controllerCmd.Flags().BoolVar(&waitForCRDs, "wait-for-crds", true, "Wait for the Observation CRD to be established before starting the manager.")

	controllerCmd.Flags().BoolVar(&tracingConfig.Enabled, "tracing-enabled", false, "Export OpenTelemetry traces of reconciles.")
	controllerCmd.Flags().StringVar(&tracingConfig.Endpoint, "tracing-endpoint", "", "OTLP gRPC collector endpoint, e.g. otel-collector:4317.")
	controllerCmd.Flags().Float64Var(&tracingConfig.SamplingRate, "tracing-sampling-rate", 0.1, "Ratio of reconciles to trace (0.0 to 1.0).")
	controllerCmd.Flags().BoolVar(&tracingConfig.Insecure, "tracing-insecure", false, "Disable TLS for the OTLP exporter connection.")
}
