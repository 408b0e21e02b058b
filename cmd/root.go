/*
Copyright © 2026 Deutsche Telekom AG
*/
package cmd

import (
	"flag"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	_ "k8s.io/client-go/plugin/pkg/client/auth"
	"k8s.io/klog/v2"
	ctrl "sigs.k8s.io/controller-runtime"

	observev1alpha1 "github.com/telekom/kube-observe/api/observe/v1alpha1"
	"github.com/telekom/kube-observe/internal/system"
)

var (
	setupLog    logr.Logger
	scheme      *runtime.Scheme
	verbosity   int
	probeAddr   string
	metricsAddr string
	namespace   string
)

// sensitivePattern matches flag names whose values must not be logged.
var sensitivePattern = regexp.MustCompile(`(?i)(token|secret|password|passphrase|key|auth|credential|private|cert|bearer|client[-_]?id)`)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kube-observe",
	Short: "Mirror Pod and Node conditions into Observation resources",
	Long: `kube-observe runs the Observation controller and its admission webhook.

An Observation names a Pod or Node and a list of condition types. The
controller copies those conditions into the Observation status and reports
a kstatus Ready condition that is True when all of them are True.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := flag.Set("v", strconv.Itoa(verbosity)); err != nil {
			return fmt.Errorf("unable to set log verbosity: %w", err)
		}
		ctrl.SetLogger(klog.NewKlogr())
		log := klog.NewKlogr()
		log.Info("app info", "name", system.Name, "version", system.Version, "commit", system.Commit)
		log.V(1).Info(system.PrettyInfo())
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	setupLog = ctrl.Log.WithName("setup")
	klog.InitFlags(nil)
	cobra.OnInitialize(initScheme)

	rootCmd.PersistentFlags().StringVar(&namespace, "namespace", os.Getenv("POD_NAMESPACE"), "operator namespace")
	rootCmd.PersistentFlags().IntVarP(&verbosity, "verbosity", "v", 2, "Log level (0-9)")
	rootCmd.PersistentFlags().StringVar(&probeAddr, "health-probe-bind-address", ":8081", "The address the probe endpoint binds to.")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-bind-address", ":8080",
		"The address the metrics endpoint binds to. Use \"0\" to disable serving metrics.")
}

func initScheme() {
	scheme = runtime.NewScheme()
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))

	utilruntime.Must(observev1alpha1.AddToScheme(scheme))
	utilruntime.Must(apiextensionsv1.AddToScheme(scheme))
}

// redactSensitiveFlags returns the values of all flags registered on the
// global flag set, with sensitive values replaced.
func redactSensitiveFlags() map[string]string {
	result := map[string]string{}
	flag.VisitAll(func(f *flag.Flag) {
		result[f.Name] = redact(f.Name, f.Value.String())
	})
	return result
}

// redactCommandFlags does the same for the flags of a cobra command.
func redactCommandFlags(fs *pflag.FlagSet) map[string]string {
	result := map[string]string{}
	fs.VisitAll(func(f *pflag.Flag) {
		result[f.Name] = redact(f.Name, f.Value.String())
	})
	return result
}

func redact(name, value string) string {
	if value != "" && sensitivePattern.MatchString(name) {
		return "[REDACTED]"
	}
	return value
}
