// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"flag"
	"os"

	"github.com/spf13/cobra"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

// globalFlags are shared by all subcommands.
type globalFlags struct {
	configPath string
	lang       string
}

// Root returns the root command for the crontab CLI.
//
// The root command wires structured logging (zap flags such as
// --zap-log-level) into the command context and carries the flags shared by
// all subcommands.
func Root() *cobra.Command {
	globals := &globalFlags{}
	zapOpts := zap.Options{
		Development: os.Getenv("DEBUG") == "true",
	}

	cmd := &cobra.Command{
		Use:           "crontab",
		Short:         "Create CronTab resources and manage the console plugin",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger := zap.New(zap.UseFlagOptions(&zapOpts), zap.WriteTo(cmd.ErrOrStderr()))
			ctrl.SetLogger(logger)
			cmd.SetContext(log.IntoContext(cmd.Context(), logger.WithName("crontab")))
		},
	}

	goFlags := flag.NewFlagSet("zap", flag.ContinueOnError)
	zapOpts.BindFlags(goFlags)
	cmd.PersistentFlags().AddGoFlagSet(goFlags)
	cmd.PersistentFlags().StringVarP(&globals.configPath, "config", "c", "", "Path to configuration file (default: environment only)")
	cmd.PersistentFlags().StringVar(&globals.lang, "lang", "", "Message language, e.g. en or es (default: $CRONTAB_LANG or $LANG)")

	cmd.AddCommand(Create(globals))
	cmd.AddCommand(Template())
	cmd.AddCommand(TestEnv(globals))
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
