package command

import (
	"fmt"
	"os"

	"github.com/DataDog/datadog-agent/pkg/util/fxutil"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/giberode/gib/api"
)

var logLevel string

// Run executes a given function with dependencies supplied by the gib DI graph
// `f` must return an error or nothing
// `opts` can be used to supply additional arguments that are not provided by the graph
func Run(f interface{}, opts ...fx.Option) error {
	deps := append(opts, api.Dependencies()...)
	return fxutil.OneShot(f, deps...)
}

var rootCmd = &cobra.Command{
	Use:          "gib",
	Short:        "Command line client for the GiB member network",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := validateFormat(); err != nil {
			return err
		}
		// Overwrite zap's log level
		return os.Setenv("LOG_LEVEL", logLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "v", "error", "Log Level")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", formatTable, "Output format (table, json or yaml)")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
