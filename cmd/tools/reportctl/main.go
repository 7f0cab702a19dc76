// cmd/tools/reportctl/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"solar-reports/internal/common/config"
	"solar-reports/internal/common/logger"
)

// rootOptions are shared by every subcommand.
type rootOptions struct {
	configPath string
	logLevel   string
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	if o.configPath != "" {
		return config.LoadFromFile(o.configPath)
	}
	return config.Load()
}

// newLogger writes to stderr so generated PDFs can go to stdout.
func (o *rootOptions) newLogger() logger.Logger {
	return logger.NewStructured(o.logLevel, "console", "stderr")
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "reportctl",
		Short: "Generate solar reports and maintain the plant database",
		Long: `reportctl drives the same report pipeline and validated store as the
report server, without going through HTTP.

Available subcommands:
  generate     - Render a report PDF for a date selector
  update-price - Append a dated price to a plant`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a config YAML (default: configs/config.yaml lookup)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	root.AddCommand(newGenerateCmd(opts))
	root.AddCommand(newUpdatePriceCmd(opts))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
