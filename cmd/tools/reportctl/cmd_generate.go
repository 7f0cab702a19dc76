package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	apperrors "solar-reports/internal/common/errors"
	"solar-reports/internal/common/observability"
	"solar-reports/internal/report"
	gr "solar-reports/internal/workers/report/generate-report"
)

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	var (
		selector string
		out      string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render a report PDF",
		Long: `Run the XSLT stage and the configured renderer once.

The PDF is written to --out, to the server's download name when --out is
empty, or to stdout when --out is "-".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			log := opts.newLogger()
			defer log.Sync()

			obs := observability.NewNoop(cfg.App.Name)
			pipeline := report.Build(cfg, obs, log)
			handler := gr.NewHandler(gr.LoadConfig(), pipeline, apperrors.NewErrorHandler(log), log)

			output, err := handler.Execute(cmd.Context(), &gr.Input{Selector: selector})
			if err != nil {
				return err
			}

			if out == "-" {
				_, err := cmd.OutOrStdout().Write(output.Artifact)
				return err
			}
			if out == "" {
				out = output.Filename
			}
			if err := os.WriteFile(out, output.Artifact, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes, %s renderer)\n", out, output.Bytes, output.Renderer)
			return nil
		},
	}

	cmd.Flags().StringVar(&selector, "dt", "", "Date/time selector (empty = latest)")
	cmd.Flags().StringVarP(&out, "out", "o", "", `Output file, "-" for stdout`)
	return cmd
}
