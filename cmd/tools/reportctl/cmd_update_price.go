package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	apperrors "solar-reports/internal/common/errors"
	"solar-reports/internal/store"
	upp "solar-reports/internal/workers/store/update-plant-price"
)

func newUpdatePriceCmd(opts *rootOptions) *cobra.Command {
	var plant, price, date string

	cmd := &cobra.Command{
		Use:   "update-price",
		Short: "Append a dated price to a plant",
		Long: `Append {price, date} to the plant's price history. The database is
written only if the result still validates against its schema.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			log := opts.newLogger()
			defer log.Sync()

			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			storeCfg := cfg.Store.Resolve(wd)

			handler := upp.NewHandler(
				upp.LoadConfig(storeCfg.DatabasePath, storeCfg.DatabaseSchema),
				store.NewValidatedStore("plants", log),
				apperrors.NewErrorHandler(log),
				log,
			)

			output, err := handler.Execute(cmd.Context(), &upp.Input{Plant: plant, Price: price, Date: date})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", output.Plant)
			return nil
		},
	}

	cmd.Flags().StringVar(&plant, "plant", "", "Plant name")
	cmd.Flags().StringVar(&price, "price", "", "Price value")
	cmd.Flags().StringVar(&date, "date", "", "Price date (YYYY-MM-DD)")
	return cmd
}
