package main

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"salespulse/pkg/contracts"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "salespulse",
		Short: "Sales analytics dashboard for cleaned coffee-shop sales files",
		Long: `SalesPulse reads the cleaned monthly, category and product CSV files and
serves descriptive analytics: branch rankings, seasonality, margins,
category share and product profitability.`,
		Version:       contracts.GetFullVersionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// exposes .env to subcommands before they load configuration
			if err := godotenv.Load(); err != nil {
				slog.Debug("No .env file loaded", slog.String("error", err.Error()))
			}
		},
	}

	root.SetVersionTemplate("{{.Version}}\n")
	root.AddCommand(newServeCmd(), newReportCmd())
	return root
}
