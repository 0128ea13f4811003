package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"salespulse/internal/app"
	"salespulse/internal/config"
	"salespulse/internal/dataset"
	"salespulse/internal/exporter"
	"salespulse/internal/infrastructure"
	"salespulse/internal/middleware"
	"salespulse/internal/services"
	api "salespulse/pkg/contracts/api/v1"
	"salespulse/pkg/contracts/domain"
)

type reportOptions struct {
	dataDir string
	year    int
	topN    int
	minQty  int
	xlsx    string
	csvDir  string
	verbose bool
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00aadd")).MarginTop(1)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#d7af00"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

func newReportCmd() *cobra.Command {
	opts := reportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the dashboard once and print it as tables",
		Long: `Run the load, validate and compute pipeline against the data directory,
print every section as a terminal table and optionally write the Excel
workbook and per-section CSV files.

Unset flags fall back to the SALESPULSE_* environment, .env and config.yaml.`,
		Example: "  salespulse report --data outputs --year 2025 --top-n 10 --min-qty 50 --xlsx report.xlsx",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runReport(cmd.Context(), cmd.OutOrStdout(), cfg, resolveOptions(cmd.Flags().Changed, cfg, opts))
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.dataDir, "data", "d", "", "Directory holding the cleaned CSV files (default from SALESPULSE_PATHS_DATA_DIR or \"outputs\")")
	flags.IntVarP(&opts.year, "year", "y", 0, "Year to report (0 selects the most recent)")
	flags.IntVarP(&opts.topN, "top-n", "n", config.DefaultTopN, "Rows in the branch ranking")
	flags.IntVarP(&opts.minQty, "min-qty", "q", config.DefaultMinQty, "Minimum quantity for product rankings")
	flags.StringVar(&opts.xlsx, "xlsx", "", "Write the Excel workbook to this path")
	flags.StringVar(&opts.csvDir, "csv-dir", "", "Write one CSV per section into this directory")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log pipeline progress to stderr")

	return cmd
}

// resolveOptions fills flags the user did not set from the loaded configuration
func resolveOptions(changed func(name string) bool, cfg *config.Config, opts reportOptions) reportOptions {
	if !changed("data") {
		opts.dataDir = cfg.Paths.DataDir
	}
	if !changed("top-n") {
		opts.topN = cfg.Dashboard.DefaultTopN
	}
	if !changed("min-qty") {
		opts.minQty = cfg.Dashboard.DefaultMinQty
	}
	return opts
}

func runReport(ctx context.Context, out io.Writer, cfg *config.Config, opts reportOptions) error {
	level := "warn"
	if opts.verbose {
		level = "debug"
	}
	logger := infrastructure.NewLogger(os.Stderr, level)

	query := api.DashboardQuery{Year: &opts.year, TopN: &opts.topN, MinQty: &opts.minQty}
	if err := middleware.NewValidator(logger).ValidateStruct(query); err != nil {
		return err
	}

	pathsCfg := cfg.Paths
	pathsCfg.DataDir = opts.dataDir
	paths, err := config.GetPaths(pathsCfg)
	if err != nil {
		return err
	}

	metrics, err := infrastructure.CreateBusinessMetrics(nil)
	if err != nil {
		return err
	}

	svc := app.NewDashboardService(cfg, paths.DataDir, dataset.NopCache{}, metrics, logger)
	dash, err := svc.Render(ctx, services.DashboardRequest{
		Year:   opts.year,
		TopN:   opts.topN,
		MinQty: opts.minQty,
	})
	if err != nil {
		return describe(err, paths.DataDir)
	}

	printDashboard(out, dash)

	if opts.xlsx != "" {
		if err := exporter.SaveWorkbook(opts.xlsx, dash); err != nil {
			return fmt.Errorf("failed to write workbook: %w", err)
		}
		fmt.Fprintf(out, "\nWorkbook written to %s\n", opts.xlsx)
	}
	if opts.csvDir != "" {
		files, err := exporter.NewCSVWriter(paths).WriteAll(opts.csvDir, dash)
		if err != nil {
			return fmt.Errorf("failed to write CSV files: %w", err)
		}
		fmt.Fprintf(out, "\n%d CSV files written to %s\n", len(files), filepath.Clean(opts.csvDir))
	}
	return nil
}

// describe turns pipeline errors into messages a terminal user can act on
func describe(err error, dataDir string) error {
	var (
		missingErr *dataset.MissingColumnsError
		yearErr    *services.YearNotFoundError
	)

	switch {
	case errors.As(err, &missingErr):
		return fmt.Errorf("%s is missing columns %s", missingErr.Dataset, strings.Join(missingErr.Missing, ", "))
	case errors.As(err, &yearErr):
		years := make([]string, len(yearErr.Available))
		for i, y := range yearErr.Available {
			years[i] = strconv.Itoa(y)
		}
		return fmt.Errorf("year %d not found; available years: %s", yearErr.Year, strings.Join(years, ", "))
	}
	return fmt.Errorf("failed to build report from %s: %w", dataDir, err)
}

func printDashboard(out io.Writer, d *domain.Dashboard) {
	years := make([]string, len(d.Years))
	for i, y := range d.Years {
		years[i] = strconv.Itoa(y)
	}
	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("SalesPulse report for %d", d.Year)))
	fmt.Fprintf(out, "Available years: %s  top_n=%d  min_qty=%d\n", strings.Join(years, ", "), d.TopN, d.MinQty)

	for _, s := range exporter.Sections(d) {
		if s.Name == exporter.SectionNotices {
			continue
		}
		fmt.Fprintln(out, titleStyle.Render(s.Sheet))
		fmt.Fprintln(out, sectionTable(s))
	}

	if len(d.Notices) > 0 {
		fmt.Fprintln(out, titleStyle.Render("Notices"))
		for _, n := range d.Notices {
			fmt.Fprintln(out, noticeStyle.Render(fmt.Sprintf("- [%s] %s", n.Section, n.Message)))
		}
	}
}

func sectionTable(s exporter.Section) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(s.Headers...).
		Rows(s.Records()...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col > 0 {
				return cellStyle.Align(lipgloss.Right)
			}
			return cellStyle
		}).
		String()
}
