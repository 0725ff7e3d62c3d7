package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"apgcal/adapters/excel"
	"apgcal/adapters/report"
	"apgcal/adapters/stats/fit"
	"apgcal/app"
	"apgcal/internal"
	"apgcal/internal/api"
	"apgcal/internal/calibration"
	"apgcal/internal/config"
	"apgcal/internal/interp"

	"github.com/spf13/cobra"
)

// options shared by every subcommand; flags override the environment
type rootOptions struct {
	file     string
	format   string
	mode     string
	method   string
	logLevel string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "apgcal",
		Short:         "Edwards APG gauge calibration tables, interpolation and fits",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.file, "file", "", "Table source (.txt or .xlsx); defaults to TABLE_FILE or the embedded table")
	flags.StringVar(&opts.format, "format", "", "Table layout: blocks or columns (default TABLE_FORMAT)")
	flags.StringVar(&opts.mode, "mode", "", "Stitch mode: combine or windowed")
	flags.StringVar(&opts.method, "method", "", "Search method: exact or alternate")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (error, warn, info, debug, trace)")

	rootCmd.AddCommand(
		newTableCmd(opts),
		newGridCmd(opts),
		newCompareCmd(opts),
		newFitCmd(opts),
		newReportCmd(opts),
		newServeCmd(opts),
	)
	return rootCmd
}

// load resolves configuration and builds the service
func (o *rootOptions) load() (*config.Config, *app.CalibrationService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if o.file != "" {
		cfg.Table.File = o.file
	}
	if o.format != "" {
		if cfg.Table.Format, err = calibration.ParseFormat(o.format); err != nil {
			return nil, nil, err
		}
	}
	if o.mode != "" {
		if cfg.Table.Mode, err = calibration.ParseMode(o.mode); err != nil {
			return nil, nil, err
		}
	}
	if o.method != "" {
		if cfg.Table.Method, err = interp.ParseMethod(o.method); err != nil {
			return nil, nil, err
		}
	}

	level := os.Getenv("LOG_LEVEL")
	if o.logLevel != "" {
		level = o.logLevel
	}
	logger := internal.DefaultLogger
	if level != "" {
		logger = internal.NewLogger(internal.ParseLogLevel(level))
	}

	svc, err := app.NewServiceFromConfig(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return cfg, svc, nil
}

func newTableCmd(opts *rootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print or export the stitched calibration tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, svc, err := opts.load()
			if err != nil {
				return err
			}
			path := exportPath(cfg, out)
			ds := svc.Dataset()
			sheets := make([]excel.Sheet, len(ds.Tables))
			for i, t := range ds.Tables {
				sheets[i] = excel.TableSheet(fmt.Sprintf("Table%d", i+1), t)
			}
			if path != "" && excel.FileType(path) == excel.FileTypeXLSX {
				return excel.WriteXLSX(path, sheets...)
			}
			w, closeFn, err := output(cmd, path)
			if err != nil {
				return err
			}
			defer closeFn()
			for i, s := range sheets {
				if i > 0 {
					fmt.Fprintln(w)
				}
				if err := excel.WriteCSV(w, s); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to a .csv or .xlsx file (relative to EXPORT_DIR) instead of stdout")
	return cmd
}

type gridFlags struct {
	start float64
	first int
	count int
	per   float64
}

func (g *gridFlags) register(cmd *cobra.Command, first, count int) {
	cmd.Flags().Float64Var(&g.start, "start", 2.0, "Grid origin in volts")
	cmd.Flags().IntVar(&g.first, "first", first, "Index of the first grid point")
	cmd.Flags().IntVar(&g.count, "count", count, "Number of grid points")
	cmd.Flags().Float64Var(&g.per, "per", 100, "Grid points per volt")
}

func (g *gridFlags) points() ([]float64, error) {
	if g.count < 1 {
		return nil, fmt.Errorf("count must be positive, got %d", g.count)
	}
	if g.per == 0 {
		return nil, fmt.Errorf("per cannot be zero")
	}
	return interp.GridPoints(g.start, g.first, g.count, g.per), nil
}

func newGridCmd(opts *rootOptions) *cobra.Command {
	var grid gridFlags
	var out string

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Interpolate pressure on a regular voltage grid",
		Long: `Interpolate pressure on a regular voltage grid and print it as i,Volts,Ptorr.

Example: apgcal grid --count 801 --out grid.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, svc, err := opts.load()
			if err != nil {
				return err
			}
			qs, err := grid.points()
			if err != nil {
				return err
			}
			sheet := excel.GridSheet("Grid", "Volts", "Ptorr", qs, svc.Grid(qs, cfg.Table.Method))
			return writeSheet(cmd, cfg, out, sheet)
		},
	}

	grid.register(cmd, 0, 801)
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to a .csv or .xlsx file (relative to EXPORT_DIR) instead of stdout")
	return cmd
}

func newCompareCmd(opts *rootOptions) *cobra.Command {
	var grid gridFlags

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the exact and alternate searches on a grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, svc, err := opts.load()
			if err != nil {
				return err
			}
			qs, err := grid.points()
			if err != nil {
				return err
			}
			d, err := svc.Compare(cmd.Context(), qs)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if d.Agree() {
				fmt.Fprintf(w, "exact and alternate agree on all %d queries\n", len(qs))
				return nil
			}
			fmt.Fprintf(w, "%d of %d queries differ\n", len(d.Indices), len(qs))
			fmt.Fprintln(w, "i,Volts,Exact,Alternate")
			for _, i := range d.Indices {
				fmt.Fprintf(w, "%d,%.4f,%.6e,%.6e\n", i, d.Queries[i], d.Exact[i], d.Alternate[i])
			}
			return nil
		},
	}

	grid.register(cmd, -1, 803)
	return cmd
}

type fitFlags struct {
	order     int
	chopLeft  int
	chopRight int
}

func (f *fitFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.order, "order", 0, "Polynomial order (default FIT_ORDER)")
	cmd.Flags().IntVar(&f.chopLeft, "chop-left", -1, "Leading samples to drop (default FIT_CHOP_LEFT)")
	cmd.Flags().IntVar(&f.chopRight, "chop-right", -1, "Trailing samples to drop (default FIT_CHOP_RIGHT)")
}

func (f *fitFlags) options(cfg *config.Config) fit.Options {
	opts := fit.Options{Order: cfg.Fit.Order, ChopLeft: cfg.Fit.ChopLeft, ChopRight: cfg.Fit.ChopRight}
	if f.order > 0 {
		opts.Order = f.order
	}
	if f.chopLeft >= 0 {
		opts.ChopLeft = f.chopLeft
	}
	if f.chopRight >= 0 {
		opts.ChopRight = f.chopRight
	}
	return opts
}

func newFitCmd(opts *rootOptions) *cobra.Command {
	var flags fitFlags
	var samples int

	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit a polynomial to log10 pressure against voltage",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, svc, err := opts.load()
			if err != nil {
				return err
			}
			result, err := svc.Fit(flags.options(cfg))
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "order %d over %d points\n", result.Options.Order, result.Points)
			for i, c := range result.Coefficients {
				fmt.Fprintf(w, "  x^%d  %.10e\n", len(result.Coefficients)-1-i, c)
			}
			fmt.Fprintf(w, "R² %.8f  residual sd %.4e  max |residual| %.4e\n",
				result.RSquared, result.ResidualStdDev, result.MaxAbsResidual)

			if samples > 1 {
				info := svc.Info()
				lo, hi := info.Tables[0].VoltsMin, info.Tables[len(info.Tables)-1].VoltsMax
				xs, ys := result.Curve(lo, hi, samples)
				fmt.Fprintln(w, "Volts,Ptorr")
				for i := range xs {
					fmt.Fprintf(w, "%.4f,%.6e\n", xs[i], ys[i])
				}
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&samples, "samples", 0, "Also print the fitted curve at this many evenly spaced voltages")
	return cmd
}

func newReportCmd(opts *rootOptions) *cobra.Command {
	var flags fitFlags
	var html bool
	var out string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a calibration report in markdown or HTML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, svc, err := opts.load()
			if err != nil {
				return err
			}
			result, err := svc.Fit(flags.options(cfg))
			if err != nil {
				return err
			}
			d, err := svc.Compare(cmd.Context(), interp.GridPoints(2.0, -1, 803, 100))
			if err != nil {
				return err
			}

			summary := svc.Report(result, d, cfg.Fit.Linear)
			w, closeFn, err := output(cmd, exportPath(cfg, out))
			if err != nil {
				return err
			}
			defer closeFn()
			if html {
				_, err = w.Write(report.HTML(summary))
			} else {
				_, err = io.WriteString(w, report.Markdown(summary))
			}
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&html, "html", false, "Render HTML instead of markdown")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to a file (relative to EXPORT_DIR) instead of stdout")
	return cmd
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calibration query API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, svc, err := opts.load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Server.Port = port
			}
			return api.NewServer(svc, cfg, nil).Start(":" + cfg.Server.Port)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Listen port (default PORT)")
	return cmd
}

// writeSheet sends a sheet to stdout as CSV or to a .csv/.xlsx file
func writeSheet(cmd *cobra.Command, cfg *config.Config, out string, sheet excel.Sheet) error {
	if out == "" {
		return excel.WriteCSV(cmd.OutOrStdout(), sheet)
	}
	path := exportPath(cfg, out)
	if excel.FileType(path) == excel.FileTypeXLSX {
		return excel.WriteXLSX(path, sheet)
	}
	return excel.WriteCSVFile(path, sheet)
}

func exportPath(cfg *config.Config, out string) string {
	if out == "" || filepath.IsAbs(out) || cfg.Export.Dir == "" {
		return out
	}
	return filepath.Join(cfg.Export.Dir, out)
}

// output opens path for writing, or returns stdout when path is empty
func output(cmd *cobra.Command, path string) (io.Writer, func(), error) {
	if path == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
