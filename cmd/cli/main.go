package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"govista/adapters/stats"
	"govista/adapters/tabular"
	"govista/app"
	"govista/domain/indicator"
	"govista/internal/testkit"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "govista-cli",
		Short: "Terminal analysis over a country-indicator table",
	}

	rootCmd.PersistentFlags().StringP("file", "f", "", "path to the indicator CSV/XLSX (empty: demo dataset)")
	rootCmd.PersistentFlags().Int("from", 0, "start year (inclusive, default: dataset minimum)")
	rootCmd.PersistentFlags().Int("to", 0, "end year (inclusive, default: dataset maximum)")

	rootCmd.AddCommand(
		newCatalogCmd(),
		newSummaryCmd(),
		newCorrelateCmd(),
		newCompareCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newService loads the dataset named by --file (or the demo dataset) and
// wires the analytics service over it
func newService(cmd *cobra.Command) (*app.AnalyticsService, error) {
	file, _ := cmd.Flags().GetString("file")

	var dataset *indicator.Dataset
	if file == "" {
		dataset = testkit.NewKit().GenerateDataset()
	} else {
		var err error
		dataset, err = tabular.NewReader(file).Load(cmd.Context())
		if err != nil {
			return nil, err
		}
	}

	engine := stats.NewEngine()
	return app.NewAnalyticsService(dataset, engine, engine, 0), nil
}

// criteriaFromFlags builds FilterCriteria from the shared flags, defaulting
// the year range to the dataset bounds and the selection to every indicator
func criteriaFromFlags(cmd *cobra.Command, service *app.AnalyticsService, indicators []string) indicator.FilterCriteria {
	catalog := service.Catalog(context.Background())

	from, _ := cmd.Flags().GetInt("from")
	to, _ := cmd.Flags().GetInt("to")
	if from == 0 {
		from = catalog.MinYear
	}
	if to == 0 {
		to = catalog.MaxYear
	}
	if len(indicators) == 0 {
		indicators = catalog.Indicators
	}

	return indicator.FilterCriteria{Indicators: indicators, MinYear: from, MaxYear: to}
}

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the indicators and year bounds of the dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := newService(cmd)
			if err != nil {
				return err
			}

			catalog := service.Catalog(cmd.Context())
			fmt.Printf("Source: %s\n", catalog.Source)
			fmt.Printf("Years:  %d-%d (%d observations)\n\n", catalog.MinYear, catalog.MaxYear, catalog.Observations)
			for _, name := range catalog.Indicators {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func newSummaryCmd() *cobra.Command {
	var indicators []string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print latest-year KPIs and summary statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := newService(cmd)
			if err != nil {
				return err
			}

			result, err := service.Summary(cmd.Context(), criteriaFromFlags(cmd, service, indicators))
			if err != nil {
				return err
			}
			if result.Status != indicator.StatusOK {
				fmt.Printf("no data to summarize (%s)\n", result.Status)
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "INDICATOR\tLATEST\tMEAN\tMEDIAN\tSTDDEV\tMIN\tMAX\tN")
			for _, item := range result.Items {
				latest := "-"
				if item.Latest != nil {
					latest = fmt.Sprintf("%.2f (%d)", item.Latest.Value, item.Latest.Year)
				}
				fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%d\n",
					item.Indicator, latest, item.Mean, item.Median, item.StdDev, item.Min, item.Max, item.Count)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringSliceVar(&indicators, "indicators", nil, "indicator names (default: all)")
	return cmd
}

func newCorrelateCmd() *cobra.Command {
	var indicators []string

	cmd := &cobra.Command{
		Use:   "correlate",
		Short: "Print the pairwise Pearson correlation matrix",
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := newService(cmd)
			if err != nil {
				return err
			}

			result, err := service.Correlation(cmd.Context(), criteriaFromFlags(cmd, service, indicators))
			if err != nil {
				return err
			}
			if result.Status == indicator.StatusEmptySelection || result.Status == indicator.StatusNoData {
				fmt.Printf("nothing to correlate (%s)\n", result.Status)
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "\t%s\n", strings.Join(shortNames(result.Matrix.Indicators), "\t"))
			for i, name := range result.Matrix.Indicators {
				cells := make([]string, len(result.Matrix.Indicators))
				for j := range result.Matrix.Indicators {
					if v, ok := result.Matrix.At(i, j); ok {
						cells[j] = fmt.Sprintf("%+.3f", v)
					} else {
						cells[j] = "n/a"
					}
				}
				fmt.Fprintf(w, "%s\t%s\n", shortName(name), strings.Join(cells, "\t"))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if result.Status == indicator.StatusInsufficientData {
				fmt.Println("\nwarning: fewer than two indicators have data in the selected range")
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&indicators, "indicators", nil, "indicator names (default: all)")
	return cmd
}

func newCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare [indicator-x] [indicator-y]",
		Short: "Inner-join two indicators on year and fit an OLS trend",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := newService(cmd)
			if err != nil {
				return err
			}

			criteria := criteriaFromFlags(cmd, service, args)
			result, err := service.Compare(cmd.Context(), args[0], args[1], criteria.MinYear, criteria.MaxYear)
			if err != nil {
				return err
			}

			fmt.Printf("%s vs %s: %d overlapping years (%s)\n", result.X, result.Y, len(result.Points), result.Status)
			for _, p := range result.Points {
				fmt.Printf("  %d\t%.4f\t%.4f\n", p.Year, p.X, p.Y)
			}
			if result.Trend != nil {
				fmt.Printf("trend: y = %.6f*x %+.6f\n", result.Trend.Slope, result.Trend.Intercept)
			} else {
				fmt.Println("trend: omitted (fewer than 2 points or degenerate x)")
			}
			return nil
		},
	}
}

// shortNames truncates indicator names for matrix column headers
func shortNames(names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = shortName(name)
	}
	return out
}

func shortName(name string) string {
	if len(name) <= 18 {
		return name
	}
	return name[:15] + "..."
}
