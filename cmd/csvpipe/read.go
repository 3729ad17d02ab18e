package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/shapestone/shape-csv-dialect/pkg/csv"
)

func newReadCmd() *cobra.Command {
	o := NewDialectOptions()
	var (
		lineByLine  bool
		where       []string
		showMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "read FILE",
		Short: "Parse a file and print its records as JSON lines",
		Long: `Parse FILE with the selected dialect and print one JSON object per record.

Records can be narrowed with --where column=value; all conditions must hold.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keep, err := parseWhere(where)
			if err != nil {
				return err
			}

			opts := csv.DefaultReaderOptions()
			if lineByLine {
				opts.Strategy = csv.LineByLine
			}
			var reg *prometheus.Registry
			if showMetrics {
				reg = prometheus.NewRegistry()
				opts.Registerer = reg
			}

			r := csv.NewReaderWithOptions(opts)
			if err := o.Apply(cmd.Flags(), r.Registry); err != nil {
				return err
			}
			if err := r.Read(args[0]); err != nil {
				return err
			}

			if err := printRecords(cmd.OutOrStdout(), r.Filter(keep)); err != nil {
				return err
			}
			if reg != nil {
				return logMetrics(reg)
			}
			return nil
		},
	}

	o.AddFlags(cmd.Flags())
	cmd.Flags().BoolVar(&lineByLine, "line-by-line", false, "split each physical line on its own instead of scanning the whole stream")
	cmd.Flags().StringArrayVar(&where, "where", nil, "keep records whose column equals a value, as column=value")
	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "log pipeline counters when done")
	return cmd
}
