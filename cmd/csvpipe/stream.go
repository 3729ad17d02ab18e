package main

import (
	"time"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/shapestone/shape-csv-dialect/pkg/csv"
)

// pollInterval is how long stream waits when no record is ready yet.
const pollInterval = time.Millisecond

func newStreamCmd() *cobra.Command {
	o := NewDialectOptions()
	var (
		wholeStream bool
		limit       int
	)

	cmd := &cobra.Command{
		Use:   "stream FILE",
		Short: "Print records as JSON lines while the file is still being read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := csv.DefaultAsyncReaderOptions()
			if wholeStream {
				opts.Strategy = csv.WholeStream
			}

			ar := csv.NewAsyncReaderWithOptions(opts)
			if err := o.Apply(cmd.Flags(), ar.Registry); err != nil {
				return err
			}
			if err := ar.ReadAsync(args[0]); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			n := 0
			for !ar.Done() && (limit <= 0 || n < limit) {
				if !ar.HasNext() {
					time.Sleep(pollInterval)
					continue
				}
				if err := printRecord(out, ar.Next()); err != nil {
					ar.Close()
					return err
				}
				n++
			}

			klog.V(2).InfoS("Stream finished", "printed", n, "expected", ar.Expected())
			return ar.Close()
		},
	}

	o.AddFlags(cmd.Flags())
	cmd.Flags().BoolVar(&wholeStream, "whole-stream", false, "scan the whole stream and split records on the line terminator")
	cmd.Flags().IntVar(&limit, "limit", 0, "stop after this many records, 0 for no limit")
	return cmd
}
