package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shapestone/shape-csv-dialect/pkg/csv"
)

func newSniffCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "sniff FILE",
		Short: "Guess the dialect of a file",
		Long: `Guess the delimiter, line terminator, initial spaces and header of FILE and
print them as a configuration snippet usable with --config.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := csv.SniffFile(args[0])
			if err != nil {
				return err
			}
			d := s.Dialect().Settings()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "use: %s\n", name)
			fmt.Fprintf(out, "dialects:\n  %s:\n", name)
			fmt.Fprintf(out, "    delimiter: %s\n", strconv.Quote(d.Delimiter))
			fmt.Fprintf(out, "    lineTerminator: %s\n", strconv.Quote(d.LineTerminator))
			fmt.Fprintf(out, "    skipInitialSpace: %t\n", d.SkipInitialSpace)
			fmt.Fprintf(out, "    header: %t\n", d.Header)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "sniffed", "dialect name to print")
	return cmd
}
