package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shapestone/shape-csv-dialect/pkg/csv"
)

func newDialectsCmd() *cobra.Command {
	o := NewDialectOptions()

	cmd := &cobra.Command{
		Use:   "dialects",
		Short: "List the known dialects and their settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := csv.NewRegistry()
			if err := o.Apply(cmd.Flags(), reg); err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "\tNAME\tDELIMITER\tTERMINATOR\tQUOTE\tHEADER\tIGNORE")
			current := reg.CurrentDialectName()
			for _, name := range reg.ListDialects() {
				d, err := reg.GetDialect(name)
				if err != nil {
					return err
				}
				s := d.Settings()

				mark := ""
				if name == current {
					mark = "*"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%t\t%v\n", mark, name,
					strconv.Quote(s.Delimiter), strconv.Quote(s.LineTerminator),
					strconv.QuoteRune(s.QuoteCharacter), s.Header, s.IgnoreColumns)
			}
			return tw.Flush()
		},
	}

	o.AddFlags(cmd.Flags())
	return cmd
}
