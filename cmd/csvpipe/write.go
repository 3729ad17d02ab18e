package main

import (
	"errors"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/shapestone/shape-csv-dialect/pkg/csv"
)

func newWriteCmd() *cobra.Command {
	o := NewDialectOptions()
	var to string

	cmd := &cobra.Command{
		Use:   "write IN OUT",
		Short: "Rewrite a file in another dialect",
		Long: `Parse IN with the selected dialect and write its header and records to OUT
using the dialect named by --to. Ignored columns are left out.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := csv.NewReader()
			if err := o.Apply(cmd.Flags(), r.Registry); err != nil {
				return err
			}
			if err := r.Read(args[0]); err != nil {
				return err
			}

			w, err := csv.NewWriter(args[1])
			if err != nil {
				return err
			}
			if o.Config != "" {
				conf, err := csv.LoadConfig(o.Config)
				if err != nil {
					return errors.Join(err, w.Close())
				}
				conf.Use = ""
				if err := conf.Apply(w.Registry); err != nil {
					return errors.Join(err, w.Close())
				}
			}
			if err := w.UseDialect(to); err != nil {
				return errors.Join(err, w.Close())
			}

			if err := w.WriteNode(r.ToAST()); err != nil {
				return errors.Join(err, w.Close())
			}
			if err := w.Close(); err != nil {
				return err
			}

			klog.V(2).InfoS("Rewrote file", "in", args[0], "out", args[1], "dialect", to, "records", r.Len())
			return nil
		},
	}

	o.AddFlags(cmd.Flags())
	cmd.Flags().StringVar(&to, "to", csv.DialectExcel, "dialect to write with")
	return cmd
}
