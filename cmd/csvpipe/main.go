// Command csvpipe reads, streams, converts and inspects delimited text
// described by named dialects.
package main

import (
	goflag "flag"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "csvpipe",
		Short:        "Dialect-driven CSV reader and writer",
		SilenceUsage: true,
	}

	local := goflag.NewFlagSet("klog", goflag.ExitOnError)
	klog.InitFlags(local)
	local.VisitAll(func(fl *goflag.Flag) {
		fl.Name = strings.Replace(fl.Name, "_", "-", -1)
		rootCmd.PersistentFlags().AddGoFlag(fl)
	})

	rootCmd.AddCommand(newReadCmd())
	rootCmd.AddCommand(newStreamCmd())
	rootCmd.AddCommand(newWriteCmd())
	rootCmd.AddCommand(newDialectsCmd())
	rootCmd.AddCommand(newSniffCmd())

	return rootCmd
}
