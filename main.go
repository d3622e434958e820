package main

import (
	goflag "flag"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tableau",
		Short: "Solve linear programs with the tableau simplex method",
		Long: "tableau solves linear programs given as augmented simplex tableaus, " +
			"printing every pivot step, the current basic solution and the objective value.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(c *cobra.Command, args []string) {
			c.Help()
		},
	}

	klogFlags := goflag.NewFlagSet("klog", goflag.ExitOnError)
	klog.InitFlags(klogFlags)
	rootCmd.PersistentFlags().AddGoFlagSet(klogFlags)

	rootCmd.AddCommand(newCommandSolve("solve"))
	rootCmd.AddCommand(newCommandExample("example"))

	err := rootCmd.Execute()
	klog.Flush()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
