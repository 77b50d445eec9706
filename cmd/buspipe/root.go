package main

import (
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use: "buspipe",
	Short: "Buspipe simulates elastic valid/ready relay pipelines on " +
		"AXI4-style buses.",
	Long: `Buspipe simulates elastic valid/ready relay pipelines on ` +
		`AXI4-style buses. It drives randomized traffic with configurable ` +
		`backpressure through a five-channel bus pipeline and checks ` +
		`exactly-once, in-order delivery on every channel.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
