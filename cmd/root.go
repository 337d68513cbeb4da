package cmd

import "github.com/spf13/cobra"

// Execute runs the caremesh command tree.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "caremesh",
		Short:         "caremesh: simulate a time-driven care day from a schedule file",
		Long:          "caremesh loads a daily schedule and scripted user replies from a YAML file, drives the planner over a simulated day and prints the interaction transcript, caregiver alerts and the end-of-day report.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
	)

	return rootCmd
}
