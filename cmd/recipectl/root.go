package main

import (
	"time"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var serverFlag string
	var jsonFlag bool
	var timeoutFlag time.Duration

	ctx := newCommandContext(&serverFlag, &jsonFlag, &timeoutFlag)

	rootCmd := &cobra.Command{
		Use:           "recipectl",
		Short:         "Recipe catalog CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&serverFlag, "server", "s", "", "Recipe catalog API base URL (default $RECIPECTL_SERVER or http://localhost:8080)")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Print raw JSON responses")
	rootCmd.PersistentFlags().DurationVar(&timeoutFlag, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(newListCommand(ctx))
	rootCmd.AddCommand(newShowCommand(ctx))
	rootCmd.AddCommand(newAddCommand(ctx))
	rootCmd.AddCommand(newFilterCommand(ctx))
	rootCmd.AddCommand(newVideoCommand(ctx))
	rootCmd.AddCommand(newCategoriesCommand(ctx))

	return rootCmd
}
