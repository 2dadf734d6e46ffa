// Package cli defines the cobra commands of the trailmate operator CLI.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "trailmate",
		Short:         "Travel-assistant dialogue service",
		Long:          `trailmate runs the slot-filling travel chat API and offers operator tools around it.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.AddCommand(
		newServeCmd(),
		newChatCmd(),
		newClassifyCmd(),
		newPlansCmd(),
		newQuotaCmd(),
	)
	return root
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
