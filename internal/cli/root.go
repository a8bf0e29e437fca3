package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func Execute() error {
	root := &cobra.Command{
		Use:   "gitburst",
		Short: "Animated replay of git history in the terminal",
		Long:  "Gitburst: Replay commit history as an animated, force-directed file tree.",
	}

	// Add subcommands
	root.AddCommand(newReplayCmd())

	if err := root.Execute(); err != nil {
		return fmt.Errorf("execute: %w", err)
	}
	return nil
}
