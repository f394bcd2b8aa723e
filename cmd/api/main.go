package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/goalboard/core/cmd/api/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "goalboard",
		Short: "GoalBoard API Server",
		Long:  `GoalBoard is a personal daily goal tracker with streaks, XP, badges, and progress analytics across videos, DSA practice, and dev work.`,
	}

	// Add commands
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewBoardCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
