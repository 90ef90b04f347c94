package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "anki-sentences",
	Short: "Spaced-repetition trainer for German words and sentences",
	Long: "anki-sentences quizzes you on German vocabulary and sentences from Spanish prompts\n" +
		"and schedules every item with the SM-2 algorithm.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides the profile and ANKI_SENTENCES_DB)")
	rootCmd.PersistentFlags().String("profile", "", "Profile to use instead of the active one")

	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(audioCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(versionCmd)
}
