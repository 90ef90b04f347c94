package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/anki-sentences/anki-sentences/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show how many items are new and due today",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		cutoff := store.EndOfDay(time.Now())
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "Profile %s\n", e.profile.Name)
		fmt.Fprintln(out, strings.Repeat("─", 32))
		fmt.Fprintf(out, "%-10s  %8s  %8s\n", "", "New", "Due")
		for _, target := range []store.Target{store.TargetWords, store.TargetSentences} {
			fresh, due, err := e.store.ReviewRepo().CountDue(ctx, target, cutoff)
			if err != nil {
				return fmt.Errorf("count %s: %w", target, err)
			}
			fmt.Fprintf(out, "%-10s  %8d  %8d\n", target, fresh, due)
		}
		return nil
	},
}
