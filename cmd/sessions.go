package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Inspect past study sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ends, err := e.store.EventRepo().RecentSessions(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(ends) == 0 {
			fmt.Fprintln(out, "No sessions recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "%-36s  %-19s  %-9s  %-9s  %s\n", "Session", "Ended", "Target", "Status", "Learned")
		fmt.Fprintln(out, strings.Repeat("─", 90))
		for _, ev := range ends {
			fmt.Fprintf(out, "%-36s  %-19s  %-9s  %-9s  %d\n",
				ev.SessionID,
				ev.Timestamp.Local().Format("2006-01-02 15:04:05"),
				ev.Target,
				ev.Detail,
				ev.Score,
			)
		}
		return nil
	},
}

var sessionsViewCmd = &cobra.Command{
	Use:   "view <session-id>",
	Short: "Show every event of one session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		events, err := e.store.EventRepo().QuerySessionEvents(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("query session: %w", err)
		}
		if len(events) == 0 {
			return fmt.Errorf("session %s not found", args[0])
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Session:  %s\n", args[0])
		fmt.Fprintf(out, "Target:   %s\n\n", events[0].Target)
		fmt.Fprintf(out, "%-6s  %-8s  %-12s  %-6s  %-5s  %s\n", "Seq", "Time", "Action", "Item", "Score", "Detail")
		fmt.Fprintln(out, strings.Repeat("─", 60))
		for _, ev := range events {
			item := ""
			if ev.ItemID != 0 {
				item = fmt.Sprint(ev.ItemID)
			}
			fmt.Fprintf(out, "%-6d  %-8s  %-12s  %-6s  %-5d  %s\n",
				ev.Sequence,
				ev.Timestamp.Local().Format("15:04:05"),
				ev.Action,
				item,
				ev.Score,
				ev.Detail,
			)
		}
		return nil
	},
}

func init() {
	sessionsListCmd.Flags().Int("limit", 20, "Maximum number of sessions to show")

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsViewCmd)
}
