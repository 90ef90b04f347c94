package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/anki-sentences/anki-sentences/internal/ui/components"
	"github.com/anki-sentences/anki-sentences/internal/ui/prompt"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage learner profiles",
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, name := range cfg.Names() {
			p, _ := cfg.Profile(name)
			marker := " "
			if name == cfg.ActualProfile {
				marker = "*"
			}
			audio := "off"
			if p.AudioEnabled {
				audio = "on"
			}
			fmt.Fprintf(out, "%s %-16s  audio %-3s  %s\n", marker, name, audio, p.DatabasePath)
		}
		return nil
	},
}

var profileNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a profile and make it active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		p, err := cfg.NewProfile(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created profile %q (database %s).\n", p.Name, p.DatabasePath)
		return nil
	},
}

var profileUseCmd = &cobra.Command{
	Use:   "use [name]",
	Short: "Switch the active profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		var name string
		if len(args) == 1 {
			name = args[0]
		} else {
			if !prompt.Interactive(os.Stdin, os.Stdout) {
				return fmt.Errorf("profile name required")
			}
			items := make([]components.MenuItem, 0, len(cfg.Names()))
			for _, n := range cfg.Names() {
				items = append(items, components.MenuItem{Label: n})
			}
			name, err = prompt.Choose(os.Stdin, cmd.OutOrStdout(), "Switch to profile", items)
			if err != nil {
				return err
			}
		}

		if err := cfg.UseProfile(name); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Active profile: %s\n", name)
		return nil
	},
}

var profileAudioCmd = &cobra.Command{
	Use:       "audio <on|off>",
	Short:     "Turn audio playback on or off for the active profile",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		enabled := args[0] == "on"
		if err := cfg.SetAudioEnabled(enabled); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Audio %s for profile %q.\n", args[0], cfg.ActualProfile)
		return nil
	},
}

func init() {
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileNewCmd)
	profileCmd.AddCommand(profileUseCmd)
	profileCmd.AddCommand(profileAudioCmd)
}
