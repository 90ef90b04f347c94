package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/anki-sentences/anki-sentences/internal/audio"
	"github.com/anki-sentences/anki-sentences/internal/tts"
)

var audioCmd = &cobra.Command{
	Use:   "audio",
	Short: "Manage pronunciation audio",
}

var audioPrefetchCmd = &cobra.Command{
	Use:       "prefetch <words|sentences>",
	Short:     "Generate audio files for items that have none",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"words", "sentences"},
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := parseTarget(args[0])
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		lang, _ := cmd.Flags().GetString("lang")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if e.profile.AudioDir == "" {
			return fmt.Errorf("profile %q has no audio directory", e.profile.Name)
		}

		cfg := tts.ConfigFromEnv()
		provider, err := tts.NewProvider(cfg)
		if err != nil {
			return fmt.Errorf("TTS provider not configured: %w", err)
		}

		out := cmd.OutOrStdout()
		p := &tts.Prefetcher{
			Provider:  provider,
			Words:     e.store.WordRepo(),
			Sentences: e.store.SentenceRepo(),
			Audio:     e.store.AudioRepo(),
			Library:   audio.Library{Dir: e.profile.AudioDir},
			Catalog:   e.catalog,
			Timeout:   cfg.Timeout,
			Warn:      cmd.ErrOrStderr(),
			OnItem: func(id int, err error) {
				if err == nil {
					fmt.Fprintf(out, "  %s %d ✓\n", target, id)
				}
			},
		}

		res, err := p.Run(cmd.Context(), target, limit, lang)
		fmt.Fprintf(out, "Generated %d file(s) with %s, %d failed.\n", res.Generated, res.Model, res.Failed)
		if err != nil {
			return fmt.Errorf("prefetch audio: %w", err)
		}
		if res.Failed > 0 {
			fmt.Fprintln(os.Stderr, "Run the command again to retry the failed items.")
		}
		return nil
	},
}

func init() {
	audioPrefetchCmd.Flags().Int("limit", 0, "Maximum number of items to process (0 = all)")
	audioPrefetchCmd.Flags().String("lang", audio.LangDE, "Language to generate: de or es")

	audioCmd.AddCommand(audioPrefetchCmd)
}
