package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/anki-sentences/anki-sentences/internal/audio"
	"github.com/anki-sentences/anki-sentences/internal/session"
	"github.com/anki-sentences/anki-sentences/internal/spacedrep"
	"github.com/anki-sentences/anki-sentences/internal/store"
	"github.com/anki-sentences/anki-sentences/internal/ui/components"
	"github.com/anki-sentences/anki-sentences/internal/ui/prompt"
)

var reviewCmd = &cobra.Command{
	Use:       "review <words|sentences>",
	Short:     "Study due words or sentences",
	Long:      "Quiz the due items of one kind. Type \"exit\" at any prompt to stop early; items learned so far are still saved.",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{string(store.TargetWords), string(store.TargetSentences)},
	RunE:      runReview,
}

func init() {
	reviewCmd.Flags().String("section", "", "Which items to study: new, review or new-and-review (asks when omitted on a terminal)")
	reviewCmd.Flags().Int("batch", session.DefaultBatchSize, "Number of items in play at once")
	reviewCmd.Flags().Bool("no-shuffle", false, "Keep due items in storage order")
	reviewCmd.Flags().Bool("no-audio", false, "Do not play pronunciation audio")
}

func runReview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	target, err := parseTarget(args[0])
	if err != nil {
		return err
	}
	batch, _ := cmd.Flags().GetInt("batch")
	noShuffle, _ := cmd.Flags().GetBool("no-shuffle")
	noAudio, _ := cmd.Flags().GetBool("no-audio")

	section, err := resolveSection(cmd)
	if err != nil {
		return err
	}

	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	var due session.DueSource
	switch target {
	case store.TargetWords:
		due = session.DueFunc(e.store.WordRepo().DueWordIDs)
	case store.TargetSentences:
		due = session.DueFunc(e.store.SentenceRepo().DueSentenceIDs)
	}

	queue, err := session.NewPlanner(due, !noShuffle).BuildQueue(ctx, section, time.Now())
	if err != nil {
		return err
	}
	if len(queue) == 0 {
		fmt.Fprintf(out, "Nothing to study in %s (%s).\n", target, section)
		return nil
	}

	interactive := prompt.Interactive(os.Stdin, os.Stdout)
	var view session.View = session.PlainView{}
	if interactive {
		view = components.SessionView{}
	}

	sessionID := uuid.NewString()
	src := audioSource(e, noAudio, cmd.ErrOrStderr())
	prompter := prompt.New(os.Stdin, out, interactive)

	start := time.Now()
	var (
		res    *session.Result
		finish func(context.Context, *session.Result, error)
	)
	switch target {
	case store.TargetWords:
		eng := &session.Engine[store.Word]{
			Kind:      session.WordKind(e.catalog),
			Fetcher:   session.FetchFunc[store.Word](e.store.WordRepo().FetchWords),
			Prompter:  prompter,
			Audio:     src,
			View:      view,
			Out:       out,
			Warn:      cmd.ErrOrStderr(),
			Events:    e.store.EventRepo(),
			SessionID: sessionID,
		}
		res, err = eng.Run(ctx, queue, batch)
		finish = eng.Finish
	case store.TargetSentences:
		eng := &session.Engine[store.Sentence]{
			Kind:      session.SentenceKind(),
			Fetcher:   session.FetchFunc[store.Sentence](e.store.SentenceRepo().FetchSentences),
			Prompter:  prompter,
			Audio:     src,
			View:      view,
			Out:       out,
			Warn:      cmd.ErrOrStderr(),
			Events:    e.store.EventRepo(),
			SessionID: sessionID,
		}
		res, err = eng.Run(ctx, queue, batch)
		finish = eng.Finish
	}
	if err != nil {
		if errors.Is(err, session.ErrEndOfInput) {
			return fmt.Errorf("review %s: input closed before the session ended; nothing was saved", target)
		}
		return fmt.Errorf("review %s: %w", target, err)
	}

	_, err = spacedrep.NewScheduler(e.store.ReviewRepo()).Apply(ctx, target, res.Graded, time.Now())
	finish(context.WithoutCancel(ctx), res, err)
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}

	summary := session.BuildSummary(res, time.Since(start))
	if interactive {
		lipgloss.Fprintln(out, components.RenderSummary(summary, 48))
	} else {
		fmt.Fprintf(out, "%s: %d learned (%d first try), %d/%d answers correct\n",
			summary.Status, summary.Graduated, summary.Perfect, summary.Correct, summary.Attempts)
	}
	return nil
}

// resolveSection reads --section, asking with a menu when it is missing and
// a terminal is attached.
func resolveSection(cmd *cobra.Command) (store.Section, error) {
	name, _ := cmd.Flags().GetString("section")
	if name == "" {
		if !prompt.Interactive(os.Stdin, os.Stdout) {
			return store.SectionNewAndReview, nil
		}
		chosen, err := prompt.Choose(os.Stdin, cmd.OutOrStdout(), "What do you want to study?", []components.MenuItem{
			{Label: "New and due items", Value: string(store.SectionNewAndReview)},
			{Label: "Only new items", Value: string(store.SectionNew)},
			{Label: "Only items due for review", Value: string(store.SectionReview)},
		})
		if err != nil {
			return "", err
		}
		name = chosen
	}

	section, ok := store.ParseSection(name)
	if !ok {
		return "", fmt.Errorf("unknown section %q (want new, review or new-and-review)", name)
	}
	return section, nil
}

// audioSource returns nil when audio is off for this run.
func audioSource(e *env, disabled bool, warn io.Writer) session.AudioSource {
	if disabled || !e.profile.AudioEnabled || e.profile.AudioDir == "" {
		return nil
	}
	src, err := audio.NewSource(e.profile.AudioDir)
	if err != nil {
		fmt.Fprintf(warn, "warning: audio disabled: %v\n", err)
		return nil
	}
	return src
}
