package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anki-sentences/anki-sentences/internal/importer"
	"github.com/anki-sentences/anki-sentences/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import <words|sentences> <path>",
	Short: "Import words or sentences from a CSV or JSON file",
	Long: "Import words or sentences from a CSV or JSON file. The whole file is stored in one\n" +
		"transaction; any bad row aborts the import.\n\n" +
		"words CSV header:     gender_id,word_de,word_es,plural,level_id,example_de,example_es,verb_aux,separable,reflexive\n" +
		"sentences CSV header: sentence_es,sentence_de,topic,level_id",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := parseTarget(args[0])
		if err != nil {
			return err
		}
		path := args[1]

		typ, _ := cmd.Flags().GetString("type")
		format, err := importer.ParseFormat(typ, path)
		if err != nil {
			return err
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		im := &importer.Importer{
			Words:     e.store.WordRepo(),
			Sentences: e.store.SentenceRepo(),
			Catalog:   e.catalog,
		}
		ids, err := im.ImportFile(cmd.Context(), target, path, format)
		if err != nil {
			return fmt.Errorf("import %s: %w", path, err)
		}

		noun := "words"
		if target == store.TargetSentences {
			noun = "sentences"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d %s into profile %q.\n", len(ids), noun, e.profile.Name)
		return nil
	},
}

func init() {
	importCmd.Flags().String("type", "", "File format: csv or json (default: from the file extension)")
}
