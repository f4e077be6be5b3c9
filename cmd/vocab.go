package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingua/internal/lang"
	"github.com/abhisek/lingua/internal/vocab"
)

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Manage the vocabulary notebook",
}

// vocabLanguage returns the --lang flag, or the active language.
func vocabLanguage(cmd *cobra.Command, d *deps) (lang.Language, error) {
	if s, _ := cmd.Flags().GetString("lang"); s != "" {
		return lang.ParseLanguage(s)
	}
	p, err := d.learner.Profiles.ActiveProfile()
	if err != nil {
		return "", fmt.Errorf("no active language, pass --lang or create a profile: %w", err)
	}
	return p.TargetLanguage, nil
}

// withVocab opens the learner state and resolves the language for a
// vocab subcommand.
func withVocab(fn func(cmd *cobra.Command, args []string, d *deps, l lang.Language) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()
		l, err := vocabLanguage(cmd, d)
		if err != nil {
			return err
		}
		return fn(cmd, args, d, l)
	}
}

func printEntries(entries []vocab.Entry, now time.Time) {
	if len(entries) == 0 {
		fmt.Println("No words.")
		return
	}
	fmt.Printf("%-8s  %-20s  %-24s  %7s  %s\n", "ID", "Word", "Translation", "Mastery", "Next review")
	fmt.Println(strings.Repeat("─", 84))
	for _, e := range entries {
		next := e.NextReviewAt.Local().Format("2006-01-02 15:04")
		if e.IsDue(now) {
			next = "due"
		}
		fmt.Printf("%-8s  %-20s  %-24s  %6.0f%%  %s\n",
			truncate(e.ID, 8), truncate(e.Word, 20), truncate(e.Translation, 24), e.Mastery*100, next)
	}
}

var vocabListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every word",
	RunE: withVocab(func(cmd *cobra.Command, args []string, d *deps, l lang.Language) error {
		printEntries(d.learner.Vocab.Entries(l), time.Now())
		return nil
	}),
}

var vocabAddCmd = &cobra.Command{
	Use:   "add <word> <translation>",
	Short: "Add a word",
	Args:  cobra.ExactArgs(2),
	RunE: withVocab(func(cmd *cobra.Command, args []string, d *deps, l lang.Language) error {
		pos, _ := cmd.Flags().GetString("pos")
		example, _ := cmd.Flags().GetString("example")
		e, added, err := d.learner.Vocab.AddWord(cmd.Context(), l, vocab.NewWord{
			Word:         args[0],
			Translation:  args[1],
			PartOfSpeech: pos,
			Example:      example,
		})
		if err != nil {
			return err
		}
		if !added {
			fmt.Printf("%q is already in the notebook (%s).\n", e.Word, e.ID)
			return nil
		}
		fmt.Printf("Added %q (%s).\n", e.Word, e.ID)
		return nil
	}),
}

var vocabDueCmd = &cobra.Command{
	Use:   "due",
	Short: "List the words due for review",
	RunE: withVocab(func(cmd *cobra.Command, args []string, d *deps, l lang.Language) error {
		limit, _ := cmd.Flags().GetInt("limit")
		printEntries(d.learner.Vocab.WordsForReview(l, limit), time.Now())
		return nil
	}),
}

var vocabReviewCmd = &cobra.Command{
	Use:   "review <id>",
	Short: "Record a flashcard review",
	Args:  cobra.ExactArgs(1),
	RunE: withVocab(func(cmd *cobra.Command, args []string, d *deps, l lang.Language) error {
		wrong, _ := cmd.Flags().GetBool("wrong")
		e, unlocked, err := d.learner.ReviewWord(cmd.Context(), l, args[0], !wrong)
		if err != nil {
			return err
		}
		fmt.Printf("%s: mastery %.0f%%, next review %s\n",
			e.Word, e.Mastery*100, e.NextReviewAt.Local().Format("2006-01-02 15:04"))
		for _, a := range unlocked {
			fmt.Printf("Unlocked %s %s\n", a.Icon, a.Title)
		}
		return nil
	}),
}

var vocabRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a word",
	Args:  cobra.ExactArgs(1),
	RunE: withVocab(func(cmd *cobra.Command, args []string, d *deps, l lang.Language) error {
		if err := d.learner.Vocab.RemoveWord(cmd.Context(), l, args[0]); err != nil {
			return err
		}
		fmt.Println("Removed.")
		return nil
	}),
}

var vocabImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import words from an .xlsx or .csv file",
	Args:  cobra.ExactArgs(1),
	RunE: withVocab(func(cmd *cobra.Command, args []string, d *deps, l lang.Language) error {
		cfg := vocab.DefaultImportConfig(args[0])
		cfg.SheetName, _ = cmd.Flags().GetString("sheet")
		if noHeader, _ := cmd.Flags().GetBool("no-header"); noHeader {
			cfg.SkipHeader = false
		}
		if cols, _ := cmd.Flags().GetString("columns"); cols != "" {
			parts := strings.Split(cols, ",")
			for len(parts) < 4 {
				parts = append(parts, "")
			}
			cfg.WordColumn = strings.TrimSpace(parts[0])
			cfg.TranslationColumn = strings.TrimSpace(parts[1])
			cfg.PartOfSpeechColumn = strings.TrimSpace(parts[2])
			cfg.ExampleColumn = strings.TrimSpace(parts[3])
		}

		res, err := d.learner.Vocab.Import(cmd.Context(), l, cfg)
		if err != nil {
			return err
		}
		fmt.Printf("Processed %d rows: %d added, %d skipped.\n", res.Processed, res.Added, res.Skipped)
		for _, e := range res.Errors {
			fmt.Println("  " + e)
		}
		return nil
	}),
}

var vocabStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show vocabulary counts",
	RunE: withVocab(func(cmd *cobra.Command, args []string, d *deps, l lang.Language) error {
		st := d.learner.Vocab.Stats(l)
		fmt.Printf("%s vocabulary\n", l.Name())
		fmt.Printf("  Total:     %d\n", st.Total)
		fmt.Printf("  Mastered:  %d\n", st.Mastered)
		fmt.Printf("  Learning:  %d\n", st.Learning)
		fmt.Printf("  Due:       %d\n", st.DueForReview)
		return nil
	}),
}

func init() {
	vocabCmd.PersistentFlags().String("lang", "", "Language code (default: the active language)")

	vocabAddCmd.Flags().String("pos", "", "Part of speech")
	vocabAddCmd.Flags().String("example", "", "Example sentence")
	vocabDueCmd.Flags().IntP("limit", "n", vocab.DefaultDueLimit, "Maximum number of words")
	vocabReviewCmd.Flags().Bool("wrong", false, "Record an incorrect answer")
	vocabImportCmd.Flags().String("sheet", "", "Sheet name (xlsx only)")
	vocabImportCmd.Flags().Bool("no-header", false, "The first row holds words, not headings")
	vocabImportCmd.Flags().String("columns", "", "Column letters for word,translation,pos,example (default A,B,C,D)")

	vocabCmd.AddCommand(vocabListCmd)
	vocabCmd.AddCommand(vocabAddCmd)
	vocabCmd.AddCommand(vocabDueCmd)
	vocabCmd.AddCommand(vocabReviewCmd)
	vocabCmd.AddCommand(vocabRemoveCmd)
	vocabCmd.AddCommand(vocabImportCmd)
	vocabCmd.AddCommand(vocabStatsCmd)
}
