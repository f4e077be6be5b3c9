package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingua/internal/app"
	"github.com/abhisek/lingua/internal/backup"
	"github.com/abhisek/lingua/internal/config"
	"github.com/abhisek/lingua/internal/lang"
	"github.com/abhisek/lingua/internal/learner"
	"github.com/abhisek/lingua/internal/llm"
	"github.com/abhisek/lingua/internal/prompts"
	"github.com/abhisek/lingua/internal/store"
	"github.com/abhisek/lingua/internal/tutor"
)

// deps bundles what most commands need.
type deps struct {
	cfg     config.Config
	store   *store.Store
	tutor   *tutor.Service
	learner *learner.Service
	backup  *backup.Service
}

// openDeps opens the store and loads the learner state. withTutor also
// builds the LLM provider, which fails when no credentials are found.
func openDeps(cmd *cobra.Command, withTutor bool) (*deps, error) {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	d := &deps{cfg: cfg, store: st}

	var t learner.Tutor
	if withTutor {
		provider, err := llm.NewProvider(ctx, cfg.LLM, st.EventRepo())
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("LLM provider not configured: %w", err)
		}
		d.tutor = tutor.NewService(provider, cfg.Tutor)
		t = d.tutor
	}

	d.learner, err = learner.New(ctx, st.StateRepo(), t)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("load learner state: %w", err)
	}
	d.backup = backup.NewService(st.StateRepo(), version)
	return d, nil
}

func (d *deps) Close() error {
	return d.store.Close()
}

// runChat opens the store, builds dependencies, and launches the TUI.
func runChat(cmd *cobra.Command) error {
	var (
		sessionType lang.SessionType
		mode        prompts.Mode
		err         error
	)
	if s, _ := cmd.Flags().GetString("type"); s != "" {
		if sessionType, err = lang.ParseSessionType(s); err != nil {
			return err
		}
	}
	if s, _ := cmd.Flags().GetString("style"); s != "" {
		if mode, err = prompts.ParseMode(s); err != nil {
			return err
		}
	}

	d, err := openDeps(cmd, true)
	if err != nil {
		return err
	}
	defer d.Close()

	return app.Run(cmd.Context(), app.Options{
		Learner:     d.learner,
		Quizzer:     d.tutor,
		SessionType: sessionType,
		Mode:        mode,
	})
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with your tutor in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd)
	},
}

func init() {
	chatCmd.Flags().String("type", "", "Session type (conversation, lesson, exercise, vocabulary, culture, assessment)")
	chatCmd.Flags().String("style", "", "Correction style (supportive or immersion)")
}
