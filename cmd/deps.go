package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/studydesk/internal/achievements"
	"github.com/abhisek/studydesk/internal/analytics"
	"github.com/abhisek/studydesk/internal/app"
	"github.com/abhisek/studydesk/internal/llm"
	"github.com/abhisek/studydesk/internal/materials"
	"github.com/abhisek/studydesk/internal/notify"
	"github.com/abhisek/studydesk/internal/persist"
	"github.com/abhisek/studydesk/internal/practice"
	"github.com/abhisek/studydesk/internal/recommend"
	"github.com/abhisek/studydesk/internal/settings"
	"github.com/abhisek/studydesk/internal/store"
	"github.com/abhisek/studydesk/internal/timer"
)

// deps holds the collaborators shared by the TUI, the headless timer and
// the server. Provider and Generator are nil without an LLM.
type deps struct {
	Store        *store.Store
	Settings     *settings.Store
	Provider     llm.Provider
	Generator    practice.Generator
	Recommender  recommend.Recommender
	Sink         persist.Sink
	Materials    *materials.Service
	Achievements *achievements.Service
	Analytics    *analytics.Service
}

// buildDeps opens the store and settings and picks the recommender and
// session sink. With --server, sessions are saved to and recommendations
// fetched from that server; everything else stays local.
func buildDeps(ctx context.Context, cmd *cobra.Command) (*deps, error) {
	st, err := openStore(cmd)
	if err != nil {
		return nil, err
	}

	settingsPath, err := settings.DefaultPath()
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("resolve settings path: %w", err)
	}

	events := st.EventRepo()
	d := &deps{
		Store:        st,
		Settings:     settings.Open(settingsPath),
		Sink:         persist.NewStoreSink(st.SessionRepo()),
		Materials:    materials.NewService(st.MaterialRepo()),
		Achievements: achievements.NewService(events, st.SessionRepo()),
		Analytics:    analytics.NewService(st.SessionRepo(), events),
	}

	provider, err := llm.NewProviderFromEnv(ctx, events)
	switch {
	case err == nil:
		d.Provider = provider
		d.Generator = practice.New(provider, practice.DefaultConfig())
	case errors.Is(err, llm.ErrNotConfigured):
		slog.Info("llm provider not configured")
	default:
		slog.Warn("llm provider unavailable", "error", err)
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "AI features will be unavailable.")
	}

	chain := recommend.Chain{}
	if server, _ := cmd.Flags().GetString("server"); server != "" {
		d.Sink = persist.NewHTTPSink(server, nil)
		chain = append(chain, recommend.NewRemote(server, nil))
	} else if d.Provider != nil {
		chain = append(chain, recommend.NewLLM(d.Provider, recommend.DefaultLLMConfig()))
	}
	d.Recommender = append(chain, recommend.Algorithm{})

	return d, nil
}

func (d *deps) Close() error {
	return d.Store.Close()
}

// runApp builds dependencies and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	d, err := buildDeps(ctx, cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	saver := timer.NewSaver(ctx, d.Sink)
	defer saver.Close()

	return app.Run(ctx, app.Options{
		Settings:     d.Settings,
		Recommender:  d.Recommender,
		Saver:        saver,
		Notifier:     notify.NewTerminal(os.Stderr),
		Materials:    d.Materials,
		Generator:    d.Generator,
		Events:       d.Store.EventRepo(),
		Achievements: d.Achievements,
		Analytics:    d.Analytics,
		UserID:       persist.LocalUserID,
		QuizCount:    practice.DefaultCount,
		QuizType:     practice.TypeMixed,
	})
}
