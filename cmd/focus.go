package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/abhisek/studydesk/internal/achievements"
	"github.com/abhisek/studydesk/internal/materials"
	"github.com/abhisek/studydesk/internal/notify"
	"github.com/abhisek/studydesk/internal/persist"
	"github.com/abhisek/studydesk/internal/timer"
	"github.com/abhisek/studydesk/internal/ui/components"
)

var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Run the focus timer without the TUI",
	Long: "Runs study sessions and breaks in the foreground, printing the countdown.\n" +
		"Sessions are saved and achievements awarded exactly as in the TUI. Press Ctrl+C to stop.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		d, err := buildDeps(ctx, cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		ref, _ := cmd.Flags().GetString("material")
		file, err := findMaterial(ctx, d.Materials, ref)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		m, initial := timer.New(timer.Config{Settings: d.Settings.Get(), UserID: persist.LocalUserID})
		fr := &focusRun{out: out, mat: file.Material(), d: d, ctx: ctx}
		runner := timer.NewRunner(m, timer.RunnerConfig{
			Recommender: d.Recommender,
			Sink:        d.Sink,
			Notifier:    notify.NewTerminal(os.Stderr),
			OnEffect:    fr.onEffect,
			OnUpdate:    fr.onUpdate,
		})
		fr.runner = runner

		fmt.Fprintf(out, "Studying %s (%s). Ctrl+C to stop.\n", file.Name, file.Subject)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := runner.Do(func(m *timer.Machine) ([]timer.Effect, error) {
				effs, err := m.SelectMaterial(fr.mat)
				if err != nil {
					return nil, err
				}
				start, err := m.Start()
				return append(effs, start...), err
			})
			if err != nil && !errors.Is(err, timer.ErrRunnerStopped) {
				fmt.Fprintln(os.Stderr, "start:", err)
			}
		}()

		err = runner.Run(ctx, initial)
		wg.Wait()
		fmt.Fprintln(out)
		return err
	},
}

// focusRun prints the headless timer's progress. Its callbacks run on the
// runner goroutine.
type focusRun struct {
	ctx     context.Context
	out     io.Writer
	mat     timer.Material
	d       *deps
	runner  *timer.Runner
	last    string
	insight string
}

func (f *focusRun) onUpdate(m *timer.Machine) {
	if in := m.Insight(); in != "" && in != f.insight {
		f.insight = in
		fmt.Fprintf(f.out, "\r%s\x1b[K\n", in)
	}
	line := fmt.Sprintf("%-11s %s  %s", m.Mode().Label(), components.FormatClock(m.Remaining()), stateLabel(m))
	if line == f.last {
		return
	}
	f.last = line
	fmt.Fprintf(f.out, "\r%s\x1b[K", line)
}

func (f *focusRun) onEffect(m *timer.Machine, e timer.Effect) {
	switch e := e.(type) {
	case timer.SessionCompleted:
		verb := "completed"
		if e.Skipped {
			verb = "skipped"
		}
		fmt.Fprintf(f.out, "\r%s %s after %s\x1b[K\n", e.Session.Mode.Label(), verb,
			components.FormatClock(e.Session.ElapsedSeconds))
		if e.Session.Mode == timer.Study {
			f.award(e)
		}
	case timer.PromptMaterial:
		// Keep studying the same material; Do must not block this goroutine.
		go f.runner.Do(func(m *timer.Machine) ([]timer.Effect, error) {
			return m.SelectMaterial(f.mat)
		})
	}
}

func (f *focusRun) award(e timer.SessionCompleted) {
	ev := achievements.StudyEvent{
		SessionID:      e.Session.ID,
		ElapsedSeconds: e.Session.ElapsedSeconds,
		Streak:         e.Aggregate.Streak,
	}
	go func() {
		awards, err := f.d.Achievements.OnStudyCompleted(f.ctx, ev)
		if err != nil {
			slog.Warn("award achievements failed", "session_id", ev.SessionID, "error", err)
			return
		}
		for _, a := range awards {
			fmt.Fprintf(f.out, "\r%s %s unlocked: %s\x1b[K\n", a.Category.Icon(), a.Rarity.DisplayName(), a.Title)
		}
	}()
}

func stateLabel(m *timer.Machine) string {
	switch m.State() {
	case timer.Running:
		return "running"
	case timer.Paused:
		return "paused"
	}
	return "ready"
}

// findMaterial resolves ref as a file id or a case-insensitive name. An
// empty ref picks the first file.
func findMaterial(ctx context.Context, svc *materials.Service, ref string) (materials.File, error) {
	files, err := svc.Files(ctx, persist.LocalUserID)
	if err != nil {
		return materials.File{}, fmt.Errorf("list materials: %w", err)
	}
	if len(files) == 0 {
		return materials.File{}, errors.New("no study materials yet; add one with `studydesk material add <file>`")
	}
	if ref == "" {
		return files[0], nil
	}
	for _, f := range files {
		if f.ID == ref || strings.EqualFold(f.Name, ref) {
			return f, nil
		}
	}
	return materials.File{}, fmt.Errorf("%q: %w", ref, materials.ErrNotFound)
}

func init() {
	focusCmd.Flags().StringP("material", "m", "", "Material id or name to study (default: first material)")
}
