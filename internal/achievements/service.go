// Package achievements awards and lists study achievements: first
// session, session and quiz milestones, streaks, focus hours and perfect
// quizzes.
package achievements

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abhisek/studydesk/internal/store"
)

// StudyEvent describes a completed study session.
type StudyEvent struct {
	SessionID      string
	ElapsedSeconds int
	// Streak is the in-run streak after this session.
	Streak int
}

// QuizEvent describes a completed quiz.
type QuizEvent struct {
	QuizID string
	Score  int
	Total  int
}

// Service manages achievement awards.
type Service struct {
	events   store.EventRepo
	sessions store.SessionRepo
	now      func() time.Time
}

// NewService creates a service backed by the store repos.
func NewService(events store.EventRepo, sessions store.SessionRepo) *Service {
	return &Service{events: events, sessions: sessions, now: time.Now}
}

// OnStudyCompleted awards the achievements the session unlocked. The
// session itself may not be saved yet; it is counted either way.
func (s *Service) OnStudyCompleted(ctx context.Context, ev StudyEvent) ([]Award, error) {
	rows, err := s.sessions.QuerySessions(ctx, store.SessionFilter{Mode: "study", CompletedOnly: true})
	if err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}
	count, seconds := 1, ev.ElapsedSeconds
	for _, r := range rows {
		if r.SessionID == ev.SessionID {
			continue
		}
		count++
		seconds += r.ElapsedSecs
	}

	return s.grant(ctx, StudyCandidates(count, seconds, ev.Streak), ev.SessionID, func(d Definition) string {
		switch d.Category {
		case CategoryFirst:
			return "Completed your first study session"
		case CategorySessions:
			return fmt.Sprintf("Completed %d study sessions", d.Threshold)
		case CategoryStreak:
			return fmt.Sprintf("%d study sessions in one sitting", d.Threshold)
		case CategoryFocus:
			return fmt.Sprintf("Studied for %d hours in total", d.Threshold)
		}
		return d.Title
	})
}

// OnQuizCompleted awards quiz achievements. The attempt must already be
// recorded.
func (s *Service) OnQuizCompleted(ctx context.Context, ev QuizEvent) ([]Award, error) {
	attempts, err := s.events.QueryQuizAttempts(ctx, store.QueryOpts{})
	if err != nil {
		return nil, fmt.Errorf("load quiz attempts: %w", err)
	}
	return s.grant(ctx, QuizCandidates(len(attempts), ev.Score, ev.Total), ev.QuizID, func(d Definition) string {
		if d.Category == CategoryPerfect {
			return fmt.Sprintf("Answered all %d questions correctly", ev.Total)
		}
		return fmt.Sprintf("Finished %d practice quizzes", d.Threshold)
	})
}

// List returns earned achievements newest first.
func (s *Service) List(ctx context.Context, limit int) ([]Award, error) {
	recs, err := s.events.QueryAchievements(ctx, store.QueryOpts{Limit: limit})
	if err != nil {
		return nil, err
	}
	out := make([]Award, 0, len(recs))
	for _, r := range recs {
		a := Award{
			Kind:      r.Kind,
			Category:  CategoryOf(r.Kind),
			Rarity:    Rarity(r.Rarity),
			SourceID:  r.SourceID,
			Reason:    r.Reason,
			AwardedAt: r.Timestamp,
		}
		if d, ok := Lookup(r.Kind); ok {
			a.Title = d.Title
		}
		out = append(out, a)
	}
	return out, nil
}

// Counts returns earned achievements per category and the total.
func (s *Service) Counts(ctx context.Context) (map[Category]int, int, error) {
	byKind, total, err := s.events.AchievementCounts(ctx)
	if err != nil {
		return nil, 0, err
	}
	out := make(map[Category]int)
	for kind, n := range byKind {
		out[CategoryOf(kind)] += n
	}
	return out, total, nil
}

func (s *Service) grant(ctx context.Context, defs []Definition, sourceID string, reason func(Definition) string) ([]Award, error) {
	var awards []Award
	for _, d := range defs {
		if !d.Repeats {
			has, err := s.events.HasAchievement(ctx, d.Kind)
			if err != nil {
				return awards, fmt.Errorf("check %s: %w", d.Kind, err)
			}
			if has {
				continue
			}
		}

		a := Award{
			Kind:      d.Kind,
			Category:  d.Category,
			Rarity:    d.Rarity,
			Title:     d.Title,
			SourceID:  sourceID,
			Reason:    reason(d),
			AwardedAt: s.now(),
		}
		if err := s.events.AppendAchievement(ctx, store.AchievementEventData{
			Kind:     a.Kind,
			Rarity:   string(a.Rarity),
			SourceID: a.SourceID,
			Reason:   a.Reason,
		}); err != nil {
			return awards, fmt.Errorf("award %s: %w", d.Kind, err)
		}
		slog.Info("achievement awarded", "kind", a.Kind, "rarity", a.Rarity, "source_id", sourceID)
		awards = append(awards, a)
	}
	return awards, nil
}
