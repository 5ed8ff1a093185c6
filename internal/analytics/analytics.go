// Package analytics computes productivity statistics from persisted study
// sessions and quiz attempts.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/studydesk/internal/store"
)

// DefaultDays is the default length of the per-day window.
const DefaultDays = 7

// DayStat is the study time completed on one calendar day.
type DayStat struct {
	Date     time.Time `json:"date"`
	Minutes  int       `json:"minutes"`
	Sessions int       `json:"sessions"`
}

// Stats is the productivity summary.
type Stats struct {
	// Days covers the window ending today, oldest first, one entry per day.
	Days []DayStat `json:"days"`

	TotalSessions         int     `json:"totalSessions"`
	TotalMinutes          int     `json:"totalMinutes"`
	AverageSessionMinutes float64 `json:"averageSessionMinutes"`
	AIRecommendedShare    float64 `json:"aiRecommendedShare"`
	BreakSessions         int     `json:"breakSessions"`

	QuizAttempts int     `json:"quizAttempts"`
	QuizAccuracy float64 `json:"quizAccuracy"`

	// BestDay is the day with the most study minutes ever; nil without
	// any completed study session.
	BestDay *DayStat `json:"bestDay,omitempty"`
}

// Compute builds Stats from raw rows. Only completed sessions count. Days
// are bucketed by completion time in loc.
func Compute(sessions []store.SessionRecord, attempts []store.QuizAttemptRecord, now time.Time, days int, loc *time.Location) Stats {
	if days <= 0 {
		days = DefaultDays
	}
	if loc == nil {
		loc = time.Local
	}

	var st Stats
	secondsByDay := make(map[time.Time]int)
	sessionsByDay := make(map[time.Time]int)
	totalSecs, aiCount := 0, 0

	for _, s := range sessions {
		if !s.Completed {
			continue
		}
		if s.Mode != "study" {
			st.BreakSessions++
			continue
		}
		st.TotalSessions++
		totalSecs += s.ElapsedSecs
		if s.AIRecommended {
			aiCount++
		}
		day := dayOf(s.UpdatedAt, loc)
		secondsByDay[day] += s.ElapsedSecs
		sessionsByDay[day]++
	}

	st.TotalMinutes = totalSecs / 60
	if st.TotalSessions > 0 {
		st.AverageSessionMinutes = float64(totalSecs) / 60 / float64(st.TotalSessions)
		st.AIRecommendedShare = float64(aiCount) / float64(st.TotalSessions)
	}

	today := dayOf(now, loc)
	st.Days = make([]DayStat, days)
	for i := range st.Days {
		d := today.AddDate(0, 0, i-days+1)
		st.Days[i] = DayStat{Date: d, Minutes: secondsByDay[d] / 60, Sessions: sessionsByDay[d]}
	}

	for d, secs := range secondsByDay {
		if st.BestDay == nil || secs/60 > st.BestDay.Minutes ||
			(secs/60 == st.BestDay.Minutes && d.After(st.BestDay.Date)) {
			st.BestDay = &DayStat{Date: d, Minutes: secs / 60, Sessions: sessionsByDay[d]}
		}
	}

	questions, correct := 0, 0
	for _, a := range attempts {
		st.QuizAttempts++
		questions += a.QuestionCount
		correct += a.Score
	}
	if questions > 0 {
		st.QuizAccuracy = float64(correct) / float64(questions)
	}
	return st
}

func dayOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Service loads rows from the store and computes Stats.
type Service struct {
	sessions store.SessionRepo
	events   store.EventRepo
	now      func() time.Time
	loc      *time.Location
}

// NewService creates a Service.
func NewService(sessions store.SessionRepo, events store.EventRepo) *Service {
	return &Service{sessions: sessions, events: events, now: time.Now, loc: time.Local}
}

// Stats computes statistics for userID over a window of days.
func (s *Service) Stats(ctx context.Context, userID string, days int) (Stats, error) {
	rows, err := s.sessions.QuerySessions(ctx, store.SessionFilter{UserID: userID, CompletedOnly: true})
	if err != nil {
		return Stats{}, fmt.Errorf("load sessions: %w", err)
	}
	attempts, err := s.events.QueryQuizAttempts(ctx, store.QueryOpts{})
	if err != nil {
		return Stats{}, fmt.Errorf("load quiz attempts: %w", err)
	}
	mine := attempts[:0]
	for _, a := range attempts {
		if userID == "" || a.UserID == userID {
			mine = append(mine, a)
		}
	}
	return Compute(rows, mine, s.now(), days, s.loc), nil
}

// History returns the most recent sessions, completed or not.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]store.SessionRecord, error) {
	return s.sessions.QuerySessions(ctx, store.SessionFilter{UserID: userID, Limit: limit})
}
