// Package recommend suggests a study session length from the day's
// statistics. Recommenders may be slow or fail; callers fall back to
// Fallback() and never block the timer on them.
package recommend

import (
	"context"
	"errors"
	"math"
)

// Bounds and default for recommended minutes.
const (
	MinMinutes     = 5
	MaxMinutes     = 60
	DefaultMinutes = 25
)

// Method tags recorded on a Result.
const (
	MethodAlgorithm = "algorithm"
	MethodAI        = "ai"
	MethodDefault   = "default"
)

// Fatigue thresholds: either one sets Input.Fatigued.
const (
	FatigueHours    = 3.0
	FatigueSessions = 6
)

// ErrNoMinutes is returned by Normalize when a response carries no usable
// minute value.
var ErrNoMinutes = errors.New("recommendation has no usable minutes")

// Input is a snapshot of today's study statistics, rebuilt for every
// request.
type Input struct {
	HoursStudiedToday     float64 `json:"hoursStudiedToday"`
	CompletedSessions     int     `json:"completedSessionCount"`
	AverageSessionMinutes float64 `json:"averageSessionMinutes"`
	HourOfDay             int     `json:"hourOfDay"`
	Fatigued              bool    `json:"fatigueFlag"`
}

// NewInput derives an Input from raw daily totals.
func NewInput(totalStudySeconds, completedSessions, hourOfDay int) Input {
	hours := float64(totalStudySeconds) / 3600
	in := Input{
		HoursStudiedToday: math.Round(hours*100) / 100,
		CompletedSessions: completedSessions,
		HourOfDay:         hourOfDay,
	}
	if completedSessions > 0 {
		avg := float64(totalStudySeconds) / 60 / float64(completedSessions)
		in.AverageSessionMinutes = math.Round(avg*10) / 10
	}
	in.Fatigued = hours >= FatigueHours || completedSessions >= FatigueSessions
	return in
}

// Result is a recommendation ready for the timer: Minutes is always in
// [MinMinutes, MaxMinutes].
type Result struct {
	Minutes int    `json:"minutes"`
	Insight string `json:"insight,omitempty"`
	Method  string `json:"method"`
}

// Recommender produces a session length for the given statistics.
type Recommender interface {
	Recommend(ctx context.Context, in Input) (Result, error)
}

// Valid reports whether v is usable as a minute count: finite and > 0.
func Valid(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

// Clamp rounds a valid minute value and bounds it to [MinMinutes,
// MaxMinutes]. Invalid values map to DefaultMinutes.
func Clamp(v float64) int {
	if !Valid(v) {
		return DefaultMinutes
	}
	m := int(math.Round(v))
	switch {
	case m < MinMinutes:
		return MinMinutes
	case m > MaxMinutes:
		return MaxMinutes
	}
	return m
}

// Fallback is the degraded result used when no recommender answer is
// usable.
func Fallback() Result {
	return Result{
		Minutes: DefaultMinutes,
		Insight: "Recommendation unavailable, using default 25-minute session",
		Method:  MethodDefault,
	}
}
