package recommend

import "context"

// Algorithm is the deterministic heuristic recommender. It never fails and
// is the fallback when the AI recommender is unavailable.
type Algorithm struct{}

// Recommend starts from a time-of-day baseline, blends in the student's
// own average session length, then shortens for a long day or fatigue.
func (Algorithm) Recommend(_ context.Context, in Input) (Result, error) {
	minutes, insight := baseline(in.HourOfDay)

	if in.AverageSessionMinutes > 0 {
		minutes = (minutes + in.AverageSessionMinutes) / 2
	}

	switch {
	case in.Fatigued:
		minutes -= 10
		insight = "You've put in a lot today. A shorter session keeps focus sharp."
	case in.HoursStudiedToday >= 2:
		minutes -= 5
		insight = "Solid progress today. Slightly shorter sessions from here."
	case in.CompletedSessions == 0:
		insight = "First session of the day. " + insight
	}

	return Result{
		Minutes: Clamp(minutes),
		Insight: insight,
		Method:  MethodAlgorithm,
	}, nil
}

func baseline(hour int) (float64, string) {
	switch {
	case hour >= 6 && hour < 12:
		return 45, "Mornings are good for deep work."
	case hour >= 12 && hour < 17:
		return 35, "Afternoon session: steady pace."
	case hour >= 17 && hour < 22:
		return 30, "Evening session: keep it focused."
	default:
		return 20, "It's late. Short sessions work best now."
	}
}
