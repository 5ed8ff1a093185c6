package achievements

import "fmt"

// Definition describes one achievement kind. Milestone kinds are earned
// once; perfect quizzes are earned every time.
type Definition struct {
	Kind      string
	Category  Category
	Threshold int
	Rarity    Rarity
	Title     string
	Repeats   bool
}

// Milestone thresholds per category.
var (
	SessionMilestones = []int{5, 10, 25, 50, 100}
	StreakMilestones  = []int{3, 5, 8, 12}
	FocusHourMarks    = []int{1, 5, 10, 25, 50, 100}
	QuizMilestones    = []int{1, 5, 10, 25, 50}
)

// Kinds outside the milestone series.
const (
	KindFirstSession = "first_session"
	KindPerfectQuiz  = "perfect_quiz"
)

var catalog = buildCatalog()

func buildCatalog() map[string]Definition {
	defs := map[string]Definition{
		KindFirstSession: {Kind: KindFirstSession, Category: CategoryFirst, Threshold: 1, Rarity: RarityCommon, Title: "First Focus"},
		KindPerfectQuiz:  {Kind: KindPerfectQuiz, Category: CategoryPerfect, Threshold: 1, Rarity: RarityEpic, Title: "Flawless", Repeats: true},
	}
	add := func(cat Category, prefix string, marks []int, title func(int) string) {
		for i, n := range marks {
			kind := fmt.Sprintf("%s_%d", prefix, n)
			defs[kind] = Definition{
				Kind:      kind,
				Category:  cat,
				Threshold: n,
				Rarity:    tierRarity(i, len(marks)),
				Title:     title(n),
			}
		}
	}
	add(CategorySessions, "sessions", SessionMilestones, func(n int) string { return fmt.Sprintf("%d Sessions", n) })
	add(CategoryStreak, "streak", StreakMilestones, func(n int) string { return fmt.Sprintf("%d in a Row", n) })
	add(CategoryFocus, "focus_hours", FocusHourMarks, func(n int) string {
		if n == 1 {
			return "First Hour"
		}
		return fmt.Sprintf("%d Focus Hours", n)
	})
	add(CategoryQuiz, "quizzes", QuizMilestones, func(n int) string {
		if n == 1 {
			return "First Quiz"
		}
		return fmt.Sprintf("%d Quizzes", n)
	})
	return defs
}

// tierRarity spreads the milestones of a category over the rarity tiers,
// the last one always legendary.
func tierRarity(i, n int) Rarity {
	switch {
	case i == n-1:
		return RarityLegendary
	case i*4 >= n*2:
		return RarityEpic
	case i*4 >= n:
		return RarityRare
	default:
		return RarityCommon
	}
}

// Lookup returns the definition of kind.
func Lookup(kind string) (Definition, bool) {
	d, ok := catalog[kind]
	return d, ok
}

// CategoryOf returns the category of kind, or "" for unknown kinds.
func CategoryOf(kind string) Category {
	return catalog[kind].Category
}

// StudyCandidates returns every study achievement the totals qualify for.
func StudyCandidates(completedSessions, totalStudySeconds, streak int) []Definition {
	var out []Definition
	if completedSessions >= 1 {
		out = append(out, catalog[KindFirstSession])
	}
	out = append(out, reached("sessions", SessionMilestones, completedSessions)...)
	out = append(out, reached("streak", StreakMilestones, streak)...)
	out = append(out, reached("focus_hours", FocusHourMarks, totalStudySeconds/3600)...)
	return out
}

// QuizCandidates returns every quiz achievement a finished quiz qualifies
// for.
func QuizCandidates(attempts, score, total int) []Definition {
	out := reached("quizzes", QuizMilestones, attempts)
	if total > 0 && score == total {
		out = append(out, catalog[KindPerfectQuiz])
	}
	return out
}

func reached(prefix string, marks []int, value int) []Definition {
	var out []Definition
	for _, n := range marks {
		if value >= n {
			out = append(out, catalog[fmt.Sprintf("%s_%d", prefix, n)])
		}
	}
	return out
}
