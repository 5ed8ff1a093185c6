package achievements

import "time"

// Category groups achievement kinds for display.
type Category string

const (
	CategoryFirst    Category = "first"
	CategorySessions Category = "sessions"
	CategoryStreak   Category = "streak"
	CategoryFocus    Category = "focus"
	CategoryQuiz     Category = "quiz"
	CategoryPerfect  Category = "perfect"
)

// AllCategories returns all categories in display order.
func AllCategories() []Category {
	return []Category{CategoryFirst, CategorySessions, CategoryStreak, CategoryFocus, CategoryQuiz, CategoryPerfect}
}

// DisplayName returns a human-readable label for the category.
func (c Category) DisplayName() string {
	switch c {
	case CategoryFirst:
		return "First Steps"
	case CategorySessions:
		return "Sessions"
	case CategoryStreak:
		return "Streak"
	case CategoryFocus:
		return "Focus Hours"
	case CategoryQuiz:
		return "Quizzes"
	case CategoryPerfect:
		return "Perfect Quiz"
	default:
		return string(c)
	}
}

// Icon returns the display icon for the category.
func (c Category) Icon() string {
	switch c {
	case CategoryFirst:
		return "🌱"
	case CategorySessions:
		return "🏆"
	case CategoryStreak:
		return "⚡"
	case CategoryFocus:
		return "⏳"
	case CategoryQuiz:
		return "📝"
	case CategoryPerfect:
		return "💎"
	default:
		return "✦"
	}
}

// Rarity is the tier of an achievement.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// AllRarities returns all rarities from lowest to highest.
func AllRarities() []Rarity {
	return []Rarity{RarityCommon, RarityRare, RarityEpic, RarityLegendary}
}

func (r Rarity) DisplayName() string {
	switch r {
	case RarityCommon:
		return "Common"
	case RarityRare:
		return "Rare"
	case RarityEpic:
		return "Epic"
	case RarityLegendary:
		return "Legendary"
	default:
		return string(r)
	}
}

// Award is one earned achievement.
type Award struct {
	Kind      string    `json:"kind"`
	Category  Category  `json:"category"`
	Rarity    Rarity    `json:"rarity"`
	Title     string    `json:"title"`
	SourceID  string    `json:"sourceId"` // session or quiz id
	Reason    string    `json:"reason"`
	AwardedAt time.Time `json:"awardedAt"`
}
