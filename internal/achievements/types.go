package achievements

import "time"

// Category groups achievements for display.
type Category string

const (
	CategoryLearning   Category = "learning"
	CategoryVocabulary Category = "vocabulary"
	CategoryStreak     Category = "streak"
	CategorySocial     Category = "social"
	CategoryMastery    Category = "mastery"
)

// AllCategories returns all categories in display order.
func AllCategories() []Category {
	return []Category{CategoryLearning, CategoryVocabulary, CategoryStreak, CategorySocial, CategoryMastery}
}

// DisplayName returns a human-readable label for the category.
func (c Category) DisplayName() string {
	switch c {
	case CategoryLearning:
		return "Learning"
	case CategoryVocabulary:
		return "Vocabulary"
	case CategoryStreak:
		return "Streaks"
	case CategorySocial:
		return "Languages"
	case CategoryMastery:
		return "Mastery"
	default:
		return string(c)
	}
}

// Stat names the learner statistic an achievement is measured against.
type Stat string

const (
	StatTotalMessages   Stat = "totalMessages"
	StatTotalXP         Stat = "totalXP"
	StatTotalVocab      Stat = "totalVocab"
	StatMasteredVocab   Stat = "masteredVocab"
	StatStreak          Stat = "streak"
	StatLanguageCount   Stat = "languageCount"
	StatTotalSessions   Stat = "totalSessions"
	StatCompletedTopics Stat = "completedTopics"
)

// Stats is the aggregate learner snapshot achievements are evaluated on.
type Stats struct {
	TotalMessages   int `json:"totalMessages"`
	TotalXP         int `json:"totalXP"`
	TotalVocab      int `json:"totalVocab"`
	MasteredVocab   int `json:"masteredVocab"`
	Streak          int `json:"streak"`
	LanguageCount   int `json:"languageCount"`
	TotalSessions   int `json:"totalSessions"`
	CompletedTopics int `json:"completedTopics"`
}

// Value returns the statistic named by s, or 0 for unknown names.
func (st Stats) Value(s Stat) int {
	switch s {
	case StatTotalMessages:
		return st.TotalMessages
	case StatTotalXP:
		return st.TotalXP
	case StatTotalVocab:
		return st.TotalVocab
	case StatMasteredVocab:
		return st.MasteredVocab
	case StatStreak:
		return st.Streak
	case StatLanguageCount:
		return st.LanguageCount
	case StatTotalSessions:
		return st.TotalSessions
	case StatCompletedTopics:
		return st.CompletedTopics
	default:
		return 0
	}
}

// Achievement is a static catalog entry.
type Achievement struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Category    Category `json:"category"`
	Requirement int      `json:"requirement"`
	Stat        Stat     `json:"stat"`
}

// Unlocked records when an achievement was earned.
type Unlocked struct {
	AchievementID string    `json:"achievementId"`
	UnlockedAt    time.Time `json:"unlockedAt"`
}
