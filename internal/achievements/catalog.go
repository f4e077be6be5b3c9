package achievements

var catalog = []Achievement{
	// Messages
	{ID: "first-message", Title: "First Words", Description: "Send your first message", Icon: "💬", Category: CategoryLearning, Requirement: 1, Stat: StatTotalMessages},
	{ID: "10-messages", Title: "Chatty Learner", Description: "Send 10 messages", Icon: "🗣️", Category: CategoryLearning, Requirement: 10, Stat: StatTotalMessages},
	{ID: "50-messages", Title: "Conversation Pro", Description: "Send 50 messages", Icon: "🎤", Category: CategoryLearning, Requirement: 50, Stat: StatTotalMessages},
	{ID: "100-messages", Title: "Polyglot Speaker", Description: "Send 100 messages", Icon: "🌟", Category: CategoryLearning, Requirement: 100, Stat: StatTotalMessages},

	// XP
	{ID: "xp-100", Title: "First Steps", Description: "Earn 100 XP", Icon: "⚡", Category: CategoryLearning, Requirement: 100, Stat: StatTotalXP},
	{ID: "xp-500", Title: "Rising Star", Description: "Earn 500 XP", Icon: "🌟", Category: CategoryLearning, Requirement: 500, Stat: StatTotalXP},
	{ID: "xp-1000", Title: "Dedicated Learner", Description: "Earn 1,000 XP", Icon: "🏆", Category: CategoryLearning, Requirement: 1000, Stat: StatTotalXP},
	{ID: "xp-5000", Title: "Language Master", Description: "Earn 5,000 XP", Icon: "👑", Category: CategoryMastery, Requirement: 5000, Stat: StatTotalXP},

	// Vocabulary
	{ID: "vocab-5", Title: "Word Collector", Description: "Learn 5 vocabulary words", Icon: "📝", Category: CategoryVocabulary, Requirement: 5, Stat: StatTotalVocab},
	{ID: "vocab-25", Title: "Vocabulary Builder", Description: "Learn 25 vocabulary words", Icon: "📚", Category: CategoryVocabulary, Requirement: 25, Stat: StatTotalVocab},
	{ID: "vocab-50", Title: "Lexicon Explorer", Description: "Learn 50 vocabulary words", Icon: "📖", Category: CategoryVocabulary, Requirement: 50, Stat: StatTotalVocab},
	{ID: "vocab-100", Title: "Dictionary Master", Description: "Learn 100 vocabulary words", Icon: "🧠", Category: CategoryVocabulary, Requirement: 100, Stat: StatTotalVocab},
	{ID: "mastered-5", Title: "Quick Study", Description: "Master 5 vocabulary words", Icon: "✅", Category: CategoryMastery, Requirement: 5, Stat: StatMasteredVocab},
	{ID: "mastered-25", Title: "Knowledge Keeper", Description: "Master 25 vocabulary words", Icon: "🎓", Category: CategoryMastery, Requirement: 25, Stat: StatMasteredVocab},

	// Streaks
	{ID: "streak-3", Title: "Getting Consistent", Description: "Maintain a 3-day streak", Icon: "🔥", Category: CategoryStreak, Requirement: 3, Stat: StatStreak},
	{ID: "streak-7", Title: "Week Warrior", Description: "Maintain a 7-day streak", Icon: "🔥", Category: CategoryStreak, Requirement: 7, Stat: StatStreak},
	{ID: "streak-30", Title: "Monthly Champion", Description: "Maintain a 30-day streak", Icon: "🏅", Category: CategoryStreak, Requirement: 30, Stat: StatStreak},

	// Languages
	{ID: "bilingual", Title: "Bilingual", Description: "Start learning 2 languages", Icon: "🌍", Category: CategorySocial, Requirement: 2, Stat: StatLanguageCount},
	{ID: "trilingual", Title: "Trilingual", Description: "Start learning all 3 languages", Icon: "🌎", Category: CategorySocial, Requirement: 3, Stat: StatLanguageCount},

	// Sessions and topics
	{ID: "sessions-5", Title: "Regular Visitor", Description: "Complete 5 learning sessions", Icon: "📅", Category: CategoryLearning, Requirement: 5, Stat: StatTotalSessions},
	{ID: "sessions-25", Title: "Committed Student", Description: "Complete 25 learning sessions", Icon: "🎯", Category: CategoryLearning, Requirement: 25, Stat: StatTotalSessions},
	{ID: "topics-3", Title: "Topic Explorer", Description: "Complete 3 lesson topics", Icon: "📋", Category: CategoryMastery, Requirement: 3, Stat: StatCompletedTopics},
	{ID: "topics-10", Title: "Curriculum Champion", Description: "Complete 10 lesson topics", Icon: "🏫", Category: CategoryMastery, Requirement: 10, Stat: StatCompletedTopics},
}

var byID = func() map[string]Achievement {
	m := make(map[string]Achievement, len(catalog))
	for _, a := range catalog {
		m[a.ID] = a
	}
	return m
}()

// Catalog returns every achievement in display order.
func Catalog() []Achievement {
	return append([]Achievement(nil), catalog...)
}

// Lookup finds an achievement by id.
func Lookup(id string) (Achievement, bool) {
	a, ok := byID[id]
	return a, ok
}
