package markup

// Kind names a tagged JSON block in a tutor reply.
type Kind string

const (
	KindVocab           Kind = "VOCAB"
	KindExercise        Kind = "EXERCISE"
	KindReviewResult    Kind = "REVIEW RESULT"
	KindPlacementResult Kind = "PLACEMENT RESULT"
	KindLessonPlan      Kind = "LESSON PLAN"
	KindLessonComplete  Kind = "LESSON COMPLETE"
	KindQuizResult      Kind = "QUIZ RESULT"
	KindIdiom           Kind = "IDIOM"
)

// Kinds lists every block kind.
func Kinds() []Kind {
	return []Kind{
		KindVocab, KindExercise, KindReviewResult, KindPlacementResult,
		KindLessonPlan, KindLessonComplete, KindQuizResult, KindIdiom,
	}
}

// VocabItem is a word introduced by the tutor.
type VocabItem struct {
	Word         string `json:"word"`
	Translation  string `json:"translation"`
	PartOfSpeech string `json:"partOfSpeech,omitempty"`
	Example      string `json:"example,omitempty"`
	Context      string `json:"context,omitempty"`
}

// ExerciseItem is one question inside an exercise.
type ExerciseItem struct {
	Question    string   `json:"question"`
	Options     []string `json:"options,omitempty"`
	Correct     string   `json:"correct,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
}

// Exercise is a practice task. Single-question exercises carry the
// question inline; multi-question ones use Items.
type Exercise struct {
	Type        string         `json:"type"`
	Instruction string         `json:"instruction"`
	Question    string         `json:"question,omitempty"`
	Options     []string       `json:"options,omitempty"`
	Correct     string         `json:"correct,omitempty"`
	Explanation string         `json:"explanation,omitempty"`
	Items       []ExerciseItem `json:"items,omitempty"`
}

// ReviewResult reports a spaced-repetition review round.
type ReviewResult struct {
	Reviewed  []string `json:"reviewed"`
	Mastered  []string `json:"mastered"`
	NeedsWork []string `json:"needsWork"`
	XPEarned  int      `json:"xpEarned"`
}

// PlacementResult is the outcome of a placement test.
type PlacementResult struct {
	Level          string   `json:"level"`
	Score          float64  `json:"score"`
	Strengths      []string `json:"strengths,omitempty"`
	AreasToImprove []string `json:"areasToImprove,omitempty"`
	Summary        string   `json:"summary,omitempty"`
}

// LessonPlan outlines a structured lesson.
type LessonPlan struct {
	Title         string   `json:"title"`
	Topic         string   `json:"topic"`
	CEFRLevel     string   `json:"cefrLevel,omitempty"`
	Objectives    []string `json:"objectives,omitempty"`
	Vocabulary    []string `json:"vocabulary,omitempty"`
	GrammarPoints []string `json:"grammarPoints,omitempty"`
	CulturalNote  string   `json:"culturalNote,omitempty"`
}

// LessonComplete marks the end of a structured lesson.
type LessonComplete struct {
	Topic             string   `json:"topic"`
	XPEarned          int      `json:"xpEarned"`
	VocabularyLearned []string `json:"vocabularyLearned,omitempty"`
	GrammarCovered    []string `json:"grammarCovered,omitempty"`
	Performance       string   `json:"performance,omitempty"`
}

// QuizResult reports a finished in-chat quiz.
type QuizResult struct {
	Score    int    `json:"score"`
	MaxScore int    `json:"maxScore"`
	XPEarned int    `json:"xpEarned"`
	Feedback string `json:"feedback,omitempty"`
}

// Idiom is an idiomatic expression explained by the culture handler.
type Idiom struct {
	Expression string `json:"expression"`
	Literal    string `json:"literal,omitempty"`
	Meaning    string `json:"meaning"`
	Usage      string `json:"usage,omitempty"`
	Example    string `json:"example,omitempty"`
}

// Correction is an inline [CORRECTION: ...] or [GRAMMAR: ...] marker.
type Correction struct {
	Grammar     bool   `json:"grammar"`
	Wrong       string `json:"wrong"`
	Right       string `json:"right"`
	Explanation string `json:"explanation"`
}

// Parsed collects every valid block found in a reply, in order of
// appearance per kind.
type Parsed struct {
	Vocab           []VocabItem       `json:"vocab,omitempty"`
	Exercises       []Exercise        `json:"exercises,omitempty"`
	Reviews         []ReviewResult    `json:"reviews,omitempty"`
	Placements      []PlacementResult `json:"placements,omitempty"`
	LessonPlans     []LessonPlan      `json:"lessonPlans,omitempty"`
	LessonsComplete []LessonComplete  `json:"lessonsComplete,omitempty"`
	QuizResults     []QuizResult      `json:"quizResults,omitempty"`
	Idioms          []Idiom           `json:"idioms,omitempty"`
	Corrections     []Correction      `json:"corrections,omitempty"`

	// Skipped counts blocks whose body was not valid JSON or failed its
	// schema.
	Skipped int `json:"skipped,omitempty"`
}

// Empty reports whether nothing was extracted.
func (p Parsed) Empty() bool {
	return len(p.Vocab) == 0 && len(p.Exercises) == 0 && len(p.Reviews) == 0 &&
		len(p.Placements) == 0 && len(p.LessonPlans) == 0 && len(p.LessonsComplete) == 0 &&
		len(p.QuizResults) == 0 && len(p.Idioms) == 0 && len(p.Corrections) == 0
}
