package markup

import "github.com/abhisek/lingua/internal/llm"

func stringArray() map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
}

// schemas validate block bodies. They accept additional properties.
var schemas = map[Kind]*llm.Schema{
	KindVocab: {
		Name: "block-vocab",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"word":         map[string]any{"type": "string", "minLength": 1},
				"translation":  map[string]any{"type": "string"},
				"partOfSpeech": map[string]any{"type": "string"},
				"example":      map[string]any{"type": "string"},
				"context":      map[string]any{"type": "string"},
			},
			"required": []any{"word", "translation"},
		},
	},
	KindExercise: {
		Name: "block-exercise",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"type":        map[string]any{"type": "string"},
				"instruction": map[string]any{"type": "string"},
				"items": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type":     "object",
						"required": []any{"question"},
					},
				},
			},
			"required": []any{"type"},
		},
	},
	KindReviewResult: {
		Name: "block-review-result",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"reviewed":  stringArray(),
				"mastered":  stringArray(),
				"needsWork": stringArray(),
				"xpEarned":  map[string]any{"type": "integer", "minimum": 0},
			},
		},
	},
	KindPlacementResult: {
		Name: "block-placement-result",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"level":          map[string]any{"type": "string", "enum": []any{"A1", "A2", "B1", "B2", "C1", "C2"}},
				"score":          map[string]any{"type": "number"},
				"strengths":      stringArray(),
				"areasToImprove": stringArray(),
				"summary":        map[string]any{"type": "string"},
			},
			"required": []any{"level"},
		},
	},
	KindLessonPlan: {
		Name: "block-lesson-plan",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title":         map[string]any{"type": "string"},
				"topic":         map[string]any{"type": "string"},
				"objectives":    stringArray(),
				"vocabulary":    stringArray(),
				"grammarPoints": stringArray(),
			},
			"required": []any{"title"},
		},
	},
	KindLessonComplete: {
		Name: "block-lesson-complete",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"topic":             map[string]any{"type": "string", "minLength": 1},
				"xpEarned":          map[string]any{"type": "integer", "minimum": 0},
				"vocabularyLearned": stringArray(),
				"grammarCovered":    stringArray(),
			},
			"required": []any{"topic"},
		},
	},
	KindQuizResult: {
		Name: "block-quiz-result",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"score":    map[string]any{"type": "integer", "minimum": 0},
				"maxScore": map[string]any{"type": "integer", "minimum": 0},
				"xpEarned": map[string]any{"type": "integer", "minimum": 0},
				"feedback": map[string]any{"type": "string"},
			},
			"required": []any{"score"},
		},
	},
	KindIdiom: {
		Name: "block-idiom",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"expression": map[string]any{"type": "string", "minLength": 1},
				"meaning":    map[string]any{"type": "string"},
			},
			"required": []any{"expression", "meaning"},
		},
	},
}
