package tutor

import "github.com/abhisek/lingua/internal/llm"

// QuizSchema defines the JSON schema for quiz generation.
var QuizSchema = &llm.Schema{
	Name:        "language-quiz",
	Description: "A short comprehension quiz on one topic at a CEFR level",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Short quiz title (3-8 words)",
			},
			"questions": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"type": map[string]any{
							"type": "string",
							"enum": []any{"multiple-choice", "short-answer"},
						},
						"question": map[string]any{
							"type":        "string",
							"description": "The question text",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Four options for multiple-choice, empty for short-answer",
						},
						"correct": map[string]any{
							"type":        "string",
							"description": "The correct answer",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "Brief explanation of the answer",
						},
					},
					"required":             []any{"type", "question", "options", "correct", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"title", "questions"},
		"additionalProperties": false,
	},
}
