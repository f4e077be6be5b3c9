package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func vocabItemSchema() *Schema {
	return &Schema{
		Name:        "test-vocab-item",
		Description: "A vocabulary item",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"word":         map[string]any{"type": "string", "minLength": 1},
				"translation":  map[string]any{"type": "string", "minLength": 1},
				"partOfSpeech": map[string]any{"type": "string", "enum": []any{"noun", "verb", "adjective", "adverb", "phrase"}},
			},
			"required": []any{"word", "translation"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"complete", `{"word":"perro","translation":"dog","partOfSpeech":"noun"}`, false},
		{"optional omitted", `{"word":"gato","translation":"cat"}`, false},
		{"missing translation", `{"word":"casa"}`, true},
		{"empty word", `{"word":"","translation":"house"}`, true},
		{"wrong type", `{"word":"uno","translation":1}`, true},
		{"unknown part of speech", `{"word":"y","translation":"and","partOfSpeech":"conjunction"}`, true},
		{"malformed", `{word: perro}`, true},
		{"empty", ``, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(vocabItemSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			var invErr *ErrInvalidResponse
			if !errors.As(err, &invErr) {
				t.Fatalf("expected ErrInvalidResponse, got %T", err)
			}
			if string(invErr.Content) != tt.raw {
				t.Errorf("content = %q, want the raw response", invErr.Content)
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`"anything"`)); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestValidateJSON_QuizShape(t *testing.T) {
	schema := &Schema{
		Name:        "test-quiz",
		Description: "Quiz with nested questions",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title": map[string]any{"type": "string"},
				"questions": map[string]any{
					"type":     "array",
					"minItems": 1,
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"question": map[string]any{"type": "string"},
							"options":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
							"correct":  map[string]any{"type": "string"},
						},
						"required": []any{"question", "correct"},
					},
				},
			},
			"required": []any{"title", "questions"},
		},
	}

	valid := json.RawMessage(`{"title":"Saludos","questions":[{"question":"hello?","options":["hola","adiós"],"correct":"hola"}]}`)
	if err := ValidateJSON(schema, valid); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	for _, raw := range []string{
		`{"title":"Saludos","questions":[]}`,
		`{"title":"Saludos","questions":[{"question":"hello?"}]}`,
		`{"title":"Saludos","questions":[{"question":"hello?","options":[1,2],"correct":"hola"}]}`,
	} {
		if err := ValidateJSON(schema, json.RawMessage(raw)); err == nil {
			t.Errorf("expected error for %s", raw)
		}
	}
}
