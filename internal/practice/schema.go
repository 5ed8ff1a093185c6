package practice

import "github.com/abhisek/studydesk/internal/llm"

// QuestionSetSchema defines the JSON schema for question generation
// responses.
var QuestionSetSchema = &llm.Schema{
	Name:        "practice-questions",
	Description: "A set of practice questions about the student's study material",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"prompt": map[string]any{
							"type":        "string",
							"description": "The question shown to the student",
						},
						"type": map[string]any{
							"type": "string",
							"enum": []any{"multiple_choice", "true_false"},
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Answer options. 4 for multiple_choice, exactly [\"True\", \"False\"] for true_false.",
						},
						"correct_index": map[string]any{
							"type":        "integer",
							"minimum":     0,
							"description": "Zero-based index of the correct option",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "One or two sentences explaining the correct answer",
						},
					},
					"required":             []any{"prompt", "type", "options", "correct_index", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
