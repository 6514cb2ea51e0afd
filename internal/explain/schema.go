package explain

import "github.com/abhisek/quizfeed/internal/llm"

// Schema is the structured output requested for one explanation.
var Schema = &llm.Schema{
	Name:        "answer-explanation",
	Description: "Why the correct option of a multiple choice question is correct",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{
				"type":        "string",
				"description": "Two or three plain sentences explaining the correct answer",
			},
			"confident": map[string]any{
				"type":        "boolean",
				"description": "False when the marked answer looks wrong or the question is ambiguous",
			},
		},
		"required":             []any{"explanation", "confident"},
		"additionalProperties": false,
	},
}

const systemPrompt = `You explain answers to short multiple choice quiz questions.
Keep explanations to two or three sentences of plain text with no markdown.
The correct answer is given to you; explain why it is right rather than
re-deciding it. If it looks wrong, still explain it but set confident to false.`
