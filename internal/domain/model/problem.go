package model

import (
	"encoding/json"
	"time"
)

type ProblemDifficulty string

const (
	DifficultyEasy   ProblemDifficulty = "EASY"
	DifficultyMedium ProblemDifficulty = "MEDIUM"
	DifficultyHard   ProblemDifficulty = "HARD"
)

// TestCase is one declared {input, expected output} pair of a problem.
// Order matters: the judge pairs results with expected outputs by index.
type TestCase struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

type Problem struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Slug        string            `json:"slug"`
	Description string            `json:"description"`
	Difficulty  ProblemDifficulty `json:"difficulty"`
	Tags        []string          `json:"tags"`
	// Examples is free-form per-language example blocks authored by admins.
	Examples    json.RawMessage `json:"examples,omitempty"`
	Constraints string          `json:"constraints"`
	Hints       *string         `json:"hints,omitempty"`
	Editorial   *string         `json:"editorial,omitempty"`
	TestCases   []TestCase      `json:"testcases"`
	// CodeSnippets maps language name to starter code shown in the editor.
	CodeSnippets map[string]string `json:"code_snippets"`
	// ReferenceSolutions maps language name to the admin-authored correct
	// solution validated against every test case before the problem is stored.
	ReferenceSolutions map[string]string `json:"reference_solutions,omitempty"`
	UserID             string            `json:"user_id"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// ProblemSolved marks that a user has at least one fully-passing submission
// for a problem. Keyed by (user, problem); upserts are no-ops on conflict.
type ProblemSolved struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ProblemID string    `json:"problem_id"`
	CreatedAt time.Time `json:"created_at"`
}
