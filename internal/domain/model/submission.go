package model

import "time"

type SubmissionStatus string

const (
	StatusAccepted    SubmissionStatus = "Accepted"
	StatusWrongAnswer SubmissionStatus = "Wrong Answer"
)

// Submission is one code-execution attempt. Immutable once created; the
// aggregate fields hold JSON arrays with one entry per test case and are nil
// when no test case produced that field.
type Submission struct {
	ID            string           `json:"id"`
	UserID        string           `json:"user_id"`
	ProblemID     string           `json:"problem_id"`
	SourceCode    string           `json:"source_code"`
	Language      string           `json:"language"`
	Stdin         string           `json:"stdin"`
	Stdout        *string          `json:"stdout"`
	Stderr        *string          `json:"stderr"`
	CompileOutput *string          `json:"compile_output"`
	Status        SubmissionStatus `json:"status"`
	Memory        *string          `json:"memory"`
	Time          *string          `json:"time"`
	CreatedAt     time.Time        `json:"created_at"`

	TestCases []TestCaseResult `json:"testcases,omitempty"`
}

// TestCaseResult is one test case's outcome within a submission.
// TestCase is the 1-based index.
type TestCaseResult struct {
	ID             string    `json:"id"`
	SubmissionID   string    `json:"submission_id"`
	ProblemID      string    `json:"problem_id"`
	TestCase       int       `json:"test_case"`
	Passed         bool      `json:"passed"`
	Stdout         *string   `json:"stdout"`
	ExpectedOutput string    `json:"expected_output"`
	Stderr         *string   `json:"stderr"`
	CompileOutput  *string   `json:"compile_output"`
	Status         string    `json:"status"`
	Memory         *string   `json:"memory"`
	Time           *string   `json:"time"`
	CreatedAt      time.Time `json:"created_at"`
}
