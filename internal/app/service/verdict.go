package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"codelab/internal/common"
	"codelab/internal/platform/judge0"
)

// CaseVerdict is one test case's reduced outcome. TestCase is 1-based.
type CaseVerdict struct {
	TestCase       int
	Passed         bool
	Stdout         *string
	ExpectedOutput string
	Stderr         *string
	CompileOutput  *string
	Status         string
	Memory         *string
	Time           *string
}

// Verdict is the reduction of a full result set. The aggregate fields hold
// JSON arrays with one entry per test case; each is nil when no case produced
// that field, independently of the others.
type Verdict struct {
	AllPassed     bool
	Cases         []CaseVerdict
	Stdout        *string
	Stderr        *string
	CompileOutput *string
	Memory        *string
	Time          *string
}

// ReduceVerdict pairs judge results with expected outputs by index and
// reduces them to per-case pass/fail plus the aggregates stored on the
// submission. Comparison is whitespace-insensitive on both sides.
func ReduceVerdict(results []judge0.Result, expectedOutputs []string) (*Verdict, error) {
	if len(results) != len(expectedOutputs) {
		return nil, fmt.Errorf("got %d results for %d expected outputs: %w", len(results), len(expectedOutputs), common.ErrBadRequest)
	}

	verdict := &Verdict{AllPassed: true, Cases: make([]CaseVerdict, len(results))}
	for i, result := range results {
		var stdout *string
		if result.Stdout != nil {
			trimmed := strings.TrimSpace(*result.Stdout)
			stdout = &trimmed
		}
		expected := strings.TrimSpace(expectedOutputs[i])

		passed := stdout != nil && *stdout == expected
		if !passed {
			verdict.AllPassed = false
		}

		verdict.Cases[i] = CaseVerdict{
			TestCase:       i + 1,
			Passed:         passed,
			Stdout:         stdout,
			ExpectedOutput: expected,
			Stderr:         result.Stderr,
			CompileOutput:  result.CompileOutput,
			Status:         result.Status.Description,
			Memory:         formatMemory(result.Memory),
			Time:           formatTime(result.Time),
		}
	}

	verdict.Stdout = aggregateField(verdict.Cases, func(c CaseVerdict) *string { return c.Stdout })
	verdict.Stderr = aggregateField(verdict.Cases, func(c CaseVerdict) *string { return c.Stderr })
	verdict.CompileOutput = aggregateField(verdict.Cases, func(c CaseVerdict) *string { return c.CompileOutput })
	verdict.Memory = aggregateField(verdict.Cases, func(c CaseVerdict) *string { return c.Memory })
	verdict.Time = aggregateField(verdict.Cases, func(c CaseVerdict) *string { return c.Time })
	return verdict, nil
}

// Status returns the overall submission status for the verdict.
func (v *Verdict) Status() string {
	if v.AllPassed {
		return "Accepted"
	}
	return "Wrong Answer"
}

// aggregateField serializes one per-case field into a JSON array, or nil when
// no case produced it. One failing field never suppresses another.
func aggregateField(cases []CaseVerdict, pick func(CaseVerdict) *string) *string {
	any := false
	values := make([]*string, len(cases))
	for i, c := range cases {
		values[i] = pick(c)
		if values[i] != nil && *values[i] != "" {
			any = true
		}
	}
	if !any {
		return nil
	}
	serialized, err := json.Marshal(values)
	if err != nil {
		return nil
	}
	s := string(serialized)
	return &s
}

func formatMemory(memory *int) *string {
	if memory == nil {
		return nil
	}
	s := fmt.Sprintf("%d KB", *memory)
	return &s
}

func formatTime(t *string) *string {
	if t == nil {
		return nil
	}
	s := *t + " s"
	return &s
}
