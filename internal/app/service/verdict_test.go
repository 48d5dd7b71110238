package service

import (
	"testing"

	"codelab/internal/common"
	"codelab/internal/platform/judge0"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func acceptedResult(stdout string) judge0.Result {
	return judge0.Result{
		Stdout: strPtr(stdout),
		Time:   strPtr("0.012"),
		Memory: intPtr(3040),
		Status: judge0.Status{ID: judge0.StatusIDAccepted, Description: "Accepted"},
	}
}

func TestReduceVerdictAllPassed(t *testing.T) {
	results := []judge0.Result{acceptedResult("3\n"), acceptedResult("7\n")}

	verdict, err := ReduceVerdict(results, []string{"3", "7"})
	require.NoError(t, err)

	assert.True(t, verdict.AllPassed)
	assert.Equal(t, "Accepted", verdict.Status())
	require.Len(t, verdict.Cases, 2)
	assert.Equal(t, 1, verdict.Cases[0].TestCase)
	assert.Equal(t, 2, verdict.Cases[1].TestCase)
	for _, c := range verdict.Cases {
		assert.True(t, c.Passed)
	}
}

func TestReduceVerdictTrimsBothSides(t *testing.T) {
	results := []judge0.Result{acceptedResult("  hello world \n")}

	verdict, err := ReduceVerdict(results, []string{"\nhello world  "})
	require.NoError(t, err)

	assert.True(t, verdict.AllPassed)
	assert.Equal(t, "hello world", *verdict.Cases[0].Stdout)
	assert.Equal(t, "hello world", verdict.Cases[0].ExpectedOutput)
}

func TestReduceVerdictSingleMismatchFailsWholeVerdict(t *testing.T) {
	results := []judge0.Result{
		acceptedResult("1"),
		acceptedResult("wrong"),
		acceptedResult("3"),
	}

	verdict, err := ReduceVerdict(results, []string{"1", "2", "3"})
	require.NoError(t, err)

	assert.False(t, verdict.AllPassed)
	assert.Equal(t, "Wrong Answer", verdict.Status())
	assert.True(t, verdict.Cases[0].Passed)
	assert.False(t, verdict.Cases[1].Passed)
	assert.True(t, verdict.Cases[2].Passed)
}

func TestReduceVerdictNilStdoutNeverPasses(t *testing.T) {
	results := []judge0.Result{{
		Stderr: strPtr("runtime error"),
		Status: judge0.Status{ID: 11, Description: "Runtime Error (NZEC)"},
	}}

	verdict, err := ReduceVerdict(results, []string{""})
	require.NoError(t, err)

	assert.False(t, verdict.AllPassed)
	assert.Nil(t, verdict.Cases[0].Stdout)
	assert.Equal(t, "Runtime Error (NZEC)", verdict.Cases[0].Status)
}

func TestReduceVerdictLengthMismatch(t *testing.T) {
	_, err := ReduceVerdict([]judge0.Result{acceptedResult("1")}, []string{"1", "2"})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrBadRequest)
}

func TestReduceVerdictAggregatesAreIndependent(t *testing.T) {
	results := []judge0.Result{
		{
			Stdout: strPtr("out"),
			Status: judge0.Status{ID: judge0.StatusIDAccepted, Description: "Accepted"},
		},
		{
			Stderr: strPtr("boom"),
			Status: judge0.Status{ID: 11, Description: "Runtime Error (NZEC)"},
		},
	}

	verdict, err := ReduceVerdict(results, []string{"out", "out"})
	require.NoError(t, err)

	// Stdout came from case 1, stderr from case 2; both aggregates exist,
	// while no case ever produced compile output.
	require.NotNil(t, verdict.Stdout)
	assert.JSONEq(t, `["out", null]`, *verdict.Stdout)
	require.NotNil(t, verdict.Stderr)
	assert.JSONEq(t, `[null, "boom"]`, *verdict.Stderr)
	assert.Nil(t, verdict.CompileOutput)
}

func TestReduceVerdictFormatsMemoryAndTime(t *testing.T) {
	verdict, err := ReduceVerdict([]judge0.Result{acceptedResult("x")}, []string{"x"})
	require.NoError(t, err)

	require.NotNil(t, verdict.Cases[0].Memory)
	assert.Equal(t, "3040 KB", *verdict.Cases[0].Memory)
	require.NotNil(t, verdict.Cases[0].Time)
	assert.Equal(t, "0.012 s", *verdict.Cases[0].Time)
}
