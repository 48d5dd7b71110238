package service

import (
	"context"
	"errors"
	"testing"

	"codelab/internal/common"
	"codelab/internal/domain/model"
	"codelab/internal/platform/judge0"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newProblemServiceForTest(judge *fakeJudge, repo *fakeProblemRepo) *ProblemService {
	return NewProblemService(repo, judge, nil, zap.NewNop().Sugar())
}

func validProblemRequest() ProblemRequest {
	return ProblemRequest{
		Title:       "Two Sum",
		Description: "Find two numbers adding up to the target.",
		Difficulty:  model.DifficultyEasy,
		Tags:        []string{"arrays"},
		Constraints: "2 <= n <= 10^4",
		TestCases: []model.TestCase{
			{Input: "1 2", Output: "3"},
			{Input: "3 4", Output: "7"},
		},
		ReferenceSolutions: map[string]string{
			"PYTHON": "print(sum(map(int, input().split())))",
		},
	}
}

func TestCreateProblemRejectsNonAdmin(t *testing.T) {
	judge := &fakeJudge{}
	repo := newFakeProblemRepo()
	svc := newProblemServiceForTest(judge, repo)

	_, err := svc.CreateProblem(context.Background(), "user-1", model.RoleUser, validProblemRequest())

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrForbidden)
	assert.Zero(t, judge.submitCalls(), "no judge calls before the role check passes")
	assert.Empty(t, repo.created)
}

func TestCreateProblemRejectsInvalidPayload(t *testing.T) {
	judge := &fakeJudge{}
	repo := newFakeProblemRepo()
	svc := newProblemServiceForTest(judge, repo)

	req := validProblemRequest()
	req.TestCases = nil

	_, err := svc.CreateProblem(context.Background(), "admin-1", model.RoleAdmin, req)

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Zero(t, judge.submitCalls())
	assert.Empty(t, repo.created)
}

func TestCreateProblemRejectsUnsupportedReferenceLanguage(t *testing.T) {
	judge := &fakeJudge{}
	repo := newFakeProblemRepo()
	svc := newProblemServiceForTest(judge, repo)

	req := validProblemRequest()
	req.ReferenceSolutions = map[string]string{"COBOL": "DISPLAY 'x'."}

	_, err := svc.CreateProblem(context.Background(), "admin-1", model.RoleAdmin, req)

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnsupportedLanguage)
	assert.Empty(t, repo.created)
}

func TestCreateProblemFailingReferenceCase(t *testing.T) {
	judge := &fakeJudge{
		results: map[string]judge0.Result{
			// Second case comes back as Wrong Answer from the judge.
			"tok-3 4": {
				Token:  "tok-3 4",
				Status: judge0.Status{ID: 4, Description: "Wrong Answer"},
			},
		},
	}
	repo := newFakeProblemRepo()
	svc := newProblemServiceForTest(judge, repo)

	_, err := svc.CreateProblem(context.Background(), "admin-1", model.RoleAdmin, validProblemRequest())

	require.Error(t, err)
	var tcErr *common.TestCaseFailedError
	require.True(t, errors.As(err, &tcErr))
	assert.Equal(t, "PYTHON", tcErr.Language)
	assert.Equal(t, 2, tcErr.TestCase)
	assert.Empty(t, repo.created, "a failing reference solution must not be stored")
}

func TestCreateProblemValidatesEveryLanguage(t *testing.T) {
	judge := &fakeJudge{}
	repo := newFakeProblemRepo()
	svc := newProblemServiceForTest(judge, repo)

	req := validProblemRequest()
	req.ReferenceSolutions = map[string]string{
		"PYTHON": "print(sum(map(int, input().split())))",
		"GO":     "package main\nfunc main() {}",
	}

	problem, err := svc.CreateProblem(context.Background(), "admin-1", model.RoleAdmin, req)

	require.NoError(t, err)
	assert.Equal(t, 2, judge.submitCalls(), "one batch per reference language")
	require.Len(t, repo.created, 1)
	assert.Equal(t, "two-sum", problem.Slug)
	assert.Equal(t, "admin-1", problem.UserID)
}

func TestCreateProblemSendsExpectedOutputsToJudge(t *testing.T) {
	judge := &fakeJudge{}
	repo := newFakeProblemRepo()
	svc := newProblemServiceForTest(judge, repo)

	_, err := svc.CreateProblem(context.Background(), "admin-1", model.RoleAdmin, validProblemRequest())
	require.NoError(t, err)

	require.Equal(t, 1, judge.submitCalls())
	entries := judge.submitted[0]
	require.Len(t, entries, 2)
	assert.Equal(t, "1 2", entries[0].Stdin)
	assert.Equal(t, "3", entries[0].ExpectedOutput, "reference runs are graded by the judge itself")
	assert.Equal(t, 71, entries[0].LanguageID)
}

func TestUpdateProblemRevalidates(t *testing.T) {
	existing := &model.Problem{ID: "prob-1", Title: "Old", UserID: "admin-1"}
	judge := &fakeJudge{}
	repo := newFakeProblemRepo(existing)
	svc := newProblemServiceForTest(judge, repo)

	req := validProblemRequest()
	updated, err := svc.UpdateProblem(context.Background(), "prob-1", model.RoleAdmin, req)

	require.NoError(t, err)
	assert.Equal(t, 1, judge.submitCalls())
	assert.Equal(t, "prob-1", updated.ID)
	assert.Equal(t, "two-sum", updated.Slug)
	assert.Equal(t, "admin-1", updated.UserID, "authorship survives updates")
	require.Len(t, repo.updated, 1)
}

func TestUpdateProblemUnknownID(t *testing.T) {
	svc := newProblemServiceForTest(&fakeJudge{}, newFakeProblemRepo())

	_, err := svc.UpdateProblem(context.Background(), "missing", model.RoleAdmin, validProblemRequest())
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeleteProblemRejectsNonAdmin(t *testing.T) {
	repo := newFakeProblemRepo(&model.Problem{ID: "prob-1"})
	svc := newProblemServiceForTest(&fakeJudge{}, repo)

	err := svc.DeleteProblem(context.Background(), "prob-1", model.RoleUser)
	require.ErrorIs(t, err, common.ErrForbidden)

	_, err = repo.FindByID(context.Background(), "prob-1")
	assert.NoError(t, err, "problem must still exist")
}
