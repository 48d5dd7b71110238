package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"codelab/internal/common"
	"codelab/internal/domain/model"
	"codelab/internal/domain/repository"
	"codelab/internal/platform/judge0"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ExecutionService orchestrates one code-execution attempt end to end:
// validate the test cases, submit one judge entry per case, poll until every
// result is terminal, reduce to a verdict, then persist the submission and
// its per-case results in a single transaction.
type ExecutionService struct {
	submissionRepo repository.SubmissionRepository
	problemRepo    repository.ProblemRepository
	judge          judge0.Client
	leaderboard    *LeaderboardService
	rdb            *redis.Client
	db             *sql.DB
	log            *zap.SugaredLogger
}

func NewExecutionService(
	subRepo repository.SubmissionRepository,
	probRepo repository.ProblemRepository,
	judge judge0.Client,
	leaderboard *LeaderboardService,
	rdb *redis.Client,
	db *sql.DB,
	log *zap.SugaredLogger,
) *ExecutionService {
	return &ExecutionService{
		submissionRepo: subRepo,
		problemRepo:    probRepo,
		judge:          judge,
		leaderboard:    leaderboard,
		rdb:            rdb,
		db:             db,
		log:            log,
	}
}

type ExecuteCodeRequest struct {
	SourceCode      string   `json:"source_code"`
	LanguageID      int      `json:"language_id"`
	Stdin           []string `json:"stdin"`
	ExpectedOutputs []string `json:"expected_outputs"`
	ProblemID       string   `json:"problem_id"`
}

// ExecuteCode runs the submission pipeline. On success exactly one Submission
// and len(stdin) TestCaseResults exist; any failure before the persistence
// step leaves zero rows behind.
func (s *ExecutionService) ExecuteCode(ctx context.Context, userID string, req ExecuteCodeRequest) (*model.Submission, error) {
	if len(req.Stdin) == 0 || len(req.ExpectedOutputs) != len(req.Stdin) {
		return nil, fmt.Errorf("stdin and expected_outputs must be non-empty and equal length: %w", common.ErrInvalidTestCases)
	}

	language, err := judge0.LanguageName(req.LanguageID)
	if err != nil {
		return nil, err
	}

	if _, err := s.problemRepo.FindByID(ctx, req.ProblemID); err != nil {
		return nil, fmt.Errorf("problem not found: %w", err)
	}

	entries := make([]judge0.Submission, len(req.Stdin))
	for i, input := range req.Stdin {
		entries[i] = judge0.Submission{
			SourceCode: req.SourceCode,
			LanguageID: req.LanguageID,
			Stdin:      input,
		}
	}

	tokens, err := s.judge.SubmitBatch(ctx, entries)
	if err != nil {
		return nil, err
	}
	results, err := s.judge.PollBatchResults(ctx, tokens)
	if err != nil {
		return nil, err
	}

	verdict, err := ReduceVerdict(results, req.ExpectedOutputs)
	if err != nil {
		return nil, err
	}

	submission := &model.Submission{
		ID:            uuid.NewString(),
		UserID:        userID,
		ProblemID:     req.ProblemID,
		SourceCode:    req.SourceCode,
		Language:      language,
		Stdin:         strings.Join(req.Stdin, "\n"),
		Stdout:        verdict.Stdout,
		Stderr:        verdict.Stderr,
		CompileOutput: verdict.CompileOutput,
		Status:        model.SubmissionStatus(verdict.Status()),
		Memory:        verdict.Memory,
		Time:          verdict.Time,
	}

	testCases := make([]model.TestCaseResult, len(verdict.Cases))
	for i, c := range verdict.Cases {
		testCases[i] = model.TestCaseResult{
			ID:             uuid.NewString(),
			SubmissionID:   submission.ID,
			ProblemID:      req.ProblemID,
			TestCase:       c.TestCase,
			Passed:         c.Passed,
			Stdout:         c.Stdout,
			ExpectedOutput: c.ExpectedOutput,
			Stderr:         c.Stderr,
			CompileOutput:  c.CompileOutput,
			Status:         c.Status,
			Memory:         c.Memory,
			Time:           c.Time,
		}
	}

	firstSolve := false
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.submissionRepo.Create(ctx, tx, submission); err != nil {
		return nil, common.Errorf("failed to store submission: %w", err)
	}
	if err := s.submissionRepo.CreateTestCaseResults(ctx, tx, testCases); err != nil {
		return nil, common.Errorf("failed to store test case results: %w", err)
	}
	if verdict.AllPassed {
		firstSolve, err = s.submissionRepo.MarkProblemSolved(ctx, tx, userID, req.ProblemID)
		if err != nil {
			return nil, common.Errorf("failed to mark problem solved: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit submission: %w", err)
	}

	if firstSolve && s.leaderboard != nil {
		// Best effort: the submission is already durable.
		if err := s.leaderboard.RecordSolve(ctx, userID); err != nil {
			s.log.Warnw("failed to record solve on leaderboard", "user_id", userID, "error", err)
		}
	}

	if s.rdb != nil {
		// The cached per-problem count is stale now; drop it so the next read
		// repopulates from the database.
		if err := s.rdb.Del(ctx, submissionCountKey(req.ProblemID)).Err(); err != nil {
			s.log.Warnw("failed to invalidate submission count", "problem_id", req.ProblemID, "error", err)
		}
	}

	s.log.Infow("submission executed",
		"submission_id", submission.ID,
		"problem_id", req.ProblemID,
		"status", submission.Status,
		"test_cases", len(testCases),
	)

	submission.TestCases = testCases
	return submission, nil
}
