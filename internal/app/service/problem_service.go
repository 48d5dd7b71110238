package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"codelab/internal/common"
	"codelab/internal/domain/model"
	"codelab/internal/domain/repository"
	"codelab/internal/platform/judge0"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ProblemService owns problem CRUD and the authoring gate: a problem is only
// stored after every reference solution passes every declared test case in
// every declared language.
type ProblemService struct {
	problemRepo repository.ProblemRepository
	judge       judge0.Client
	db          *sql.DB
	validate    *validator.Validate
	log         *zap.SugaredLogger
}

func NewProblemService(problemRepo repository.ProblemRepository, judge judge0.Client, db *sql.DB, log *zap.SugaredLogger) *ProblemService {
	return &ProblemService{
		problemRepo: problemRepo,
		judge:       judge,
		db:          db,
		validate:    validator.New(),
		log:         log,
	}
}

type ProblemRequest struct {
	Title              string                  `json:"title" validate:"required"`
	Description        string                  `json:"description" validate:"required"`
	Difficulty         model.ProblemDifficulty `json:"difficulty" validate:"required,oneof=EASY MEDIUM HARD"`
	Tags               []string                `json:"tags"`
	Examples           json.RawMessage         `json:"examples"`
	Constraints        string                  `json:"constraints"`
	Hints              *string                 `json:"hints,omitempty"`
	Editorial          *string                 `json:"editorial,omitempty"`
	TestCases          []model.TestCase        `json:"testcases" validate:"required,min=1,dive"`
	CodeSnippets       map[string]string       `json:"code_snippets"`
	ReferenceSolutions map[string]string       `json:"reference_solutions" validate:"required,min=1"`
}

func (s *ProblemService) CreateProblem(ctx context.Context, userID, userRole string, req ProblemRequest) (*model.Problem, error) {
	if userRole != model.RoleAdmin {
		return nil, fmt.Errorf("only admins may create problems: %w", common.ErrForbidden)
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid problem payload: %v: %w", err, common.ErrValidation)
	}

	if err := s.validateReferenceSolutions(ctx, req.ReferenceSolutions, req.TestCases); err != nil {
		return nil, err
	}

	problem := &model.Problem{
		ID:                 uuid.NewString(),
		Title:              req.Title,
		Slug:               slug.Make(req.Title),
		Description:        req.Description,
		Difficulty:         req.Difficulty,
		Tags:               req.Tags,
		Examples:           req.Examples,
		Constraints:        req.Constraints,
		Hints:              req.Hints,
		Editorial:          req.Editorial,
		TestCases:          req.TestCases,
		CodeSnippets:       req.CodeSnippets,
		ReferenceSolutions: req.ReferenceSolutions,
		UserID:             userID,
	}

	if err := s.problemRepo.Create(ctx, nil, problem); err != nil {
		return nil, err
	}

	s.log.Infow("problem created", "problem_id", problem.ID, "slug", problem.Slug, "languages", len(req.ReferenceSolutions))
	return problem, nil
}

// UpdateProblem re-validates exactly like creation and then replaces every
// field of the stored problem.
func (s *ProblemService) UpdateProblem(ctx context.Context, problemID, userRole string, req ProblemRequest) (*model.Problem, error) {
	if userRole != model.RoleAdmin {
		return nil, fmt.Errorf("only admins may update problems: %w", common.ErrForbidden)
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid problem payload: %v: %w", err, common.ErrValidation)
	}

	existing, err := s.problemRepo.FindByID(ctx, problemID)
	if err != nil {
		return nil, err
	}

	if err := s.validateReferenceSolutions(ctx, req.ReferenceSolutions, req.TestCases); err != nil {
		return nil, err
	}

	updated := &model.Problem{
		ID:                 existing.ID,
		Title:              req.Title,
		Slug:               slug.Make(req.Title),
		Description:        req.Description,
		Difficulty:         req.Difficulty,
		Tags:               req.Tags,
		Examples:           req.Examples,
		Constraints:        req.Constraints,
		Hints:              req.Hints,
		Editorial:          req.Editorial,
		TestCases:          req.TestCases,
		CodeSnippets:       req.CodeSnippets,
		ReferenceSolutions: req.ReferenceSolutions,
		UserID:             existing.UserID,
	}

	if err := s.problemRepo.Update(ctx, nil, updated); err != nil {
		return nil, err
	}

	s.log.Infow("problem updated", "problem_id", updated.ID, "slug", updated.Slug)
	return updated, nil
}

// validateReferenceSolutions runs every declared (language, solution) pair
// against every test case. Languages are independent, so they are validated
// concurrently; the first failure cancels the rest. A case fails when the
// judge's own grading of the expected output is anything but accepted.
func (s *ProblemService) validateReferenceSolutions(ctx context.Context, solutions map[string]string, testCases []model.TestCase) error {
	g, ctx := errgroup.WithContext(ctx)
	for language, solutionCode := range solutions {
		language, solutionCode := language, solutionCode
		g.Go(func() error {
			languageID, err := judge0.LanguageID(language)
			if err != nil {
				return err
			}

			entries := make([]judge0.Submission, len(testCases))
			for i, tc := range testCases {
				entries[i] = judge0.Submission{
					SourceCode:     solutionCode,
					LanguageID:     languageID,
					Stdin:          tc.Input,
					ExpectedOutput: tc.Output,
				}
			}

			tokens, err := s.judge.SubmitBatch(ctx, entries)
			if err != nil {
				return err
			}
			results, err := s.judge.PollBatchResults(ctx, tokens)
			if err != nil {
				return err
			}

			for i, result := range results {
				if result.Status.ID != judge0.StatusIDAccepted {
					return &common.TestCaseFailedError{Language: language, TestCase: i + 1}
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func (s *ProblemService) GetProblem(ctx context.Context, id string) (*model.Problem, error) {
	return s.problemRepo.FindByID(ctx, id)
}

func (s *ProblemService) ListProblems(ctx context.Context, page, pageSize int, difficulty model.ProblemDifficulty, tag string) ([]model.Problem, int, error) {
	offset := (page - 1) * pageSize
	if offset < 0 {
		offset = 0
	}
	return s.problemRepo.List(ctx, pageSize, offset, difficulty, tag)
}

func (s *ProblemService) DeleteProblem(ctx context.Context, problemID, userRole string) error {
	if userRole != model.RoleAdmin {
		return fmt.Errorf("only admins may delete problems: %w", common.ErrForbidden)
	}
	if err := s.problemRepo.Delete(ctx, problemID); err != nil {
		return err
	}
	s.log.Infow("problem deleted", "problem_id", problemID)
	return nil
}

func (s *ProblemService) ListSolvedProblems(ctx context.Context, userID string) ([]model.Problem, error) {
	return s.problemRepo.ListSolvedByUser(ctx, userID)
}
