package service

import (
	"context"
	"strconv"
	"time"

	"codelab/internal/domain/model"
	"codelab/internal/domain/repository"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const submissionCountTTL = time.Minute

// submissionCountKey is shared with the execution pipeline, which invalidates
// the key whenever a new submission lands for the problem.
func submissionCountKey(problemID string) string {
	return "submissions:count:" + problemID
}

// SubmissionService is the read side of submissions: listings and the cached
// per-problem submission count.
type SubmissionService struct {
	submissionRepo repository.SubmissionRepository
	rdb            *redis.Client
	log            *zap.SugaredLogger
}

func NewSubmissionService(subRepo repository.SubmissionRepository, rdb *redis.Client, log *zap.SugaredLogger) *SubmissionService {
	return &SubmissionService{submissionRepo: subRepo, rdb: rdb, log: log}
}

func (s *SubmissionService) GetMySubmissions(ctx context.Context, userID string) ([]model.Submission, error) {
	return s.submissionRepo.ListByUser(ctx, userID)
}

func (s *SubmissionService) GetMySubmissionsForProblem(ctx context.Context, userID, problemID string) ([]model.Submission, error) {
	return s.submissionRepo.ListByUserAndProblem(ctx, userID, problemID)
}

func (s *SubmissionService) GetSubmission(ctx context.Context, id string) (*model.Submission, error) {
	sub, err := s.submissionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cases, err := s.submissionRepo.GetTestCaseResults(ctx, id)
	if err != nil {
		return nil, err
	}
	sub.TestCases = cases
	return sub, nil
}

// GetSubmissionCountForProblem serves the count from Redis when fresh,
// falling back to the database and repopulating the cache.
func (s *SubmissionService) GetSubmissionCountForProblem(ctx context.Context, problemID string) (int, error) {
	key := submissionCountKey(problemID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			if count, convErr := strconv.Atoi(cached); convErr == nil {
				return count, nil
			}
		}
	}

	count, err := s.submissionRepo.CountForProblem(ctx, problemID)
	if err != nil {
		return 0, err
	}

	if s.rdb != nil {
		if err := s.rdb.Set(ctx, key, strconv.Itoa(count), submissionCountTTL).Err(); err != nil {
			s.log.Warnw("failed to cache submission count", "problem_id", problemID, "error", err)
		}
	}
	return count, nil
}
