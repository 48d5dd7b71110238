package service

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"sync"
	"testing"

	"codelab/internal/common"
	"codelab/internal/domain/model"
	"codelab/internal/platform/judge0"
)

// nopDriver backs a *sql.DB whose transactions are no-ops, so the
// orchestrator's commit path runs while the fake repositories record the
// writes.
type nopDriver struct{}
type nopConn struct{}
type nopTx struct{}

func (nopDriver) Open(string) (driver.Conn, error)  { return nopConn{}, nil }
func (nopConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (nopConn) Close() error                        { return nil }
func (nopConn) Begin() (driver.Tx, error)           { return nopTx{}, nil }
func (nopTx) Commit() error                         { return nil }
func (nopTx) Rollback() error                       { return nil }

var registerNopDriver sync.Once

func newNopDB(t *testing.T) *sql.DB {
	t.Helper()
	registerNopDriver.Do(func() { sql.Register("nop", nopDriver{}) })
	db, err := sql.Open("nop", "")
	if err != nil {
		t.Fatalf("opening no-op db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// fakeJudge scripts the judge client. Every SubmitBatch call is recorded so
// tests can assert on what was sent.
type fakeJudge struct {
	mu        sync.Mutex
	submitted [][]judge0.Submission

	submitErr error
	pollErr   error
	// results maps a token to the result returned for it; when nil, every
	// token resolves to an accepted result echoing the entry's stdin.
	results map[string]judge0.Result
}

func (f *fakeJudge) SubmitBatch(ctx context.Context, submissions []judge0.Submission) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, submissions)
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	tokens := make([]string, len(submissions))
	for i := range submissions {
		tokens[i] = "tok-" + submissions[i].Stdin
		if f.results == nil {
			f.results = map[string]judge0.Result{}
		}
		if _, ok := f.results[tokens[i]]; !ok {
			stdout := submissions[i].Stdin
			f.results[tokens[i]] = judge0.Result{
				Token:  tokens[i],
				Stdout: &stdout,
				Status: judge0.Status{ID: judge0.StatusIDAccepted, Description: "Accepted"},
			}
		}
	}
	return tokens, nil
}

func (f *fakeJudge) PollBatchResults(ctx context.Context, tokens []string) ([]judge0.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pollErr != nil {
		return nil, f.pollErr
	}
	results := make([]judge0.Result, len(tokens))
	for i, token := range tokens {
		results[i] = f.results[token]
	}
	return results, nil
}

func (f *fakeJudge) submitCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.submitted)
}

type fakeProblemRepo struct {
	problems map[string]*model.Problem

	created []*model.Problem
	updated []*model.Problem
}

func newFakeProblemRepo(problems ...*model.Problem) *fakeProblemRepo {
	repo := &fakeProblemRepo{problems: map[string]*model.Problem{}}
	for _, p := range problems {
		repo.problems[p.ID] = p
	}
	return repo
}

func (f *fakeProblemRepo) Create(ctx context.Context, tx *sql.Tx, p *model.Problem) error {
	f.created = append(f.created, p)
	f.problems[p.ID] = p
	return nil
}

func (f *fakeProblemRepo) Update(ctx context.Context, tx *sql.Tx, p *model.Problem) error {
	f.updated = append(f.updated, p)
	f.problems[p.ID] = p
	return nil
}

func (f *fakeProblemRepo) Delete(ctx context.Context, id string) error {
	delete(f.problems, id)
	return nil
}

func (f *fakeProblemRepo) FindByID(ctx context.Context, id string) (*model.Problem, error) {
	p, ok := f.problems[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return p, nil
}

func (f *fakeProblemRepo) List(ctx context.Context, limit, offset int, difficulty model.ProblemDifficulty, tag string) ([]model.Problem, int, error) {
	out := make([]model.Problem, 0, len(f.problems))
	for _, p := range f.problems {
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (f *fakeProblemRepo) ListSolvedByUser(ctx context.Context, userID string) ([]model.Problem, error) {
	return nil, nil
}

type fakeSubmissionRepo struct {
	createdSubmissions []*model.Submission
	createdResults     [][]model.TestCaseResult
	solvedMarks        []string
}

func (f *fakeSubmissionRepo) Create(ctx context.Context, tx *sql.Tx, sub *model.Submission) error {
	f.createdSubmissions = append(f.createdSubmissions, sub)
	return nil
}

func (f *fakeSubmissionRepo) CreateTestCaseResults(ctx context.Context, tx *sql.Tx, results []model.TestCaseResult) error {
	f.createdResults = append(f.createdResults, results)
	return nil
}

func (f *fakeSubmissionRepo) MarkProblemSolved(ctx context.Context, tx *sql.Tx, userID, problemID string) (bool, error) {
	f.solvedMarks = append(f.solvedMarks, userID+"/"+problemID)
	return true, nil
}

func (f *fakeSubmissionRepo) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	return nil, common.ErrNotFound
}

func (f *fakeSubmissionRepo) GetTestCaseResults(ctx context.Context, submissionID string) ([]model.TestCaseResult, error) {
	return nil, nil
}

func (f *fakeSubmissionRepo) ListByUser(ctx context.Context, userID string) ([]model.Submission, error) {
	return nil, nil
}

func (f *fakeSubmissionRepo) ListByUserAndProblem(ctx context.Context, userID, problemID string) ([]model.Submission, error) {
	return nil, nil
}

func (f *fakeSubmissionRepo) CountForProblem(ctx context.Context, problemID string) (int, error) {
	return 0, nil
}

type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: map[string]*model.User{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return common.ErrConflict
		}
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := *u
	return &copied, nil
}
