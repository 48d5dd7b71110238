package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"codelab/internal/common"
	"codelab/internal/domain/model"
)

type SubmissionRepository interface {
	// Create and CreateTestCaseResults run inside the orchestrator's
	// transaction so a submission is never visible without its cases.
	Create(ctx context.Context, tx *sql.Tx, sub *model.Submission) error
	CreateTestCaseResults(ctx context.Context, tx *sql.Tx, results []model.TestCaseResult) error
	// MarkProblemSolved upserts the (user, problem) solved marker and reports
	// whether the row was newly inserted.
	MarkProblemSolved(ctx context.Context, tx *sql.Tx, userID, problemID string) (bool, error)

	GetByID(ctx context.Context, id string) (*model.Submission, error)
	GetTestCaseResults(ctx context.Context, submissionID string) ([]model.TestCaseResult, error)
	ListByUser(ctx context.Context, userID string) ([]model.Submission, error)
	ListByUserAndProblem(ctx context.Context, userID, problemID string) ([]model.Submission, error)
	CountForProblem(ctx context.Context, problemID string) (int, error)
}

type pgSubmissionRepository struct {
	db *sql.DB
}

func NewPgSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &pgSubmissionRepository{db: db}
}

const submissionColumns = `id, user_id, problem_id, source_code, language, stdin,
       stdout, stderr, compile_output, status, memory, time, created_at`

func (r *pgSubmissionRepository) Create(ctx context.Context, tx *sql.Tx, sub *model.Submission) error {
	query := `INSERT INTO submissions (id, user_id, problem_id, source_code, language, stdin,
	              stdout, stderr, compile_output, status, memory, time)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := tx.ExecContext(ctx, query,
		sub.ID, sub.UserID, sub.ProblemID, sub.SourceCode, sub.Language, sub.Stdin,
		sub.Stdout, sub.Stderr, sub.CompileOutput, sub.Status, sub.Memory, sub.Time,
	)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.Create: %w", err)
	}
	return nil
}

func (r *pgSubmissionRepository) CreateTestCaseResults(ctx context.Context, tx *sql.Tx, results []model.TestCaseResult) error {
	if len(results) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO test_case_results
	    (id, submission_id, problem_id, test_case, passed, stdout, expected_output, stderr, compile_output, status, memory, time)
	    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.CreateTestCaseResults prepare: %w", err)
	}
	defer stmt.Close()

	for _, tc := range results {
		_, err := stmt.ExecContext(ctx,
			tc.ID, tc.SubmissionID, tc.ProblemID, tc.TestCase, tc.Passed, tc.Stdout,
			tc.ExpectedOutput, tc.Stderr, tc.CompileOutput, tc.Status, tc.Memory, tc.Time,
		)
		if err != nil {
			return fmt.Errorf("pgSubmissionRepository.CreateTestCaseResults exec for case %d: %w", tc.TestCase, err)
		}
	}
	return nil
}

func (r *pgSubmissionRepository) MarkProblemSolved(ctx context.Context, tx *sql.Tx, userID, problemID string) (bool, error) {
	query := `INSERT INTO problem_solved (user_id, problem_id)
	          VALUES ($1, $2)
	          ON CONFLICT (user_id, problem_id) DO NOTHING`
	var res sql.Result
	var err error
	if tx != nil {
		res, err = tx.ExecContext(ctx, query, userID, problemID)
	} else {
		res, err = r.db.ExecContext(ctx, query, userID, problemID)
	}
	if err != nil {
		return false, fmt.Errorf("pgSubmissionRepository.MarkProblemSolved: %w", err)
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}

func (r *pgSubmissionRepository) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1`
	sub := &model.Submission{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sub.ID, &sub.UserID, &sub.ProblemID, &sub.SourceCode, &sub.Language, &sub.Stdin,
		&sub.Stdout, &sub.Stderr, &sub.CompileOutput, &sub.Status, &sub.Memory, &sub.Time, &sub.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSubmissionRepository.GetByID: %w", err)
	}
	return sub, nil
}

func (r *pgSubmissionRepository) GetTestCaseResults(ctx context.Context, submissionID string) ([]model.TestCaseResult, error) {
	query := `SELECT id, submission_id, problem_id, test_case, passed, stdout, expected_output,
	                 stderr, compile_output, status, memory, time, created_at
	          FROM test_case_results WHERE submission_id = $1 ORDER BY test_case ASC`
	rows, err := r.db.QueryContext(ctx, query, submissionID)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.GetTestCaseResults query: %w", err)
	}
	defer rows.Close()

	var results []model.TestCaseResult
	for rows.Next() {
		var tc model.TestCaseResult
		if err := rows.Scan(
			&tc.ID, &tc.SubmissionID, &tc.ProblemID, &tc.TestCase, &tc.Passed, &tc.Stdout,
			&tc.ExpectedOutput, &tc.Stderr, &tc.CompileOutput, &tc.Status, &tc.Memory, &tc.Time, &tc.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("pgSubmissionRepository.GetTestCaseResults scan: %w", err)
		}
		results = append(results, tc)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.GetTestCaseResults rows.Err: %w", err)
	}
	return results, nil
}

func (r *pgSubmissionRepository) ListByUser(ctx context.Context, userID string) ([]model.Submission, error) {
	return r.list(ctx, `WHERE user_id = $1`, userID)
}

func (r *pgSubmissionRepository) ListByUserAndProblem(ctx context.Context, userID, problemID string) ([]model.Submission, error) {
	return r.list(ctx, `WHERE user_id = $1 AND problem_id = $2`, userID, problemID)
}

func (r *pgSubmissionRepository) list(ctx context.Context, where string, args ...interface{}) ([]model.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions ` + where + ` ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.list query: %w", err)
	}
	defer rows.Close()

	submissions := []model.Submission{}
	for rows.Next() {
		var sub model.Submission
		if err := rows.Scan(
			&sub.ID, &sub.UserID, &sub.ProblemID, &sub.SourceCode, &sub.Language, &sub.Stdin,
			&sub.Stdout, &sub.Stderr, &sub.CompileOutput, &sub.Status, &sub.Memory, &sub.Time, &sub.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("pgSubmissionRepository.list scan: %w", err)
		}
		submissions = append(submissions, sub)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.list rows.Err: %w", err)
	}
	return submissions, nil
}

func (r *pgSubmissionRepository) CountForProblem(ctx context.Context, problemID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM submissions WHERE problem_id = $1`, problemID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("pgSubmissionRepository.CountForProblem: %w", err)
	}
	return count, nil
}
