package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"codelab/internal/common"
	"codelab/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type ProblemRepository interface {
	Create(ctx context.Context, tx *sql.Tx, problem *model.Problem) error
	Update(ctx context.Context, tx *sql.Tx, problem *model.Problem) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.Problem, error)
	List(ctx context.Context, limit, offset int, difficulty model.ProblemDifficulty, tag string) ([]model.Problem, int, error)
	ListSolvedByUser(ctx context.Context, userID string) ([]model.Problem, error)
}

type pgProblemRepository struct {
	db *sql.DB
}

func NewPgProblemRepository(db *sql.DB) ProblemRepository {
	return &pgProblemRepository{db: db}
}

const problemColumns = `id, title, slug, description, difficulty, tags, examples, constraints,
       hints, editorial, testcases, code_snippets, reference_solutions, user_id, created_at, updated_at`

func (r *pgProblemRepository) Create(ctx context.Context, tx *sql.Tx, p *model.Problem) error {
	cols, err := marshalProblemColumns(p)
	if err != nil {
		return fmt.Errorf("pgProblemRepository.Create: %w", err)
	}

	query := `INSERT INTO problems (id, title, slug, description, difficulty, tags, examples, constraints,
	              hints, editorial, testcases, code_snippets, reference_solutions, user_id)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	args := []interface{}{
		p.ID, p.Title, p.Slug, p.Description, p.Difficulty, cols.tags, cols.examples, p.Constraints,
		p.Hints, p.Editorial, cols.testCases, cols.codeSnippets, cols.referenceSolutions, p.UserID,
	}

	if tx != nil {
		_, err = tx.ExecContext(ctx, query, args...)
	} else {
		_, err = r.db.ExecContext(ctx, query, args...)
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique constraint for slug
			return fmt.Errorf("problem with this slug already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgProblemRepository.Create: %w", err)
	}
	return nil
}

func (r *pgProblemRepository) Update(ctx context.Context, tx *sql.Tx, p *model.Problem) error {
	cols, err := marshalProblemColumns(p)
	if err != nil {
		return fmt.Errorf("pgProblemRepository.Update: %w", err)
	}

	query := `UPDATE problems SET
	              title = $1, slug = $2, description = $3, difficulty = $4, tags = $5, examples = $6,
	              constraints = $7, hints = $8, editorial = $9, testcases = $10, code_snippets = $11,
	              reference_solutions = $12, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $13`
	args := []interface{}{
		p.Title, p.Slug, p.Description, p.Difficulty, cols.tags, cols.examples,
		p.Constraints, p.Hints, p.Editorial, cols.testCases, cols.codeSnippets,
		cols.referenceSolutions, p.ID,
	}

	var res sql.Result
	if tx != nil {
		res, err = tx.ExecContext(ctx, query, args...)
	} else {
		res, err = r.db.ExecContext(ctx, query, args...)
	}
	if err != nil {
		return fmt.Errorf("pgProblemRepository.Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgProblemRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM problems WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgProblemRepository.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgProblemRepository) FindByID(ctx context.Context, id string) (*model.Problem, error) {
	query := `SELECT ` + problemColumns + ` FROM problems WHERE id = $1`
	p, err := scanProblem(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgProblemRepository.FindByID: %w", err)
	}
	return p, nil
}

func (r *pgProblemRepository) List(ctx context.Context, limit, offset int, difficulty model.ProblemDifficulty, tag string) ([]model.Problem, int, error) {
	var conditions []string
	var args []interface{}
	argID := 1

	if difficulty != "" {
		conditions = append(conditions, fmt.Sprintf("difficulty = $%d", argID))
		args = append(args, difficulty)
		argID++
	}
	if tag != "" {
		conditions = append(conditions, fmt.Sprintf("tags @> $%d", argID))
		tagJSON, _ := json.Marshal([]string{tag})
		args = append(args, tagJSON)
		argID++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM problems`+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgProblemRepository.List count: %w", err)
	}

	query := `SELECT ` + problemColumns + ` FROM problems` + whereClause +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argID, argID+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("pgProblemRepository.List query: %w", err)
	}
	defer rows.Close()

	problems := []model.Problem{}
	for rows.Next() {
		p, err := scanProblem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("pgProblemRepository.List scan: %w", err)
		}
		problems = append(problems, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgProblemRepository.List rows.Err: %w", err)
	}
	return problems, total, nil
}

func (r *pgProblemRepository) ListSolvedByUser(ctx context.Context, userID string) ([]model.Problem, error) {
	query := `SELECT p.id, p.title, p.slug, p.description, p.difficulty, p.tags, p.examples, p.constraints,
	                 p.hints, p.editorial, p.testcases, p.code_snippets, p.reference_solutions, p.user_id,
	                 p.created_at, p.updated_at
	          FROM problems p
	          JOIN problem_solved ps ON ps.problem_id = p.id
	          WHERE ps.user_id = $1
	          ORDER BY ps.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgProblemRepository.ListSolvedByUser query: %w", err)
	}
	defer rows.Close()

	problems := []model.Problem{}
	for rows.Next() {
		p, err := scanProblem(rows)
		if err != nil {
			return nil, fmt.Errorf("pgProblemRepository.ListSolvedByUser scan: %w", err)
		}
		problems = append(problems, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgProblemRepository.ListSolvedByUser rows.Err: %w", err)
	}
	return problems, nil
}

// jsonb column payloads
type problemColumnsJSON struct {
	tags               []byte
	examples           []byte
	testCases          []byte
	codeSnippets       []byte
	referenceSolutions []byte
}

func marshalProblemColumns(p *model.Problem) (*problemColumnsJSON, error) {
	cols := &problemColumnsJSON{}
	var err error
	if cols.tags, err = json.Marshal(p.Tags); err != nil {
		return nil, err
	}
	if len(p.Examples) > 0 {
		cols.examples = []byte(p.Examples)
	} else {
		cols.examples = []byte("null")
	}
	if cols.testCases, err = json.Marshal(p.TestCases); err != nil {
		return nil, err
	}
	if cols.codeSnippets, err = json.Marshal(p.CodeSnippets); err != nil {
		return nil, err
	}
	if cols.referenceSolutions, err = json.Marshal(p.ReferenceSolutions); err != nil {
		return nil, err
	}
	return cols, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProblem(row rowScanner) (*model.Problem, error) {
	p := &model.Problem{}
	var tags, examples, testCases, codeSnippets, referenceSolutions []byte
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Description, &p.Difficulty, &tags, &examples, &p.Constraints,
		&p.Hints, &p.Editorial, &testCases, &codeSnippets, &referenceSolutions, &p.UserID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := unmarshalProblemJSON(p, tags, examples, testCases, codeSnippets, referenceSolutions); err != nil {
		return nil, err
	}
	return p, nil
}

func unmarshalProblemJSON(p *model.Problem, tags, examples, testCases, codeSnippets, referenceSolutions []byte) error {
	if tags != nil {
		if err := json.Unmarshal(tags, &p.Tags); err != nil {
			return err
		}
	}
	if examples != nil && string(examples) != "null" {
		p.Examples = json.RawMessage(examples)
	}
	if testCases != nil {
		if err := json.Unmarshal(testCases, &p.TestCases); err != nil {
			return err
		}
	}
	if codeSnippets != nil {
		if err := json.Unmarshal(codeSnippets, &p.CodeSnippets); err != nil {
			return err
		}
	}
	if referenceSolutions != nil {
		if err := json.Unmarshal(referenceSolutions, &p.ReferenceSolutions); err != nil {
			return err
		}
	}
	return nil
}
