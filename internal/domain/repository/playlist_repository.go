package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"codelab/internal/common"
	"codelab/internal/domain/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

type PlaylistRepository interface {
	Create(ctx context.Context, playlist *model.Playlist) error
	Delete(ctx context.Context, id, userID string) error
	FindByIDForUser(ctx context.Context, id, userID string) (*model.Playlist, error)
	ListByUser(ctx context.Context, userID string) ([]model.Playlist, error)
	AddProblems(ctx context.Context, playlistID string, problemIDs []string) error
	RemoveProblems(ctx context.Context, playlistID string, problemIDs []string) error
}

type pgPlaylistRepository struct {
	db *sql.DB
}

func NewPgPlaylistRepository(db *sql.DB) PlaylistRepository {
	return &pgPlaylistRepository{db: db}
}

func (r *pgPlaylistRepository) Create(ctx context.Context, p *model.Playlist) error {
	query := `INSERT INTO playlists (id, name, description, user_id) VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.Description, p.UserID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique (user_id, name)
			return fmt.Errorf("playlist with this name already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgPlaylistRepository.Create: %w", err)
	}
	return nil
}

func (r *pgPlaylistRepository) Delete(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM playlists WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("pgPlaylistRepository.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgPlaylistRepository) FindByIDForUser(ctx context.Context, id, userID string) (*model.Playlist, error) {
	query := `SELECT id, name, description, user_id, created_at, updated_at
	          FROM playlists WHERE id = $1 AND user_id = $2`
	p := &model.Playlist{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&p.ID, &p.Name, &p.Description, &p.UserID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgPlaylistRepository.FindByIDForUser: %w", err)
	}

	memberships, err := r.memberships(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Problems = memberships
	return p, nil
}

func (r *pgPlaylistRepository) ListByUser(ctx context.Context, userID string) ([]model.Playlist, error) {
	query := `SELECT id, name, description, user_id, created_at, updated_at
	          FROM playlists WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgPlaylistRepository.ListByUser query: %w", err)
	}
	defer rows.Close()

	playlists := []model.Playlist{}
	for rows.Next() {
		var p model.Playlist
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.UserID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("pgPlaylistRepository.ListByUser scan: %w", err)
		}
		playlists = append(playlists, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgPlaylistRepository.ListByUser rows.Err: %w", err)
	}

	for i := range playlists {
		memberships, err := r.memberships(ctx, playlists[i].ID)
		if err != nil {
			return nil, err
		}
		playlists[i].Problems = memberships
	}
	return playlists, nil
}

func (r *pgPlaylistRepository) memberships(ctx context.Context, playlistID string) ([]model.ProblemInPlaylist, error) {
	query := `SELECT pip.id, pip.playlist_id, pip.problem_id, pip.created_at,
	                 p.id, p.title, p.slug, p.description, p.difficulty, p.tags, p.examples, p.constraints,
	                 p.hints, p.editorial, p.testcases, p.code_snippets, p.reference_solutions, p.user_id,
	                 p.created_at, p.updated_at
	          FROM problem_in_playlist pip
	          JOIN problems p ON p.id = pip.problem_id
	          WHERE pip.playlist_id = $1
	          ORDER BY pip.created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, playlistID)
	if err != nil {
		return nil, fmt.Errorf("pgPlaylistRepository.memberships query: %w", err)
	}
	defer rows.Close()

	memberships := []model.ProblemInPlaylist{}
	for rows.Next() {
		var m model.ProblemInPlaylist
		p := &model.Problem{}
		var tags, examples, testCases, codeSnippets, referenceSolutions []byte
		if err := rows.Scan(
			&m.ID, &m.PlaylistID, &m.ProblemID, &m.CreatedAt,
			&p.ID, &p.Title, &p.Slug, &p.Description, &p.Difficulty, &tags, &examples, &p.Constraints,
			&p.Hints, &p.Editorial, &testCases, &codeSnippets, &referenceSolutions, &p.UserID,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("pgPlaylistRepository.memberships scan: %w", err)
		}
		if err := unmarshalProblemJSON(p, tags, examples, testCases, codeSnippets, referenceSolutions); err != nil {
			return nil, fmt.Errorf("pgPlaylistRepository.memberships decode: %w", err)
		}
		m.Problem = p
		memberships = append(memberships, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgPlaylistRepository.memberships rows.Err: %w", err)
	}
	return memberships, nil
}

func (r *pgPlaylistRepository) AddProblems(ctx context.Context, playlistID string, problemIDs []string) error {
	stmt, err := r.db.PrepareContext(ctx, `INSERT INTO problem_in_playlist (id, playlist_id, problem_id)
	    VALUES ($1, $2, $3) ON CONFLICT (playlist_id, problem_id) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("pgPlaylistRepository.AddProblems prepare: %w", err)
	}
	defer stmt.Close()

	for _, problemID := range problemIDs {
		if _, err := stmt.ExecContext(ctx, uuid.NewString(), playlistID, problemID); err != nil {
			return fmt.Errorf("pgPlaylistRepository.AddProblems exec for problem %s: %w", problemID, err)
		}
	}
	return nil
}

func (r *pgPlaylistRepository) RemoveProblems(ctx context.Context, playlistID string, problemIDs []string) error {
	stmt, err := r.db.PrepareContext(ctx, `DELETE FROM problem_in_playlist WHERE playlist_id = $1 AND problem_id = $2`)
	if err != nil {
		return fmt.Errorf("pgPlaylistRepository.RemoveProblems prepare: %w", err)
	}
	defer stmt.Close()

	for _, problemID := range problemIDs {
		if _, err := stmt.ExecContext(ctx, playlistID, problemID); err != nil {
			return fmt.Errorf("pgPlaylistRepository.RemoveProblems exec for problem %s: %w", problemID, err)
		}
	}
	return nil
}
