package model

import "time"

type Playlist struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Problems []ProblemInPlaylist `json:"problems,omitempty"`
}

// ProblemInPlaylist is a membership row keyed by (playlist, problem).
type ProblemInPlaylist struct {
	ID         string    `json:"id"`
	PlaylistID string    `json:"playlist_id"`
	ProblemID  string    `json:"problem_id"`
	CreatedAt  time.Time `json:"created_at"`

	Problem *Problem `json:"problem,omitempty"`
}

// LeaderboardEntry is a row of the solved-count leaderboard kept in Redis.
type LeaderboardEntry struct {
	Rank           int    `json:"rank"`
	UserID         string `json:"user_id"`
	Name           string `json:"name"`
	ProblemsSolved int    `json:"problems_solved"`
}
