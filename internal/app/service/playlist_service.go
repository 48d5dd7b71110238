package service

import (
	"context"
	"fmt"

	"codelab/internal/common"
	"codelab/internal/domain/model"
	"codelab/internal/domain/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PlaylistService struct {
	playlistRepo repository.PlaylistRepository
	log          *zap.SugaredLogger
}

func NewPlaylistService(playlistRepo repository.PlaylistRepository, log *zap.SugaredLogger) *PlaylistService {
	return &PlaylistService{playlistRepo: playlistRepo, log: log}
}

type CreatePlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *PlaylistService) CreatePlaylist(ctx context.Context, userID string, req CreatePlaylistRequest) (*model.Playlist, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("playlist name is required: %w", common.ErrBadRequest)
	}

	playlist := &model.Playlist{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		UserID:      userID,
	}
	if err := s.playlistRepo.Create(ctx, playlist); err != nil {
		return nil, err
	}

	s.log.Infow("playlist created", "playlist_id", playlist.ID, "user_id", userID)
	return playlist, nil
}

func (s *PlaylistService) GetPlaylists(ctx context.Context, userID string) ([]model.Playlist, error) {
	return s.playlistRepo.ListByUser(ctx, userID)
}

func (s *PlaylistService) GetPlaylist(ctx context.Context, playlistID, userID string) (*model.Playlist, error) {
	return s.playlistRepo.FindByIDForUser(ctx, playlistID, userID)
}

func (s *PlaylistService) DeletePlaylist(ctx context.Context, playlistID, userID string) error {
	return s.playlistRepo.Delete(ctx, playlistID, userID)
}

// AddProblems adds problems to an owned playlist; duplicates are no-ops.
func (s *PlaylistService) AddProblems(ctx context.Context, playlistID, userID string, problemIDs []string) error {
	if len(problemIDs) == 0 {
		return fmt.Errorf("invalid or missing problem ids: %w", common.ErrBadRequest)
	}
	// Ownership check before touching memberships.
	if _, err := s.playlistRepo.FindByIDForUser(ctx, playlistID, userID); err != nil {
		return err
	}
	return s.playlistRepo.AddProblems(ctx, playlistID, problemIDs)
}

func (s *PlaylistService) RemoveProblems(ctx context.Context, playlistID, userID string, problemIDs []string) error {
	if len(problemIDs) == 0 {
		return fmt.Errorf("invalid or missing problem ids: %w", common.ErrBadRequest)
	}
	if _, err := s.playlistRepo.FindByIDForUser(ctx, playlistID, userID); err != nil {
		return err
	}
	return s.playlistRepo.RemoveProblems(ctx, playlistID, problemIDs)
}
