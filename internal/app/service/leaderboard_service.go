package service

import (
	"context"
	"fmt"

	"codelab/internal/domain/model"
	"codelab/internal/domain/repository"

	"github.com/redis/go-redis/v9"
)

const leaderboardKey = "leaderboard:solved"

// LeaderboardService keeps the solved-problem counts in a Redis sorted set,
// incremented whenever a user solves a problem for the first time.
type LeaderboardService struct {
	rdb      *redis.Client
	userRepo repository.UserRepository
}

func NewLeaderboardService(rdb *redis.Client, userRepo repository.UserRepository) *LeaderboardService {
	return &LeaderboardService{rdb: rdb, userRepo: userRepo}
}

func (s *LeaderboardService) RecordSolve(ctx context.Context, userID string) error {
	if err := s.rdb.ZIncrBy(ctx, leaderboardKey, 1, userID).Err(); err != nil {
		return fmt.Errorf("incrementing leaderboard for user %s: %w", userID, err)
	}
	return nil
}

func (s *LeaderboardService) TopSolvers(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	members, err := s.rdb.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading leaderboard: %w", err)
	}

	entries := make([]model.LeaderboardEntry, 0, len(members))
	for i, member := range members {
		userID, _ := member.Member.(string)
		entry := model.LeaderboardEntry{
			Rank:           i + 1,
			UserID:         userID,
			ProblemsSolved: int(member.Score),
		}
		if user, err := s.userRepo.FindByID(ctx, userID); err == nil {
			entry.Name = user.Name
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
