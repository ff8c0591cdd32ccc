package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"apiservices/internal/auth"
	"apiservices/internal/cache"
	"apiservices/internal/model"
	"apiservices/internal/repository"
)

const samplePassword = "password123"

// SeedResult reports what a seeding run inserted.
type SeedResult struct {
	Skipped  bool `json:"skipped"`
	Users    int  `json:"users"`
	Entries  int  `json:"entries"`
	Sessions int  `json:"sessions"`
}

// Seeder populates the arena store with sample or imported data.
type Seeder interface {
	SeedSample(ctx context.Context) (*SeedResult, error)
	ImportScores(ctx context.Context, entries []model.LeaderboardEntry) (int, error)
}

type sampleSeeder struct {
	users       repository.UserRepository
	leaderboard repository.LeaderboardRepository
	sessions    repository.SessionRepository
	hasher      *auth.PasswordHasher
	cache       *cache.Client
	logger      *slog.Logger
}

// NewSampleSeeder creates a Seeder backed by the given repositories. The
// cache must be the one the leaderboard and session services read from; a
// nil cache is allowed.
func NewSampleSeeder(
	users repository.UserRepository,
	leaderboard repository.LeaderboardRepository,
	sessions repository.SessionRepository,
	hasher *auth.PasswordHasher,
	cacheClient *cache.Client,
	logger *slog.Logger,
) Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &sampleSeeder{
		users:       users,
		leaderboard: leaderboard,
		sessions:    sessions,
		hasher:      hasher,
		cache:       cacheClient,
		logger:      logger,
	}
}

// SeedSample inserts the sample users, scores and live sessions. It does
// nothing when any user already exists.
func (s *sampleSeeder) SeedSample(ctx context.Context) (*SeedResult, error) {
	count, err := s.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		s.logger.Info("sample data already present, skipping seed", slog.Int64("users", count))
		return &SeedResult{Skipped: true}, nil
	}

	hash, err := s.hasher.Hash(samplePassword)
	if err != nil {
		return nil, fmt.Errorf("hash sample password: %w", err)
	}

	users := []model.User{
		{Username: "SnakeMaster", Email: "player1@snake.io", PasswordHash: hash},
		{Username: "VenomStrike", Email: "player2@snake.io", PasswordHash: hash},
	}
	err = s.users.WithTransaction(ctx, func(ctx context.Context, repo repository.UserRepository) error {
		for i := range users {
			if err := repo.Create(ctx, &users[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("seed users: %w", err)
	}

	entries := []model.LeaderboardEntry{
		{Username: "SnakeMaster", Score: 2450, Mode: model.GameModeWalls, Date: sampleDate(2024, time.January, 15)},
		{Username: "VenomStrike", Score: 2100, Mode: model.GameModePassThrough, Date: sampleDate(2024, time.January, 14)},
		{Username: "CobraKing", Score: 1890, Mode: model.GameModeWalls, Date: sampleDate(2024, time.January, 13)},
	}
	if err := s.leaderboard.CreateBatch(ctx, entries); err != nil {
		return nil, fmt.Errorf("seed leaderboard: %w", err)
	}

	sessions := []model.GameSession{
		{Username: "LivePlayer1", Score: 340, Mode: model.GameModeWalls, IsLive: true},
		{Username: "StreamerPro", Score: 520, Mode: model.GameModePassThrough, IsLive: true},
	}
	for i := range sessions {
		if err := s.sessions.Create(ctx, &sessions[i]); err != nil {
			s.invalidateListings(ctx)
			return nil, fmt.Errorf("seed sessions: %w", err)
		}
	}
	s.invalidateListings(ctx)

	result := &SeedResult{Users: len(users), Entries: len(entries), Sessions: len(sessions)}
	s.logger.Info("sample data seeded",
		slog.Int("users", result.Users),
		slog.Int("entries", result.Entries),
		slog.Int("sessions", result.Sessions),
	)
	return result, nil
}

// ImportScores appends externally sourced entries in one batch.
func (s *sampleSeeder) ImportScores(ctx context.Context, entries []model.LeaderboardEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	if err := s.leaderboard.CreateBatch(ctx, entries); err != nil {
		return 0, fmt.Errorf("import scores: %w", err)
	}
	_ = s.cache.DeletePrefix(ctx, leaderboardCachePrefix)
	s.logger.Info("scores imported", slog.Int("count", len(entries)))
	return len(entries), nil
}

// invalidateListings drops the cached leaderboard pages and live session list.
func (s *sampleSeeder) invalidateListings(ctx context.Context) {
	_ = s.cache.DeletePrefix(ctx, leaderboardCachePrefix)
	_ = s.cache.Delete(ctx, liveSessionsCacheKey)
}

func sampleDate(year int, month time.Month, day int) model.Date {
	return model.NewDate(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}
