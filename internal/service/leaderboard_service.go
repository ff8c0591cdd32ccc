package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"apiservices/internal/cache"
	apperrors "apiservices/internal/errors"
	"apiservices/internal/metrics"
	"apiservices/internal/model"
	"apiservices/internal/repository"
)

const (
	// ArenaCachePrefix namespaces every cache key the arena services use.
	// Processes sharing a store must use it to see each other's invalidations.
	ArenaCachePrefix = "arena:"

	// DefaultLeaderboardLimit is used when the caller gives no positive limit.
	DefaultLeaderboardLimit = 100
	// MaxLeaderboardLimit caps a single listing.
	MaxLeaderboardLimit = 1000

	leaderboardCachePrefix = "leaderboard:"
)

// ScoreResult is the outcome of a score submission.
type ScoreResult struct {
	Entry *model.LeaderboardEntry
	Rank  int
}

// UserPosition is a user's best entry and its overall rank.
type UserPosition struct {
	Entry *model.LeaderboardEntry
	Rank  int
}

// LeaderboardService handles score submission and ranking.
type LeaderboardService interface {
	AddScore(ctx context.Context, username string, score int, mode model.GameMode) (*ScoreResult, error)
	GetLeaderboard(ctx context.Context, mode *model.GameMode, limit int) ([]model.LeaderboardEntry, error)
	GetUserPosition(ctx context.Context, username string, mode *model.GameMode) (*UserPosition, error)
}

type leaderboardService struct {
	repo     repository.LeaderboardRepository
	cache    *cache.Client
	cacheTTL time.Duration
	metrics  metrics.Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// NewLeaderboardService creates a new leaderboard service. A nil cache
// disables caching.
func NewLeaderboardService(
	repo repository.LeaderboardRepository,
	cacheClient *cache.Client,
	cacheTTL time.Duration,
	recorder metrics.Recorder,
	logger *slog.Logger,
) LeaderboardService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &leaderboardService{
		repo:     repo,
		cache:    cacheClient,
		cacheTTL: cacheTTL,
		metrics:  recorder,
		logger:   logger,
		now:      time.Now,
	}
}

// AddScore appends an entry dated today and returns its rank within mode.
// The rank is counted after the insert commits, so concurrent submissions
// may observe each other.
func (s *leaderboardService) AddScore(ctx context.Context, username string, score int, mode model.GameMode) (*ScoreResult, error) {
	if !mode.Valid() {
		return nil, apperrors.ErrInvalidMode
	}
	username = strings.TrimSpace(username)
	if username == "" {
		username = model.UnknownPlayer
	}

	entry := &model.LeaderboardEntry{
		Username: username,
		Score:    score,
		Mode:     mode,
		Date:     model.NewDate(s.now()),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("create leaderboard entry: %w", err)
	}

	higher, err := s.repo.CountHigher(ctx, score, &mode)
	if err != nil {
		return nil, fmt.Errorf("count higher scores: %w", err)
	}
	rank := int(higher) + 1

	_ = s.cache.DeletePrefix(ctx, leaderboardCachePrefix)
	s.metrics.RecordScoreSubmitted(string(mode), rank)
	s.logger.Debug("score submitted",
		slog.String("username", username),
		slog.Int("score", score),
		slog.String("mode", string(mode)),
		slog.Int("rank", rank),
	)

	return &ScoreResult{Entry: entry, Rank: rank}, nil
}

// GetLeaderboard lists entries by score descending, optionally filtered by mode.
func (s *leaderboardService) GetLeaderboard(ctx context.Context, mode *model.GameMode, limit int) ([]model.LeaderboardEntry, error) {
	if mode != nil && !mode.Valid() {
		return nil, apperrors.ErrInvalidMode
	}
	limit = clampLimit(limit)

	key := leaderboardCacheKey(mode, limit)
	var cached []model.LeaderboardEntry
	if s.cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	entries, err := s.repo.List(ctx, mode, limit)
	if err != nil {
		return nil, fmt.Errorf("list leaderboard: %w", err)
	}
	_ = s.cache.SetJSON(ctx, key, entries, s.cacheTTL)
	return entries, nil
}

// GetUserPosition returns the user's best entry, optionally restricted to
// mode. The rank counts higher scores across every mode, unlike AddScore.
func (s *leaderboardService) GetUserPosition(ctx context.Context, username string, mode *model.GameMode) (*UserPosition, error) {
	if mode != nil && !mode.Valid() {
		return nil, apperrors.ErrInvalidMode
	}
	best, err := s.repo.BestForUser(ctx, username, mode)
	if err != nil {
		return nil, err
	}
	higher, err := s.repo.CountHigher(ctx, best.Score, nil)
	if err != nil {
		return nil, fmt.Errorf("count higher scores: %w", err)
	}
	return &UserPosition{Entry: best, Rank: int(higher) + 1}, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLeaderboardLimit
	}
	if limit > MaxLeaderboardLimit {
		return MaxLeaderboardLimit
	}
	return limit
}

func leaderboardCacheKey(mode *model.GameMode, limit int) string {
	m := "all"
	if mode != nil {
		m = string(*mode)
	}
	return fmt.Sprintf("%s%s:%d", leaderboardCachePrefix, m, limit)
}
