package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "apiservices/internal/errors"
	"apiservices/internal/model"
)

// LeaderboardRepository defines leaderboard persistence operations.
// Entries are append-only, so there is no update or delete.
type LeaderboardRepository interface {
	Create(ctx context.Context, entry *model.LeaderboardEntry) error
	CreateBatch(ctx context.Context, entries []model.LeaderboardEntry) error
	// CountHigher counts entries with a score strictly greater than score,
	// restricted to mode when it is non-nil.
	CountHigher(ctx context.Context, score int, mode *model.GameMode) (int64, error)
	// List returns entries by score descending, ties in insertion order.
	List(ctx context.Context, mode *model.GameMode, limit int) ([]model.LeaderboardEntry, error)
	// BestForUser returns the highest-scoring entry of username.
	BestForUser(ctx context.Context, username string, mode *model.GameMode) (*model.LeaderboardEntry, error)
}

type leaderboardRepository struct {
	db *gorm.DB
}

// NewLeaderboardRepository creates a new leaderboard repository.
func NewLeaderboardRepository(db *gorm.DB) LeaderboardRepository {
	return &leaderboardRepository{db: db}
}

// Create appends a new entry.
func (r *leaderboardRepository) Create(ctx context.Context, entry *model.LeaderboardEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// CreateBatch appends several entries in one statement.
func (r *leaderboardRepository) CreateBatch(ctx context.Context, entries []model.LeaderboardEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(entries, 100).Error
}

func (r *leaderboardRepository) CountHigher(ctx context.Context, score int, mode *model.GameMode) (int64, error) {
	q := r.db.WithContext(ctx).Model(&model.LeaderboardEntry{}).Where("score > ?", score)
	if mode != nil {
		q = q.Where("mode = ?", *mode)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *leaderboardRepository) List(ctx context.Context, mode *model.GameMode, limit int) ([]model.LeaderboardEntry, error) {
	q := r.db.WithContext(ctx).Order("score DESC").Order("created_at ASC")
	if mode != nil {
		q = q.Where("mode = ?", *mode)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	entries := []model.LeaderboardEntry{}
	if err := q.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *leaderboardRepository) BestForUser(ctx context.Context, username string, mode *model.GameMode) (*model.LeaderboardEntry, error) {
	q := r.db.WithContext(ctx).Where("username = ?", username)
	if mode != nil {
		q = q.Where("mode = ?", *mode)
	}
	var entry model.LeaderboardEntry
	if err := q.Order("score DESC").Order("created_at ASC").First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEntryNotFound
		}
		return nil, err
	}
	return &entry, nil
}
