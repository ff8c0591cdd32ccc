package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "apiservices/internal/errors"
	"apiservices/internal/model"
)

// SessionRepository defines game session persistence operations.
type SessionRepository interface {
	Create(ctx context.Context, session *model.GameSession) error
	Update(ctx context.Context, session *model.GameSession) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.GameSession, error)
	ListLive(ctx context.Context) ([]model.GameSession, error)
	ListByUsername(ctx context.Context, username string) ([]model.GameSession, error)
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new game session repository.
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Create creates a new session record.
func (r *sessionRepository) Create(ctx context.Context, session *model.GameSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// Update saves an existing session record.
func (r *sessionRepository) Update(ctx context.Context, session *model.GameSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

// FindByID finds a session by ID.
func (r *sessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.GameSession, error) {
	var session model.GameSession
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

// ListLive lists sessions still in progress.
func (r *sessionRepository) ListLive(ctx context.Context) ([]model.GameSession, error) {
	sessions := []model.GameSession{}
	if err := r.db.WithContext(ctx).Where("is_live = ?", true).Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListByUsername lists every session of a player.
func (r *sessionRepository) ListByUsername(ctx context.Context, username string) ([]model.GameSession, error) {
	sessions := []model.GameSession{}
	if err := r.db.WithContext(ctx).Where("username = ?", username).Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}
