package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"apiservices/internal/cache"
	apperrors "apiservices/internal/errors"
	"apiservices/internal/metrics"
	"apiservices/internal/model"
	"apiservices/internal/repository"
)

const liveSessionsCacheKey = "sessions:live"

// SessionService handles game session lifecycle.
type SessionService interface {
	Create(ctx context.Context, username string, score int, mode model.GameMode, isLive bool) (*model.GameSession, error)
	Update(ctx context.Context, id uuid.UUID, score int, isLive bool) (*model.GameSession, error)
	Close(ctx context.Context, id uuid.UUID) (*model.GameSession, error)
	Get(ctx context.Context, id uuid.UUID) (*model.GameSession, error)
	ListLive(ctx context.Context) ([]model.GameSession, error)
	ListByUsername(ctx context.Context, username string) ([]model.GameSession, error)
}

type sessionService struct {
	repo     repository.SessionRepository
	cache    *cache.Client
	cacheTTL time.Duration
	metrics  metrics.Recorder
}

// NewSessionService creates a new session service. A nil cache disables caching.
func NewSessionService(repo repository.SessionRepository, cacheClient *cache.Client, cacheTTL time.Duration, recorder metrics.Recorder) SessionService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &sessionService{
		repo:     repo,
		cache:    cacheClient,
		cacheTTL: cacheTTL,
		metrics:  recorder,
	}
}

func (s *sessionService) Create(ctx context.Context, username string, score int, mode model.GameMode, isLive bool) (*model.GameSession, error) {
	if !mode.Valid() {
		return nil, apperrors.ErrInvalidMode
	}
	username = strings.TrimSpace(username)
	if username == "" {
		username = model.UnknownPlayer
	}
	session := &model.GameSession{
		Username: username,
		Score:    score,
		Mode:     mode,
		IsLive:   isLive,
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	s.invalidate(ctx, session.ID)
	s.metrics.RecordSessionEvent("create")
	return session, nil
}

// Update overwrites score and liveness. Unknown ids are not written.
func (s *sessionService) Update(ctx context.Context, id uuid.UUID, score int, isLive bool) (*model.GameSession, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	session.Score = score
	session.IsLive = isLive
	if err := s.repo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}
	s.invalidate(ctx, id)
	s.metrics.RecordSessionEvent("update")
	return session, nil
}

func (s *sessionService) Close(ctx context.Context, id uuid.UUID) (*model.GameSession, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	session.IsLive = false
	if err := s.repo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("close session: %w", err)
	}
	s.invalidate(ctx, id)
	s.metrics.RecordSessionEvent("close")
	return session, nil
}

func (s *sessionService) Get(ctx context.Context, id uuid.UUID) (*model.GameSession, error) {
	key := sessionCacheKey(id)
	var cached model.GameSession
	if s.cache.GetJSON(ctx, key, &cached) {
		// CreatedAt/UpdatedAt are not serialized; callers only use the public fields.
		return &cached, nil
	}
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = s.cache.SetJSON(ctx, key, session, s.cacheTTL)
	return session, nil
}

// ListLive returns sessions currently in progress.
func (s *sessionService) ListLive(ctx context.Context) ([]model.GameSession, error) {
	var cached []model.GameSession
	if s.cache.GetJSON(ctx, liveSessionsCacheKey, &cached) {
		return cached, nil
	}
	sessions, err := s.repo.ListLive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list live sessions: %w", err)
	}
	_ = s.cache.SetJSON(ctx, liveSessionsCacheKey, sessions, s.cacheTTL)
	return sessions, nil
}

func (s *sessionService) ListByUsername(ctx context.Context, username string) ([]model.GameSession, error) {
	sessions, err := s.repo.ListByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("list user sessions: %w", err)
	}
	return sessions, nil
}

func (s *sessionService) invalidate(ctx context.Context, id uuid.UUID) {
	_ = s.cache.Delete(ctx, sessionCacheKey(id), liveSessionsCacheKey)
}

func sessionCacheKey(id uuid.UUID) string {
	return "session:" + id.String()
}
