package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"apiservices/internal/auth"
	"apiservices/internal/config"
	apperrors "apiservices/internal/errors"
	"apiservices/internal/metrics"
	"apiservices/internal/model"
	"apiservices/internal/repository"
)

// AuthOptions selects how the current user is resolved.
type AuthOptions struct {
	MeMode    string
	MockEmail string
}

// AuthService handles authentication operations.
type AuthService interface {
	Signup(ctx context.Context, email, username, password string) (*model.User, error)
	// Login returns the user and, when token issuance is enabled, an access token.
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	// CurrentUser resolves the caller. userID is the verified token subject,
	// nil when the request carried none.
	CurrentUser(ctx context.Context, userID *uuid.UUID) (*model.User, error)
}

type authService struct {
	userRepo   repository.UserRepository
	hasher     *auth.PasswordHasher
	jwtService *auth.JWTService
	opts       AuthOptions
	metrics    metrics.Recorder
	logger     *slog.Logger
	// dummyHash is compared against when the email is unknown so both
	// failure paths cost one bcrypt comparison.
	dummyHash string
}

// NewAuthService creates a new authentication service. jwtService may be nil
// unless opts.MeMode is config.MeModeToken.
func NewAuthService(
	userRepo repository.UserRepository,
	hasher *auth.PasswordHasher,
	jwtService *auth.JWTService,
	opts AuthOptions,
	recorder metrics.Recorder,
	logger *slog.Logger,
) AuthService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MeMode == "" {
		opts.MeMode = config.MeModeUnauthenticated
	}
	dummy, _ := hasher.Hash(uuid.NewString())
	return &authService{
		userRepo:   userRepo,
		hasher:     hasher,
		jwtService: jwtService,
		opts:       opts,
		metrics:    recorder,
		logger:     logger,
		dummyHash:  dummy,
	}
}

// Signup registers a user after checking email and username uniqueness.
func (s *authService) Signup(ctx context.Context, email, username, password string) (*model.User, error) {
	hashedPassword, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
	}

	err = s.userRepo.WithTransaction(ctx, func(ctx context.Context, repo repository.UserRepository) error {
		if err := s.ensureAvailable(ctx, repo, email, username); err != nil {
			return err
		}
		return repo.Create(ctx, user)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost a race against a concurrent signup; report which field collided.
		err = s.ensureAvailable(ctx, s.userRepo, email, username)
		if err == nil {
			err = apperrors.ErrEmailExists
		}
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailExists) || errors.Is(err, apperrors.ErrUsernameTaken) {
			s.metrics.RecordSignup("conflict")
			return nil, err
		}
		s.metrics.RecordSignup("error")
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.metrics.RecordSignup("success")
	s.logger.Info("user signed up", slog.String("user_id", user.ID.String()), slog.String("username", user.Username))
	return user, nil
}

func (s *authService) ensureAvailable(ctx context.Context, repo repository.UserRepository, email, username string) error {
	if _, err := repo.FindByEmail(ctx, email); err == nil {
		return apperrors.ErrEmailExists
	} else if !errors.Is(err, apperrors.ErrUserNotFound) {
		return fmt.Errorf("check email: %w", err)
	}
	if _, err := repo.FindByUsername(ctx, username); err == nil {
		return apperrors.ErrUsernameTaken
	} else if !errors.Is(err, apperrors.ErrUserNotFound) {
		return fmt.Errorf("check username: %w", err)
	}
	return nil
}

// Login verifies credentials. Unknown email and wrong password produce the
// same error.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, "", fmt.Errorf("find user: %w", err)
		}
		s.hasher.Verify(password, s.dummyHash)
		s.metrics.RecordLogin("failure")
		return nil, "", apperrors.ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.metrics.RecordLogin("failure")
		return nil, "", apperrors.ErrInvalidCredentials
	}

	var token string
	if s.opts.MeMode == config.MeModeToken && s.jwtService != nil {
		token, err = s.jwtService.GenerateAccessToken(user.ID, user.Username, user.Email)
		if err != nil {
			return nil, "", fmt.Errorf("generate access token: %w", err)
		}
	}

	s.metrics.RecordLogin("success")
	return user, token, nil
}

func (s *authService) CurrentUser(ctx context.Context, userID *uuid.UUID) (*model.User, error) {
	var (
		user *model.User
		err  error
	)
	switch s.opts.MeMode {
	case config.MeModeMock:
		user, err = s.userRepo.FindByEmail(ctx, s.opts.MockEmail)
	case config.MeModeToken:
		if userID == nil {
			return nil, apperrors.ErrNotAuthenticated
		}
		user, err = s.userRepo.FindByID(ctx, *userID)
	default:
		return nil, apperrors.ErrNotAuthenticated
	}
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, apperrors.ErrNotAuthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("find current user: %w", err)
	}
	return user, nil
}
