package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"apiservices/internal/db"
	apperrors "apiservices/internal/errors"
	"apiservices/internal/model"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gormDB, err := db.NewSQLite("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)

	tables := append(model.ArenaTables(), model.TodoTables()...)
	require.NoError(t, db.Migrate(gormDB, false, tables...))

	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gormDB
}

func mode(m model.GameMode) *model.GameMode { return &m }

func TestUserRepository_FindBy(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupTestDB(t))

	user := &model.User{Username: "SnakeMaster", Email: "player1@snake.io", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEqual(t, uuid.Nil, user.ID)

	byEmail, err := repo.FindByEmail(ctx, "player1@snake.io")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byName, err := repo.FindByUsername(ctx, "SnakeMaster")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "SnakeMaster", byID.Username)

	_, err = repo.FindByEmail(ctx, "nobody@snake.io")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestUserRepository_UniqueEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupTestDB(t))

	require.NoError(t, repo.Create(ctx, &model.User{Username: "a", Email: "dup@snake.io", PasswordHash: "h"}))
	err := repo.Create(ctx, &model.User{Username: "b", Email: "dup@snake.io", PasswordHash: "h"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestUserRepository_WithTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupTestDB(t))

	err := repo.WithTransaction(ctx, func(ctx context.Context, tx UserRepository) error {
		require.NoError(t, tx.Create(ctx, &model.User{Username: "ghost", Email: "ghost@snake.io", PasswordHash: "h"}))
		return apperrors.ErrUsernameTaken
	})
	assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)

	_, err = repo.FindByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestTodoRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewTodoRepository(setupTestDB(t))

	todo := &model.Todo{Title: "buy milk"}
	require.NoError(t, repo.Create(ctx, todo))
	assert.Equal(t, model.TodoStatusPending, todo.Status)
	assert.False(t, todo.CreatedAt.IsZero())

	created := todo.UpdatedAt
	time.Sleep(5 * time.Millisecond)
	todo.Title = "buy oat milk"
	require.NoError(t, repo.Update(ctx, todo))

	found, err := repo.FindByID(ctx, todo.ID)
	require.NoError(t, err)
	assert.Equal(t, "buy oat milk", found.Title)
	assert.True(t, found.UpdatedAt.After(created), "updated_at must move forward")

	require.NoError(t, repo.Delete(ctx, todo.ID))
	_, err = repo.FindByID(ctx, todo.ID)
	assert.ErrorIs(t, err, apperrors.ErrTodoNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, todo.ID), apperrors.ErrTodoNotFound)
}

func TestTodoRepository_ListByStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewTodoRepository(setupTestDB(t))

	now := time.Now()
	first := &model.Todo{Title: "first"}
	require.NoError(t, repo.Create(ctx, first))
	time.Sleep(5 * time.Millisecond)
	second := &model.Todo{Title: "second", Status: model.TodoStatusResolved, ResolvedAt: &now}
	require.NoError(t, repo.Create(ctx, second))

	all, err := repo.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "second", all[0].Title, "newest first")

	resolved := model.TodoStatusResolved
	onlyResolved, err := repo.List(ctx, &resolved)
	require.NoError(t, err)
	require.Len(t, onlyResolved, 1)
	assert.Equal(t, second.ID, onlyResolved[0].ID)
}

func seedLeaderboard(t *testing.T, repo LeaderboardRepository) {
	t.Helper()
	ctx := context.Background()
	for _, e := range []model.LeaderboardEntry{
		{Username: "SnakeMaster", Score: 2450, Mode: model.GameModeWalls},
		{Username: "VenomStrike", Score: 2100, Mode: model.GameModePassThrough},
		{Username: "CobraKing", Score: 1890, Mode: model.GameModeWalls},
	} {
		e := e
		e.Date = model.NewDate(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
		require.NoError(t, repo.Create(ctx, &e))
		time.Sleep(2 * time.Millisecond)
	}
}

func TestLeaderboardRepository_CountHigher(t *testing.T) {
	ctx := context.Background()
	repo := NewLeaderboardRepository(setupTestDB(t))
	seedLeaderboard(t, repo)

	n, err := repo.CountHigher(ctx, 1000, mode(model.GameModeWalls))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.CountHigher(ctx, 1000, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = repo.CountHigher(ctx, 2450, mode(model.GameModeWalls))
	require.NoError(t, err)
	assert.Zero(t, n, "equal scores are not higher")
}

func TestLeaderboardRepository_ListOrdering(t *testing.T) {
	ctx := context.Background()
	repo := NewLeaderboardRepository(setupTestDB(t))
	seedLeaderboard(t, repo)

	tie := &model.LeaderboardEntry{Username: "Late", Score: 2450, Mode: model.GameModeWalls, Date: model.NewDate(time.Now())}
	require.NoError(t, repo.Create(ctx, tie))

	for _, filter := range []*model.GameMode{nil, mode(model.GameModeWalls), mode(model.GameModePassThrough)} {
		entries, err := repo.List(ctx, filter, 100)
		require.NoError(t, err)
		for i := 1; i < len(entries); i++ {
			assert.GreaterOrEqual(t, entries[i-1].Score, entries[i].Score)
		}
		if filter != nil {
			for _, e := range entries {
				assert.Equal(t, *filter, e.Mode)
			}
		}
	}

	walls, err := repo.List(ctx, mode(model.GameModeWalls), 100)
	require.NoError(t, err)
	require.Len(t, walls, 3)
	assert.Equal(t, "SnakeMaster", walls[0].Username, "ties keep insertion order")
	assert.Equal(t, "Late", walls[1].Username)
	assert.Equal(t, "2024-01-15", walls[0].Date.String())

	limited, err := repo.List(ctx, nil, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestLeaderboardRepository_BestForUser(t *testing.T) {
	ctx := context.Background()
	repo := NewLeaderboardRepository(setupTestDB(t))
	seedLeaderboard(t, repo)
	require.NoError(t, repo.CreateBatch(ctx, []model.LeaderboardEntry{
		{Username: "SnakeMaster", Score: 3000, Mode: model.GameModePassThrough, Date: model.NewDate(time.Now())},
	}))

	best, err := repo.BestForUser(ctx, "SnakeMaster", nil)
	require.NoError(t, err)
	assert.Equal(t, 3000, best.Score)

	best, err = repo.BestForUser(ctx, "SnakeMaster", mode(model.GameModeWalls))
	require.NoError(t, err)
	assert.Equal(t, 2450, best.Score)

	_, err = repo.BestForUser(ctx, "Nobody", nil)
	assert.ErrorIs(t, err, apperrors.ErrEntryNotFound)
}

func TestSessionRepository_Live(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(setupTestDB(t))

	live := &model.GameSession{Username: "LivePlayer1", Score: 340, Mode: model.GameModeWalls, IsLive: true}
	done := &model.GameSession{Username: "LivePlayer1", Score: 90, Mode: model.GameModeWalls}
	require.NoError(t, repo.Create(ctx, live))
	require.NoError(t, repo.Create(ctx, done))

	sessions, err := repo.ListLive(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, live.ID, sessions[0].ID)

	live.IsLive = false
	require.NoError(t, repo.Update(ctx, live))
	sessions, err = repo.ListLive(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	byUser, err := repo.ListByUsername(ctx, "LivePlayer1")
	require.NoError(t, err)
	assert.Len(t, byUser, 2)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}
