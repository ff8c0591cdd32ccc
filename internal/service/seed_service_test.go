package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apiservices/internal/model"
	"apiservices/internal/repository"
)

func TestSampleSeeder_SeedsOnce(t *testing.T) {
	ctx := context.Background()
	gormDB := setupArenaDB(t)
	users := repository.NewUserRepository(gormDB)
	leaderboard := repository.NewLeaderboardRepository(gormDB)
	sessions := repository.NewSessionRepository(gormDB)
	hasher := newTestHasher()

	seeder := NewSampleSeeder(users, leaderboard, sessions, hasher, nil, nil)

	res, err := seeder.SeedSample(ctx)
	require.NoError(t, err)
	assert.Equal(t, &SeedResult{Users: 2, Entries: 3, Sessions: 2}, res)

	user, err := users.FindByEmail(ctx, "player1@snake.io")
	require.NoError(t, err)
	assert.Equal(t, "SnakeMaster", user.Username)
	assert.True(t, hasher.Verify("password123", user.PasswordHash))

	entries, err := leaderboard.List(ctx, nil, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "SnakeMaster", entries[0].Username)
	assert.Equal(t, "2024-01-15", entries[0].Date.String())

	live, err := sessions.ListLive(ctx)
	require.NoError(t, err)
	assert.Len(t, live, 2)

	again, err := seeder.SeedSample(ctx)
	require.NoError(t, err)
	assert.True(t, again.Skipped)

	entries, err = leaderboard.List(ctx, gameMode(model.GameModeWalls), 10)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestSampleSeeder_InvalidatesCachedListings(t *testing.T) {
	ctx := context.Background()
	gormDB := setupArenaDB(t)
	cacheClient, mr := setupCache(t)
	users := repository.NewUserRepository(gormDB)
	leaderboardRepo := repository.NewLeaderboardRepository(gormDB)
	sessionRepo := repository.NewSessionRepository(gormDB)

	board := NewLeaderboardService(leaderboardRepo, cacheClient, time.Minute, nil, nil)
	sessions := NewSessionService(sessionRepo, cacheClient, time.Minute, nil)

	entries, err := board.GetLeaderboard(ctx, nil, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
	live, err := sessions.ListLive(ctx)
	require.NoError(t, err)
	assert.Empty(t, live)
	require.True(t, mr.Exists("arena:leaderboard:all:100"))
	require.True(t, mr.Exists("arena:sessions:live"))

	seeder := NewSampleSeeder(users, leaderboardRepo, sessionRepo, newTestHasher(), cacheClient, nil)
	_, err = seeder.SeedSample(ctx)
	require.NoError(t, err)

	assert.False(t, mr.Exists("arena:leaderboard:all:100"))
	assert.False(t, mr.Exists("arena:sessions:live"))

	entries, err = board.GetLeaderboard(ctx, nil, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	live, err = sessions.ListLive(ctx)
	require.NoError(t, err)
	assert.Len(t, live, 2)
}

func TestSampleSeeder_ImportScores(t *testing.T) {
	ctx := context.Background()
	gormDB := setupArenaDB(t)
	cacheClient, _ := setupCache(t)
	leaderboardRepo := repository.NewLeaderboardRepository(gormDB)
	board := NewLeaderboardService(leaderboardRepo, cacheClient, time.Minute, nil, nil)
	seeder := NewSampleSeeder(
		repository.NewUserRepository(gormDB),
		leaderboardRepo,
		repository.NewSessionRepository(gormDB),
		newTestHasher(),
		cacheClient,
		nil,
	)

	n, err := seeder.ImportScores(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	walls := gameMode(model.GameModeWalls)
	entries, err := board.GetLeaderboard(ctx, walls, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)

	n, err = seeder.ImportScores(ctx, []model.LeaderboardEntry{
		{Username: "CobraKing", Score: 1890, Mode: model.GameModeWalls, Date: sampleDate(2024, time.January, 13)},
		{Username: "Viper", Score: 700, Mode: model.GameModePassThrough, Date: sampleDate(2024, time.January, 12)},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	entries, err = board.GetLeaderboard(ctx, walls, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "CobraKing", entries[0].Username)
}
