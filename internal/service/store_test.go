package service

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"apiservices/internal/cache"
	"apiservices/internal/db"
	"apiservices/internal/metrics"
	"apiservices/internal/model"
)

// setupArenaDB creates an in-memory SQLite database with the arena schema.
func setupArenaDB(t *testing.T) *gorm.DB {
	t.Helper()

	gormDB, err := db.NewSQLite("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB, false, model.ArenaTables()...))

	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gormDB
}

// setupCache starts an in-process redis and returns a client using the arena
// key prefix.
func setupCache(t *testing.T) (*cache.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0, ArenaCachePrefix)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func gameMode(m model.GameMode) *model.GameMode { return &m }

// recordingRecorder captures the events services report.
type recordingRecorder struct {
	metrics.Nop
	ranks    []int
	sessions []string
}

func (r *recordingRecorder) RecordScoreSubmitted(mode string, rank int) {
	r.ranks = append(r.ranks, rank)
}

func (r *recordingRecorder) RecordSessionEvent(event string) {
	r.sessions = append(r.sessions, event)
}
