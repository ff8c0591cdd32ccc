package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"apiservices/internal/auth"
	"apiservices/internal/cache"
	"apiservices/internal/config"
	"apiservices/internal/db"
	"apiservices/internal/logging"
	"apiservices/internal/model"
	"apiservices/internal/repository"
	"apiservices/internal/service"
)

// seedOptions are read on top of the shared configuration.
type seedOptions struct {
	// LeaderboardURL optionally points at a JSON array of extra scores to import.
	LeaderboardURL string        `env:"SEED_LEADERBOARD_URL"`
	FetchTimeout   time.Duration `env:"SEED_FETCH_TIMEOUT" envDefault:"15s"`
}

// importedScore represents one score from the external feed.
type importedScore struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
	Mode     string `json:"mode"`
	Date     string `json:"date"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	opts, err := env.ParseAs[seedOptions]()
	if err != nil {
		slog.Error("load seed options", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if err := run(context.Background(), cfg, opts, logger); err != nil {
		logger.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("seed completed")
}

func run(ctx context.Context, cfg *config.Config, opts seedOptions, logger *slog.Logger) error {
	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB, cfg.ResetDB, model.ArenaTables()...); err != nil {
		return err
	}

	// Shared with running arena servers.
	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, service.ArenaCachePrefix)
	defer cacheClient.Close()
	if err := cacheClient.Ping(ctx); err != nil {
		logger.Warn("redis unavailable, cached listings expire after CACHE_TTL", slog.String("error", err.Error()))
	}

	seeder := service.NewSampleSeeder(
		repository.NewUserRepository(gormDB),
		repository.NewLeaderboardRepository(gormDB),
		repository.NewSessionRepository(gormDB),
		auth.NewPasswordHasher(cfg.BcryptCost),
		cacheClient,
		logger,
	)
	if _, err := seeder.SeedSample(ctx); err != nil {
		return err
	}

	if opts.LeaderboardURL == "" {
		return nil
	}

	logger.Info("fetching scores", slog.String("url", opts.LeaderboardURL))
	client := &http.Client{Timeout: opts.FetchTimeout}
	scores, err := fetchScores(ctx, client, opts.LeaderboardURL)
	if err != nil {
		return err
	}

	entries, skipped := toEntries(scores)
	if skipped > 0 {
		logger.Warn("skipped invalid scores", slog.Int("count", skipped))
	}
	_, err = seeder.ImportScores(ctx, entries)
	return err
}

// fetchScores fetches score data from the external feed.
func fetchScores(ctx context.Context, client *http.Client, url string) ([]importedScore, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scores: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("score feed returned status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var scores []importedScore
	if err := json.Unmarshal(body, &scores); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return scores, nil
}

// toEntries converts feed items into leaderboard entries, dropping items with
// an unknown mode or malformed date.
func toEntries(scores []importedScore) ([]model.LeaderboardEntry, int) {
	entries := make([]model.LeaderboardEntry, 0, len(scores))
	skipped := 0
	for _, s := range scores {
		mode := model.GameMode(s.Mode)
		if !mode.Valid() {
			skipped++
			continue
		}
		day := time.Now()
		if s.Date != "" {
			parsed, err := time.Parse("2006-01-02", s.Date)
			if err != nil {
				skipped++
				continue
			}
			day = parsed
		}
		username := strings.TrimSpace(s.Username)
		if username == "" {
			username = model.UnknownPlayer
		}
		entries = append(entries, model.LeaderboardEntry{
			Username: username,
			Score:    s.Score,
			Mode:     mode,
			Date:     model.NewDate(day),
		})
	}
	return entries, skipped
}
