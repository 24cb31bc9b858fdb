package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ichika06/ojt-tracker/cache"
	"github.com/ichika06/ojt-tracker/config"
	"github.com/ichika06/ojt-tracker/internal/timeutil"
	"github.com/ichika06/ojt-tracker/remote"
	"github.com/ichika06/ojt-tracker/session"
)

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func loadConfig() (*config.Config, error) {
	return config.LoadAndValidate()
}

func resolveCachePath(cfg *config.Config) (string, error) {
	if path := strings.TrimSpace(cfg.Cache.Path); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".ojt-tracker", "cache.db"), nil
}

func newRemoteClient(cfg *config.Config, token string) (*remote.HTTPClient, error) {
	return remote.NewClient(remote.ClientConfig{
		BaseURL:   cfg.Remote.URL,
		AuthToken: token,
		UserAgent: "ojt-tracker/1.0",
	})
}

func loadAuthUser() (remote.User, error) {
	statePath, err := remote.DefaultAuthStatePath()
	if err != nil {
		return remote.User{}, err
	}
	user, err := remote.LoadAuthState(statePath)
	if err != nil {
		return remote.User{}, fmt.Errorf("not signed in (run: ojt login): %w", err)
	}
	return user, nil
}

// startSession wires client, cache, and coordinator for a signed-in user and
// performs one synchronous refresh so one-shot commands see current data. A
// refresh failure is reported as a warning; the cached view still serves.
func startSession(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*session.Coordinator, *cache.Store, func(), error) {
	user, err := loadAuthUser()
	if err != nil {
		return nil, nil, nil, err
	}

	client, err := newRemoteClient(cfg, user.Token)
	if err != nil {
		return nil, nil, nil, err
	}

	cachePath, err := resolveCachePath(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	store, err := cache.Open(cachePath)
	if err != nil {
		return nil, nil, nil, err
	}

	coord := session.New(client, store, session.Options{
		PollInterval: cfg.Sync.PollInterval,
		Logger:       logger,
	})
	if err := coord.Start(ctx, user); err != nil {
		_ = store.Close()
		return nil, nil, nil, err
	}
	if err := coord.Refresh(ctx); err != nil {
		logger.Warn("refresh from server failed, using cached data", "error", err)
	}

	cleanup := func() {
		coord.Teardown()
		_ = store.Close()
	}
	return coord, store, cleanup, nil
}

// resolveDate accepts an optional date argument, defaulting to today in the
// configured timezone.
func resolveDate(args []string, cfg *config.Config) (string, *time.Location, error) {
	loc, err := timeutil.LoadZone(cfg.Timezone)
	if err != nil {
		return "", nil, err
	}
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return timeutil.Today(loc), loc, nil
	}
	date := strings.TrimSpace(args[0])
	if _, err := timeutil.ParseDateKey(date, loc); err != nil {
		return "", nil, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", date)
	}
	return date, loc, nil
}

func detectOutputFormat(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "csv":
		return "csv"
	case "xlsx", "xlsm", "xls":
		return "excel"
	default:
		return "csv"
	}
}
