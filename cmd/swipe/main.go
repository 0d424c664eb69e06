// Command swipe walks the profile stack from a running server, submits a like
// or dislike for each profile and keeps the resulting matches in a local
// SQLite file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"swipe-match-backend/internal/apperr"
	"swipe-match-backend/internal/client"
	"swipe-match-backend/internal/models"
	"swipe-match-backend/internal/repository"
	"swipe-match-backend/internal/services"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

func main() {
	baseURL := pflag.String("base-url", "http://localhost:8080", "server base URL")
	userID := pflag.String("user", "user-1", "id to swipe as")
	likes := pflag.IntSlice("like", nil, "profile ids to like; every other profile is disliked")
	dbPath := pflag.String("db", "matches.db", "SQLite file holding local matches")
	retries := pflag.Int("retries", 3, "attempts per request")
	timeout := pflag.Duration("timeout", 10*time.Second, "limit per request")
	verbose := pflag.BoolP("verbose", "v", false, "debug logging")
	pflag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, logger, options{
		baseURL: *baseURL,
		userID:  *userID,
		likes:   *likes,
		dbPath:  *dbPath,
		retries: *retries,
		timeout: *timeout,
	}); err != nil {
		logger.Fatal().Err(err).Msg("Swipe session failed")
	}
}

type options struct {
	baseURL string
	userID  string
	likes   []int
	dbPath  string
	retries int
	timeout time.Duration
}

func run(ctx context.Context, logger zerolog.Logger, opts options) error {
	kv, err := repository.NewSQLiteKV(opts.dbPath)
	if err != nil {
		return err
	}
	defer kv.Close()

	store := services.NewMatchStore(kv, services.MatchStoreOptions{
		Key:          "tinder-matches",
		MaxMatches:   1000,
		Debounce:     200 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
	}, logger)
	store.Load(ctx)
	defer store.Close()

	api := client.New(opts.baseURL, nil)

	profiles, err := client.WithRetry(ctx, func(ctx context.Context) ([]models.Profile, error) {
		return client.WithTimeout(ctx, api.GetProfiles, opts.timeout)
	}, opts.retries, time.Second, logger)
	if err != nil {
		return fmt.Errorf("failed to fetch profiles: %w", err)
	}
	if len(profiles) == 0 {
		fmt.Println("No more profiles")
		return nil
	}

	liked := make(map[int]bool, len(opts.likes))
	for _, id := range opts.likes {
		liked[id] = true
	}

	for _, p := range profiles {
		action := models.ActionDislike
		if liked[p.ID] {
			action = models.ActionLike
		}

		resp, err := client.WithRetry(ctx, func(ctx context.Context) (models.InteractionResponse, error) {
			return client.WithTimeout(ctx, func(ctx context.Context) (models.InteractionResponse, error) {
				return api.PostInteraction(ctx, client.InteractionRequest{
					FromUserID: opts.userID,
					ToUserID:   p.ID,
					Action:     action,
				})
			}, opts.timeout)
		}, opts.retries, time.Second, logger)
		switch {
		case apperr.Is(err, apperr.DuplicateLikeKind):
			fmt.Printf("%-10s already liked\n", p.Name)
			continue
		case err != nil:
			return fmt.Errorf("failed to submit %s for profile %d: %w", action, p.ID, err)
		}

		fmt.Printf("%-10s %-7s match=%t\n", p.Name, action, resp.Match)
		if resp.Match {
			if _, err := store.AddMatch(p); err != nil {
				logger.Warn().Err(err).Int("profile_id", p.ID).Msg("Match not stored")
			}
		}
	}

	if err := store.Flush(ctx); err != nil {
		return fmt.Errorf("failed to save matches: %w", err)
	}

	info := store.StorageInfo(ctx)
	fmt.Printf("%d active matches, %s stored in %s\n", info.MatchCount, info.StorageUsed, opts.dbPath)
	return nil
}
