package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"points-feed/internal/config"
	"points-feed/internal/handlers"
	"points-feed/internal/repository"
	"points-feed/internal/repository/memory"
	"points-feed/internal/services"

	"github.com/go-extras/cobraflags"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const storeFlag = "store"

var serveFlags = map[string]cobraflags.Flag{
	configFlag: newConfigFlag(),
	storeFlag: &cobraflags.StringFlag{
		Name:  storeFlag,
		Value: "postgres",
		Usage: "Backing store: postgres or memory",
	},
}

func newServeCommand() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), serveFlags[configFlag].GetString(), serveFlags[storeFlag].GetString())
		},
	}
	cobraflags.RegisterMap(serveCmd, serveFlags)
	return serveCmd
}

// stores is the set of persistence backends the services are built on
type stores struct {
	users           services.UserStore
	posts           services.PostStore
	feedItems       services.FeedItemStore
	friendships     services.FriendshipStore
	awards          services.AwardStore
	authentications services.AuthenticationStore
}

func postgresStores(db *pgxpool.Pool) stores {
	return stores{
		users:           repository.NewUserRepository(db),
		posts:           repository.NewPostRepository(db),
		feedItems:       repository.NewFeedItemRepository(db),
		friendships:     repository.NewFriendshipRepository(db),
		awards:          repository.NewAwardRepository(db),
		authentications: repository.NewAuthenticationRepository(db),
	}
}

func memoryStores(m *memory.Store) stores {
	return stores{
		users:           m.Users(),
		posts:           m.Posts(),
		feedItems:       m.FeedItems(),
		friendships:     m.Friendships(),
		awards:          m.Awards(),
		authentications: m.Authentications(),
	}
}

func buildServices(ctx context.Context, cfg *config.Config, st stores) (handlers.Services, error) {
	userService := services.NewUserService(st.users, cfg.JWT.Secret)
	friendshipService := services.NewFriendshipService(st.friendships, st.users)
	streamService := services.NewStreamService(st.posts, st.feedItems)
	gate := services.NewVisibilityGate(friendshipService)

	svc := handlers.Services{
		Users:           userService,
		Authentications: services.NewAuthenticationService(st.authentications),
		Friendships:     friendshipService,
		Gate:            gate,
		Stream:          streamService,
		Posts:           services.NewPostService(st.posts, streamService, gate),
		Awards:          services.NewAwardService(st.awards, st.posts, gate),
		PageSize:        cfg.Stream.PageSize,
		MaxPageSize:     cfg.Stream.MaxPageSize,
	}

	if cfg.AWS.S3Bucket == "" {
		log.Warn().Msg("No S3 bucket configured, uploads are disabled")
		return svc, nil
	}
	uploadService, err := services.NewUploadService(ctx, services.S3Options{
		Region:    cfg.AWS.Region,
		Bucket:    cfg.AWS.S3Bucket,
		AccessKey: cfg.AWS.AccessKey,
		SecretKey: cfg.AWS.SecretKey,
		Endpoint:  cfg.AWS.Endpoint,
	})
	if err != nil {
		return handlers.Services{}, fmt.Errorf("failed to create upload service: %w", err)
	}
	svc.Uploads = uploadService
	return svc, nil
}

func serve(ctx context.Context, configFile, store string) error {
	// Load configuration
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	var st stores
	switch store {
	case "postgres":
		db, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		if err := db.Ping(ctx); err != nil {
			return fmt.Errorf("failed to ping database: %w", err)
		}
		log.Info().Msg("Database connection established")
		st = postgresStores(db)
	case "memory":
		log.Warn().Msg("Using in-memory store, data is lost on exit")
		st = memoryStores(memory.New())
	default:
		return fmt.Errorf("unknown store %q", store)
	}

	svc, err := buildServices(ctx, cfg, st)
	if err != nil {
		return err
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handlers.NewRouter(svc),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Str("store", store).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	}

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
	return nil
}
