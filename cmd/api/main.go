package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/01moynul/taptosell-admin/internal/auth"
	"github.com/01moynul/taptosell-admin/internal/config"
	"github.com/01moynul/taptosell-admin/internal/database"
	"github.com/01moynul/taptosell-admin/internal/handlers"
	"github.com/01moynul/taptosell-admin/internal/logging"
	"github.com/01moynul/taptosell-admin/internal/metrics"
	"github.com/01moynul/taptosell-admin/internal/push"
	"github.com/01moynul/taptosell-admin/internal/routes"
	"github.com/01moynul/taptosell-admin/internal/store"
	"github.com/01moynul/taptosell-admin/internal/uploads"
)

func main() {
	// 0. --- Load Environment Variables (.env) ---
	loadedDotEnv := config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New("api", cfg.LogLevel)
	if !loadedDotEnv {
		logger.Warn().Msg("no .env file loaded, relying on system environment variables")
	}
	if err := cfg.Validate("api"); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error().Err(err).Msg("admin API stopped")
		stop()
		os.Exit(1)
	}
}

// run wires every dependency and serves until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	// 1. --- Database Connection & Migrations ---
	db, err := database.OpenDB(ctx, cfg.DBDSN, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}

	// 2. --- Image Storage ---
	images, uploadDir, err := newImageStore(cfg)
	if err != nil {
		return fmt.Errorf("set up image store: %w", err)
	}
	logger.Info().Str("store", cfg.ImageStore).Msg("image store ready")

	notifications := store.NewNotificationStore(db)

	// 3. --- Push Notifications (Background Worker) ---
	publisher, closePush, err := startPush(ctx, cfg, notifications, logger)
	if err != nil {
		return err
	}
	defer closePush()

	// 4. --- Metrics ---
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.RegisterDBStats(reg, db)

	// --- Application Setup ---
	authenticator := auth.NewAuthenticator(cfg.JWTSecret, cfg.AdminEmail, cfg.AdminPasswordHash)
	app := &handlers.Handlers{
		Users:         store.NewUserStore(db),
		Brands:        store.NewBrandStore(db),
		Categories:    store.NewCategoryStore(db),
		Teams:         store.NewTeamStore(db),
		Notifications: notifications,
		Images:        images,
		Publisher:     publisher,
		Auth:          authenticator,
		Logger:        logger.With().Str("component", "handlers").Logger(),
	}

	router := newRouter(cfg, app, authenticator, reg, uploadDir, logger)

	// --- Start Server ---
	ln, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.HTTPAddr, err)
	}
	return serve(ctx, ln, router, logger)
}

// newImageStore picks the image store from config. The returned directory is
// non-empty when uploads must be served by the API itself.
func newImageStore(cfg *config.Config) (uploads.ImageStore, string, error) {
	if cfg.ImageStore == "s3" {
		opts := uploads.S3Options{
			Endpoint:     cfg.S3Endpoint,
			Region:       cfg.S3Region,
			Bucket:       cfg.S3Bucket,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			PublicURL:    cfg.S3PublicURL,
			UsePathStyle: cfg.S3UsePathStyle,
			Prefix:       "images/",
		}
		return uploads.NewS3Store(uploads.NewS3Client(opts), opts), "", nil
	}

	local, err := uploads.NewLocalStore(cfg.UploadDir, cfg.BaseURL)
	if err != nil {
		return nil, "", err
	}
	return local, cfg.UploadDir, nil
}

// startPush connects the publisher and starts the background worker that
// displays notifications into sink. Without REDIS_ADDR messages are dropped.
func startPush(ctx context.Context, cfg *config.Config, sink push.NotificationSink, logger zerolog.Logger) (push.Publisher, func(), error) {
	if cfg.RedisAddr == "" {
		logger.Warn().Msg("REDIS_ADDR not set, push notifications disabled")
		return push.NopPublisher{}, func() {}, nil
	}

	rdb, err := push.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, nil, err
	}

	worker := push.NewWorker(rdb, push.Channel, logger)
	worker.OnBackgroundMessage(push.DisplayNotification(sink))

	workerCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := worker.Run(workerCtx); err != nil {
			logger.Error().Err(err).Msg("push worker exited")
		}
	}()

	closeFn := func() {
		cancel()
		<-done
		rdb.Close()
	}
	return push.NewRedisPublisher(rdb, push.Channel), closeFn, nil
}

func newRouter(cfg *config.Config, app *handlers.Handlers, tokens *auth.Authenticator, reg *prometheus.Registry, uploadDir string, logger zerolog.Logger) http.Handler {
	return routes.SetupRouter(app, routes.Options{
		Logger:     logger,
		CORSOrigin: cfg.CORSOrigin,
		Tokens:     tokens,
		Metrics:    metrics.NewHTTP(reg),
		Gatherer:   reg,
		UploadDir:  uploadDir,
	})
}

// serve runs the HTTP server on ln until ctx is cancelled, then shuts it down
// gracefully.
func serve(ctx context.Context, ln net.Listener, handler http.Handler, logger zerolog.Logger) error {
	httpServer := &http.Server{
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", ln.Addr().String()).Msg("starting admin API server")
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
