package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/SummySKJi/amplify-audio-sphere/api/controllers"
	"github.com/SummySKJi/amplify-audio-sphere/api/routes"
	"github.com/SummySKJi/amplify-audio-sphere/internal/artists"
	"github.com/SummySKJi/amplify-audio-sphere/internal/auth"
	"github.com/SummySKJi/amplify-audio-sphere/internal/labels"
	"github.com/SummySKJi/amplify-audio-sphere/internal/mailer"
	"github.com/SummySKJi/amplify-audio-sphere/internal/media"
	"github.com/SummySKJi/amplify-audio-sphere/internal/platforms"
	"github.com/SummySKJi/amplify-audio-sphere/internal/profiles"
	"github.com/SummySKJi/amplify-audio-sphere/internal/releases"
	"github.com/SummySKJi/amplify-audio-sphere/internal/requests"
	"github.com/SummySKJi/amplify-audio-sphere/internal/royalty"
	"github.com/SummySKJi/amplify-audio-sphere/internal/wallet"
	"github.com/SummySKJi/amplify-audio-sphere/internal/withdrawals"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/auth/session"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/config"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/db"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/logger"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/metrics"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/migrate"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/redis"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap cloud storage", err)
		os.Exit(1)
	}
	defer func() {
		if err := gcsClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing cloud storage", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	mail := mailer.New(cfg.Mail, cfg.App, logg)

	gormDB := dbClient.DB()
	profileRepo := profiles.NewRepository(gormDB)
	artistRepo := artists.NewRepository(gormDB)
	labelRepo := labels.NewRepository(gormDB)
	platformRepo := platforms.NewRepository(gormDB)
	mediaRepo := media.NewRepository(gormDB)
	releaseRepo := releases.NewRepository(gormDB)
	walletRepo := wallet.NewRepository(gormDB)
	withdrawalRepo := withdrawals.NewRepository(gormDB)
	removalRepo := requests.NewCopyrightRemovalRepository(gormDB)
	oacRepo := requests.NewOACRepository(gormDB)
	royaltyRepo := royalty.NewRepository(gormDB)

	authService, err := auth.NewService(auth.ServiceParams{
		ProfileRepo:    profileRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		AuthConfig:     cfg.Auth,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		TxRunner:       dbClient,
		Mailer:         mail,
		PasswordConfig: cfg.Password,
		AuthConfig:     cfg.Auth,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	resetService, err := auth.NewPasswordResetService(auth.PasswordResetServiceParams{
		ProfileRepo:    profileRepo,
		TokenStore:     redisClient,
		Mailer:         mail,
		PasswordConfig: cfg.Password,
		AuthConfig:     cfg.Auth,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create password reset service", err)
		os.Exit(1)
	}

	var googleService auth.GoogleService
	if cfg.GoogleOAuth.Enabled() {
		googleService, err = auth.NewGoogleService(auth.GoogleServiceParams{
			Config:         cfg.GoogleOAuth,
			AuthConfig:     cfg.Auth,
			JWTConfig:      cfg.JWT,
			PasswordConfig: cfg.Password,
			ProfileRepo:    profileRepo,
			TxRunner:       dbClient,
			SessionManager: sessionManager,
			StateStore:     redisClient,
			Logger:         logg,
		})
		if err != nil {
			logg.Error(context.Background(), "failed to create google sign-in service", err)
			os.Exit(1)
		}
	}

	profileService, err := profiles.NewService(profiles.ServiceParams{
		Repository: profileRepo,
		Password:   cfg.Password,
		Auth:       cfg.Auth,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create profile service", err)
		os.Exit(1)
	}

	artistService, err := artists.NewService(artistRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create artist service", err)
		os.Exit(1)
	}

	labelService, err := labels.NewService(labelRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create label service", err)
		os.Exit(1)
	}

	platformService, err := platforms.NewService(platformRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create platform service", err)
		os.Exit(1)
	}

	mediaService, err := media.NewService(media.ServiceParams{
		Repository: mediaRepo,
		Signer:     gcsClient,
		GCSConfig:  cfg.GCS,
		Media:      cfg.Media,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create media service", err)
		os.Exit(1)
	}

	releaseService, err := releases.NewService(releases.ServiceParams{
		Repository: releaseRepo,
		Artists:    artistRepo,
		Labels:     labelRepo,
		Platforms:  platformService,
		Media:      mediaRepo,
		Signer:     gcsClient,
		GCSConfig:  cfg.GCS,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create release service", err)
		os.Exit(1)
	}

	walletService, err := wallet.NewService(wallet.ServiceParams{
		TxRunner:   dbClient,
		Repository: walletRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create wallet service", err)
		os.Exit(1)
	}

	withdrawalService, err := withdrawals.NewService(withdrawals.ServiceParams{
		TxRunner:   dbClient,
		Repository: withdrawalRepo,
		Wallets:    walletRepo,
		Payout:     cfg.Payout,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create withdrawal service", err)
		os.Exit(1)
	}

	requestService, err := requests.NewService(requests.ServiceParams{
		CopyrightRemovals: removalRepo,
		OACs:              oacRepo,
		Releases:          releaseRepo,
		Artists:           artistRepo,
		Labels:            labelRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create request service", err)
		os.Exit(1)
	}

	royaltyService, err := royalty.NewService(royalty.ServiceParams{
		TxRunner:   dbClient,
		Repository: royaltyRepo,
		Media:      mediaRepo,
		Signer:     mediaService,
		Artists:    artistRepo,
		Labels:     labelRepo,
		Profiles:   profileRepo,
		Wallets:    walletRepo,
		Logger:     logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create royalty service", err)
		os.Exit(1)
	}

	promRegistry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(promRegistry)

	router := routes.NewRouter(routes.Deps{
		Config:       cfg,
		Logger:       logg,
		Redis:        redisClient,
		Sessions:     sessionManager,
		HTTPMetrics:  httpMetrics,
		PromRegistry: promRegistry,
		HealthDeps: map[string]controllers.Pinger{
			"database": dbClient,
			"redis":    redisClient,
			"storage":  gcsClient,
		},
		AuthService:     authService,
		RegisterService: registerService,
		ResetService:    resetService,
		GoogleService:   googleService,
		Profiles:        profileService,
		Artists:         artistService,
		Labels:          labelService,
		Platforms:       platformService,
		Media:           mediaService,
		Releases:        releaseService,
		Wallet:          walletService,
		Withdrawals:     withdrawalService,
		Requests:        requestService,
		Royalty:         royaltyService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
