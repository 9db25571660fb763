package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SummySKJi/amplify-audio-sphere/api/controllers"
	"github.com/SummySKJi/amplify-audio-sphere/api/middleware"
	"github.com/SummySKJi/amplify-audio-sphere/internal/artists"
	"github.com/SummySKJi/amplify-audio-sphere/internal/auth"
	"github.com/SummySKJi/amplify-audio-sphere/internal/labels"
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
	"github.com/SummySKJi/amplify-audio-sphere/pkg/enums"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/logger"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/metrics"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// Deps bundles everything the router mounts.
type Deps struct {
	Config       *config.Config
	Logger       *logger.Logger
	Redis        *redis.Client
	Sessions     sessionManager
	HTTPMetrics  *metrics.HTTPMetrics
	PromRegistry *prometheus.Registry
	HealthDeps   map[string]controllers.Pinger

	AuthService     auth.Service
	RegisterService auth.RegisterService
	ResetService    auth.PasswordResetService
	GoogleService   auth.GoogleService
	Profiles        profiles.Service
	Artists         artists.Service
	Labels          labels.Service
	Platforms       platforms.Service
	Media           media.Service
	Releases        releases.Service
	Wallet          wallet.Service
	Withdrawals     withdrawals.Service
	Requests        requests.Service
	Royalty         royalty.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, deps.HTTPMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.HealthDeps))
	})

	if deps.PromRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.PromRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
		r.Get("/platforms", controllers.PlatformList(deps.Platforms, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.RegisterService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/forgot-password", controllers.AuthForgotPassword(deps.ResetService, logg))
		r.Post("/reset-password", controllers.AuthResetPassword(deps.ResetService, logg))
		r.Get("/google", controllers.AuthGoogleBegin(deps.GoogleService, logg))
		r.Get("/google/callback", controllers.AuthGoogleCallback(deps.GoogleService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
		r.With(middleware.Auth(cfg.JWT, deps.Sessions, logg)).Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", controllers.ProfileGet(deps.Profiles, logg))
			r.Patch("/", controllers.ProfileUpdate(deps.Profiles, logg))
			r.Post("/password", controllers.ProfileChangePassword(deps.Profiles, logg))
		})

		r.Route("/artists", func(r chi.Router) {
			r.Get("/", controllers.ArtistList(deps.Artists, logg))
			r.Post("/", controllers.ArtistCreate(deps.Artists, logg))
			r.Get("/{artistID}", controllers.ArtistGet(deps.Artists, logg))
			r.Patch("/{artistID}", controllers.ArtistUpdate(deps.Artists, logg))
			r.Delete("/{artistID}", controllers.ArtistDelete(deps.Artists, logg))
		})

		r.Route("/labels", func(r chi.Router) {
			r.Get("/", controllers.LabelList(deps.Labels, logg))
			r.Post("/", controllers.LabelCreate(deps.Labels, logg))
			r.Get("/{labelID}", controllers.LabelGet(deps.Labels, logg))
			r.Patch("/{labelID}", controllers.LabelUpdate(deps.Labels, logg))
			r.Delete("/{labelID}", controllers.LabelDelete(deps.Labels, logg))
		})

		r.Route("/media", func(r chi.Router) {
			r.Post("/presign", controllers.MediaPresign(deps.Media, logg))
		})

		r.Route("/releases", func(r chi.Router) {
			r.Get("/", controllers.ReleaseList(deps.Releases, logg))
			r.Post("/", controllers.ReleaseCreate(deps.Releases, logg))
			r.Get("/{releaseID}", controllers.ReleaseGet(deps.Releases, logg))
			r.Post("/{releaseID}/takedown", controllers.ReleaseTakedown(deps.Releases, logg))
		})

		r.Route("/wallet", func(r chi.Router) {
			r.Get("/", controllers.WalletGet(deps.Wallet, logg))
			r.Get("/transactions", controllers.WalletTransactions(deps.Wallet, logg))
		})

		r.Route("/withdrawals", func(r chi.Router) {
			r.Get("/", controllers.WithdrawalList(deps.Withdrawals, logg))
			r.Post("/", controllers.WithdrawalCreate(deps.Withdrawals, logg))
		})

		r.Route("/copyright-requests", func(r chi.Router) {
			r.Get("/", controllers.CopyrightRemovalList(deps.Requests, logg))
			r.Post("/", controllers.CopyrightRemovalCreate(deps.Requests, logg))
		})

		r.Route("/oac-requests", func(r chi.Router) {
			r.Get("/", controllers.OACList(deps.Requests, logg))
			r.Post("/", controllers.OACCreate(deps.Requests, logg))
		})

		r.Get("/royalty-reports", controllers.RoyaltyReportList(deps.Royalty, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Get("/ping", controllers.AdminPing())

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.AdminCustomerList(deps.Profiles, logg))
			r.Patch("/{userID}/active", controllers.AdminCustomerSetActive(deps.Profiles, logg))
			r.Patch("/{userID}/role", controllers.AdminCustomerSetRole(deps.Profiles, logg))
		})

		r.Route("/releases", func(r chi.Router) {
			r.Get("/", controllers.AdminReleaseList(deps.Releases, logg))
			r.Get("/{releaseID}", controllers.AdminReleaseGet(deps.Releases, logg))
			r.Patch("/{releaseID}/status", controllers.AdminReleaseUpdateStatus(deps.Releases, logg))
		})

		r.Route("/withdrawals", func(r chi.Router) {
			r.Get("/", controllers.AdminWithdrawalList(deps.Withdrawals, logg))
			r.Patch("/{withdrawalID}/status", controllers.AdminWithdrawalUpdateStatus(deps.Withdrawals, logg))
		})

		r.Post("/wallets/{userID}/adjust", controllers.AdminWalletAdjust(deps.Wallet, logg))

		r.Route("/copyright-requests", func(r chi.Router) {
			r.Get("/", controllers.AdminCopyrightRemovalList(deps.Requests, logg))
			r.Patch("/{requestID}/status", controllers.AdminCopyrightRemovalUpdateStatus(deps.Requests, logg))
		})

		r.Route("/oac-requests", func(r chi.Router) {
			r.Get("/", controllers.AdminOACList(deps.Requests, logg))
			r.Patch("/{requestID}/status", controllers.AdminOACUpdateStatus(deps.Requests, logg))
		})

		r.Route("/royalty-reports", func(r chi.Router) {
			r.Get("/", controllers.AdminRoyaltyReportList(deps.Royalty, logg))
			r.Post("/", controllers.AdminRoyaltyReportUpload(deps.Royalty, logg))
		})

		r.Route("/platforms", func(r chi.Router) {
			r.Post("/", controllers.AdminPlatformCreate(deps.Platforms, logg))
			r.Patch("/{platformID}", controllers.AdminPlatformUpdate(deps.Platforms, logg))
			r.Delete("/{platformID}", controllers.AdminPlatformDelete(deps.Platforms, logg))
		})
	})

	return r
}
