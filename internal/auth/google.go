package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/SummySKJi/amplify-audio-sphere/internal/profiles"
	"github.com/SummySKJi/amplify-audio-sphere/internal/wallet"
	pkgAuth "github.com/SummySKJi/amplify-audio-sphere/pkg/auth"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/auth/session"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/config"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/db/models"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/enums"
	pkgerrors "github.com/SummySKJi/amplify-audio-sphere/pkg/errors"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/logger"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/security"
)

const (
	oauthStateBytes     = 24
	googleUserinfoURL   = "https://www.googleapis.com/oauth2/v3/userinfo"
	googleAuthEndpoint  = "https://accounts.google.com/o/oauth2/auth"
	googleTokenEndpoint = "https://oauth2.googleapis.com/token"
)

// GoogleService drives the sign-in-with-Google code-exchange flow. The
// callback mints the same token pair as a password login, creating the
// profile and wallet on first sign-in.
type GoogleService interface {
	BeginURL(ctx context.Context) (string, error)
	Complete(ctx context.Context, state, code string) (*LoginResponse, error)
}

// GoogleIdentity is the subset of the Google userinfo payload the flow needs.
type GoogleIdentity struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

type codeExchanger interface {
	AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string
	Exchange(ctx context.Context, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error)
}

type identityFetcher interface {
	FetchIdentity(ctx context.Context, token *oauth2.Token) (*GoogleIdentity, error)
}

type oauthStateStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	GetDel(ctx context.Context, key string) (string, error)
	OAuthStateKey(state string) string
}

type googleProfileRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Profile, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	UpdateRole(ctx context.Context, id uuid.UUID, role enums.UserRole) error
}

// GoogleServiceParams bundles the Google sign-in dependencies. Exchanger
// and Fetcher default to the real Google endpoints when left nil.
type GoogleServiceParams struct {
	Config             config.GoogleOAuthConfig
	AuthConfig         config.AuthConfig
	JWTConfig          config.JWTConfig
	PasswordConfig     config.PasswordConfig
	ProfileRepo        googleProfileRepository
	TxRunner           txRunner
	ProfileRepoFactory func(tx *gorm.DB) registerProfileRepository
	WalletRepoFactory  func(tx *gorm.DB) registerWalletRepository
	SessionManager     sessionManager
	StateStore         oauthStateStore
	Exchanger          codeExchanger
	Fetcher            identityFetcher
	Logger             *logger.Logger
}

type googleService struct {
	cfg         config.GoogleOAuthConfig
	authCfg     config.AuthConfig
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	profiles    googleProfileRepository
	tx          txRunner
	profileRepo func(tx *gorm.DB) registerProfileRepository
	walletRepo  func(tx *gorm.DB) registerWalletRepository
	session     sessionManager
	states      oauthStateStore
	oauth       codeExchanger
	fetch       identityFetcher
	logg        *logger.Logger
}

// NewGoogleService builds the Google sign-in service.
func NewGoogleService(params GoogleServiceParams) (GoogleService, error) {
	if !params.Config.Enabled() {
		return nil, fmt.Errorf("google oauth is not configured")
	}
	if params.ProfileRepo == nil {
		return nil, fmt.Errorf("profile repository is required")
	}
	if params.TxRunner == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.StateStore == nil {
		return nil, fmt.Errorf("state store is required")
	}
	if params.ProfileRepoFactory == nil {
		params.ProfileRepoFactory = func(tx *gorm.DB) registerProfileRepository {
			return profiles.NewRepository(tx)
		}
	}
	if params.WalletRepoFactory == nil {
		params.WalletRepoFactory = func(tx *gorm.DB) registerWalletRepository {
			return wallet.NewRepository(tx)
		}
	}
	oauthCfg := &oauth2.Config{
		ClientID:     params.Config.ClientID,
		ClientSecret: params.Config.ClientSecret,
		RedirectURL:  params.Config.RedirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  googleAuthEndpoint,
			TokenURL: googleTokenEndpoint,
		},
	}
	if params.Exchanger == nil {
		params.Exchanger = oauthCfg
	}
	if params.Fetcher == nil {
		params.Fetcher = &userinfoFetcher{oauth: oauthCfg}
	}
	return &googleService{
		cfg:         params.Config,
		authCfg:     params.AuthConfig,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
		profiles:    params.ProfileRepo,
		tx:          params.TxRunner,
		profileRepo: params.ProfileRepoFactory,
		walletRepo:  params.WalletRepoFactory,
		session:     params.SessionManager,
		states:      params.StateStore,
		oauth:       params.Exchanger,
		fetch:       params.Fetcher,
		logg:        params.Logger,
	}, nil
}

// BeginURL issues a one-shot state token and returns the Google consent URL.
func (s *googleService) BeginURL(ctx context.Context) (string, error) {
	state, err := security.GenerateToken(oauthStateBytes)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate oauth state")
	}
	if err := s.states.Set(ctx, s.states.OAuthStateKey(state), "1", s.cfg.StateTTL); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store oauth state")
	}
	return s.oauth.AuthCodeURL(state), nil
}

// Complete consumes the state, exchanges the code and signs the caller in.
func (s *googleService) Complete(ctx context.Context, state, code string) (*LoginResponse, error) {
	if strings.TrimSpace(state) == "" || strings.TrimSpace(code) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "state and code are required")
	}

	if _, err := s.states.GetDel(ctx, s.states.OAuthStateKey(state)); err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired state")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "consume oauth state")
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "google code exchange failed")
	}

	identity, err := s.fetch.FetchIdentity(ctx, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch google identity")
	}
	if !identity.EmailVerified || identity.Email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "google account email is not verified")
	}

	profile, err := s.findOrCreateProfile(ctx, identity)
	if err != nil {
		return nil, err
	}
	if !profile.Active {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	role, err := reconcileRole(ctx, s.profiles, s.authCfg, profile)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.profiles.UpdateLastLogin(ctx, profile.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	profile.LastLoginAt = &now

	accessID := session.NewAccessID()
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		UserID: profile.ID,
		Email:  profile.Email,
		Role:   role,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	refreshToken, err := s.session.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store refresh token")
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Profile:      profiles.FromModel(profile),
	}, nil
}

// findOrCreateProfile provisions the profile and wallet on first sign-in.
// Google accounts get an unguessable placeholder credential; password login
// stays unusable until the owner runs a password reset.
func (s *googleService) findOrCreateProfile(ctx context.Context, identity *GoogleIdentity) (*models.Profile, error) {
	email := strings.ToLower(strings.TrimSpace(identity.Email))

	existing, err := s.profiles.FindByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup profile")
	}

	placeholder, err := security.GenerateToken(oauthStateBytes)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate placeholder credential")
	}
	passwordHash, err := security.HashPassword(placeholder, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash placeholder credential")
	}

	fullName := strings.TrimSpace(identity.Name)
	if fullName == "" {
		fullName = email
	}

	var created *models.Profile
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		profileRepo := s.profileRepo(tx)
		walletRepo := s.walletRepo(tx)

		profile, err := profileRepo.Create(ctx, profiles.CreateProfileDTO{
			FullName:     fullName,
			Email:        email,
			PasswordHash: passwordHash,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create profile")
		}
		if _, err := walletRepo.Create(ctx, profile.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create wallet")
		}
		created = profile
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithUserID(ctx, created.ID.String()), "provisioned profile from google sign-in")
	}
	return created, nil
}

type userinfoFetcher struct {
	oauth *oauth2.Config
}

func (f *userinfoFetcher) FetchIdentity(ctx context.Context, token *oauth2.Token) (*GoogleIdentity, error) {
	client := f.oauth.Client(ctx, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserinfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}
	var identity GoogleIdentity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, err
	}
	return &identity, nil
}
