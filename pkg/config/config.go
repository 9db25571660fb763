package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Auth          AuthConfig
	AuthRateLimit AuthRateLimitConfig
	Payout        PayoutConfig
	GoogleOAuth   GoogleOAuthConfig
	GCP           GCPConfig
	GCS           GCSConfig
	Media         MediaConfig
	Mail          MailConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"AMPLIFY_APP_ENV" required:"true"`
	Port         string `envconfig:"AMPLIFY_APP_PORT" required:"true"`
	BaseURL      string `envconfig:"AMPLIFY_APP_BASE_URL" default:"http://localhost:8080"`
	LogLevel     string `envconfig:"AMPLIFY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AMPLIFY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"AMPLIFY_DB_DSN"`
	Driver string `envconfig:"AMPLIFY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"AMPLIFY_DB_HOST"`
	LegacyPort     int    `envconfig:"AMPLIFY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"AMPLIFY_DB_USER"`
	LegacyPassword string `envconfig:"AMPLIFY_DB_PASSWORD"`
	LegacyName     string `envconfig:"AMPLIFY_DB_NAME"`
	LegacySSLMode  string `envconfig:"AMPLIFY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AMPLIFY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AMPLIFY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AMPLIFY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AMPLIFY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"AMPLIFY_REDIS_URL" required:"true"`
	Address      string        `envconfig:"AMPLIFY_REDIS_ADDR"`
	Password     string        `envconfig:"AMPLIFY_REDIS_PASSWORD"`
	DB           int           `envconfig:"AMPLIFY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AMPLIFY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AMPLIFY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AMPLIFY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AMPLIFY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AMPLIFY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"AMPLIFY_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"AMPLIFY_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"AMPLIFY_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"AMPLIFY_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"AMPLIFY_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"AMPLIFY_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"AMPLIFY_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"AMPLIFY_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"AMPLIFY_ARGON_KEY_LEN" default:"32"`
}

// AuthConfig carries role bootstrapping settings. AdminEmails lists accounts
// whose profile role is reconciled to admin at login time; the assignment
// is server-side and config-driven.
type AuthConfig struct {
	AdminEmails       []string      `envconfig:"AMPLIFY_AUTH_ADMIN_EMAILS"`
	ResetTokenTTL     time.Duration `envconfig:"AMPLIFY_AUTH_RESET_TOKEN_TTL" default:"30m"`
	MinPasswordLength int           `envconfig:"AMPLIFY_AUTH_MIN_PASSWORD_LENGTH" default:"6"`
}

// IsAdminEmail reports whether the email is on the configured allow-list.
func (a AuthConfig) IsAdminEmail(email string) bool {
	normalized := strings.ToLower(strings.TrimSpace(email))
	for _, candidate := range a.AdminEmails {
		if strings.ToLower(strings.TrimSpace(candidate)) == normalized && normalized != "" {
			return true
		}
	}
	return false
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"AMPLIFY_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"AMPLIFY_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"AMPLIFY_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"AMPLIFY_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"AMPLIFY_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"AMPLIFY_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type PayoutConfig struct {
	MinWithdrawalAmount decimal.Decimal `envconfig:"AMPLIFY_PAYOUT_MIN_WITHDRAWAL" default:"500"`
}

// GoogleOAuthConfig configures the Google sign-in code-exchange flow.
// Sign-in with Google stays disabled until a client id is set.
type GoogleOAuthConfig struct {
	ClientID     string        `envconfig:"AMPLIFY_GOOGLE_OAUTH_CLIENT_ID"`
	ClientSecret string        `envconfig:"AMPLIFY_GOOGLE_OAUTH_CLIENT_SECRET"`
	RedirectURL  string        `envconfig:"AMPLIFY_GOOGLE_OAUTH_REDIRECT_URL"`
	StateTTL     time.Duration `envconfig:"AMPLIFY_GOOGLE_OAUTH_STATE_TTL" default:"10m"`
}

// Enabled reports whether Google sign-in is configured.
func (g GoogleOAuthConfig) Enabled() bool {
	return strings.TrimSpace(g.ClientID) != "" && strings.TrimSpace(g.ClientSecret) != ""
}

type GCPConfig struct {
	ProjectID              string `envconfig:"AMPLIFY_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"AMPLIFY_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"AMPLIFY_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName        string        `envconfig:"AMPLIFY_GCS_BUCKET_NAME" required:"true"`
	UploadURLExpiry   time.Duration `envconfig:"AMPLIFY_GCS_UPLOAD_URL_EXPIRY" default:"15m"`
	DownloadURLExpiry time.Duration `envconfig:"AMPLIFY_GCS_DOWNLOAD_URL_EXPIRY" default:"1h"`
}

type MediaConfig struct {
	MaxAudioMB  int `envconfig:"AMPLIFY_MEDIA_MAX_AUDIO_MB" default:"200"`
	MaxImageMB  int `envconfig:"AMPLIFY_MEDIA_MAX_IMAGE_MB" default:"20"`
	MaxReportMB int `envconfig:"AMPLIFY_MEDIA_MAX_REPORT_MB" default:"50"`
}

type MailConfig struct {
	ResendAPIKey string `envconfig:"AMPLIFY_RESEND_API_KEY"`
	FromAddress  string `envconfig:"AMPLIFY_MAIL_FROM" default:"Amplify Audio Sphere <no-reply@amplifyaudiosphere.com>"`
}

// Enabled reports whether outbound mail is configured.
func (m MailConfig) Enabled() bool {
	return strings.TrimSpace(m.ResendAPIKey) != ""
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"AMPLIFY_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
