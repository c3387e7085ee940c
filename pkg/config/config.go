package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Google        GoogleConfig
	GCP           GCPConfig
	GCS           GCSConfig
	Deliverables  DeliverablesConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
	Seed          SeedConfig
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
	Env          string `envconfig:"CONNEX_APP_ENV" required:"true"`
	Port         string `envconfig:"CONNEX_APP_PORT" required:"true"`
	BaseURL      string `envconfig:"CONNEX_APP_BASE_URL" default:"http://localhost:3000"`
	LogLevel     string `envconfig:"CONNEX_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CONNEX_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CONNEX_DB_DSN"`
	Driver string `envconfig:"CONNEX_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CONNEX_DB_HOST"`
	LegacyPort     int    `envconfig:"CONNEX_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CONNEX_DB_USER"`
	LegacyPassword string `envconfig:"CONNEX_DB_PASSWORD"`
	LegacyName     string `envconfig:"CONNEX_DB_NAME"`
	LegacySSLMode  string `envconfig:"CONNEX_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CONNEX_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CONNEX_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CONNEX_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CONNEX_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CONNEX_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CONNEX_REDIS_ADDR"`
	Password     string        `envconfig:"CONNEX_REDIS_PASSWORD"`
	DB           int           `envconfig:"CONNEX_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CONNEX_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CONNEX_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CONNEX_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CONNEX_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CONNEX_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"CONNEX_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"CONNEX_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"CONNEX_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"CONNEX_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CONNEX_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CONNEX_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CONNEX_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CONNEX_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CONNEX_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"CONNEX_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"CONNEX_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"CONNEX_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"CONNEX_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"CONNEX_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"CONNEX_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CONNEX_AUTO_MIGRATE" default:"false"`
}

type GoogleConfig struct {
	ClientID     string `envconfig:"CONNEX_GOOGLE_CLIENT_ID"`
	ClientSecret string `envconfig:"CONNEX_GOOGLE_CLIENT_SECRET"`
	RedirectURL  string `envconfig:"CONNEX_GOOGLE_REDIRECT_URL"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"CONNEX_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"CONNEX_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"CONNEX_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName        string        `envconfig:"CONNEX_GCS_BUCKET_NAME" required:"true"`
	DownloadURLExpiry time.Duration `envconfig:"CONNEX_GCS_DOWNLOAD_URL_EXPIRY" default:"1h"`
}

type DeliverablesConfig struct {
	MaxUploadMB int `envconfig:"CONNEX_DELIVERABLES_MAX_UPLOAD_MB" default:"100"`
}

// MaxUploadBytes converts the configured megabyte cap into bytes.
func (d DeliverablesConfig) MaxUploadBytes() int64 {
	return int64(d.MaxUploadMB) * 1024 * 1024
}

type PubSubConfig struct {
	DomainTopic        string `envconfig:"CONNEX_PUBSUB_DOMAIN_TOPIC" default:"connex-domain-events"`
	DomainSubscription string `envconfig:"CONNEX_PUBSUB_DOMAIN_SUBSCRIPTION" required:"true"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"CONNEX_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"CONNEX_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"CONNEX_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type SeedConfig struct {
	ProviderCount int    `envconfig:"CONNEX_SEED_PROVIDER_COUNT" default:"5"`
	Password      string `envconfig:"CONNEX_SEED_PASSWORD" default:"connex-demo"`
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
