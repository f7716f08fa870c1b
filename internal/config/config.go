package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PATCH,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
// WriteTimeout is generous because the cron dispatch endpoint runs the whole
// batch synchronously.
type ServerConfig struct {
	Host            string        `yaml:"host"               env:"SERVER_HOST"               env-default:"0.0.0.0"`
	Port            int           `yaml:"port"               env:"SERVER_PORT"               env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"       env:"SERVER_READ_TIMEOUT"       env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"      env:"SERVER_WRITE_TIMEOUT"      env-default:"11m"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"       env:"SERVER_IDLE_TIMEOUT"       env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"   env:"SERVER_SHUTDOWN_TIMEOUT"   env-default:"10s"`
	RateLimitPerMin int           `yaml:"rate_limit_per_min" env:"SERVER_RATE_LIMIT_PER_MIN" env-default:"120"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AuthConfig holds authentication settings for the admin surface.
type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"       env:"AUTH_JWT_SECRET"       env-required:"true"`
	JWTIssuer      string        `yaml:"jwt_issuer"       env:"AUTH_JWT_ISSUER"       env-default:"localboost"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"12h"`
}

// SchedulerConfig holds auto-scheduling and dispatch settings.
type SchedulerConfig struct {
	// CronSecret authenticates the external hourly trigger (X-Cron-Secret header).
	CronSecret string `yaml:"cron_secret" env:"SCHEDULER_CRON_SECRET" env-required:"true"`
	// GridCellCapacity is the advisory per-cell occupancy ceiling.
	GridCellCapacity int `yaml:"grid_cell_capacity" env:"SCHEDULER_GRID_CELL_CAPACITY" env-default:"10"`
	// InterClientDelay throttles sequential per-client processing inside a tick.
	InterClientDelay time.Duration `yaml:"inter_client_delay" env:"SCHEDULER_INTER_CLIENT_DELAY" env-default:"1s"`
	// DispatchTimeout bounds one whole hourly batch.
	DispatchTimeout time.Duration `yaml:"dispatch_timeout" env:"SCHEDULER_DISPATCH_TIMEOUT" env-default:"10m"`
}

// PipelineConfig holds settings for the external content-generation pipeline.
type PipelineConfig struct {
	BaseURL string        `yaml:"base_url" env:"PIPELINE_BASE_URL" env-required:"true"`
	Token   string        `yaml:"token"    env:"PIPELINE_TOKEN"`
	Timeout time.Duration `yaml:"timeout"  env:"PIPELINE_TIMEOUT" env-default:"10m"`
}

// LogConfig holds logging settings. When File is set, output goes to a
// size-rotated file instead of stderr.
type LogConfig struct {
	Level      string `yaml:"level"        env:"LOG_LEVEL"        env-default:"info"`
	Format     string `yaml:"format"       env:"LOG_FORMAT"       env-default:"json"`
	File       string `yaml:"file"         env:"LOG_FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb"  env:"LOG_MAX_SIZE_MB"  env-default:"100"`
	MaxBackups int    `yaml:"max_backups"  env:"LOG_MAX_BACKUPS"  env-default:"3"`
	MaxAgeDays int    `yaml:"max_age_days" env:"LOG_MAX_AGE_DAYS" env-default:"28"`
}
