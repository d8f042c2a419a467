package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=4000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// ReceiptPolicy controls when the air-waybill receipt may be downloaded:
	// "always" or "withdrawn_only".
	ReceiptPolicy string `env:"RECEIPT_POLICY, default=always"`

	Mongo  MongoConfig
	Redis  RedisConfig
	SMTP   SMTPConfig
	Geo    GeoConfig
	Notify NotifyConfig
	Origin OriginConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=charter_api"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST, default=localhost"`
	Port     int    `env:"SMTP_PORT, default=587"`
	Username string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASS"`
	From     string `env:"SMTP_FROM, default=noreply@airrushcharters.example"`
}

type GeoConfig struct {
	// GoogleAPIKey enables the Google geocoding provider; when empty only
	// Nominatim is used.
	GoogleAPIKey       string        `env:"GOOGLE_MAPS_API_KEY"`
	NominatimUserAgent string        `env:"NOMINATIM_USER_AGENT"`
	CacheTTL           time.Duration `env:"GEOCODE_CACHE_TTL, default=720h"`
}

type NotifyConfig struct {
	Workers  int           `env:"NOTIFY_WORKERS,   default=8"`
	DedupTTL time.Duration `env:"NOTIFY_DEDUP_TTL, default=24h"`
}

// OriginConfig is the fallback origin used when a passenger booking arrives
// without a resolvable origin.
type OriginConfig struct {
	City    string  `env:"DEFAULT_ORIGIN_CITY,    default=Nairobi"`
	Country string  `env:"DEFAULT_ORIGIN_COUNTRY, default=Kenya"`
	Lat     float64 `env:"DEFAULT_ORIGIN_LAT,     default=-1.319167"`
	Lng     float64 `env:"DEFAULT_ORIGIN_LNG,     default=36.9275"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.ReceiptPolicy != "always" && cfg.ReceiptPolicy != "withdrawn_only" {
		return nil, fmt.Errorf("load config: unknown RECEIPT_POLICY %q", cfg.ReceiptPolicy)
	}
	return &cfg, nil
}
