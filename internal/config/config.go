package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	SourceStatic   = "static"
	SourceDatabase = "database"

	DefaultInviteURL = "https://discord.com/oauth2/authorize?client_id=BOT_ID&scope=bot"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins []string

	StatsSource  string
	CacheMaxAge  time.Duration
	TopLimit     int
	InviteURL    string
	WarmSchedule string
	Timezone     *time.Location

	EndpointURL      string
	DashboardTimeout time.Duration

	DatabaseURL string
	DBHost      string
	DBUser      string
	DBPass      string
	DBName      string
	DBPort      string

	RedisURL string
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("STATS_SOURCE", SourceStatic)
	v.SetDefault("STATS_CACHE_MAX_AGE", "60s")
	v.SetDefault("STATS_TOP_LIMIT", 10)
	v.SetDefault("INVITE_URL", DefaultInviteURL)
	v.SetDefault("STATS_WARM_SCHEDULE", "@every 1m")
	v.SetDefault("TZ", "UTC")
	// the dashboard reads from this server unless told otherwise
	v.SetDefault("STATS_ENDPOINT_URL", "http://localhost:"+v.GetString("PORT")+"/")
	v.SetDefault("DASHBOARD_TIMEOUT", "10s")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "playstats")
	v.SetDefault("DB_PORT", "5432")

	cfg := &Config{
		AppEnv:         v.GetString("APP_ENV"),
		Port:           v.GetString("PORT"),
		AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),

		StatsSource:  strings.ToLower(strings.TrimSpace(v.GetString("STATS_SOURCE"))),
		TopLimit:     v.GetInt("STATS_TOP_LIMIT"),
		InviteURL:    strings.TrimSpace(v.GetString("INVITE_URL")),
		WarmSchedule: strings.TrimSpace(v.GetString("STATS_WARM_SCHEDULE")),

		EndpointURL: strings.TrimSpace(v.GetString("STATS_ENDPOINT_URL")),

		DatabaseURL: v.GetString("DATABASE_URL"),
		DBHost:      v.GetString("DB_HOST"),
		DBUser:      v.GetString("DB_USER"),
		DBPass:      v.GetString("DB_PASS"),
		DBName:      v.GetString("DB_NAME"),
		DBPort:      v.GetString("DB_PORT"),

		RedisURL: v.GetString("REDIS_URL"),
	}

	var err error
	cfg.CacheMaxAge, err = time.ParseDuration(v.GetString("STATS_CACHE_MAX_AGE"))
	if err != nil {
		return nil, fmt.Errorf("invalid STATS_CACHE_MAX_AGE: %w", err)
	}
	cfg.DashboardTimeout, err = time.ParseDuration(v.GetString("DASHBOARD_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid DASHBOARD_TIMEOUT: %w", err)
	}
	cfg.Timezone, err = time.LoadLocation(v.GetString("TZ"))
	if err != nil {
		return nil, fmt.Errorf("invalid TZ: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StatsSource {
	case SourceStatic, SourceDatabase:
	default:
		return fmt.Errorf("invalid STATS_SOURCE %q: want %q or %q", c.StatsSource, SourceStatic, SourceDatabase)
	}
	if c.CacheMaxAge <= 0 {
		return fmt.Errorf("invalid STATS_CACHE_MAX_AGE %s: must be positive", c.CacheMaxAge)
	}
	if c.DashboardTimeout <= 0 {
		return fmt.Errorf("invalid DASHBOARD_TIMEOUT %s: must be positive", c.DashboardTimeout)
	}
	if c.TopLimit < 1 {
		return fmt.Errorf("invalid STATS_TOP_LIMIT %d: must be at least 1", c.TopLimit)
	}
	if err := requireAbsoluteURL(c.InviteURL); err != nil {
		return fmt.Errorf("invalid INVITE_URL: %w", err)
	}
	if err := requireAbsoluteURL(c.EndpointURL); err != nil {
		return fmt.Errorf("invalid STATS_ENDPOINT_URL: %w", err)
	}
	return nil
}

// CacheControl is the header value the stats endpoint sends on success.
func (c *Config) CacheControl() string {
	return fmt.Sprintf("public, max-age=%d", int(c.CacheMaxAge/time.Second))
}

func requireAbsoluteURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%q is not an absolute URL", raw)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
