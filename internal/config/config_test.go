package config

import (
	"strings"
	"testing"
	"time"
)

// setBaseEnv blanks every key; viper treats empty variables as unset.
func setBaseEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "PORT", "ALLOWED_ORIGINS", "STATS_SOURCE", "STATS_CACHE_MAX_AGE",
		"STATS_TOP_LIMIT", "INVITE_URL", "STATS_WARM_SCHEDULE", "STATS_ENDPOINT_URL",
		"DASHBOARD_TIMEOUT", "REDIS_URL", "DATABASE_URL",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("TZ", "UTC")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StatsSource != SourceStatic || cfg.Port != "8080" || cfg.TopLimit != 10 {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.CacheMaxAge != 60*time.Second || cfg.CacheControl() != "public, max-age=60" {
		t.Fatalf("CacheMaxAge=%s CacheControl=%q", cfg.CacheMaxAge, cfg.CacheControl())
	}
	if cfg.InviteURL != DefaultInviteURL {
		t.Fatalf("InviteURL=%q", cfg.InviteURL)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Fatalf("AllowedOrigins=%v", cfg.AllowedOrigins)
	}
	if cfg.EndpointURL != "http://localhost:8080/" {
		t.Fatalf("EndpointURL=%q", cfg.EndpointURL)
	}
}

func TestLoad_EndpointFollowsPort(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.EndpointURL != "http://localhost:9090/" {
		t.Fatalf("EndpointURL=%q", cfg.EndpointURL)
	}

	t.Setenv("STATS_ENDPOINT_URL", "https://stats.example/")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.EndpointURL != "https://stats.example/" {
		t.Fatalf("EndpointURL=%q", cfg.EndpointURL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STATS_SOURCE", "Database")
	t.Setenv("STATS_CACHE_MAX_AGE", "2m")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("STATS_TOP_LIMIT", "5")
	t.Setenv("INVITE_URL", "https://example.com/invite")
	t.Setenv("STATS_ENDPOINT_URL", "https://stats.example/")
	t.Setenv("DASHBOARD_TIMEOUT", "3s")
	t.Setenv("STATS_WARM_SCHEDULE", "@every 30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StatsSource != SourceDatabase {
		t.Fatalf("StatsSource=%q", cfg.StatsSource)
	}
	if cfg.CacheControl() != "public, max-age=120" {
		t.Fatalf("CacheControl=%q", cfg.CacheControl())
	}
	if strings.Join(cfg.AllowedOrigins, "|") != "https://a.example|https://b.example" {
		t.Fatalf("AllowedOrigins=%v", cfg.AllowedOrigins)
	}
	if cfg.TopLimit != 5 || cfg.DashboardTimeout != 3*time.Second {
		t.Fatalf("cfg=%+v", cfg)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"STATS_SOURCE":        "sheets",
		"STATS_CACHE_MAX_AGE": "soon",
		"INVITE_URL":          "/relative",
		"STATS_TOP_LIMIT":     "0",
		"TZ":                  "Mars/Olympus",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv(key, value)

			if _, err := Load(); err == nil || !strings.Contains(err.Error(), key) {
				t.Fatalf("err=%v, want mention of %s", err, key)
			}
		})
	}
}
