package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "PORT", "DB_DRIVER", "KV_BACKEND", "AUTH_ENABLED", "REFRESH_DELAY_MS", "SIMULATED_LATENCY_MS"} {
		t.Setenv(k, "")
	}
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "3000" || cfg.Database.Driver != DriverSQLite || cfg.KV.Backend != BackendDatabase {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if !cfg.Auth.Enabled {
		t.Fatalf("auth should default to enabled")
	}
	if cfg.Dashboard.RefreshDelay != 300*time.Millisecond || cfg.Dashboard.SimulatedLatency != 0 {
		t.Fatalf("want 300ms/0 got %v/%v", cfg.Dashboard.RefreshDelay, cfg.Dashboard.SimulatedLatency)
	}
	if cfg.IsProduction() {
		t.Fatalf("default env must not be production")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_DRIVER", "POSTGRES")
	t.Setenv("KV_BACKEND", "redis")
	t.Setenv("AUTH_ENABLED", "false")
	t.Setenv("REFRESH_DELAY_MS", "50")
	t.Setenv("SIMULATED_LATENCY_MS", "-5")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.IsProduction() || cfg.Database.Driver != DriverPostgres || cfg.KV.Backend != BackendRedis || cfg.Auth.Enabled {
		t.Fatalf("overrides not applied %+v", cfg)
	}
	if cfg.Dashboard.RefreshDelay != 50*time.Millisecond {
		t.Fatalf("want 50ms got %v", cfg.Dashboard.RefreshDelay)
	}
	if cfg.Dashboard.SimulatedLatency != 0 {
		t.Fatalf("negative latency should fall back to 0, got %v", cfg.Dashboard.SimulatedLatency)
	}
}

func TestFromEnvRejectsUnknownBackends(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	if _, err := FromEnv(); err == nil {
		t.Fatalf("want error for DB_DRIVER=mysql")
	}
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("KV_BACKEND", "etcd")
	if _, err := FromEnv(); err == nil {
		t.Fatalf("want error for KV_BACKEND=etcd")
	}
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", User: "ppm", Password: "pw", Name: "ppm", Port: "5432"}
	if want := "host=db user=ppm password=pw dbname=ppm port=5432 sslmode=disable"; d.DSN() != want {
		t.Fatalf("want %q got %q", want, d.DSN())
	}
	d = DatabaseConfig{Driver: DriverPostgres, URL: "postgres://u@h/db"}
	if d.DSN() != "postgres://u@h/db" {
		t.Fatalf("want DATABASE_URL to win got %s", d.DSN())
	}
}
