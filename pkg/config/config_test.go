package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "dev" {
		t.Fatalf("expected App.Env to be dev, got %q", cfg.App.Env)
	}
	if cfg.App.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.App.Port)
	}
	if cfg.Storage.Kind() != BackendMemory {
		t.Fatalf("expected memory backend by default, got %q", cfg.Storage.Backend)
	}
	if cfg.Cart.StorageKey != "@GoMarketplace:products" {
		t.Fatalf("unexpected storage key %q", cfg.Cart.StorageKey)
	}
	if cfg.Cart.WriteTimeout != 5*time.Second {
		t.Fatalf("expected 5s write timeout, got %v", cfg.Cart.WriteTimeout)
	}
	if !cfg.FeatureFlags.AutoMigrate {
		t.Fatalf("expected auto migrate enabled by default")
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvAppEnv); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAppEnv, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_BackendRequirements(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{name: "redis without url", env: map[string]string{EnvStorageBackend: "redis"}, wantErr: true},
		{name: "redis with url", env: map[string]string{EnvStorageBackend: "redis", EnvRedisURL: "redis://localhost:6379/0"}},
		{name: "sql without dsn", env: map[string]string{EnvStorageBackend: "sql"}, wantErr: true},
		{name: "sql with unknown driver", env: map[string]string{EnvStorageBackend: "sql", EnvDBDSN: "x", EnvDBDriver: "oracle"}, wantErr: true},
		{name: "sql sqlite", env: map[string]string{EnvStorageBackend: "SQL", EnvDBDSN: "file::memory:"}},
		{name: "badger", env: map[string]string{EnvStorageBackend: "badger", EnvBadgerPath: "/tmp/cart"}},
		{name: "unknown backend", env: map[string]string{EnvStorageBackend: "etcd"}, wantErr: true},
		{name: "blank storage key", env: map[string]string{EnvCartStorageKey: "  "}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setMinimalEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if tt.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "dev")
	for _, key := range []string{EnvStorageBackend, EnvRedisURL, EnvRedisAddr, EnvDBDSN, EnvDBDriver, EnvCartStorageKey, EnvBadgerPath, EnvCORSOrigins} {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
	}
}

func TestLoad_CORSOriginsList(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvCORSOrigins, "http://a.test,http://b.test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if len(cfg.App.CORSOrigins) != 2 || cfg.App.CORSOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected origins %v", cfg.App.CORSOrigins)
	}
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
}
