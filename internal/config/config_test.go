package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// chdir moves into dir for the duration of the test so no stray .env is picked up.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

// unset removes key for the duration of the test.
func unset(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TELEGRAM_TOKEN", "token")
	for _, key := range []string{"STORAGE_DRIVER", "SESSION_DRIVER", "STORE_TIMEOUT", "WORKERS", "SEND_RATE", "METRICS_ADDR", "LOCATION_URL"} {
		unset(t, key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.StorageDriver != DriverPostgres || cfg.SessionDriver != DriverMemory {
		t.Errorf("drivers = %s/%s", cfg.StorageDriver, cfg.SessionDriver)
	}
	if cfg.StoreTimeout != 5*time.Second {
		t.Errorf("StoreTimeout = %v, want 5s", cfg.StoreTimeout)
	}
	if cfg.Workers != 8 || cfg.SendRate != 25 {
		t.Errorf("Workers = %d, SendRate = %v", cfg.Workers, cfg.SendRate)
	}
	if cfg.MetricsAddr != ":9090" {
		t.Errorf("MetricsAddr = %q", cfg.MetricsAddr)
	}
	if cfg.LocationURL != "https://yandex.ru/maps/org/cherdak/134444637764/?ll=39.964232%2C53.244942&z=16.59" {
		t.Errorf("LocationURL = %q", cfg.LocationURL)
	}
}

func TestLoad_MissingToken(t *testing.T) {
	chdir(t, t.TempDir())
	unset(t, "TELEGRAM_TOKEN")

	if _, err := Load(); err == nil {
		t.Error("Expected error for missing TELEGRAM_TOKEN, got nil")
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	data := "TELEGRAM_TOKEN=from-file\nADMIN_IDS=1,2\nWORKERS=3\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	unset(t, "TELEGRAM_TOKEN")
	unset(t, "ADMIN_IDS")
	t.Setenv("WORKERS", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.TelegramToken != "from-file" {
		t.Errorf("TelegramToken = %q", cfg.TelegramToken)
	}
	if len(cfg.AdminIDs) != 2 || cfg.AdminIDs[1] != 2 {
		t.Errorf("AdminIDs = %v", cfg.AdminIDs)
	}
	if cfg.Workers != 5 {
		t.Errorf("Workers = %d, the real environment must win over .env", cfg.Workers)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{StorageDriver: DriverMemory, SessionDriver: DriverRedis, Workers: 1, SendRate: 1}

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(*Config) {}, true},
		{"unknown storage", func(c *Config) { c.StorageDriver = "sqlite" }, false},
		{"unknown session", func(c *Config) { c.SessionDriver = "etcd" }, false},
		{"postgres without db", func(c *Config) { c.StorageDriver = DriverPostgres }, false},
		{"postgres with db", func(c *Config) { c.StorageDriver = DriverPostgres; c.DBName = "cherdak" }, true},
		{"no workers", func(c *Config) { c.Workers = 0 }, false},
		{"no send rate", func(c *Config) { c.SendRate = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}
