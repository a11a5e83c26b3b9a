package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetTablePrefix(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"prod", "prod_"},
		{"test", "test_"},
		{"dev", "dev_"},
		{"staging", "dev_"},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv("TABLE_PREFIX", "")
			if got := getTablePrefix(tt.env); got != tt.want {
				t.Errorf("getTablePrefix(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestGetTablePrefix_Override(t *testing.T) {
	t.Setenv("TABLE_PREFIX", "custom_")
	if got := getTablePrefix("prod"); got != "custom_" {
		t.Errorf("getTablePrefix() = %q, want custom_", got)
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ENVIRONMENT", "STORAGE_DRIVER", "GENERATION_TIMEOUT", "AUTH_DISABLED", "TABLE_PREFIX"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Environment != "dev" {
		t.Errorf("Environment = %q, want dev", cfg.Environment)
	}
	if cfg.StorageDriver != "postgres" {
		t.Errorf("StorageDriver = %q, want postgres", cfg.StorageDriver)
	}
	if cfg.GenerationTimeout != DefaultGenerationTimeout {
		t.Errorf("GenerationTimeout = %v, want %v", cfg.GenerationTimeout, DefaultGenerationTimeout)
	}
	if cfg.AuthDisabled {
		t.Error("AuthDisabled should default to false")
	}
	if cfg.DefaultLanguage != "en" {
		t.Errorf("DefaultLanguage = %q, want en", cfg.DefaultLanguage)
	}
}

func TestLoad_AuthDisabledOnlyInDev(t *testing.T) {
	t.Setenv("AUTH_DISABLED", "true")
	t.Setenv("ENVIRONMENT", "prod")

	if Load().AuthDisabled {
		t.Error("AUTH_DISABLED must be ignored outside dev")
	}

	t.Setenv("ENVIRONMENT", "dev")
	if !Load().AuthDisabled {
		t.Error("AUTH_DISABLED should apply in dev")
	}
}

func TestGetDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "90s")
	if got := getDuration("TEST_DURATION", time.Second); got != 90*time.Second {
		t.Errorf("getDuration() = %v, want 90s", got)
	}

	t.Setenv("TEST_DURATION", "soon")
	if got := getDuration("TEST_DURATION", time.Second); got != time.Second {
		t.Errorf("getDuration() with bad value = %v, want fallback", got)
	}
}

func TestSetupLogFile_KeepsNewest(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"server-2020-01-01T00-00-00.log", "server-2020-01-02T00-00-00.log", "scriptctl-2020-01-01T00-00-00.log"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	f, err := SetupLogFile(dir, "server", 2)
	if err != nil {
		t.Fatalf("SetupLogFile() error = %v", err)
	}
	defer f.Close()

	servers, _ := filepath.Glob(filepath.Join(dir, "server-*.log"))
	if len(servers) != 2 {
		t.Errorf("got %d server logs, want 2", len(servers))
	}
	if _, err := os.Stat(filepath.Join(dir, "server-2020-01-01T00-00-00.log")); !os.IsNotExist(err) {
		t.Error("oldest server log should have been removed")
	}
	if _, err := os.Stat(filepath.Join(dir, "scriptctl-2020-01-01T00-00-00.log")); err != nil {
		t.Error("logs of other binaries must be left alone")
	}
}
