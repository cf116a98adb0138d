package config

import (
	"os"
	"path/filepath"
	"testing"
)

// clearEnv blanks every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"ADDR", "ALLOWED_ORIGIN", "LOG_LEVEL", "LOG_FORMAT", "GIN_MODE",
		"REDIS_URL", "RESULTS_CHANNEL", "RNG_SEED", "SEND_BUFFER"} {
		t.Setenv(k, "")
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Config{
		Addr:           ":8080",
		LogLevel:       "info",
		GinMode:        "release",
		ResultsChannel: "quadpong:results",
		SendBuffer:     64,
	}
	if cfg != want {
		t.Fatalf("got %+v, want %+v", cfg, want)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ADDR", ":9000")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("RNG_SEED", "42")
	t.Setenv("SEND_BUFFER", "8")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9000" || !cfg.LogJSON || cfg.RedisURL == "" || cfg.Seed != 42 || cfg.SendBuffer != 8 {
		t.Fatalf("got %+v", cfg)
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("ALLOWED_ORIGIN")
	if err := os.WriteFile(filepath.Join(".", ".env"), []byte("ALLOWED_ORIGIN=https://pong.example\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AllowedOrigin != "https://pong.example" {
		t.Fatalf("got origin %q", cfg.AllowedOrigin)
	}
	os.Unsetenv("ALLOWED_ORIGIN")
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("SEND_BUFFER", "-3")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for negative SEND_BUFFER")
	}

	clearEnv(t)
	t.Setenv("RNG_SEED", "abc")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-numeric RNG_SEED")
	}
}

func TestGetEnvVariable(t *testing.T) {
	if _, err := GetEnvVariable(""); err == nil {
		t.Fatalf("expected error for empty name")
	}
	t.Setenv("QUADPONG_TEST_VAR", "x")
	if v, err := GetEnvVariable("QUADPONG_TEST_VAR"); err != nil || v != "x" {
		t.Fatalf("got %q, %v", v, err)
	}
}
