package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetEnvFallback(t *testing.T) {
	t.Setenv("SNAKE_TEST_SET", "value")

	if got := GetEnv("SNAKE_TEST_SET", "fallback"); got != "value" {
		t.Fatalf("GetEnv set: got %q", got)
	}
	if got := GetEnv("SNAKE_TEST_UNSET_XYZ", "fallback"); got != "fallback" {
		t.Fatalf("GetEnv unset: got %q", got)
	}
}

func TestTypedGetters(t *testing.T) {
	t.Setenv("SNAKE_TEST_INT", "42")
	t.Setenv("SNAKE_TEST_BADINT", "forty")
	t.Setenv("SNAKE_TEST_BOOL", "off")
	t.Setenv("SNAKE_TEST_DUR", "90s")

	if got := GetEnvInt("SNAKE_TEST_INT", 1); got != 42 {
		t.Fatalf("GetEnvInt: got %d", got)
	}
	if got := GetEnvInt("SNAKE_TEST_BADINT", 7); got != 7 {
		t.Fatalf("GetEnvInt bad value should fall back: got %d", got)
	}
	if got := GetEnvBool("SNAKE_TEST_BOOL", true); got {
		t.Fatalf("GetEnvBool off: got true")
	}
	if got := GetEnvBool("SNAKE_TEST_UNSET_XYZ", true); !got {
		t.Fatalf("GetEnvBool unset should fall back to true")
	}
	if got := GetEnvDuration("SNAKE_TEST_DUR", time.Second); got != 90*time.Second {
		t.Fatalf("GetEnvDuration: got %v", got)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("SNAKE_DOTENV_KEY=from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("SNAKE_DOTENV_KEY") })

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("SNAKE_DOTENV_KEY"); got != "from-file" {
		t.Fatalf("expected value from file, got %q", got)
	}
}
