package config

import (
	"os"
	"path/filepath"
	"testing"
)

func noEnv(string) string { return "" }

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]string{"-instance", "test-id"}, noEnv)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Instance != "test-id" {
		t.Errorf("expected instance test-id, got %q", cfg.Instance)
	}
	if cfg.Cloud != "default" {
		t.Errorf("expected cloud default, got %q", cfg.Cloud)
	}
	if cfg.Interval != 30 {
		t.Errorf("expected interval 30, got %d", cfg.Interval)
	}
	if !cfg.Prefix {
		t.Error("expected prefix on by default")
	}
	if cfg.Verbose {
		t.Error("expected verbose off by default")
	}
}

func TestParseCustom(t *testing.T) {
	cfg, err := Parse([]string{
		"-os-cloud", "mycloud",
		"-instance", "my-instance",
		"-interval", "60",
		"-no-prefix",
		"-verbose",
	}, noEnv)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Cloud != "mycloud" || cfg.Instance != "my-instance" || cfg.Interval != 60 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Prefix {
		t.Error("expected prefix disabled")
	}
	if !cfg.Verbose {
		t.Error("expected verbose enabled")
	}
}

func TestParseEnvFallbacks(t *testing.T) {
	env := map[string]string{
		"OS_CLOUD":      "envcloud",
		"INSTANCE_UUID": "env-instance",
		"POLL_INTERVAL": "45",
		"NO_PREFIX":     "yes",
		"VERBOSE":       "1",
	}
	cfg, err := Parse(nil, func(k string) string { return env[k] })
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Cloud != "envcloud" || cfg.Instance != "env-instance" || cfg.Interval != 45 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Prefix {
		t.Error("expected NO_PREFIX=yes to disable prefix")
	}
	if !cfg.Verbose {
		t.Error("expected VERBOSE=1 to enable verbose")
	}
}

func TestParseFlagsOverrideEnv(t *testing.T) {
	env := map[string]string{"INSTANCE_UUID": "env-instance"}
	cfg, err := Parse([]string{"-instance", "flag-instance"}, func(k string) string { return env[k] })
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Instance != "flag-instance" {
		t.Errorf("flag must win over env, got %q", cfg.Instance)
	}
}

func TestParseMissingInstance(t *testing.T) {
	_, err := Parse(nil, noEnv)
	if err == nil {
		t.Fatal("expected error when instance UUID is missing")
	}
}

func TestParseBackendsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backends.toml")
	data := `
[archive.sqlite]
enabled = true
path = "console.db"

[archive.redis]
enabled = true
addr = "localhost:6379"

[forward]
enabled = true
url = "ws://collector:9000/ingest"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Parse([]string{"-instance", "test-id", "-config", path}, noEnv)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if !cfg.Backends.Archive.SQLite.Enabled || cfg.Backends.Archive.SQLite.Path != "console.db" {
		t.Errorf("unexpected sqlite backend %+v", cfg.Backends.Archive.SQLite)
	}
	if cfg.Backends.Archive.Redis.Stream != "novatail:console" {
		t.Errorf("expected default redis stream, got %q", cfg.Backends.Archive.Redis.Stream)
	}
	if !cfg.Backends.Forward.Enabled || cfg.Backends.Forward.URL != "ws://collector:9000/ingest" {
		t.Errorf("unexpected forward backend %+v", cfg.Backends.Forward)
	}
}

func TestParseBackendEnabledWithoutTarget(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backends.toml")
	data := `
[archive.postgres]
enabled = true
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := Parse([]string{"-instance", "test-id", "-config", path}, noEnv)
	if err == nil {
		t.Fatal("expected error for enabled backend without target")
	}
}
