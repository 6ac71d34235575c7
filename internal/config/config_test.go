package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	// godotenv.Load читает .env из рабочего каталога
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return path
}

func TestNewConfig_Defaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	path := writeConfig(t, "telegram:\n  token: abc\n")

	cfg, err := NewConfig(path)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if cfg.Storage.Driver != "file" || cfg.Storage.Path != "data.json" {
		t.Fatalf("unexpected storage defaults: %+v", cfg.Storage)
	}
	if cfg.Session.TTL != time.Hour {
		t.Fatalf("expected 1h session ttl, got %s", cfg.Session.TTL)
	}
	if cfg.Health.HTTPAddr != ":10000" {
		t.Fatalf("unexpected http addr %q", cfg.Health.HTTPAddr)
	}
	if cfg.Business.Timezone != "Asia/Jerusalem" {
		t.Fatalf("unexpected timezone %q", cfg.Business.Timezone)
	}
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "telegram:\n  token: from-file\nstorage:\n  path: a.json\n")
	t.Setenv("BOT_TOKEN", "from-env")
	t.Setenv("DATA_FILE", "/tmp/b.json")
	t.Setenv("PORT", "8080")

	cfg, err := NewConfig(path)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if cfg.Telegram.Token != "from-env" {
		t.Fatalf("expected env token, got %q", cfg.Telegram.Token)
	}
	if cfg.Storage.Path != "/tmp/b.json" {
		t.Fatalf("expected env data file, got %q", cfg.Storage.Path)
	}
	if cfg.Health.HTTPAddr != ":8080" {
		t.Fatalf("expected :8080, got %q", cfg.Health.HTTPAddr)
	}
}

func TestNewConfig_DotEnv(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	os.Unsetenv("BOT_TOKEN")
	path := writeConfig(t, "log:\n  level: debug\n")
	if err := os.WriteFile(".env", []byte("BOT_TOKEN=dotenv-token\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("BOT_TOKEN") })

	cfg, err := NewConfig(path)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if cfg.Telegram.Token != "dotenv-token" {
		t.Fatalf("expected token from .env, got %q", cfg.Telegram.Token)
	}
}

func TestNewConfig_MissingToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	path := writeConfig(t, "log:\n  level: info\n")
	if _, err := NewConfig(path); err == nil {
		t.Fatalf("expected error without token")
	}
}

func TestNewConfig_BadYAML(t *testing.T) {
	path := writeConfig(t, "telegram: [\n")
	if _, err := NewConfig(path); err == nil {
		t.Fatalf("expected unmarshal error")
	}
}
