package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return path
}

func TestInitConfigurationDefaults(t *testing.T) {
	path := writeConfig(t, `{"api_id": 12345, "api_hash": "abc", "session_name": "focus", "exclude": "Work Chat, @durov ,, 777000"}`)

	cfg, err := InitConfiguration(path)
	if err != nil {
		t.Fatalf("InitConfiguration: %v", err)
	}
	if cfg.ApiId != 12345 || cfg.ApiHash != "abc" || cfg.SessionName != "focus" {
		t.Fatalf("unexpected credentials %+v", cfg)
	}
	if !cfg.IgnorePinnedChats {
		t.Fatalf("ignore_pinned_chats must default to true")
	}
	if cfg.StateDir != "." || cfg.LogLevel != "info" || cfg.TdlibVerbosity != 1 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if diff := cmp.Diff([]string{"Work Chat", "@durov", "777000"}, cfg.Exclude); diff != "" {
		t.Fatalf("exclude (-want +got):\n%s", diff)
	}
}

func TestInitConfigurationExcludeList(t *testing.T) {
	path := writeConfig(t, `{"api_id": 1, "api_hash": "h", "session_name": "s", "ignore_pinned_chats": false, "exclude": ["news", -1002150910059]}`)

	cfg, err := InitConfiguration(path)
	if err != nil {
		t.Fatalf("InitConfiguration: %v", err)
	}
	if cfg.IgnorePinnedChats {
		t.Fatalf("ignore_pinned_chats should be false")
	}
	if diff := cmp.Diff([]string{"news", "-1002150910059"}, cfg.Exclude); diff != "" {
		t.Fatalf("exclude (-want +got):\n%s", diff)
	}
}

func TestInitConfigurationEnvOverride(t *testing.T) {
	path := writeConfig(t, `{"api_id": 1, "session_name": "s"}`)
	t.Setenv("TGFOCUS_API_HASH", "from-env")
	t.Setenv("TGFOCUS_IGNORE_PINNED_CHATS", "false")

	cfg, err := InitConfiguration(path)
	if err != nil {
		t.Fatalf("InitConfiguration: %v", err)
	}
	if cfg.ApiHash != "from-env" || cfg.IgnorePinnedChats {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestInitConfigurationMissingFile(t *testing.T) {
	_, err := InitConfiguration(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, ErrMissingConfig) {
		t.Fatalf("expected ErrMissingConfig, got %v", err)
	}
}

func TestInitConfigurationMissingKeys(t *testing.T) {
	path := writeConfig(t, `{"api_id": 1}`)
	_, err := InitConfiguration(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if got, want := err.Error(), "configuration error: missing api_hash, session_name"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestInitConfigurationMalformed(t *testing.T) {
	path := writeConfig(t, `{"api_id": `)
	if _, err := InitConfiguration(path); err == nil {
		t.Fatalf("expected parse error")
	}
}
