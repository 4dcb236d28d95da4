package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Server.Port == 0 {
		t.Error("expected default server port to be set")
	}
	if config.Database.Path == "" {
		t.Error("expected default database path to be set")
	}
	if config.Session.TTLMinutes <= 0 {
		t.Error("expected default session TTL to be positive")
	}
	if config.Session.SweepMinutes != 0 {
		t.Error("expected background sweep to default off")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("parses a valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `
[database]
path = "test.db"
max_open_conns = 4
max_idle_conns = 2

[server]
host = "localhost"
port = 9000

[session]
ttl_minutes = 30
sweep_minutes = 5
secure_cookies = true
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}

		if config.Database.Path != "test.db" {
			t.Errorf("expected database path test.db, got %s", config.Database.Path)
		}
		if config.Server.Port != 9000 {
			t.Errorf("expected port 9000, got %d", config.Server.Port)
		}
		if config.Session.TTL() != 30*time.Minute {
			t.Errorf("expected TTL 30m, got %v", config.Session.TTL())
		}
		if config.Session.SweepInterval() != 5*time.Minute {
			t.Errorf("expected sweep interval 5m, got %v", config.Session.SweepInterval())
		}
		if !config.Session.SecureCookies {
			t.Error("expected secure_cookies true")
		}
	})

	t.Run("rejects non-positive TTL", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `
[session]
ttl_minutes = 0
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if _, err := LoadConfig(path); err == nil {
			t.Error("expected error for zero TTL")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func TestCreateConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	if err := CreateConfigFile(path); err != nil {
		t.Fatalf("CreateConfigFile failed: %v", err)
	}

	if _, err := LoadConfig(path); err != nil {
		t.Errorf("created config should load cleanly: %v", err)
	}

	if err := CreateConfigFile(path); err == nil {
		t.Error("expected error creating config over existing file")
	}
}
