package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadBytes_Defaults(t *testing.T) {
	cfg, err := LoadBytes(nil)
	if err != nil {
		t.Fatalf("LoadBytes() error = %v", err)
	}

	if cfg.Server.Port != 8090 {
		t.Errorf("Server.Port = %d, want 8090", cfg.Server.Port)
	}
	if cfg.Server.ShutdownTimeout.Duration() != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 10s", cfg.Server.ShutdownTimeout.Duration())
	}
	if cfg.Storage.Driver != "memory" {
		t.Errorf("Storage.Driver = %q, want memory", cfg.Storage.Driver)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v, want info/json", cfg.Logging)
	}
	if cfg.Events.Subject != "chronicled.story.added" {
		t.Errorf("Events.Subject = %q", cfg.Events.Subject)
	}
	if cfg.Upstreams.OpenAI.BaseURL != "https://api.openai.com" {
		t.Errorf("Upstreams.OpenAI.BaseURL = %q", cfg.Upstreams.OpenAI.BaseURL)
	}
	if cfg.Upstreams.ElevenLabs.Burst != 10 {
		t.Errorf("Upstreams.ElevenLabs.Burst = %d, want 10", cfg.Upstreams.ElevenLabs.Burst)
	}
}

func TestLoadBytes_YAMLOverrides(t *testing.T) {
	cfg, err := LoadBytes([]byte(`
server:
  port: 9999
  shutdown_timeout: 5s
logging:
  level: debug
  format: console
storage:
  driver: sqlite
  path: /tmp/stories.db
upstreams:
  elevenlabs:
    api_key: el-secret
    rate_limit: 2.5
`))
	if err != nil {
		t.Fatalf("LoadBytes() error = %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Server.ShutdownTimeout.Duration() != 5*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 5s", cfg.Server.ShutdownTimeout.Duration())
	}
	if cfg.Storage.Driver != "sqlite" || cfg.Storage.Path != "/tmp/stories.db" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Upstreams.ElevenLabs.APIKey.Value() != "el-secret" {
		t.Errorf("ElevenLabs.APIKey not loaded")
	}
	if cfg.Upstreams.ElevenLabs.RateLimit != 2.5 {
		t.Errorf("ElevenLabs.RateLimit = %v, want 2.5", cfg.Upstreams.ElevenLabs.RateLimit)
	}
}

func TestLoadBytes_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad port", "server:\n  port: 99999\n"},
		{"bad driver", "storage:\n  driver: postgres\n"},
		{"sqlite without path", "storage:\n  driver: sqlite\n"},
		{"bad log level", "logging:\n  level: loud\n"},
		{"archive without key", "archive:\n  enabled: true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadBytes([]byte(tt.yaml)); err == nil {
				t.Error("LoadBytes() should have failed validation")
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CHRONICLED_SERVER_PORT", "7070")
	t.Setenv("CHRONICLED_STORAGE_DRIVER", "sqlite")
	t.Setenv("CHRONICLED_STORAGE_PATH", "/tmp/env.db")
	t.Setenv("CHRONICLED_UPSTREAMS_OPENAI_API_KEY", "sk-env")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070 from env", cfg.Server.Port)
	}
	if cfg.Storage.Path != "/tmp/env.db" {
		t.Errorf("Storage.Path = %q, want /tmp/env.db", cfg.Storage.Path)
	}
	if cfg.Upstreams.OpenAI.APIKey.Value() != "sk-env" {
		t.Errorf("OpenAI.APIKey not loaded from env")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8090 {
		t.Errorf("Server.Port = %d, want default 8090", cfg.Server.Port)
	}
}

func TestLoad_RejectsInsecurePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9999\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() should reject a world-readable config file")
	}
}

func TestLoad_SecureFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9999\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"CHRONICLED_SERVER_PORT", "server.port"},
		{"CHRONICLED_SERVER_SHUTDOWN_TIMEOUT", "server.shutdown_timeout"},
		{"CHRONICLED_EMBEDDINGS_API_KEY", "embeddings.api_key"},
		{"CHRONICLED_UPSTREAMS_OPENAI_API_KEY", "upstreams.openai.api_key"},
		{"CHRONICLED_UPSTREAMS_ELEVENLABS_BASE_URL", "upstreams.elevenlabs.base_url"},
	}

	for _, tt := range tests {
		if got := envTransform(tt.in); got != tt.want {
			t.Errorf("envTransform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSecret_Redaction(t *testing.T) {
	s := Secret("hunter2")

	if got := s.String(); got != "[REDACTED]" {
		t.Errorf("String() = %q", got)
	}
	if got := fmt.Sprintf("%#v", s); got != "Secret([REDACTED])" {
		t.Errorf("GoString() = %q", got)
	}
	if s.Value() != "hunter2" {
		t.Errorf("Value() lost the secret")
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"[REDACTED]"` {
		t.Errorf("MarshalJSON() = %s", data)
	}

	var empty Secret
	if empty.String() != "" || empty.IsSet() {
		t.Error("empty secret should stay empty and unset")
	}
}

func TestDuration_UnmarshalText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("90s")); err != nil {
		t.Fatal(err)
	}
	if d.Duration() != 90*time.Second {
		t.Errorf("Duration() = %v, want 90s", d.Duration())
	}

	if err := d.UnmarshalText([]byte("-5s")); err == nil {
		t.Error("negative duration should be rejected")
	}
	if err := d.UnmarshalText([]byte("soon")); err == nil {
		t.Error("unparsable duration should be rejected")
	}
}
