package embeddings

import (
	"context"
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{BaseURL: "https://api.openai.com/v1", Model: "text-embedding-3-small"}, false},
		{"missing base url", Config{Model: "text-embedding-3-small"}, true},
		{"missing model", Config{BaseURL: "https://api.openai.com/v1"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error should wrap ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestNewService_InvalidConfig(t *testing.T) {
	if _, err := NewService(Config{}); err == nil {
		t.Error("NewService() with empty config should error")
	}
}

func TestEmbed_EmptyInput(t *testing.T) {
	svc, err := NewService(Config{
		BaseURL: "http://localhost:9",
		Model:   "text-embedding-3-small",
	})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	if _, err := svc.Embed(context.Background(), nil); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Embed(nil) error = %v, want ErrEmptyInput", err)
	}
	if _, err := svc.Embed(context.Background(), []string{}); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Embed(empty) error = %v, want ErrEmptyInput", err)
	}
	if _, err := svc.EmbedQuery(context.Background(), ""); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("EmbedQuery(\"\") error = %v, want ErrEmptyInput", err)
	}
}
