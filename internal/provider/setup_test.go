package provider

import (
	"io"
	"log/slog"
	"testing"

	"imagestudio/internal/config"
)

func setupLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSetup_WithoutAPIKeyDefaultsToDevModel(t *testing.T) {
	registry := Setup(&config.Config{DefaultModel: "gpt-image-1"}, setupLogger())

	// no key means no openai backend; the configured default is not
	// servable, so an empty model request must resolve to the dev model
	backend, cfg, err := registry.Resolve("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ID != FlatFillModelID {
		t.Errorf("expected dev model as default, got %q", cfg.ID)
	}
	if backend.Name() != "dev" {
		t.Errorf("expected dev backend, got %q", backend.Name())
	}

	if _, _, err := registry.Resolve("gpt-image-1"); err == nil {
		t.Error("explicit openai model should not resolve without a key")
	}
}

func TestSetup_WithAPIKey(t *testing.T) {
	registry := Setup(&config.Config{
		DefaultModel: "gpt-image-1",
		OpenAIAPIKey: "sk-test",
	}, setupLogger())

	backend, cfg, err := registry.Resolve("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ID != "gpt-image-1" {
		t.Errorf("expected configured default, got %q", cfg.ID)
	}
	if backend.Name() != "openai" {
		t.Errorf("expected openai backend, got %q", backend.Name())
	}

	// the dev model stays available alongside
	if _, _, err := registry.Resolve(FlatFillModelID); err != nil {
		t.Errorf("dev model should remain registered: %v", err)
	}
}
