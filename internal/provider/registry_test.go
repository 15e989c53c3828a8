package provider

import (
	"errors"
	"testing"

	"imagestudio/internal/domain"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		name    string
		size    string
		wantW   int
		wantH   int
		wantErr bool
	}{
		{"empty defaults to square", "", 1024, 1024, false},
		{"square", "1024x1024", 1024, 1024, false},
		{"portrait", "1024x1440", 1024, 1440, false},
		{"landscape", "1440x1024", 1440, 1024, false},
		{"unsupported", "512x512", 0, 0, true},
		{"garbage", "huge", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, err := ParseSize(tt.size)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("expected %dx%d, got %dx%d", tt.wantW, tt.wantH, w, h)
			}
		})
	}
}

func TestRegistry_Resolve(t *testing.T) {
	registry := NewRegistry(FlatFillModelID)
	registry.Register(NewFlatFillBackend(), FlatFillModel())

	// empty selects the default model
	backend, cfg, err := registry.Resolve("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ID != FlatFillModelID {
		t.Errorf("expected default model, got %q", cfg.ID)
	}
	if backend.Name() != "dev" {
		t.Errorf("expected dev backend, got %q", backend.Name())
	}

	// explicit id
	if _, _, err := registry.Resolve(FlatFillModelID); err != nil {
		t.Errorf("explicit resolve failed: %v", err)
	}

	// unknown id is a validation error
	if _, _, err := registry.Resolve("imaginary-9000"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestRegistry_ModelsSorted(t *testing.T) {
	registry := NewRegistry("b-model")
	backend := NewFlatFillBackend()
	registry.Register(backend,
		ModelConfig{ID: "c-model", Provider: "dev"},
		ModelConfig{ID: "a-model", Provider: "dev"},
		ModelConfig{ID: "b-model", Provider: "dev"},
	)

	models := registry.Models()
	if len(models) != 3 {
		t.Fatalf("expected 3 models, got %d", len(models))
	}
	want := []string{"a-model", "b-model", "c-model"}
	for i, m := range models {
		if m.ID != want[i] {
			t.Errorf("models[%d] = %q, want %q", i, m.ID, want[i])
		}
	}
}
