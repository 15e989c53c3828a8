package provider

import (
	"context"
	"fmt"

	"imagestudio/internal/domain"
)

// Request carries the prompt and target dimensions for a generation.
type Request struct {
	Prompt string
	Width  int
	Height int
}

// GeneratedImage is the raw output of a backend: encoded PNG bytes plus
// the actual pixel dimensions.
type GeneratedImage struct {
	Data   []byte
	Width  int
	Height int
}

// Backend runs image generation against one provider.
type Backend interface {
	// Name identifies the provider (e.g. "openai", "dev")
	Name() string

	// Generate produces a new image from a prompt
	Generate(ctx context.Context, model string, req *Request) (*GeneratedImage, error)

	// Edit produces a variation of a source image guided by a prompt
	Edit(ctx context.Context, model string, source []byte, req *Request) (*GeneratedImage, error)
}

// ModelConfig describes one selectable model.
type ModelConfig struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Provider string   `json:"provider"`
	Sizes    []string `json:"sizes"`
}

// SupportedSizes lists the accepted size strings, square first.
var SupportedSizes = []string{"1024x1024", "1024x1440", "1440x1024"}

// ParseSize maps a size string to pixel dimensions. Empty means the
// square default; anything outside SupportedSizes is a validation error.
func ParseSize(size string) (width, height int, err error) {
	switch size {
	case "", "1024x1024":
		return 1024, 1024, nil
	case "1024x1440":
		return 1024, 1440, nil
	case "1440x1024":
		return 1440, 1024, nil
	default:
		return 0, 0, fmt.Errorf("%w: unsupported size %q", domain.ErrValidation, size)
	}
}
