package provider

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image/color"

	"github.com/disintegration/imaging"
)

// FlatFillModelID is the model served by the dev backend.
const FlatFillModelID = "flat-fill-dev"

// FlatFillBackend is a development backend that needs no API key. It
// renders a solid color derived from the prompt, so repeated prompts
// produce the same image and distinct prompts usually differ.
type FlatFillBackend struct{}

// NewFlatFillBackend creates the dev backend
func NewFlatFillBackend() *FlatFillBackend {
	return &FlatFillBackend{}
}

// FlatFillModel describes the dev backend's single model
func FlatFillModel() ModelConfig {
	return ModelConfig{
		ID:       FlatFillModelID,
		Name:     "Flat Fill (dev)",
		Provider: "dev",
		Sizes:    SupportedSizes,
	}
}

// Name identifies the provider
func (b *FlatFillBackend) Name() string {
	return "dev"
}

// Generate produces a new image from a prompt
func (b *FlatFillBackend) Generate(_ context.Context, _ string, req *Request) (*GeneratedImage, error) {
	img := imaging.New(req.Width, req.Height, promptColor(req.Prompt))

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	return &GeneratedImage{
		Data:   buf.Bytes(),
		Width:  req.Width,
		Height: req.Height,
	}, nil
}

// Edit ignores the source and regenerates from the prompt
func (b *FlatFillBackend) Edit(ctx context.Context, model string, _ []byte, req *Request) (*GeneratedImage, error) {
	return b.Generate(ctx, model, req)
}

func promptColor(prompt string) color.NRGBA {
	h := fnv.New32a()
	h.Write([]byte(prompt))
	sum := h.Sum32()
	return color.NRGBA{
		R: uint8(sum),
		G: uint8(sum >> 8),
		B: uint8(sum >> 16),
		A: 255,
	}
}
