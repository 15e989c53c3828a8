package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIBackend generates images through the OpenAI Images API. Results
// are requested as base64 so no second fetch is needed.
type OpenAIBackend struct {
	client openai.Client
}

// NewOpenAIBackend creates a backend for the OpenAI Images API.
// baseURL is optional and supports API-compatible gateways.
func NewOpenAIBackend(apiKey, baseURL string) *OpenAIBackend {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIBackend{client: openai.NewClient(opts...)}
}

// Name identifies the provider
func (b *OpenAIBackend) Name() string {
	return "openai"
}

// Generate produces a new image from a prompt
func (b *OpenAIBackend) Generate(ctx context.Context, model string, req *Request) (*GeneratedImage, error) {
	params := openai.ImageGenerateParams{
		Prompt: req.Prompt,
		Model:  openai.ImageModel(model),
		N:      openai.Int(1),
		Size:   openai.ImageGenerateParamsSize(fmt.Sprintf("%dx%d", req.Width, req.Height)),
	}
	// gpt-image models always return base64 and reject the parameter
	if model != string(openai.ImageModelGPTImage1) {
		params.ResponseFormat = openai.ImageGenerateParamsResponseFormatB64JSON
	}

	res, err := b.client.Images.Generate(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai generate: %w", err)
	}

	return decodeImageData(res, req)
}

// Edit produces a variation of a source image guided by a prompt
func (b *OpenAIBackend) Edit(ctx context.Context, model string, source []byte, req *Request) (*GeneratedImage, error) {
	params := openai.ImageEditParams{
		Image: openai.ImageEditParamsImageUnion{
			OfFile: openai.File(bytes.NewReader(source), "source.png", "image/png"),
		},
		Prompt: req.Prompt,
		Model:  openai.ImageModel(model),
		N:      openai.Int(1),
		Size:   openai.ImageEditParamsSize(fmt.Sprintf("%dx%d", req.Width, req.Height)),
	}

	res, err := b.client.Images.Edit(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai edit: %w", err)
	}

	return decodeImageData(res, req)
}

func decodeImageData(res *openai.ImagesResponse, req *Request) (*GeneratedImage, error) {
	if len(res.Data) == 0 {
		return nil, fmt.Errorf("openai returned no image data")
	}

	data, err := base64.StdEncoding.DecodeString(res.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("decode image payload: %w", err)
	}

	return &GeneratedImage{
		Data:   data,
		Width:  req.Width,
		Height: req.Height,
	}, nil
}
