package provider

import (
	"log/slog"

	"imagestudio/internal/config"
)

// Setup builds the generation registry from config. The dev backend is
// always registered so the stack works without an API key; OpenAI
// models are added when a key is present. A configured default model
// that no registered backend serves falls back to the dev model.
func Setup(cfg *config.Config, logger *slog.Logger) *Registry {
	registry := NewRegistry(cfg.DefaultModel)
	registry.Register(NewFlatFillBackend(), FlatFillModel())

	if cfg.OpenAIAPIKey != "" {
		registry.Register(NewOpenAIBackend(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL),
			ModelConfig{
				ID:       "gpt-image-1",
				Name:     "GPT Image 1",
				Provider: "openai",
				Sizes:    SupportedSizes,
			},
			ModelConfig{
				ID:       "dall-e-3",
				Name:     "DALL-E 3",
				Provider: "openai",
				Sizes:    []string{"1024x1024"},
			},
		)
		logger.Info("openai backend registered", "default_model", registry.defaultModel)
	} else {
		logger.Warn("OPENAI_API_KEY not set, only the dev backend is available")
	}

	if _, ok := registry.models[registry.defaultModel]; !ok {
		logger.Warn("default model has no backend, using dev model",
			"configured", registry.defaultModel,
			"fallback", FlatFillModelID,
		)
		registry.defaultModel = FlatFillModelID
	}

	return registry
}
