package provider

import (
	"fmt"
	"sort"

	"imagestudio/internal/domain"
)

// Registry maps model IDs to their backends. Populated once at startup;
// read-only afterwards, so no locking.
type Registry struct {
	backends     map[string]Backend
	models       map[string]ModelConfig
	defaultModel string
}

// NewRegistry creates an empty registry with a default model ID
func NewRegistry(defaultModel string) *Registry {
	return &Registry{
		backends:     make(map[string]Backend),
		models:       make(map[string]ModelConfig),
		defaultModel: defaultModel,
	}
}

// Register adds a backend and the models it serves
func (r *Registry) Register(backend Backend, models ...ModelConfig) {
	r.backends[backend.Name()] = backend
	for _, m := range models {
		r.models[m.ID] = m
	}
}

// Resolve returns the backend and config for a model ID. Empty selects
// the default model; an unknown ID is a validation error.
func (r *Registry) Resolve(modelID string) (Backend, ModelConfig, error) {
	if modelID == "" {
		modelID = r.defaultModel
	}

	cfg, ok := r.models[modelID]
	if !ok {
		return nil, ModelConfig{}, fmt.Errorf("%w: unknown model %q", domain.ErrValidation, modelID)
	}

	backend, ok := r.backends[cfg.Provider]
	if !ok {
		return nil, ModelConfig{}, fmt.Errorf("no backend registered for provider %q", cfg.Provider)
	}

	return backend, cfg, nil
}

// Models lists every registered model, sorted by ID for stable output
func (r *Registry) Models() []ModelConfig {
	out := make([]ModelConfig, 0, len(r.models))
	for _, m := range r.models {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
