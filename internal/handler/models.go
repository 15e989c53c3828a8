package handler

import (
	"net/http"

	"imagestudio/internal/httputil"
	"imagestudio/internal/provider"
)

// ModelsHandler exposes the registered generation models
type ModelsHandler struct {
	registry *provider.Registry
}

// NewModelsHandler creates a new models handler
func NewModelsHandler(registry *provider.Registry) *ModelsHandler {
	return &ModelsHandler{registry: registry}
}

// GetModels lists the selectable models
// GET /api/models
func (h *ModelsHandler) GetModels(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string][]provider.ModelConfig{
		"models": h.registry.Models(),
	})
}
