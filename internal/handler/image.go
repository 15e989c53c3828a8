package handler

import (
	"io"
	"log/slog"
	"net/http"

	"imagestudio/internal/domain/models"
	"imagestudio/internal/domain/services"
	"imagestudio/internal/httputil"
)

// ImageHandler handles gallery and generation HTTP requests
type ImageHandler struct {
	imageService services.ImageService
	logger       *slog.Logger
}

// NewImageHandler creates a new image handler
func NewImageHandler(imageService services.ImageService, logger *slog.Logger) *ImageHandler {
	return &ImageHandler{
		imageService: imageService,
		logger:       logger,
	}
}

// ListImages lists the caller's images, optionally filtered by folder.
// folderId is "" for all, "root" for uncategorized, or a folder id.
// GET /api/images?folderId=
func (h *ImageHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	images, err := h.imageService.ListImages(r.Context(), userID, r.URL.Query().Get("folderId"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string][]models.ImageResponse{
		"images": images,
	})
}

// MoveImages re-points a batch of images at a folder
// POST /api/images/move
func (h *ImageHandler) MoveImages(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req services.MoveImagesRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.imageService.MoveImages(r.Context(), userID, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// GenerateImage generates a new image from a prompt
// POST /api/images/generate
func (h *ImageHandler) GenerateImage(w http.ResponseWriter, r *http.Request) {
	user := httputil.GetAuthUser(r)
	if user == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req services.GenerateImageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	image, err := h.imageService.GenerateImage(r.Context(), user, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, image)
}

// EditImage generates a variation of a caller-supplied source image
// POST /api/images/edit
func (h *ImageHandler) EditImage(w http.ResponseWriter, r *http.Request) {
	user := httputil.GetAuthUser(r)
	if user == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req services.EditImageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	image, err := h.imageService.EditImage(r.Context(), user, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, image)
}

// DownloadImage streams the original PNG bytes
// GET /api/images/{id}/download
func (h *ImageHandler) DownloadImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "image ID is required")
		return
	}

	body, err := h.imageService.DownloadImage(r.Context(), userID, id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `attachment; filename="`+id+`.png"`)
	if _, err := io.Copy(w, body); err != nil {
		// Headers are gone; all we can do is log the broken stream
		h.logger.Warn("image download interrupted", "image_id", id, "error", err)
	}
}
