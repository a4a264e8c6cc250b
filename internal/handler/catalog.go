package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/repocat/repocat/internal/auth"
	"github.com/repocat/repocat/internal/handler/dto"
	"github.com/repocat/repocat/internal/middleware"
	"github.com/repocat/repocat/internal/service"
)

// CatalogHandler handles HTTP requests for repository catalog operations.
type CatalogHandler struct {
	svc    *service.CatalogService
	logger *slog.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(svc *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /api/v1/repositories.
// With ?owner=me the listing is scoped to the acting user, otherwise it
// covers the whole catalog.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("owner") == "me" {
		ownerID := auth.MustIdentityFromContext(r.Context())
		result, err := h.svc.ListOwnerRepositories(r.Context(), ownerID)
		if err != nil {
			h.handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, dto.ToRepositoryListResponse(result))
		return
	}

	result, err := h.svc.ListRepositories(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToRepositoryListResponse(result))
}

// Get handles GET /api/v1/repositories/{id}.
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_ID", "Repository ID is required")
		return
	}

	repo, err := h.svc.GetRepository(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToRepositoryResponse(repo))
}

// Create handles POST /api/v1/repositories.
// The owner is always the acting user resolved by the identity
// middleware; it cannot be supplied in the payload.
func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRepositoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := middleware.ValidateCreationPayload(req.Name, req.Version, req.Description, req.Taxonomy); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	ownerID := auth.MustIdentityFromContext(r.Context())

	repo, err := h.svc.CreateNewRepository(r.Context(), ownerID, service.CreateRepositoryInput{
		Name:        req.Name,
		Version:     req.Version,
		Description: req.Description,
		Taxonomy:    req.Taxonomy,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("repository_created",
		"repository_id", repo.ID,
		"owner_id", repo.OwnerID,
		"name", repo.Name,
	)

	writeJSON(w, http.StatusCreated, dto.ToRepositoryResponse(repo))
}

// Update handles PATCH /api/v1/repositories/{id}.
func (h *CatalogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_ID", "Repository ID is required")
		return
	}

	var req dto.UpdateRepositoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if req.Name != nil {
		if err := middleware.ValidateRepositoryName(*req.Name); err != nil {
			h.writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
			return
		}
	}

	ownerID := auth.MustIdentityFromContext(r.Context())

	repo, err := h.svc.UpdateRepository(r.Context(), ownerID, id, service.UpdateRepositoryInput{
		Name:        req.Name,
		Version:     req.Version,
		Description: req.Description,
		Taxonomy:    req.Taxonomy,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("repository_updated",
		"repository_id", repo.ID,
		"owner_id", repo.OwnerID,
	)

	writeJSON(w, http.StatusOK, dto.ToRepositoryResponse(repo))
}

// Delete handles DELETE /api/v1/repositories/{id}.
func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_ID", "Repository ID is required")
		return
	}

	ownerID := auth.MustIdentityFromContext(r.Context())

	if err := h.svc.DeleteRepository(r.Context(), ownerID, id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("repository_deleted", "repository_id", id, "owner_id", ownerID)

	w.WriteHeader(http.StatusNoContent)
}

// handleServiceError maps service errors to HTTP responses.
func (h *CatalogHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrRepositoryNotFound):
		h.writeError(w, http.StatusNotFound, "REPOSITORY_NOT_FOUND", "Repository not found")
	case errors.Is(err, service.ErrNameConflict):
		h.writeError(w, http.StatusConflict, "NAME_TAKEN", "Repository name already in use by this owner")
	case errors.Is(err, service.ErrNotOwner):
		h.writeError(w, http.StatusForbidden, "NOT_OWNER", "Repository belongs to a different owner")
	case errors.Is(err, service.ErrInvalidRequest):
		h.writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
	default:
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// writeError writes an error response.
func (h *CatalogHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
