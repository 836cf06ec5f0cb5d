package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"chartsnap-backend/internal/domain"
)

// VersionHandler serves the read side: past runs and their stored images.
type VersionHandler struct {
	query domain.VersionQuery
}

func NewVersionHandler(query domain.VersionQuery) *VersionHandler {
	return &VersionHandler{query: query}
}

type listVersionsResponse struct {
	Versions []domain.VersionRecord `json:"versions"`
	Limit    int                    `json:"limit"`
	Offset   int                    `json:"offset"`
}

func (h *VersionHandler) HandleListVersions(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)
	if limit <= 0 || limit > 100 {
		writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
		return
	}
	if offset < 0 {
		writeError(w, http.StatusBadRequest, "offset must not be negative")
		return
	}

	versions, err := h.query.ListVersions(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list versions")
		return
	}
	if versions == nil {
		versions = []domain.VersionRecord{}
	}

	writeJSON(w, http.StatusOK, listVersionsResponse{Versions: versions, Limit: limit, Offset: offset})
}

type versionImagesResponse struct {
	Version domain.VersionRecord `json:"version"`
	Images  []domain.ImageRecord `json:"images"`
}

func (h *VersionHandler) HandleListImages(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "version id is required")
		return
	}

	version, err := h.query.GetVersion(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "version not found")
		return
	}

	images, err := h.query.ListImagesByVersion(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list images")
		return
	}
	if images == nil {
		images = []domain.ImageRecord{}
	}

	writeJSON(w, http.StatusOK, versionImagesResponse{Version: version, Images: images})
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return -1
	}
	return n
}
