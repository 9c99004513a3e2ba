package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

type addPhotoRequest struct {
	URL string `json:"url"`
}

type reorderPhotosRequest struct {
	PhotoIDs []string `json:"photoIds"`
}

// handleAddPhoto handles POST /api/listings/{id}/photos
func (s *Server) handleAddPhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := listingID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid listing id", nil)
		return
	}

	var req addPhotoRequest
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body: "+err.Error(), nil)
		return
	}

	photo, err := s.mediaService.AddPhoto(r.Context(), id, req.URL)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, photo)
}

// handleListPhotos handles GET /api/listings/{id}/photos
func (s *Server) handleListPhotos(w http.ResponseWriter, r *http.Request) {
	id, ok := listingID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid listing id", nil)
		return
	}

	photos, err := s.mediaService.ListPhotos(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"photos": photos,
		"count":  len(photos),
	})
}

// handleReorderPhotos handles PUT /api/listings/{id}/photos/order
func (s *Server) handleReorderPhotos(w http.ResponseWriter, r *http.Request) {
	id, ok := listingID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid listing id", nil)
		return
	}

	var req reorderPhotosRequest
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body: "+err.Error(), nil)
		return
	}

	if err := s.mediaService.ReorderPhotos(r.Context(), id, req.PhotoIDs); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleDeletePhoto handles DELETE /api/photos/{photoId}
func (s *Server) handleDeletePhoto(w http.ResponseWriter, r *http.Request) {
	photoID := mux.Vars(r)["photoId"]

	if err := s.mediaService.DeletePhoto(r.Context(), photoID); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
