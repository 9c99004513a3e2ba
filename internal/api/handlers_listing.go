package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/stevenovak55/bmnboston-sub015/internal/storage"
	"github.com/stevenovak55/bmnboston-sub015/internal/types"
)

// privilegedRequest reports whether the caller may see agent-only fields.
// Authentication happens upstream; the gateway sets this header only for
// authenticated staff traffic and strips it from public requests.
func privilegedRequest(r *http.Request) bool {
	return r.Header.Get("X-Privileged-Access") == "true"
}

func listingID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// handleCreateListing handles POST /api/listings
func (s *Server) handleCreateListing(w http.ResponseWriter, r *http.Request) {
	var input types.ListingInput
	if err := parseJSONBody(r, &input); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body: "+err.Error(), nil)
		return
	}

	view, err := s.listingService.Create(r.Context(), &input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, view)
}

// handleGetListing handles GET /api/listings/{id}
func (s *Server) handleGetListing(w http.ResponseWriter, r *http.Request) {
	id, ok := listingID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid listing id", nil)
		return
	}

	view, err := s.listingService.Get(r.Context(), id, privilegedRequest(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

// handleGetListingByKey handles GET /api/listings/key/{key}
func (s *Server) handleGetListingByKey(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	view, err := s.listingService.GetByKey(r.Context(), key, privilegedRequest(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

// handleUpdateListing handles PUT /api/listings/{id}
func (s *Server) handleUpdateListing(w http.ResponseWriter, r *http.Request) {
	id, ok := listingID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid listing id", nil)
		return
	}

	var input types.ListingInput
	if err := parseJSONBody(r, &input); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body: "+err.Error(), nil)
		return
	}

	view, err := s.listingService.Update(r.Context(), id, &input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

// handleDeleteListing handles DELETE /api/listings/{id}. With ?archive=true
// the listing's rows move to the archive tables; without it the listing is
// removed permanently.
func (s *Server) handleDeleteListing(w http.ResponseWriter, r *http.Request) {
	id, ok := listingID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid listing id", nil)
		return
	}
	archive := r.URL.Query().Get("archive") == "true"

	if err := s.listingService.ArchiveOrDelete(r.Context(), id, archive); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleListListings handles GET /api/listings
func (s *Server) handleListListings(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListingFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, err.Error(), nil)
		return
	}

	page, err := s.listingService.List(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, page)
}

// parseListingFilter builds the list filter from query parameters. Unknown
// parameters are ignored; malformed numeric values are an error.
func parseListingFilter(r *http.Request) (storage.ListingFilter, error) {
	query := r.URL.Query()
	filter := storage.ListingFilter{
		City:           query.Get("city"),
		PropertyType:   query.Get("propertyType"),
		StandardStatus: query.Get("status"),
	}

	for param, dest := range map[string]*float64{
		"minPrice": &filter.MinPrice,
		"maxPrice": &filter.MaxPrice,
		"minLat":   &filter.MinLat,
		"maxLat":   &filter.MaxLat,
		"minLng":   &filter.MinLng,
		"maxLng":   &filter.MaxLng,
	} {
		raw := query.Get(param)
		if raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter, &types.ServiceError{
				Code:    "VALIDATION_FAILED",
				Message: "invalid numeric parameter " + param,
			}
		}
		*dest = value
	}

	for param, dest := range map[string]*int{
		"minBedrooms": &filter.MinBedrooms,
		"limit":       &filter.Limit,
		"offset":      &filter.Offset,
	} {
		raw := query.Get(param)
		if raw == "" {
			continue
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			return filter, &types.ServiceError{
				Code:    "VALIDATION_FAILED",
				Message: "invalid integer parameter " + param,
			}
		}
		*dest = value
	}

	return filter, nil
}
