package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/workboard/internal/common"
	"github.com/dmitrijs2005/workboard/internal/server/models"
	"github.com/dmitrijs2005/workboard/internal/server/session"
)

// listingPage bundles a listing payload with the acting session's pending
// flash messages, so the client can render both in one round trip.
type listingPage struct {
	Listings []*models.Listing `json:"listings,omitempty"`
	Listing  *models.Listing   `json:"listing,omitempty"`
	Flashes  []session.Flash   `json:"flashes,omitempty"`

	// Search pages echo the raw query terms for form redisplay.
	Keywords string `json:"keywords,omitempty"`
	Location string `json:"location,omitempty"`
}

func listingID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

func (s *Server) handleListingIndex(w http.ResponseWriter, r *http.Request) {
	result, err := s.listings.List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to load listings")
		return
	}

	sess := sessionFromContext(r.Context())
	s.writeJSON(w, http.StatusOK, "ok", listingPage{
		Listings: result,
		Flashes:  s.listings.PopFlashes(r.Context(), sess),
	})
}

func (s *Server) handleListingSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	keywords, location := q.Get("keywords"), q.Get("location")

	result, err := s.listings.Search(r.Context(), keywords, location)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to search listings")
		return
	}
	s.writeJSON(w, http.StatusOK, "ok", listingPage{
		Listings: result,
		Keywords: keywords,
		Location: location,
	})
}

func (s *Server) handleListingShow(w http.ResponseWriter, r *http.Request) {
	id, ok := listingID(r)
	if !ok {
		s.writeError(w, http.StatusNotFound, "Listing not found")
		return
	}

	listing, err := s.listings.Show(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.writeError(w, http.StatusNotFound, "Listing not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "failed to load listing")
		return
	}

	sess := sessionFromContext(r.Context())
	s.writeJSON(w, http.StatusOK, "ok", listingPage{
		Listing: listing,
		Flashes: s.listings.PopFlashes(r.Context(), sess),
	})
}

func (s *Server) handleListingCreate(w http.ResponseWriter, r *http.Request) {
	var fields models.ListingFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	out, err := s.listings.Create(r.Context(), sessionFromContext(r.Context()), fields)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to create listing")
		return
	}
	s.writeOutcome(w, out, "Listing not found")
}

func (s *Server) handleListingUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := listingID(r)
	if !ok {
		s.writeError(w, http.StatusNotFound, "Listing not found")
		return
	}

	var fields models.ListingFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	out, err := s.listings.Update(r.Context(), sessionFromContext(r.Context()), id, fields)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to update listing")
		return
	}
	s.writeOutcome(w, out, "Listing not found")
}

func (s *Server) handleListingDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := listingID(r)
	if !ok {
		s.writeError(w, http.StatusNotFound, "Listing not found")
		return
	}

	out, err := s.listings.Delete(r.Context(), sessionFromContext(r.Context()), id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to delete listing")
		return
	}
	s.writeOutcome(w, out, "Listing not found")
}
