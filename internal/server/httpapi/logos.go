package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/workboard/internal/common"
)

// handleLogoUploadURL hands the listing owner a presigned PUT URL; the image
// bytes never pass through this server.
func (s *Server) handleLogoUploadURL(w http.ResponseWriter, r *http.Request) {
	id, ok := listingID(r)
	if !ok {
		s.writeError(w, http.StatusNotFound, "Listing not found")
		return
	}

	key, url, err := s.logos.PresignUpload(r.Context(), sessionFromContext(r.Context()), id)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			s.writeError(w, http.StatusNotFound, "Listing not found")
		case errors.Is(err, common.ErrorForbidden):
			s.writeError(w, http.StatusForbidden, "You are not authorized to update this listing")
		default:
			s.writeError(w, http.StatusInternalServerError, "failed to issue upload URL")
		}
		return
	}

	s.writeJSON(w, http.StatusOK, "ok", map[string]string{"key": key, "upload_url": url})
}

// handleLogoDownload redirects to a short-lived presigned GET URL, so an
// <img> tag can point straight at this endpoint.
func (s *Server) handleLogoDownload(w http.ResponseWriter, r *http.Request) {
	id, ok := listingID(r)
	if !ok {
		s.writeError(w, http.StatusNotFound, "Listing not found")
		return
	}

	url, err := s.logos.PresignDownload(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.writeError(w, http.StatusNotFound, "Logo not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "failed to issue download URL")
		return
	}

	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}
