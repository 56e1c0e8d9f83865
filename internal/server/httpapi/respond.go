package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/workboard/internal/server/services"
)

// Envelope is the standard API response wrapper used across handlers.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// rejectedBody is the payload of a 422: a message per failing field plus the
// data the client should re-render the form with.
type rejectedBody struct {
	Errors map[string]string `json:"errors"`
	Form   any               `json:"form,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(Envelope{Code: status, Message: message, Data: data}); err != nil {
		s.logger.Warn(context.Background(), "failed to encode response", "error", err.Error())
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, message, nil)
}

// writeOutcome renders a workflow outcome. Redirects become 303 so a
// follow-up GET lands on Location; rejections become 422 with the field
// errors and the echo payload.
func (s *Server) writeOutcome(w http.ResponseWriter, out services.Outcome, notFoundMsg string) {
	switch v := out.(type) {
	case services.Rejected:
		s.writeJSON(w, http.StatusUnprocessableEntity, "validation failed",
			rejectedBody{Errors: v.Errors, Form: v.Echo})
	case services.Redirect:
		w.Header().Set("Location", v.Location)
		s.writeJSON(w, http.StatusSeeOther, "see other", map[string]string{"location": v.Location})
	case services.NotFound:
		s.writeError(w, http.StatusNotFound, notFoundMsg)
	case services.Authenticated:
		w.Header().Set("Location", v.Location)
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookieName,
			Value:    v.Token,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		s.writeJSON(w, http.StatusOK, "authenticated", map[string]any{
			"token":    v.Token,
			"user":     v.User,
			"location": v.Location,
		})
	default:
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}
