package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/workboard/internal/server/services"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	out, err := s.users.Register(r.Context(), req)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to register")
		return
	}
	s.writeOutcome(w, out, "not found")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	out, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to log in")
		return
	}
	s.writeOutcome(w, out, "not found")
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	out, err := s.users.Logout(r.Context(), sessionFromContext(r.Context()))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to log out")
		return
	}

	// Clear the cookie regardless of whether a session existed.
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.writeOutcome(w, out, "not found")
}
