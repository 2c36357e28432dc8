package v1

import (
	"errors"
	"net/http"

	"github.com/vmunix/streamverse/internal/account"
)

func (s *Server) writeAccountError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, account.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
	case errors.Is(err, account.ErrInvalidTheme):
		writeError(w, http.StatusBadRequest, "INVALID_SETTINGS", err.Error())
	default:
		s.logger.Error("account operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
	}
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.deps.Accounts.Get(r.Context(), userID(r))
	if err != nil {
		s.writeAccountError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var patch account.ProfilePatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	p, err := s.deps.Accounts.Update(r.Context(), userID(r), patch)
	if err != nil {
		s.writeAccountError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.deps.Accounts.Settings(r.Context(), userID(r))
	if err != nil {
		s.writeAccountError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) updateSettings(w http.ResponseWriter, r *http.Request) {
	var patch account.SettingsPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	settings, err := s.deps.Accounts.UpdateSettings(r.Context(), userID(r), patch)
	if err != nil {
		s.writeAccountError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}
