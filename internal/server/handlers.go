package server

import (
	"encoding/json"
	"net/http"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "alloctuner",
	})
}

// handleListTrials returns every persisted trial of the run, with its
// per-asset weights.
func (s *Server) handleListTrials(w http.ResponseWriter, r *http.Request) {
	trials, err := s.repo.List()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(trials),
		"trials": trials,
	})
}

// handleBestTrial returns the minimum-loss trial persisted so far.
func (s *Server) handleBestTrial(w http.ResponseWriter, r *http.Request) {
	best, err := s.repo.Best()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if best == nil {
		s.writeError(w, http.StatusNotFound, "no evaluated trials yet")
		return
	}

	s.writeJSON(w, http.StatusOK, best)
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
