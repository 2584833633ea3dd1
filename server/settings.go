package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"grammar_enhancer/settings"
)

const SavedMessage = "API key saved successfully!"

type settingsResponse struct {
	HasAPIKey  bool   `json:"hasApiKey"`
	APIKeyHint string `json:"apiKeyHint,omitempty"`
}

type settingsRequest struct {
	APIKey string `json:"apiKey"`
}

type settingsSaved struct {
	Status string `json:"status"`
}

// settingsError is the body of a failed save; the settings page shows it.
type settingsError struct {
	Error string `json:"error"`
}

func (s *Server) loadSettings(r *http.Request) (settingsResponse, error) {
	key, ok, err := s.store.Get(r.Context())
	if err != nil {
		return settingsResponse{}, err
	}
	if !ok || key == "" {
		return settingsResponse{}, nil
	}
	return settingsResponse{HasAPIKey: true, APIKeyHint: settings.Hint(key)}, nil
}

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	resp, err := s.loadSettings(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, resp)
}

// updateSettings stores the key as given; its format is not checked.
func (s *Server) updateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONStatus(w, settingsError{Error: "invalid request"}, http.StatusBadRequest)
		return
	}
	if err := s.store.Set(r.Context(), req.APIKey); err != nil {
		s.logger.Error("save api key", zap.Error(err))
		writeJSONStatus(w, settingsError{Error: err.Error()}, http.StatusInternalServerError)
		return
	}
	writeJSON(w, settingsSaved{Status: SavedMessage})
}
