package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"podtrack/internal/config"
	"podtrack/pkg/tasks"
)

// Handlers carries the dependencies shared by the HTTP endpoints.
type Handlers struct {
	cfg      config.Config
	enqueuer tasks.TaskEnqueuer
}

func New(cfg config.Config, enqueuer tasks.TaskEnqueuer) *Handlers {
	return &Handlers{cfg: cfg, enqueuer: enqueuer}
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}
