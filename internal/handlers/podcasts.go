package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"podtrack/internal/calendar"
	"podtrack/internal/db"
	"podtrack/internal/feed"
)

type podcastPayload struct {
	Name                   *string `json:"name"`
	Host                   *string `json:"host"`
	DefaultStudioSettings  *string `json:"default_studio_settings"`
	TasksTimeAllowanceDays *string `json:"tasks_time_allowance_days"`
}

func (h *Handlers) GetPodcasts(w http.ResponseWriter, r *http.Request) {
	podcasts, err := db.GetAllPodcasts()
	if err != nil {
		log.Printf("Error getting podcasts: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, podcasts)
}

func (h *Handlers) GetPodcast(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	podcast, err := db.GetPodcastByID(id)
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "Podcast not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("Error getting podcast %s: %v", id, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, podcast)
}

func (h *Handlers) PostPodcast(w http.ResponseWriter, r *http.Request) {
	var p podcastPayload
	if !decodeJSON(w, r, &p) {
		return
	}
	if p.Name == nil || strings.TrimSpace(*p.Name) == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}

	podcast, err := db.CreatePodcast(strings.TrimSpace(*p.Name), p.Host, p.DefaultStudioSettings, p.TasksTimeAllowanceDays)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusCreated, podcast)
}

func (h *Handlers) PutPodcast(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	podcast, err := db.GetPodcastByID(id)
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "Podcast not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var p podcastPayload
	if !decodeJSON(w, r, &p) {
		return
	}
	if p.Name != nil {
		if strings.TrimSpace(*p.Name) == "" {
			http.Error(w, "Name cannot be blank", http.StatusBadRequest)
			return
		}
		podcast.Name = strings.TrimSpace(*p.Name)
	}
	if p.Host != nil {
		podcast.Host = p.Host
	}
	if p.DefaultStudioSettings != nil {
		podcast.DefaultStudioSettings = p.DefaultStudioSettings
	}
	if p.TasksTimeAllowanceDays != nil {
		podcast.TasksTimeAllowanceDays = p.TasksTimeAllowanceDays
	}

	if err := db.UpdatePodcast(&podcast); err != nil {
		log.Printf("Error updating podcast %s: %v", id, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, podcast)
}

func (h *Handlers) DeletePodcast(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := db.GetPodcastByID(id); errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "Podcast not found", http.StatusNotFound)
		return
	}
	if err := db.DeletePodcast(id); err != nil {
		log.Printf("Error deleting podcast %s: %v", id, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Podcast deleted successfully"})
}

// ResolvePodcast finds a podcast by name or alias, creating one when nothing
// matches. This is the manual lookup path; calendar ingestion never creates.
func (h *Handlers) ResolvePodcast(w http.ResponseWriter, r *http.Request) {
	var p struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &p) {
		return
	}
	if strings.TrimSpace(p.Name) == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}

	podcast, err := calendar.FindOrCreatePodcast(p.Name)
	if err != nil {
		log.Printf("Error resolving podcast %q: %v", p.Name, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, podcast)
}

func (h *Handlers) GetPodcastAliases(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	aliases, err := db.GetAliasesByPodcastID(id)
	if err != nil {
		log.Printf("Error getting aliases for podcast %s: %v", id, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, aliases)
}

func (h *Handlers) PostPodcastAlias(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := db.GetPodcastByID(id); errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "Podcast not found", http.StatusNotFound)
		return
	}

	var p struct {
		Alias string `json:"alias"`
	}
	if !decodeJSON(w, r, &p) {
		return
	}
	alias := strings.TrimSpace(p.Alias)
	if alias == "" {
		http.Error(w, "Alias is required", http.StatusBadRequest)
		return
	}

	row, err := db.CreateAlias(id, alias)
	if err != nil {
		if strings.Contains(err.Error(), "podcast_aliases_alias_key") {
			http.Error(w, "Alias already exists", http.StatusConflict)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusCreated, row)
}

func (h *Handlers) DeletePodcastAlias(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := db.DeleteAlias(id); err != nil {
		log.Printf("Error deleting alias %s: %v", id, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Alias deleted successfully"})
}

func (h *Handlers) GetPodcastFeed(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	podcast, err := db.GetPodcastByID(id)
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "Podcast not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	episodes, err := db.GetPublishedEpisodesByPodcastID(id)
	if err != nil {
		log.Printf("Error getting published episodes: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	rss, err := feed.GenerateRSS(&podcast, episodes, r)
	if err != nil {
		log.Printf("Error generating RSS: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml")
	w.Write([]byte(rss))
}
