package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"podtrack/internal/db"
	"podtrack/internal/models"
	"podtrack/internal/workflow"
)

const defaultUpcomingDays = 7

type episodePayload struct {
	PodcastID              *string    `json:"podcast_id"`
	EpisodeNumber          *string    `json:"episode_number"`
	RecordingDate          *time.Time `json:"recording_date"`
	Studio                 *string    `json:"studio"`
	GuestNames             *string    `json:"guest_names"`
	Status                 *string    `json:"status"`
	EpisodeNotes           *string    `json:"episode_notes"`
	DriveLink              *string    `json:"drive_link"`
	BackupDeletionDate     *time.Time `json:"backup_deletion_date"`
	CardName               *string    `json:"card_name"`
	MemoryCard             *string    `json:"memory_card"`
	RecordingEngineerID    *string    `json:"recording_engineer_id"`
	EditingEngineerID      *string    `json:"editing_engineer_id"`
	ReelsEngineerID        *string    `json:"reels_engineer_id"`
	ReelsNotes             *string    `json:"reels_notes"`
	StudioSettingsOverride *string    `json:"studio_settings_override"`
	ClientApprovedEditing  *string    `json:"client_approved_editing"`
	ClientApprovedReels    *string    `json:"client_approved_reels"`
}

func (h *Handlers) GetEpisodes(w http.ResponseWriter, r *http.Request) {
	var (
		episodes []models.Episode
		err      error
	)
	if podcastID := r.URL.Query().Get("podcast_id"); podcastID != "" {
		episodes, err = db.GetEpisodesByPodcastID(podcastID)
	} else {
		episodes, err = db.GetAllEpisodes()
	}
	if err != nil {
		log.Printf("Error getting episodes: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, episodes)
}

func (h *Handlers) GetUpcomingRecordings(w http.ResponseWriter, r *http.Request) {
	days := defaultUpcomingDays
	if v := r.URL.Query().Get("days_ahead"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "Invalid days_ahead", http.StatusBadRequest)
			return
		}
		days = n
	}

	now := time.Now().UTC()
	episodes, err := db.GetEpisodesRecordingBetween(now, now.AddDate(0, 0, days))
	if err != nil {
		log.Printf("Error getting upcoming recordings: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, episodes)
}

func (h *Handlers) GetEpisode(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	episode, err := db.GetEpisodeByID(id)
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "Episode not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, episode)
}

func (h *Handlers) PostEpisode(w http.ResponseWriter, r *http.Request) {
	var p episodePayload
	if !decodeJSON(w, r, &p) {
		return
	}
	if p.PodcastID == nil || *p.PodcastID == "" {
		http.Error(w, "podcast_id is required", http.StatusBadRequest)
		return
	}
	if _, err := db.GetPodcastByID(*p.PodcastID); errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "Podcast with id "+*p.PodcastID+" not found", http.StatusBadRequest)
		return
	}

	episode := &models.Episode{
		PodcastID:              *p.PodcastID,
		EpisodeNumber:          p.EpisodeNumber,
		RecordingDate:          p.RecordingDate,
		Studio:                 p.Studio,
		GuestNames:             p.GuestNames,
		EpisodeNotes:           p.EpisodeNotes,
		DriveLink:              p.DriveLink,
		BackupDeletionDate:     p.BackupDeletionDate,
		CardName:               p.CardName,
		MemoryCard:             p.MemoryCard,
		RecordingEngineerID:    p.RecordingEngineerID,
		EditingEngineerID:      p.EditingEngineerID,
		ReelsEngineerID:        p.ReelsEngineerID,
		ReelsNotes:             p.ReelsNotes,
		StudioSettingsOverride: p.StudioSettingsOverride,
	}
	if p.Status != nil {
		status := models.EpisodeStatus(*p.Status)
		if !status.Valid() {
			http.Error(w, "Invalid status", http.StatusBadRequest)
			return
		}
		episode.Status = status
	}
	if !applyApprovals(w, episode, p.ClientApprovedEditing, p.ClientApprovedReels) {
		return
	}

	created, err := db.CreateEpisode(episode)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *Handlers) PutEpisode(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	episode, err := db.GetEpisodeByID(id)
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "Episode not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var p episodePayload
	if !decodeJSON(w, r, &p) {
		return
	}

	oldStatus := episode.Status
	approvalsChanged := p.ClientApprovedEditing != nil || p.ClientApprovedReels != nil

	if p.EpisodeNumber != nil {
		episode.EpisodeNumber = p.EpisodeNumber
	}
	if p.RecordingDate != nil {
		episode.RecordingDate = p.RecordingDate
	}
	if p.Studio != nil {
		episode.Studio = p.Studio
	}
	if p.GuestNames != nil {
		episode.GuestNames = p.GuestNames
	}
	if p.Status != nil {
		status := models.EpisodeStatus(*p.Status)
		if !status.Valid() {
			http.Error(w, "Invalid status", http.StatusBadRequest)
			return
		}
		episode.Status = status
	}
	if p.EpisodeNotes != nil {
		episode.EpisodeNotes = p.EpisodeNotes
	}
	if p.DriveLink != nil {
		episode.DriveLink = p.DriveLink
	}
	if p.BackupDeletionDate != nil {
		episode.BackupDeletionDate = p.BackupDeletionDate
	}
	if p.CardName != nil {
		episode.CardName = p.CardName
	}
	if p.MemoryCard != nil {
		episode.MemoryCard = p.MemoryCard
	}
	if p.RecordingEngineerID != nil {
		episode.RecordingEngineerID = p.RecordingEngineerID
	}
	if p.EditingEngineerID != nil {
		episode.EditingEngineerID = p.EditingEngineerID
	}
	if p.ReelsEngineerID != nil {
		episode.ReelsEngineerID = p.ReelsEngineerID
	}
	if p.ReelsNotes != nil {
		episode.ReelsNotes = p.ReelsNotes
	}
	if p.StudioSettingsOverride != nil {
		episode.StudioSettingsOverride = p.StudioSettingsOverride
	}
	if !applyApprovals(w, &episode, p.ClientApprovedEditing, p.ClientApprovedReels) {
		return
	}

	if err := db.UpdateEpisode(&episode); err != nil {
		log.Printf("Error updating episode %s: %v", id, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// Workflow automation fires when status or a client approval changed.
	// Automation failures are logged, not surfaced: the update itself stands.
	if oldStatus != episode.Status || approvalsChanged {
		if err := workflow.ProcessEpisodeStatusChange(&episode, oldStatus); err != nil {
			log.Printf("Error in workflow automation for episode %s: %v", id, err)
		}
	}

	respondJSON(w, http.StatusOK, episode)
}

func (h *Handlers) DeleteEpisode(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := db.GetEpisodeByID(id); errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "Episode not found", http.StatusNotFound)
		return
	}
	if err := db.DeleteEpisode(id); err != nil {
		log.Printf("Error deleting episode %s: %v", id, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Episode deleted successfully"})
}

func applyApprovals(w http.ResponseWriter, episode *models.Episode, editing, reels *string) bool {
	if editing != nil {
		approval := models.Approval(*editing)
		if !approval.Valid() {
			http.Error(w, "Invalid client_approved_editing", http.StatusBadRequest)
			return false
		}
		episode.ClientApprovedEditing = approval
	}
	if reels != nil {
		approval := models.Approval(*reels)
		if !approval.Valid() {
			http.Error(w, "Invalid client_approved_reels", http.StatusBadRequest)
			return false
		}
		episode.ClientApprovedReels = approval
	}
	return true
}
