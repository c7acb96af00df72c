package db

import (
	"log"
	"time"

	"github.com/google/uuid"
	"podtrack/internal/models"
)

func GetEpisodeByID(id string) (models.Episode, error) {
	episode := models.Episode{}
	err := DB.Get(&episode, "SELECT * FROM episodes WHERE id = $1", id)
	return episode, err
}

func GetAllEpisodes() ([]models.Episode, error) {
	var episodes []models.Episode
	err := DB.Select(&episodes, "SELECT * FROM episodes ORDER BY recording_date DESC NULLS LAST")
	return episodes, err
}

func GetEpisodesByPodcastID(podcastID string) ([]models.Episode, error) {
	var episodes []models.Episode
	err := DB.Select(&episodes, "SELECT * FROM episodes WHERE podcast_id = $1 ORDER BY recording_date DESC NULLS LAST", podcastID)
	return episodes, err
}

func GetPublishedEpisodesByPodcastID(podcastID string) ([]models.Episode, error) {
	var episodes []models.Episode
	err := DB.Select(&episodes,
		"SELECT * FROM episodes WHERE podcast_id = $1 AND status = $2 ORDER BY recording_date DESC NULLS LAST",
		podcastID, models.EpisodePublished)
	return episodes, err
}

// GetEpisodesRecordingBetween returns episodes with a recording date in [start, end).
func GetEpisodesRecordingBetween(start, end time.Time) ([]models.Episode, error) {
	var episodes []models.Episode
	err := DB.Select(&episodes,
		"SELECT * FROM episodes WHERE recording_date >= $1 AND recording_date < $2 ORDER BY recording_date ASC",
		start, end)
	return episodes, err
}

// GetEpisodesByEngineer returns episodes where the user fills any engineer role.
func GetEpisodesByEngineer(userID string) ([]models.Episode, error) {
	var episodes []models.Episode
	err := DB.Select(&episodes, `
		SELECT * FROM episodes
		WHERE recording_engineer_id = $1 OR editing_engineer_id = $1 OR reels_engineer_id = $1
		ORDER BY recording_date DESC NULLS LAST`, userID)
	return episodes, err
}

// FindEpisodeForCalendarDay looks up the episode matched by the calendar
// ingestion identity: same podcast, same episode number, recording date
// within [dayStart, dayEnd).
func FindEpisodeForCalendarDay(podcastID, episodeNumber string, dayStart, dayEnd time.Time) (models.Episode, error) {
	episode := models.Episode{}
	err := DB.Get(&episode, `
		SELECT * FROM episodes
		WHERE podcast_id = $1 AND episode_number = $2
		  AND recording_date >= $3 AND recording_date < $4
		LIMIT 1`, podcastID, episodeNumber, dayStart, dayEnd)
	return episode, err
}

func CreateEpisode(e *models.Episode) (*models.Episode, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Status == "" {
		e.Status = models.EpisodeNotStarted
	}
	if e.ClientApprovedEditing == "" {
		e.ClientApprovedEditing = models.ApprovalPending
	}
	if e.ClientApprovedReels == "" {
		e.ClientApprovedReels = models.ApprovalPending
	}
	query := `
		INSERT INTO episodes (
			id, podcast_id, episode_number, recording_date, studio, guest_names, status,
			episode_notes, drive_link, backup_deletion_date, card_name, memory_card,
			recording_engineer_id, editing_engineer_id, reels_engineer_id,
			reels_notes, studio_settings_override, client_approved_editing, client_approved_reels
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING *
	`
	episode := &models.Episode{}
	err := DB.Get(episode, query,
		e.ID, e.PodcastID, e.EpisodeNumber, e.RecordingDate, e.Studio, e.GuestNames, e.Status,
		e.EpisodeNotes, e.DriveLink, e.BackupDeletionDate, e.CardName, e.MemoryCard,
		e.RecordingEngineerID, e.EditingEngineerID, e.ReelsEngineerID,
		e.ReelsNotes, e.StudioSettingsOverride, e.ClientApprovedEditing, e.ClientApprovedReels)
	if err != nil {
		log.Printf("Error creating episode for podcast %s: %v", e.PodcastID, err)
		return nil, err
	}
	return episode, nil
}

func UpdateEpisode(e *models.Episode) error {
	query := `
		UPDATE episodes SET
			episode_number = $1, recording_date = $2, studio = $3, guest_names = $4, status = $5,
			episode_notes = $6, drive_link = $7, backup_deletion_date = $8, card_name = $9, memory_card = $10,
			recording_engineer_id = $11, editing_engineer_id = $12, reels_engineer_id = $13,
			reels_notes = $14, studio_settings_override = $15,
			client_approved_editing = $16, client_approved_reels = $17, updated_at = NOW()
		WHERE id = $18
	`
	_, err := DB.Exec(query,
		e.EpisodeNumber, e.RecordingDate, e.Studio, e.GuestNames, e.Status,
		e.EpisodeNotes, e.DriveLink, e.BackupDeletionDate, e.CardName, e.MemoryCard,
		e.RecordingEngineerID, e.EditingEngineerID, e.ReelsEngineerID,
		e.ReelsNotes, e.StudioSettingsOverride,
		e.ClientApprovedEditing, e.ClientApprovedReels, e.ID)
	return err
}

func UpdateEpisodeStatus(id string, status models.EpisodeStatus) error {
	_, err := DB.Exec("UPDATE episodes SET status = $1, updated_at = NOW() WHERE id = $2", status, id)
	return err
}

// DeleteEpisode removes the episode; its tasks cascade with it.
func DeleteEpisode(id string) error {
	_, err := DB.Exec("DELETE FROM episodes WHERE id = $1", id)
	return err
}
