package models

import "time"

// Episode represents one recording session of a podcast.
type Episode struct {
	ID                     string        `db:"id"`
	PodcastID              string        `db:"podcast_id"`
	EpisodeNumber          *string       `db:"episode_number"`
	RecordingDate          *time.Time    `db:"recording_date"`
	Studio                 *string       `db:"studio"`
	GuestNames             *string       `db:"guest_names"`
	Status                 EpisodeStatus `db:"status"`
	EpisodeNotes           *string       `db:"episode_notes"`
	DriveLink              *string       `db:"drive_link"`
	BackupDeletionDate     *time.Time    `db:"backup_deletion_date"`
	CardName               *string       `db:"card_name"`
	MemoryCard             *string       `db:"memory_card"`
	RecordingEngineerID    *string       `db:"recording_engineer_id"`
	EditingEngineerID      *string       `db:"editing_engineer_id"`
	ReelsEngineerID        *string       `db:"reels_engineer_id"`
	ReelsNotes             *string       `db:"reels_notes"`
	StudioSettingsOverride *string       `db:"studio_settings_override"`
	ClientApprovedEditing  Approval      `db:"client_approved_editing"`
	ClientApprovedReels    Approval      `db:"client_approved_reels"`
	CreatedAt              time.Time     `db:"created_at"`
	UpdatedAt              time.Time     `db:"updated_at"`
}

// NumberOrEmpty returns the episode number or "" when unset.
func (e *Episode) NumberOrEmpty() string {
	if e.EpisodeNumber == nil {
		return ""
	}
	return *e.EpisodeNumber
}
