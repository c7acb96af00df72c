package models

import "time"

// Podcast represents a show tracked by the system.
type Podcast struct {
	ID                     string    `db:"id"`
	Name                   string    `db:"name"`
	Host                   *string   `db:"host"`
	DefaultStudioSettings  *string   `db:"default_studio_settings"`
	TasksTimeAllowanceDays *string   `db:"tasks_time_allowance_days"`
	CreatedAt              time.Time `db:"created_at"`
	UpdatedAt              time.Time `db:"updated_at"`
}

// PodcastAlias is an alternative name that resolves to a podcast,
// e.g. a calendar event naming variant. Alias values are globally unique.
type PodcastAlias struct {
	ID        string `db:"id"`
	PodcastID string `db:"podcast_id"`
	Alias     string `db:"alias"`
}
