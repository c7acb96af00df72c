package db

import "log"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		email TEXT,
		role TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS podcasts (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		host TEXT,
		default_studio_settings TEXT,
		tasks_time_allowance_days TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS podcast_aliases (
		id TEXT PRIMARY KEY,
		podcast_id TEXT NOT NULL REFERENCES podcasts(id) ON DELETE CASCADE,
		alias TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS episodes (
		id TEXT PRIMARY KEY,
		podcast_id TEXT NOT NULL REFERENCES podcasts(id) ON DELETE CASCADE,
		episode_number TEXT,
		recording_date TIMESTAMPTZ,
		studio TEXT,
		guest_names TEXT,
		status TEXT NOT NULL DEFAULT 'not_started',
		episode_notes TEXT,
		drive_link TEXT,
		backup_deletion_date TIMESTAMPTZ,
		card_name TEXT,
		memory_card TEXT,
		recording_engineer_id TEXT REFERENCES users(id) ON DELETE SET NULL,
		editing_engineer_id TEXT REFERENCES users(id) ON DELETE SET NULL,
		reels_engineer_id TEXT REFERENCES users(id) ON DELETE SET NULL,
		reels_notes TEXT,
		studio_settings_override TEXT,
		client_approved_editing TEXT NOT NULL DEFAULT 'pending',
		client_approved_reels TEXT NOT NULL DEFAULT 'pending',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		episode_id TEXT NOT NULL REFERENCES episodes(id) ON DELETE CASCADE,
		type TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'not_started',
		assigned_to TEXT REFERENCES users(id) ON DELETE SET NULL,
		due_date TIMESTAMPTZ,
		completed_at TIMESTAMPTZ,
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_episodes_podcast_id ON episodes(podcast_id)`,
	`CREATE INDEX IF NOT EXISTS idx_episodes_recording_date ON episodes(recording_date)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_episode_id ON tasks(episode_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_due_date ON tasks(due_date)`,
	`CREATE INDEX IF NOT EXISTS idx_podcast_aliases_podcast_id ON podcast_aliases(podcast_id)`,
}

// Migrate applies the schema statements. All statements are idempotent so
// running this on every startup is safe.
func Migrate() error {
	for _, stmt := range schema {
		if _, err := DB.Exec(stmt); err != nil {
			log.Printf("Migration statement failed: %v", err)
			return err
		}
	}
	return nil
}
