package models

import "time"

// Task is one unit of production work attached to an episode.
// At most one task of a given type exists per episode.
type Task struct {
	ID          string     `db:"id"`
	EpisodeID   string     `db:"episode_id"`
	Type        TaskType   `db:"type"`
	Status      TaskStatus `db:"status"`
	AssignedTo  *string    `db:"assigned_to"`
	DueDate     *time.Time `db:"due_date"`
	CompletedAt *time.Time `db:"completed_at"`
	Notes       *string    `db:"notes"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}
