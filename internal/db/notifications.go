package db

import (
	"time"

	"podtrack/internal/models"
)

// UpcomingRecording is an episode joined with its podcast name for the
// notifications view.
type UpcomingRecording struct {
	models.Episode
	PodcastName string `db:"podcast_name"`
}

// OpenTask is a task joined with its episode number and podcast name for the
// notifications view. Open means not done and not skipped.
type OpenTask struct {
	models.Task
	TaskEpisodeNumber *string `db:"task_episode_number"`
	PodcastName       string  `db:"podcast_name"`
}

// GetUpcomingRecordings returns episodes recording in [start, end) with their
// podcast names, ordered by recording date.
func GetUpcomingRecordings(start, end time.Time) ([]UpcomingRecording, error) {
	var recordings []UpcomingRecording
	err := DB.Select(&recordings, `
		SELECT e.*, p.name AS podcast_name
		FROM episodes e
		JOIN podcasts p ON p.id = e.podcast_id
		WHERE e.recording_date >= $1 AND e.recording_date < $2
		ORDER BY e.recording_date ASC`, start, end)
	return recordings, err
}

// GetOpenTasksDueBetween returns open tasks due in [start, end), ordered by
// due date.
func GetOpenTasksDueBetween(start, end time.Time) ([]OpenTask, error) {
	var tasks []OpenTask
	err := DB.Select(&tasks, `
		SELECT t.*, e.episode_number AS task_episode_number, p.name AS podcast_name
		FROM tasks t
		JOIN episodes e ON e.id = t.episode_id
		JOIN podcasts p ON p.id = e.podcast_id
		WHERE t.due_date >= $1 AND t.due_date < $2
		  AND t.status != $3 AND t.status != $4
		ORDER BY t.due_date ASC`, start, end, models.TaskDone, models.TaskSkipped)
	return tasks, err
}

// GetOverdueOpenTasks returns open tasks whose due date passed before asOf,
// ordered by due date.
func GetOverdueOpenTasks(asOf time.Time) ([]OpenTask, error) {
	var tasks []OpenTask
	err := DB.Select(&tasks, `
		SELECT t.*, e.episode_number AS task_episode_number, p.name AS podcast_name
		FROM tasks t
		JOIN episodes e ON e.id = t.episode_id
		JOIN podcasts p ON p.id = e.podcast_id
		WHERE t.due_date IS NOT NULL AND t.due_date < $1
		  AND t.status != $2 AND t.status != $3
		ORDER BY t.due_date ASC`, asOf, models.TaskDone, models.TaskSkipped)
	return tasks, err
}
