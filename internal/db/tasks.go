package db

import (
	"log"
	"time"

	"github.com/google/uuid"
	"podtrack/internal/models"
)

func GetTaskByID(id string) (models.Task, error) {
	task := models.Task{}
	err := DB.Get(&task, "SELECT * FROM tasks WHERE id = $1", id)
	return task, err
}

// GetTaskByEpisodeAndType returns the task of the given type for the episode.
// sql.ErrNoRows is returned when none exists.
func GetTaskByEpisodeAndType(episodeID string, taskType models.TaskType) (models.Task, error) {
	task := models.Task{}
	err := DB.Get(&task, "SELECT * FROM tasks WHERE episode_id = $1 AND type = $2 LIMIT 1", episodeID, taskType)
	return task, err
}

// GetIncompleteTaskByEpisodeAndType returns the task of the given type that is
// not yet done, if any.
func GetIncompleteTaskByEpisodeAndType(episodeID string, taskType models.TaskType) (models.Task, error) {
	task := models.Task{}
	err := DB.Get(&task,
		"SELECT * FROM tasks WHERE episode_id = $1 AND type = $2 AND status != $3 LIMIT 1",
		episodeID, taskType, models.TaskDone)
	return task, err
}

func GetTasksByEpisodeID(episodeID string) ([]models.Task, error) {
	var tasks []models.Task
	err := DB.Select(&tasks, "SELECT * FROM tasks WHERE episode_id = $1 ORDER BY due_date ASC NULLS LAST", episodeID)
	return tasks, err
}

// ListTasks returns tasks ordered by due date, excluding studio preparation
// tasks more than 1 day overdue: those are about to be removed by the daily
// cleanup and should not show up for engineers in the meantime.
func ListTasks(assignedTo string, status models.TaskStatus, taskType models.TaskType) ([]models.Task, error) {
	cutoff := time.Now().UTC().Add(-24 * time.Hour)
	query := `
		SELECT * FROM tasks
		WHERE (type != $1 OR due_date IS NULL OR due_date >= $2)
		  AND ($3 = '' OR assigned_to = $3)
		  AND ($4 = '' OR status = $4)
		  AND ($5 = '' OR type = $5)
		ORDER BY due_date ASC NULLS LAST
	`
	var tasks []models.Task
	err := DB.Select(&tasks, query, models.TaskStudioPreparation, cutoff, assignedTo, string(status), string(taskType))
	return tasks, err
}

func CreateTask(t *models.Task) (*models.Task, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = models.TaskNotStarted
	}
	query := `
		INSERT INTO tasks (id, episode_id, type, status, assigned_to, due_date, completed_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING *
	`
	task := &models.Task{}
	err := DB.Get(task, query, t.ID, t.EpisodeID, t.Type, t.Status, t.AssignedTo, t.DueDate, t.CompletedAt, t.Notes)
	if err != nil {
		log.Printf("Error creating %s task for episode %s: %v", t.Type, t.EpisodeID, err)
		return nil, err
	}
	return task, nil
}

func UpdateTask(t *models.Task) error {
	query := `
		UPDATE tasks
		SET status = $1, assigned_to = $2, due_date = $3, completed_at = $4, notes = $5, updated_at = NOW()
		WHERE id = $6
	`
	_, err := DB.Exec(query, t.Status, t.AssignedTo, t.DueDate, t.CompletedAt, t.Notes, t.ID)
	return err
}

// SetTaskStatus updates status and completion timestamp together.
func SetTaskStatus(id string, status models.TaskStatus, completedAt *time.Time) error {
	_, err := DB.Exec(
		"UPDATE tasks SET status = $1, completed_at = $2, updated_at = NOW() WHERE id = $3",
		status, completedAt, id)
	return err
}

func DeleteTask(id string) error {
	_, err := DB.Exec("DELETE FROM tasks WHERE id = $1", id)
	return err
}

// DeleteStaleStudioPreparationTasks removes studio preparation tasks whose due
// date is before the cutoff. Returns the number of rows deleted.
func DeleteStaleStudioPreparationTasks(cutoff time.Time) (int64, error) {
	res, err := DB.Exec(
		"DELETE FROM tasks WHERE type = $1 AND due_date IS NOT NULL AND due_date < $2",
		models.TaskStudioPreparation, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
