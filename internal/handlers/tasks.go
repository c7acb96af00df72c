package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"podtrack/internal/db"
	"podtrack/internal/models"
	"podtrack/internal/workflow"
)

type taskPayload struct {
	EpisodeID  *string    `json:"episode_id"`
	Type       *string    `json:"type"`
	Status     *string    `json:"status"`
	AssignedTo *string    `json:"assigned_to"`
	DueDate    *time.Time `json:"due_date"`
	Notes      *string    `json:"notes"`
}

func (h *Handlers) GetTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if episodeID := q.Get("episode_id"); episodeID != "" {
		tasks, err := db.GetTasksByEpisodeID(episodeID)
		if err != nil {
			log.Printf("Error getting tasks for episode %s: %v", episodeID, err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusOK, tasks)
		return
	}

	status := models.TaskStatus(q.Get("status"))
	if status != "" && !status.Valid() {
		http.Error(w, "Invalid status", http.StatusBadRequest)
		return
	}
	taskType := models.TaskType(q.Get("type"))
	if taskType != "" && !taskType.Valid() {
		http.Error(w, "Invalid type", http.StatusBadRequest)
		return
	}

	tasks, err := db.ListTasks(q.Get("assigned_to"), status, taskType)
	if err != nil {
		log.Printf("Error listing tasks: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, tasks)
}

func (h *Handlers) GetTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	task, err := db.GetTaskByID(id)
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

func (h *Handlers) PostTask(w http.ResponseWriter, r *http.Request) {
	var p taskPayload
	if !decodeJSON(w, r, &p) {
		return
	}
	if p.EpisodeID == nil || *p.EpisodeID == "" {
		http.Error(w, "episode_id is required", http.StatusBadRequest)
		return
	}
	if p.Type == nil || !models.TaskType(*p.Type).Valid() {
		http.Error(w, "Invalid task type", http.StatusBadRequest)
		return
	}
	if _, err := db.GetEpisodeByID(*p.EpisodeID); errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "Episode with id "+*p.EpisodeID+" not found", http.StatusBadRequest)
		return
	}
	if p.AssignedTo != nil && *p.AssignedTo != "" {
		if _, err := db.GetUserByID(*p.AssignedTo); errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "User with id "+*p.AssignedTo+" not found", http.StatusBadRequest)
			return
		}
	}

	task := &models.Task{
		EpisodeID:  *p.EpisodeID,
		Type:       models.TaskType(*p.Type),
		AssignedTo: p.AssignedTo,
		DueDate:    p.DueDate,
		Notes:      p.Notes,
	}
	if p.Status != nil {
		status := models.TaskStatus(*p.Status)
		if !status.Valid() {
			http.Error(w, "Invalid status", http.StatusBadRequest)
			return
		}
		task.Status = status
	}

	created, err := db.CreateTask(task)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *Handlers) PutTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	task, err := db.GetTaskByID(id)
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var p taskPayload
	if !decodeJSON(w, r, &p) {
		return
	}

	oldStatus := task.Status

	if p.Status != nil {
		status := models.TaskStatus(*p.Status)
		if !status.Valid() {
			http.Error(w, "Invalid status", http.StatusBadRequest)
			return
		}
		task.Status = status
	}
	if p.AssignedTo != nil {
		task.AssignedTo = p.AssignedTo
	}
	if p.DueDate != nil {
		task.DueDate = p.DueDate
	}
	if p.Notes != nil {
		task.Notes = p.Notes
	}

	// Completion timestamp follows the done status exactly.
	if task.Status == models.TaskDone && oldStatus != models.TaskDone {
		now := time.Now().UTC()
		task.CompletedAt = &now
	} else if task.Status != models.TaskDone && oldStatus == models.TaskDone {
		task.CompletedAt = nil
	}

	if err := db.UpdateTask(&task); err != nil {
		log.Printf("Error updating task %s: %v", id, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// A fresh transition to done flows forward: studio preparation creates
	// the recording task; recording marks the episode recorded.
	if err := workflow.ProcessTaskStatusChange(&task, oldStatus); err != nil {
		log.Printf("Error in workflow automation for task %s: %v", id, err)
	}

	respondJSON(w, http.StatusOK, task)
}

func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := db.GetTaskByID(id); errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}
	if err := db.DeleteTask(id); err != nil {
		log.Printf("Error deleting task %s: %v", id, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully"})
}
