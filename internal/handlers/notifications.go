package handlers

import (
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"time"

	"podtrack/internal/db"
)

const defaultNotificationDays = 7

type notificationItem struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	DueDate   time.Time `json:"due_date"`
	EpisodeID string    `json:"episode_id,omitempty"`
	TaskID    string    `json:"task_id,omitempty"`
	Priority  string    `json:"priority"`
}

// notificationPriority tiers by days until due: same day or next day is
// urgent, within three days is high, anything further is normal.
func notificationPriority(due, now time.Time) string {
	daysUntil := int(due.Sub(now).Hours() / 24)
	switch {
	case daysUntil <= 1:
		return "urgent"
	case daysUntil <= 3:
		return "high"
	}
	return "normal"
}

// GetNotifications returns the upcoming recording sessions and open due or
// overdue tasks inside the lookahead window, sorted by due date.
func (h *Handlers) GetNotifications(w http.ResponseWriter, r *http.Request) {
	days := defaultNotificationDays
	if v := r.URL.Query().Get("days_ahead"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "Invalid days_ahead", http.StatusBadRequest)
			return
		}
		days = n
	}

	now := time.Now().UTC()
	end := now.AddDate(0, 0, days)
	notifications := []notificationItem{}

	recordings, err := db.GetUpcomingRecordings(now, end)
	if err != nil {
		log.Printf("Error getting upcoming recordings: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	for _, rec := range recordings {
		if rec.RecordingDate == nil {
			continue
		}
		number := "N/A"
		if rec.EpisodeNumber != nil {
			number = *rec.EpisodeNumber
		}
		notifications = append(notifications, notificationItem{
			ID:        "recording_" + rec.ID,
			Type:      "recording_session",
			Title:     "Recording Session: " + rec.PodcastName,
			Message:   fmt.Sprintf("Episode %s scheduled for %s", number, rec.RecordingDate.Format("2006-01-02 15:04")),
			DueDate:   *rec.RecordingDate,
			EpisodeID: rec.ID,
			Priority:  notificationPriority(*rec.RecordingDate, now),
		})
	}

	dueTasks, err := db.GetOpenTasksDueBetween(now, end)
	if err != nil {
		log.Printf("Error getting due tasks: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	for _, task := range dueTasks {
		if task.DueDate == nil {
			continue
		}
		notifications = append(notifications, notificationItem{
			ID:        "task_" + task.ID,
			Type:      "due_task",
			Title:     task.Type.Label() + " Task Due",
			Message:   taskNotificationMessage(task),
			DueDate:   *task.DueDate,
			EpisodeID: task.EpisodeID,
			TaskID:    task.ID,
			Priority:  notificationPriority(*task.DueDate, now),
		})
	}

	overdueTasks, err := db.GetOverdueOpenTasks(now)
	if err != nil {
		log.Printf("Error getting overdue tasks: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	for _, task := range overdueTasks {
		if task.DueDate == nil {
			continue
		}
		notifications = append(notifications, notificationItem{
			ID:        "overdue_task_" + task.ID,
			Type:      "due_task",
			Title:     "OVERDUE: " + task.Type.Label() + " Task",
			Message:   taskNotificationMessage(task),
			DueDate:   *task.DueDate,
			EpisodeID: task.EpisodeID,
			TaskID:    task.ID,
			Priority:  "urgent",
		})
	}

	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].DueDate.Before(notifications[j].DueDate)
	})
	respondJSON(w, http.StatusOK, notifications)
}

func taskNotificationMessage(task db.OpenTask) string {
	number := "N/A"
	if task.TaskEpisodeNumber != nil {
		number = *task.TaskEpisodeNumber
	}
	return fmt.Sprintf("%s for %s - Episode %s", task.Type.Label(), task.PodcastName, number)
}
