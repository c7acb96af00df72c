package handlers

import (
	"log"
	"net/http"
	"strconv"

	"podtrack/pkg/tasks"
)

// TriggerDailyWorkflow enqueues the daily workflow job: stale task cleanup
// plus studio preparation tasks for today's episodes. The worker runs it.
func (h *Handlers) TriggerDailyWorkflow(w http.ResponseWriter, r *http.Request) {
	task, err := tasks.NewDailyWorkflowTask()
	if err != nil {
		log.Printf("Error creating daily workflow task: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	info, err := h.enqueuer.Enqueue(task)
	if err != nil {
		log.Printf("Error enqueuing daily workflow task: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]string{
		"message": "Daily workflow job enqueued",
		"task_id": info.ID,
	})
}

// SyncCalendar enqueues a calendar sync job for the requested lookahead.
func (h *Handlers) SyncCalendar(w http.ResponseWriter, r *http.Request) {
	daysAhead := h.cfg.CalendarLookaheadDays
	if v := r.URL.Query().Get("days_ahead"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "Invalid days_ahead", http.StatusBadRequest)
			return
		}
		daysAhead = n
	}

	task, err := tasks.NewCalendarSyncTask(daysAhead)
	if err != nil {
		log.Printf("Error creating calendar sync task: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	info, err := h.enqueuer.Enqueue(task)
	if err != nil {
		log.Printf("Error enqueuing calendar sync task: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]string{
		"message": "Calendar sync job enqueued",
		"task_id": info.ID,
	})
}
