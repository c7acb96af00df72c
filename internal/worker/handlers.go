package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"podtrack/internal/calendar"
	"podtrack/internal/config"
	"podtrack/internal/workflow"
	"podtrack/pkg/tasks"
)

// TaskHandler consumes the queued workflow jobs.
type TaskHandler struct {
	cfg config.Config
	src calendar.EventSource
}

func NewTaskHandler(cfg config.Config, src calendar.EventSource) *TaskHandler {
	return &TaskHandler{cfg: cfg, src: src}
}

// HandleDailyWorkflowTask runs the daily maintenance pass: stale studio
// preparation cleanup plus today's-episode ingestion and task seeding.
func (h *TaskHandler) HandleDailyWorkflowTask(ctx context.Context, t *asynq.Task) error {
	log.Println("Running daily workflow job")

	count, err := workflow.ProcessDailyWorkflow(ctx, h.src)
	if err != nil {
		return fmt.Errorf("daily workflow failed: %w", err)
	}

	log.Printf("Daily workflow job processed %d episode(s)", count)
	return nil
}

// HandleCalendarSyncTask ingests upcoming calendar events into episodes.
func (h *TaskHandler) HandleCalendarSyncTask(ctx context.Context, t *asynq.Task) error {
	var p tasks.CalendarSyncTaskPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %w", err)
	}

	daysAhead := p.DaysAhead
	if daysAhead <= 0 {
		daysAhead = h.cfg.CalendarLookaheadDays
	}

	count, err := calendar.SyncCalendarToDatabase(ctx, h.src, daysAhead)
	if err != nil {
		return fmt.Errorf("calendar sync failed: %w", err)
	}

	log.Printf("Calendar sync job synced %d episode(s)", count)
	return nil
}
