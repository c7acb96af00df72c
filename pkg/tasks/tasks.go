package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	TypeDailyWorkflow = "workflow:daily"
	TypeCalendarSync  = "calendar:sync"
)

func NewDailyWorkflowTask() (*asynq.Task, error) {
	return asynq.NewTask(TypeDailyWorkflow, nil), nil
}

type CalendarSyncTaskPayload struct {
	DaysAhead int
}

func NewCalendarSyncTask(daysAhead int) (*asynq.Task, error) {
	payload, err := json.Marshal(CalendarSyncTaskPayload{DaysAhead: daysAhead})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeCalendarSync, payload), nil
}
