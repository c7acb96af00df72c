package workflow

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"podtrack/internal/calendar"
	"podtrack/internal/db"
	"podtrack/internal/models"
)

// timeNow is swapped out in tests so due-date clamping and completion
// timestamps are deterministic.
var timeNow = time.Now

func taskNotesWithEpisode(base string, episode *models.Episode) string {
	if episode.EpisodeNotes != nil && strings.TrimSpace(*episode.EpisodeNotes) != "" {
		return base + "\n\nEpisode notes: " + strings.TrimSpace(*episode.EpisodeNotes)
	}
	return base
}

// existingTask returns the episode's task of the given type, or nil when none
// exists. Every creation function checks this first so repeated invocation
// never duplicates a task.
func existingTask(episodeID string, taskType models.TaskType) (*models.Task, error) {
	task, err := db.GetTaskByEpisodeAndType(episodeID, taskType)
	if err == nil {
		return &task, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return nil, err
}

// clampToNow moves a due date that already passed forward to now; a task due
// in the past is meaningless.
func clampToNow(due time.Time) time.Time {
	now := timeNow().UTC()
	if due.Before(now) {
		return now
	}
	return due
}

// CreateStudioPreparationTask creates the studio preparation task for an
// episode if it doesn't exist, due one hour before the recording.
func CreateStudioPreparationTask(episode *models.Episode) (*models.Task, error) {
	if task, err := existingTask(episode.ID, models.TaskStudioPreparation); task != nil || err != nil {
		return task, err
	}

	// Episode-level override wins over the podcast default.
	var studioSettings *string
	if !isBlank(episode.StudioSettingsOverride) {
		studioSettings = episode.StudioSettingsOverride
	} else if podcast, err := db.GetPodcastByID(episode.PodcastID); err == nil {
		studioSettings = podcast.DefaultStudioSettings
	}

	var dueDate *time.Time
	if episode.RecordingDate != nil {
		due := clampToNow(episode.RecordingDate.Add(-time.Hour))
		dueDate = &due
	}

	baseNotes := "Prepare studio for recording"
	if !isBlank(studioSettings) {
		baseNotes = "Studio setup: " + *studioSettings
	}
	notes := taskNotesWithEpisode(baseNotes, episode)

	task, err := db.CreateTask(&models.Task{
		EpisodeID:  episode.ID,
		Type:       models.TaskStudioPreparation,
		Status:     models.TaskNotStarted,
		AssignedTo: episode.RecordingEngineerID,
		DueDate:    dueDate,
		Notes:      &notes,
	})
	if err != nil {
		return nil, err
	}
	log.Printf("Created studio preparation task %s for episode %s", task.ID, episode.ID)
	return task, nil
}

// CreateRecordingTask creates the recording task for an episode if it doesn't
// exist, e.g. after studio preparation is done.
func CreateRecordingTask(episode *models.Episode) (*models.Task, error) {
	if task, err := existingTask(episode.ID, models.TaskRecording); task != nil || err != nil {
		return task, err
	}

	var dueDate *time.Time
	if episode.RecordingDate != nil {
		due := clampToNow(*episode.RecordingDate)
		dueDate = &due
	}

	notes := taskNotesWithEpisode("Record the episode", episode)
	task, err := db.CreateTask(&models.Task{
		EpisodeID:  episode.ID,
		Type:       models.TaskRecording,
		Status:     models.TaskNotStarted,
		AssignedTo: episode.RecordingEngineerID,
		DueDate:    dueDate,
		Notes:      &notes,
	})
	if err != nil {
		return nil, err
	}
	log.Printf("Created recording task %s for episode %s", task.ID, episode.ID)
	return task, nil
}

// CreateEditingTask creates the editing task for an episode if it doesn't
// exist, due two days after recording. The due date is not clamped: a date in
// the past keeps backlog work visible.
func CreateEditingTask(episode *models.Episode) (*models.Task, error) {
	if task, err := existingTask(episode.ID, models.TaskEditing); task != nil || err != nil {
		return task, err
	}

	var dueDate *time.Time
	if episode.RecordingDate != nil {
		due := episode.RecordingDate.AddDate(0, 0, 2)
		dueDate = &due
	}

	notes := taskNotesWithEpisode("Edit episode. Update to 'Sent to client' when sent; complete when client approves.", episode)
	task, err := db.CreateTask(&models.Task{
		EpisodeID:  episode.ID,
		Type:       models.TaskEditing,
		Status:     models.TaskNotStarted,
		AssignedTo: episode.EditingEngineerID,
		DueDate:    dueDate,
		Notes:      &notes,
	})
	if err != nil {
		return nil, err
	}
	log.Printf("Created editing task %s for episode %s", task.ID, episode.ID)
	return task, nil
}

// CreateReelsTask creates the reels task for an episode if it doesn't exist,
// due two days after recording.
func CreateReelsTask(episode *models.Episode) (*models.Task, error) {
	if task, err := existingTask(episode.ID, models.TaskReels); task != nil || err != nil {
		return task, err
	}

	var dueDate *time.Time
	if episode.RecordingDate != nil {
		due := episode.RecordingDate.AddDate(0, 0, 2)
		dueDate = &due
	}

	baseNotes := "Export reels from episode. Update to 'Sent to client' when sent; complete when client approves."
	if !isBlank(episode.ReelsNotes) {
		baseNotes = *episode.ReelsNotes
	}
	notes := taskNotesWithEpisode(baseNotes, episode)

	task, err := db.CreateTask(&models.Task{
		EpisodeID:  episode.ID,
		Type:       models.TaskReels,
		Status:     models.TaskNotStarted,
		AssignedTo: episode.ReelsEngineerID,
		DueDate:    dueDate,
		Notes:      &notes,
	})
	if err != nil {
		return nil, err
	}
	log.Printf("Created reels task %s for episode %s", task.ID, episode.ID)
	return task, nil
}

// CreatePublishingTask creates the publishing task once both client approvals
// are in. It returns nil without creating anything while either approval is
// outstanding. No assignee and no due date: a person picks it up later.
func CreatePublishingTask(episode *models.Episode) (*models.Task, error) {
	if task, err := existingTask(episode.ID, models.TaskPublishing); task != nil || err != nil {
		return task, err
	}

	if episode.ClientApprovedEditing != models.ApprovalApproved || episode.ClientApprovedReels != models.ApprovalApproved {
		return nil, nil
	}

	notes := taskNotesWithEpisode("Publish episode. Both editing and reels have been approved by client.", episode)
	task, err := db.CreateTask(&models.Task{
		EpisodeID: episode.ID,
		Type:      models.TaskPublishing,
		Status:    models.TaskNotStarted,
		Notes:     &notes,
	})
	if err != nil {
		return nil, err
	}
	log.Printf("Created publishing task %s for episode %s", task.ID, episode.ID)
	return task, nil
}

// autoCompleteStudioPreparation marks any outstanding studio preparation task
// done when the episode has been recorded.
func autoCompleteStudioPreparation(episode *models.Episode) error {
	task, err := db.GetIncompleteTaskByEpisodeAndType(episode.ID, models.TaskStudioPreparation)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}

	now := timeNow().UTC()
	if err := db.SetTaskStatus(task.ID, models.TaskDone, &now); err != nil {
		return err
	}
	log.Printf("Auto-completed studio preparation task %s for episode %s", task.ID, episode.ID)
	return nil
}

// syncApprovalTask aligns the editing or reels task with its client approval
// field. Approval marks the task done; rejection reopens work that was done
// or already sent to the client. A pending approval forces nothing, and a
// task that was never created stays untouched.
func syncApprovalTask(episode *models.Episode, taskType models.TaskType, approval models.Approval) error {
	task, err := db.GetTaskByEpisodeAndType(episode.ID, taskType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}

	switch approval {
	case models.ApprovalApproved:
		if task.Status != models.TaskDone {
			now := timeNow().UTC()
			if err := db.SetTaskStatus(task.ID, models.TaskDone, &now); err != nil {
				return err
			}
			log.Printf("Marked %s task %s as done (client approved)", taskType, task.ID)
		}
	case models.ApprovalRejected:
		if task.Status == models.TaskDone || task.Status == models.TaskSentToClient {
			if err := db.SetTaskStatus(task.ID, models.TaskInProgress, nil); err != nil {
				return err
			}
			log.Printf("Reset %s task %s to in_progress (client rejected)", taskType, task.ID)
		}
	}
	return nil
}

// DeleteStaleStudioPreparationTasks removes studio preparation tasks more
// than one day overdue. The prep window has closed; the task is noise.
func DeleteStaleStudioPreparationTasks() (int64, error) {
	cutoff := timeNow().UTC().Add(-24 * time.Hour)
	deleted, err := db.DeleteStaleStudioPreparationTasks(cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		log.Printf("Deleted %d stale studio preparation task(s) (> 1 day overdue)", deleted)
	}
	return deleted, nil
}

// ProcessEpisodeStatusChange applies workflow effects after an episode's
// status or approval fields changed. When the episode is now recorded, the
// studio preparation task is closed and editing/reels tasks are created.
// Approval sync and publishing-task gating run on every invocation.
func ProcessEpisodeStatusChange(episode *models.Episode, oldStatus models.EpisodeStatus) error {
	log.Printf("Processing status change for episode %s: %s -> %s", episode.ID, oldStatus, episode.Status)

	if episode.Status == models.EpisodeRecorded {
		if err := autoCompleteStudioPreparation(episode); err != nil {
			return err
		}
		if _, err := CreateEditingTask(episode); err != nil {
			return err
		}
		if _, err := CreateReelsTask(episode); err != nil {
			return err
		}
	}

	if err := syncApprovalTask(episode, models.TaskEditing, episode.ClientApprovedEditing); err != nil {
		return err
	}
	if err := syncApprovalTask(episode, models.TaskReels, episode.ClientApprovedReels); err != nil {
		return err
	}
	_, err := CreatePublishingTask(episode)
	return err
}

// ProcessTaskStatusChange applies workflow effects after a task update. It
// fires only on a fresh transition to done. Finishing studio preparation
// creates the recording task; finishing recording marks the episode recorded
// and applies the episode transition, a statically bounded two-step chain.
func ProcessTaskStatusChange(task *models.Task, oldStatus models.TaskStatus) error {
	if oldStatus == models.TaskDone || task.Status != models.TaskDone {
		return nil
	}

	episode, err := db.GetEpisodeByID(task.EpisodeID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}

	switch task.Type {
	case models.TaskStudioPreparation:
		if _, err := CreateRecordingTask(&episode); err != nil {
			return err
		}
		log.Printf("Studio preparation task %s done -> created recording task for episode %s", task.ID, episode.ID)
	case models.TaskRecording:
		oldEpisodeStatus := episode.Status
		if err := db.UpdateEpisodeStatus(episode.ID, models.EpisodeRecorded); err != nil {
			return err
		}
		episode.Status = models.EpisodeRecorded
		if err := ProcessEpisodeStatusChange(&episode, oldEpisodeStatus); err != nil {
			return err
		}
		log.Printf("Recording task %s done -> episode %s marked recorded", task.ID, episode.ID)
	}
	return nil
}

// ProcessDailyWorkflow runs the daily maintenance pass: drop stale studio
// preparation tasks, then ensure every episode recording today has its studio
// preparation task. Calendar trouble degrades to the database view inside
// GetTodaysEpisodes; a failure in the steps themselves propagates, since
// continuing in an inconsistent state is worse than reporting failure.
func ProcessDailyWorkflow(ctx context.Context, src calendar.EventSource) (int, error) {
	log.Println("Starting daily workflow processing")

	if _, err := DeleteStaleStudioPreparationTasks(); err != nil {
		return 0, fmt.Errorf("stale task cleanup: %w", err)
	}

	episodes, err := calendar.GetTodaysEpisodes(ctx, src)
	if err != nil {
		return 0, fmt.Errorf("today's episodes: %w", err)
	}
	log.Printf("Found %d episodes scheduled for today", len(episodes))

	for i := range episodes {
		if _, err := CreateStudioPreparationTask(&episodes[i]); err != nil {
			return 0, fmt.Errorf("studio preparation task for episode %s: %w", episodes[i].ID, err)
		}
	}

	log.Println("Daily workflow processing completed")
	return len(episodes), nil
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
