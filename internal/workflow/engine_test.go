package workflow

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"podtrack/internal/models"
	"podtrack/internal/test"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func freezeTime(t *testing.T) {
	original := timeNow
	timeNow = func() time.Time { return fixedNow }
	t.Cleanup(func() { timeNow = original })
}

func taskRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "episode_id", "type", "status", "assigned_to", "due_date",
		"completed_at", "notes", "created_at", "updated_at",
	})
}

func episodeRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "podcast_id", "episode_number", "recording_date", "status",
		"client_approved_editing", "client_approved_reels", "created_at", "updated_at",
	})
}

func strPtr(s string) *string { return &s }

func expectNoTaskOfType(mock sqlmock.Sqlmock, episodeID string, taskType models.TaskType) {
	mock.ExpectQuery(`SELECT \* FROM tasks WHERE episode_id = \$1 AND type = \$2 LIMIT 1`).
		WithArgs(episodeID, taskType).
		WillReturnError(sql.ErrNoRows)
}

func TestCreateStudioPreparationTaskNew(t *testing.T) {
	freezeTime(t)
	_, mock := test.NewMockDB(t)

	recording := fixedNow.Add(3 * time.Hour)
	episode := &models.Episode{
		ID:                     "e1",
		PodcastID:              "p1",
		RecordingDate:          &recording,
		StudioSettingsOverride: strPtr("Two mics, camera B"),
	}

	expectNoTaskOfType(mock, "e1", models.TaskStudioPreparation)
	due := recording.Add(-time.Hour)
	mock.ExpectQuery(`INSERT INTO tasks`).
		WithArgs(sqlmock.AnyArg(), "e1", models.TaskStudioPreparation, models.TaskNotStarted,
			nil, due, nil, sqlmock.AnyArg()).
		WillReturnRows(taskRows().
			AddRow("t1", "e1", "studio_preparation", "not_started", nil, due,
				nil, "Studio setup: Two mics, camera B", fixedNow, fixedNow))

	task, err := CreateStudioPreparationTask(episode)
	assert.NoError(t, err)
	assert.NotNil(t, task)
	assert.Equal(t, "t1", task.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateStudioPreparationTaskIdempotent(t *testing.T) {
	freezeTime(t)
	_, mock := test.NewMockDB(t)

	episode := &models.Episode{ID: "e1", PodcastID: "p1"}
	mock.ExpectQuery(`SELECT \* FROM tasks WHERE episode_id = \$1 AND type = \$2 LIMIT 1`).
		WithArgs("e1", models.TaskStudioPreparation).
		WillReturnRows(taskRows().
			AddRow("t1", "e1", "studio_preparation", "in_progress", nil, nil,
				nil, nil, fixedNow, fixedNow))

	task, err := CreateStudioPreparationTask(episode)
	assert.NoError(t, err)
	assert.Equal(t, "t1", task.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateStudioPreparationTaskClampsPastDueDate(t *testing.T) {
	freezeTime(t)
	_, mock := test.NewMockDB(t)

	recording := fixedNow.Add(-2 * time.Hour)
	episode := &models.Episode{
		ID:                     "e1",
		PodcastID:              "p1",
		RecordingDate:          &recording,
		StudioSettingsOverride: strPtr("override"),
	}

	expectNoTaskOfType(mock, "e1", models.TaskStudioPreparation)
	mock.ExpectQuery(`INSERT INTO tasks`).
		WithArgs(sqlmock.AnyArg(), "e1", models.TaskStudioPreparation, models.TaskNotStarted,
			nil, fixedNow, nil, sqlmock.AnyArg()).
		WillReturnRows(taskRows().
			AddRow("t1", "e1", "studio_preparation", "not_started", nil, fixedNow,
				nil, nil, fixedNow, fixedNow))

	_, err := CreateStudioPreparationTask(episode)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateStudioPreparationTaskFallsBackToPodcastSettings(t *testing.T) {
	freezeTime(t)
	_, mock := test.NewMockDB(t)

	episode := &models.Episode{ID: "e1", PodcastID: "p1"}

	expectNoTaskOfType(mock, "e1", models.TaskStudioPreparation)
	mock.ExpectQuery(`SELECT \* FROM podcasts WHERE id = \$1`).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "default_studio_settings", "created_at", "updated_at"}).
			AddRow("p1", "My Show", "Default desk setup", fixedNow, fixedNow))
	mock.ExpectQuery(`INSERT INTO tasks`).
		WithArgs(sqlmock.AnyArg(), "e1", models.TaskStudioPreparation, models.TaskNotStarted,
			nil, nil, nil, "Studio setup: Default desk setup").
		WillReturnRows(taskRows().
			AddRow("t1", "e1", "studio_preparation", "not_started", nil, nil,
				nil, "Studio setup: Default desk setup", fixedNow, fixedNow))

	task, err := CreateStudioPreparationTask(episode)
	assert.NoError(t, err)
	assert.Equal(t, "Studio setup: Default desk setup", *task.Notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateEditingTaskDueDateNotClamped(t *testing.T) {
	freezeTime(t)
	_, mock := test.NewMockDB(t)

	recording := fixedNow.AddDate(0, 0, -5)
	engineer := "u-edit"
	episode := &models.Episode{
		ID:                "e1",
		PodcastID:         "p1",
		RecordingDate:     &recording,
		EditingEngineerID: &engineer,
	}

	expectNoTaskOfType(mock, "e1", models.TaskEditing)
	// Recording five days ago: due date lands three days in the past and stays there.
	due := recording.AddDate(0, 0, 2)
	mock.ExpectQuery(`INSERT INTO tasks`).
		WithArgs(sqlmock.AnyArg(), "e1", models.TaskEditing, models.TaskNotStarted,
			engineer, due, nil, sqlmock.AnyArg()).
		WillReturnRows(taskRows().
			AddRow("t1", "e1", "editing", "not_started", engineer, due,
				nil, nil, fixedNow, fixedNow))

	_, err := CreateEditingTask(episode)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePublishingTaskRequiresBothApprovals(t *testing.T) {
	freezeTime(t)
	_, mock := test.NewMockDB(t)

	episode := &models.Episode{
		ID:                    "e1",
		PodcastID:             "p1",
		ClientApprovedEditing: models.ApprovalApproved,
		ClientApprovedReels:   models.ApprovalPending,
	}

	expectNoTaskOfType(mock, "e1", models.TaskPublishing)

	task, err := CreatePublishingTask(episode)
	assert.NoError(t, err)
	assert.Nil(t, task)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePublishingTaskBothApproved(t *testing.T) {
	freezeTime(t)
	_, mock := test.NewMockDB(t)

	episode := &models.Episode{
		ID:                    "e1",
		PodcastID:             "p1",
		ClientApprovedEditing: models.ApprovalApproved,
		ClientApprovedReels:   models.ApprovalApproved,
	}

	expectNoTaskOfType(mock, "e1", models.TaskPublishing)
	mock.ExpectQuery(`INSERT INTO tasks`).
		WithArgs(sqlmock.AnyArg(), "e1", models.TaskPublishing, models.TaskNotStarted,
			nil, nil, nil, sqlmock.AnyArg()).
		WillReturnRows(taskRows().
			AddRow("t1", "e1", "publishing", "not_started", nil, nil,
				nil, nil, fixedNow, fixedNow))

	task, err := CreatePublishingTask(episode)
	assert.NoError(t, err)
	assert.NotNil(t, task)
	assert.Nil(t, task.DueDate)
	assert.Nil(t, task.AssignedTo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncApprovalTaskApprovedMarksDone(t *testing.T) {
	freezeTime(t)
	_, mock := test.NewMockDB(t)

	episode := &models.Episode{ID: "e1"}
	mock.ExpectQuery(`SELECT \* FROM tasks WHERE episode_id = \$1 AND type = \$2 LIMIT 1`).
		WithArgs("e1", models.TaskEditing).
		WillReturnRows(taskRows().
			AddRow("t1", "e1", "editing", "sent_to_client", nil, nil,
				nil, nil, fixedNow, fixedNow))
	mock.ExpectExec(`UPDATE tasks SET status = \$1, completed_at = \$2`).
		WithArgs(models.TaskDone, fixedNow, "t1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := syncApprovalTask(episode, models.TaskEditing, models.ApprovalApproved)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncApprovalTaskApprovedAlreadyDoneNoOp(t *testing.T) {
	freezeTime(t)
	_, mock := test.NewMockDB(t)

	episode := &models.Episode{ID: "e1"}
	mock.ExpectQuery(`SELECT \* FROM tasks WHERE episode_id = \$1 AND type = \$2 LIMIT 1`).
		WithArgs("e1", models.TaskEditing).
		WillReturnRows(taskRows().
			AddRow("t1", "e1", "editing", "done", nil, nil,
				fixedNow, nil, fixedNow, fixedNow))

	err := syncApprovalTask(episode, models.TaskEditing, models.ApprovalApproved)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncApprovalTaskRejectedReopensDoneTask(t *testing.T) {
	freezeTime(t)
	_, mock := test.NewMockDB(t)

	episode := &models.Episode{ID: "e1"}
	mock.ExpectQuery(`SELECT \* FROM tasks WHERE episode_id = \$1 AND type = \$2 LIMIT 1`).
		WithArgs("e1", models.TaskReels).
		WillReturnRows(taskRows().
			AddRow("t1", "e1", "reels", "done", nil, nil,
				fixedNow, nil, fixedNow, fixedNow))
	mock.ExpectExec(`UPDATE tasks SET status = \$1, completed_at = \$2`).
		WithArgs(models.TaskInProgress, nil, "t1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := syncApprovalTask(episode, models.TaskReels, models.ApprovalRejected)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncApprovalTaskRejectedLeavesInProgressAlone(t *testing.T) {
	freezeTime(t)
	_, mock := test.NewMockDB(t)

	episode := &models.Episode{ID: "e1"}
	mock.ExpectQuery(`SELECT \* FROM tasks WHERE episode_id = \$1 AND type = \$2 LIMIT 1`).
		WithArgs("e1", models.TaskReels).
		WillReturnRows(taskRows().
			AddRow("t1", "e1", "reels", "in_progress", nil, nil,
				nil, nil, fixedNow, fixedNow))

	err := syncApprovalTask(episode, models.TaskReels, models.ApprovalRejected)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncApprovalTaskMissingTaskIsNoOp(t *testing.T) {
	freezeTime(t)
	_, mock := test.NewMockDB(t)

	episode := &models.Episode{ID: "e1"}
	expectNoTaskOfType(mock, "e1", models.TaskEditing)

	err := syncApprovalTask(episode, models.TaskEditing, models.ApprovalApproved)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteStaleStudioPreparationTasks(t *testing.T) {
	freezeTime(t)
	_, mock := test.NewMockDB(t)

	cutoff := fixedNow.Add(-24 * time.Hour)
	mock.ExpectExec(`DELETE FROM tasks WHERE type = \$1 AND due_date IS NOT NULL AND due_date < \$2`).
		WithArgs(models.TaskStudioPreparation, cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	deleted, err := DeleteStaleStudioPreparationTasks()
	assert.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessTaskStatusChangeIgnoresNonDoneTransitions(t *testing.T) {
	freezeTime(t)
	test.NewMockDB(t)

	task := &models.Task{ID: "t1", EpisodeID: "e1", Type: models.TaskRecording, Status: models.TaskInProgress}
	assert.NoError(t, ProcessTaskStatusChange(task, models.TaskNotStarted))

	// Already done before the update: the cascade must not re-fire.
	task.Status = models.TaskDone
	assert.NoError(t, ProcessTaskStatusChange(task, models.TaskDone))
}

func TestProcessTaskStatusChangeStudioPrepDoneCreatesRecordingTask(t *testing.T) {
	freezeTime(t)
	_, mock := test.NewMockDB(t)

	recording := fixedNow.Add(2 * time.Hour)
	mock.ExpectQuery(`SELECT \* FROM episodes WHERE id = \$1`).
		WithArgs("e1").
		WillReturnRows(episodeRows().
			AddRow("e1", "p1", "33", recording, "not_started", "pending", "pending", fixedNow, fixedNow))
	expectNoTaskOfType(mock, "e1", models.TaskRecording)
	mock.ExpectQuery(`INSERT INTO tasks`).
		WithArgs(sqlmock.AnyArg(), "e1", models.TaskRecording, models.TaskNotStarted,
			nil, recording, nil, sqlmock.AnyArg()).
		WillReturnRows(taskRows().
			AddRow("t2", "e1", "recording", "not_started", nil, recording,
				nil, nil, fixedNow, fixedNow))

	task := &models.Task{ID: "t1", EpisodeID: "e1", Type: models.TaskStudioPreparation, Status: models.TaskDone}
	err := ProcessTaskStatusChange(task, models.TaskInProgress)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessTaskStatusChangeRecordingDoneCascades(t *testing.T) {
	freezeTime(t)
	_, mock := test.NewMockDB(t)

	recording := fixedNow.Add(-time.Hour)

	// Load the episode for the finished recording task.
	mock.ExpectQuery(`SELECT \* FROM episodes WHERE id = \$1`).
		WithArgs("e1").
		WillReturnRows(episodeRows().
			AddRow("e1", "p1", "33", recording, "not_started", "pending", "pending", fixedNow, fixedNow))
	// The episode flips to recorded.
	mock.ExpectExec(`UPDATE episodes SET status = \$1`).
		WithArgs(models.EpisodeRecorded, "e1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Outstanding studio preparation is auto-completed.
	mock.ExpectQuery(`SELECT \* FROM tasks WHERE episode_id = \$1 AND type = \$2 AND status != \$3 LIMIT 1`).
		WithArgs("e1", models.TaskStudioPreparation, models.TaskDone).
		WillReturnRows(taskRows().
			AddRow("t0", "e1", "studio_preparation", "in_progress", nil, nil,
				nil, nil, fixedNow, fixedNow))
	mock.ExpectExec(`UPDATE tasks SET status = \$1, completed_at = \$2`).
		WithArgs(models.TaskDone, fixedNow, "t0").
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Editing and reels tasks are created.
	expectNoTaskOfType(mock, "e1", models.TaskEditing)
	mock.ExpectQuery(`INSERT INTO tasks`).
		WillReturnRows(taskRows().
			AddRow("t2", "e1", "editing", "not_started", nil, recording.AddDate(0, 0, 2),
				nil, nil, fixedNow, fixedNow))
	expectNoTaskOfType(mock, "e1", models.TaskReels)
	mock.ExpectQuery(`INSERT INTO tasks`).
		WillReturnRows(taskRows().
			AddRow("t3", "e1", "reels", "not_started", nil, recording.AddDate(0, 0, 2),
				nil, nil, fixedNow, fixedNow))
	// Approval sync sees both tasks but approvals are pending, so no writes.
	mock.ExpectQuery(`SELECT \* FROM tasks WHERE episode_id = \$1 AND type = \$2 LIMIT 1`).
		WithArgs("e1", models.TaskEditing).
		WillReturnRows(taskRows().
			AddRow("t2", "e1", "editing", "not_started", nil, nil, nil, nil, fixedNow, fixedNow))
	mock.ExpectQuery(`SELECT \* FROM tasks WHERE episode_id = \$1 AND type = \$2 LIMIT 1`).
		WithArgs("e1", models.TaskReels).
		WillReturnRows(taskRows().
			AddRow("t3", "e1", "reels", "not_started", nil, nil, nil, nil, fixedNow, fixedNow))
	// Publishing stays gated on the pending approvals.
	expectNoTaskOfType(mock, "e1", models.TaskPublishing)

	task := &models.Task{ID: "t1", EpisodeID: "e1", Type: models.TaskRecording, Status: models.TaskDone}
	err := ProcessTaskStatusChange(task, models.TaskInProgress)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessEpisodeStatusChangeApprovedCreatesPublishing(t *testing.T) {
	freezeTime(t)
	_, mock := test.NewMockDB(t)

	episode := &models.Episode{
		ID:                    "e1",
		PodcastID:             "p1",
		Status:                models.EpisodeSentToClient,
		ClientApprovedEditing: models.ApprovalApproved,
		ClientApprovedReels:   models.ApprovalApproved,
	}

	// Both approvals mark their tasks done, then the publishing task appears.
	mock.ExpectQuery(`SELECT \* FROM tasks WHERE episode_id = \$1 AND type = \$2 LIMIT 1`).
		WithArgs("e1", models.TaskEditing).
		WillReturnRows(taskRows().
			AddRow("t2", "e1", "editing", "sent_to_client", nil, nil, nil, nil, fixedNow, fixedNow))
	mock.ExpectExec(`UPDATE tasks SET status = \$1, completed_at = \$2`).
		WithArgs(models.TaskDone, fixedNow, "t2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM tasks WHERE episode_id = \$1 AND type = \$2 LIMIT 1`).
		WithArgs("e1", models.TaskReels).
		WillReturnRows(taskRows().
			AddRow("t3", "e1", "reels", "sent_to_client", nil, nil, nil, nil, fixedNow, fixedNow))
	mock.ExpectExec(`UPDATE tasks SET status = \$1, completed_at = \$2`).
		WithArgs(models.TaskDone, fixedNow, "t3").
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectNoTaskOfType(mock, "e1", models.TaskPublishing)
	mock.ExpectQuery(`INSERT INTO tasks`).
		WillReturnRows(taskRows().
			AddRow("t4", "e1", "publishing", "not_started", nil, nil, nil, nil, fixedNow, fixedNow))

	err := ProcessEpisodeStatusChange(episode, models.EpisodeSentToClient)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessDailyWorkflowNilSource(t *testing.T) {
	freezeTime(t)
	_, mock := test.NewMockDB(t)

	mock.ExpectExec(`DELETE FROM tasks WHERE type = \$1 AND due_date IS NOT NULL AND due_date < \$2`).
		WithArgs(models.TaskStudioPreparation, fixedNow.Add(-24*time.Hour)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT \* FROM episodes WHERE recording_date >= \$1 AND recording_date < \$2`).
		WillReturnRows(episodeRows().
			AddRow("e1", "p1", "33", fixedNow.Add(2*time.Hour), "not_started", "pending", "pending", fixedNow, fixedNow))
	// Studio preparation gets seeded for today's episode.
	expectNoTaskOfType(mock, "e1", models.TaskStudioPreparation)
	mock.ExpectQuery(`SELECT \* FROM podcasts WHERE id = \$1`).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}).
			AddRow("p1", "My Show", fixedNow, fixedNow))
	mock.ExpectQuery(`INSERT INTO tasks`).
		WillReturnRows(taskRows().
			AddRow("t1", "e1", "studio_preparation", "not_started", nil, fixedNow.Add(time.Hour),
				nil, nil, fixedNow, fixedNow))

	count, err := ProcessDailyWorkflow(context.Background(), nil)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
