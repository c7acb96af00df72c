package models

// EpisodeStatus tracks where an episode is in the production pipeline.
type EpisodeStatus string

const (
	EpisodeNotStarted   EpisodeStatus = "not_started"
	EpisodeRecorded     EpisodeStatus = "recorded"
	EpisodeInEditing    EpisodeStatus = "in_editing"
	EpisodeSentToClient EpisodeStatus = "sent_to_client"
	EpisodePublished    EpisodeStatus = "published"
)

// Valid reports whether s is a known episode status.
func (s EpisodeStatus) Valid() bool {
	switch s {
	case EpisodeNotStarted, EpisodeRecorded, EpisodeInEditing, EpisodeSentToClient, EpisodePublished:
		return true
	}
	return false
}

// TaskType identifies the kind of production work a task represents.
type TaskType string

const (
	TaskStudioPreparation TaskType = "studio_preparation"
	TaskRecording         TaskType = "recording"
	TaskEditing           TaskType = "editing"
	TaskReels             TaskType = "reels"
	TaskPublishing        TaskType = "publishing"
)

// Valid reports whether t is a known task type.
func (t TaskType) Valid() bool {
	switch t {
	case TaskStudioPreparation, TaskRecording, TaskEditing, TaskReels, TaskPublishing:
		return true
	}
	return false
}

// Label returns the display name of the task type.
func (t TaskType) Label() string {
	switch t {
	case TaskStudioPreparation:
		return "Studio Preparation"
	case TaskRecording:
		return "Recording"
	case TaskEditing:
		return "Editing"
	case TaskReels:
		return "Reels"
	case TaskPublishing:
		return "Publishing"
	}
	return string(t)
}

// TaskStatus tracks the progress of a single task.
type TaskStatus string

const (
	TaskNotStarted   TaskStatus = "not_started"
	TaskInProgress   TaskStatus = "in_progress"
	TaskBlocked      TaskStatus = "blocked"
	TaskSentToClient TaskStatus = "sent_to_client"
	TaskDone         TaskStatus = "done"
	TaskSkipped      TaskStatus = "skipped"
)

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskNotStarted, TaskInProgress, TaskBlocked, TaskSentToClient, TaskDone, TaskSkipped:
		return true
	}
	return false
}

// Approval is the tri-state client sign-off gate, tracked independently
// for the editing and reels deliverables.
type Approval string

const (
	ApprovalPending  Approval = "pending"
	ApprovalApproved Approval = "approved"
	ApprovalRejected Approval = "rejected"
)

// Valid reports whether a is a known approval value.
func (a Approval) Valid() bool {
	switch a {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}
