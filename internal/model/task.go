package model

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusProcessing TaskStatus = "PROCESSING"
	TaskStatusSuccess    TaskStatus = "SUCCESS"
	TaskStatusFailure    TaskStatus = "FAILURE"
	TaskStatusUnknown    TaskStatus = "UNKNOWN"
)

// Terminal reports whether the status can no longer change.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusSuccess || s == TaskStatusFailure
}

type Task struct {
	ID      string     `db:"id" json:"id"`
	Status  TaskStatus `db:"status" json:"status"`
	Message string     `db:"message" json:"message"`
	Ctime   int64      `db:"ctime" json:"ctime"`
	Mtime   int64      `db:"mtime" json:"mtime"`
}
