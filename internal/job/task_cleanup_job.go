package job

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/cognivest/cognivest/internal/repo"
)

// TaskCleanupJob garbage-collects finished ingestion tasks. The pipeline
// itself never deletes task records, so unbounded growth is reined in
// here instead.
type TaskCleanupJob struct {
	tasks    *repo.TaskRepo
	keepDays int
}

func NewTaskCleanupJob(tasks *repo.TaskRepo, keepDays int) *TaskCleanupJob {
	if keepDays <= 0 {
		keepDays = 7
	}
	return &TaskCleanupJob{tasks: tasks, keepDays: keepDays}
}

func (j *TaskCleanupJob) Name() string {
	return "task_cleanup"
}

func (j *TaskCleanupJob) Run(ctx context.Context) error {
	cutoff := time.Now().AddDate(0, 0, -j.keepDays).UnixMilli()
	deleted, err := j.tasks.DeleteTerminalBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if deleted > 0 {
		logutil.GetLogger(ctx).Info("cleaned up finished tasks", zap.Int64("deleted", deleted))
	}
	return nil
}
