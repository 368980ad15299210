package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/cognivest/cognivest/internal/model"
)

// TaskRepo persists ingestion task lifecycle records. Both the
// submission path and the polling path read through here, so state is
// visible across processes.
type TaskRepo struct {
	db *sqlx.DB
}

func NewTaskRepo(db *sqlx.DB) *TaskRepo {
	return &TaskRepo{db: db}
}

func (r *TaskRepo) Create(ctx context.Context, id, message string) error {
	const query = `
		INSERT INTO tasks (id, status, message, ctime, mtime)
		VALUES ($1, $2, $3, $4, $4)
	`
	now := time.Now().UnixMilli()
	_, err := r.db.ExecContext(ctx, query, id, model.TaskStatusPending, message, now)
	return err
}

// Update overwrites status and message for the id, creating the row if
// it does not exist yet. Last write wins; transition monotonicity is the
// caller's responsibility.
func (r *TaskRepo) Update(ctx context.Context, id string, status model.TaskStatus, message string) error {
	const query = `
		INSERT INTO tasks (id, status, message, ctime, mtime)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			message = EXCLUDED.message,
			mtime = EXCLUDED.mtime
	`
	now := time.Now().UnixMilli()
	_, err := r.db.ExecContext(ctx, query, id, status, message, now)
	return err
}

// Get returns nil without error when the id has never been recorded.
func (r *TaskRepo) Get(ctx context.Context, id string) (*model.Task, error) {
	const query = `
		SELECT id, status, message, ctime, mtime
		FROM tasks
		WHERE id = $1
	`
	var task model.Task
	if err := r.db.GetContext(ctx, &task, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

// DeleteTerminalBefore removes finished tasks last touched before the
// cutoff, returning how many rows went away.
func (r *TaskRepo) DeleteTerminalBefore(ctx context.Context, cutoff int64) (int64, error) {
	const query = `
		DELETE FROM tasks
		WHERE mtime < $1 AND status IN ($2, $3)
	`
	res, err := r.db.ExecContext(ctx, query, cutoff, model.TaskStatusSuccess, model.TaskStatusFailure)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
