package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/yone-k/yone-discord-bot-sub003/internal/biz/domain"
	"github.com/yone-k/yone-discord-bot-sub003/internal/biz/repo"
)

// remindTaskRepo implements the reminder task repository over SQLite
type remindTaskRepo struct {
	db *sql.DB
}

// NewRemindTaskRepo creates a reminder task repository backed by db.
func NewRemindTaskRepo(db *sql.DB) repo.RemindTaskRepo {
	return &remindTaskRepo{db: db}
}

const remindTaskColumns = `id, channel_id, message_id, title, description, interval_days, time_of_day,
	remind_before_minutes, inventory_items, start_at, last_done_at, next_due_at,
	overdue_notify_count, overdue_notify_limit, last_overdue_notified_at, last_pre_reminded_at,
	created_at, updated_at`

func (r *remindTaskRepo) FetchTasks(ctx context.Context, channelID string) ([]*domain.RemindTask, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+remindTaskColumns+`
		FROM remind_tasks WHERE channel_id = ?
		ORDER BY created_at ASC
	`, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}
	defer rows.Close()

	return scanRemindTasks(rows)
}

func (r *remindTaskRepo) FindTaskByMessageID(ctx context.Context, channelID, messageID string) (*domain.RemindTask, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+remindTaskColumns+`
		FROM remind_tasks WHERE channel_id = ? AND message_id = ?
	`, channelID, messageID)

	task, err := scanRemindTask(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find task by message: %w", err)
	}
	return task, nil
}

func (r *remindTaskRepo) CreateTask(ctx context.Context, channelID string, task *domain.RemindTask) error {
	inventory, err := json.Marshal(task.InventoryItems)
	if err != nil {
		return fmt.Errorf("failed to encode inventory: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO remind_tasks (`+remindTaskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, task.ID, channelID, task.MessageID, task.Title, task.Description,
		task.IntervalDays, task.TimeOfDay, task.RemindBeforeMinutes, string(inventory),
		task.StartAt.Unix(), unixOrNull(task.LastDoneAt), task.NextDueAt.Unix(),
		task.OverdueNotifyCount, task.OverdueNotifyLimit,
		unixOrNull(task.LastOverdueNotifiedAt), unixOrNull(task.LastPreRemindedAt),
		task.CreatedAt.Unix(), task.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// UpdateTask persists the full task state. The upsert keeps the call
// idempotent: repeating it with the same content is a no-op.
func (r *remindTaskRepo) UpdateTask(ctx context.Context, channelID string, task *domain.RemindTask) error {
	inventory, err := json.Marshal(task.InventoryItems)
	if err != nil {
		return fmt.Errorf("failed to encode inventory: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO remind_tasks (`+remindTaskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			message_id = excluded.message_id,
			title = excluded.title,
			description = excluded.description,
			interval_days = excluded.interval_days,
			time_of_day = excluded.time_of_day,
			remind_before_minutes = excluded.remind_before_minutes,
			inventory_items = excluded.inventory_items,
			start_at = excluded.start_at,
			last_done_at = excluded.last_done_at,
			next_due_at = excluded.next_due_at,
			overdue_notify_count = excluded.overdue_notify_count,
			overdue_notify_limit = excluded.overdue_notify_limit,
			last_overdue_notified_at = excluded.last_overdue_notified_at,
			last_pre_reminded_at = excluded.last_pre_reminded_at,
			updated_at = excluded.updated_at
	`, task.ID, channelID, task.MessageID, task.Title, task.Description,
		task.IntervalDays, task.TimeOfDay, task.RemindBeforeMinutes, string(inventory),
		task.StartAt.Unix(), unixOrNull(task.LastDoneAt), task.NextDueAt.Unix(),
		task.OverdueNotifyCount, task.OverdueNotifyLimit,
		unixOrNull(task.LastOverdueNotifiedAt), unixOrNull(task.LastPreRemindedAt),
		task.CreatedAt.Unix(), task.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return nil
}

func (r *remindTaskRepo) UpdateTaskMessageID(ctx context.Context, channelID, taskID, messageID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE remind_tasks SET message_id = ?, updated_at = ?
		WHERE channel_id = ? AND id = ?
	`, messageID, time.Now().Unix(), channelID, taskID)
	if err != nil {
		return fmt.Errorf("failed to update task message id: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *remindTaskRepo) DeleteTask(ctx context.Context, channelID, taskID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM remind_tasks WHERE channel_id = ? AND id = ?
	`, channelID, taskID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRemindTask(row rowScanner) (*domain.RemindTask, error) {
	var task domain.RemindTask
	var channelID, inventory string
	var startAt, nextDueAt, createdAt, updatedAt int64
	var lastDoneAt, lastOverdueAt, lastPreRemindedAt sql.NullInt64

	err := row.Scan(&task.ID, &channelID, &task.MessageID, &task.Title, &task.Description,
		&task.IntervalDays, &task.TimeOfDay, &task.RemindBeforeMinutes, &inventory,
		&startAt, &lastDoneAt, &nextDueAt,
		&task.OverdueNotifyCount, &task.OverdueNotifyLimit,
		&lastOverdueAt, &lastPreRemindedAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(inventory), &task.InventoryItems); err != nil {
		return nil, fmt.Errorf("failed to decode inventory: %w", err)
	}
	task.StartAt = time.Unix(startAt, 0).In(domain.JST)
	task.NextDueAt = time.Unix(nextDueAt, 0).In(domain.JST)
	task.CreatedAt = time.Unix(createdAt, 0).In(domain.JST)
	task.UpdatedAt = time.Unix(updatedAt, 0).In(domain.JST)
	task.LastDoneAt = timeFromNull(lastDoneAt)
	task.LastOverdueNotifiedAt = timeFromNull(lastOverdueAt)
	task.LastPreRemindedAt = timeFromNull(lastPreRemindedAt)
	return &task, nil
}

func scanRemindTasks(rows *sql.Rows) ([]*domain.RemindTask, error) {
	var tasks []*domain.RemindTask
	for rows.Next() {
		task, err := scanRemindTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func unixOrNull(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.Unix()
}

func timeFromNull(n sql.NullInt64) time.Time {
	if !n.Valid {
		return time.Time{}
	}
	return time.Unix(n.Int64, 0).In(domain.JST)
}
