package repo

import (
	"context"

	"github.com/yone-k/yone-discord-bot-sub003/internal/biz/domain"
)

// RemindTaskRepo defines the reminder task storage interface. Tasks are
// keyed by channel id plus task id; updates persist the full task state and
// are idempotent at the storage layer. No multi-task transactional
// guarantees are assumed.
type RemindTaskRepo interface {
	// FetchTasks returns all tasks tracked for a channel. Order is
	// unspecified but stable within a call.
	FetchTasks(ctx context.Context, channelID string) ([]*domain.RemindTask, error)

	// FindTaskByMessageID returns the task rendered by the given message,
	// or domain.ErrTaskNotFound.
	FindTaskByMessageID(ctx context.Context, channelID, messageID string) (*domain.RemindTask, error)

	// CreateTask stores a new task record.
	CreateTask(ctx context.Context, channelID string, task *domain.RemindTask) error

	// UpdateTask persists the full task state.
	UpdateTask(ctx context.Context, channelID string, task *domain.RemindTask) error

	// UpdateTaskMessageID reassigns the message representing a task after
	// the message was recreated.
	UpdateTaskMessageID(ctx context.Context, channelID, taskID, messageID string) error

	// DeleteTask removes the task record.
	DeleteTask(ctx context.Context, channelID, taskID string) error
}
