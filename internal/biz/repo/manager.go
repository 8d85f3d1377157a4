package repo

import (
	"context"
	"time"

	"github.com/yone-k/yone-discord-bot-sub003/internal/biz/domain"
)

// MessageManager renders and maintains the Discord messages that represent
// reminder tasks, and posts reminder texts into a channel's notice thread.
// It never mutates task state; persistence and rendering are independent,
// best-effort-consistent operations.
type MessageManager interface {
	// PostTaskMessage posts a fresh status message for a task and returns
	// the new message id.
	PostTaskMessage(ctx context.Context, channelID string, task *domain.RemindTask, now time.Time) (string, error)

	// UpdateTaskMessage re-renders the task's status message.
	UpdateTaskMessage(ctx context.Context, channelID, messageID string, task *domain.RemindTask, now time.Time) error

	// SendReminderToThread posts reminder text into the notice thread.
	SendReminderToThread(ctx context.Context, channelID, threadID, noticeMessageID, text string) error

	// DeleteTaskMessage removes the task's status message.
	DeleteTaskMessage(ctx context.Context, channelID, messageID string) error

	// NeedsRefresh reports whether the routine-refresh threshold has
	// elapsed since the message was last re-rendered.
	NeedsRefresh(channelID, messageID string, now time.Time) bool
}
