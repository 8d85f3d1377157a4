package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/yone-k/yone-discord-bot-sub003/internal/biz/domain"
	"github.com/yone-k/yone-discord-bot-sub003/internal/biz/repo"
)

// DefaultRefreshInterval bounds routine re-renders of a task message.
const DefaultRefreshInterval = time.Hour

// RemindMessageManager maintains the Discord messages representing reminder
// tasks. It tracks when each message was last re-rendered so the scheduler
// can bound write volume; task state is never mutated here.
type RemindMessageManager struct {
	messages        repo.MessageRepo
	logger          *zap.Logger
	refreshInterval time.Duration

	mu            sync.Mutex
	lastRefreshed map[string]time.Time
}

// NewRemindMessageManager creates a message manager over the given transport.
// A refreshInterval of 0 falls back to DefaultRefreshInterval.
func NewRemindMessageManager(messages repo.MessageRepo, refreshInterval time.Duration, logger *zap.Logger) *RemindMessageManager {
	if refreshInterval <= 0 {
		refreshInterval = DefaultRefreshInterval
	}
	return &RemindMessageManager{
		messages:        messages,
		logger:          logger.Named("message_manager"),
		refreshInterval: refreshInterval,
		lastRefreshed:   make(map[string]time.Time),
	}
}

func renderTaskMessage(task *domain.RemindTask, now time.Time) string {
	return fmt.Sprintf("**%s**\n%s", task.Title, domain.FormatSummaryText(task, now))
}

// PostTaskMessage posts a fresh status message for a task.
func (m *RemindMessageManager) PostTaskMessage(ctx context.Context, channelID string, task *domain.RemindTask, now time.Time) (string, error) {
	messageID, err := m.messages.SendMessage(ctx, channelID, renderTaskMessage(task, now))
	if err != nil {
		return "", fmt.Errorf("failed to post task message: %w", err)
	}
	m.recordRefresh(channelID, messageID, now)
	return messageID, nil
}

// UpdateTaskMessage re-renders the task's status message in place.
func (m *RemindMessageManager) UpdateTaskMessage(ctx context.Context, channelID, messageID string, task *domain.RemindTask, now time.Time) error {
	if err := m.messages.EditMessage(ctx, channelID, messageID, renderTaskMessage(task, now)); err != nil {
		return fmt.Errorf("failed to update task message: %w", err)
	}
	m.recordRefresh(channelID, messageID, now)
	return nil
}

// SendReminderToThread posts reminder text into the channel's notice thread.
func (m *RemindMessageManager) SendReminderToThread(ctx context.Context, channelID, threadID, noticeMessageID, text string) error {
	if threadID == "" {
		return domain.ErrChannelNotConfigured
	}
	if err := m.messages.SendToThread(ctx, threadID, text); err != nil {
		return fmt.Errorf("failed to send reminder to thread: %w", err)
	}
	m.logger.Debug("reminder sent",
		zap.String("channel_id", channelID),
		zap.String("thread_id", threadID),
		zap.String("notice_message_id", noticeMessageID))
	return nil
}

// DeleteTaskMessage removes the task's status message.
func (m *RemindMessageManager) DeleteTaskMessage(ctx context.Context, channelID, messageID string) error {
	if err := m.messages.DeleteMessage(ctx, channelID, messageID); err != nil {
		return fmt.Errorf("failed to delete task message: %w", err)
	}
	m.mu.Lock()
	delete(m.lastRefreshed, refreshKey(channelID, messageID))
	m.mu.Unlock()
	return nil
}

// NeedsRefresh reports whether the routine-refresh threshold has elapsed
// since the message was last re-rendered. A message never seen before is
// always due.
func (m *RemindMessageManager) NeedsRefresh(channelID, messageID string, now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	last, ok := m.lastRefreshed[refreshKey(channelID, messageID)]
	if !ok {
		return true
	}
	return now.Sub(last) >= m.refreshInterval
}

func (m *RemindMessageManager) recordRefresh(channelID, messageID string, now time.Time) {
	m.mu.Lock()
	m.lastRefreshed[refreshKey(channelID, messageID)] = now
	m.mu.Unlock()
}

func refreshKey(channelID, messageID string) string {
	return channelID + "/" + messageID
}
