package domain

import "time"

// ChannelMetadata holds per-channel reminder configuration. A channel with
// no notice thread does not participate in scheduling.
type ChannelMetadata struct {
	ChannelID             string    `json:"channel_id"`
	ListTitle             string    `json:"list_title"`
	RemindNoticeThreadID  string    `json:"remind_notice_thread_id"`
	RemindNoticeMessageID string    `json:"remind_notice_message_id"`
	LastSyncedAt          time.Time `json:"last_synced_at"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// HasNoticeThread reports whether reminders can be delivered for the channel.
func (m *ChannelMetadata) HasNoticeThread() bool {
	return m.RemindNoticeThreadID != ""
}
