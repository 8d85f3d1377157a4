package repo

import (
	"context"
	"time"

	"github.com/yone-k/yone-discord-bot-sub003/internal/biz/domain"
)

// MetadataRepo defines the per-channel reminder configuration storage
// interface.
type MetadataRepo interface {
	// GetMetadata returns the channel's metadata, or
	// domain.ErrChannelNotConfigured when the channel is unknown.
	GetMetadata(ctx context.Context, channelID string) (*domain.ChannelMetadata, error)

	// ListChannels returns metadata for every tracked channel.
	ListChannels(ctx context.Context) ([]*domain.ChannelMetadata, error)

	// SaveMetadata upserts the channel's metadata.
	SaveMetadata(ctx context.Context, meta *domain.ChannelMetadata) error

	// TouchSyncTime records the last sync timestamp for a channel.
	TouchSyncTime(ctx context.Context, channelID string, syncedAt time.Time) error

	// DeleteMetadata removes a channel's configuration.
	DeleteMetadata(ctx context.Context, channelID string) error
}
