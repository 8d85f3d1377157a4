package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/yone-k/yone-discord-bot-sub003/internal/biz/domain"
	"github.com/yone-k/yone-discord-bot-sub003/internal/biz/repo"
)

// metadataRepo implements the channel metadata repository over SQLite
type metadataRepo struct {
	db *sql.DB
}

// NewMetadataRepo creates a channel metadata repository backed by db.
func NewMetadataRepo(db *sql.DB) repo.MetadataRepo {
	return &metadataRepo{db: db}
}

const metadataColumns = `channel_id, list_title, remind_notice_thread_id, remind_notice_message_id,
	last_synced_at, created_at, updated_at`

func (r *metadataRepo) GetMetadata(ctx context.Context, channelID string) (*domain.ChannelMetadata, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+metadataColumns+`
		FROM channel_metadata WHERE channel_id = ?
	`, channelID)

	meta, err := scanMetadata(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrChannelNotConfigured
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata: %w", err)
	}
	return meta, nil
}

func (r *metadataRepo) ListChannels(ctx context.Context) ([]*domain.ChannelMetadata, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+metadataColumns+`
		FROM channel_metadata
		ORDER BY channel_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	defer rows.Close()

	var metas []*domain.ChannelMetadata
	for rows.Next() {
		meta, err := scanMetadata(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}
		metas = append(metas, meta)
	}
	return metas, rows.Err()
}

func (r *metadataRepo) SaveMetadata(ctx context.Context, meta *domain.ChannelMetadata) error {
	now := time.Now().Unix()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO channel_metadata (`+metadataColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(channel_id) DO UPDATE SET
			list_title = excluded.list_title,
			remind_notice_thread_id = excluded.remind_notice_thread_id,
			remind_notice_message_id = excluded.remind_notice_message_id,
			last_synced_at = excluded.last_synced_at,
			updated_at = excluded.updated_at
	`, meta.ChannelID, meta.ListTitle, meta.RemindNoticeThreadID, meta.RemindNoticeMessageID,
		unixOrNull(meta.LastSyncedAt), now, now)
	if err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}
	return nil
}

func (r *metadataRepo) TouchSyncTime(ctx context.Context, channelID string, syncedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE channel_metadata SET last_synced_at = ?, updated_at = ? WHERE channel_id = ?
	`, syncedAt.Unix(), time.Now().Unix(), channelID)
	if err != nil {
		return fmt.Errorf("failed to touch sync time: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrChannelNotConfigured
	}
	return nil
}

func (r *metadataRepo) DeleteMetadata(ctx context.Context, channelID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM channel_metadata WHERE channel_id = ?`, channelID)
	if err != nil {
		return fmt.Errorf("failed to delete metadata: %w", err)
	}
	return nil
}

func scanMetadata(row rowScanner) (*domain.ChannelMetadata, error) {
	var meta domain.ChannelMetadata
	var lastSyncedAt sql.NullInt64
	var createdAt, updatedAt int64

	err := row.Scan(&meta.ChannelID, &meta.ListTitle, &meta.RemindNoticeThreadID,
		&meta.RemindNoticeMessageID, &lastSyncedAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	meta.LastSyncedAt = timeFromNull(lastSyncedAt)
	meta.CreatedAt = time.Unix(createdAt, 0).In(domain.JST)
	meta.UpdatedAt = time.Unix(updatedAt, 0).In(domain.JST)
	return &meta, nil
}
