package server

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/yone-k/yone-discord-bot-sub003/internal/biz/domain"
)

// InteractionKind distinguishes the interaction event types the bot reacts to.
type InteractionKind int

const (
	KindButton InteractionKind = iota
	KindModalSubmit
	KindSelect
)

// Responder replies to the user who triggered an interaction.
type Responder interface {
	// ReplyEphemeral sends a reply visible only to the triggering user.
	ReplyEphemeral(text string) error
}

// InteractionContext carries one interaction event through dispatch.
type InteractionContext struct {
	Context   context.Context
	Kind      InteractionKind
	CustomID  string
	ChannelID string
	MessageID string // message the pressed component sits on, if any
	UserID    string
	Values    map[string]string // modal field / select values keyed by custom id
	Now       time.Time
	Responder Responder
}

// Handler handles one family of interactions, selected by custom-id prefix.
type Handler interface {
	ShouldHandle(ic *InteractionContext) bool
	Execute(ic *InteractionContext) error
}

// Registry dispatches interaction events to the first handler that claims
// them. Handlers are plain values; there is no inheritance hierarchy.
type Registry struct {
	handlers []Handler
	logger   *zap.Logger
}

// NewRegistry creates an empty handler registry
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{logger: logger.Named("interactions")}
}

// Register appends a handler. Registration order decides claim priority.
func (r *Registry) Register(h Handler) {
	r.handlers = append(r.handlers, h)
}

// Dispatch routes one interaction. Validation, format and not-found errors
// are surfaced to the user as ephemeral reply text; anything else is logged
// and answered generically. Handlers never retry.
func (r *Registry) Dispatch(ic *InteractionContext) {
	for _, h := range r.handlers {
		if !h.ShouldHandle(ic) {
			continue
		}
		if err := h.Execute(ic); err != nil {
			r.replyError(ic, err)
		}
		return
	}
	r.logger.Warn("no handler for interaction", zap.String("custom_id", ic.CustomID))
}

func (r *Registry) replyError(ic *InteractionContext, err error) {
	var valErr *domain.ValidationError
	var fmtErr *domain.FormatError

	var text string
	switch {
	case errors.As(err, &valErr):
		text = "入力が正しくありません: " + valErr.Message
	case errors.As(err, &fmtErr):
		text = "時間の形式が正しくありません。HH:MM または 日:HH:MM で入力してください。"
	case errors.Is(err, domain.ErrTaskNotFound):
		text = "対象のリマインドが見つかりません。"
	case errors.Is(err, domain.ErrChannelNotConfigured):
		text = "このチャンネルにはリマインドが設定されていません。"
	default:
		r.logger.Error("interaction handler failed",
			zap.String("custom_id", ic.CustomID),
			zap.String("channel_id", ic.ChannelID),
			zap.Error(err))
		text = "処理に失敗しました。しばらくしてからもう一度お試しください。"
	}

	if replyErr := ic.Responder.ReplyEphemeral(text); replyErr != nil {
		r.logger.Warn("error reply failed", zap.Error(replyErr))
	}
}
