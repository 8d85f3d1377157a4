package repo

import "context"

// SendableChannel is a channel resolved at the transport boundary that is
// known to accept outgoing messages. Other channel kinds (categories, voice)
// never resolve to one.
type SendableChannel struct {
	ID   string
	Name string
}

// MessageRepo is the chat transport interface. Implemented by the Discord
// adapter; failures map to transport errors and never mutate task state.
type MessageRepo interface {
	// SendMessage posts a new message to a channel and returns its id.
	SendMessage(ctx context.Context, channelID, text string) (string, error)

	// EditMessage replaces the content of an existing message.
	EditMessage(ctx context.Context, channelID, messageID, text string) error

	// DeleteMessage removes a message.
	DeleteMessage(ctx context.Context, channelID, messageID string) error

	// SendToThread posts a message into a thread.
	SendToThread(ctx context.Context, threadID, text string) error

	// ResolveSendableChannel checks once at the boundary that the channel
	// accepts messages.
	ResolveSendableChannel(ctx context.Context, channelID string) (*SendableChannel, error)
}
