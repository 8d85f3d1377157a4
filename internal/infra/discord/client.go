package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/yone-k/yone-discord-bot-sub003/internal/biz/repo"
)

// Client wraps a discordgo session and implements the transport interface
// the reminder core depends on.
type Client struct {
	session *discordgo.Session
	logger  *zap.Logger
}

// NewClient creates a Discord client for the given bot token.
func NewClient(token string, logger *zap.Logger) (*Client, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	return &Client{
		session: session,
		logger:  logger.Named("discord"),
	}, nil
}

// OnInteraction registers a callback for interaction events (buttons,
// select menus, modal submissions).
func (c *Client) OnInteraction(handler func(i *discordgo.InteractionCreate)) {
	c.session.AddHandler(func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		handler(i)
	})
}

// Start opens the gateway connection.
func (c *Client) Start() error {
	if err := c.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	c.logger.Info("gateway connected")
	return nil
}

// Stop closes the gateway connection.
func (c *Client) Stop() {
	if err := c.session.Close(); err != nil {
		c.logger.Warn("failed to close discord session", zap.Error(err))
	}
}

// SendMessage posts a new message and returns its id.
func (c *Client) SendMessage(ctx context.Context, channelID, text string) (string, error) {
	msg, err := c.session.ChannelMessageSend(channelID, text, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}
	return msg.ID, nil
}

// EditMessage replaces a message's content.
func (c *Client) EditMessage(ctx context.Context, channelID, messageID, text string) error {
	if _, err := c.session.ChannelMessageEdit(channelID, messageID, text, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to edit message: %w", err)
	}
	return nil
}

// DeleteMessage removes a message.
func (c *Client) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	if err := c.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// SendToThread posts a message into a thread. Threads are channels on the
// Discord API, so this reuses the channel send endpoint.
func (c *Client) SendToThread(ctx context.Context, threadID, text string) error {
	if _, err := c.session.ChannelMessageSend(threadID, text, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send to thread: %w", err)
	}
	return nil
}

// ResolveSendableChannel fetches the channel once and checks that it is a
// kind that accepts outgoing messages.
func (c *Client) ResolveSendableChannel(ctx context.Context, channelID string) (*repo.SendableChannel, error) {
	ch, err := c.session.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve channel: %w", err)
	}

	switch ch.Type {
	case discordgo.ChannelTypeGuildText,
		discordgo.ChannelTypeGuildNews,
		discordgo.ChannelTypeGuildPublicThread,
		discordgo.ChannelTypeGuildPrivateThread,
		discordgo.ChannelTypeGuildNewsThread,
		discordgo.ChannelTypeDM:
		return &repo.SendableChannel{ID: ch.ID, Name: ch.Name}, nil
	default:
		return nil, fmt.Errorf("channel %s does not accept messages (type %d)", channelID, ch.Type)
	}
}

// RespondEphemeral replies to an interaction with a message visible only to
// the triggering user.
func (c *Client) RespondEphemeral(i *discordgo.Interaction, text string) error {
	err := c.session.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: text,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to respond to interaction: %w", err)
	}
	return nil
}
