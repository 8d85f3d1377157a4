package server

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/yone-k/yone-discord-bot-sub003/internal/biz/domain"
	"github.com/yone-k/yone-discord-bot-sub003/internal/infra/discord"
	"github.com/yone-k/yone-discord-bot-sub003/internal/service"
)

// DiscordServer connects the Discord gateway to the interaction registry
// and owns the scheduler lifecycle.
type DiscordServer struct {
	client    *discord.Client
	registry  *Registry
	scheduler *service.RemindScheduler
	logger    *zap.Logger
}

// NewDiscordServer creates a new Discord server
func NewDiscordServer(
	client *discord.Client,
	registry *Registry,
	scheduler *service.RemindScheduler,
	logger *zap.Logger,
) *DiscordServer {
	return &DiscordServer{
		client:    client,
		registry:  registry,
		scheduler: scheduler,
		logger:    logger.Named("server"),
	}
}

// Start opens the gateway connection and starts the scheduler.
func (s *DiscordServer) Start() error {
	s.client.OnInteraction(s.handleInteraction)
	if err := s.client.Start(); err != nil {
		return err
	}
	s.scheduler.Start()
	return nil
}

// Stop stops the scheduler and closes the gateway connection.
func (s *DiscordServer) Stop() {
	s.scheduler.Stop()
	s.client.Stop()
}

// handleInteraction translates a raw gateway interaction into the typed
// context the registry dispatches on.
func (s *DiscordServer) handleInteraction(i *discordgo.InteractionCreate) {
	ic := &InteractionContext{
		Context:   context.Background(),
		ChannelID: i.ChannelID,
		Now:       time.Now().In(domain.JST),
		Values:    make(map[string]string),
		Responder: &interactionResponder{client: s.client, interaction: i.Interaction},
	}
	if i.Member != nil && i.Member.User != nil {
		ic.UserID = i.Member.User.ID
	} else if i.User != nil {
		ic.UserID = i.User.ID
	}
	if i.Message != nil {
		ic.MessageID = i.Message.ID
	}

	switch i.Type {
	case discordgo.InteractionMessageComponent:
		data := i.MessageComponentData()
		ic.CustomID = data.CustomID
		if data.ComponentType == discordgo.SelectMenuComponent {
			ic.Kind = KindSelect
			ic.Values[data.CustomID] = strings.Join(data.Values, ",")
		} else {
			ic.Kind = KindButton
		}
	case discordgo.InteractionModalSubmit:
		data := i.ModalSubmitData()
		ic.Kind = KindModalSubmit
		ic.CustomID = data.CustomID
		collectModalValues(data.Components, ic.Values)
	default:
		return
	}

	s.logger.Debug("interaction received",
		zap.String("custom_id", ic.CustomID),
		zap.String("channel_id", ic.ChannelID))
	s.registry.Dispatch(ic)
}

// collectModalValues flattens text inputs out of the modal component tree.
func collectModalValues(components []discordgo.MessageComponent, values map[string]string) {
	for _, component := range components {
		switch c := component.(type) {
		case *discordgo.ActionsRow:
			collectModalValues(c.Components, values)
		case *discordgo.TextInput:
			values[c.CustomID] = c.Value
		}
	}
}

// interactionResponder adapts the Discord client to the Responder interface.
type interactionResponder struct {
	client      *discord.Client
	interaction *discordgo.Interaction
}

func (r *interactionResponder) ReplyEphemeral(text string) error {
	return r.client.RespondEphemeral(r.interaction, text)
}
