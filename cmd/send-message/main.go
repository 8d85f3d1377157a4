package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/yone-k/yone-discord-bot-sub003/internal/infra/discord"
)

// Manual send tool for checking bot permissions on a channel or thread.
func main() {
	_ = godotenv.Load()

	token := os.Getenv("DISCORD_BOT_TOKEN")
	if token == "" {
		fmt.Println("Error: DISCORD_BOT_TOKEN must be set")
		os.Exit(1)
	}

	if len(os.Args) < 3 {
		fmt.Println("Usage: send-message <channel_id> <message>")
		os.Exit(1)
	}

	channelID := os.Args[1]
	message := os.Args[2]

	client, err := discord.NewClient(token, zap.NewNop())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if _, err := client.ResolveSendableChannel(ctx, channelID); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	messageID, err := client.SendMessage(ctx, channelID, message)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Message sent successfully! (id %s)\n", messageID)
}
