package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/yone-k/yone-discord-bot-sub003/internal/biz/usecase"
	"github.com/yone-k/yone-discord-bot-sub003/internal/conf"
	"github.com/yone-k/yone-discord-bot-sub003/internal/data"
	"github.com/yone-k/yone-discord-bot-sub003/internal/infra/discord"
	"github.com/yone-k/yone-discord-bot-sub003/internal/server"
	"github.com/yone-k/yone-discord-bot-sub003/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := conf.LoadFromEnv()
	if err := config.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	var logger *zap.Logger
	var err error
	if config.Debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := data.Open(config.Remind.DBPath)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	client, err := discord.NewClient(config.Discord.BotToken, logger)
	if err != nil {
		logger.Fatal("failed to create discord client", zap.Error(err))
	}

	taskRepo := data.NewRemindTaskRepo(db)
	metaRepo := data.NewMetadataRepo(db)
	manager := service.NewRemindMessageManager(client, config.Remind.RefreshInterval, logger)
	remindUC := usecase.NewRemindUsecase(taskRepo, metaRepo, manager, logger)
	scheduler := service.NewRemindScheduler(taskRepo, metaRepo, manager, config.Remind.SchedulerInterval, logger)

	registry := server.NewRegistry(logger)
	registry.Register(server.NewAddRemindHandler(remindUC))
	registry.Register(server.NewCompleteRemindHandler(remindUC))
	registry.Register(server.NewDetailRemindHandler(remindUC))
	registry.Register(server.NewEditRemindHandler(remindUC))
	registry.Register(server.NewOverrideRemindHandler(remindUC))
	registry.Register(server.NewDeleteRemindHandler(remindUC))

	srv := server.NewDiscordServer(client, registry, scheduler, logger)
	if err := srv.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
	logger.Info("bot started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	srv.Stop()
}
