package main

import (
	"github.com/Krish01agrawal/Lifafa-B/cmd/api"
	authDelivery "github.com/Krish01agrawal/Lifafa-B/internal/auth/delivery"
	authDomain "github.com/Krish01agrawal/Lifafa-B/internal/auth/domain"
	authRepo "github.com/Krish01agrawal/Lifafa-B/internal/auth/repository"
	authUsecase "github.com/Krish01agrawal/Lifafa-B/internal/auth/usecase"
	chatDelivery "github.com/Krish01agrawal/Lifafa-B/internal/chat/delivery"
	chatUsecase "github.com/Krish01agrawal/Lifafa-B/internal/chat/usecase"
	emailDelivery "github.com/Krish01agrawal/Lifafa-B/internal/email/delivery"
	emailDomain "github.com/Krish01agrawal/Lifafa-B/internal/email/domain"
	emailRepo "github.com/Krish01agrawal/Lifafa-B/internal/email/repository"
	emailUsecase "github.com/Krish01agrawal/Lifafa-B/internal/email/usecase"
	"github.com/Krish01agrawal/Lifafa-B/pkg/config"
	"github.com/Krish01agrawal/Lifafa-B/pkg/database"
	"github.com/Krish01agrawal/Lifafa-B/pkg/gmail"
	"github.com/Krish01agrawal/Lifafa-B/pkg/llm"
	"github.com/Krish01agrawal/Lifafa-B/pkg/memory"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	if err := db.AutoMigrate(&authDomain.User{}, &emailDomain.EmailRecord{}); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	userRepository := authRepo.NewUserRepository(db)
	emailRepository := emailRepo.NewEmailRepository(db)

	mailSource := gmail.NewService(log)

	var memoryStore memory.Store
	if cfg.ChromaAPIKey != "" {
		store, err := memory.NewChromaStore(cfg, log)
		if err != nil {
			log.WithError(err).Warn("memory platform unavailable, semantic search disabled")
		} else {
			memoryStore = store
		}
	} else {
		log.Warn("CHROMA_API_KEY not set, semantic search disabled")
	}

	llmService := llm.NewService(cfg.GeminiAPIKey)

	authUc := authUsecase.NewAuthUsecase(userRepository, cfg, log)
	emailUc := emailUsecase.NewEmailUsecase(userRepository, emailRepository, mailSource, memoryStore, authUc, cfg, log)
	chatUc := chatUsecase.NewChatUsecase(memoryStore, llmService, log)

	poller := emailUsecase.NewPoller(userRepository, emailUc, cfg, log)
	poller.Start()
	defer poller.Stop()

	authHandler := authDelivery.NewAuthHandler(authUc, userRepository, emailRepository, cfg, log)
	emailHandler := emailDelivery.NewEmailHandler(emailUc, authUc, emailRepository, cfg, log)
	chatHandler := chatDelivery.NewChatHandler(chatUc, authUc, chatDelivery.NewHub(), log)

	handler := api.NewHandler(authUc, authHandler, emailHandler, chatHandler)

	log.WithField("port", cfg.Port).Info("starting server")
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
