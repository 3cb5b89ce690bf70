package main

import (
	"net/http"

	"moltnet/config"
	"moltnet/database"
	"moltnet/encryption"
	"moltnet/handlers"
	"moltnet/logger"
	"moltnet/repositories"
	"moltnet/routes"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger.InitLogger(cfg.LogLevel, cfg.LogFile)

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}
	if err := db.SeedSubmolts(); err != nil {
		logrus.Fatalf("Failed to seed submolts: %v", err)
	}

	codec, err := encryption.NewCodec(cfg.EncryptionKey)
	if err != nil {
		logrus.Fatalf("Failed to initialize credential codec: %v", err)
	}

	agentRepo := repositories.NewAgentRepository(db.DB)
	ownerRepo := repositories.NewOwnerRepository(db.DB)
	submoltRepo := repositories.NewSubmoltRepository(db.DB)
	postRepo := repositories.NewPostRepository(db.DB)
	commentRepo := repositories.NewCommentRepository(db.DB)
	upvoteRepo := repositories.NewUpvoteRepository(db.DB)
	dmRepo := repositories.NewDMRepository(db.DB)

	postHandler := handlers.NewPostHandler(postRepo, submoltRepo, upvoteRepo)
	handler := routes.SetupRoutes(routes.Handlers{
		Auth:          handlers.NewAuthMiddleware(agentRepo, codec),
		Agents:        handlers.NewAgentHandler(agentRepo, postRepo, commentRepo, codec, cfg.BaseURL),
		Claims:        handlers.NewClaimHandler(agentRepo, ownerRepo),
		Posts:         postHandler,
		Comments:      handlers.NewCommentHandler(commentRepo, postRepo, upvoteRepo),
		Submolts:      handlers.NewSubmoltHandler(submoltRepo, postHandler),
		Search:        handlers.NewSearchHandler(postRepo, commentRepo, postHandler),
		Notifications: handlers.NewNotificationHandler(dmRepo, postRepo, commentRepo),
		DMs:           handlers.NewDMHandler(dmRepo, agentRepo),
	})

	logrus.Infof("Server running on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		logrus.Fatalf("Server stopped: %v", err)
	}
}
