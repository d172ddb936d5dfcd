package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"hookreel/backend/config"
	"hookreel/backend/handlers"
	"hookreel/backend/internal/ffmpeg"
	"hookreel/backend/internal/metadata"
	"hookreel/backend/internal/storage"
	"hookreel/backend/internal/worker"
	"hookreel/backend/middleware"
)

func main() {
	log := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store, err := storage.NewR2Store(context.Background(), storage.Config{
		AccountID:     cfg.R2AccountID,
		AccessKey:     cfg.R2AccessKey,
		SecretKey:     cfg.R2SecretKey,
		Bucket:        cfg.R2Bucket,
		PublicBaseURL: cfg.R2PublicBaseURL,
	})
	if err != nil {
		log.Fatalf("Failed to initialize R2 store: %v", err)
	}

	videos, err := metadata.NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseKey)
	if err != nil {
		log.Fatalf("Failed to initialize Supabase store: %v", err)
	}

	transcoder := ffmpeg.NewHLSTranscoder(ffmpeg.DefaultHLSParams())

	dispatcher := worker.NewDispatcher(cfg.Workers, cfg.QueueSize, log)
	dispatcher.Run()

	h := handlers.NewApplicationHandler(log, store, videos, dispatcher, transcoder, cfg)

	app := fiber.New(fiber.Config{
		BodyLimit: 512 << 20, // raw video uploads
	})
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(middleware.RequestLogger(log))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "Backend is Running"})
	})
	app.Post("/upload-video", h.UploadVideo)
	app.Get("/videos", h.GetVideos)
	app.Get("/videos/:id/download", h.GetDownloadURL)
	app.Put("/update-video/:id", h.UpdateVideo)
	app.Delete("/delete-video/:id", h.DeleteVideo)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server stopped: %v", err)
		}
	}()
	log.WithField("port", cfg.Port).Info("server started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down")
	if err := app.Shutdown(); err != nil {
		log.WithError(err).Error("server shutdown failed")
	}
	dispatcher.Stop()
	log.Info("shutdown complete")
}
