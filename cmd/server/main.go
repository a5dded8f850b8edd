package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/maheshrc27/postflow/configs"
	"github.com/maheshrc27/postflow/internal/api/handlers"
	"github.com/maheshrc27/postflow/internal/api/middleware"
	job "github.com/maheshrc27/postflow/internal/jobs"
	"github.com/maheshrc27/postflow/internal/lock"
	"github.com/maheshrc27/postflow/internal/publisher"
	"github.com/maheshrc27/postflow/internal/queue"
	"github.com/maheshrc27/postflow/internal/repository"
	"github.com/maheshrc27/postflow/internal/service"
	"github.com/maheshrc27/postflow/pkg/utils"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	utils.InitLogger(cfg.LogLevel)

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	postRepo := repository.NewPostRepository(db)
	socialAccountRepo := repository.NewSocialAccountRepository(db)
	historyRepo := repository.NewPostingHistoryRepository(db)
	platformRepo := repository.NewPlatformRepository(db)

	directory := service.NewPlatformDirectory(platformRepo)
	if err := directory.Reload(context.Background()); err != nil {
		slog.Warn("unable to load platforms table, numeric platform keys will be rejected", "error", err)
	}

	graph := publisher.NewGraphClient(cfg.Platforms.GraphAPIURL, cfg.Platforms.GraphAPIVersion)
	registry := publisher.NewRegistry(
		publisher.NewFacebookPublisher(graph),
		publisher.NewInstagramPublisher(graph),
		publisher.NewTwitterPublisher(cfg.Platforms.TwitterAPIURL),
		publisher.NewLinkedInPublisher(cfg.Platforms.LinkedInAPIURL),
	)

	var (
		redisClient *redis.Client
		asynqClient *asynq.Client
		asynqServer *asynq.Server
		enqueuer    queue.Enqueuer
		locker      lock.Locker
	)
	if cfg.RedisURI != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisURI, Password: cfg.RedisPassword})
		defer redisClient.Close()

		redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI, Password: cfg.RedisPassword}
		asynqClient = asynq.NewClient(redisConn)
		defer asynqClient.Close()
		enqueuer = queue.NewClient(asynqClient)

		asynqServer = asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})
	}
	if cfg.Scheduler.DistributedLock {
		redisLocker, err := lock.NewRedisLocker(redisClient, lock.DefaultKey, cfg.Scheduler.ProcessingLease)
		if err != nil {
			log.Fatalf("Failed to create distributed lock: %v", err)
		}
		locker = redisLocker
	}

	credentials := service.NewCredentialResolver(socialAccountRepo, directory, cfg.EncryptionKey)
	publishService := service.NewPublishService(postRepo, historyRepo, directory, credentials, registry, locker,
		service.PublishOptions{
			Timeout:   cfg.Scheduler.PublishTimeout,
			Lease:     cfg.Scheduler.ProcessingLease,
			BatchSize: cfg.Scheduler.BatchSize,
		})
	postService := service.NewPostService(postRepo, historyRepo, directory)
	tokenService := service.NewTokenService(socialAccountRepo, directory, cfg.EncryptionKey)

	var storage service.ObjectStorage
	if cfg.MediaEnabled() {
		r2Service, err := service.NewR2Service(context.Background(), cfg.R2)
		if err != nil {
			log.Fatalf("Failed to configure R2: %v", err)
		}
		storage = r2Service
	}
	mediaService := service.NewMediaService(storage)

	scheduler := job.NewScheduler()
	if err := scheduler.AddJob(job.PublishJobName, cfg.Scheduler.Spec, cfg.Scheduler.ProcessingLease,
		job.NewPublishJob(publishService).Run); err != nil {
		log.Fatalf("Failed to schedule publishing: %v", err)
	}
	if err := scheduler.AddJob(job.CredentialExpiryJobName, cfg.Scheduler.SweepSpec, time.Minute,
		job.NewCredentialExpiryJob(tokenService).Run); err != nil {
		log.Fatalf("Failed to schedule credential sweep: %v", err)
	}
	scheduler.Start()

	if asynqServer != nil {
		mux := asynq.NewServeMux()
		queue.NewWorker(publishService).Register(mux)

		go func() {
			slog.Info("starting the asynq server")
			if err := asynqServer.Run(mux); err != nil {
				log.Fatalf("Could not start Asynq server: %v", err)
			}
		}()
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    int(service.MaxImageSize) + 1024*1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			slog.Error("unhandled request error", "path", c.Path(), "error", err)
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "jobs": scheduler.ListJobs()})
	})

	publish := handlers.NewPublishHandler(publishService)
	cronGuard := middleware.CronSecret(cfg.CronSecret)
	app.Get("/api/cron/publish-posts", cronGuard, publish.PublishPosts)
	app.Post("/api/cron/publish-posts", cronGuard, publish.PublishPosts)

	authMiddleware := middleware.NewAuthMiddleware(*cfg)
	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	post := handlers.NewPostHandler(postService, enqueuer)
	api.Post("/posts", post.CreatePost)
	api.Get("/posts", post.ListPosts)
	api.Get("/posts/:id", post.GetPost)
	api.Put("/posts/:id", post.UpdatePost)
	api.Delete("/posts/:id", post.RemovePost)
	api.Post("/posts/:id/reschedule", post.ReschedulePost)
	api.Get("/posts/:id/history", post.PostHistory)
	api.Get("/user/stats", post.Stats)

	tokens := handlers.NewTokenHandler(tokenService)
	api.Post("/tokens", tokens.CreateToken)
	api.Get("/tokens", tokens.ListTokens)
	api.Post("/tokens/:id/activate", tokens.ActivateToken)
	api.Post("/tokens/:id/deactivate", tokens.DeactivateToken)
	api.Delete("/tokens/:id", tokens.RemoveToken)

	media := handlers.NewMediaHandler(mediaService)
	api.Post("/media", media.UploadImage)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	slog.Info("server is running", "port", cfg.Port)

	gracefulShutdown(app, scheduler, asynqServer)
}

func closeDB(db *sql.DB) {
	if err := db.Close(); err != nil {
		slog.Error("failed to close database", "error", err)
		return
	}
	slog.Info("database connection closed")
}

func gracefulShutdown(app *fiber.App, scheduler *job.Scheduler, asynqServer *asynq.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	slog.Info("shutting down server")

	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		slog.Error("failed to shut down server", "error", err)
	}

	// Let an in-flight tick finish so claimed posts are completed.
	select {
	case <-scheduler.Stop().Done():
	case <-time.After(time.Minute):
		slog.Warn("publishing run did not finish before shutdown")
	}

	if asynqServer != nil {
		asynqServer.Shutdown()
	}
	slog.Info("server shutdown complete")
}
