package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/flo-kian-baban/connex-backend/api/routes"
	"github.com/flo-kian-baban/connex-backend/internal/applications"
	"github.com/flo-kian-baban/connex-backend/internal/auth"
	"github.com/flo-kian-baban/connex-backend/internal/chat"
	"github.com/flo-kian-baban/connex-backend/internal/creators"
	"github.com/flo-kian-baban/connex-backend/internal/deliverables"
	"github.com/flo-kian-baban/connex-backend/internal/favorites"
	"github.com/flo-kian-baban/connex-backend/internal/notifications"
	"github.com/flo-kian-baban/connex-backend/internal/offers"
	"github.com/flo-kian-baban/connex-backend/internal/providers"
	"github.com/flo-kian-baban/connex-backend/internal/seed"
	"github.com/flo-kian-baban/connex-backend/internal/users"
	"github.com/flo-kian-baban/connex-backend/pkg/auth/session"
	"github.com/flo-kian-baban/connex-backend/pkg/config"
	"github.com/flo-kian-baban/connex-backend/pkg/db"
	"github.com/flo-kian-baban/connex-backend/pkg/googleoauth"
	"github.com/flo-kian-baban/connex-backend/pkg/logger"
	"github.com/flo-kian-baban/connex-backend/pkg/migrate"
	"github.com/flo-kian-baban/connex-backend/pkg/outbox"
	"github.com/flo-kian-baban/connex-backend/pkg/redis"
	"github.com/flo-kian-baban/connex-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap cloud storage", err)
		os.Exit(1)
	}
	defer func() {
		if err := gcsClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing cloud storage", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	googleClient, err := googleoauth.New(cfg.Google)
	if err != nil {
		logg.Error(context.Background(), "failed to create google oauth client", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	userRepo := users.NewRepository(gormDB)
	providerRepo := providers.NewRepository(gormDB)
	creatorRepo := creators.NewRepository(gormDB)
	offerRepo := offers.NewRepository(gormDB)
	applicationRepo := applications.NewRepository(gormDB)
	chatRepo := chat.NewRepository(gormDB)
	notificationRepo := notifications.NewRepository(gormDB)
	favoriteRepo := favorites.NewRepository(gormDB)
	outboxService := outbox.NewService(outbox.NewRepository(gormDB), logg)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	googleAuthService, err := auth.NewGoogleService(auth.GoogleServiceParams{
		DB:             dbClient,
		Google:         googleClient,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create google auth service", err)
		os.Exit(1)
	}

	providerService, err := providers.NewService(providers.ServiceParams{
		Repo:   providerRepo,
		Google: googleClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create provider service", err)
		os.Exit(1)
	}

	creatorService, err := creators.NewService(creators.ServiceParams{Repo: creatorRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create creator service", err)
		os.Exit(1)
	}

	offerService, err := offers.NewService(offers.ServiceParams{
		Repo:      offerRepo,
		Providers: providerRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create offer service", err)
		os.Exit(1)
	}

	applicationService, err := applications.NewService(applications.ServiceParams{
		DB:            dbClient,
		Repo:          applicationRepo,
		Offers:        offerRepo,
		Providers:     providerRepo,
		Creators:      creatorRepo,
		Conversations: chatRepo,
		Outbox:        outboxService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create application service", err)
		os.Exit(1)
	}

	chatService, err := chat.NewService(chat.ServiceParams{
		DB:            dbClient,
		Repo:          chatRepo,
		Applications:  applicationRepo,
		Users:         userRepo,
		Notifications: notificationRepo,
		Outbox:        outboxService,
		Logger:        logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create chat service", err)
		os.Exit(1)
	}

	deliverableService, err := deliverables.NewService(deliverables.ServiceParams{
		DB:           dbClient,
		Repo:         deliverables.NewRepository(gormDB),
		Applications: applicationRepo,
		Store:        gcsClient.BucketHandle(cfg.GCS.BucketName),
		Signer:       gcsClient,
		Bucket:       cfg.GCS.BucketName,
		Outbox:       outboxService,
		Logger:       logg,
		Deliverables: cfg.Deliverables,
		URLExpiry:    cfg.GCS.DownloadURLExpiry,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create deliverable service", err)
		os.Exit(1)
	}

	notificationService, err := notifications.NewService(notificationRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notification service", err)
		os.Exit(1)
	}

	favoriteService, err := favorites.NewService(favorites.ServiceParams{
		Repo:   favoriteRepo,
		Offers: offerRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create favorites service", err)
		os.Exit(1)
	}

	seedService, err := seed.NewService(seed.ServiceParams{
		DB:       dbClient,
		Logger:   logg,
		Seed:     cfg.Seed,
		Password: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create seed service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg, logg,
			dbClient, redisClient, gcsClient,
			sessionManager,
			authService,
			googleAuthService,
			registerService,
			providerService,
			creatorService,
			offerService,
			applicationService,
			chatService,
			deliverableService,
			notificationService,
			favoriteService,
			seedService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
