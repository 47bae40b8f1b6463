package main

import (
	"context"
	"log"

	"buho/internal/domain/aggregation"
	"buho/internal/domain/banklink"
	"buho/internal/domain/identity"
	"buho/internal/domain/notification"
	"buho/internal/infrastructure/bankfeed"
	"buho/internal/infrastructure/crypto"
	"buho/internal/infrastructure/firebase"
	"buho/internal/infrastructure/postgres"
	httphandlers "buho/internal/interfaces/http"
	"buho/internal/shared/auth"
	"buho/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	AuthHandler        *httphandlers.AuthHandler
	UserHandler        *httphandlers.UserHandler
	LinkHandler        *httphandlers.LinkHandler
	AccountHandler     *httphandlers.AccountHandler
	TransactionHandler *httphandlers.TransactionHandler
	DeviceHandler      *httphandlers.DeviceHandler

	// Auth
	JWT *auth.JWT

	// Components the scheduler job provider needs
	BankLinkRepo        *postgres.BankLinkRepository
	FeedClient          *bankfeed.Client
	NotificationService *notification.Service
}

// NewDependencies initializes all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	// Connect to database
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Println("Connected to database")

	// Initialize encryptor for access tokens at rest
	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		return nil, err
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	bankLinkRepo := postgres.NewBankLinkRepository(db, encryptor)
	deviceTokenRepo := postgres.NewDeviceTokenRepository(db)

	// Initialize aggregator client
	feedClient := bankfeed.NewClient(cfg.BankFeed.BaseURL, cfg.BankFeed.ClientID, cfg.BankFeed.ClientSecret)

	// Initialize FCM if configured
	var messenger notification.Messenger
	if cfg.Firebase.CredentialsFile != "" {
		fcmClient, err := firebase.NewClient(ctx, cfg.Firebase.CredentialsFile, deviceTokenRepo.DeactivateToken)
		if err != nil {
			log.Printf("Warning: Failed to initialize Firebase messaging: %v", err)
		} else {
			messenger = fcmClient
			log.Println("Firebase messaging initialized")
		}
	} else {
		log.Println("Firebase messaging disabled (no credentials file)")
	}

	// Initialize domain services
	resolver := identity.NewResolver(userRepo)
	linkService := banklink.NewService(bankLinkRepo, feedClient)
	notificationService := notification.NewService(deviceTokenRepo, messenger)
	facade := aggregation.NewFacade(resolver, linkService, feedClient, cfg.BankFeed.LinkTimeout, cfg.BankFeed.TransactionWindowDays)

	// Initialize auth components
	jwt := auth.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL)

	// Initialize handlers
	authHandler := httphandlers.NewAuthHandler(userRepo, jwt)
	userHandler := httphandlers.NewUserHandler(resolver)
	linkHandler := httphandlers.NewLinkHandler(linkService)
	accountHandler := httphandlers.NewAccountHandler(facade)
	transactionHandler := httphandlers.NewTransactionHandler(facade)
	deviceHandler := httphandlers.NewDeviceHandler(notificationService)

	return &Dependencies{
		DB:                  db,
		AuthHandler:         authHandler,
		UserHandler:         userHandler,
		LinkHandler:         linkHandler,
		AccountHandler:      accountHandler,
		TransactionHandler:  transactionHandler,
		DeviceHandler:       deviceHandler,
		JWT:                 jwt,
		BankLinkRepo:        bankLinkRepo,
		FeedClient:          feedClient,
		NotificationService: notificationService,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
