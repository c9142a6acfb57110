package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adminService "tsuwallet/business/admin"
	commodityService "tsuwallet/business/commodity"
	contactService "tsuwallet/business/contact"
	contentService "tsuwallet/business/content"
	purchaseService "tsuwallet/business/purchase"
	userService "tsuwallet/business/user"
	verificationService "tsuwallet/business/verification"
	walletService "tsuwallet/business/wallet"

	"tsuwallet/app/echo-server/router"
	"tsuwallet/internal/middleware"
	"tsuwallet/internal/repository/coingecko"
	"tsuwallet/internal/repository/notification"
	"tsuwallet/internal/repository/paypal"
	psqlRepo "tsuwallet/internal/repository/postgres"
	redisRepo "tsuwallet/internal/repository/redis"
	"tsuwallet/internal/rest"
	"tsuwallet/pkg/config"
	"tsuwallet/pkg/database"
	redisdb "tsuwallet/pkg/database/redis"
	"tsuwallet/pkg/logger"
	"tsuwallet/pkg/metrics"
	"tsuwallet/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting TSU Wallet", "version", cfg.App.Version)

	utils.InitJWT(cfg.JWT.SecretKey, time.Duration(cfg.JWT.TTLHours)*time.Hour)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to redis", "error", err)
	}
	defer redisdb.CloseRedisClient(redisClient)

	// Init notification from mailjet
	mailjetEmail := notification.NewMailjetRepository(
		notification.MailjetConfig{
			MailjetBaseURL:           cfg.Mailjet.MailjetBaseUrl,
			MailjetBasicAuthUsername: cfg.Mailjet.MailjetBasicAuthUsername,
			MailjetBasicAuthPassword: cfg.Mailjet.MailjetBasicAuthPassword,
			MailjetSenderEmail:       cfg.Mailjet.MailjetSenderEmail,
			MailjetSenderName:        cfg.Mailjet.MailjetSenderName,
		},
	)

	paypalRepo := paypal.NewPayPalRepository(
		paypal.PayPalConfig{
			BaseUrl:      cfg.PayPal.BaseUrl,
			ClientID:     cfg.PayPal.ClientID,
			ClientSecret: cfg.PayPal.ClientSecret,
			WebhookID:    cfg.PayPal.WebhookID,
		},
	)

	coingeckoRepo := coingecko.NewCoinGeckoRepository(
		coingecko.CoinGeckoConfig{
			BaseUrl: cfg.CoinGecko.BaseUrl,
		},
	)

	// Init validate
	validate := validator.New()

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	txRepo := psqlRepo.NewTransactionRepository(db)
	paymentRepo := psqlRepo.NewPaymentRepository(db)
	contentRepo := psqlRepo.NewContentRepository(db)
	commodityRepo := psqlRepo.NewCommodityRepository(db)
	contactRepo := psqlRepo.NewContactRepository(db)
	supplyRepo := psqlRepo.NewSupplyRepository(db)
	securityRepo := psqlRepo.NewSecurityRepository(db)

	tokenRepo := redisRepo.NewTokenRepository(redisClient)
	cacheRepo := redisRepo.NewCacheRepository(redisClient)

	// Init service
	users := userService.NewUserService(userRepo, validate, mailjetEmail, tokenRepo, securityRepo, cfg.App.AppEmailVerificationKey, cfg.App.AppDeploymentUrl)
	wallets := walletService.NewWalletService(userRepo, txRepo, cacheRepo)
	purchases := purchaseService.NewPurchaseService(paymentRepo, paypalRepo, coingeckoRepo, supplyRepo, cacheRepo, wallets, cfg.TSU.RateUSD, cfg.TSU.EthReceivingAddress, cfg.TSU.BtcReceivingAddress)
	verifications := verificationService.NewVerificationService(userRepo, cacheRepo, securityRepo)
	contents := contentService.NewContentService(contentRepo, securityRepo)
	commodities := commodityService.NewCommodityService(commodityRepo, validate)
	contacts := contactService.NewContactService(contactRepo, mailjetEmail, validate, cfg.App.AdminEmail)
	admins := adminService.NewAdminService(userRepo, txRepo, paymentRepo, securityRepo, supplyRepo, wallets)

	// Init handler
	userHandler := rest.NewUserHandler(users)
	walletHandler := rest.NewWalletHandler(wallets)
	purchaseHandler := rest.NewPurchaseHandler(purchases)
	paypalHandler := rest.NewPayPalHandler(purchases)
	verificationHandler := rest.NewVerificationHandler(verifications)
	contentHandler := rest.NewContentHandler(contents)
	commodityHandler := rest.NewCommodityHandler(commodities)
	contactHandler := rest.NewContactHandler(contacts)
	adminHandler := rest.NewAdminHandler(admins)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Auth middleware
	authRequired := middleware.AuthMiddleware(users)
	adminOnly := middleware.AdminOnly()
	selfOrAdmin := middleware.SelfOrAdmin()

	// Setup routes
	api := e.Group("/api")
	router.SetupAuthRoutes(api, userHandler, authRequired, selfOrAdmin)
	router.SetupWalletRoutes(api, walletHandler, verificationHandler, authRequired)
	router.SetupPurchaseRoutes(api, purchaseHandler, authRequired)
	router.SetupPayPalRoutes(api, paypalHandler, authRequired)
	router.SetupContentRoutes(api, contentHandler, authRequired, adminOnly)
	router.SetupCommodityRoutes(api, commodityHandler, authRequired, adminOnly)
	router.SetupContactRoutes(api, contactHandler, authRequired, adminOnly)
	router.SetupAdminRoutes(api, adminHandler, authRequired, adminOnly)

	metrics.Init()
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
