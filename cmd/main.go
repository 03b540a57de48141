package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"scribebackend/clients"
	"scribebackend/clients/hubspot"
	"scribebackend/clients/notion"
	"scribebackend/clients/openrouter"
	"scribebackend/clients/salesforce"
	slackclient "scribebackend/clients/slack"
	"scribebackend/config"
	"scribebackend/db"
	"scribebackend/handlers"
	"scribebackend/middleware"
	"scribebackend/models"
	"scribebackend/services/crmpushes"
	"scribebackend/services/exports"
	"scribebackend/services/notifications"
	"scribebackend/services/settings"
	"scribebackend/services/shares"
	"scribebackend/services/slackintegrations"
	"scribebackend/services/subscriptions"
	"scribebackend/services/summaries"
	"scribebackend/services/summaryposts"
	"scribebackend/services/txmanager"
	"scribebackend/services/users"
	"scribebackend/usecases/crmpush"
	"scribebackend/usecases/dashboard"
	"scribebackend/usecases/export"
	"scribebackend/usecases/sharing"
	"scribebackend/usecases/slackpost"
	"scribebackend/usecases/summarize"
)

const failedPostRetryLimit = 3

func main() {
	if err := run(); err != nil {
		log.Printf("❌ Fatal error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	// Initialize error alert middleware
	alertMiddleware := middleware.NewErrorAlertMiddleware(middleware.SlackAlertConfig{
		WebhookURL:  cfg.AlertWebhookURL,
		Environment: cfg.Environment,
		AppName:     "scribebackend",
		LogsURL:     cfg.DashboardBaseURL + "/admin/logs",
	})

	// Initialize database connection
	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	// Initialize repositories with shared connection
	usersRepo := db.NewPostgresUsersRepository(dbConn, cfg.DatabaseSchema)
	summariesRepo := db.NewPostgresSummariesRepository(dbConn, cfg.DatabaseSchema)
	slackIntegrationsRepo := db.NewPostgresSlackIntegrationsRepository(dbConn, cfg.DatabaseSchema)
	summaryPostsRepo := db.NewPostgresSummaryPostsRepository(dbConn, cfg.DatabaseSchema)
	crmPushesRepo := db.NewPostgresCRMPushesRepository(dbConn, cfg.DatabaseSchema)
	sharedSummariesRepo := db.NewPostgresSharedSummariesRepository(dbConn, cfg.DatabaseSchema)
	exportsRepo := db.NewPostgresExportsRepository(dbConn, cfg.DatabaseSchema)
	notificationsRepo := db.NewPostgresNotificationsRepository(dbConn, cfg.DatabaseSchema)
	settingsRepo := db.NewPostgresSettingsRepository(dbConn, cfg.DatabaseSchema)
	subscriptionsRepo := db.NewPostgresSubscriptionsRepository(dbConn, cfg.DatabaseSchema)

	// Initialize transaction manager
	txManager := txmanager.NewTransactionManager(dbConn)

	// Initialize services
	usersService := users.NewUsersService(usersRepo, txManager)
	summariesService := summaries.NewSummariesService(summariesRepo)
	slackOAuthClient := slackclient.NewSlackOAuthClient()
	slackIntegrationsService := slackintegrations.NewSlackIntegrationsService(
		slackIntegrationsRepo,
		slackOAuthClient,
		cfg.SlackConfig.ClientID,
		cfg.SlackConfig.ClientSecret,
	)
	summaryPostsService := summaryposts.NewSummaryPostsService(summaryPostsRepo)
	crmPushesService := crmpushes.NewCRMPushesService(crmPushesRepo)
	sharesService := shares.NewSharesService(sharedSummariesRepo)
	exportsService := exports.NewExportsService(exportsRepo)
	notificationsService := notifications.NewNotificationsService(notificationsRepo)
	settingsService := settings.NewSettingsService(settingsRepo)
	subscriptionsService := subscriptions.NewSubscriptionsService(subscriptionsRepo)

	// Initialize upstream clients
	llmClient := openrouter.NewOpenRouterClient(
		cfg.OpenRouterConfig.APIURL,
		cfg.OpenRouterConfig.APIKey,
		cfg.OpenRouterConfig.ModelID,
	)

	// Only configured CRMs get a client; pushes to the rest come back as
	// reported failures
	crmClients := make(map[models.CRMType]clients.CRMClient)
	if cfg.HubSpotConfig.IsConfigured() {
		crmClients[models.CRMTypeHubSpot] = hubspot.NewHubSpotClient(cfg.HubSpotConfig.AccessToken)
	}
	if cfg.SalesforceConfig.IsConfigured() {
		crmClients[models.CRMTypeSalesforce] = salesforce.NewSalesforceClient(
			cfg.SalesforceConfig.InstanceURL, cfg.SalesforceConfig.AccessToken)
	}
	if cfg.NotionConfig.IsConfigured() {
		crmClients[models.CRMTypeNotion] = notion.NewNotionClient(
			cfg.NotionConfig.AccessToken, cfg.NotionConfig.ParentPageID)
	}

	// Initialize usecases
	slackPostUseCase := slackpost.NewSlackPostUseCase(
		summariesService,
		slackIntegrationsService,
		summaryPostsService,
		settingsService,
		slackclient.NewSlackClient,
		cfg.DashboardBaseURL,
	)
	crmPushUseCase := crmpush.NewCRMPushUseCase(summariesService, crmPushesService, crmClients)
	summarizeUseCase := summarize.NewSummarizeUseCase(
		llmClient, summariesService, settingsService, slackPostUseCase, crmPushUseCase)
	exportUseCase := export.NewExportUseCase(summariesService, exportsService, notificationsService)
	sharingUseCase := sharing.NewSharingUseCase(
		summariesService, sharesService, subscriptionsService, txManager)
	dashboardUseCase := dashboard.NewDashboardUseCase(
		summariesService,
		exportsService,
		crmPushesService,
		sharesService,
		notificationsService,
		subscriptionsService,
		slackIntegrationsService,
	)

	// Initialize HTTP layer
	authMiddleware := middleware.NewSupabaseAuthMiddleware(usersService, cfg.SupabaseConfig.JWTSecret)
	summariesHandler := handlers.NewSummariesHTTPHandler(summarizeUseCase, summariesService)
	slackHandler := handlers.NewSlackHTTPHandler(slackIntegrationsService, summaryPostsService, slackPostUseCase)
	slackEventsHandler := handlers.NewSlackEventsHandler(
		cfg.SlackConfig.SigningSecret, summarizeUseCase, slackIntegrationsService, usersService)
	configuredCRMs := make([]models.CRMType, 0, len(crmClients))
	for crmType := range crmClients {
		configuredCRMs = append(configuredCRMs, crmType)
	}
	crmHandler := handlers.NewCRMHTTPHandler(crmPushUseCase, crmPushesService, settingsService, configuredCRMs)
	exportHandler := handlers.NewExportHTTPHandler(exportUseCase)
	sharesHandler := handlers.NewSharesHTTPHandler(sharingUseCase, summariesService, cfg.DashboardBaseURL)
	dashboardHandler := handlers.NewDashboardHTTPHandler(dashboardUseCase, notificationsService)
	settingsHandler := handlers.NewSettingsHTTPHandler(settingsService)

	// Create a new router; dashboard clients call everything under /api
	router := mux.NewRouter()
	apiRouter := router.PathPrefix("/api").Subrouter()

	summariesHandler.SetupEndpoints(apiRouter, authMiddleware)
	slackHandler.SetupEndpoints(apiRouter, authMiddleware)
	slackEventsHandler.SetupEndpoints(apiRouter)
	crmHandler.SetupEndpoints(apiRouter, authMiddleware)
	exportHandler.SetupEndpoints(apiRouter, authMiddleware)
	sharesHandler.SetupEndpoints(apiRouter, authMiddleware)
	dashboardHandler.SetupEndpoints(apiRouter, authMiddleware)
	settingsHandler.SetupEndpoints(apiRouter, authMiddleware)

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			log.Printf("❌ Failed to write health check response: %v", err)
		}
	}).Methods("GET")

	// Periodically retry Slack posts that failed delivery
	retryTicker := time.NewTicker(5 * time.Minute)
	go func() {
		for range retryTicker.C {
			_ = alertMiddleware.WrapBackgroundTask("RetryFailedSlackPosts", func() error {
				_, err := slackPostUseCase.RetryFailedPosts(context.Background(), failedPostRetryLimit)
				return err
			})()
		}
	}()
	defer retryTicker.Stop()

	// Setup CORS middleware
	allowedOrigins := strings.Split(cfg.CORSAllowedOrigins, ",")
	for i, origin := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(origin)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	// Setup and handle graceful shutdown
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           alertMiddleware.HTTPMiddleware(c.Handler(router)),
		ReadHeaderTimeout: 30 * time.Second,
	}

	return handleGracefulShutdown(server)
}

func handleGracefulShutdown(server *http.Server) error {
	// Channel to listen for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		log.Printf("✅ Listening on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("❌ Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	<-stop
	log.Printf("🛑 Shutdown signal received, cleaning up...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown server gracefully
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("❌ Server shutdown error: %v", err)
		return err
	}

	log.Printf("✅ Server stopped gracefully")
	return nil
}
