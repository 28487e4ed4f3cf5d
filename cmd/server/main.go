package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"

	"github.com/AnshRaj112/mindcare-backend/internal/config"
	"github.com/AnshRaj112/mindcare-backend/internal/database"
	"github.com/AnshRaj112/mindcare-backend/internal/handlers"
	"github.com/AnshRaj112/mindcare-backend/internal/middleware"
	"github.com/AnshRaj112/mindcare-backend/internal/routes"
	"github.com/AnshRaj112/mindcare-backend/internal/services"
	"github.com/AnshRaj112/mindcare-backend/pkg/clientip"
	"github.com/AnshRaj112/mindcare-backend/pkg/logger"
)

func main() {
	// Load env
	envErr := godotenv.Load()
	// Load configuration
	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	if envErr != nil {
		log.Debug("No .env file found")
	}

	ctx := context.Background()

	var gcpOpts []option.ClientOption
	if cfg.HasFirebaseServiceAccount() {
		opt, err := services.ServiceAccountOption(cfg.FirebaseProjectID, cfg.FirebaseClientEmail, cfg.FirebasePrivateKey)
		if err != nil {
			log.Fatal("Invalid Firebase service account", "error", err)
		}
		gcpOpts = append(gcpOpts, opt)
	} else {
		gcpOpts = services.ClientOptionsFromEnv(cfg.GoogleCredentials)
		log.Warn("FIREBASE_* credentials not set, falling back to application default credentials")
	}

	identity, err := services.NewFirebaseIdentity(ctx, cfg.FirebaseProjectID, cfg.StorageBucket, gcpOpts...)
	if err != nil {
		log.Fatal("Failed to initialize Firebase auth", "error", err)
	}

	storageClient, err := services.NewStorageClient(ctx, cfg.StorageEmulator, gcpOpts...)
	if err != nil {
		log.Fatal("Failed to create storage client", "error", err)
	}
	defer storageClient.Close()
	userBlobs := services.NewGCSBlobStore(storageClient, cfg.StorageBucket)
	surveyBlobs := services.NewGCSBlobStore(storageClient, cfg.SurveyBucket)
	log.Info("Blob storage ready", "bucket", cfg.StorageBucket, "survey_bucket", cfg.SurveyBucket)

	analyzer, err := services.NewGoogleSentimentAnalyzer(ctx, gcpOpts...)
	if err != nil {
		log.Fatal("Failed to create sentiment analyzer", "error", err)
	}
	defer analyzer.Close()

	log.Info("Connecting to MongoDB...")
	mongoClient, mongoDB, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}
	defer database.DisconnectMongo(mongoClient)
	if err := services.EnsureJournalIndexes(ctx, mongoDB); err != nil {
		log.Warn("Failed to ensure journal indexes", "error", err)
	} else {
		log.Info("MongoDB journal indexes ensured", "database", mongoDB.Name())
	}

	checks := map[string]handlers.PingFunc{
		"mongo": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
	}

	// Login audit is optional; a nil interface keeps it off.
	var audit services.LoginAudit
	if cfg.PostgresURI != "" {
		log.Info("Connecting to PostgreSQL...")
		db, err := database.ConnectPostgres(ctx, cfg.PostgresURI)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", "error", err)
		}
		defer db.Close()
		audit = services.NewPostgresLoginAudit(db)
		checks["postgres"] = pingSQL(db)
	} else {
		log.Info("POSTGRES_URI not set, login history disabled")
	}

	ips := clientip.Resolver{TrustProxy: cfg.TrustProxy}

	var (
		rateLimiter *middleware.RateLimiter
		cache       *services.Cache
	)
	if cfg.RedisURI != "" {
		log.Info("Connecting to Redis...")
		redisClient, err := database.ConnectRedis(ctx, cfg.RedisURI)
		if err != nil {
			log.Fatal("Failed to connect to Redis", "error", err)
		}
		defer redisClient.Close()
		rateLimiter = middleware.NewRateLimiter(redisClient, ips, cfg.RateLimitWindow, cfg.RateLimitMaxRequests, log)
		cache = services.NewCache(redisClient, services.DefaultCacheTTL)
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	} else {
		log.Info("REDIS_URI not set, rate limiting and caching disabled")
	}

	users := services.NewUserService(identity, userBlobs, audit, log)
	journal := services.NewJournalService(services.NewMongoJournalRepository(mongoDB), analyzer, log)
	survey := services.NewSurveyService(surveyBlobs, log).WithCache(cache)
	catalog := services.NewCatalog(cfg.DrugStoreDataDir, log)

	// Setup router
	r := chi.NewRouter()
	for _, mw := range middleware.Base(log, cfg.AllowedOrigins) {
		r.Use(mw)
	}

	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity(cfg.AllowedHost, ips) {
			r.Use(mw)
		}
		log.Info("Production security enabled", "allowed_host", cfg.AllowedHost, "trust_proxy", cfg.TrustProxy)
	}
	if rateLimiter != nil {
		r.Use(rateLimiter.Middleware)
	}

	routes.SetupRoutes(r, routes.Handlers{
		Health:       handlers.NewHealthHandler(checks),
		Auth:         handlers.NewAuthHandler(users, log),
		Survey:       handlers.NewSurveyHandler(survey, log),
		DrugStore:    handlers.NewDrugStoreHandler(catalog, log),
		Journal:      handlers.NewJournalHandler(journal, log),
		RequireToken: middleware.RequireToken(identity, log),
		RequireAdmin: middleware.RequireAdmin(identity, log),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Info("Mindcare backend running", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", "error", err)
	}
}

func pingSQL(db *sql.DB) handlers.PingFunc {
	return func(ctx context.Context) error { return db.PingContext(ctx) }
}
