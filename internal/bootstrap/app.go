package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	httpHandler "github.com/rkSlalom/ae-infinity-api/internal/handler/http"
	wsHandler "github.com/rkSlalom/ae-infinity-api/internal/handler/websocket"
	"github.com/rkSlalom/ae-infinity-api/internal/hub"
	gormpersistence "github.com/rkSlalom/ae-infinity-api/internal/infra/persistence/gorm"
	"github.com/rkSlalom/ae-infinity-api/internal/infra/setup"
	"github.com/rkSlalom/ae-infinity-api/internal/middleware"
	"github.com/rkSlalom/ae-infinity-api/internal/realtime"
	"github.com/rkSlalom/ae-infinity-api/internal/service"
	"github.com/rkSlalom/ae-infinity-api/internal/tasks"
	"github.com/rkSlalom/ae-infinity-api/internal/worker"
)

// Config holds everything loaded from the environment.
type Config struct {
	DBUser          string
	DBPassword      string
	DBHost          string
	DBPort          string
	DBName          string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	JWTSecret       string
	ServerPort      string
	LogLevel        string
	RateLimitMax    int
	RateLimitWindow time.Duration
	JWTExpiryHours  int
	AppEnv          string
}

// LoadConfig reads the environment, preferring a .env file when present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBHost:        os.Getenv("DB_HOST"),
		DBPort:        os.Getenv("DB_PORT"),
		DBName:        os.Getenv("DB_NAME"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		ServerPort:    os.Getenv("SERVER_PORT"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		AppEnv:        os.Getenv("APP_ENV"),

		RateLimitMax:    100,
		RateLimitWindow: 1 * time.Second,
		JWTExpiryHours:  24,
	}
	cfg.RedisDB, _ = strconv.Atoi(os.Getenv("REDIS_DB"))

	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.AppEnv == "" {
		cfg.AppEnv = "development"
	}
	if cfg.RedisAddr == "" {
		return nil, fmt.Errorf("environment variable REDIS_ADDR must be set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("environment variable JWT_SECRET must be set")
	}

	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		logrus.Warnf("Invalid LOG_LEVEL '%s', using default 'info'", cfg.LogLevel)
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// App bundles the application components for startup and shutdown.
type App struct {
	Config      *Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	AsynqClient *asynq.Client
	AsynqServer *worker.WorkerServer
	Hub         *hub.Hub
	HttpServer  *http.Server
}

// NewApp wires every component together.
func NewApp() (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return nil, err
	}

	log := logrus.New()
	if cfg.AppEnv == "production" {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, ForceColors: true})
	}
	logLevel, _ := logrus.ParseLevel(cfg.LogLevel)
	log.SetLevel(logLevel)
	log.SetOutput(os.Stdout)
	logrus.SetLevel(logLevel)
	log.Info("Configuration loaded successfully")

	log.Info("Initializing infrastructure...")
	db, err := setup.InitDB(cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("failed to init DB: %w", err)
	}
	if err := setup.MigrateDB(db); err != nil {
		return nil, fmt.Errorf("failed to migrate DB: %w", err)
	}
	redisClient, err := setup.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("failed to init Redis: %w", err)
	}
	redisClientOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
	asynqClient := asynq.NewClient(redisClientOpt)
	log.Info("Infrastructure initialized successfully")

	log.Info("Initializing repositories...")
	userRepo := gormpersistence.NewGormUserRepository(db)
	listRepo := gormpersistence.NewGormListRepository(db)
	itemRepo := gormpersistence.NewGormItemRepository(db)
	collabRepo := gormpersistence.NewGormCollaborationRepository(db)
	roleRepo := gormpersistence.NewGormRoleRepository(db)
	activityRepo := gormpersistence.NewGormActivityRepository(db)

	log.Info("Initializing services...")
	perms := service.NewPermissionService(listRepo, collabRepo, roleRepo)
	registry := realtime.NewRegistry()
	hubInstance := hub.NewHub(registry, perms)

	recorder := tasks.NewAsynqRecorder(asynqClient)
	authService, err := service.NewAuthService(userRepo, hubInstance, cfg.JWTSecret, cfg.JWTExpiryHours)
	if err != nil {
		return nil, fmt.Errorf("failed to create AuthService: %w", err)
	}
	listService := service.NewListService(listRepo, perms, hubInstance, recorder)
	itemService := service.NewItemService(listRepo, itemRepo, perms, hubInstance, recorder)
	collabService := service.NewCollaborationService(listRepo, collabRepo, roleRepo, userRepo, perms, hubInstance, recorder)
	activityService := service.NewActivityService(activityRepo, perms)
	roleService := service.NewRoleService(roleRepo)

	log.Info("Initializing handlers...")
	authHandler := httpHandler.NewAuthHandler(authService)
	listHandler := httpHandler.NewListHandler(listService, activityService)
	itemHandler := httpHandler.NewItemHandler(itemService)
	collabHandler := httpHandler.NewCollaboratorHandler(collabService)
	rolesHandler := httpHandler.NewRolesHandler(roleService)
	socketHandler := wsHandler.NewWebSocketHandler(hubInstance)

	workerServer := worker.NewWorkerServer(redisClientOpt, activityRepo, log)

	log.Info("Setting up Gin router...")
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(log))
	router.Use(corsMiddleware())
	router.Use(middleware.RateLimit(redisClient, cfg.RateLimitMax, cfg.RateLimitWindow))

	api := router.Group("/api")
	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}

	authed := api.Group("").Use(middleware.Auth(cfg.JWTSecret))
	{
		authed.GET("/users/me", authHandler.Profile)
		authed.PUT("/users/me", authHandler.UpdateProfile)
		authed.GET("/roles", rolesHandler.Index)

		authed.POST("/lists", listHandler.Create)
		authed.GET("/lists", listHandler.Index)
		authed.GET("/lists/:listId", listHandler.Show)
		authed.PUT("/lists/:listId", listHandler.Update)
		authed.PUT("/lists/:listId/archive", listHandler.Archive)
		authed.DELETE("/lists/:listId", listHandler.Delete)
		authed.GET("/lists/:listId/activity", listHandler.Activity)

		authed.POST("/lists/:listId/items", itemHandler.Create)
		authed.GET("/lists/:listId/items", itemHandler.Index)
		authed.PUT("/lists/:listId/items/reorder", itemHandler.Reorder)
		authed.GET("/lists/:listId/items/:itemId", itemHandler.Show)
		authed.PUT("/lists/:listId/items/:itemId", itemHandler.Update)
		authed.DELETE("/lists/:listId/items/:itemId", itemHandler.Delete)
		authed.PUT("/lists/:listId/items/:itemId/purchase", itemHandler.Purchase)

		authed.POST("/lists/:listId/share", collabHandler.Share)
		authed.GET("/lists/:listId/collaborators", collabHandler.Index)
		authed.DELETE("/lists/:listId/collaborators/:userId", collabHandler.Remove)
		authed.PUT("/lists/:listId/collaborators/:userId/role", collabHandler.ChangeRole)
		authed.POST("/lists/:listId/leave", collabHandler.Leave)

		authed.GET("/invitations", collabHandler.Invitations)
		authed.POST("/invitations/:invitationId/accept", collabHandler.Accept)
		authed.POST("/invitations/:invitationId/decline", collabHandler.Decline)
	}

	wsRoutes := router.Group("/ws").Use(middleware.Auth(cfg.JWTSecret))
	{
		wsRoutes.GET("", socketHandler.HandleConnection)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "pong"}) })
	log.Info("Router setup complete")

	httpServer := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	app := &App{
		Config:      cfg,
		Log:         log,
		DB:          db,
		RedisClient: redisClient,
		AsynqClient: asynqClient,
		AsynqServer: workerServer,
		Hub:         hubInstance,
		HttpServer:  httpServer,
	}
	log.Info("Application assembled successfully")
	return app, nil
}

// Start launches the background goroutines and the HTTP server.
func (a *App) Start() {
	a.Log.Info("Starting application background routines...")
	go a.Hub.Run()
	a.Log.Info("Hub routine started")

	go a.AsynqServer.Start()
	a.Log.Info("Worker server routine started")

	go func() {
		a.Log.Infof("HTTP server starting to listen on %s", a.HttpServer.Addr)
		if err := a.HttpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.Fatalf("Failed to start HTTP server: %v", err)
		}
		a.Log.Info("HTTP server stopped listening.")
	}()
}

// Shutdown stops the components in dependency order.
func (a *App) Shutdown() {
	a.Log.Info("Shutting down application...")

	if a.AsynqServer != nil {
		a.AsynqServer.Shutdown()
	}

	a.Log.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.HttpServer.Shutdown(ctx); err != nil {
		a.Log.Errorf("Error shutting down HTTP server: %v", err)
	} else {
		a.Log.Info("HTTP server shut down gracefully.")
	}

	if a.AsynqClient != nil {
		if err := a.AsynqClient.Close(); err != nil {
			a.Log.Errorf("Error closing Asynq client: %v", err)
		}
	}
	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil {
			a.Log.Errorf("Error closing Redis connection: %v", err)
		}
	}

	a.Log.Info("Application shutdown complete.")
}

func corsMiddleware() gin.HandlerFunc {
	allowedOrigin := os.Getenv("CORS_ALLOWED_ORIGIN")
	if allowedOrigin == "" {
		allowedOrigin = "http://localhost:3000"
	}
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// LoggerMiddleware records one structured entry per request.
func LoggerMiddleware(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()
		latency := time.Since(startTime)
		statusCode := c.Writer.Status()
		path := c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			path = path + "?" + c.Request.URL.RawQuery
		}
		errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String()

		entry := log.WithFields(logrus.Fields{
			"status_code": statusCode,
			"latency_ms":  latency.Milliseconds(),
			"client_ip":   c.ClientIP(),
			"method":      c.Request.Method,
			"path":        path,
		})

		switch {
		case errorMessage != "":
			entry.Error(errorMessage)
		case statusCode >= 500:
			entry.Error("Server error")
		case statusCode >= 400:
			entry.Warn("Client error")
		default:
			entry.Info("Request handled")
		}
	}
}
