package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/kuzmin-dev/counterparty-api/internal/config"
	"github.com/kuzmin-dev/counterparty-api/internal/constants"
	"github.com/kuzmin-dev/counterparty-api/internal/database"
	"github.com/kuzmin-dev/counterparty-api/internal/handlers"
	"github.com/kuzmin-dev/counterparty-api/internal/middleware"
	"github.com/kuzmin-dev/counterparty-api/internal/repository"
	"github.com/kuzmin-dev/counterparty-api/internal/services"
)

func main() {
	// Load .env if present; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database. A missing DATABASE_URL is fatal.
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations before accepting any request
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   0, // browser-session cookie; login extends it when "remember" is set
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.Use(middleware.Locale(cfg.DefaultLocale))

	// Initialize mailer
	var mailer services.Mailer
	if cfg.MailAPIURL != "" {
		mailer = services.NewHTTPMailer(cfg.MailAPIURL, cfg.MailAPIKey, cfg.MailFrom)
	} else {
		mailer = services.LogMailer{}
	}

	// Initialize repositories and services
	userRepo := repository.NewUserRepository(database.GetDB())
	counterpartyRepo := repository.NewCounterpartyRepository(database.GetDB())
	authService := services.NewAuthService(userRepo, mailer, cfg.AppBaseURL)
	counterpartyService := services.NewCounterpartyService(counterpartyRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	counterpartyHandler := handlers.NewCounterpartyHandler(counterpartyService)
	languageHandler := handlers.NewLanguageHandler()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Counterparty API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.POST("/password-reset", authHandler.RequestPasswordReset)
			auth.POST("/password-reset/confirm", authHandler.ConfirmPasswordReset)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
			auth.DELETE("/me", middleware.RequireAuth(), authHandler.DeleteAccount)
		}

		// Language switch (public, session-scoped)
		api.PUT("/language", languageHandler.SetLanguage)

		// Counterparty routes (protected)
		counterparties := api.Group("/counterparties")
		counterparties.Use(middleware.RequireAuth())
		{
			counterparties.GET("", counterpartyHandler.List)
			counterparties.POST("", counterpartyHandler.Create)
			counterparties.GET("/:id", middleware.RequireCounterpartyOwner(), counterpartyHandler.Get)
			counterparties.PUT("/:id", middleware.RequireCounterpartyOwner(), counterpartyHandler.Update)
			counterparties.DELETE("/:id", middleware.RequireCounterpartyOwner(), counterpartyHandler.Delete)
		}
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
