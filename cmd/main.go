package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "github.com/gurimusan/oauth2-sample/docs" // Import generated docs
	"github.com/gurimusan/oauth2-sample/internal/auth"
	"github.com/gurimusan/oauth2-sample/internal/config"
	"github.com/gurimusan/oauth2-sample/internal/controllers"
	"github.com/gurimusan/oauth2-sample/internal/database"
	"github.com/gurimusan/oauth2-sample/internal/middleware"
	"github.com/gurimusan/oauth2-sample/internal/models"
	"github.com/gurimusan/oauth2-sample/internal/services"
)

var (
	db              *gorm.DB
	store           services.CredentialStore
	tokenController *controllers.TokenController
	apiController   *controllers.APIController
	configuration   *config.Config
)

// @title OAuth2 Sample API
// @version 1.0
// @description OAuth2 bearer token issuance for machine-to-machine API access
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration = loadConfig()

	// Initialize database connection
	setupDatabase(configuration)

	// Initialize the credential store, auth core and controllers
	store = services.NewCredentialStore(db)
	tokenController = controllers.NewTokenController(
		auth.NewGrantValidator(store),
		auth.NewTokenIssuer(store),
	)
	apiController = controllers.NewAPIController()

	// Initialize Gin router
	var router *gin.Engine = setupRouter()

	// Start the server
	log.Infof("Starting server on %s:%d", configuration.Host, configuration.Port)
	router.Run(fmt.Sprintf("%v:%d", configuration.Host, configuration.Port))
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	environment := config.GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(log.DebugLevel)
	case "production":
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

// loadConfig loads the application configuration from environment variables
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	return conf
}

// setupDatabase initializes the database connection and migrates the schema
func setupDatabase(conf *config.Config) *gorm.DB {
	var err error
	db, err = database.InitDatabase(database.DatabaseConfig{
		Driver:   conf.DBDriver,
		Host:     conf.DBHost,
		Port:     conf.DBPort,
		User:     conf.DBUser,
		Password: conf.DBPassword,
		Name:     conf.DBName,
		SSLMode:  conf.DBSSLMode,
		Path:     conf.DBPath,
	})
	checkPanicErr(err)

	// Migrate the schema
	err = db.AutoMigrate(&models.User{}, &models.Client{}, &models.OAuth2Token{})
	checkPanicErr(err)

	return db
}

// setupRouter initializes the Gin router and sets up the routes
// It returns the configured router
func setupRouter() *gin.Engine {
	// Initialize Gin router
	router := gin.Default()
	router.Use(middleware.RequestID())

	// Define routes
	setupRoutes(router)

	return router
}

// setupRoutes defines the routes for the Gin router
func setupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", healthCheckHandler)

	// Token endpoint
	oauth2 := router.Group("/oauth2")
	{
		oauth2.POST("/token", tokenController.Token)
	}

	// Protected resources: bearer authentication resolves the principal
	// set, the per-route policy makes the allow/deny decision
	policy := middleware.APIAccessPolicy()
	api := router.Group("/api")
	api.Use(middleware.BearerAuth(store))
	{
		api.GET("/api1", middleware.RequirePermission(policy, "api1", configuration.Realm), apiController.Api1)
		api.GET("/api2", middleware.RequirePermission(policy, "api2", configuration.Realm), apiController.Api2)
		api.GET("/api3", middleware.RequirePermission(policy, "api3", configuration.Realm), apiController.Api3)
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "oauth2-sample",
	})
}
