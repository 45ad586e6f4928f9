package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/parcelworks/label-service/internal/application"
	"github.com/parcelworks/label-service/internal/domain"
	"github.com/parcelworks/label-service/internal/infrastructure/classify"
	"github.com/parcelworks/label-service/internal/infrastructure/events"
	"github.com/parcelworks/label-service/internal/infrastructure/rateapi"
	"github.com/parcelworks/label-service/internal/normalize"
	"github.com/parcelworks/label-service/pkg/api"
	"github.com/parcelworks/label-service/pkg/logging"
	"github.com/parcelworks/label-service/pkg/metrics"
	"github.com/parcelworks/label-service/pkg/middleware"
)

const serviceName = "label-service"

func main() {
	// Setup logger
	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(getEnv("LOG_LEVEL", "info"))
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting label-service API")

	config := loadConfig()

	// Initialize Prometheus metrics
	m := metrics.New(metrics.DefaultConfig(serviceName))
	logger.Info("Metrics initialized")

	// Rate aggregation client (circuit breaker inside)
	rateClient := rateapi.NewClient(config.RateAPI, logger, m)

	// Classification / address validation client; optional
	var classifier domain.HTSClassifier
	var validator domain.AddressValidator
	if config.Classifier.BaseURL != "" {
		client := classify.NewClient(config.Classifier, logger, m)
		classifier = client
		validator = client
	} else {
		logger.Warn("Classifier URL not configured, using built-in tariff rules only")
	}

	// Kafka publisher; nil when no brokers configured
	publisher := events.NewPublisher(config.Events, logger)
	if publisher != nil {
		defer publisher.Close()
		logger.Info("Kafka publisher initialized", "brokers", config.Events.Brokers)
	}

	parser := normalize.NewParser(logger, m)
	customsBuilder := domain.NewCustomsBuilder(classifier, logger)

	labelService := application.NewLabelService(
		parser,
		rateClient,
		validator,
		customsBuilder,
		publisher,
		logger,
		m,
	)

	// Setup Gin router with middleware
	router := gin.New()

	middlewareConfig := middleware.DefaultConfig(serviceName, logger.Logger)
	middleware.Setup(router, middlewareConfig)
	router.Use(middleware.MetricsMiddleware(m))

	router.NoRoute(middleware.NoRoute())

	router.GET("/health", middleware.HealthCheck(serviceName))
	router.GET("/metrics", middleware.MetricsEndpoint(m))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/labels", createLabelHandler(labelService, logger))

		tools := v1.Group("/tools")
		tools.POST("/parse-input", parseInputHandler(labelService, logger))
		tools.POST("/validate-address", validateAddressHandler(labelService, logger))
		tools.POST("/customs", calculateCustomsHandler(labelService, logger))
		tools.POST("/weight", convertWeightHandler(labelService, logger))
		tools.POST("/carrier", selectCarrierHandler(labelService, logger))
	}

	srv := &http.Server{
		Addr:         config.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
		}
	}()
	logger.Info("Server started", "addr", config.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server stopped")
}

// Config holds application configuration
type Config struct {
	ServerAddr string
	RateAPI    *rateapi.Config
	Classifier *classify.Config
	Events     *events.Config
}

func loadConfig() *Config {
	var brokers []string
	if raw := getEnv("KAFKA_BROKERS", ""); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),
		RateAPI: &rateapi.Config{
			BaseURL: getEnv("RATE_API_URL", "https://api.easypost.com/v2"),
			APIKey:  getEnv("RATE_API_KEY", ""),
			Timeout: 30 * time.Second,
		},
		Classifier: &classify.Config{
			BaseURL: getEnv("CLASSIFIER_URL", ""),
			APIKey:  getEnv("CLASSIFIER_API_KEY", ""),
			Timeout: 15 * time.Second,
		},
		Events: &events.Config{
			Brokers: brokers,
			Topic:   getEnv("KAFKA_TOPIC", events.DefaultTopic),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// HTTP Handlers

func createLabelHandler(service *application.LabelService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.CreateLabelCommand
		if appErr := api.BindAndValidate(c, &cmd); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		outcome := service.CreateShippingLabel(c.Request.Context(), cmd)
		if !outcome.Success {
			c.JSON(http.StatusBadGateway, outcome)
			return
		}
		c.JSON(http.StatusCreated, outcome)
	}
}

func parseInputHandler(service *application.LabelService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req struct {
			InputData string `json:"inputData" binding:"required"`
		}
		if appErr := api.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		c.JSON(http.StatusOK, service.ParseInput(req.InputData))
	}
}

func validateAddressHandler(service *application.LabelService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.ValidateAddressCommand
		if appErr := api.BindAndValidate(c, &cmd); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		c.JSON(http.StatusOK, service.ValidateAddresses(c.Request.Context(), cmd))
	}
}

func calculateCustomsHandler(service *application.LabelService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.CalculateCustomsCommand
		if appErr := api.BindAndValidate(c, &cmd); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		declaration, err := service.CalculateCustoms(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, declaration)
	}
}

func convertWeightHandler(service *application.LabelService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.ConvertWeightCommand
		if appErr := api.BindAndValidate(c, &cmd); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		c.JSON(http.StatusOK, service.ConvertWeight(cmd))
	}
}

func selectCarrierHandler(service *application.LabelService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.SelectCarrierCommand
		if appErr := api.BindAndValidate(c, &cmd); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		c.JSON(http.StatusOK, service.SelectCarrier(cmd))
	}
}
