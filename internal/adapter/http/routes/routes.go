package routes

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "contract_billing/docs"
	"contract_billing/internal/adapter/http/handlers"
	"contract_billing/internal/adapter/persistence/repository"
	"contract_billing/internal/config"
	"contract_billing/internal/infrastructure/database"
	"contract_billing/internal/usecase"
	"contract_billing/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Run wires the engine and serves it until SIGINT or SIGTERM.
func Run(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	h, err := BuildHandlers(ctx, cfg, logger)
	if err != nil {
		return err
	}
	router := NewRouter(h, logger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start http server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// NewRouter mounts swagger and the /v1 API.
func NewRouter(h Handlers, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	setMiddlewares(router, logger)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addBillingRoutes(v1, h)
	return router
}

// BuildHandlers assembles the engine. With the DynamoDB mirror enabled,
// previously mirrored contracts and invoices are loaded before serving.
func BuildHandlers(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Handlers, error) {
	validator := usecase.NewValidator()
	reminders := usecase.NewReminderScheduler(logger)
	regOpts := []usecase.RegistryOption{
		usecase.WithRegistryLogger(logger),
		usecase.WithReminderScheduler(reminders),
	}

	var contractRepo interfaces.IContractRepository
	if cfg.DynamoDB.Enabled {
		ddb, err := database.ConnectDynamoDB(ctx, database.DynamoDBConfig{
			Region:          cfg.DynamoDB.Region,
			Endpoint:        cfg.DynamoDB.Endpoint,
			AccessKeyID:     cfg.DynamoDB.AccessKeyID,
			SecretAccessKey: cfg.DynamoDB.SecretAccessKey,
		})
		if err != nil {
			return Handlers{}, fmt.Errorf("failed to create dynamodb client: %w", err)
		}
		regOpts = append(regOpts, usecase.WithInvoiceMirror(repository.NewInvoiceDynamoRepository(ddb, cfg.DynamoDB.InvoicesTable)))
		contractRepo = repository.NewContractDynamoRepository(ddb, cfg.DynamoDB.ContractsTable)
	}

	registry := usecase.NewInvoiceRegistry(cfg.Numbering, validator, regOpts...)
	contracts := usecase.NewContractStore(contractRepo, logger)
	if cfg.DynamoDB.Enabled {
		if _, err := contracts.Load(ctx); err != nil {
			return Handlers{}, fmt.Errorf("failed to load contracts: %w", err)
		}
		if _, err := registry.Load(ctx); err != nil {
			return Handlers{}, fmt.Errorf("failed to load invoices: %w", err)
		}
	}

	conversions := usecase.NewConversionUseCase(
		usecase.NewScheduleGenerator(validator, cfg.Billing.Tiers()),
		usecase.NewContractBuilder(usecase.DefaultTemplateCatalog(), validator, nil, nil),
		usecase.NewInvoiceGenerator(cfg.Billing.TaxRateDecimal(), nil),
		registry,
		contracts,
		cfg.Billing.ConversionDefaults(),
		logger,
	)

	return Handlers{
		Conversion: handlers.NewConversionHandler(conversions),
		Invoice:    handlers.NewInvoiceHandler(conversions, registry),
		Report:     handlers.NewReportHandler(registry),
	}, nil
}

func setMiddlewares(router *gin.Engine, logger *zap.Logger) {
	router.Use(requestLogger(logger))
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("recovered from panic", zap.Any("panic", recovered))
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		logger.Info("http request", fields...)
	}
}
