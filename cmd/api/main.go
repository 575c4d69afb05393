package main

import (
	"fmt"
	"os"

	"contract_billing/internal/adapter/http/routes"
	"contract_billing/internal/config"
	"contract_billing/internal/infrastructure/logger"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"
)

// @title           Contract Billing API
// @version         1.0
// @description     Quote to contract conversion, invoice registry and receivables reporting.

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080

// @BasePath  /v1

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting contract billing service",
		zap.Int("port", cfg.Server.Port),
		zap.Bool("dynamodb_mirror", cfg.DynamoDB.Enabled))

	if err := routes.Run(cfg, log); err != nil {
		log.Fatal("server stopped with error", zap.Error(err))
	}
}
