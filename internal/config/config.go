package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"contract_billing/internal/domain/entities"
	"contract_billing/internal/usecase"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig            `mapstructure:"server"`
	Billing   BillingConfig           `mapstructure:"billing"`
	Numbering usecase.NumberingConfig `mapstructure:"numbering"`
	DynamoDB  DynamoDBConfig          `mapstructure:"dynamodb"`
	Logger    LoggerConfig            `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// BillingConfig holds the engine defaults applied when a request omits them
type BillingConfig struct {
	Currency          string  `mapstructure:"currency"`
	TaxRate           float64 `mapstructure:"tax_rate"`
	PaymentTerms      string  `mapstructure:"payment_terms"`
	PaymentStructure  string  `mapstructure:"payment_structure"`
	MilestoneTierLow  float64 `mapstructure:"milestone_tier_low"`
	MilestoneTierHigh float64 `mapstructure:"milestone_tier_high"`
}

// DynamoDBConfig holds the write-through mirror configuration
type DynamoDBConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	InvoicesTable   string `mapstructure:"invoices_table"`
	ContractsTable  string `mapstructure:"contracts_table"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load reads the optional YAML file at configPath, then environment overrides.
// An empty path loads defaults and environment only.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)

	v.SetDefault("billing.currency", "USD")
	v.SetDefault("billing.tax_rate", 0.0875)
	v.SetDefault("billing.payment_terms", "Net 30")
	v.SetDefault("billing.payment_structure", string(entities.PaymentStructureMilestone))
	v.SetDefault("billing.milestone_tier_low", 5000)
	v.SetDefault("billing.milestone_tier_high", 25000)

	n := usecase.DefaultNumberingConfig()
	v.SetDefault("numbering.prefix", n.Prefix)
	v.SetDefault("numbering.year_format", n.YearFormat)
	v.SetDefault("numbering.sequence_length", n.SequenceLength)
	v.SetDefault("numbering.separator", n.Separator)

	v.SetDefault("dynamodb.enabled", false)
	v.SetDefault("dynamodb.region", "us-east-1")
	v.SetDefault("dynamodb.access_key_id", "local")
	v.SetDefault("dynamodb.secret_access_key", "local")
	v.SetDefault("dynamodb.invoices_table", "invoices")
	v.SetDefault("dynamodb.contracts_table", "contracts")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")
}

// bindEnvVars keeps the env names the DynamoDB deployment already uses
func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("dynamodb.region", "AWS_REGION")
	_ = v.BindEnv("dynamodb.endpoint", "DYNAMODB_ENDPOINT")
	_ = v.BindEnv("dynamodb.access_key_id", "AWS_ACCESS_KEY_ID")
	_ = v.BindEnv("dynamodb.secret_access_key", "AWS_SECRET_ACCESS_KEY")
	_ = v.BindEnv("dynamodb.enabled", "DYNAMODB_ENABLED")
	_ = v.BindEnv("logger.level", "LOG_LEVEL")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	if err := c.Numbering.Validate(); err != nil {
		return err
	}
	if c.Billing.TaxRate < 0 {
		return errors.New("billing.tax_rate must not be negative")
	}
	if c.Billing.MilestoneTierLow <= 0 || c.Billing.MilestoneTierHigh < c.Billing.MilestoneTierLow {
		return fmt.Errorf("billing milestone tiers out of order: low=%v high=%v", c.Billing.MilestoneTierLow, c.Billing.MilestoneTierHigh)
	}
	if !entities.PaymentStructureType(c.Billing.PaymentStructure).IsValid() {
		return fmt.Errorf("billing.payment_structure %q is unknown", c.Billing.PaymentStructure)
	}
	if c.DynamoDB.Enabled && (c.DynamoDB.InvoicesTable == "" || c.DynamoDB.ContractsTable == "") {
		return errors.New("dynamodb tables are required when the mirror is enabled")
	}
	return nil
}

func (b BillingConfig) TaxRateDecimal() decimal.Decimal {
	return decimal.NewFromFloat(b.TaxRate)
}

func (b BillingConfig) Tiers() usecase.MilestoneTiers {
	return usecase.MilestoneTiers{
		Low:  decimal.NewFromFloat(b.MilestoneTierLow),
		High: decimal.NewFromFloat(b.MilestoneTierHigh),
	}
}

func (b BillingConfig) ConversionDefaults() usecase.ConversionDefaults {
	return usecase.ConversionDefaults{
		Structure:    entities.PaymentStructureType(b.PaymentStructure),
		Currency:     strings.ToUpper(b.Currency),
		PaymentTerms: b.PaymentTerms,
	}
}
