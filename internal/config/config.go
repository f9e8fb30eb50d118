package config

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/garyjia/coretax-converter/internal/converter"
	"github.com/garyjia/coretax-converter/pkg/utils"
)

// Config holds all application configuration
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Tax    TaxConfig    `mapstructure:"tax"`
	Logger LoggerConfig `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host          string        `mapstructure:"host"`
	Port          int           `mapstructure:"port"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	MaxUploadSize int64         `mapstructure:"max_upload_size"`
}

// TaxConfig holds the conversion defaults required by the Core Tax format
type TaxConfig struct {
	PPNRate         float64 `mapstructure:"ppn_rate"`
	DefaultItemCode string  `mapstructure:"default_item_code"`
	DefaultUnit     string  `mapstructure:"default_unit"`
	SellerNPWP      string  `mapstructure:"seller_npwp"`
	AmountTolerance float64 `mapstructure:"amount_tolerance"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables. A missing
// config file is not an error; defaults and environment cover everything.
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(configPath); statErr == nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8000)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 60*time.Second)
	viper.SetDefault("server.max_upload_size", int64(16<<20))

	// Tax defaults
	viper.SetDefault("tax.ppn_rate", 0.12)
	viper.SetDefault("tax.default_item_code", "310000")
	viper.SetDefault("tax.default_unit", "UM.0003")
	viper.SetDefault("tax.seller_npwp", "0012328415631000")
	viper.SetDefault("tax.amount_tolerance", 0.01)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars() {
	viper.BindEnv("server.port", "PORT")
	viper.BindEnv("tax.ppn_rate", "PPN_RATE")
	viper.BindEnv("tax.default_item_code", "DEFAULT_ITEM_CODE")
	viper.BindEnv("tax.default_unit", "DEFAULT_UNIT")
	viper.BindEnv("tax.seller_npwp", "SELLER_NPWP")
	viper.BindEnv("logger.level", "LOG_LEVEL")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Tax.PPNRate < 0 {
		return fmt.Errorf("tax.ppn_rate must not be negative")
	}
	if c.Tax.PPNRate >= 1 {
		return fmt.Errorf("tax.ppn_rate must be a fraction, e.g. 0.12")
	}
	if c.Tax.DefaultItemCode == "" {
		return fmt.Errorf("tax.default_item_code is required")
	}
	if c.Tax.DefaultUnit == "" {
		return fmt.Errorf("tax.default_unit is required")
	}
	if c.Tax.SellerNPWP == "" {
		return fmt.Errorf("tax.seller_npwp is required")
	}
	if err := utils.ValidateNPWP(c.Tax.SellerNPWP); err != nil {
		return fmt.Errorf("tax.seller_npwp: %w", err)
	}
	if c.Tax.AmountTolerance < 0 {
		return fmt.Errorf("tax.amount_tolerance must not be negative")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	return nil
}

// Converter translates the tax section into the pipeline configuration.
func (c *Config) Converter() converter.Config {
	return converter.Config{
		PPNRate:         decimal.NewFromFloat(c.Tax.PPNRate),
		DefaultItemCode: c.Tax.DefaultItemCode,
		DefaultUnit:     c.Tax.DefaultUnit,
		SellerNPWP:      c.Tax.SellerNPWP,
		AmountTolerance: decimal.NewFromFloat(c.Tax.AmountTolerance),
	}
}
