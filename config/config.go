package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App          AppConfig
	HTTP         ServerConfig
	MySQL        MySQLConfig
	Log          LogConfig
	Ledger       LedgerConfig
	Entitlements EntitlementConfig
	Jobs         JobsConfig
}

type AppConfig struct {
	ServiceName string
	APIKey      string
}

type ServerConfig struct {
	Host string
	Port string
}

type MySQLConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LogConfig struct {
	Level string
}

// LedgerConfig wires the EVM node and the deployed contracts. WalletAddress is
// the operator account unlocked on the node; it signs approve/subscribe/charge
// transactions. ConfirmPollInterval paces receipt polling; confirmation waits
// have no upper bound besides context cancellation.
type LedgerConfig struct {
	RPCURL              string
	ContractAddress     string
	TokenAddress        string
	WalletAddress       string
	ConfirmPollInterval time.Duration
}

type EntitlementConfig struct {
	EnterpriseAddresses []string
}

type JobsConfig struct {
	ChargeInterval time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		return nil, errors.New("MYSQL_DSN environment variable is required")
	}

	return &Config{
		App: AppConfig{
			ServiceName: getEnv("APP_SERVICE_NAME", "recurring-payments-service"),
			APIKey:      getEnv("APP_API_KEY", ""),
		},
		HTTP: ServerConfig{
			Host: getEnv("HTTP_HOST", "0.0.0.0"),
			Port: getEnv("HTTP_PORT", "8080"),
		},
		MySQL: MySQLConfig{
			DSN:             mysqlDSN,
			MaxOpenConns:    getIntEnv("MYSQL_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getIntEnv("MYSQL_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDurationEnv("MYSQL_CONN_MAX_LIFETIME_MINUTES", 30*time.Minute),
		},
		Log: LogConfig{Level: getEnv("LOG_LEVEL", "info")},
		Ledger: LedgerConfig{
			RPCURL:              getEnv("LEDGER_RPC_URL", ""),
			ContractAddress:     strings.ToLower(getEnv("LEDGER_CONTRACT_ADDRESS", "")),
			TokenAddress:        strings.ToLower(getEnv("LEDGER_TOKEN_ADDRESS", "")),
			WalletAddress:       strings.ToLower(getEnv("LEDGER_WALLET_ADDRESS", "")),
			ConfirmPollInterval: getSecondsEnv("LEDGER_CONFIRM_POLL_SECONDS", 2*time.Second),
		},
		Entitlements: EntitlementConfig{
			EnterpriseAddresses: getListEnv("ENTERPRISE_ADDRESSES"),
		},
		Jobs: JobsConfig{
			ChargeInterval: getDurationEnv("CHARGE_INTERVAL_MINUTES", 5*time.Minute),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

func getSecondsEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}

func getListEnv(key string) []string {
	raw := os.Getenv(key)
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.ToLower(strings.TrimSpace(part)); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
