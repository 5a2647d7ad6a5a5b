package config

import (
	"os"
	"testing"
	"time"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("setenv %s failed: %v", key, err)
	}
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(key, old)
		} else {
			_ = os.Unsetenv(key)
		}
	})
}

func TestLoadRequiresMySQLDSN(t *testing.T) {
	setEnv(t, "MYSQL_DSN", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when MYSQL_DSN is missing")
	}
}

func TestLoadDefaults(t *testing.T) {
	setEnv(t, "MYSQL_DSN", "user:pass@tcp(localhost:3306)/payments")
	setEnv(t, "HTTP_PORT", "")
	setEnv(t, "LOG_LEVEL", "")
	setEnv(t, "CHARGE_INTERVAL_MINUTES", "")
	setEnv(t, "LEDGER_CONFIRM_POLL_SECONDS", "")
	setEnv(t, "ENTERPRISE_ADDRESSES", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HTTP.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.HTTP.Port)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("expected default log level info, got %s", cfg.Log.Level)
	}
	if cfg.Jobs.ChargeInterval != 5*time.Minute {
		t.Fatalf("expected default charge interval 5m, got %s", cfg.Jobs.ChargeInterval)
	}
	if cfg.Ledger.ConfirmPollInterval != 2*time.Second {
		t.Fatalf("expected default confirm poll 2s, got %s", cfg.Ledger.ConfirmPollInterval)
	}
	if cfg.Entitlements.EnterpriseAddresses != nil {
		t.Fatalf("expected no enterprise addresses, got %v", cfg.Entitlements.EnterpriseAddresses)
	}
}

func TestLoadLedgerAddressesLowercased(t *testing.T) {
	setEnv(t, "MYSQL_DSN", "user:pass@tcp(localhost:3306)/payments")
	setEnv(t, "LEDGER_CONTRACT_ADDRESS", "0xABCDEF0123456789abcdef0123456789ABCDEF01")
	setEnv(t, "LEDGER_WALLET_ADDRESS", "0xA11CE00000000000000000000000000000000001")
	setEnv(t, "ENTERPRISE_ADDRESSES", " 0xAAA , 0xBBB ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Ledger.ContractAddress != "0xabcdef0123456789abcdef0123456789abcdef01" {
		t.Fatalf("contract address not lowercased: %s", cfg.Ledger.ContractAddress)
	}
	if cfg.Ledger.WalletAddress != "0xa11ce00000000000000000000000000000000001" {
		t.Fatalf("wallet address not lowercased: %s", cfg.Ledger.WalletAddress)
	}
	if len(cfg.Entitlements.EnterpriseAddresses) != 2 ||
		cfg.Entitlements.EnterpriseAddresses[0] != "0xaaa" ||
		cfg.Entitlements.EnterpriseAddresses[1] != "0xbbb" {
		t.Fatalf("unexpected enterprise list: %v", cfg.Entitlements.EnterpriseAddresses)
	}
}
