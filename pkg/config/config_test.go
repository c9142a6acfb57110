package config

import (
	"testing"

	"github.com/shopspring/decimal"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_EMAIL_VERIFICATION_KEY", "0123456789abcdef0123456789abcdef")
	t.Setenv("DB_PASSWORD", "postgres")
}

func TestLoad_ParsesRate(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TSU_RATE_USD", "2.50")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.TSU.RateUSD.Equal(decimal.NewFromFloat(2.50)) {
		t.Errorf("expected rate 2.50, got %s", cfg.TSU.RateUSD)
	}
}

func TestLoad_RejectsNonPositiveRate(t *testing.T) {
	setRequiredEnv(t)

	for _, rate := range []string{"0", "-1", "not-a-number"} {
		t.Setenv("TSU_RATE_USD", rate)
		if _, err := Load(); err == nil {
			t.Errorf("expected error for rate %q", rate)
		}
	}
}

func TestLoad_RequiresSecrets(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Error("expected error for missing jwt secret")
	}
}
