package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadSettings(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "cgt.yaml")
	content := `
references: [btc]
precision: 6
gift_comment: donation
http:
  timeout: 2s
  retries: 1
coinmarketcap:
  overrides:
    abc: alphabet
`
	if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSettings(name)
	if err != nil {
		t.Fatalf("LoadSettings() unexpected error: %v", err)
	}
	cfg := s.Config()
	if diff := cmp.Diff([]string{"btc"}, cfg.References); diff != "" {
		t.Errorf("References mismatch (-want +got):\n%s", diff)
	}
	if cfg.Precision != 6 || cfg.GiftComment != "donation" {
		t.Errorf("Config() = %+v, want precision 6 and gift comment %q", cfg, "donation")
	}
	if cfg.Workers != DefaultSettings().Workers {
		t.Errorf("Workers = %d, want the default %d", cfg.Workers, DefaultSettings().Workers)
	}
	if len(cfg.Fiat) == 0 {
		t.Error("Fiat is empty, want the default list")
	}
	opts := s.PricingOptions()
	if opts.Timeout != 2*time.Second || opts.Retries != 1 {
		t.Errorf("PricingOptions() = %+v, want timeout 2s and 1 retry", opts)
	}
	if got := s.CoinMarketCap.Overrides["abc"]; got != "alphabet" {
		t.Errorf("Overrides[abc] = %q, want %q", got, "alphabet")
	}
}

func TestLoadSettings_Missing(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("LoadSettings() unexpected error: %v", err)
	}
	if diff := cmp.Diff(DefaultSettings(), s); diff != "" {
		t.Errorf("LoadSettings() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadSettings_Invalid(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"syntax", "references: [btc"},
		{"unknown fiat", "fiat: [ZZZ]"},
		{"precision", "precision: 40"},
		{"workers", "workers: 0"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			name := filepath.Join(t.TempDir(), "cgt.yaml")
			if err := os.WriteFile(name, []byte(tc.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadSettings(name); err == nil {
				t.Errorf("LoadSettings(%q) want an error", tc.content)
			}
		})
	}
}

func TestLoadEnv(t *testing.T) {
	name := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(name, []byte(EnvCryptoCompareKey+"=from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvCryptoCompareKey, "")
	os.Unsetenv(EnvCryptoCompareKey)

	if err := loadEnv(name); err != nil {
		t.Fatalf("loadEnv() unexpected error: %v", err)
	}
	if got := DefaultSettings().cryptoCompareKey(); got != "from-file" {
		t.Errorf("cryptoCompareKey() = %q, want %q", got, "from-file")
	}
	if err := loadEnv(filepath.Join(t.TempDir(), "missing")); err != nil {
		t.Errorf("loadEnv() of a missing file: unexpected error: %v", err)
	}
}

func TestParseCurrencies(t *testing.T) {
	testCases := []struct {
		list string
		want []string
	}{
		{"BTC,ETH", []string{"BTC", "ETH"}},
		{" btc , , eth ", []string{"BTC", "ETH"}},
		{"", nil},
	}
	for _, tc := range testCases {
		if got := parseCurrencies(tc.list); !cmp.Equal(got, tc.want) {
			t.Errorf("parseCurrencies(%q) = %v, want %v", tc.list, got, tc.want)
		}
	}
}
