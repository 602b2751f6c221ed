package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"github.com/etnz/gains"
	"github.com/etnz/gains/pricing"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvCryptoCompareKey names the environment variable holding the optional
// CryptoCompare API key.
const EnvCryptoCompareKey = "CRYPTOCOMPARE_API_KEY"

// Settings is the content of the configuration file.
type Settings struct {
	Fiat        []string `yaml:"fiat"`
	References  []string `yaml:"references"`
	Precision   int32    `yaml:"precision"`
	GiftComment string   `yaml:"gift_comment"`
	Workers     int      `yaml:"workers"`

	HTTP struct {
		Timeout  time.Duration `yaml:"timeout"`
		Retries  uint64        `yaml:"retries"`
		Backoff  time.Duration `yaml:"backoff"`
		Rate     float64       `yaml:"rate"`
		CacheDir string        `yaml:"cache_dir"`
	} `yaml:"http"`

	CryptoCompare struct {
		URL    string `yaml:"url"`
		APIKey string `yaml:"api_key"`
	} `yaml:"cryptocompare"`

	CoinMarketCap struct {
		URL       string            `yaml:"url"`
		Overrides map[string]string `yaml:"overrides"`
	} `yaml:"coinmarketcap"`
}

// DefaultSettings returns the settings used when there is no configuration
// file.
func DefaultSettings() Settings {
	cfg := gains.DefaultConfig()
	opts := pricing.DefaultOptions()

	var s Settings
	s.Fiat = cfg.Fiat
	s.References = cfg.References
	s.Precision = cfg.Precision
	s.GiftComment = cfg.GiftComment
	s.Workers = cfg.Workers
	s.HTTP.Timeout = opts.Timeout
	s.HTTP.Retries = opts.Retries
	s.HTTP.Backoff = opts.Backoff
	s.HTTP.Rate = opts.Rate
	s.HTTP.CacheDir = opts.CacheDir
	s.CryptoCompare.URL = pricing.CryptoCompareURL
	s.CoinMarketCap.URL = pricing.CoinMarketCapURL
	s.CoinMarketCap.Overrides = pricing.DefaultOverrides()
	return s
}

// LoadSettings reads the configuration file name over the default settings.
// A missing file is not an error.
func LoadSettings(name string) (Settings, error) {
	s := DefaultSettings()
	content, err := os.ReadFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("no configuration file %q, using defaults", name)
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("cannot read configuration %q: %w", name, err)
	}
	if err := yaml.Unmarshal(content, &s); err != nil {
		return s, fmt.Errorf("invalid configuration %q: %w", name, err)
	}
	return s, s.Config().Validate()
}

// loadEnv loads the dotenv file name into the environment, variables already
// set win. A missing file is not an error.
func loadEnv(name string) error {
	if name == "" {
		return nil
	}
	err := godotenv.Load(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot load %q: %w", name, err)
	}
	return nil
}

// Config returns the engine configuration.
func (s Settings) Config() gains.Config {
	return gains.Config{
		Fiat:        s.Fiat,
		References:  s.References,
		Precision:   s.Precision,
		GiftComment: s.GiftComment,
		Workers:     s.Workers,
	}
}

// PricingOptions returns the HTTP options of the price services.
func (s Settings) PricingOptions() pricing.Options {
	return pricing.Options{
		Timeout:  s.HTTP.Timeout,
		Retries:  s.HTTP.Retries,
		Backoff:  s.HTTP.Backoff,
		Rate:     s.HTTP.Rate,
		CacheDir: s.HTTP.CacheDir,
	}
}

// cryptoCompareKey returns the API key from the settings, or from the
// environment.
func (s Settings) cryptoCompareKey() string {
	if s.CryptoCompare.APIKey != "" {
		return s.CryptoCompare.APIKey
	}
	return os.Getenv(EnvCryptoCompareKey)
}

// pricers returns the price services, nil ones when offline.
func (s Settings) pricers(offline bool) (gains.HistoricalPricer, gains.CurrentPricer) {
	if offline {
		return nil, nil
	}
	opts := s.PricingOptions()
	return pricing.NewCryptoCompare(s.CryptoCompare.URL, s.cryptoCompareKey(), opts),
		pricing.NewCoinMarketCap(s.CoinMarketCap.URL, s.CoinMarketCap.Overrides, opts)
}

// parseCurrencies parses a comma separated list of currency codes.
func parseCurrencies(list string) []string {
	var codes []string
	for _, code := range strings.Split(list, ",") {
		if code = strings.ToUpper(strings.TrimSpace(code)); code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}

// setup loads the environment and the settings shared by every command.
func setup() (Settings, error) {
	setupLogging()
	if err := loadEnv(*envFile); err != nil {
		return Settings{}, err
	}
	return LoadSettings(*configFile)
}
