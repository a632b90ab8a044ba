package pkm

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like "30m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// Std returns the plain time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the engine's file configuration. All fields have working
// defaults; the file is optional.
type Config struct {
	// DataDir is the directory holding the CSV tables.
	DataDir string `yaml:"data_dir"`

	Provider struct {
		// BaseURL of the quote endpoint.
		BaseURL string `yaml:"base_url"`
		// Timeout for one quote request.
		Timeout Duration `yaml:"timeout"`
	} `yaml:"provider"`

	Pricing struct {
		// TTL bounds the staleness of cached quotes.
		TTL Duration `yaml:"ttl"`
		// FX sanity band and fallback for the settlement pair.
		FXBandLow  float64 `yaml:"fx_band_low"`
		FXBandHigh float64 `yaml:"fx_band_high"`
		FXFallback float64 `yaml:"fx_fallback"`
	} `yaml:"pricing"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	var c Config
	c.DataDir = defaultDataDir()
	c.Provider.BaseURL = "https://query1.finance.yahoo.com"
	c.Provider.Timeout = Duration(5 * time.Second)
	c.Pricing.TTL = Duration(DefaultPriceTTL)
	c.Pricing.FXBandLow = FXBandLow
	c.Pricing.FXBandHigh = FXBandHigh
	c.Pricing.FXFallback = FXFallbackRate
	return c
}

func defaultDataDir() string {
	if dir := os.Getenv("PKM_DATA_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pkm"
	}
	return filepath.Join(home, ".pkm")
}

// DefaultConfigPath is where LoadConfig looks when no path is given,
// overridable through PKM_CONFIG.
func DefaultConfigPath() string {
	if p := os.Getenv("PKM_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pkm.yaml"
	}
	return filepath.Join(home, ".pkm.yaml")
}

// LoadConfig reads a YAML configuration file on top of the defaults. A
// missing file is not an error; zero-valued fields keep their defaults.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	if path == "" {
		path = DefaultConfigPath()
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("could not read config %q: %w", path, err)
	}
	var f Config
	if err := yaml.Unmarshal(data, &f); err != nil {
		return c, fmt.Errorf("could not parse config %q: %w", path, err)
	}
	if f.DataDir != "" {
		c.DataDir = f.DataDir
	}
	if f.Provider.BaseURL != "" {
		c.Provider.BaseURL = f.Provider.BaseURL
	}
	if f.Provider.Timeout > 0 {
		c.Provider.Timeout = f.Provider.Timeout
	}
	if f.Pricing.TTL > 0 {
		c.Pricing.TTL = f.Pricing.TTL
	}
	if f.Pricing.FXBandLow > 0 {
		c.Pricing.FXBandLow = f.Pricing.FXBandLow
	}
	if f.Pricing.FXBandHigh > 0 {
		c.Pricing.FXBandHigh = f.Pricing.FXBandHigh
	}
	if f.Pricing.FXFallback > 0 {
		c.Pricing.FXFallback = f.Pricing.FXFallback
	}
	// env takes precedence over the file for the data directory
	if dir := os.Getenv("PKM_DATA_DIR"); dir != "" {
		c.DataDir = dir
	}
	return c, nil
}
