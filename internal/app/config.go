package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"slinger/internal/crypto"
	"slinger/internal/platform/logging"
	"slinger/internal/services/identity"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home                string           `yaml:"home"`          // data directory, e.g. $HOME/.slinger
	RSABits             int              `yaml:"rsa_bits"`      // 2048, 3072 or 4096
	AESKeyBytes         int              `yaml:"aes_key_bytes"` // packet key size: 16, 24 or 32
	KDF                 crypto.KDFParams `yaml:"kdf"`
	Unlock              UnlockConfig     `yaml:"unlock"`
	MinPassphraseLength int              `yaml:"min_passphrase_length"`
	Log                 LogConfig        `yaml:"log"`
}

// UnlockConfig throttles private key unlocks. A zero rate disables
// throttling.
type UnlockConfig struct {
	RatePerMinute float64 `yaml:"rate_per_minute"`
	Burst         int     `yaml:"burst"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Home:                defaultHome(),
		RSABits:             2048,
		AESKeyBytes:         crypto.AESKeySize,
		KDF:                 crypto.DefaultKDFParams(),
		Unlock:              UnlockConfig{Burst: 5},
		MinPassphraseLength: identity.DefaultMinPassphraseLength,
		Log:                 LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads the YAML file at path over the defaults, applies environment
// overrides and validates the result. An empty path skips the file; a
// missing file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	}
	if err := ApplyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	cfg.Home = expandHome(cfg.Home)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnvOverrides applies SLINGER_HOME, SLINGER_RSA_BITS, SLINGER_KDF and
// SLINGER_LOG_LEVEL.
func ApplyEnvOverrides(cfg *Config) error {
	if home := strings.TrimSpace(os.Getenv("SLINGER_HOME")); home != "" {
		cfg.Home = home
	}
	if raw := strings.TrimSpace(os.Getenv("SLINGER_RSA_BITS")); raw != "" {
		bits, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("SLINGER_RSA_BITS: %w", err)
		}
		cfg.RSABits = bits
	}
	if kdf := strings.TrimSpace(os.Getenv("SLINGER_KDF")); kdf != "" {
		cfg.KDF.Name = strings.ToLower(kdf)
	}
	if level := strings.TrimSpace(os.Getenv("SLINGER_LOG_LEVEL")); level != "" {
		cfg.Log.Level = level
	}
	return nil
}

// Validate rejects settings the core would refuse later.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Home) == "" {
		errs = append(errs, errors.New("home must be set"))
	}
	if !crypto.ValidRSABits(c.RSABits) {
		errs = append(errs, fmt.Errorf("rsa_bits %d not in %v", c.RSABits, crypto.AllowedRSABits()))
	}
	if !crypto.ValidAESKeySize(c.AESKeyBytes) {
		errs = append(errs, fmt.Errorf("aes_key_bytes %d must be 16, 24 or 32", c.AESKeyBytes))
	}
	if err := c.KDF.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("kdf: %w", err))
	}
	if c.Unlock.RatePerMinute < 0 {
		errs = append(errs, errors.New("unlock.rate_per_minute must not be negative"))
	}
	if c.Unlock.RatePerMinute > 0 && c.Unlock.Burst < 1 {
		errs = append(errs, errors.New("unlock.burst must be at least 1"))
	}
	if c.MinPassphraseLength < 1 {
		errs = append(errs, errors.New("min_passphrase_length must be at least 1"))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

func defaultHome() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		return ".slinger"
	}
	return filepath.Join(dir, ".slinger")
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(dir, strings.TrimPrefix(p, "~"))
}
