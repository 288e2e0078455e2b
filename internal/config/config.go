// Package config loads transport overrides from an optional .env file and
// the environment, with a load-once, file-then-env-override pattern.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds the overridable transport parameters. Zero values mean
// "use the built-in default" (see transport.DefaultVendorID and friends).
type Config struct {
	VendorID  uint16
	ProductID uint16
	Timeout   time.Duration
}

var (
	loaded    *Config
	wasLoaded bool
)

// Load reads POLARWATCH_VENDOR_ID, POLARWATCH_PRODUCT_ID, and
// POLARWATCH_TIMEOUT from an optional .env file in the project root,
// then lets real environment variables override the file. Results are
// cached after the first successful load.
func Load() (*Config, error) {
	if wasLoaded {
		return loaded, nil
	}

	cfg := &Config{}

	projectRoot := findProjectRoot()
	envPath := filepath.Join(projectRoot, ".env")
	if data, err := os.ReadFile(envPath); err == nil {
		parseEnvFile(string(data), cfg)
	}

	if v := os.Getenv("POLARWATCH_VENDOR_ID"); v != "" {
		if id, err := parseHexOrDec(v); err == nil {
			cfg.VendorID = id
		}
	}
	if v := os.Getenv("POLARWATCH_PRODUCT_ID"); v != "" {
		if id, err := parseHexOrDec(v); err == nil {
			cfg.ProductID = id
		}
	}
	if v := os.Getenv("POLARWATCH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		}
	}

	loaded = cfg
	wasLoaded = true
	return cfg, nil
}

func parseEnvFile(content string, cfg *Config) {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch key {
		case "POLARWATCH_VENDOR_ID":
			if id, err := parseHexOrDec(value); err == nil {
				cfg.VendorID = id
			}
		case "POLARWATCH_PRODUCT_ID":
			if id, err := parseHexOrDec(value); err == nil {
				cfg.ProductID = id
			}
		case "POLARWATCH_TIMEOUT":
			if d, err := time.ParseDuration(value); err == nil {
				cfg.Timeout = d
			}
		}
	}
}

// parseHexOrDec accepts plain decimal ("2020") or 0x-prefixed hex
// ("0x0da4"), matching how USB vendor/product IDs are usually written.
func parseHexOrDec(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}

func findProjectRoot() string {
	cwd, _ := os.Getwd()
	if _, err := os.Stat(filepath.Join(cwd, ".env")); err == nil {
		return cwd
	}
	for {
		if _, err := os.Stat(filepath.Join(cwd, "go.mod")); err == nil {
			return cwd
		}
		parent := filepath.Dir(cwd)
		if parent == cwd {
			return cwd
		}
		cwd = parent
	}
}
