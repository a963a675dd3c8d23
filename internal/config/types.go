package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration accepts both plain integer seconds and Go duration strings in the
// config file.
type Duration time.Duration

// UnmarshalText lets Viper recognize values such as "30s", "5m", or bare
// second counts.
func (d *Duration) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" {
		*d = Duration(0)
		return nil
	}

	if parsed, err := time.ParseDuration(raw); err == nil {
		*d = Duration(parsed)
		return nil
	}

	if intVal, err := parseInt(raw); err == nil {
		*d = Duration(time.Duration(intVal) * time.Second)
		return nil
	}

	return fmt.Errorf("invalid duration value: %s", raw)
}

// DurationValue returns the underlying time.Duration.
func (d Duration) DurationValue() time.Duration {
	return time.Duration(d)
}

// parseInt accepts decimal or 0x-prefixed hexadecimal strings.
func parseInt(value string) (int64, error) {
	if strings.HasPrefix(value, "0x") || strings.HasPrefix(value, "0X") {
		return strconv.ParseInt(value, 0, 64)
	}
	return strconv.ParseInt(value, 10, 64)
}

// GlobalConfig describes the edge gateway's runtime behavior.
type GlobalConfig struct {
	ListenPort    int    `mapstructure:"ListenPort"`
	LogLevel      string `mapstructure:"LogLevel"`
	LogFilePath   string `mapstructure:"LogFilePath"`
	LogMaxSize    int    `mapstructure:"LogMaxSize"`
	LogMaxBackups int    `mapstructure:"LogMaxBackups"`
	LogCompress   bool   `mapstructure:"LogCompress"`

	// OriginURL is the rendering origin every non-redirect request is
	// forwarded to. APIBaseURL is the directory REST backend consulted for
	// category and business lookups.
	OriginURL  string `mapstructure:"OriginURL"`
	APIBaseURL string `mapstructure:"APIBaseURL"`

	UpstreamTimeout Duration `mapstructure:"UpstreamTimeout"`
	LookupTimeout   Duration `mapstructure:"LookupTimeout"`
	LookupCacheTTL  Duration `mapstructure:"LookupCacheTTL"`
	LookupCacheSize int      `mapstructure:"LookupCacheSize"`

	DefaultLocationSlug string   `mapstructure:"DefaultLocationSlug"`
	LocationCookie      string   `mapstructure:"LocationCookie"`
	AuthCookie          string   `mapstructure:"AuthCookie"`
	ExtraReservedSlugs  []string `mapstructure:"ExtraReservedSlugs"`
}

// Config is the full structure the TOML file maps onto.
type Config struct {
	Global GlobalConfig `mapstructure:",squash"`
}
