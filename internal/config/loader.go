package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Load reads and parses the TOML config file, injecting defaults and running
// validation.
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.toml"
	}

	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(durationDecodeHook())); err != nil {
		return nil, fmt.Errorf("cannot parse config: %w", err)
	}

	applyGlobalDefaults(&cfg.Global)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ListenPort", 8080)
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogFilePath", "")
	v.SetDefault("LogMaxSize", 100)
	v.SetDefault("LogMaxBackups", 10)
	v.SetDefault("LogCompress", true)
	v.SetDefault("UpstreamTimeout", "30s")
	v.SetDefault("LookupTimeout", "3s")
	v.SetDefault("LookupCacheTTL", "1h")
	v.SetDefault("LookupCacheSize", 4096)
	v.SetDefault("DefaultLocationSlug", "riyadh")
	v.SetDefault("LocationCookie", "selected-location-slug")
	v.SetDefault("AuthCookie", "auth-token")
}

func applyGlobalDefaults(g *GlobalConfig) {
	if g.ListenPort == 0 {
		g.ListenPort = 8080
	}
	if g.UpstreamTimeout.DurationValue() == 0 {
		g.UpstreamTimeout = Duration(30 * time.Second)
	}
	if g.LookupTimeout.DurationValue() == 0 {
		g.LookupTimeout = Duration(3 * time.Second)
	}
	if g.LookupCacheTTL.DurationValue() == 0 {
		g.LookupCacheTTL = Duration(time.Hour)
	}
	if g.LookupCacheSize == 0 {
		g.LookupCacheSize = 4096
	}
	if g.DefaultLocationSlug == "" {
		g.DefaultLocationSlug = "riyadh"
	}
	if g.LocationCookie == "" {
		g.LocationCookie = "selected-location-slug"
	}
	if g.AuthCookie == "" {
		g.AuthCookie = "auth-token"
	}
	for i, slug := range g.ExtraReservedSlugs {
		g.ExtraReservedSlugs[i] = strings.ToLower(strings.TrimSpace(slug))
	}
}

func durationDecodeHook() mapstructure.DecodeHookFunc {
	targetType := reflect.TypeOf(Duration(0))

	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != targetType {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			if v == "" {
				return Duration(0), nil
			}
			if parsed, err := time.ParseDuration(v); err == nil {
				return Duration(parsed), nil
			}
			if seconds, err := strconv.ParseFloat(v, 64); err == nil {
				return Duration(time.Duration(seconds * float64(time.Second))), nil
			}
			return nil, fmt.Errorf("cannot parse duration field: %s", v)
		case int:
			return Duration(time.Duration(v) * time.Second), nil
		case int64:
			return Duration(time.Duration(v) * time.Second), nil
		case float64:
			return Duration(time.Duration(v * float64(time.Second))), nil
		case time.Duration:
			return Duration(v), nil
		case Duration:
			return v, nil
		default:
			return nil, fmt.Errorf("unsupported duration type: %T", v)
		}
	}
}
