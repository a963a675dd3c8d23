package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `
OriginURL = "http://storefront.internal:3000"
APIBaseURL = "https://api.dalil.example/v1"
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("load error: %v", err)
	}

	g := cfg.Global
	if g.ListenPort != 8080 {
		t.Fatalf("expected default port 8080, got %d", g.ListenPort)
	}
	if g.LogLevel != "info" {
		t.Fatalf("expected default log level info, got %s", g.LogLevel)
	}
	if g.LookupTimeout.DurationValue() != 3*time.Second {
		t.Fatalf("expected 3s lookup timeout, got %v", g.LookupTimeout.DurationValue())
	}
	if g.LookupCacheTTL.DurationValue() != time.Hour {
		t.Fatalf("expected 1h lookup cache TTL, got %v", g.LookupCacheTTL.DurationValue())
	}
	if g.DefaultLocationSlug != "riyadh" {
		t.Fatalf("expected default location riyadh, got %s", g.DefaultLocationSlug)
	}
	if g.LocationCookie != "selected-location-slug" || g.AuthCookie != "auth-token" {
		t.Fatalf("unexpected cookie names: %s / %s", g.LocationCookie, g.AuthCookie)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig+`
ListenPort = 9100
LookupTimeout = "1500ms"
LookupCacheTTL = 600
DefaultLocationSlug = "jeddah"
ExtraReservedSlugs = ["Careers", "press"]
`))
	if err != nil {
		t.Fatalf("load error: %v", err)
	}

	g := cfg.Global
	if g.ListenPort != 9100 {
		t.Fatalf("expected port 9100, got %d", g.ListenPort)
	}
	if g.LookupTimeout.DurationValue() != 1500*time.Millisecond {
		t.Fatalf("expected 1.5s lookup timeout, got %v", g.LookupTimeout.DurationValue())
	}
	if g.LookupCacheTTL.DurationValue() != 10*time.Minute {
		t.Fatalf("bare seconds should parse, got %v", g.LookupCacheTTL.DurationValue())
	}
	if g.DefaultLocationSlug != "jeddah" {
		t.Fatalf("expected jeddah, got %s", g.DefaultLocationSlug)
	}
	if len(g.ExtraReservedSlugs) != 2 || g.ExtraReservedSlugs[0] != "careers" {
		t.Fatalf("extra reserved slugs should be normalized, got %v", g.ExtraReservedSlugs)
	}
}

func TestLoadRejectsMissingOrigin(t *testing.T) {
	_, err := Load(writeConfig(t, `APIBaseURL = "https://api.dalil.example/v1"`))
	assertFieldError(t, err, "OriginURL")
}

func TestLoadRejectsBadURLScheme(t *testing.T) {
	_, err := Load(writeConfig(t, `
OriginURL = "ftp://storefront.internal"
APIBaseURL = "https://api.dalil.example/v1"
`))
	assertFieldError(t, err, "OriginURL")
}

func TestLoadRejectsBadLocationSlug(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+`DefaultLocationSlug = "Riyadh City"`))
	assertFieldError(t, err, "DefaultLocationSlug")
}

func TestLoadRejectsBadPort(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+`ListenPort = 70000`))
	assertFieldError(t, err, "ListenPort")
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func assertFieldError(t *testing.T, err error, field string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected validation error for %s", field)
	}
	var fieldErr FieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("expected FieldError, got %v", err)
	}
	if fieldErr.Field != field {
		t.Fatalf("expected field %s, got %s", field, fieldErr.Field)
	}
}
