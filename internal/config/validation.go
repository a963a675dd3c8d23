package config

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Validate runs semantic checks so an invalid config never starts the
// service.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	g := c.Global
	if g.ListenPort <= 0 || g.ListenPort > 65535 {
		return newFieldError("ListenPort", "must be within 1-65535")
	}
	if err := validateHTTPURL(g.OriginURL); err != nil {
		return newFieldError("OriginURL", err.Error())
	}
	if err := validateHTTPURL(g.APIBaseURL); err != nil {
		return newFieldError("APIBaseURL", err.Error())
	}
	if g.UpstreamTimeout.DurationValue() <= 0 {
		return newFieldError("UpstreamTimeout", "must be greater than 0")
	}
	if g.LookupTimeout.DurationValue() <= 0 {
		return newFieldError("LookupTimeout", "must be greater than 0")
	}
	if g.LookupCacheTTL.DurationValue() < 0 {
		return newFieldError("LookupCacheTTL", "must not be negative")
	}
	if g.LookupCacheSize <= 0 {
		return newFieldError("LookupCacheSize", "must be greater than 0")
	}
	if !slugPattern.MatchString(g.DefaultLocationSlug) {
		return newFieldError("DefaultLocationSlug", "must be a lowercase slug")
	}
	if strings.TrimSpace(g.LocationCookie) == "" {
		return newFieldError("LocationCookie", "must not be empty")
	}
	if strings.TrimSpace(g.AuthCookie) == "" {
		return newFieldError("AuthCookie", "must not be empty")
	}

	return nil
}

func validateHTTPURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return errors.New("must not be empty")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("must use http or https")
	}
	if parsed.Host == "" {
		return errors.New("must include a host")
	}
	return nil
}
