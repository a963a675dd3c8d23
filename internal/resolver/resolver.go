// Package resolver implements the edge request-path resolution policy: a
// synchronous decision applied once per inbound request, before the
// rendering origin sees it. Rules are evaluated in strict priority order and
// exactly one outcome is produced.
package resolver

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dalil-edge/dalil-edge/internal/logging"
)

// CategoryLookup reports whether a category is registered under a slug. It
// is the resolver's only fallible collaborator; any error it returns is
// swallowed and treated as "category does not exist".
type CategoryLookup interface {
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}

// LookupFunc adapts a function to the CategoryLookup interface.
type LookupFunc func(ctx context.Context, slug string) (bool, error)

// ExistsBySlug makes LookupFunc satisfy CategoryLookup.
func (f LookupFunc) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	return f(ctx, slug)
}

const (
	defaultLocationSlug   = "riyadh"
	defaultLocationCookie = "selected-location-slug"
	defaultAuthCookie     = "auth-token"
	defaultLookupTimeout  = 3 * time.Second

	redirectMarker = "_redirected"
)

var sitemapChunkPattern = regexp.MustCompile(`^/sitemap-(\d+)\.xml$`)

// Options configures a Resolver. Zero values fall back to the production
// defaults, so tests only set what they care about.
type Options struct {
	Lookup              CategoryLookup
	LookupTimeout       time.Duration
	DefaultLocationSlug string
	LocationCookie      string
	AuthCookie          string
	ExtraReservedSlugs  []string
	Logger              *logrus.Logger
}

// Resolver classifies requests into redirect, rewrite, or pass-through.
// It is stateless per call and safe for concurrent use.
type Resolver struct {
	lookup          CategoryLookup
	lookupTimeout   time.Duration
	defaultLocation string
	locationCookie  string
	authCookie      string
	reserved        map[string]struct{}
	logger          *logrus.Logger
}

// New builds a Resolver, applying defaults for unset options.
func New(opts Options) *Resolver {
	if opts.LookupTimeout <= 0 {
		opts.LookupTimeout = defaultLookupTimeout
	}
	if opts.DefaultLocationSlug == "" {
		opts.DefaultLocationSlug = defaultLocationSlug
	}
	if opts.LocationCookie == "" {
		opts.LocationCookie = defaultLocationCookie
	}
	if opts.AuthCookie == "" {
		opts.AuthCookie = defaultAuthCookie
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	return &Resolver{
		lookup:          opts.Lookup,
		lookupTimeout:   opts.LookupTimeout,
		defaultLocation: opts.DefaultLocationSlug,
		locationCookie:  opts.LocationCookie,
		authCookie:      opts.AuthCookie,
		reserved:        reservedSlugSet(opts.ExtraReservedSlugs),
		logger:          opts.Logger,
	}
}

// Resolve applies the rule chain to one request. First match wins; later
// rules assume earlier ones did not fire. The category lookup is the only
// suspend point and is bounded by the configured timeout.
func (r *Resolver) Resolve(ctx context.Context, req IncomingRequest) Outcome {
	// Rule 1: strip a www. host prefix once, marking the redirected URL so
	// the next pass short-circuits instead of looping.
	host := strings.ToLower(strings.TrimSpace(req.Host))
	if strings.HasPrefix(host, "www.") && req.queryParam(redirectMarker) != "1" {
		location := "https://" + strings.TrimPrefix(host, "www.") + req.Path +
			"?" + encodeQuery(req.Query, redirectMarker, "1")
		return redirect(RuleCanonicalHost, location)
	}

	// Rule 2: the bare listing path gets a location from the cookie, else
	// the configured default city.
	if req.Path == "/businesses" {
		location := req.cookie(r.locationCookie)
		if location == "" {
			location = r.defaultLocation
		}
		return redirect(RuleDefaultLocation, "/businesses/in/"+location)
	}

	// Rule 3: sitemap chunks are an internal route keyed by index.
	if m := sitemapChunkPattern.FindStringSubmatch(req.Path); m != nil {
		return rewrite(RuleSitemapChunk, "/sitemap-chunk", encodeQuery(req.Query, "index", m[1]))
	}

	// Rule 4: gated areas require an auth cookie to be present. Token
	// contents are validated downstream, not here.
	if strings.HasPrefix(req.Path, "/dashboard") || strings.HasPrefix(req.Path, "/admin") {
		if req.cookie(r.authCookie) == "" {
			return redirect(RuleAuthGate, "/")
		}
	}

	// Rule 5: a single non-reserved segment may be a category slug.
	if slug, ok := r.categorySlug(req.Path); ok {
		if exists := r.categoryExists(ctx, slug); exists {
			return rewrite(RuleCategoryRewrite, "/category/"+slug, encodeQuery(req.Query))
		}
	}

	// Rule 6: everything else passes through with security headers.
	return passThrough()
}

// categorySlug extracts the candidate slug from a single-segment path. The
// segment is URL-decoded and lowercased before comparisons; reserved slugs
// and dotted names (static files) never qualify.
func (r *Resolver) categorySlug(path string) (string, bool) {
	segment := strings.TrimPrefix(path, "/")
	if segment == "" || strings.Contains(segment, "/") {
		return "", false
	}

	decoded, err := url.PathUnescape(segment)
	if err != nil {
		decoded = segment
	}
	slug := strings.ToLower(decoded)

	if _, reserved := r.reserved[slug]; reserved {
		return "", false
	}
	if strings.Contains(slug, ".") {
		return "", false
	}
	return slug, true
}

// categoryExists consults the collaborator under a bounded timeout. Lookup
// failure degrades silently to "does not exist" so a flaky backend can never
// surface as a user-visible error.
func (r *Resolver) categoryExists(ctx context.Context, slug string) bool {
	if r.lookup == nil {
		return false
	}

	lookupCtx, cancel := context.WithTimeout(ctx, r.lookupTimeout)
	defer cancel()

	exists, err := r.lookup.ExistsBySlug(lookupCtx, slug)
	if err != nil {
		fields := logging.ResolveFields(RuleCategoryRewrite, "", "/"+slug, "lookup_failed")
		r.logger.WithError(err).WithFields(fields).Warn("category lookup failed")
		return false
	}
	return exists
}

// encodeQuery renders the query map plus optional override key/value pairs
// into canonical encoded form.
func encodeQuery(query map[string]string, overrides ...string) string {
	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	for i := 0; i+1 < len(overrides); i += 2 {
		values.Set(overrides[i], overrides[i+1])
	}
	return values.Encode()
}
