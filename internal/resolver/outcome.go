package resolver

// Kind discriminates the resolver outcome variants.
type Kind int

const (
	// KindPassThrough forwards the request unchanged with security headers.
	KindPassThrough Kind = iota
	// KindRedirect answers the request with a Location header.
	KindRedirect
	// KindRewrite substitutes the internal routing path before forwarding.
	KindRewrite
)

// Rule labels for structured logs.
const (
	RuleCanonicalHost   = "canonical_host"
	RuleDefaultLocation = "default_location"
	RuleSitemapChunk    = "sitemap_chunk"
	RuleAuthGate        = "auth_gate"
	RuleCategoryRewrite = "category_rewrite"
	RulePassThrough     = "pass_through"
)

// Outcome is the single decision produced for a request. Location/Status are
// set for redirects, Path/Query for rewrites, Headers for pass-through.
type Outcome struct {
	Kind     Kind
	Rule     string
	Location string
	Status   int
	Path     string
	Query    string
	Headers  map[string]string
}

func redirect(rule, location string) Outcome {
	return Outcome{
		Kind:     KindRedirect,
		Rule:     rule,
		Location: location,
		Status:   301,
	}
}

func rewrite(rule, path, query string) Outcome {
	return Outcome{
		Kind:  KindRewrite,
		Rule:  rule,
		Path:  path,
		Query: query,
	}
}

func passThrough() Outcome {
	return Outcome{
		Kind:    KindPassThrough,
		Rule:    RulePassThrough,
		Headers: SecurityHeaders(),
	}
}

// SecurityHeaders returns a fresh copy of the response headers attached to
// every pass-through outcome.
func SecurityHeaders() map[string]string {
	return map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"X-XSS-Protection":       "1; mode=block",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}
}
