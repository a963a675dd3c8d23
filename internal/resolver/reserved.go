package resolver

import "strings"

// baseReservedSlugs lists top-level path segments that must never be treated
// as a category slug. The empty segment covers the bare root path.
var baseReservedSlugs = []string{
	"",
	"about",
	"admin",
	"blog",
	"businesses",
	"categories",
	"contact",
	"dashboard",
	"favourites",
	"privacy",
	"profile",
	"sitemap.xml",
	"support",
	"terms",
}

// reservedSlugSet builds the lookup set from the built-in reservations plus
// any extras from configuration, normalized to lowercase.
func reservedSlugSet(extra []string) map[string]struct{} {
	set := make(map[string]struct{}, len(baseReservedSlugs)+len(extra))
	for _, slug := range baseReservedSlugs {
		set[slug] = struct{}{}
	}
	for _, slug := range extra {
		set[strings.ToLower(strings.TrimSpace(slug))] = struct{}{}
	}
	return set
}
