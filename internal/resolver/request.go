package resolver

// IncomingRequest is the immutable per-request view the resolver decides on.
// Query and Cookies carry one value per key; repeated query keys keep the
// first value seen.
type IncomingRequest struct {
	Host    string
	Path    string
	Query   map[string]string
	Cookies map[string]string
}

func (r IncomingRequest) cookie(name string) string {
	if r.Cookies == nil {
		return ""
	}
	return r.Cookies[name]
}

func (r IncomingRequest) queryParam(name string) string {
	if r.Query == nil {
		return ""
	}
	return r.Query[name]
}
