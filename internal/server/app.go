package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dalil-edge/dalil-edge/internal/logging"
	"github.com/dalil-edge/dalil-edge/internal/resolver"
)

// OriginHandler forwards a request to the rendering origin. It allows
// injecting recorder fakes during tests.
type OriginHandler interface {
	Forward(fiber.Ctx) error
}

// OriginHandlerFunc adapts a function to the OriginHandler interface.
type OriginHandlerFunc func(fiber.Ctx) error

// Forward makes OriginHandlerFunc satisfy OriginHandler.
func (f OriginHandlerFunc) Forward(c fiber.Ctx) error {
	return f(c)
}

// AppOptions controls how the Fiber application behaves.
type AppOptions struct {
	Logger     *logrus.Logger
	Resolver   *resolver.Resolver
	Origin     OriginHandler
	ListenPort int
}

const contextKeyRequestID = "_dalil_request_id"

// bypassPrefixes are app paths the resolver never sees: API calls and static
// assets are the origin's own routing concern.
var bypassPrefixes = []string{"/api/", "/_next/", "/static/"}

// NewApp builds the Fiber application: recover + request-ID middleware, then
// a catch-all that resolves every request into redirect, rewrite, or
// pass-through and applies the outcome.
func NewApp(opts AppOptions) (*fiber.App, error) {
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.Resolver == nil {
		return nil, errors.New("resolver is required")
	}
	if opts.Origin == nil {
		return nil, errors.New("origin handler is required")
	}
	if opts.ListenPort <= 0 {
		return nil, fmt.Errorf("invalid listen port: %d", opts.ListenPort)
	}

	app := fiber.New(fiber.Config{
		CaseSensitive: true,
	})

	app.Use(recover.New())
	app.Use(requestContextMiddleware())

	app.All("/*", func(c fiber.Ctx) error {
		path := string(c.Request().URI().Path())
		if isDiagnosticsPath(path) {
			return c.Next()
		}
		if isBypassPath(path) {
			return opts.Origin.Forward(c)
		}
		return resolveAndApply(c, opts)
	})

	return app, nil
}

// requestContextMiddleware assigns each request an ID echoed back in the
// X-Request-ID header.
func requestContextMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		reqID := uuid.NewString()
		c.Locals(contextKeyRequestID, reqID)
		c.Set("X-Request-ID", reqID)
		return c.Next()
	}
}

func resolveAndApply(c fiber.Ctx, opts AppOptions) error {
	req := incomingRequest(c)
	outcome := opts.Resolver.Resolve(c.Context(), req)

	fields := logging.ResolveFields(outcome.Rule, req.Host, req.Path, outcomeLabel(outcome))
	opts.Logger.WithFields(fields).Debug("request resolved")

	switch outcome.Kind {
	case resolver.KindRedirect:
		c.Set(fiber.HeaderLocation, outcome.Location)
		return c.SendStatus(outcome.Status)
	case resolver.KindRewrite:
		uri := c.Request().URI()
		uri.SetPath(outcome.Path)
		uri.SetQueryString(outcome.Query)
		return opts.Origin.Forward(c)
	default:
		for key, value := range outcome.Headers {
			c.Set(key, value)
		}
		return opts.Origin.Forward(c)
	}
}

// incomingRequest snapshots the resolver's view of the request. Repeated
// query keys keep the first value, matching the resolver contract.
func incomingRequest(c fiber.Ctx) resolver.IncomingRequest {
	query := map[string]string{}
	c.Request().URI().QueryArgs().VisitAll(func(key, value []byte) {
		if _, seen := query[string(key)]; !seen {
			query[string(key)] = string(value)
		}
	})

	cookies := map[string]string{}
	c.Request().Header.VisitAllCookie(func(key, value []byte) {
		cookies[string(key)] = string(value)
	})

	return resolver.IncomingRequest{
		Host:    strings.TrimSpace(hostHeader(c)),
		Path:    string(c.Request().URI().Path()),
		Query:   query,
		Cookies: cookies,
	}
}

func hostHeader(c fiber.Ctx) string {
	if raw := c.Request().Header.Peek(fiber.HeaderHost); len(raw) > 0 {
		return string(raw)
	}
	return c.Hostname()
}

func outcomeLabel(outcome resolver.Outcome) string {
	switch outcome.Kind {
	case resolver.KindRedirect:
		return "redirect " + outcome.Location
	case resolver.KindRewrite:
		return "rewrite " + outcome.Path
	default:
		return "pass_through"
	}
}

// RequestID returns the identifier stored by the router middleware.
func RequestID(c fiber.Ctx) string {
	if value := c.Locals(contextKeyRequestID); value != nil {
		if reqID, ok := value.(string); ok {
			return reqID
		}
	}
	return ""
}

func isDiagnosticsPath(path string) bool {
	return strings.HasPrefix(path, "/-/")
}

func isBypassPath(path string) bool {
	for _, prefix := range bypassPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return path == "/favicon.ico" || path == "/robots.txt"
}
