// Package proxy streams resolved requests to the rendering origin.
package proxy

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/dalil-edge/dalil-edge/internal/server"
)

// OriginForwarder proxies requests to the rendering origin over the shared
// http.Client, stripping hop-by-hop headers in both directions.
type OriginForwarder struct {
	client *http.Client
	origin *url.URL
	logger *logrus.Logger
}

// NewForwarder creates a forwarder for the given origin base URL.
func NewForwarder(client *http.Client, origin *url.URL, logger *logrus.Logger) *OriginForwarder {
	return &OriginForwarder{
		client: client,
		origin: origin,
		logger: logger,
	}
}

// Forward implements server.OriginHandler. The request URI may already have
// been rewritten by the resolver; whatever it holds now is what the origin
// sees.
func (f *OriginForwarder) Forward(c fiber.Ctx) error {
	requestID := server.RequestID(c)

	req, err := f.buildOriginRequest(c)
	if err != nil {
		return f.respondUnreachable(c, requestID, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return f.respondUnreachable(c, requestID, err)
	}
	defer resp.Body.Close()

	copyResponseHeaders(c, resp.Header)
	c.Status(resp.StatusCode)

	if c.Method() == http.MethodHead {
		return nil
	}

	if _, err := io.Copy(c.Response().BodyWriter(), resp.Body); err != nil {
		f.logForwardError(c, requestID, "origin_stream_failed", err)
		return fiber.NewError(fiber.StatusBadGateway, "origin stream failed")
	}
	return nil
}

func (f *OriginForwarder) buildOriginRequest(c fiber.Ctx) (*http.Request, error) {
	ctx := c.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	uri := c.Request().URI()
	target := *f.origin
	target.Path = string(uri.Path())
	target.RawQuery = string(uri.QueryString())

	req, err := http.NewRequestWithContext(ctx, c.Method(), target.String(), bytesReader(c.Body()))
	if err != nil {
		return nil, err
	}

	server.CopyHeaders(req.Header, fiberHeadersAsHTTP(c))
	req.Host = f.origin.Host
	req.Header.Set("X-Forwarded-Host", c.Hostname())
	if ip := c.IP(); ip != "" {
		if prior := req.Header.Get("X-Forwarded-For"); prior != "" {
			req.Header.Set("X-Forwarded-For", prior+", "+ip)
		} else {
			req.Header.Set("X-Forwarded-For", ip)
		}
	}
	req.Header.Set("X-Forwarded-Proto", c.Protocol())

	return req, nil
}

func (f *OriginForwarder) respondUnreachable(c fiber.Ctx, requestID string, err error) error {
	f.logForwardError(c, requestID, "origin_unreachable", err)
	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "origin_unreachable"})
}

func (f *OriginForwarder) logForwardError(c fiber.Ctx, requestID, code string, err error) {
	if f.logger == nil {
		return
	}
	fields := logrus.Fields{
		"action": "forward",
		"origin": f.origin.String(),
		"path":   string(c.Request().URI().Path()),
		"error":  code,
	}
	if requestID != "" {
		fields["request_id"] = requestID
	}
	f.logger.WithError(err).WithFields(fields).Warn("origin forward failed")
}

func fiberHeadersAsHTTP(c fiber.Ctx) http.Header {
	header := http.Header{}
	c.Request().Header.VisitAll(func(key, value []byte) {
		header.Add(string(key), string(value))
	})
	return header
}

func copyResponseHeaders(c fiber.Ctx, headers http.Header) {
	for key, values := range headers {
		if server.IsHopByHopHeader(key) {
			continue
		}
		for _, value := range values {
			c.Set(key, value)
		}
	}
}

func bytesReader(b []byte) io.Reader {
	if len(b) == 0 {
		return http.NoBody
	}
	return bytes.NewReader(b)
}
