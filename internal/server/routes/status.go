// Package routes exposes the /-/ diagnostics surface.
package routes

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/dalil-edge/dalil-edge/internal/directory"
	"github.com/dalil-edge/dalil-edge/internal/hours"
	"github.com/dalil-edge/dalil-edge/internal/version"
)

// BusinessSource fetches business records for the open-now endpoint.
type BusinessSource interface {
	BusinessBySlug(ctx context.Context, slug string) (*directory.Business, error)
}

// Deps wires the diagnostics handlers. Now defaults to time.Now and exists
// so tests can pin the clock.
type Deps struct {
	Logger          *logrus.Logger
	Directory       BusinessSource
	Origin          string
	DefaultLocation string
	Now             func() time.Time
}

// Register mounts /-/status and /-/businesses/:slug/open.
func Register(app *fiber.App, deps Deps) {
	if app == nil {
		return
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	app.Get("/-/status", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service":          version.Full(),
			"origin":           deps.Origin,
			"default_location": deps.DefaultLocation,
		})
	})

	app.Get("/-/businesses/:slug/open", func(c fiber.Ctx) error {
		slug := strings.ToLower(strings.TrimSpace(c.Params("slug")))
		if slug == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "slug_required"})
		}
		if deps.Directory == nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "directory_not_configured"})
		}

		business, err := deps.Directory.BusinessBySlug(c.Context(), slug)
		if errors.Is(err, directory.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "business_not_found"})
		}
		if err != nil {
			if deps.Logger != nil {
				deps.Logger.WithError(err).WithFields(logrus.Fields{
					"action": "open_now",
					"slug":   slug,
				}).Warn("business lookup failed")
			}
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "directory_unavailable"})
		}

		ev := hours.Evaluate(business.WorkingHours, deps.Now())
		return c.JSON(fiber.Map{
			"slug":     business.Slug,
			"today":    ev.Today,
			"open_now": ev.OpenNow,
		})
	})
}
