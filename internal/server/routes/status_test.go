package routes

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/dalil-edge/dalil-edge/internal/directory"
	"github.com/dalil-edge/dalil-edge/internal/hours"
)

type stubDirectory struct {
	business *directory.Business
	err      error
}

func (s *stubDirectory) BusinessBySlug(context.Context, string) (*directory.Business, error) {
	return s.business, s.err
}

func newRoutesApp(t *testing.T, dir BusinessSource, now func() time.Time) *fiber.App {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	app := fiber.New()
	Register(app, Deps{
		Logger:          logger,
		Directory:       dir,
		Origin:          "http://storefront.internal:3000",
		DefaultLocation: "riyadh",
		Now:             now,
	})
	return app
}

func TestStatusEndpoint(t *testing.T) {
	app := newRoutesApp(t, &stubDirectory{}, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "http://dalil.example/-/status", nil))
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var payload map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode status payload: %v", err)
	}
	if payload["default_location"] != "riyadh" {
		t.Fatalf("unexpected status payload: %+v", payload)
	}
}

func TestOpenNowEndpoint(t *testing.T) {
	business := &directory.Business{
		Slug: "najd-grill",
		Name: "Najd Grill",
		WorkingHours: hours.WeeklySchedule{
			hours.Monday: {Open: "09:00", Close: "18:00"},
		},
	}
	// 2024-01-01 10:00 was a Monday morning
	now := func() time.Time { return time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC) }
	app := newRoutesApp(t, &stubDirectory{business: business}, now)

	resp, err := app.Test(httptest.NewRequest("GET", "http://dalil.example/-/businesses/najd-grill/open", nil))
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var payload struct {
		Slug    string `json:"slug"`
		Today   string `json:"today"`
		OpenNow bool   `json:"open_now"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Slug != "najd-grill" || payload.Today != "monday" || !payload.OpenNow {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestOpenNowEndpointAfterHours(t *testing.T) {
	business := &directory.Business{
		Slug: "najd-grill",
		WorkingHours: hours.WeeklySchedule{
			hours.Monday: {Open: "09:00", Close: "18:00"},
		},
	}
	now := func() time.Time { return time.Date(2024, time.January, 1, 19, 0, 0, 0, time.UTC) }
	app := newRoutesApp(t, &stubDirectory{business: business}, now)

	resp, err := app.Test(httptest.NewRequest("GET", "http://dalil.example/-/businesses/najd-grill/open", nil))
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}

	var payload struct {
		OpenNow bool `json:"open_now"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.OpenNow {
		t.Fatalf("expected closed after hours")
	}
}

func TestOpenNowEndpointUnknownBusiness(t *testing.T) {
	app := newRoutesApp(t, &stubDirectory{err: directory.ErrNotFound}, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "http://dalil.example/-/businesses/missing/open", nil))
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestOpenNowEndpointBackendDown(t *testing.T) {
	app := newRoutesApp(t, &stubDirectory{err: errors.New("connection refused")}, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "http://dalil.example/-/businesses/najd-grill/open", nil))
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
}
