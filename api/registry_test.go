package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestRegistry_RootRoute(t *testing.T) {
	RegisterGET("/catalog/ready", func(c echo.Context) error {
		return c.JSON(200, map[string]bool{"ready": true})
	})

	e := echo.New()
	ApplyRoutes(e, nil)

	req := httptest.NewRequest(http.MethodGet, "/catalog/ready", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRegistry_ModuleReceivesDeps(t *testing.T) {
	var got *Deps
	RegisterModule(func(g *echo.Group, deps *Deps) {
		got = deps
		g.GET("/catalog/deps-check", func(c echo.Context) error {
			return c.NoContent(http.StatusNoContent)
		})
	})

	e := echo.New()
	deps := &Deps{}
	ApplyModules(e.Group("/api"), deps)

	if got != deps {
		t.Fatal("module did not receive the wired service bundle")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/catalog/deps-check", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204 (module route not mounted under /api)", rec.Code)
	}
}
