package catalog

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"stroyassist.GO/api"
	catalogService "stroyassist.GO/service/catalog"
	"stroyassist.GO/service/pricing"
	"stroyassist.GO/service/search"
)

var validate = validator.New()

func init() {
	api.RegisterModule(RegisterCatalogRoutes)
	api.RegisterModule(RegisterOrderRoutes)
}

func RegisterCatalogRoutes(apiGroup *echo.Group, deps *api.Deps) {
	g := apiGroup.Group("/catalog")

	// GET /api/catalog/search – filtered, ranked product search
	g.GET("/search", func(c echo.Context) error {
		var params search.Params
		if err := c.Bind(&params); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		res, err := deps.Search.Search(c.Request().Context(), params)
		if err != nil {
			if errors.Is(err, catalogService.ErrCatalogUnavailable) {
				return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "catalog is not cached yet, run a sync"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, res)
	})

	// GET /api/catalog/categories – groups and filterable attribute values
	g.GET("/categories", func(c echo.Context) error {
		facets, err := deps.Search.Categories(c.Request().Context())
		if err != nil {
			if errors.Is(err, catalogService.ErrCatalogUnavailable) {
				return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "catalog is not cached yet, run a sync"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, facets)
	})

	// POST /api/catalog/sync – trigger a background refresh
	g.POST("/sync", func(c echo.Context) error {
		if !deps.Sync.Trigger() {
			return c.JSON(http.StatusConflict, echo.Map{"status": "skipped", "reason": "sync already in progress"})
		}
		return c.JSON(http.StatusAccepted, echo.Map{"status": "accepted"})
	})

	// GET /api/catalog/sync/status – last run outcome plus cache metadata
	g.GET("/sync/status", func(c echo.Context) error {
		status := deps.Sync.Status()
		meta, err := deps.Store.LoadMetadata(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{
			"sync":  status,
			"cache": meta,
		})
	})
}

// PriceOrderRequest is the body of POST /api/orders/price.
type PriceOrderRequest struct {
	Items        []pricing.OrderLine `json:"items" validate:"required,min=1,dive"`
	DeliveryCost decimal.Decimal     `json:"delivery_cost"`
	Discount     decimal.Decimal     `json:"discount"`
}

func RegisterOrderRoutes(apiGroup *echo.Group, deps *api.Deps) {
	g := apiGroup.Group("/orders")

	// POST /api/orders/price – enrich and price an order against live 1C data
	g.POST("/price", func(c echo.Context) error {
		start := time.Now()

		var body PriceOrderRequest
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if err := validate.Struct(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}

		items, err := deps.Pricing.EnrichAndPrice(c.Request().Context(), body.Items)
		duration := time.Since(start).Milliseconds()
		if err != nil {
			var missing *pricing.MissingProductCodeError
			if errors.As(err, &missing) {
				return c.JSON(http.StatusUnprocessableEntity, echo.Map{
					"error": missing.Error(),
					"lines": missing.Lines,
					"names": missing.Names,
				})
			}
			return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error(), "request_duration_ms": duration})
		}

		order := pricing.OrderInfo{
			Items:   items,
			Pricing: pricing.CalculateTotals(items, body.DeliveryCost, body.Discount),
		}
		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))
		return c.JSON(http.StatusOK, order)
	})
}
