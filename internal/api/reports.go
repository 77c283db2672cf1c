package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kochwerk/kitchenplan/backend/internal/service"
)

// ReportHandler exposes the aggregation engine's read surface: the
// production sheet, invoice rollups, and the diagnostics feed. Rendering and
// export are the frontend's concern; this layer only serves the computed
// figures.
type ReportHandler struct {
	production *service.ProductionService
	invoice    *service.InvoiceService
	cache      SheetCache
}

func NewReportHandler(production *service.ProductionService, invoice *service.InvoiceService, cache SheetCache) *ReportHandler {
	return &ReportHandler{
		production: production,
		invoice:    invoice,
		cache:      cache,
	}
}

// RegisterRoutes registers the report routes.
func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/production-sheet", h.GetProductionSheet)
	router.GET("/invoice", h.GetInvoice)
	router.GET("/diagnostics", h.GetDiagnostics)
}

// GetProductionSheet returns the per-dish, per-location production
// quantities for one delivery date. The computation is deterministic for a
// given snapshot, which is what makes the cached payload safe to serve.
func (h *ReportHandler) GetProductionSheet(c *gin.Context) {
	date, ok := parseDateParam(c, "date")
	if !ok {
		return
	}

	if payload, hit := h.cache.Get(c.Request.Context(), date); hit {
		c.Data(http.StatusOK, "application/json", payload)
		return
	}

	sheet, err := h.production.ComputeProductionSheet(c.Request.Context(), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	payload, err := json.Marshal(sheet)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.cache.Put(c.Request.Context(), date, payload)
	c.Data(http.StatusOK, "application/json", payload)
}

// GetInvoice returns the per-location invoice rollup for a date range,
// optionally scoped to one location.
func (h *ReportHandler) GetInvoice(c *gin.Context) {
	from, ok := parseDateParam(c, "from")
	if !ok {
		return
	}
	to, ok := parseDateParam(c, "to")
	if !ok {
		return
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must not be before from"})
		return
	}

	var locationID *uuid.UUID
	if locationParam := c.Query("location_id"); locationParam != "" {
		id, err := uuid.Parse(locationParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid location_id"})
			return
		}
		locationID = &id
	}

	rollup, err := h.invoice.ComputeInvoiceRollup(c.Request.Context(), from, to, locationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rollup)
}

// GetDiagnostics returns the engine's findings for one delivery date:
// configuration gaps, percentage-sum violations, duplicate order keys, and
// off-menu orders.
func (h *ReportHandler) GetDiagnostics(c *gin.Context) {
	date, ok := parseDateParam(c, "date")
	if !ok {
		return
	}

	diags, err := h.production.ListDiagnostics(c.Request.Context(), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if diags == nil {
		diags = []service.Diagnostic{}
	}
	c.JSON(http.StatusOK, diags)
}

func parseDateParam(c *gin.Context, name string) (time.Time, bool) {
	value := c.Query(name)
	if value == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " query parameter is required"})
		return time.Time{}, false
	}
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be YYYY-MM-DD"})
		return time.Time{}, false
	}
	return date, true
}
