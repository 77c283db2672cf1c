package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kochwerk/kitchenplan/backend/internal/models"
	"gorm.io/gorm"
)

// OrderHandler manages order lines. Lines are mutable until the cutoff
// (cutoffDays before the delivery date); after that the kitchen has
// committed purchasing and writes are rejected. The natural key uniqueness
// is enforced here at write time, so residual duplicates only ever come from
// legacy data and show up in engine diagnostics.
type OrderHandler struct {
	db         *gorm.DB
	cache      SheetCache
	cutoffDays int
	now        func() time.Time
}

func NewOrderHandler(db *gorm.DB, cache SheetCache, cutoffDays int) *OrderHandler {
	return &OrderHandler{db: db, cache: cache, cutoffDays: cutoffDays, now: time.Now}
}

// RegisterRoutes registers the order routes.
func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/order-lines", h.CreateOrderLine)
	router.GET("/order-lines", h.ListOrderLines)
	router.PUT("/order-lines/:id", h.UpdateOrderLine)
	router.DELETE("/order-lines/:id", h.DeleteOrderLine)
}

// cutoffPassed reports whether the order window for a delivery date has
// closed.
func (h *OrderHandler) cutoffPassed(deliveryDate time.Time) bool {
	cutoff := time.Date(deliveryDate.Year(), deliveryDate.Month(), deliveryDate.Day(),
		0, 0, 0, 0, time.UTC).AddDate(0, 0, -h.cutoffDays)
	return !h.now().UTC().Before(cutoff)
}

func (h *OrderHandler) CreateOrderLine(c *gin.Context) {
	var req CreateOrderLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	deliveryDate, err := time.Parse("2006-01-02", req.DeliveryDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "delivery_date must be YYYY-MM-DD"})
		return
	}
	if h.cutoffPassed(deliveryDate) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "order window for this delivery date has closed"})
		return
	}

	var dish models.Dish
	if err := h.db.First(&dish, "id = ?", req.DishID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "dish not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	var location models.Location
	if err := h.db.First(&location, "id = ?", req.LocationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var existing models.OrderLine
	err = h.db.Where("location_id = ? AND delivery_date = ? AND slot_key = ? AND dish_id = ?",
		req.LocationID, deliveryDate, req.SlotKey, req.DishID).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":            "an order line with this key already exists",
			"existing_line_id": existing.ID,
		})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	line := models.OrderLine{
		LocationID:   req.LocationID,
		DeliveryDate: deliveryDate,
		SlotKey:      req.SlotKey,
		DishID:       req.DishID,
		Portions:     req.Portions,
	}
	if err := h.db.Create(&line).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.cache.Invalidate(c.Request.Context(), deliveryDate)
	c.JSON(http.StatusCreated, line)
}

func (h *OrderHandler) ListOrderLines(c *gin.Context) {
	dateParam := c.Query("date")
	if dateParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}
	date, err := time.Parse("2006-01-02", dateParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	query := h.db.Where("delivery_date >= ? AND delivery_date < ?", date, date.AddDate(0, 0, 1))
	if locationParam := c.Query("location_id"); locationParam != "" {
		locationID, err := uuid.Parse(locationParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid location_id"})
			return
		}
		query = query.Where("location_id = ?", locationID)
	}

	var lines []models.OrderLine
	if err := query.Order("location_id, slot_key, dish_id").Find(&lines).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, lines)
}

func (h *OrderHandler) UpdateOrderLine(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order line id"})
		return
	}
	var req UpdateOrderLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var line models.OrderLine
	if err := h.db.First(&line, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order line not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if h.cutoffPassed(line.DeliveryDate) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "order window for this delivery date has closed"})
		return
	}

	line.Portions = req.Portions
	if err := h.db.Save(&line).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.cache.Invalidate(c.Request.Context(), line.DeliveryDate)
	c.JSON(http.StatusOK, line)
}

func (h *OrderHandler) DeleteOrderLine(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order line id"})
		return
	}

	var line models.OrderLine
	if err := h.db.First(&line, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order line not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if h.cutoffPassed(line.DeliveryDate) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "order window for this delivery date has closed"})
		return
	}

	if err := h.db.Delete(&line).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.cache.Invalidate(c.Request.Context(), line.DeliveryDate)
	c.Status(http.StatusNoContent)
}
