package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kochwerk/kitchenplan/backend/internal/models"
	"gorm.io/gorm"
)

// MenuHandler manages the weekly menu plan: which dish fills which slot on
// which day. The unique index on (week, day, slot) backs the one-dish-per-
// slot invariant; the handler upserts rather than duplicating.
type MenuHandler struct {
	db    *gorm.DB
	cache SheetCache
}

func NewMenuHandler(db *gorm.DB, cache SheetCache) *MenuHandler {
	return &MenuHandler{db: db, cache: cache}
}

// RegisterRoutes registers the menu routes.
func (h *MenuHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.PUT("/menu-assignments", h.UpsertAssignment)
	router.GET("/menu-assignments", h.ListAssignments)
}

func (h *MenuHandler) UpsertAssignment(c *gin.Context) {
	var req UpsertMenuAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
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

	var assignment models.MenuSlotAssignment
	err := h.db.Where("week_id = ? AND day_of_week = ? AND slot_key = ?",
		req.WeekID, req.DayOfWeek, req.SlotKey).First(&assignment).Error
	created := false
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		assignment = models.MenuSlotAssignment{
			WeekID:    req.WeekID,
			DayOfWeek: req.DayOfWeek,
			SlotKey:   req.SlotKey,
			DishID:    req.DishID,
		}
		if err := h.db.Create(&assignment).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		created = true
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	default:
		assignment.DishID = req.DishID
		if err := h.db.Save(&assignment).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	h.cache.InvalidateWeek(c.Request.Context(), req.WeekID, req.DayOfWeek)

	if created {
		c.JSON(http.StatusCreated, assignment)
		return
	}
	c.JSON(http.StatusOK, assignment)
}

func (h *MenuHandler) ListAssignments(c *gin.Context) {
	weekID := c.Query("week_id")
	if weekID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "week_id query parameter is required"})
		return
	}
	var assignments []models.MenuSlotAssignment
	if err := h.db.Where("week_id = ?", weekID).
		Order("day_of_week, slot_key").Find(&assignments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, assignments)
}
