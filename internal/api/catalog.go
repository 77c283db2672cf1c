package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kochwerk/kitchenplan/backend/internal/models"
	"gorm.io/gorm"
)

// CatalogHandler manages the kitchen's reference data: dishes, their
// composition edges, locations, and portion overrides. Writes that change
// what a production sheet would compute drop the cached sheets; since a dish
// can appear on any date, the whole cache is flushed rather than per date.
type CatalogHandler struct {
	db    *gorm.DB
	cache SheetCache
}

func NewCatalogHandler(db *gorm.DB, cache SheetCache) *CatalogHandler {
	return &CatalogHandler{db: db, cache: cache}
}

// RegisterRoutes registers the catalog routes.
func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/dishes", h.CreateDish)
	router.GET("/dishes", h.ListDishes)
	router.GET("/dishes/:id", h.GetDish)
	router.PUT("/dishes/:id", h.UpdateDish)
	router.DELETE("/dishes/:id", h.DeleteDish)

	router.POST("/dishes/:id/components", h.CreateComponent)
	router.GET("/dishes/:id/components", h.ListDishComponents)
	router.DELETE("/components/:id", h.DeleteComponent)

	router.POST("/locations", h.CreateLocation)
	router.GET("/locations", h.ListLocations)
	router.PUT("/portion-overrides", h.UpsertPortionOverride)
}

func (h *CatalogHandler) CreateDish(c *gin.Context) {
	var req CreateDishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dish := models.Dish{
		Name:                   req.Name,
		Category:               req.Category,
		DefaultPortionSize:     req.DefaultPortionSize,
		Unit:                   req.Unit,
		PricePerPortion:        req.PricePerPortion,
		SaladTotalPortion:      req.SaladTotalPortion,
		WarmVeggieTotalPortion: req.WarmVeggieTotalPortion,
		OtherTotalPortion:      req.OtherTotalPortion,
	}
	if err := h.db.Create(&dish).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, dish)
}

func (h *CatalogHandler) ListDishes(c *gin.Context) {
	var dishes []models.Dish
	if err := h.db.Order("name").Find(&dishes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dishes)
}

func (h *CatalogHandler) GetDish(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dish id"})
		return
	}
	var dish models.Dish
	if err := h.db.First(&dish, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "dish not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dish)
}

func (h *CatalogHandler) UpdateDish(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dish id"})
		return
	}
	var req UpdateDishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var dish models.Dish
	if err := h.db.First(&dish, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "dish not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	dish.Name = req.Name
	dish.Category = req.Category
	dish.DefaultPortionSize = req.DefaultPortionSize
	dish.PricePerPortion = req.PricePerPortion
	dish.SaladTotalPortion = req.SaladTotalPortion
	dish.WarmVeggieTotalPortion = req.WarmVeggieTotalPortion
	dish.OtherTotalPortion = req.OtherTotalPortion
	if err := h.db.Save(&dish).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.cache.InvalidateAll(c.Request.Context())
	c.JSON(http.StatusOK, dish)
}

func (h *CatalogHandler) DeleteDish(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dish id"})
		return
	}
	if err := h.db.Delete(&models.Dish{}, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.cache.InvalidateAll(c.Request.Context())
	c.Status(http.StatusNoContent)
}

// CreateComponent adds a composition edge under a main dish. The percentage
// sum per (dish, role) is capped at 100 at write time; the engine reports
// any legacy rows that still violate it.
func (h *CatalogHandler) CreateComponent(c *gin.Context) {
	mainID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dish id"})
		return
	}
	var req CreateCompositionEdgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ComponentDishID == mainID {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "a dish cannot be a component of itself"})
		return
	}

	var main models.Dish
	if err := h.db.First(&main, "id = ?", mainID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "dish not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	var component models.Dish
	if err := h.db.First(&component, "id = ?", req.ComponentDishID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "component dish not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var currentSum float64
	if err := h.db.Model(&models.CompositionEdge{}).
		Where("main_dish_id = ? AND role = ?", mainID, req.Role).
		Select("COALESCE(SUM(percentage), 0)").
		Scan(&currentSum).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if currentSum+req.Percentage > 100 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "percentage sum for this role would exceed 100",
		})
		return
	}

	edge := models.CompositionEdge{
		MainDishID:      mainID,
		ComponentDishID: req.ComponentDishID,
		Role:            req.Role,
		Percentage:      req.Percentage,
	}
	if err := h.db.Create(&edge).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.cache.InvalidateAll(c.Request.Context())
	c.JSON(http.StatusCreated, edge)
}

func (h *CatalogHandler) ListDishComponents(c *gin.Context) {
	mainID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dish id"})
		return
	}
	var edges []models.CompositionEdge
	if err := h.db.Where("main_dish_id = ?", mainID).Order("role, percentage DESC").Find(&edges).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, edges)
}

func (h *CatalogHandler) DeleteComponent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid component id"})
		return
	}
	if err := h.db.Delete(&models.CompositionEdge{}, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.cache.InvalidateAll(c.Request.Context())
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) CreateLocation(c *gin.Context) {
	var req CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	location := models.Location{Name: req.Name}
	if err := h.db.Create(&location).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, location)
}

func (h *CatalogHandler) ListLocations(c *gin.Context) {
	var locations []models.Location
	if err := h.db.Order("name").Find(&locations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, locations)
}

func (h *CatalogHandler) UpsertPortionOverride(c *gin.Context) {
	var req UpsertPortionOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var override models.LocationPortionOverride
	err := h.db.Where("location_id = ? AND dish_id = ?", req.LocationID, req.DishID).First(&override).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		override = models.LocationPortionOverride{
			LocationID:  req.LocationID,
			DishID:      req.DishID,
			PortionSize: req.PortionSize,
			Unit:        req.Unit,
		}
		if err := h.db.Create(&override).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		h.cache.InvalidateAll(c.Request.Context())
		c.JSON(http.StatusCreated, override)
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		override.PortionSize = req.PortionSize
		override.Unit = req.Unit
		if err := h.db.Save(&override).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		h.cache.InvalidateAll(c.Request.Context())
		c.JSON(http.StatusOK, override)
	}
}
