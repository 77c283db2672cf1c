package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kochwerk/kitchenplan/backend/internal/models"
	"github.com/kochwerk/kitchenplan/backend/internal/service"
	"github.com/kochwerk/kitchenplan/backend/internal/testhelpers"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// testNow is the frozen clock used by handler tests so cutoff checks are
// deterministic.
var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

// setupTestRouter builds a router with all handlers registered against a
// fresh in-memory database. Caching is disabled (nil Redis client) and the
// order handler runs on the frozen test clock.
func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDatabase(t)
	cache := NewSheetCache(nil, 0)

	reader := service.NewCatalogService(db)
	production := service.NewProductionService(reader)
	invoice := service.NewInvoiceService(reader)

	orders := NewOrderHandler(db, cache, 2)
	orders.now = func() time.Time { return testNow }

	router := gin.New()
	v1 := router.Group("/api/v1")
	NewCatalogHandler(db, cache).RegisterRoutes(v1)
	NewMenuHandler(db, cache).RegisterRoutes(v1)
	orders.RegisterRoutes(v1)
	NewReportHandler(production, invoice, cache).RegisterRoutes(v1)
	return router, db
}

// doJSON performs a request with a JSON body and returns the recorder.
func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

// createTestDish inserts a dish directly and returns it.
func createTestDish(t *testing.T, db *gorm.DB, name string, portionSize float64, unit models.Unit) models.Dish {
	t.Helper()
	dish := models.Dish{
		Name:               name,
		Category:           models.CategoryHotMain,
		DefaultPortionSize: portionSize,
		Unit:               unit,
	}
	require.NoError(t, db.Create(&dish).Error)
	return dish
}

// createTestLocation inserts a location directly and returns it.
func createTestLocation(t *testing.T, db *gorm.DB, name string) models.Location {
	t.Helper()
	location := models.Location{Name: name}
	require.NoError(t, db.Create(&location).Error)
	return location
}
