package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"grocart/internal/models/db_models"
	"grocart/internal/repositories"
	"grocart/internal/services"
	"grocart/pkg/middleware"
	"grocart/pkg/utils"
)

func newProductRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A second pooled connection would see its own empty in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&db_models.Product{}))

	controller := NewProductController(
		services.NewProductService(repositories.NewProductRepository(db)))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api")
	api.GET("/products", controller.List)
	admin := api.Group("/admin", middleware.JWTAuthMiddleware(), middleware.RoleMiddleware("admin"))
	admin.GET("/products", controller.List)

	return r, db
}

func seedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()

	active := &db_models.Product{
		Name: "Rice", Category: "Staples", PriceCents: 10000, Stock: 5,
		Unit: "1 kg", IsActive: true,
	}
	require.NoError(t, db.Create(active).Error)

	inactive := &db_models.Product{
		Name: "Ghee", Category: "Dairy", PriceCents: 45000, Stock: 3,
		Unit: "500 ml", IsActive: false,
	}
	require.NoError(t, db.Create(inactive).Error)
}

func TestListProductsPublicHidesInactive(t *testing.T) {
	r, db := newProductRouter(t)
	seedCatalog(t, db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Rice")
	assert.NotContains(t, w.Body.String(), "Ghee")
}

func TestListProductsAdminSeesInactive(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r, db := newProductRouter(t)
	seedCatalog(t, db)

	token, err := utils.CreateToken(uuid.New(), "admin@example.com", "Admin", "admin")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/products", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Rice")
	assert.Contains(t, w.Body.String(), "Ghee")
}

func TestListProductsAdminRequiresAuth(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r, db := newProductRouter(t)
	seedCatalog(t, db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/products", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// A customer token passes authentication but not the role gate.
	token, err := utils.CreateToken(uuid.New(), "asha@example.com", "Asha", "customer")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/admin/products", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
