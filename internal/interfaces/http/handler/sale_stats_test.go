package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	salesapp "github.com/primtakip/backend/internal/application/sales"
	"github.com/primtakip/backend/internal/domain/commission"
	"github.com/primtakip/backend/internal/domain/identity"
	"github.com/primtakip/backend/internal/domain/sales"
	"github.com/primtakip/backend/internal/infrastructure/persistence"
	"github.com/primtakip/backend/internal/interfaces/http/dto"
	"github.com/primtakip/backend/internal/interfaces/http/middleware"
)

type recordingInvalidator struct {
	calls int
}

func (r *recordingInvalidator) Invalidate(_ context.Context) { r.calls++ }

func setupSaleRouter(t *testing.T) (*gin.Engine, *recordingInvalidator) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&sales.Sale{}, &sales.PaymentType{}, &commission.Rate{}))

	svc := salesapp.NewSaleService(
		persistence.NewGormSaleRepository(db),
		persistence.NewGormPaymentTypeRepository(db),
		persistence.NewGormRateRepository(db),
	)

	stats := &recordingInvalidator{}
	h := NewSaleHandler(svc, stats)

	admin := identity.Actor{ID: uuid.New(), Username: "yonetici", Role: identity.RoleAdmin}

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.ActorKey, admin)
		c.Next()
	})
	h.RegisterRoutes(router.Group(""))
	return router, stats
}

func TestSaleHandlerInvalidatesStatsOnMutation(t *testing.T) {
	router, stats := setupSaleRouter(t)

	body := `{
		"contract_number": "SZL-2026-700",
		"customer_name": "Ayşe",
		"customer_surname": "Yılmaz",
		"sale_date": "2026-08-05T00:00:00Z",
		"list_price": "500000",
		"activity_sale_price": "480000"
	}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, stats.calls)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	created, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	saleID, _ := created["id"].(string)
	require.NotEmpty(t, saleID)

	// Reads must not drop the cache.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sales/"+saleID, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, stats.calls)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sales/"+saleID+"/cancel", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, stats.calls)
}

func TestSaleHandlerKeepsStatsOnFailedMutation(t *testing.T) {
	router, stats := setupSaleRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sales/"+uuid.NewString()+"/cancel", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 0, stats.calls)
}
