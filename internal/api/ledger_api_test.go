package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"agroledger/server/internal/events"
	"agroledger/server/internal/models"
	"agroledger/server/internal/repository"
	"agroledger/server/internal/services"
	"agroledger/server/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func newTestRouter(t *testing.T, limiter *rate.Limiter) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ledger, err := repository.Open(storage.NewMemoryStore(), repository.DefaultSeed())
	require.NoError(t, err)

	farmers := services.NewFarmerService(ledger)
	categories := services.NewCategoryService(ledger)
	orders := services.NewOrderService(ledger)

	r := gin.New()
	group := r.Group("/api/v1/ledger")
	group.Use(RateLimit(limiter))
	RegisterLedgerRoutes(group, LedgerControllers{
		Farmers:    NewFarmerController(farmers),
		Purchases:  NewPurchaseController(services.NewPurchaseService(ledger), farmers),
		Categories: NewCategoryController(categories),
		Inventory:  NewInventoryController(services.NewInventoryService(ledger)),
		Orders:     NewOrderController(orders),
		Stock:      NewStockController(services.NewStockService(ledger)),
		TaxRates:   NewTaxRateController(services.NewTaxRateService(ledger)),
		Reports: NewReportController(
			services.NewFinanceService(ledger),
			services.NewDemandForecastService(ledger),
			orders,
			categories,
		),
	})
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestFarmersAPI(t *testing.T) {
	r := newTestRouter(t, nil)

	w := doJSON(t, r, http.MethodPost, "/api/v1/ledger/farmers", gin.H{"name": "Anna", "region": "North Valley"})
	require.Equal(t, http.StatusCreated, w.Code)
	anna := decode[models.Farmer](t, w)

	w = doJSON(t, r, http.MethodPost, "/api/v1/ledger/farmers", gin.H{"name": "No Region"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/ledger/farmers?q=valley", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Farmers []models.Farmer `json:"farmers"`
		Count   int             `json:"count"`
	}](t, w)
	assert.Equal(t, 1, list.Count)
	assert.Equal(t, anna, list.Farmers[0])

	w = doJSON(t, r, http.MethodPut, "/api/v1/ledger/farmers/12345", gin.H{"name": "X", "region": "Y"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/v1/ledger/farmers/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderAndPackagingAPI(t *testing.T) {
	r := newTestRouter(t, nil)

	// 1 кг сырья не хватает на 3 пакета по 500g
	w := doJSON(t, r, http.MethodPut, "/api/v1/ledger/inventory", gin.H{"category": "Potatoes", "quantity_available": "1", "reorder_level": "5"})
	require.Equal(t, http.StatusCreated, w.Code)
	item := decode[models.InventoryItem](t, w)

	w = doJSON(t, r, http.MethodPost, "/api/v1/ledger/packaging", gin.H{"inventory_item_id": item.ID, "category_id": 1, "units": 3})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/ledger/packaging", gin.H{"inventory_item_id": item.ID, "category_id": 1, "units": 2})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/ledger/orders", gin.H{
		"customer_name": "Green Grocer",
		"items":         []gin.H{{"category_id": 1, "quantity": 3}},
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/ledger/orders", gin.H{
		"customer_name": "Green Grocer",
		"items":         []gin.H{{"category_id": 1, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	order := decode[models.Order](t, w)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, 10.0, order.TotalCost)

	w = doJSON(t, r, http.MethodPost, "/api/v1/ledger/orders", gin.H{
		"customer_name": "Green Grocer",
		"items":         []gin.H{{"category_id": 404, "quantity": 1}},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPut, "/api/v1/ledger/orders/"+itoa64(order.ID)+"/status", gin.H{"status": "Lost"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPut, "/api/v1/ledger/orders/"+itoa64(order.ID)+"/status", gin.H{"status": "Shipped"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.OrderStatusShipped, decode[models.Order](t, w).Status)

	w = doJSON(t, r, http.MethodGet, "/api/v1/ledger/alerts/low-stock", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Potatoes")
}

func TestReportsAPI(t *testing.T) {
	r := newTestRouter(t, nil)

	w := doJSON(t, r, http.MethodPost, "/api/v1/ledger/categories/2/stock", gin.H{"delta": 5})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodPost, "/api/v1/ledger/orders", gin.H{
		"customer_name": "Bob",
		"items":         []gin.H{{"category_id": 2, "quantity": 4}},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/ledger/reports/sales", nil)
	require.Equal(t, http.StatusOK, w.Code)
	sales := decode[services.SalesReport](t, w)
	assert.Equal(t, 4, sales.TotalUnits)
	assert.Equal(t, 40.0, sales.TotalRevenue)

	w = doJSON(t, r, http.MethodPost, "/api/v1/ledger/reports/financial?tax_rate_id=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	analysis := decode[services.FinancialAnalysis](t, w)
	assert.InDelta(t, 34.0, analysis.NetProfit, 1e-9)

	w = doJSON(t, r, http.MethodPost, "/api/v1/ledger/reports/financial?start=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/ledger/reports/sales/export?format=csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, contentTypeCSV, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "sales-report.csv")
	assert.True(t, strings.HasPrefix(w.Body.String(), "category_id,category,units,revenue"))

	w = doJSON(t, r, http.MethodGet, "/api/v1/ledger/reports/comprehensive/export?format=xlsx", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, contentTypeXLSX, w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))

	w = doJSON(t, r, http.MethodGet, "/api/v1/ledger/reports/sales/export?format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/ledger/reports/forecast", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, services.TrendStable, decode[services.ForecastReport](t, w).Trend)

	w = doJSON(t, r, http.MethodGet, "/api/v1/ledger/orders/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Medium")
}

func TestRateLimit(t *testing.T) {
	r := newTestRouter(t, rate.NewLimiter(rate.Limit(0.001), 1))

	w := doJSON(t, r, http.MethodPost, "/api/v1/ledger/tax-rates", gin.H{"name": "Reduced", "rate": 0.05})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/ledger/tax-rates", gin.H{"name": "Reduced 2", "rate": 0.07})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// чтение не ограничивается
	for i := 0; i < 3; i++ {
		w = doJSON(t, r, http.MethodGet, "/api/v1/ledger/tax-rates", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestFinancialAnalysisAPI_IsRateLimited(t *testing.T) {
	r := newTestRouter(t, rate.NewLimiter(rate.Limit(0.001), 1))

	// анализ пишет налоговое обязательство, поэтому идет через лимит записи
	w := doJSON(t, r, http.MethodPost, "/api/v1/ledger/reports/financial?tax_rate_id=1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/ledger/reports/financial?tax_rate_id=1", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/ledger/reports/financial?tax_rate_id=1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInventoryAPI(t *testing.T) {
	r := newTestRouter(t, nil)

	w := doJSON(t, r, http.MethodPut, "/api/v1/ledger/inventory", gin.H{"category": "Carrots", "quantity_available": "12"})
	require.Equal(t, http.StatusCreated, w.Code)
	item := decode[models.InventoryItem](t, w)

	w = doJSON(t, r, http.MethodPut, "/api/v1/ledger/inventory", gin.H{"id": item.ID, "category": "Carrots", "quantity_available": "7"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 7.0, decode[models.InventoryItem](t, w).QuantityAvailable)

	w = doJSON(t, r, http.MethodPut, "/api/v1/ledger/inventory", gin.H{"id": 777, "category": "Beets", "quantity_available": "3"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPut, "/api/v1/ledger/inventory", gin.H{"category": "Beets", "quantity_available": "many"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/ledger/inventory", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Carrots")
	assert.NotContains(t, body, "Beets")
	assert.Contains(t, body, `"count":1`)
}

func TestHubPublisher(t *testing.T) {
	hub := NewHub()
	publisher := NewHubPublisher(hub)

	require.NoError(t, publisher.Publish(context.Background(), events.NewEvent(events.TypeOrderCreated, "1", gin.H{"id": 1})))

	msg := <-hub.broadcast
	var event events.Event
	require.NoError(t, json.Unmarshal(msg, &event))
	assert.Equal(t, events.TypeOrderCreated, event.Type)
	assert.Equal(t, "1", event.Key)

	// без Run очередь переполняется, событие отбрасывается с ошибкой
	for i := 0; i < cap(hub.broadcast); i++ {
		require.True(t, hub.BroadcastMessage([]byte("x")))
	}
	assert.Error(t, publisher.Publish(context.Background(), events.NewEvent(events.TypeLowStock, "2", nil)))
}

func itoa64(v int64) string {
	data, _ := json.Marshal(v)
	return string(data)
}
