package api

import (
	"net/http"
	"time"

	"agroledger/server/internal/services"

	"github.com/gin-gonic/gin"
)

// StockController управляет фасовкой и напоминаниями об остатках
type StockController struct {
	stockService *services.StockService
}

// NewStockController создает новый контроллер остатков
func NewStockController(stockService *services.StockService) *StockController {
	return &StockController{stockService: stockService}
}

// Package фасует сырье в единицы категории
// POST /api/v1/ledger/packaging
func (sc *StockController) Package(c *gin.Context) {
	var req struct {
		InventoryItemID int64 `json:"inventory_item_id" binding:"required"`
		CategoryID      int64 `json:"category_id" binding:"required"`
		Units           int   `json:"units" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	result, err := sc.stockService.Package(req.InventoryItemID, req.CategoryID, req.Units)
	if err != nil {
		respondError(c, "Ошибка фасовки", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetLowStock категории и сырье ниже порога дозаказа
// GET /api/v1/ledger/alerts/low-stock
func (sc *StockController) GetLowStock(c *gin.Context) {
	c.JSON(http.StatusOK, sc.stockService.LowStock())
}

// GetRestockSoon сырье с датой пополнения в ближайшие 3 дня
// GET /api/v1/ledger/alerts/restock-soon
func (sc *StockController) GetRestockSoon(c *gin.Context) {
	items := sc.stockService.RestockSoon(time.Now().UTC())
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}
