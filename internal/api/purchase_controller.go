package api

import (
	"net/http"

	"agroledger/server/internal/models"
	"agroledger/server/internal/services"

	"github.com/gin-gonic/gin"
)

// PurchaseController управляет API endpoints для закупок сырья
type PurchaseController struct {
	service       *services.PurchaseService
	farmerService *services.FarmerService
}

// NewPurchaseController создает новый контроллер закупок
func NewPurchaseController(service *services.PurchaseService, farmerService *services.FarmerService) *PurchaseController {
	return &PurchaseController{service: service, farmerService: farmerService}
}

type purchaseView struct {
	models.Purchase
	FarmerName string `json:"farmer_name"`
}

// GetPurchases список закупок с именами фермеров
// GET /api/v1/ledger/purchases
func (pc *PurchaseController) GetPurchases(c *gin.Context) {
	purchases := pc.service.GetAll()
	views := make([]purchaseView, 0, len(purchases))
	for _, p := range purchases {
		views = append(views, purchaseView{Purchase: p, FarmerName: pc.farmerService.NameOf(p.FarmerID)})
	}

	c.JSON(http.StatusOK, gin.H{
		"purchases": views,
		"count":     len(views),
	})
}

// CreatePurchase записывает закупку
// POST /api/v1/ledger/purchases
func (pc *PurchaseController) CreatePurchase(c *gin.Context) {
	var req struct {
		FarmerID   int64    `json:"farmer_id" binding:"required"`
		Date       string   `json:"date" binding:"required"`
		Quantity   *float64 `json:"quantity" binding:"required"`
		PricePerKg *float64 `json:"price_per_kg" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	purchase, err := pc.service.Add(services.PurchaseInput{
		FarmerID:   req.FarmerID,
		Date:       req.Date,
		Quantity:   *req.Quantity,
		PricePerKg: *req.PricePerKg,
	})
	if err != nil {
		respondError(c, "Ошибка создания закупки", err)
		return
	}
	c.JSON(http.StatusCreated, purchase)
}

// SortPurchases пересортировывает закупки
// POST /api/v1/ledger/purchases/sort
func (pc *PurchaseController) SortPurchases(c *gin.Context) {
	var req struct {
		Field string `json:"field" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := pc.service.SortBy(req.Field); err != nil {
		respondError(c, "Ошибка сортировки закупок", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchases": pc.service.GetAll()})
}

// GetSummary сводка по закупкам
// GET /api/v1/ledger/purchases/summary?farmer_id=&start=&end=
func (pc *PurchaseController) GetSummary(c *gin.Context) {
	farmerID, ok := queryID(c, "farmer_id")
	if !ok {
		return
	}
	summary, err := pc.service.Summary(services.PurchaseFilter{
		FarmerID:  farmerID,
		StartDate: c.Query("start"),
		EndDate:   c.Query("end"),
	})
	if err != nil {
		respondError(c, "Ошибка расчета сводки", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetExpenses сумма закупок за период
// GET /api/v1/ledger/purchases/expenses?start=&end=
func (pc *PurchaseController) GetExpenses(c *gin.Context) {
	total, err := pc.service.Expenses(c.Query("start"), c.Query("end"))
	if err != nil {
		respondError(c, "Ошибка расчета расходов", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"start":    c.Query("start"),
		"end":      c.Query("end"),
		"expenses": total,
	})
}
