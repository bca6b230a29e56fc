package api

import (
	"net/http"

	"agroledger/server/internal/services"

	"github.com/gin-gonic/gin"
)

// TaxRateController управляет API endpoints для налоговых ставок
type TaxRateController struct {
	service *services.TaxRateService
}

// NewTaxRateController создает новый контроллер налоговых ставок
func NewTaxRateController(service *services.TaxRateService) *TaxRateController {
	return &TaxRateController{service: service}
}

type taxRateRequest struct {
	Name string   `json:"name" binding:"required"`
	Rate *float64 `json:"rate" binding:"required"`
}

// GetTaxRates список ставок
// GET /api/v1/ledger/tax-rates
func (tc *TaxRateController) GetTaxRates(c *gin.Context) {
	rates := tc.service.GetAll()
	c.JSON(http.StatusOK, gin.H{
		"tax_rates": rates,
		"count":     len(rates),
	})
}

// CreateTaxRate создает ставку
// POST /api/v1/ledger/tax-rates
func (tc *TaxRateController) CreateTaxRate(c *gin.Context) {
	var req taxRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	rate, err := tc.service.Add(req.Name, *req.Rate)
	if err != nil {
		respondError(c, "Ошибка создания ставки", err)
		return
	}
	c.JSON(http.StatusCreated, rate)
}

// UpdateTaxRate меняет ставку
// PUT /api/v1/ledger/tax-rates/:id
func (tc *TaxRateController) UpdateTaxRate(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req taxRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	found, err := tc.service.Update(id, req.Name, *req.Rate)
	if err != nil {
		respondError(c, "Ошибка обновления ставки", err)
		return
	}
	if !found {
		respondNotFound(c, "Ставка не найдена")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "name": req.Name, "rate": *req.Rate})
}

// DeleteTaxRate удаляет ставку
// DELETE /api/v1/ledger/tax-rates/:id
func (tc *TaxRateController) DeleteTaxRate(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	found, err := tc.service.Delete(id)
	if err != nil {
		respondError(c, "Ошибка удаления ставки", err)
		return
	}
	if !found {
		respondNotFound(c, "Ставка не найдена")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Ставка удалена"})
}
