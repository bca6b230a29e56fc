package api

import (
	"net/http"
	"strconv"

	"agroledger/server/internal/services"

	"github.com/gin-gonic/gin"
)

// CategoryController управляет API endpoints для фасованных категорий
type CategoryController struct {
	service *services.CategoryService
}

// NewCategoryController создает новый контроллер категорий
func NewCategoryController(service *services.CategoryService) *CategoryController {
	return &CategoryController{service: service}
}

// GetCategories список категорий
// GET /api/v1/ledger/categories
func (cc *CategoryController) GetCategories(c *gin.Context) {
	categories := cc.service.GetAll()
	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"count":      len(categories),
	})
}

// CreateCategory создает категорию
// POST /api/v1/ledger/categories
func (cc *CategoryController) CreateCategory(c *gin.Context) {
	var req struct {
		Name             string   `json:"name" binding:"required"`
		Weight           string   `json:"weight"`
		Price            *float64 `json:"price" binding:"required"`
		ReorderThreshold *int     `json:"reorder_threshold"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	category, err := cc.service.Add(services.CategoryInput{
		Name:             req.Name,
		Weight:           req.Weight,
		Price:            *req.Price,
		ReorderThreshold: req.ReorderThreshold,
	})
	if err != nil {
		respondError(c, "Ошибка создания категории", err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// DeleteCategory удаляет категорию
// DELETE /api/v1/ledger/categories/:id
func (cc *CategoryController) DeleteCategory(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	found, err := cc.service.Delete(id)
	if err != nil {
		respondError(c, "Ошибка удаления категории", err)
		return
	}
	if !found {
		respondNotFound(c, "Категория не найдена")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Категория удалена"})
}

// UpdatePrice меняет цену
// PUT /api/v1/ledger/categories/:id/price
func (cc *CategoryController) UpdatePrice(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req struct {
		Price *float64 `json:"price" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	cc.respondUpdated(c, id)(cc.service.UpdatePrice(id, *req.Price))
}

// UpdateThreshold меняет порог дозаказа
// PUT /api/v1/ledger/categories/:id/threshold
func (cc *CategoryController) UpdateThreshold(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req struct {
		ReorderThreshold *int `json:"reorder_threshold" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	cc.respondUpdated(c, id)(cc.service.UpdateReorderThreshold(id, *req.ReorderThreshold))
}

// AdjustStock ручная корректировка остатка
// POST /api/v1/ledger/categories/:id/stock
func (cc *CategoryController) AdjustStock(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req struct {
		Delta int `json:"delta" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	cc.respondUpdated(c, id)(cc.service.AdjustStock(id, req.Delta))
}

// GetCost калькулятор стоимости: цена категории x количество
// GET /api/v1/ledger/categories/:id/cost?units=
func (cc *CategoryController) GetCost(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	units, err := strconv.Atoi(c.Query("units"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректное количество units"})
		return
	}

	cost, err := cc.service.CostOf(id, units)
	if err != nil {
		respondError(c, "Ошибка расчета стоимости", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"category_id": id,
		"units":       units,
		"cost":        cost,
	})
}

func (cc *CategoryController) respondUpdated(c *gin.Context, id int64) func(bool, error) {
	return func(found bool, err error) {
		if err != nil {
			respondError(c, "Ошибка обновления категории", err)
			return
		}
		if !found {
			respondNotFound(c, "Категория не найдена")
			return
		}
		category, _ := cc.service.Get(id)
		c.JSON(http.StatusOK, category)
	}
}
