package api

import (
	"net/http"

	"agroledger/server/internal/services"

	"github.com/gin-gonic/gin"
)

// InventoryController управляет API endpoints для сырья
type InventoryController struct {
	service *services.InventoryService
}

// NewInventoryController создает новый контроллер сырья
func NewInventoryController(service *services.InventoryService) *InventoryController {
	return &InventoryController{service: service}
}

// GetInventory список сырья
// GET /api/v1/ledger/inventory
func (ic *InventoryController) GetInventory(c *gin.Context) {
	items := ic.service.GetAll()
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// UpsertItem создает запись сырья (id не задан) или обновляет существующую
// PUT /api/v1/ledger/inventory
func (ic *InventoryController) UpsertItem(c *gin.Context) {
	var req services.InventoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	if req.ID == 0 {
		item, err := ic.service.Add(req)
		if err != nil {
			respondError(c, "Ошибка сохранения сырья", err)
			return
		}
		c.JSON(http.StatusCreated, item)
		return
	}

	item, found, err := ic.service.Update(req.ID, req)
	if err != nil {
		respondError(c, "Ошибка сохранения сырья", err)
		return
	}
	if !found {
		respondNotFound(c, "Сырье не найдено")
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteItem удаляет запись сырья
// DELETE /api/v1/ledger/inventory/:id
func (ic *InventoryController) DeleteItem(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	found, err := ic.service.Delete(id)
	if err != nil {
		respondError(c, "Ошибка удаления сырья", err)
		return
	}
	if !found {
		respondNotFound(c, "Сырье не найдено")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Сырье удалено"})
}
