package api

import (
	"net/http"

	"agroledger/server/internal/models"
	"agroledger/server/internal/services"

	"github.com/gin-gonic/gin"
)

// OrderController управляет API endpoints для заказов
type OrderController struct {
	service *services.OrderService
}

// NewOrderController создает новый контроллер заказов
func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{service: service}
}

// GetOrders список заказов с фильтрами ?customer=&status=&category_id=
// GET /api/v1/ledger/orders
func (oc *OrderController) GetOrders(c *gin.Context) {
	categoryID, ok := queryID(c, "category_id")
	if !ok {
		return
	}
	status := models.OrderStatus(c.Query("status"))
	if status != "" && !status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный статус заказа"})
		return
	}

	orders := oc.service.Filter(services.OrderFilter{
		CustomerName: c.Query("customer"),
		Status:       status,
		CategoryID:   categoryID,
	})
	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrder заказ по id
// GET /api/v1/ledger/orders/:id
func (oc *OrderController) GetOrder(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	order, found := oc.service.Get(id)
	if !found {
		respondNotFound(c, "Заказ не найден")
		return
	}
	c.JSON(http.StatusOK, order)
}

// CreateOrder создает заказ и списывает остатки категорий
// POST /api/v1/ledger/orders
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req struct {
		CustomerName    string               `json:"customer_name" binding:"required"`
		CustomerContact string               `json:"customer_contact"`
		ShippingInfo    string               `json:"shipping_info"`
		Items           []services.OrderLine `json:"items" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	order, err := oc.service.Create(services.OrderInput{
		CustomerName:    req.CustomerName,
		CustomerContact: req.CustomerContact,
		ShippingInfo:    req.ShippingInfo,
		Lines:           req.Items,
	})
	if err != nil {
		respondError(c, "Ошибка создания заказа", err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// UpdateStatus меняет статус заказа
// PUT /api/v1/ledger/orders/:id/status
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	found, err := oc.service.UpdateStatus(id, models.OrderStatus(req.Status))
	if err != nil {
		respondError(c, "Ошибка обновления статуса", err)
		return
	}
	if !found {
		respondNotFound(c, "Заказ не найден")
		return
	}
	order, _ := oc.service.Get(id)
	c.JSON(http.StatusOK, order)
}
