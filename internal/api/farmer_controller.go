package api

import (
	"net/http"

	"agroledger/server/internal/models"
	"agroledger/server/internal/services"

	"github.com/gin-gonic/gin"
)

// FarmerController управляет API endpoints для фермеров
type FarmerController struct {
	service *services.FarmerService
}

// NewFarmerController создает новый контроллер фермеров
func NewFarmerController(service *services.FarmerService) *FarmerController {
	return &FarmerController{service: service}
}

type farmerRequest struct {
	Name           string `json:"name" binding:"required"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Address        string `json:"address"`
	Region         string `json:"region" binding:"required"`
	GPSCoordinates string `json:"gps_coordinates"`
}

func (r farmerRequest) toModel() models.Farmer {
	return models.Farmer{
		Name:           r.Name,
		Phone:          r.Phone,
		Email:          r.Email,
		Address:        r.Address,
		Region:         r.Region,
		GPSCoordinates: r.GPSCoordinates,
	}
}

// GetFarmers список фермеров, ?q= ищет по имени и региону
// GET /api/v1/ledger/farmers
func (fc *FarmerController) GetFarmers(c *gin.Context) {
	var farmers []models.Farmer
	if q := c.Query("q"); q != "" {
		farmers = fc.service.Search(q)
	} else {
		farmers = fc.service.GetAll()
	}

	c.JSON(http.StatusOK, gin.H{
		"farmers": farmers,
		"count":   len(farmers),
	})
}

// GetFarmer фермер по id
// GET /api/v1/ledger/farmers/:id
func (fc *FarmerController) GetFarmer(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	farmer, found := fc.service.Get(id)
	if !found {
		respondNotFound(c, "Фермер не найден")
		return
	}
	c.JSON(http.StatusOK, farmer)
}

// CreateFarmer создает фермера
// POST /api/v1/ledger/farmers
func (fc *FarmerController) CreateFarmer(c *gin.Context) {
	var req farmerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	farmer, err := fc.service.Add(req.toModel())
	if err != nil {
		respondError(c, "Ошибка создания фермера", err)
		return
	}
	c.JSON(http.StatusCreated, farmer)
}

// UpdateFarmer заменяет данные фермера
// PUT /api/v1/ledger/farmers/:id
func (fc *FarmerController) UpdateFarmer(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req farmerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	found, err := fc.service.Update(id, req.toModel())
	if err != nil {
		respondError(c, "Ошибка обновления фермера", err)
		return
	}
	if !found {
		respondNotFound(c, "Фермер не найден")
		return
	}

	farmer, _ := fc.service.Get(id)
	c.JSON(http.StatusOK, farmer)
}

// DeleteFarmer удаляет фермера
// DELETE /api/v1/ledger/farmers/:id
func (fc *FarmerController) DeleteFarmer(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	found, err := fc.service.Delete(id)
	if err != nil {
		respondError(c, "Ошибка удаления фермера", err)
		return
	}
	if !found {
		respondNotFound(c, "Фермер не найден")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Фермер удален"})
}
