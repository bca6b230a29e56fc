package api

import (
	"errors"
	"net/http"
	"strconv"

	"agroledger/server/internal/models"

	"github.com/gin-gonic/gin"
)

// respondError отвечает статусом по типу ошибки учета
func respondError(c *gin.Context, message string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrInsufficientStock):
		status = http.StatusConflict
	case errors.Is(err, models.ErrUnknownCategory), errors.Is(err, models.ErrUnknownReference):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrInvalidNumeric),
		errors.Is(err, models.ErrInvalidDate),
		errors.Is(err, models.ErrInvalidStatus),
		errors.Is(err, models.ErrInvalidField):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{
		"error":   message,
		"details": err.Error(),
	})
}

func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Неверные данные",
		"details": err.Error(),
	})
}

func respondNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{
		"error": message,
	})
}

// paramID читает :id из пути
func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Некорректный id",
		})
		return 0, false
	}
	return id, true
}

// queryID читает необязательный числовой query параметр. Пустое значение = 0.
func queryID(c *gin.Context, name string) (int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Некорректный параметр " + name,
		})
		return 0, false
	}
	return id, true
}
