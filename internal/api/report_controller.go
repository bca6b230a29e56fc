package api

import (
	"fmt"
	"net/http"

	"agroledger/server/internal/export"
	"agroledger/server/internal/services"

	"github.com/gin-gonic/gin"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ReportController отчеты учета и их выгрузка
type ReportController struct {
	financeService  *services.FinanceService
	forecastService *services.DemandForecastService
	orderService    *services.OrderService
	categoryService *services.CategoryService
}

// NewReportController создает контроллер отчетов
func NewReportController(
	financeService *services.FinanceService,
	forecastService *services.DemandForecastService,
	orderService *services.OrderService,
	categoryService *services.CategoryService,
) *ReportController {
	return &ReportController{
		financeService:  financeService,
		forecastService: forecastService,
		orderService:    orderService,
		categoryService: categoryService,
	}
}

// GetSalesReport продажи по категориям
// GET /api/v1/ledger/reports/sales
func (rc *ReportController) GetSalesReport(c *gin.Context) {
	c.JSON(http.StatusOK, rc.financeService.SalesReport())
}

// CreateFinancialAnalysis доходы, расходы, налог и прибыль за период.
// Каждый вызов пополняет журнал налоговых обязательств, поэтому это POST.
// POST /api/v1/ledger/reports/financial?start=&end=&tax_rate_id=
func (rc *ReportController) CreateFinancialAnalysis(c *gin.Context) {
	taxRateID, ok := queryID(c, "tax_rate_id")
	if !ok {
		return
	}
	analysis, err := rc.financeService.FinancialAnalysis(c.Query("start"), c.Query("end"), taxRateID)
	if err != nil {
		respondError(c, "Ошибка финансового анализа", err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// GetComprehensiveReport сводный отчет
// GET /api/v1/ledger/reports/comprehensive?start=&end=&tax_rate_id=
func (rc *ReportController) GetComprehensiveReport(c *gin.Context) {
	taxRateID, ok := queryID(c, "tax_rate_id")
	if !ok {
		return
	}
	report, err := rc.financeService.ComprehensiveReport(c.Query("start"), c.Query("end"), taxRateID)
	if err != nil {
		respondError(c, "Ошибка формирования отчета", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetForecast рекомендация по спросу и дозаказу
// GET /api/v1/ledger/reports/forecast
func (rc *ReportController) GetForecast(c *gin.Context) {
	c.JSON(http.StatusOK, rc.forecastService.Forecast())
}

// ExportSalesReport выгрузка отчета по продажам
// GET /api/v1/ledger/reports/sales/export?format=csv|xlsx
func (rc *ReportController) ExportSalesReport(c *gin.Context) {
	report := rc.financeService.SalesReport()
	switch c.DefaultQuery("format", "csv") {
	case "csv":
		rc.sendFile(c, "sales-report.csv", contentTypeCSV)(export.SalesReportCSV(report))
	case "xlsx":
		rc.sendFile(c, "sales-report.xlsx", contentTypeXLSX)(export.SalesReportXLSX(report))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Формат должен быть csv или xlsx"})
	}
}

// ExportComprehensiveReport выгрузка сводного отчета
// GET /api/v1/ledger/reports/comprehensive/export?start=&end=&tax_rate_id=&format=csv|xlsx
func (rc *ReportController) ExportComprehensiveReport(c *gin.Context) {
	taxRateID, ok := queryID(c, "tax_rate_id")
	if !ok {
		return
	}
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Формат должен быть csv или xlsx"})
		return
	}

	report, err := rc.financeService.ComprehensiveReport(c.Query("start"), c.Query("end"), taxRateID)
	if err != nil {
		respondError(c, "Ошибка формирования отчета", err)
		return
	}
	if format == "xlsx" {
		rc.sendFile(c, "comprehensive-report.xlsx", contentTypeXLSX)(export.ComprehensiveReportXLSX(report))
		return
	}
	rc.sendFile(c, "comprehensive-report.csv", contentTypeCSV)(export.ComprehensiveReportCSV(report))
}

// ExportOrders выгрузка заказов в CSV
// GET /api/v1/ledger/orders/export
func (rc *ReportController) ExportOrders(c *gin.Context) {
	orders := rc.orderService.GetAll()
	rc.sendFile(c, "orders.csv", contentTypeCSV)(export.OrdersCSV(orders, rc.categoryService.NameOf))
}

func (rc *ReportController) sendFile(c *gin.Context, filename, contentType string) func([]byte, error) {
	return func(data []byte, err error) {
		if err != nil {
			respondError(c, "Ошибка выгрузки", err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, contentType, data)
	}
}
