package api

import "github.com/gin-gonic/gin"

// LedgerControllers контроллеры учета, подключаемые к /api/v1/ledger
type LedgerControllers struct {
	Farmers    *FarmerController
	Purchases  *PurchaseController
	Categories *CategoryController
	Inventory  *InventoryController
	Orders     *OrderController
	Stock      *StockController
	TaxRates   *TaxRateController
	Reports    *ReportController
	WS         *LedgerWSController
}

// RegisterLedgerRoutes регистрирует маршруты учета в группе
func RegisterLedgerRoutes(ledgerGroup *gin.RouterGroup, h LedgerControllers) {
	farmers := ledgerGroup.Group("/farmers")
	farmers.GET("", h.Farmers.GetFarmers)
	farmers.GET("/:id", h.Farmers.GetFarmer)
	farmers.POST("", h.Farmers.CreateFarmer)
	farmers.PUT("/:id", h.Farmers.UpdateFarmer)
	farmers.DELETE("/:id", h.Farmers.DeleteFarmer)

	purchases := ledgerGroup.Group("/purchases")
	purchases.GET("", h.Purchases.GetPurchases)
	purchases.POST("", h.Purchases.CreatePurchase)
	purchases.POST("/sort", h.Purchases.SortPurchases)
	purchases.GET("/summary", h.Purchases.GetSummary)
	purchases.GET("/expenses", h.Purchases.GetExpenses)

	categories := ledgerGroup.Group("/categories")
	categories.GET("", h.Categories.GetCategories)
	categories.POST("", h.Categories.CreateCategory)
	categories.DELETE("/:id", h.Categories.DeleteCategory)
	categories.PUT("/:id/price", h.Categories.UpdatePrice)
	categories.PUT("/:id/threshold", h.Categories.UpdateThreshold)
	categories.POST("/:id/stock", h.Categories.AdjustStock)
	categories.GET("/:id/cost", h.Categories.GetCost)

	inventory := ledgerGroup.Group("/inventory")
	inventory.GET("", h.Inventory.GetInventory)
	inventory.PUT("", h.Inventory.UpsertItem)
	inventory.DELETE("/:id", h.Inventory.DeleteItem)

	orders := ledgerGroup.Group("/orders")
	orders.GET("", h.Orders.GetOrders)
	orders.GET("/export", h.Reports.ExportOrders)
	orders.GET("/:id", h.Orders.GetOrder)
	orders.POST("", h.Orders.CreateOrder)
	orders.PUT("/:id/status", h.Orders.UpdateStatus)

	ledgerGroup.POST("/packaging", h.Stock.Package)
	ledgerGroup.GET("/alerts/low-stock", h.Stock.GetLowStock)
	ledgerGroup.GET("/alerts/restock-soon", h.Stock.GetRestockSoon)

	taxRates := ledgerGroup.Group("/tax-rates")
	taxRates.GET("", h.TaxRates.GetTaxRates)
	taxRates.POST("", h.TaxRates.CreateTaxRate)
	taxRates.PUT("/:id", h.TaxRates.UpdateTaxRate)
	taxRates.DELETE("/:id", h.TaxRates.DeleteTaxRate)

	reports := ledgerGroup.Group("/reports")
	reports.GET("/sales", h.Reports.GetSalesReport)
	reports.GET("/sales/export", h.Reports.ExportSalesReport)
	reports.POST("/financial", h.Reports.CreateFinancialAnalysis)
	reports.GET("/comprehensive", h.Reports.GetComprehensiveReport)
	reports.GET("/comprehensive/export", h.Reports.ExportComprehensiveReport)
	reports.GET("/forecast", h.Reports.GetForecast)

	if h.WS != nil {
		ledgerGroup.GET("/ws", h.WS.Serve)
	}
}
