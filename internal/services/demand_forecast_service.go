package services

import (
	"fmt"
	"strings"

	"agroledger/server/internal/models"
	"agroledger/server/internal/repository"
)

// ForecastWindow сколько последних заказов сравнивается с предыдущими
const ForecastWindow = 5

// Тренды спроса
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// DemandForecastService сравнивает спрос в последних заказах с предыдущими и подсказывает дозаказ
type DemandForecastService struct {
	ledger *repository.Ledger
}

// NewDemandForecastService создает новый экземпляр DemandForecastService
func NewDemandForecastService(ledger *repository.Ledger) *DemandForecastService {
	return &DemandForecastService{ledger: ledger}
}

// ForecastReport рекомендация по спросу. Это эвристика, а не статистический прогноз.
type ForecastReport struct {
	Trend            string                 `json:"trend"`
	RecentTotal      int                    `json:"recent_total"`
	PreviousTotal    int                    `json:"previous_total"`
	RecentByCategory map[int64]int          `json:"recent_by_category"`
	ReorderItems     []models.InventoryItem `json:"reorder_items"`
	Message          string                 `json:"message"`
}

// Forecast сравнивает суммарное количество единиц в последних 5 заказах (в порядке создания)
// с 5 заказами перед ними. Если в предыдущем окне 0 единиц, тренд считается стабильным.
func (s *DemandForecastService) Forecast() ForecastReport {
	report := ForecastReport{RecentByCategory: make(map[int64]int)}

	s.ledger.Read(func() {
		orders := s.ledger.Orders.Items()
		n := len(orders)
		recentStart := max(n-ForecastWindow, 0)
		previousStart := max(recentStart-ForecastWindow, 0)

		for _, o := range orders[recentStart:] {
			report.RecentTotal += o.TotalQuantity()
			for _, item := range o.Items {
				report.RecentByCategory[item.CategoryID] += item.Quantity
			}
		}
		for _, o := range orders[previousStart:recentStart] {
			report.PreviousTotal += o.TotalQuantity()
		}

		report.ReorderItems = reorderItems(s.ledger)
	})

	switch {
	case report.PreviousTotal == 0:
		report.Trend = TrendStable
	case report.RecentTotal > report.PreviousTotal:
		report.Trend = TrendIncreasing
	case report.RecentTotal < report.PreviousTotal:
		report.Trend = TrendDecreasing
	default:
		report.Trend = TrendStable
	}

	report.Message = forecastMessage(report)
	return report
}

func forecastMessage(r ForecastReport) string {
	var b strings.Builder
	if r.PreviousTotal == 0 {
		fmt.Fprintf(&b, "Demand is %s: no units in the previous %d orders to compare with.", r.Trend, ForecastWindow)
	} else {
		fmt.Fprintf(&b, "Demand is %s: %d units in the last %d orders vs %d units in the previous %d.",
			r.Trend, r.RecentTotal, ForecastWindow, r.PreviousTotal, ForecastWindow)
	}

	if len(r.ReorderItems) == 0 {
		b.WriteString(" No inventory items need reordering.")
		return b.String()
	}

	b.WriteString(" Reorder needed:")
	for i, item := range r.ReorderItems {
		if i > 0 {
			b.WriteString(";")
		}
		fmt.Fprintf(&b, " %s (%.2f available, reorder level %d)", item.Category, item.QuantityAvailable, item.ReorderLevel)
	}
	b.WriteString(".")
	return b.String()
}
