package services

import (
	"fmt"

	"agroledger/server/internal/events"
	"agroledger/server/internal/models"
	"agroledger/server/internal/repository"

	"github.com/rs/zerolog/log"
)

// FinanceService строит отчеты по продажам, финансовый анализ и сводный отчет
type FinanceService struct {
	ledger    *repository.Ledger
	publisher events.Publisher
}

// NewFinanceService создает новый экземпляр FinanceService
func NewFinanceService(ledger *repository.Ledger) *FinanceService {
	return &FinanceService{ledger: ledger}
}

// SetPublisher устанавливает получателя событий
func (s *FinanceService) SetPublisher(p events.Publisher) {
	s.publisher = p
}

// CategorySales продажи одной категории
type CategorySales struct {
	Name    string  `json:"name"`
	Units   int     `json:"units"`
	Revenue float64 `json:"revenue"`
}

// SalesReport продажи по категориям (ключ - id категории) и итоги
type SalesReport struct {
	PerCategory  map[int64]CategorySales `json:"per_category"`
	TotalUnits   int                     `json:"total_units"`
	TotalRevenue float64                 `json:"total_revenue"`
}

// FinancialAnalysis доходы, расходы, налог и чистая прибыль за период
type FinancialAnalysis struct {
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Income    float64 `json:"income"`
	Expenses  float64 `json:"expenses"`
	TaxRate   float64 `json:"tax_rate"`
	Tax       float64 `json:"tax"`
	NetProfit float64 `json:"net_profit"`
}

// CategoryUnits проданные единицы категории
type CategoryUnits struct {
	Name  string `json:"name"`
	Units int    `json:"units"`
}

// ComprehensiveReport сводный отчет.
// CategorySales индексируется id категории, CurrentStock - названием категории.
type ComprehensiveReport struct {
	StartDate     string                  `json:"start_date"`
	EndDate       string                  `json:"end_date"`
	TaxRate       float64                 `json:"tax_rate"`
	Income        float64                 `json:"income"`
	Expenses      float64                 `json:"expenses"`
	Tax           float64                 `json:"tax"`
	NetProfit     float64                 `json:"net_profit"`
	CategorySales map[int64]CategoryUnits `json:"category_sales"`
	CurrentStock  map[string]int          `json:"current_stock"`
}

// SalesReport считает единицы и выручку по всем позициям всех заказов.
// Категории без продаж присутствуют с нулями; позиции удаленных категорий попадают под "Unknown".
func (s *FinanceService) SalesReport() SalesReport {
	report := SalesReport{PerCategory: make(map[int64]CategorySales)}
	s.ledger.Read(func() {
		for _, c := range s.ledger.Categories.Items() {
			report.PerCategory[c.ID] = CategorySales{Name: c.Name}
		}
		for _, o := range s.ledger.Orders.Items() {
			for _, item := range o.Items {
				entry, ok := report.PerCategory[item.CategoryID]
				if !ok {
					entry = CategorySales{Name: models.UnknownLabel}
				}
				entry.Units += item.Quantity
				entry.Revenue += item.TotalPrice
				report.PerCategory[item.CategoryID] = entry

				report.TotalUnits += item.Quantity
				report.TotalRevenue += item.TotalPrice
			}
		}
	})
	return report
}

// FinancialAnalysis считает доход по заказам и расходы по закупкам за включительный период.
// Каждый расчет добавляет запись в журнал налоговых обязательств.
func (s *FinanceService) FinancialAnalysis(startDate, endDate string, taxRateID int64) (FinancialAnalysis, error) {
	r, err := newDateRange(startDate, endDate)
	if err != nil {
		return FinancialAnalysis{}, err
	}

	analysis := FinancialAnalysis{StartDate: startDate, EndDate: endDate}
	var liability models.TaxLiability
	err = s.ledger.Write(func() error {
		for _, o := range s.ledger.Orders.Items() {
			if r.contains(o.OrderDate) {
				analysis.Income += o.TotalCost
			}
		}
		analysis.Expenses = expensesIn(s.ledger, r)
		analysis.TaxRate = rateOf(s.ledger, taxRateID)
		analysis.Tax = analysis.Income * analysis.TaxRate
		analysis.NetProfit = analysis.Income - analysis.Expenses - analysis.Tax

		liability = models.TaxLiability{
			ID:        s.ledger.NextID(),
			Period:    fmt.Sprintf("%s to %s", startDate, endDate),
			TaxRate:   analysis.TaxRate,
			TaxAmount: analysis.Tax,
		}
		s.ledger.TaxLiabilities.Append(liability)
		if err := s.ledger.TaxLiabilities.Save(); err != nil {
			s.ledger.TaxLiabilities.RemoveAt(s.ledger.TaxLiabilities.Len() - 1)
			return err
		}
		return nil
	})
	if err != nil {
		return FinancialAnalysis{}, fmt.Errorf("ошибка записи налогового обязательства: %w", err)
	}

	log.Info().Msgf("💰 Финансовый анализ %s: доход=%.2f, расходы=%.2f, налог=%.2f, прибыль=%.2f",
		liability.Period, analysis.Income, analysis.Expenses, analysis.Tax, analysis.NetProfit)
	publish(s.publisher, events.TypeTaxLiabilityCreated, liability.ID, liability)
	return analysis, nil
}

// ComprehensiveReport объединяет финансовые показатели, продажи по категориям за период
// и текущие остатки. Журнал налоговых обязательств не пополняется.
func (s *FinanceService) ComprehensiveReport(startDate, endDate string, taxRateID int64) (ComprehensiveReport, error) {
	r, err := newDateRange(startDate, endDate)
	if err != nil {
		return ComprehensiveReport{}, err
	}

	report := ComprehensiveReport{
		StartDate:     startDate,
		EndDate:       endDate,
		CategorySales: make(map[int64]CategoryUnits),
		CurrentStock:  make(map[string]int),
	}
	s.ledger.Read(func() {
		for _, c := range s.ledger.Categories.Items() {
			report.CategorySales[c.ID] = CategoryUnits{Name: c.Name}
			report.CurrentStock[c.Name] = c.Stock
		}

		for _, o := range s.ledger.Orders.Items() {
			if !r.contains(o.OrderDate) {
				continue
			}
			for _, item := range o.Items {
				report.Income += item.TotalPrice
				entry, ok := report.CategorySales[item.CategoryID]
				if !ok {
					entry = CategoryUnits{Name: models.UnknownLabel}
				}
				entry.Units += item.Quantity
				report.CategorySales[item.CategoryID] = entry
			}
		}

		report.Expenses = expensesIn(s.ledger, r)
		report.TaxRate = rateOf(s.ledger, taxRateID)
		report.Tax = report.Income * report.TaxRate
		report.NetProfit = report.Income - report.Expenses - report.Tax
	})
	return report, nil
}
