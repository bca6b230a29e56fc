package services

import (
	"fmt"
	"sort"

	"agroledger/server/internal/events"
	"agroledger/server/internal/models"
	"agroledger/server/internal/repository"

	"github.com/rs/zerolog/log"
)

// PurchaseService управляет закупками сырья и считает сводки по ним
type PurchaseService struct {
	ledger    *repository.Ledger
	publisher events.Publisher
}

// NewPurchaseService создает новый экземпляр PurchaseService
func NewPurchaseService(ledger *repository.Ledger) *PurchaseService {
	return &PurchaseService{ledger: ledger}
}

// SetPublisher устанавливает получателя событий
func (s *PurchaseService) SetPublisher(p events.Publisher) {
	s.publisher = p
}

// PurchaseInput данные новой закупки
type PurchaseInput struct {
	FarmerID   int64   `json:"farmer_id"`
	Date       string  `json:"date"`
	Quantity   float64 `json:"quantity"`
	PricePerKg float64 `json:"price_per_kg"`
}

// PurchaseFilter фильтр сводки. Нулевые поля не ограничивают выборку.
type PurchaseFilter struct {
	FarmerID  int64
	StartDate string
	EndDate   string
}

// PurchaseSummary сводка по закупкам
type PurchaseSummary struct {
	Count         int     `json:"count"`
	TotalQuantity float64 `json:"total_quantity"`
	TotalCost     float64 `json:"total_cost"`
}

// GetAll возвращает все закупки в текущем порядке
func (s *PurchaseService) GetAll() []models.Purchase {
	var purchases []models.Purchase
	s.ledger.Read(func() {
		purchases = s.ledger.Purchases.All()
	})
	return purchases
}

// Add создает закупку. TotalCost = Quantity * PricePerKg.
// Ссылка на фермера не проверяется: закупка может пережить фермера.
func (s *PurchaseService) Add(input PurchaseInput) (models.Purchase, error) {
	if !validDate(input.Date) {
		return models.Purchase{}, fmt.Errorf("%w: %q", models.ErrInvalidDate, input.Date)
	}
	if !validAmount(input.Quantity) || !validAmount(input.PricePerKg) {
		return models.Purchase{}, fmt.Errorf("%w: количество и цена должны быть неотрицательными числами", models.ErrInvalidNumeric)
	}

	purchase := models.Purchase{
		FarmerID:   input.FarmerID,
		Date:       input.Date,
		Quantity:   input.Quantity,
		PricePerKg: input.PricePerKg,
		TotalCost:  input.Quantity * input.PricePerKg,
	}

	err := s.ledger.Write(func() error {
		purchase.ID = s.ledger.NextID()
		s.ledger.Purchases.Append(purchase)
		if err := s.ledger.Purchases.Save(); err != nil {
			s.ledger.Purchases.RemoveAt(s.ledger.Purchases.Len() - 1)
			return err
		}
		return nil
	})
	if err != nil {
		return models.Purchase{}, fmt.Errorf("ошибка создания закупки: %w", err)
	}

	log.Info().Msgf("✅ Закупка записана: %.2f кг x %.2f = %.2f (фермер %d)",
		purchase.Quantity, purchase.PricePerKg, purchase.TotalCost, purchase.FarmerID)
	publish(s.publisher, events.TypePurchaseCreated, purchase.ID, purchase)
	return purchase, nil
}

// SortBy пересортировывает закупки по дате или сумме (по возрастанию) и сохраняет порядок.
// Поля записей не меняются.
func (s *PurchaseService) SortBy(field string) error {
	var less func(a, b models.Purchase) bool
	switch field {
	case models.PurchaseSortByDate:
		less = func(a, b models.Purchase) bool { return a.Date < b.Date }
	case models.PurchaseSortByTotalCost:
		less = func(a, b models.Purchase) bool { return a.TotalCost < b.TotalCost }
	default:
		return fmt.Errorf("%w: сортировка по %q не поддерживается", models.ErrInvalidField, field)
	}

	err := s.ledger.Write(func() error {
		snapshot := s.ledger.Purchases.Snapshot()
		sorted := s.ledger.Purchases.All()
		sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
		s.ledger.Purchases.Restore(sorted)
		if err := s.ledger.Purchases.Save(); err != nil {
			s.ledger.Purchases.Restore(snapshot)
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("ошибка сортировки закупок: %w", err)
	}
	return nil
}

// Summary считает количество, объем и сумму закупок по фильтру
func (s *PurchaseService) Summary(filter PurchaseFilter) (PurchaseSummary, error) {
	r, err := newDateRange(filter.StartDate, filter.EndDate)
	if err != nil {
		return PurchaseSummary{}, err
	}

	var summary PurchaseSummary
	s.ledger.Read(func() {
		for _, p := range s.ledger.Purchases.Items() {
			if filter.FarmerID != 0 && p.FarmerID != filter.FarmerID {
				continue
			}
			if !r.contains(p.Date) {
				continue
			}
			summary.Count++
			summary.TotalQuantity += p.Quantity
			summary.TotalCost += p.TotalCost
		}
	})
	return summary, nil
}

// Expenses сумма закупок за включительный период
func (s *PurchaseService) Expenses(startDate, endDate string) (float64, error) {
	r, err := newDateRange(startDate, endDate)
	if err != nil {
		return 0, err
	}
	var total float64
	s.ledger.Read(func() {
		total = expensesIn(s.ledger, r)
	})
	return total, nil
}

// expensesIn вызывать под блокировкой учета
func expensesIn(l *repository.Ledger, r dateRange) float64 {
	var total float64
	for _, p := range l.Purchases.Items() {
		if r.contains(p.Date) {
			total += p.TotalCost
		}
	}
	return total
}
