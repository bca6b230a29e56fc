package services

import (
	"fmt"
	"strings"

	"agroledger/server/internal/events"
	"agroledger/server/internal/models"
	"agroledger/server/internal/repository"

	"github.com/rs/zerolog/log"
)

// OrderService создает заказы со списанием фасованных остатков и ведет их статусы
type OrderService struct {
	ledger    *repository.Ledger
	publisher events.Publisher
}

// NewOrderService создает новый экземпляр OrderService
func NewOrderService(ledger *repository.Ledger) *OrderService {
	return &OrderService{ledger: ledger}
}

// SetPublisher устанавливает получателя событий
func (s *OrderService) SetPublisher(p events.Publisher) {
	s.publisher = p
}

// OrderLine позиция нового заказа
type OrderLine struct {
	CategoryID int64 `json:"category_id"`
	Quantity   int   `json:"quantity"`
}

// OrderInput данные нового заказа
type OrderInput struct {
	CustomerName    string      `json:"customer_name"`
	CustomerContact string      `json:"customer_contact"`
	ShippingInfo    string      `json:"shipping_info"`
	Lines           []OrderLine `json:"items"`
}

// OrderFilter фильтр списка заказов. Пустые поля не ограничивают выборку.
type OrderFilter struct {
	CustomerName string
	Status       models.OrderStatus
	CategoryID   int64
}

// GetAll возвращает все заказы в порядке создания
func (s *OrderService) GetAll() []models.Order {
	var orders []models.Order
	s.ledger.Read(func() {
		orders = s.ledger.Orders.All()
	})
	return orders
}

// Get возвращает заказ по id
func (s *OrderService) Get(id int64) (models.Order, bool) {
	var (
		order models.Order
		ok    bool
	)
	s.ledger.Read(func() {
		order, ok = s.ledger.Orders.Get(id)
	})
	return order, ok
}

// Filter отбирает заказы по подстроке имени покупателя, статусу и категории
func (s *OrderService) Filter(filter OrderFilter) []models.Order {
	name := strings.ToLower(strings.TrimSpace(filter.CustomerName))
	result := []models.Order{}
	s.ledger.Read(func() {
		for _, o := range s.ledger.Orders.Items() {
			if name != "" && !strings.Contains(strings.ToLower(o.CustomerName), name) {
				continue
			}
			if filter.Status != "" && o.Status != filter.Status {
				continue
			}
			if filter.CategoryID != 0 && !orderHasCategory(o, filter.CategoryID) {
				continue
			}
			result = append(result, o.Clone())
		}
	})
	return result
}

// Create проверяет все позиции, списывает остатки категорий и создает заказ в статусе Pending.
// Если хотя бы одна позиция не проходит проверку, заказ не создается и остатки не меняются.
func (s *OrderService) Create(input OrderInput) (models.Order, error) {
	if len(input.Lines) == 0 {
		return models.Order{}, fmt.Errorf("%w: заказ должен содержать хотя бы одну позицию", models.ErrInvalidField)
	}
	for _, line := range input.Lines {
		if line.Quantity <= 0 {
			return models.Order{}, fmt.Errorf("%w: количество в позиции должно быть положительным", models.ErrInvalidNumeric)
		}
	}

	var order models.Order
	err := s.ledger.Write(func() error {
		// Проверка до любых изменений: одна категория может встречаться в нескольких позициях
		requested := make(map[int64]int)
		for _, line := range input.Lines {
			category, ok := s.ledger.Categories.Get(line.CategoryID)
			if !ok {
				return fmt.Errorf("%w: id=%d", models.ErrUnknownCategory, line.CategoryID)
			}
			requested[line.CategoryID] += line.Quantity
			if requested[line.CategoryID] > category.Stock {
				return fmt.Errorf("%w: %s - запрошено %d, в наличии %d",
					models.ErrInsufficientStock, category.Name, requested[line.CategoryID], category.Stock)
			}
		}

		categoriesBefore := s.ledger.Categories.Snapshot()

		order = models.Order{
			ID:              s.ledger.NextID(),
			CustomerName:    strings.TrimSpace(input.CustomerName),
			CustomerContact: strings.TrimSpace(input.CustomerContact),
			ShippingInfo:    strings.TrimSpace(input.ShippingInfo),
			Items:           make([]models.OrderItem, 0, len(input.Lines)),
			Status:          models.OrderStatusPending,
			OrderDate:       s.ledger.Today(),
		}
		for _, line := range input.Lines {
			i := s.ledger.Categories.Index(line.CategoryID)
			category := s.ledger.Categories.At(i)
			category.Stock -= line.Quantity
			s.ledger.Categories.Set(i, category)

			item := models.OrderItem{
				CategoryID: line.CategoryID,
				Quantity:   line.Quantity,
				UnitPrice:  category.Price,
				TotalPrice: float64(line.Quantity) * category.Price,
			}
			order.Items = append(order.Items, item)
			order.TotalCost += item.TotalPrice
		}

		if err := s.ledger.Categories.Save(); err != nil {
			s.ledger.Categories.Restore(categoriesBefore)
			return err
		}

		s.ledger.Orders.Append(order)
		if err := s.ledger.Orders.Save(); err != nil {
			log.Error().Err(err).Msgf("❌ Остатки списаны, заказ %d не сохранен: данные в хранилище расходятся", order.ID)
			return err
		}
		return nil
	})
	if err != nil {
		return models.Order{}, fmt.Errorf("заказ не создан: %w", err)
	}

	log.Info().Msgf("✅ Заказ %d создан: %s, позиций %d, сумма %.2f",
		order.ID, order.CustomerName, len(order.Items), order.TotalCost)
	publish(s.publisher, events.TypeOrderCreated, order.ID, order)
	return order.Clone(), nil
}

// UpdateStatus меняет статус заказа. Переходы между статусами свободные, остатки не возвращаются.
func (s *OrderService) UpdateStatus(id int64, status models.OrderStatus) (bool, error) {
	if !status.IsValid() {
		return false, fmt.Errorf("%w: %q", models.ErrInvalidStatus, status)
	}

	var (
		found bool
		order models.Order
	)
	err := s.ledger.Write(func() error {
		i := s.ledger.Orders.Index(id)
		if i < 0 {
			return nil
		}
		found = true
		prev := s.ledger.Orders.At(i)
		order = prev.Clone()
		order.Status = status
		s.ledger.Orders.Set(i, order)
		if err := s.ledger.Orders.Save(); err != nil {
			s.ledger.Orders.Set(i, prev)
			return err
		}
		return nil
	})
	if err != nil {
		return found, fmt.Errorf("ошибка обновления статуса заказа: %w", err)
	}
	if found {
		log.Info().Msgf("📦 Заказ %d: статус %s", id, status)
		publish(s.publisher, events.TypeOrderStatusChanged, id, order)
	}
	return found, nil
}

func orderHasCategory(o models.Order, categoryID int64) bool {
	for _, item := range o.Items {
		if item.CategoryID == categoryID {
			return true
		}
	}
	return false
}
