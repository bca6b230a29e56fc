package services

import (
	"fmt"
	"strings"

	"agroledger/server/internal/events"
	"agroledger/server/internal/models"
	"agroledger/server/internal/repository"

	"github.com/rs/zerolog/log"
)

// CategoryService управляет фасованными категориями: цены, пороги, ручная корректировка остатков
type CategoryService struct {
	ledger    *repository.Ledger
	publisher events.Publisher
}

// NewCategoryService создает новый экземпляр CategoryService
func NewCategoryService(ledger *repository.Ledger) *CategoryService {
	return &CategoryService{ledger: ledger}
}

// SetPublisher устанавливает получателя событий
func (s *CategoryService) SetPublisher(p events.Publisher) {
	s.publisher = p
}

// CategoryInput данные новой категории
type CategoryInput struct {
	Name             string  `json:"name"`
	Weight           string  `json:"weight"`
	Price            float64 `json:"price"`
	ReorderThreshold *int    `json:"reorder_threshold"`
}

// GetAll возвращает все категории
func (s *CategoryService) GetAll() []models.Category {
	var categories []models.Category
	s.ledger.Read(func() {
		categories = s.ledger.Categories.All()
	})
	return categories
}

// Get возвращает категорию по id
func (s *CategoryService) Get(id int64) (models.Category, bool) {
	var (
		category models.Category
		ok       bool
	)
	s.ledger.Read(func() {
		category, ok = s.ledger.Categories.Get(id)
	})
	return category, ok
}

// NameOf имя категории или "Unknown"
func (s *CategoryService) NameOf(id int64) string {
	var name string
	s.ledger.Read(func() {
		name = categoryName(s.ledger, id)
	})
	return name
}

// Add создает категорию с нулевым остатком
func (s *CategoryService) Add(input CategoryInput) (models.Category, error) {
	if strings.TrimSpace(input.Name) == "" {
		return models.Category{}, fmt.Errorf("%w: название категории обязательно", models.ErrInvalidField)
	}
	if !validAmount(input.Price) {
		return models.Category{}, fmt.Errorf("%w: цена должна быть неотрицательной", models.ErrInvalidNumeric)
	}
	threshold := models.DefaultReorderThreshold
	if input.ReorderThreshold != nil {
		if *input.ReorderThreshold < 0 {
			return models.Category{}, fmt.Errorf("%w: порог дозаказа должен быть неотрицательным", models.ErrInvalidNumeric)
		}
		threshold = *input.ReorderThreshold
	}

	category := models.Category{
		Name:             strings.TrimSpace(input.Name),
		Weight:           strings.TrimSpace(input.Weight),
		Price:            input.Price,
		ReorderThreshold: threshold,
	}

	err := s.ledger.Write(func() error {
		category.ID = s.ledger.NextID()
		s.ledger.Categories.Append(category)
		if err := s.ledger.Categories.Save(); err != nil {
			s.ledger.Categories.RemoveAt(s.ledger.Categories.Len() - 1)
			return err
		}
		return nil
	})
	if err != nil {
		return models.Category{}, fmt.Errorf("ошибка создания категории: %w", err)
	}

	log.Info().Msgf("✅ Категория добавлена: %s (%s, %.2f)", category.Name, category.Weight, category.Price)
	publish(s.publisher, events.TypeCategoryChanged, category.ID, category)
	return category, nil
}

// Delete удаляет категорию. Заказы сохраняют ссылку на нее и показывают "Unknown".
func (s *CategoryService) Delete(id int64) (bool, error) {
	found := false
	err := s.ledger.Write(func() error {
		i := s.ledger.Categories.Index(id)
		if i < 0 {
			return nil
		}
		found = true
		snapshot := s.ledger.Categories.Snapshot()
		s.ledger.Categories.RemoveAt(i)
		if err := s.ledger.Categories.Save(); err != nil {
			s.ledger.Categories.Restore(snapshot)
			return err
		}
		return nil
	})
	if err != nil {
		return found, fmt.Errorf("ошибка удаления категории: %w", err)
	}
	if found {
		publish(s.publisher, events.TypeCategoryChanged, id, map[string]interface{}{"id": id, "deleted": true})
	}
	return found, nil
}

// UpdatePrice меняет цену категории. Уже созданные заказы не пересчитываются.
func (s *CategoryService) UpdatePrice(id int64, price float64) (bool, error) {
	if !validAmount(price) {
		return false, fmt.Errorf("%w: цена должна быть неотрицательной", models.ErrInvalidNumeric)
	}
	return s.modify(id, "цены", func(c *models.Category) {
		c.Price = price
	})
}

// UpdateReorderThreshold меняет порог дозаказа
func (s *CategoryService) UpdateReorderThreshold(id int64, threshold int) (bool, error) {
	if threshold < 0 {
		return false, fmt.Errorf("%w: порог дозаказа должен быть неотрицательным", models.ErrInvalidNumeric)
	}
	return s.modify(id, "порога дозаказа", func(c *models.Category) {
		c.ReorderThreshold = threshold
	})
}

// AdjustStock ручная корректировка остатка (поступление или списание). Остаток не опускается ниже 0.
func (s *CategoryService) AdjustStock(id int64, delta int) (bool, error) {
	return s.modify(id, "остатка", func(c *models.Category) {
		c.Stock += delta
		if c.Stock < 0 {
			c.Stock = 0
		}
	})
}

// CostOf стоимость указанного количества единиц категории по текущей цене
func (s *CategoryService) CostOf(id int64, units int) (float64, error) {
	if units < 0 {
		return 0, fmt.Errorf("%w: количество должно быть неотрицательным", models.ErrInvalidNumeric)
	}
	category, ok := s.Get(id)
	if !ok {
		return 0, fmt.Errorf("%w: id=%d", models.ErrUnknownCategory, id)
	}
	return category.Price * float64(units), nil
}

func (s *CategoryService) modify(id int64, what string, apply func(*models.Category)) (bool, error) {
	var (
		found   bool
		updated models.Category
	)
	err := s.ledger.Write(func() error {
		i := s.ledger.Categories.Index(id)
		if i < 0 {
			return nil
		}
		found = true
		prev := s.ledger.Categories.At(i)
		updated = prev
		apply(&updated)
		s.ledger.Categories.Set(i, updated)
		if err := s.ledger.Categories.Save(); err != nil {
			s.ledger.Categories.Set(i, prev)
			return err
		}
		return nil
	})
	if err != nil {
		return found, fmt.Errorf("ошибка обновления %s категории: %w", what, err)
	}
	if found {
		publish(s.publisher, events.TypeCategoryChanged, id, updated)
	}
	return found, nil
}
