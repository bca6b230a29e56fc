package services

import (
	"fmt"
	"strconv"
	"strings"

	"agroledger/server/internal/events"
	"agroledger/server/internal/models"
	"agroledger/server/internal/repository"

	"github.com/rs/zerolog/log"
)

// InventoryService управляет записями сырья на складе
type InventoryService struct {
	ledger    *repository.Ledger
	publisher events.Publisher
}

// NewInventoryService создает новый экземпляр InventoryService
func NewInventoryService(ledger *repository.Ledger) *InventoryService {
	return &InventoryService{ledger: ledger}
}

// SetPublisher устанавливает получателя событий
func (s *InventoryService) SetPublisher(p events.Publisher) {
	s.publisher = p
}

// InventoryInput данные формы сырья. Числа приходят строками, как их ввел пользователь.
type InventoryInput struct {
	ID                int64  `json:"id"`
	Category          string `json:"category"`
	QuantityAvailable string `json:"quantity_available"`
	ReorderLevel      string `json:"reorder_level"`
	RestockDate       string `json:"restock_date"`
	StorageLocation   string `json:"storage_location"`
}

// GetAll возвращает все записи сырья
func (s *InventoryService) GetAll() []models.InventoryItem {
	var items []models.InventoryItem
	s.ledger.Read(func() {
		items = s.ledger.Inventory.All()
	})
	return items
}

// Get возвращает запись сырья по id
func (s *InventoryService) Get(id int64) (models.InventoryItem, bool) {
	var (
		item models.InventoryItem
		ok   bool
	)
	s.ledger.Read(func() {
		item, ok = s.ledger.Inventory.Get(id)
	})
	return item, ok
}

// Add создает новую запись сырья. Id из формы игнорируется.
// Отрицательное количество обрезается до 0.
func (s *InventoryService) Add(input InventoryInput) (models.InventoryItem, error) {
	item, err := parseInventoryInput(input)
	if err != nil {
		return models.InventoryItem{}, err
	}

	err = s.ledger.Write(func() error {
		item.ID = s.ledger.NextID()
		s.ledger.Inventory.Append(item)
		if err := s.ledger.Inventory.Save(); err != nil {
			s.ledger.Inventory.RemoveAt(s.ledger.Inventory.Len() - 1)
			return err
		}
		return nil
	})
	if err != nil {
		return models.InventoryItem{}, fmt.Errorf("ошибка сохранения сырья: %w", err)
	}

	log.Info().Msgf("✅ Сырье добавлено: %s, %.2f кг", item.Category, item.QuantityAvailable)
	publish(s.publisher, events.TypeInventoryChanged, item.ID, item)
	return item, nil
}

// Update заменяет запись сырья с указанным id.
// Неизвестный id ничего не меняет: found=false без ошибки.
func (s *InventoryService) Update(id int64, input InventoryInput) (models.InventoryItem, bool, error) {
	item, err := parseInventoryInput(input)
	if err != nil {
		return models.InventoryItem{}, false, err
	}

	found := false
	err = s.ledger.Write(func() error {
		i := s.ledger.Inventory.Index(id)
		if i < 0 {
			return nil
		}
		found = true
		prev := s.ledger.Inventory.At(i)
		item.ID = prev.ID
		s.ledger.Inventory.Set(i, item)
		if err := s.ledger.Inventory.Save(); err != nil {
			s.ledger.Inventory.Set(i, prev)
			return err
		}
		return nil
	})
	if err != nil {
		return models.InventoryItem{}, found, fmt.Errorf("ошибка сохранения сырья: %w", err)
	}
	if !found {
		return models.InventoryItem{}, false, nil
	}

	publish(s.publisher, events.TypeInventoryChanged, item.ID, item)
	return item, true, nil
}

// Delete удаляет запись сырья
func (s *InventoryService) Delete(id int64) (bool, error) {
	found := false
	err := s.ledger.Write(func() error {
		i := s.ledger.Inventory.Index(id)
		if i < 0 {
			return nil
		}
		found = true
		snapshot := s.ledger.Inventory.Snapshot()
		s.ledger.Inventory.RemoveAt(i)
		if err := s.ledger.Inventory.Save(); err != nil {
			s.ledger.Inventory.Restore(snapshot)
			return err
		}
		return nil
	})
	if err != nil {
		return found, fmt.Errorf("ошибка удаления сырья: %w", err)
	}
	if found {
		publish(s.publisher, events.TypeInventoryChanged, id, map[string]interface{}{"id": id, "deleted": true})
	}
	return found, nil
}

func parseInventoryInput(input InventoryInput) (models.InventoryItem, error) {
	quantity, err := strconv.ParseFloat(strings.TrimSpace(input.QuantityAvailable), 64)
	if err != nil || !validFinite(quantity) {
		return models.InventoryItem{}, fmt.Errorf("%w: количество %q", models.ErrInvalidNumeric, input.QuantityAvailable)
	}
	if quantity < 0 {
		quantity = 0
	}

	reorderLevel := 0
	if level := strings.TrimSpace(input.ReorderLevel); level != "" {
		reorderLevel, err = strconv.Atoi(level)
		if err != nil || reorderLevel < 0 {
			return models.InventoryItem{}, fmt.Errorf("%w: уровень дозаказа %q", models.ErrInvalidNumeric, input.ReorderLevel)
		}
	}

	restockDate := strings.TrimSpace(input.RestockDate)
	if restockDate != "" && !validDate(restockDate) {
		return models.InventoryItem{}, fmt.Errorf("%w: дата пополнения %q", models.ErrInvalidDate, input.RestockDate)
	}

	return models.InventoryItem{
		Category:          strings.TrimSpace(input.Category),
		QuantityAvailable: quantity,
		ReorderLevel:      reorderLevel,
		RestockDate:       restockDate,
		StorageLocation:   strings.TrimSpace(input.StorageLocation),
	}, nil
}
