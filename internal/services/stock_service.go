package services

import (
	"fmt"
	"time"

	"agroledger/server/internal/events"
	"agroledger/server/internal/models"
	"agroledger/server/internal/repository"

	"github.com/rs/zerolog/log"
)

// RestockSoonWindow за сколько дней до даты пополнения сырье попадает в напоминание
const RestockSoonWindow = 3 * 24 * time.Hour

// weightToleranceKg погрешность сравнения килограммов: 3 x 0.1 кг в float64 чуть больше 0.3
const weightToleranceKg = 1e-9

// StockService переводит сырье в фасованный товар и следит за остатками
type StockService struct {
	ledger    *repository.Ledger
	publisher events.Publisher
}

// NewStockService создает новый экземпляр StockService
func NewStockService(ledger *repository.Ledger) *StockService {
	return &StockService{ledger: ledger}
}

// SetPublisher устанавливает получателя событий
func (s *StockService) SetPublisher(p events.Publisher) {
	s.publisher = p
}

// PackagingResult итог фасовки
type PackagingResult struct {
	InventoryItem models.InventoryItem `json:"inventory_item"`
	Category      models.Category      `json:"category"`
	Units         int                  `json:"units"`
	UnitWeightKg  float64              `json:"unit_weight_kg"`
	ConsumedKg    float64              `json:"consumed_kg"`
}

// StockAlerts позиции ниже порога дозаказа
type StockAlerts struct {
	Categories     []models.Category      `json:"categories"`
	InventoryItems []models.InventoryItem `json:"inventory_items"`
}

// Empty true, если тревог нет
func (a StockAlerts) Empty() bool {
	return len(a.Categories) == 0 && len(a.InventoryItems) == 0
}

// Package фасует units единиц категории из записи сырья.
// Списывает weightKg*units с сырья и добавляет units к остатку категории.
// При нехватке сырья ничего не меняет и возвращает ErrInsufficientStock.
//
// Сохраняется сначала сырье, затем категории. Если не удалось сохранить сырье,
// оба изменения откатываются. Если сырье сохранено, а категории нет, отката не будет:
// в хранилище останется списанное сырье без прироста категории до следующего сохранения категорий.
func (s *StockService) Package(inventoryItemID, categoryID int64, units int) (PackagingResult, error) {
	if units <= 0 {
		return PackagingResult{}, fmt.Errorf("%w: количество единиц должно быть положительным", models.ErrInvalidNumeric)
	}

	var result PackagingResult
	err := s.ledger.Write(func() error {
		itemIdx := s.ledger.Inventory.Index(inventoryItemID)
		if itemIdx < 0 {
			return fmt.Errorf("%w: сырье id=%d", models.ErrUnknownReference, inventoryItemID)
		}
		catIdx := s.ledger.Categories.Index(categoryID)
		if catIdx < 0 {
			return fmt.Errorf("%w: id=%d", models.ErrUnknownCategory, categoryID)
		}

		prevItem := s.ledger.Inventory.At(itemIdx)
		prevCat := s.ledger.Categories.At(catIdx)

		weightKg := ParseWeightKg(prevCat.Weight)
		needed := weightKg * float64(units)
		if needed-prevItem.QuantityAvailable > weightToleranceKg {
			return fmt.Errorf("%w: нужно %.3f кг, доступно %.3f кг", models.ErrInsufficientStock, needed, prevItem.QuantityAvailable)
		}

		item := prevItem
		item.QuantityAvailable -= needed
		if item.QuantityAvailable < weightToleranceKg {
			item.QuantityAvailable = 0
		}
		category := prevCat
		category.Stock += units

		s.ledger.Inventory.Set(itemIdx, item)
		s.ledger.Categories.Set(catIdx, category)

		if err := s.ledger.Inventory.Save(); err != nil {
			s.ledger.Inventory.Set(itemIdx, prevItem)
			s.ledger.Categories.Set(catIdx, prevCat)
			return err
		}
		if err := s.ledger.Categories.Save(); err != nil {
			log.Error().Err(err).Msgf("❌ Сырье %d сохранено, категории нет: данные в хранилище расходятся", inventoryItemID)
			return err
		}

		result = PackagingResult{
			InventoryItem: item,
			Category:      category,
			Units:         units,
			UnitWeightKg:  weightKg,
			ConsumedKg:    needed,
		}
		return nil
	})
	if err != nil {
		return PackagingResult{}, fmt.Errorf("фасовка не выполнена: %w", err)
	}

	log.Info().Msgf("✅ Фасовка завершена: %d x %s, списано %.3f кг сырья (осталось %.3f кг)",
		units, result.Category.Name, result.ConsumedKg, result.InventoryItem.QuantityAvailable)
	publish(s.publisher, events.TypePackagingCompleted, result.Category.ID, result)

	if alerts := s.LowStock(); !alerts.Empty() {
		publish(s.publisher, events.TypeLowStock, result.Category.ID, alerts)
	}
	return result, nil
}

// LowStock категории с остатком ниже порога и сырье ниже уровня дозаказа
func (s *StockService) LowStock() StockAlerts {
	alerts := StockAlerts{
		Categories:     []models.Category{},
		InventoryItems: []models.InventoryItem{},
	}
	s.ledger.Read(func() {
		for _, c := range s.ledger.Categories.Items() {
			if c.Stock < c.ReorderThreshold {
				alerts.Categories = append(alerts.Categories, c)
			}
		}
		alerts.InventoryItems = reorderItems(s.ledger)
	})
	return alerts
}

// RestockSoon сырье, дата пополнения которого наступает в ближайшие 3 дня (включая сегодня)
func (s *StockService) RestockSoon(today time.Time) []models.InventoryItem {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	limit := day.Add(RestockSoonWindow)

	result := []models.InventoryItem{}
	s.ledger.Read(func() {
		for _, item := range s.ledger.Inventory.Items() {
			if item.RestockDate == "" {
				continue
			}
			date, err := time.Parse(models.DateLayout, item.RestockDate)
			if err != nil {
				continue
			}
			if !date.Before(day) && !date.After(limit) {
				result = append(result, item)
			}
		}
	})
	return result
}

// reorderItems вызывать под блокировкой учета
func reorderItems(l *repository.Ledger) []models.InventoryItem {
	items := []models.InventoryItem{}
	for _, item := range l.Inventory.Items() {
		if item.NeedsReorder() {
			items = append(items, item)
		}
	}
	return items
}
