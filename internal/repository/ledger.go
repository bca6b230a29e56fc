package repository

import (
	"sync"
	"time"

	"agroledger/server/internal/models"
	"agroledger/server/internal/storage"

	"github.com/rs/zerolog/log"
)

// Ключи коллекций в хранилище. Не менять: иначе данные развертывания потеряются.
const (
	KeyFarmers        = "farmers"
	KeyPurchases      = "purchases"
	KeyCategories     = "categories"
	KeyOrders         = "orders"
	KeyInventory      = "inventory"
	KeyTaxRates       = "taxRates"
	KeyTaxLiabilities = "taxLiabilities"
)

// Seed начальные данные, которые записываются при первом запуске
type Seed struct {
	Categories []models.Category
	TaxRates   []models.TaxRate
}

// DefaultSeed стандартные категории и ставка налога
func DefaultSeed() Seed {
	return Seed{
		Categories: models.DefaultCategories(),
		TaxRates:   models.DefaultTaxRates(),
	}
}

// Ledger все коллекции учета и общая блокировка над ними.
// Операции, затрагивающие несколько коллекций, выполняются внутри одного Write.
type Ledger struct {
	mu sync.RWMutex

	Farmers        *Collection[models.Farmer]
	Purchases      *Collection[models.Purchase]
	Categories     *Collection[models.Category]
	Orders         *Collection[models.Order]
	Inventory      *Collection[models.InventoryItem]
	TaxRates       *Collection[models.TaxRate]
	TaxLiabilities *Collection[models.TaxLiability]

	ids *IDGenerator
	now func() time.Time
}

// Open загружает все коллекции из хранилища. Отсутствующие категории и ставки заполняются из seed.
func Open(store storage.BlobStore, seed Seed) (*Ledger, error) {
	return OpenWithClock(store, seed, time.Now)
}

// OpenWithClock как Open, но с заданными часами (для тестов)
func OpenWithClock(store storage.BlobStore, seed Seed, now func() time.Time) (*Ledger, error) {
	l := &Ledger{
		Farmers:        newCollection(KeyFarmers, store, func(f models.Farmer) int64 { return f.ID }),
		Purchases:      newCollection(KeyPurchases, store, func(p models.Purchase) int64 { return p.ID }),
		Categories:     newCollection(KeyCategories, store, func(c models.Category) int64 { return c.ID }),
		Orders:         newCollection(KeyOrders, store, func(o models.Order) int64 { return o.ID }),
		Inventory:      newCollection(KeyInventory, store, func(i models.InventoryItem) int64 { return i.ID }),
		TaxRates:       newCollection(KeyTaxRates, store, func(r models.TaxRate) int64 { return r.ID }),
		TaxLiabilities: newCollection(KeyTaxLiabilities, store, func(t models.TaxLiability) int64 { return t.ID }),
		ids:            NewIDGenerator(now),
		now:            now,
	}
	l.Orders.clone = models.Order.Clone

	if _, err := l.Farmers.load(nil); err != nil {
		return nil, err
	}
	if _, err := l.Purchases.load(nil); err != nil {
		return nil, err
	}
	if _, err := l.Orders.load(nil); err != nil {
		return nil, err
	}
	if _, err := l.Inventory.load(nil); err != nil {
		return nil, err
	}
	if _, err := l.TaxLiabilities.load(nil); err != nil {
		return nil, err
	}

	seeded, err := l.Categories.load(seed.Categories)
	if err != nil {
		return nil, err
	}
	if seeded {
		if err := l.Categories.Save(); err != nil {
			return nil, err
		}
		log.Info().Msgf("🌱 Созданы категории по умолчанию: %d", l.Categories.Len())
	}

	seeded, err = l.TaxRates.load(seed.TaxRates)
	if err != nil {
		return nil, err
	}
	if seeded {
		if err := l.TaxRates.Save(); err != nil {
			return nil, err
		}
		log.Info().Msgf("🌱 Созданы налоговые ставки по умолчанию: %d", l.TaxRates.Len())
	}

	for _, id := range []int64{
		l.Farmers.maxID(), l.Purchases.maxID(), l.Categories.maxID(), l.Orders.maxID(),
		l.Inventory.maxID(), l.TaxRates.maxID(), l.TaxLiabilities.maxID(),
	} {
		l.ids.Observe(id)
	}

	log.Info().Msgf("✅ Учет загружен: фермеров=%d, закупок=%d, категорий=%d, заказов=%d, сырья=%d",
		l.Farmers.Len(), l.Purchases.Len(), l.Categories.Len(), l.Orders.Len(), l.Inventory.Len())
	return l, nil
}

// Read выполняет fn под блокировкой на чтение
func (l *Ledger) Read(fn func()) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	fn()
}

// Write выполняет fn под эксклюзивной блокировкой
func (l *Ledger) Write(fn func() error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn()
}

// NextID новый уникальный id для любой коллекции
func (l *Ledger) NextID() int64 {
	return l.ids.Next()
}

// Now текущее время по часам учета
func (l *Ledger) Now() time.Time {
	return l.now()
}

// Today текущая дата в формате YYYY-MM-DD
func (l *Ledger) Today() string {
	return l.now().Format(models.DateLayout)
}
