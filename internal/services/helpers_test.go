package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"agroledger/server/internal/events"
	"agroledger/server/internal/repository"
	"agroledger/server/internal/storage"

	"github.com/stretchr/testify/require"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) SetDate(t *testing.T, date string) {
	t.Helper()
	d, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)
	c.now = d.Add(12 * time.Hour)
}

// flakyStore хранилище в памяти, которое может отказывать на записи выбранного ключа
type flakyStore struct {
	*storage.MemoryStore
	mu      sync.Mutex
	failKey string
}

func (f *flakyStore) FailOn(key string) {
	f.mu.Lock()
	f.failKey = key
	f.mu.Unlock()
}

func (f *flakyStore) Save(key, value string) error {
	f.mu.Lock()
	fail := f.failKey != "" && f.failKey == key
	f.mu.Unlock()
	if fail {
		return errors.New("write failed")
	}
	return f.MemoryStore.Save(key, value)
}

func (f *flakyStore) raw(t *testing.T, key string) string {
	t.Helper()
	value, _, err := f.Load(key)
	require.NoError(t, err)
	return value
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	p.events = append(p.events, e)
	p.mu.Unlock()
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	store     *flakyStore
	clock     *testClock
	ledger    *repository.Ledger
	publisher *recordingPublisher

	farmers    *FarmerService
	purchases  *PurchaseService
	categories *CategoryService
	inventory  *InventoryService
	orders     *OrderService
	stock      *StockService
	taxRates   *TaxRateService
	finance    *FinanceService
	forecast   *DemandForecastService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:     &flakyStore{MemoryStore: storage.NewMemoryStore()},
		clock:     &testClock{now: time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)},
		publisher: &recordingPublisher{},
	}

	ledger, err := repository.OpenWithClock(f.store, repository.DefaultSeed(), f.clock.Now)
	require.NoError(t, err)
	f.ledger = ledger

	f.farmers = NewFarmerService(ledger)
	f.purchases = NewPurchaseService(ledger)
	f.categories = NewCategoryService(ledger)
	f.inventory = NewInventoryService(ledger)
	f.orders = NewOrderService(ledger)
	f.stock = NewStockService(ledger)
	f.taxRates = NewTaxRateService(ledger)
	f.finance = NewFinanceService(ledger)
	f.forecast = NewDemandForecastService(ledger)

	f.farmers.SetPublisher(f.publisher)
	f.purchases.SetPublisher(f.publisher)
	f.categories.SetPublisher(f.publisher)
	f.inventory.SetPublisher(f.publisher)
	f.orders.SetPublisher(f.publisher)
	f.stock.SetPublisher(f.publisher)
	f.taxRates.SetPublisher(f.publisher)
	f.finance.SetPublisher(f.publisher)
	return f
}

// Id категорий по умолчанию
const (
	smallID  int64 = 1
	mediumID int64 = 2
	largeID  int64 = 3
)

func (f *fixture) addInventory(t *testing.T, label, quantity, reorderLevel string) int64 {
	t.Helper()
	item, err := f.inventory.Add(InventoryInput{
		Category:          label,
		QuantityAvailable: quantity,
		ReorderLevel:      reorderLevel,
	})
	require.NoError(t, err)
	return item.ID
}

func (f *fixture) setStock(t *testing.T, categoryID int64, stock int) {
	t.Helper()
	c, ok := f.categories.Get(categoryID)
	require.True(t, ok)
	found, err := f.categories.AdjustStock(categoryID, stock-c.Stock)
	require.NoError(t, err)
	require.True(t, found)
}

func (f *fixture) order(t *testing.T, lines ...OrderLine) int64 {
	t.Helper()
	o, err := f.orders.Create(OrderInput{CustomerName: "Customer", Lines: lines})
	require.NoError(t, err)
	return o.ID
}
