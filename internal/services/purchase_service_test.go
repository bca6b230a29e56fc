package services

import (
	"testing"

	"agroledger/server/internal/events"
	"agroledger/server/internal/models"
	"agroledger/server/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddPurchase(t *testing.T) {
	f := newFixture(t)

	p, err := f.purchases.Add(PurchaseInput{FarmerID: 42, Date: "2026-05-01", Quantity: 120, PricePerKg: 0.75})
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, 90.0, p.TotalCost)
	assert.Equal(t, []models.Purchase{p}, f.purchases.GetAll())
	assert.Contains(t, f.publisher.types(), events.TypePurchaseCreated)
}

func TestAddPurchase_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   PurchaseInput
		wantErr error
	}{
		{"bad date", PurchaseInput{Date: "05/01/2026", Quantity: 1, PricePerKg: 1}, models.ErrInvalidDate},
		{"empty date", PurchaseInput{Quantity: 1, PricePerKg: 1}, models.ErrInvalidDate},
		{"negative quantity", PurchaseInput{Date: "2026-05-01", Quantity: -1, PricePerKg: 1}, models.ErrInvalidNumeric},
		{"negative price", PurchaseInput{Date: "2026-05-01", Quantity: 1, PricePerKg: -0.5}, models.ErrInvalidNumeric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.purchases.Add(tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.purchases.GetAll())
		})
	}
}

func TestAddPurchase_SaveFailure(t *testing.T) {
	f := newFixture(t)
	f.store.FailOn(repository.KeyPurchases)

	_, err := f.purchases.Add(PurchaseInput{Date: "2026-05-01", Quantity: 1, PricePerKg: 1})
	assert.ErrorIs(t, err, models.ErrPersistence)
	assert.Empty(t, f.purchases.GetAll())
}

func TestSortPurchases(t *testing.T) {
	f := newFixture(t)
	a, _ := f.purchases.Add(PurchaseInput{FarmerID: 1, Date: "2026-03-10", Quantity: 10, PricePerKg: 3})
	b, _ := f.purchases.Add(PurchaseInput{FarmerID: 1, Date: "2026-01-05", Quantity: 10, PricePerKg: 1})
	c, _ := f.purchases.Add(PurchaseInput{FarmerID: 1, Date: "2026-02-20", Quantity: 10, PricePerKg: 5})

	require.NoError(t, f.purchases.SortBy(models.PurchaseSortByDate))
	assert.Equal(t, []models.Purchase{b, c, a}, f.purchases.GetAll())

	require.NoError(t, f.purchases.SortBy(models.PurchaseSortByTotalCost))
	assert.Equal(t, []models.Purchase{b, a, c}, f.purchases.GetAll())

	err := f.purchases.SortBy("farmer")
	assert.ErrorIs(t, err, models.ErrInvalidField)
	assert.Equal(t, []models.Purchase{b, a, c}, f.purchases.GetAll())

	// порядок переживает перезагрузку
	reloaded, err := repository.OpenWithClock(f.store, repository.DefaultSeed(), f.clock.Now)
	require.NoError(t, err)
	reloaded.Read(func() {
		assert.Equal(t, []models.Purchase{b, a, c}, reloaded.Purchases.All())
	})
}

func TestPurchaseSummaryAndExpenses(t *testing.T) {
	f := newFixture(t)
	for _, in := range []PurchaseInput{
		{FarmerID: 1, Date: "2026-04-01", Quantity: 100, PricePerKg: 0.5},
		{FarmerID: 2, Date: "2026-04-15", Quantity: 20, PricePerKg: 2},
		{FarmerID: 1, Date: "2026-04-30", Quantity: 10, PricePerKg: 1},
	} {
		_, err := f.purchases.Add(in)
		require.NoError(t, err)
	}

	all, err := f.purchases.Summary(PurchaseFilter{})
	require.NoError(t, err)
	assert.Equal(t, PurchaseSummary{Count: 3, TotalQuantity: 130, TotalCost: 100}, all)

	farmer1, err := f.purchases.Summary(PurchaseFilter{FarmerID: 1, StartDate: "2026-04-02"})
	require.NoError(t, err)
	assert.Equal(t, PurchaseSummary{Count: 1, TotalQuantity: 10, TotalCost: 10}, farmer1)

	expenses, err := f.purchases.Expenses("2026-04-01", "2026-04-15")
	require.NoError(t, err)
	assert.Equal(t, 90.0, expenses)

	_, err = f.purchases.Expenses("2026-04-01", "tomorrow")
	assert.ErrorIs(t, err, models.ErrInvalidDate)
}
