package services

import (
	"testing"

	"agroledger/server/internal/models"
	"agroledger/server/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCategoriesSeeded(t *testing.T) {
	f := newFixture(t)
	categories := f.categories.GetAll()
	require.Len(t, categories, 3)
	assert.Equal(t, models.DefaultCategories(), categories)
}

func TestAddCategory(t *testing.T) {
	f := newFixture(t)
	zero := 0

	jumbo, err := f.categories.Add(CategoryInput{Name: " Jumbo ", Weight: "5kg", Price: 40})
	require.NoError(t, err)
	assert.Equal(t, "Jumbo", jumbo.Name)
	assert.Equal(t, 0, jumbo.Stock)
	assert.Equal(t, models.DefaultReorderThreshold, jumbo.ReorderThreshold)

	sample, err := f.categories.Add(CategoryInput{Name: "Sample", Weight: "100g", ReorderThreshold: &zero})
	require.NoError(t, err)
	assert.Equal(t, 0, sample.ReorderThreshold)

	_, err = f.categories.Add(CategoryInput{Name: "", Price: 1})
	assert.ErrorIs(t, err, models.ErrInvalidField)
	_, err = f.categories.Add(CategoryInput{Name: "Bad", Price: -1})
	assert.ErrorIs(t, err, models.ErrInvalidNumeric)

	assert.Len(t, f.categories.GetAll(), 5)
}

func TestCategoryUpdates(t *testing.T) {
	f := newFixture(t)

	found, err := f.categories.UpdatePrice(smallID, 6.5)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = f.categories.UpdateReorderThreshold(smallID, 3)
	require.NoError(t, err)
	assert.True(t, found)

	small, _ := f.categories.Get(smallID)
	assert.Equal(t, 6.5, small.Price)
	assert.Equal(t, 3, small.ReorderThreshold)

	_, err = f.categories.UpdatePrice(smallID, -1)
	assert.ErrorIs(t, err, models.ErrInvalidNumeric)
	_, err = f.categories.UpdateReorderThreshold(smallID, -1)
	assert.ErrorIs(t, err, models.ErrInvalidNumeric)

	found, err = f.categories.UpdatePrice(404, 1)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPriceChangeDoesNotRepriceOrders(t *testing.T) {
	f := newFixture(t)
	f.setStock(t, smallID, 10)
	id := f.order(t, OrderLine{CategoryID: smallID, Quantity: 2})

	_, err := f.categories.UpdatePrice(smallID, 100)
	require.NoError(t, err)

	order, _ := f.orders.Get(id)
	assert.Equal(t, 5.0, order.Items[0].UnitPrice)
	assert.Equal(t, 10.0, order.TotalCost)
}

func TestAdjustStock(t *testing.T) {
	f := newFixture(t)

	_, err := f.categories.AdjustStock(mediumID, 7)
	require.NoError(t, err)
	_, err = f.categories.AdjustStock(mediumID, -3)
	require.NoError(t, err)
	medium, _ := f.categories.Get(mediumID)
	assert.Equal(t, 4, medium.Stock)

	_, err = f.categories.AdjustStock(mediumID, -100)
	require.NoError(t, err)
	medium, _ = f.categories.Get(mediumID)
	assert.Equal(t, 0, medium.Stock)
}

func TestCategoryCostOf(t *testing.T) {
	f := newFixture(t)

	cost, err := f.categories.CostOf(largeID, 4)
	require.NoError(t, err)
	assert.Equal(t, 72.0, cost)

	_, err = f.categories.CostOf(404, 1)
	assert.ErrorIs(t, err, models.ErrUnknownCategory)
	_, err = f.categories.CostOf(largeID, -1)
	assert.ErrorIs(t, err, models.ErrInvalidNumeric)
}

func TestDeleteCategory(t *testing.T) {
	f := newFixture(t)

	found, err := f.categories.Delete(largeID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, models.UnknownLabel, f.categories.NameOf(largeID))
	assert.Equal(t, "Small", f.categories.NameOf(smallID))

	found, err = f.categories.Delete(largeID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCategorySaveFailure(t *testing.T) {
	f := newFixture(t)
	before := f.categories.GetAll()
	f.store.FailOn(repository.KeyCategories)

	_, err := f.categories.AdjustStock(smallID, 5)
	assert.ErrorIs(t, err, models.ErrPersistence)
	_, err = f.categories.Delete(smallID)
	assert.ErrorIs(t, err, models.ErrPersistence)
	_, err = f.categories.Add(CategoryInput{Name: "Jumbo", Price: 1})
	assert.ErrorIs(t, err, models.ErrPersistence)

	assert.Equal(t, before, f.categories.GetAll())
}
