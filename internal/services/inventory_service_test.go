package services

import (
	"testing"

	"agroledger/server/internal/events"
	"agroledger/server/internal/models"
	"agroledger/server/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventory_AddThenUpdate(t *testing.T) {
	f := newFixture(t)

	item, err := f.inventory.Add(InventoryInput{
		Category:          "Tomatoes",
		QuantityAvailable: " 120.5 ",
		ReorderLevel:      "20",
		RestockDate:       "2026-05-20",
		StorageLocation:   "Cold room A",
	})
	require.NoError(t, err)
	assert.NotZero(t, item.ID)
	assert.Equal(t, 120.5, item.QuantityAvailable)
	assert.Equal(t, 20, item.ReorderLevel)

	updated, found, err := f.inventory.Update(item.ID, InventoryInput{
		Category:          "Tomatoes",
		QuantityAvailable: "80",
		ReorderLevel:      "20",
	})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, item.ID, updated.ID)

	items := f.inventory.GetAll()
	require.Len(t, items, 1)
	assert.Equal(t, 80.0, items[0].QuantityAvailable)
	assert.Empty(t, items[0].RestockDate)
	assert.Contains(t, f.publisher.types(), events.TypeInventoryChanged)
}

func TestUpdateInventory_UnknownIDLeavesCollectionUnchanged(t *testing.T) {
	f := newFixture(t)
	f.addInventory(t, "Beans", "4", "1")
	itemsBefore := f.inventory.GetAll()
	rawBefore := f.store.raw(t, repository.KeyInventory)
	eventsBefore := len(f.publisher.types())

	item, found, err := f.inventory.Update(777, InventoryInput{Category: "Beans", QuantityAvailable: "1"})
	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, item.ID)

	assert.Equal(t, itemsBefore, f.inventory.GetAll())
	assert.Equal(t, rawBefore, f.store.raw(t, repository.KeyInventory))
	assert.Len(t, f.publisher.types(), eventsBefore)
}

func TestUpdateInventory_SaveFailureRestoresItem(t *testing.T) {
	f := newFixture(t)
	id := f.addInventory(t, "Beans", "4", "1")
	f.store.FailOn(repository.KeyInventory)

	_, found, err := f.inventory.Update(id, InventoryInput{Category: "Beans", QuantityAvailable: "9"})
	assert.ErrorIs(t, err, models.ErrPersistence)
	assert.True(t, found)

	item, ok := f.inventory.Get(id)
	require.True(t, ok)
	assert.Equal(t, 4.0, item.QuantityAvailable)
}

func TestAddInventory_Parsing(t *testing.T) {
	tests := []struct {
		name         string
		input        InventoryInput
		wantErr      error
		wantQuantity float64
		wantLevel    int
	}{
		{name: "negative quantity clamps to zero", input: InventoryInput{QuantityAvailable: "-4"}, wantQuantity: 0},
		{name: "empty reorder level", input: InventoryInput{QuantityAvailable: "3"}, wantQuantity: 3, wantLevel: 0},
		{name: "quantity not a number", input: InventoryInput{QuantityAvailable: "lots"}, wantErr: models.ErrInvalidNumeric},
		{name: "empty quantity", input: InventoryInput{}, wantErr: models.ErrInvalidNumeric},
		{name: "infinite quantity", input: InventoryInput{QuantityAvailable: "Inf"}, wantErr: models.ErrInvalidNumeric},
		{name: "fractional reorder level", input: InventoryInput{QuantityAvailable: "3", ReorderLevel: "2.5"}, wantErr: models.ErrInvalidNumeric},
		{name: "negative reorder level", input: InventoryInput{QuantityAvailable: "3", ReorderLevel: "-1"}, wantErr: models.ErrInvalidNumeric},
		{name: "bad restock date", input: InventoryInput{QuantityAvailable: "3", RestockDate: "soon"}, wantErr: models.ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.input.Category = "Onions"
			item, err := f.inventory.Add(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, f.inventory.GetAll())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantQuantity, item.QuantityAvailable)
			assert.Equal(t, tt.wantLevel, item.ReorderLevel)
		})
	}
}

func TestDeleteInventory(t *testing.T) {
	f := newFixture(t)
	id := f.addInventory(t, "Garlic", "5", "1")

	found, err := f.inventory.Delete(id)
	require.NoError(t, err)
	assert.True(t, found)
	_, ok := f.inventory.Get(id)
	assert.False(t, ok)

	found, err = f.inventory.Delete(id)
	require.NoError(t, err)
	assert.False(t, found)
}
