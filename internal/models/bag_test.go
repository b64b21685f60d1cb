package models_test

import (
	"testing"

	"boutique/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestBagAdd(t *testing.T) {
	bag := make(models.Bag)

	bag.Add("prod-1", "", 2)
	assert.Equal(t, 2, bag["prod-1"].Quantity)

	// Adding again increments, not overwrites.
	bag.Add("prod-1", "", 3)
	assert.Equal(t, 5, bag["prod-1"].Quantity)

	// Sized entries accumulate per size.
	bag.Add("prod-2", "m", 1)
	bag.Add("prod-2", "m", 2)
	bag.Add("prod-2", "l", 4)
	assert.True(t, bag["prod-2"].Sized())
	assert.Equal(t, 3, bag["prod-2"].Sizes["m"])
	assert.Equal(t, 4, bag["prod-2"].Sizes["l"])
	assert.Equal(t, 7, bag["prod-2"].Count())
}

func TestBagAddClampsQuantity(t *testing.T) {
	bag := make(models.Bag)

	bag.Add("prod-1", "", 500)
	assert.Equal(t, models.MaxBagQuantity, bag["prod-1"].Quantity)

	bag.Add("prod-2", "", -3)
	assert.Equal(t, models.MinBagQuantity, bag["prod-2"].Quantity)

	bag.Add("prod-3", "s", 0)
	assert.Equal(t, models.MinBagQuantity, bag["prod-3"].Sizes["s"])
}

func TestBagAddShapeConflict(t *testing.T) {
	bag := make(models.Bag)

	// Latest mutation wins: a sizeless add resets a sized entry.
	bag.Add("prod-1", "m", 2)
	bag.Add("prod-1", "", 1)
	assert.False(t, bag["prod-1"].Sized())
	assert.Equal(t, 1, bag["prod-1"].Quantity)

	// And the reverse.
	bag.Add("prod-1", "s", 3)
	assert.True(t, bag["prod-1"].Sized())
	assert.Equal(t, 3, bag["prod-1"].Sizes["s"])
}

func TestBagUpdateOverwrites(t *testing.T) {
	bag := make(models.Bag)
	bag.Add("prod-1", "", 2)

	err := bag.Update("prod-1", "", 7)
	assert.NoError(t, err)
	assert.Equal(t, 7, bag["prod-1"].Quantity)

	bag.Add("prod-2", "m", 5)
	err = bag.Update("prod-2", "m", 1)
	assert.NoError(t, err)
	assert.Equal(t, 1, bag["prod-2"].Sizes["m"])
}

func TestBagUpdateZeroRemoves(t *testing.T) {
	bag := make(models.Bag)
	bag.Add("prod-1", "", 2)

	err := bag.Update("prod-1", "", 0)
	assert.NoError(t, err)
	assert.NotContains(t, bag, "prod-1")

	// Removing the last size drops the whole entry.
	bag.Add("prod-2", "m", 2)
	bag.Add("prod-2", "l", 1)
	assert.NoError(t, bag.Update("prod-2", "m", 0))
	assert.Contains(t, bag, "prod-2")
	assert.NoError(t, bag.Update("prod-2", "l", 0))
	assert.NotContains(t, bag, "prod-2")
}

func TestBagUpdateWritesNewSizeOnExistingEntry(t *testing.T) {
	bag := make(models.Bag)
	bag.Add("prod-1", "m", 2)

	// Existence is checked at the entry level only; a new size on a
	// present entry is written, not rejected.
	assert.NoError(t, bag.Update("prod-1", "l", 3))
	assert.Equal(t, 2, bag["prod-1"].Sizes["m"])
	assert.Equal(t, 3, bag["prod-1"].Sizes["l"])
}

func TestBagUpdateMissingEntry(t *testing.T) {
	bag := make(models.Bag)
	err := bag.Update("ghost", "", 2)
	assert.ErrorIs(t, err, models.ErrNotInBag)
}

func TestBagRemove(t *testing.T) {
	bag := make(models.Bag)
	bag.Add("prod-1", "", 2)
	bag.Add("prod-2", "m", 1)
	bag.Add("prod-2", "l", 1)

	assert.NoError(t, bag.Remove("prod-1", ""))
	assert.NotContains(t, bag, "prod-1")

	assert.NoError(t, bag.Remove("prod-2", "m"))
	assert.Contains(t, bag, "prod-2")
	assert.NoError(t, bag.Remove("prod-2", "l"))
	assert.NotContains(t, bag, "prod-2")

	assert.ErrorIs(t, bag.Remove("prod-2", "l"), models.ErrNotInBag)
	assert.ErrorIs(t, bag.Remove("ghost", ""), models.ErrNotInBag)
}

func TestBagAddThenRemoveRestoresPriorState(t *testing.T) {
	bag := make(models.Bag)
	bag.Add("prod-1", "", 2)
	bag.Add("prod-2", "m", 1)

	before := make(models.Bag)
	for id, entry := range bag {
		before[id] = entry
	}

	bag.Add("prod-3", "s", 4)
	assert.NoError(t, bag.Remove("prod-3", "s"))

	assert.Equal(t, len(before), len(bag))
	for id, entry := range before {
		assert.Equal(t, entry.Quantity, bag[id].Quantity)
		assert.Equal(t, entry.Sizes, bag[id].Sizes)
	}
}

func TestBagNeverStoresZeroQuantities(t *testing.T) {
	bag := make(models.Bag)
	bag.Add("prod-1", "m", 1)
	assert.NoError(t, bag.Update("prod-1", "m", -5))
	assert.NotContains(t, bag, "prod-1")
}
