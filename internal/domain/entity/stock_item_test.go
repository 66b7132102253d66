package entity_test

import (
	"testing"

	"github.com/lubetrack/lubetrack-api/internal/domain/entity"
	"github.com/lubetrack/lubetrack-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func oilItem(gallons int, perGallon, openLitres float64) *entity.StockItem {
	return &entity.StockItem{
		ItemName:        "Shell Helix HX7",
		Category:        enum.CategoryOil,
		Quantity:        gallons,
		QuantityAlert:   2,
		LitresPerGallon: decimal.NewFromFloat(perGallon),
		PricePerLitre:   90000,
		RemainingLitres: decimal.NewFromFloat(openLitres),
	}
}

func filterItem(units int) *entity.StockItem {
	return &entity.StockItem{
		ItemName:      "Toyota Oil Filter",
		Category:      enum.CategoryOilFilter,
		Quantity:      units,
		QuantityAlert: 2,
		SalePrice:     120000,
	}
}

func TestStockItem_DrawDown_DrainsOpenGallonFirst(t *testing.T) {
	// GIVEN: 10 closed gallons of 4L each, 3L left in the open gallon
	// WHEN: Selling 2L
	// THEN: Only the open gallon moves; closed gallons stay at 10

	item := oilItem(10, 4, 3)

	delivered, err := item.DrawDown(decimal.NewFromFloat(2), false)
	require.NoError(t, err)

	assert.True(t, delivered.Equal(decimal.NewFromFloat(2)))
	assert.Equal(t, 10, item.Quantity)
	assert.True(t, item.RemainingLitres.Equal(decimal.NewFromFloat(1)),
		"open gallon should go from 3L to 1L, got %s", item.RemainingLitres)
}

func TestStockItem_DrawDown_OpensNewGallonWhenOpenRunsOut(t *testing.T) {
	// GIVEN: 10 gallons of 4L, 3L open
	// WHEN: Selling 5L
	// THEN: Open gallon is drained (3L) and a fresh gallon opened for the
	// remaining 2L, leaving 9 closed gallons and 2L open

	item := oilItem(10, 4, 3)

	delivered, err := item.DrawDown(decimal.NewFromFloat(5), false)
	require.NoError(t, err)

	assert.True(t, delivered.Equal(decimal.NewFromFloat(5)))
	assert.Equal(t, 9, item.Quantity)
	assert.True(t, item.RemainingLitres.Equal(decimal.NewFromFloat(2)))
}

func TestStockItem_DrawDown_SpansMultipleGallons(t *testing.T) {
	item := oilItem(3, 4, 1)

	delivered, err := item.DrawDown(decimal.NewFromFloat(9), false)
	require.NoError(t, err)

	assert.True(t, delivered.Equal(decimal.NewFromFloat(9)))
	assert.Equal(t, 1, item.Quantity)
	assert.True(t, item.RemainingLitres.Equal(decimal.Zero))
}

func TestStockItem_DrawDown_ExactlyDeliverable(t *testing.T) {
	item := oilItem(2, 4, 1.5)

	delivered, err := item.DrawDown(decimal.NewFromFloat(9.5), false)
	require.NoError(t, err)

	assert.True(t, delivered.Equal(decimal.NewFromFloat(9.5)))
	assert.Equal(t, 0, item.Quantity)
	assert.True(t, item.RemainingLitres.Equal(decimal.Zero))
}

func TestStockItem_DrawDown_InsufficientStock_Rejected(t *testing.T) {
	// GIVEN: 1 gallon of 4L, 1L open (5L deliverable)
	// WHEN: Selling 6L in strict mode
	// THEN: Rejected, item untouched

	item := oilItem(1, 4, 1)

	_, err := item.DrawDown(decimal.NewFromFloat(6), false)
	require.ErrorIs(t, err, entity.ErrInsufficientStock)

	assert.Equal(t, 1, item.Quantity, "rejected draw must not change counts")
	assert.True(t, item.RemainingLitres.Equal(decimal.NewFromFloat(1)))
}

func TestStockItem_DrawDown_PartialMode_DrainsToZero(t *testing.T) {
	// GIVEN: 5L deliverable
	// WHEN: Selling 6L with the partial policy
	// THEN: 5L delivered, item empty

	item := oilItem(1, 4, 1)

	delivered, err := item.DrawDown(decimal.NewFromFloat(6), true)
	require.NoError(t, err)

	assert.True(t, delivered.Equal(decimal.NewFromFloat(5)),
		"should deliver all 5L, got %s", delivered)
	assert.Equal(t, 0, item.Quantity)
	assert.True(t, item.RemainingLitres.Equal(decimal.Zero))
}

func TestStockItem_DrawDown_ConservesVolume(t *testing.T) {
	// Total deliverable volume before minus delivered equals total after.
	cases := []struct {
		name    string
		gallons int
		open    float64
		sell    float64
	}{
		{"from open only", 5, 3, 1.5},
		{"spans one gallon", 5, 1, 4},
		{"spans several", 5, 0.5, 13.25},
		{"everything", 2, 2, 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			item := oilItem(tc.gallons, 4, tc.open)
			before := item.TotalDeliverableLitres()

			delivered, err := item.DrawDown(decimal.NewFromFloat(tc.sell), false)
			require.NoError(t, err)

			after := item.TotalDeliverableLitres()
			assert.True(t, before.Sub(delivered).Equal(after),
				"before=%s delivered=%s after=%s", before, delivered, after)
			assert.True(t, item.RemainingLitres.LessThanOrEqual(item.LitresPerGallon),
				"open volume can never exceed one gallon")
			assert.True(t, item.RemainingLitres.Sign() >= 0)
		})
	}
}

func TestStockItem_DrawDown_Validation(t *testing.T) {
	t.Run("non-positive litres", func(t *testing.T) {
		item := oilItem(1, 4, 0)
		_, err := item.DrawDown(decimal.Zero, false)
		assert.ErrorIs(t, err, entity.ErrNonPositiveAmount)
	})

	t.Run("not an oil item", func(t *testing.T) {
		item := filterItem(5)
		_, err := item.DrawDown(decimal.NewFromFloat(1), false)
		assert.ErrorIs(t, err, entity.ErrNotOilItem)
	})

	t.Run("no gallon volume configured", func(t *testing.T) {
		item := oilItem(1, 0, 0)
		_, err := item.DrawDown(decimal.NewFromFloat(1), false)
		assert.ErrorIs(t, err, entity.ErrNoGallonVolume)
	})
}

func TestStockItem_RestoreLitres_InvertsDrawDown(t *testing.T) {
	item := oilItem(6, 4, 2.5)
	before := item.TotalDeliverableLitres()

	delivered, err := item.DrawDown(decimal.NewFromFloat(11), false)
	require.NoError(t, err)

	item.RestoreLitres(delivered)

	assert.True(t, item.TotalDeliverableLitres().Equal(before),
		"restore must bring deliverable volume back to %s, got %s", before, item.TotalDeliverableLitres())
	assert.True(t, item.RemainingLitres.LessThan(item.LitresPerGallon))
}

func TestStockItem_RestoreLitres_ReclosesExactlyFilledGallon(t *testing.T) {
	// GIVEN: 1.5L left in the open gallon of a 4L item
	item := oilItem(3, 4, 1.5)

	// WHEN: Pouring back exactly the 2.5L needed to fill it
	item.RestoreLitres(decimal.NewFromFloat(2.5))

	// THEN: The gallon re-closes rather than sitting open and full
	assert.Equal(t, 4, item.Quantity)
	assert.True(t, item.RemainingLitres.Equal(decimal.Zero),
		"a filled gallon must re-close, got %s open", item.RemainingLitres)
}

func TestStockItem_DeductUnits(t *testing.T) {
	t.Run("deducts within stock", func(t *testing.T) {
		item := filterItem(5)
		require.NoError(t, item.DeductUnits(3, false))
		assert.Equal(t, 2, item.Quantity)
	})

	t.Run("strict mode rejects oversell", func(t *testing.T) {
		item := filterItem(2)
		err := item.DeductUnits(3, false)
		assert.ErrorIs(t, err, entity.ErrInsufficientStock)
		assert.Equal(t, 2, item.Quantity)
	})

	t.Run("partial mode clamps at zero", func(t *testing.T) {
		item := filterItem(2)
		require.NoError(t, item.DeductUnits(3, true))
		assert.Equal(t, 0, item.Quantity)
	})

	t.Run("non-positive count", func(t *testing.T) {
		item := filterItem(2)
		assert.ErrorIs(t, item.DeductUnits(0, false), entity.ErrNonPositiveAmount)
	})
}

func TestStockItem_LowStock(t *testing.T) {
	item := filterItem(3)
	assert.False(t, item.LowStock())

	item.Quantity = 2
	assert.True(t, item.LowStock(), "at the alert threshold counts as low")

	item.Quantity = 0
	assert.True(t, item.LowStock())
}
