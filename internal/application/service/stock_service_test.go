package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/lubetrack/lubetrack-api/internal/application/service"
	"github.com/lubetrack/lubetrack-api/internal/domain/enum"
	"github.com/lubetrack/lubetrack-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStockService() (*service.StockService, *fakeStockRepo) {
	repo := newFakeStockRepo()
	return service.NewStockService(repo), repo
}

func TestStockService_CreateStockItem_OilStartsWithNoGallonOpen(t *testing.T) {
	// GIVEN/WHEN: Creating an oil item
	svc, _ := newStockService()
	item, err := svc.CreateStockItem(context.Background(), &service.StockItemInput{
		ItemName:        "Shell Helix HX7",
		Category:        "oil",
		Quantity:        10,
		LitresPerGallon: 4,
		PricePerLitre:   900,
		CostPrice:       700,
	})
	require.NoError(t, err)

	// THEN: Prices land as cents and no gallon is open yet
	assert.Equal(t, enum.CategoryOil, item.Category)
	assert.Equal(t, int64(90000), item.PricePerLitre)
	assert.Equal(t, int64(70000), item.CostPrice)
	assert.True(t, item.RemainingLitres.Equal(decimal.Zero))
	assert.Equal(t, 2, item.QuantityAlert, "alert threshold defaults to 2")
}

func TestStockService_CreateStockItem_Validation(t *testing.T) {
	svc, _ := newStockService()

	cases := []struct {
		name  string
		input service.StockItemInput
	}{
		{"unknown category", service.StockItemInput{ItemName: "x", Category: "coolant", SalePrice: 10}},
		{"oil without gallon volume", service.StockItemInput{ItemName: "x", Category: "oil", PricePerLitre: 900}},
		{"oil without litre price", service.StockItemInput{ItemName: "x", Category: "oil", LitresPerGallon: 4}},
		{"filter with volume fields", service.StockItemInput{ItemName: "x", Category: "oil-filter", SalePrice: 10, LitresPerGallon: 4}},
		{"filter without sale price", service.StockItemInput{ItemName: "x", Category: "oil-filter"}},
		{"negative quantity", service.StockItemInput{ItemName: "x", Category: "oil-filter", SalePrice: 10, Quantity: -1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateStockItem(context.Background(), &tc.input)

			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, http.StatusBadRequest, appErr.Code)
		})
	}
}

func TestStockService_UpdateStockItem_CategoryIsImmutable(t *testing.T) {
	// GIVEN: An existing filter item
	svc, _ := newStockService()
	item, err := svc.CreateStockItem(context.Background(), &service.StockItemInput{
		ItemName:  "Toyota Oil Filter",
		Category:  "oil-filter",
		SalePrice: 1200,
		Quantity:  5,
	})
	require.NoError(t, err)

	// WHEN: Trying to turn it into an oil item
	_, err = svc.UpdateStockItem(context.Background(), item.ID, &service.StockItemInput{
		ItemName:        "Toyota Oil Filter",
		Category:        "oil",
		LitresPerGallon: 4,
		PricePerLitre:   900,
	})

	// THEN: Rejected; volume history would make no sense on a filter
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Contains(t, appErr.Message, "category")
}

func TestStockService_UpdateStockItem_PreservesOpenGallon(t *testing.T) {
	// GIVEN: An oil item with 2.5L in its open gallon
	svc, repo := newStockService()
	item, err := svc.CreateStockItem(context.Background(), &service.StockItemInput{
		ItemName:        "Shell Helix HX7",
		Category:        "oil",
		Quantity:        10,
		LitresPerGallon: 4,
		PricePerLitre:   900,
	})
	require.NoError(t, err)
	repo.items[item.ID].RemainingLitres = decimal.NewFromFloat(2.5)

	// WHEN: Repricing the item
	updated, err := svc.UpdateStockItem(context.Background(), item.ID, &service.StockItemInput{
		ItemName:        "Shell Helix HX7",
		Category:        "oil",
		Quantity:        10,
		LitresPerGallon: 4,
		PricePerLitre:   950,
	})
	require.NoError(t, err)

	// THEN: The open-gallon volume is untouched
	assert.Equal(t, int64(95000), updated.PricePerLitre)
	assert.True(t, updated.RemainingLitres.Equal(decimal.NewFromFloat(2.5)))
}
