package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/lubetrack/lubetrack-api/internal/application/service"
	"github.com/lubetrack/lubetrack-api/internal/domain/entity"
	"github.com/lubetrack/lubetrack-api/internal/domain/enum"
	"github.com/lubetrack/lubetrack-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type receiptEnv struct {
	stockRepo    *fakeStockRepo
	receiptRepo  *fakeReceiptRepo
	customerRepo *fakeCustomerRepo
	service      *service.ReceiptService
}

func newReceiptEnv(allowPartial bool) *receiptEnv {
	env := &receiptEnv{
		stockRepo:    newFakeStockRepo(),
		receiptRepo:  newFakeReceiptRepo(),
		customerRepo: newFakeCustomerRepo(),
	}
	env.service = service.NewReceiptService(env.receiptRepo, env.stockRepo, env.customerRepo, allowPartial)
	return env
}

func (env *receiptEnv) addOil(name string, gallons int, perGallon float64, pricePerLitreCents int64) *entity.StockItem {
	return env.stockRepo.add(&entity.StockItem{
		ItemName:        name,
		Category:        enum.CategoryOil,
		Quantity:        gallons,
		QuantityAlert:   2,
		LitresPerGallon: decimal.NewFromFloat(perGallon),
		PricePerLitre:   pricePerLitreCents,
	})
}

func (env *receiptEnv) addFilter(name string, units int, salePriceCents int64) *entity.StockItem {
	return env.stockRepo.add(&entity.StockItem{
		ItemName:      name,
		Category:      enum.CategoryOilFilter,
		Quantity:      units,
		QuantityAlert: 2,
		SalePrice:     salePriceCents,
	})
}

func TestReceiptService_CreateReceipt_DrawsStockAndSnapshotsPrices(t *testing.T) {
	// GIVEN: 10 gallons of 4L oil at 900.00/L and 5 filters at 1200.00
	env := newReceiptEnv(false)
	oil := env.addOil("Shell Helix HX7", 10, 4, 90000)
	filter := env.addFilter("Toyota Oil Filter", 5, 120000)

	// WHEN: Posting a 5L oil change with one filter
	receipt, err := env.service.CreateReceipt(context.Background(), &service.CreateReceiptInput{
		CustomerName: "Walk-in",
		VehicleNo:    "LEB-1234",
		Items: []service.ReceiptItemInput{
			{ItemID: oil.ID, Litres: 5},
			{ItemID: filter.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, receipt)

	// THEN: The receipt carries both lines with price snapshots
	require.Len(t, receipt.Items, 2)
	assert.NotEmpty(t, receipt.ReceiptNo)
	assert.Equal(t, int64(5*90000+120000), receipt.TotalAmount)
	assert.Equal(t, receipt.Subtotal, receipt.TotalAmount)

	oilLine := receipt.Items[0]
	assert.True(t, oilLine.Litres.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, int64(90000), oilLine.Price)
	assert.Equal(t, int64(450000), oilLine.Total)

	filterLine := receipt.Items[1]
	assert.Equal(t, 1, filterLine.Quantity)
	assert.Equal(t, int64(120000), filterLine.Total)

	// AND: Stock moved by exactly what was sold. 5L from a fresh item
	// opens two gallons: one drained, one left with 3L.
	stocked, err := env.stockRepo.GetByID(context.Background(), oil.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, stocked.Quantity)
	assert.True(t, stocked.RemainingLitres.Equal(decimal.NewFromInt(3)))

	stockedFilter, err := env.stockRepo.GetByID(context.Background(), filter.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stockedFilter.Quantity)
}

func TestReceiptService_CreateReceipt_SameItemOnSeveralLines(t *testing.T) {
	// GIVEN: One oil item sold on two separate lines (2L + 3L)
	env := newReceiptEnv(false)
	oil := env.addOil("Shell Helix HX7", 10, 4, 90000)

	// WHEN: Posting the receipt
	receipt, err := env.service.CreateReceipt(context.Background(), &service.CreateReceiptInput{
		CustomerName: "Walk-in",
		Items: []service.ReceiptItemInput{
			{ItemID: oil.ID, Litres: 2},
			{ItemID: oil.ID, Litres: 3},
		},
	})
	require.NoError(t, err)

	// THEN: Each line records its own delivered volume
	require.Len(t, receipt.Items, 2)
	assert.True(t, receipt.Items[0].Litres.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, int64(180000), receipt.Items[0].Total)
	assert.True(t, receipt.Items[1].Litres.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, int64(270000), receipt.Items[1].Total)

	// AND: Billed volume equals the volume that left stock
	billed := receipt.Items[0].Litres.Add(receipt.Items[1].Litres)
	stocked, _ := env.stockRepo.GetByID(context.Background(), oil.ID)
	drawn := decimal.NewFromInt(40).Sub(stocked.TotalDeliverableLitres())
	assert.True(t, billed.Equal(drawn), "billed %s litres but stock moved %s", billed, drawn)
	assert.Equal(t, int64(450000), receipt.TotalAmount)
}

func TestReceiptService_CreateReceipt_InsufficientStockRejectsWholeSale(t *testing.T) {
	// GIVEN: Only 8L of oil on hand, filters in stock
	env := newReceiptEnv(false)
	oil := env.addOil("Shell Helix HX7", 2, 4, 90000)
	filter := env.addFilter("Toyota Oil Filter", 5, 120000)

	// WHEN: Requesting 9L
	_, err := env.service.CreateReceipt(context.Background(), &service.CreateReceiptInput{
		CustomerName: "Walk-in",
		Items: []service.ReceiptItemInput{
			{ItemID: filter.ID, Quantity: 1},
			{ItemID: oil.ID, Litres: 9},
		},
	})

	// THEN: The whole sale is rejected with a conflict
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusConflict, appErr.Code)
	assert.Contains(t, appErr.Message, "Shell Helix HX7")

	// AND: Neither line was deducted, the filter line included
	stockedFilter, _ := env.stockRepo.GetByID(context.Background(), filter.ID)
	assert.Equal(t, 5, stockedFilter.Quantity)
	stockedOil, _ := env.stockRepo.GetByID(context.Background(), oil.ID)
	assert.Equal(t, 2, stockedOil.Quantity)
	assert.Empty(t, env.receiptRepo.receipts)
}

func TestReceiptService_CreateReceipt_PartialPolicyBillsDeliveredVolume(t *testing.T) {
	// GIVEN: 5L deliverable and the best-effort draw policy
	env := newReceiptEnv(true)
	oil := env.addOil("Shell Helix HX7", 1, 4, 90000)
	oil.RemainingLitres = decimal.NewFromInt(1)

	// WHEN: Requesting 6L
	receipt, err := env.service.CreateReceipt(context.Background(), &service.CreateReceiptInput{
		CustomerName: "Walk-in",
		Items:        []service.ReceiptItemInput{{ItemID: oil.ID, Litres: 6}},
	})
	require.NoError(t, err)

	// THEN: The customer is billed for the 5L actually dispensed
	require.Len(t, receipt.Items, 1)
	assert.True(t, receipt.Items[0].Litres.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, int64(450000), receipt.TotalAmount)

	stocked, _ := env.stockRepo.GetByID(context.Background(), oil.ID)
	assert.Equal(t, 0, stocked.Quantity)
	assert.True(t, stocked.RemainingLitres.Equal(decimal.Zero))
}

func TestReceiptService_CreateReceipt_MisconfiguredOilItem(t *testing.T) {
	// GIVEN: An oil item with no gallon volume configured
	env := newReceiptEnv(false)
	oil := env.addOil("Mystery Oil", 10, 0, 90000)

	_, err := env.service.CreateReceipt(context.Background(), &service.CreateReceiptInput{
		CustomerName: "Walk-in",
		Items:        []service.ReceiptItemInput{{ItemID: oil.ID, Litres: 4}},
	})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
	assert.Contains(t, appErr.Message, "misconfigured")
}

func TestReceiptService_CreateReceipt_LineValidation(t *testing.T) {
	env := newReceiptEnv(false)
	oil := env.addOil("Shell Helix HX7", 10, 4, 90000)
	filter := env.addFilter("Toyota Oil Filter", 5, 120000)

	cases := []struct {
		name  string
		items []service.ReceiptItemInput
		code  int
	}{
		{"oil line without litres", []service.ReceiptItemInput{{ItemID: oil.ID, Quantity: 1}}, http.StatusBadRequest},
		{"oil line with unit count", []service.ReceiptItemInput{{ItemID: oil.ID, Litres: 4, Quantity: 1}}, http.StatusBadRequest},
		{"filter line without quantity", []service.ReceiptItemInput{{ItemID: filter.ID}}, http.StatusBadRequest},
		{"filter line with litres", []service.ReceiptItemInput{{ItemID: filter.ID, Quantity: 1, Litres: 1}}, http.StatusBadRequest},
		{"unknown item", []service.ReceiptItemInput{{ItemID: uuid.New(), Quantity: 1}}, http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.service.CreateReceipt(context.Background(), &service.CreateReceiptInput{
				CustomerName: "Walk-in",
				Items:        tc.items,
			})

			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tc.code, appErr.Code)
		})
	}
}

func TestReceiptService_CreateReceipt_SnapshotsCustomerCard(t *testing.T) {
	// GIVEN: A stored customer card
	env := newReceiptEnv(false)
	oil := env.addOil("Shell Helix HX7", 10, 4, 90000)
	customer := env.customerRepo.add(&entity.Customer{
		Name:      "Ahmed Khan",
		Phone:     "0300-1234567",
		VehicleNo: "LEB-1234",
		Model:     "Corolla 2018",
	})

	// WHEN: Posting a receipt that references the card without repeating
	// its details
	receipt, err := env.service.CreateReceipt(context.Background(), &service.CreateReceiptInput{
		CustomerID: &customer.ID,
		Items:      []service.ReceiptItemInput{{ItemID: oil.ID, Litres: 4}},
	})
	require.NoError(t, err)

	// THEN: The card's details are copied onto the receipt
	assert.Equal(t, "Ahmed Khan", receipt.CustomerName)
	assert.Equal(t, "0300-1234567", receipt.CustomerPhone)
	assert.Equal(t, "LEB-1234", receipt.VehicleNo)
	assert.Equal(t, "Corolla 2018", receipt.Model)
}

func TestReceiptService_CreateReceipt_UnknownCustomer(t *testing.T) {
	env := newReceiptEnv(false)
	oil := env.addOil("Shell Helix HX7", 10, 4, 90000)
	missing := uuid.New()

	_, err := env.service.CreateReceipt(context.Background(), &service.CreateReceiptInput{
		CustomerID: &missing,
		Items:      []service.ReceiptItemInput{{ItemID: oil.ID, Litres: 4}},
	})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
}

func TestReceiptService_CreateReceipt_RestoresStockWhenInsertFails(t *testing.T) {
	// GIVEN: A receipt store that fails after the draw has committed
	env := newReceiptEnv(false)
	oil := env.addOil("Shell Helix HX7", 10, 4, 90000)
	filter := env.addFilter("Toyota Oil Filter", 5, 120000)
	env.receiptRepo.createErr = errors.New("connection reset")

	before, _ := env.stockRepo.GetByID(context.Background(), oil.ID)
	deliverableBefore := before.TotalDeliverableLitres()

	// WHEN: Posting the sale
	_, err := env.service.CreateReceipt(context.Background(), &service.CreateReceiptInput{
		CustomerName: "Walk-in",
		Items: []service.ReceiptItemInput{
			{ItemID: oil.ID, Litres: 5},
			{ItemID: filter.ID, Quantity: 2},
		},
	})
	require.Error(t, err)

	// THEN: The drawn stock was poured back
	assert.Equal(t, 1, env.stockRepo.restoreCalls)

	after, _ := env.stockRepo.GetByID(context.Background(), oil.ID)
	assert.True(t, after.TotalDeliverableLitres().Equal(deliverableBefore),
		"deliverable volume should be back to %s, got %s", deliverableBefore, after.TotalDeliverableLitres())

	afterFilter, _ := env.stockRepo.GetByID(context.Background(), filter.ID)
	assert.Equal(t, 5, afterFilter.Quantity)
}

func TestReceiptService_GetReceipt_NotFound(t *testing.T) {
	env := newReceiptEnv(false)

	_, err := env.service.GetReceipt(context.Background(), uuid.New())

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
}

func TestReceiptService_DeleteReceipt_DoesNotRestoreStock(t *testing.T) {
	// GIVEN: A posted receipt
	env := newReceiptEnv(false)
	oil := env.addOil("Shell Helix HX7", 10, 4, 90000)

	receipt, err := env.service.CreateReceipt(context.Background(), &service.CreateReceiptInput{
		CustomerName: "Walk-in",
		Items:        []service.ReceiptItemInput{{ItemID: oil.ID, Litres: 4}},
	})
	require.NoError(t, err)

	stockedAfterSale, _ := env.stockRepo.GetByID(context.Background(), oil.ID)
	deliverableAfterSale := stockedAfterSale.TotalDeliverableLitres()

	// WHEN: Deleting it
	require.NoError(t, env.service.DeleteReceipt(context.Background(), receipt.ID))

	// THEN: The record is gone but the dispensed oil stays dispensed
	assert.Empty(t, env.receiptRepo.receipts)
	stocked, _ := env.stockRepo.GetByID(context.Background(), oil.ID)
	assert.True(t, stocked.TotalDeliverableLitres().Equal(deliverableAfterSale))
	assert.Equal(t, 0, env.stockRepo.restoreCalls)
}
