package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lubetrack/lubetrack-api/internal/domain/entity"
	"github.com/lubetrack/lubetrack-api/internal/domain/enum"
	"github.com/lubetrack/lubetrack-api/internal/domain/repository"
	"github.com/lubetrack/lubetrack-api/pkg/pagination"
	"gorm.io/gorm"
)

// In-memory repository doubles. They mirror the transactional behaviour the
// real implementations have: ApplyDraws stages all draws and commits only
// when every one succeeds.

type fakeStockRepo struct {
	items        map[uuid.UUID]*entity.StockItem
	restoreCalls int
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{items: make(map[uuid.UUID]*entity.StockItem)}
}

func (f *fakeStockRepo) add(item *entity.StockItem) *entity.StockItem {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	f.items[item.ID] = item
	return item
}

func (f *fakeStockRepo) Create(ctx context.Context, item *entity.StockItem) error {
	f.add(item)
	return nil
}

func (f *fakeStockRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.StockItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

func (f *fakeStockRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.StockItem, error) {
	var out []entity.StockItem
	for _, id := range ids {
		if item, ok := f.items[id]; ok {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (f *fakeStockRepo) Update(ctx context.Context, item *entity.StockItem) error {
	f.items[item.ID] = item
	return nil
}

func (f *fakeStockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.items, id)
	return nil
}

func (f *fakeStockRepo) List(ctx context.Context, params *repository.StockFilterParams) ([]entity.StockItem, int64, error) {
	return nil, 0, nil
}

func (f *fakeStockRepo) GetLowStock(ctx context.Context) ([]entity.StockItem, error) {
	return nil, nil
}

func (f *fakeStockRepo) ApplyDraws(ctx context.Context, draws []repository.StockDraw, allowPartial bool) ([]entity.StockItem, []repository.AppliedDraw, error) {
	staged := make(map[uuid.UUID]*entity.StockItem, len(draws))
	applied := make([]repository.AppliedDraw, 0, len(draws))

	for _, draw := range draws {
		item, ok := f.items[draw.StockItemID]
		if !ok {
			return nil, nil, &repository.DrawError{StockItemID: draw.StockItemID, Err: gorm.ErrRecordNotFound}
		}
		work, ok := staged[draw.StockItemID]
		if !ok {
			cp := *item
			work = &cp
		}

		record := repository.AppliedDraw{StockItemID: work.ID}
		if draw.Litres.Sign() > 0 {
			delivered, err := work.DrawDown(draw.Litres, allowPartial)
			if err != nil {
				return nil, nil, &repository.DrawError{StockItemID: work.ID, ItemName: work.ItemName, Err: err}
			}
			record.LitresDelivered = delivered
		} else {
			before := work.Quantity
			if err := work.DeductUnits(draw.Units, allowPartial); err != nil {
				return nil, nil, &repository.DrawError{StockItemID: work.ID, ItemName: work.ItemName, Err: err}
			}
			record.UnitsDelivered = before - work.Quantity
		}

		staged[work.ID] = work
		applied = append(applied, record)
	}

	updated := make([]entity.StockItem, 0, len(staged))
	for id, work := range staged {
		f.items[id] = work
		updated = append(updated, *work)
	}
	return updated, applied, nil
}

func (f *fakeStockRepo) RestoreDraws(ctx context.Context, applied []repository.AppliedDraw) error {
	f.restoreCalls++
	for _, record := range applied {
		item, ok := f.items[record.StockItemID]
		if !ok {
			continue
		}
		if record.LitresDelivered.Sign() > 0 {
			item.RestoreLitres(record.LitresDelivered)
		}
		item.Quantity += record.UnitsDelivered
	}
	return nil
}

type fakeReceiptRepo struct {
	receipts  map[uuid.UUID]*entity.Receipt
	createErr error
}

func newFakeReceiptRepo() *fakeReceiptRepo {
	return &fakeReceiptRepo{receipts: make(map[uuid.UUID]*entity.Receipt)}
}

func (f *fakeReceiptRepo) Create(ctx context.Context, receipt *entity.Receipt) error {
	if f.createErr != nil {
		return f.createErr
	}
	if receipt.ID == uuid.Nil {
		receipt.ID = uuid.New()
	}
	f.receipts[receipt.ID] = receipt
	return nil
}

func (f *fakeReceiptRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	receipt, ok := f.receipts[id]
	if !ok {
		return nil, nil
	}
	return receipt, nil
}

func (f *fakeReceiptRepo) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeReceiptRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.receipts, id)
	return nil
}

func (f *fakeReceiptRepo) List(ctx context.Context, params *repository.ReceiptFilterParams) ([]entity.Receipt, int64, error) {
	return nil, 0, nil
}

func (f *fakeReceiptRepo) ListBetween(ctx context.Context, start, end time.Time) ([]entity.Receipt, error) {
	return nil, nil
}

type fakeCustomerRepo struct {
	customers map[uuid.UUID]*entity.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uuid.UUID]*entity.Customer)}
}

func (f *fakeCustomerRepo) add(customer *entity.Customer) *entity.Customer {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	f.customers[customer.ID] = customer
	return customer
}

func (f *fakeCustomerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	f.add(customer)
	return nil
}

func (f *fakeCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, ok := f.customers[id]
	if !ok {
		return nil, nil
	}
	return customer, nil
}

func (f *fakeCustomerRepo) Update(ctx context.Context, customer *entity.Customer) error {
	f.customers[customer.ID] = customer
	return nil
}

func (f *fakeCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.customers, id)
	return nil
}

func (f *fakeCustomerRepo) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	return nil, 0, nil
}

func (f *fakeCustomerRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	var purged int64
	for id, customer := range f.customers {
		if customer.CreatedAt.Before(before) {
			delete(f.customers, id)
			purged++
		}
	}
	return purged, nil
}

type fakeLoanRepo struct {
	loans        map[uuid.UUID]*entity.Loan
	savedPayment *entity.LoanPayment
}

func newFakeLoanRepo() *fakeLoanRepo {
	return &fakeLoanRepo{loans: make(map[uuid.UUID]*entity.Loan)}
}

func (f *fakeLoanRepo) Create(ctx context.Context, loan *entity.Loan) error {
	if loan.ID == uuid.Nil {
		loan.ID = uuid.New()
	}
	f.loans[loan.ID] = loan
	return nil
}

func (f *fakeLoanRepo) GetWithPayments(ctx context.Context, id uuid.UUID) (*entity.Loan, error) {
	loan, ok := f.loans[id]
	if !ok {
		return nil, nil
	}
	return loan, nil
}

func (f *fakeLoanRepo) Update(ctx context.Context, loan *entity.Loan) error {
	f.loans[loan.ID] = loan
	return nil
}

func (f *fakeLoanRepo) SavePayment(ctx context.Context, loan *entity.Loan, payment *entity.LoanPayment) error {
	f.loans[loan.ID] = loan
	f.savedPayment = payment
	return nil
}

func (f *fakeLoanRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.loans, id)
	return nil
}

func (f *fakeLoanRepo) List(ctx context.Context, params *repository.LoanFilterParams) ([]entity.Loan, int64, error) {
	return nil, 0, nil
}

func (f *fakeLoanRepo) ListOutstanding(ctx context.Context) ([]entity.Loan, error) {
	var out []entity.Loan
	for _, loan := range f.loans {
		if loan.Remaining > 0 {
			out = append(out, *loan)
		}
	}
	return out, nil
}

func (f *fakeLoanRepo) ListAll(ctx context.Context, status *enum.LoanStatus) ([]entity.Loan, error) {
	var out []entity.Loan
	for _, loan := range f.loans {
		if status != nil && loan.Status != *status {
			continue
		}
		out = append(out, *loan)
	}
	return out, nil
}
