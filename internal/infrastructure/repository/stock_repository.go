package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lubetrack/lubetrack-api/internal/domain/entity"
	domainRepo "github.com/lubetrack/lubetrack-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type stockRepository struct {
	db *gorm.DB
}

// NewStockRepository creates a new stock repository
func NewStockRepository(db *gorm.DB) domainRepo.StockRepository {
	return &stockRepository{db: db}
}

func (r *stockRepository) Create(ctx context.Context, item *entity.StockItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *stockRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.StockItem, error) {
	var item entity.StockItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

// GetByIDs retrieves multiple stock items by their IDs in a single query
func (r *stockRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.StockItem, error) {
	if len(ids) == 0 {
		return []entity.StockItem{}, nil
	}
	var items []entity.StockItem
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&items).Error
	return items, err
}

func (r *stockRepository) Update(ctx context.Context, item *entity.StockItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *stockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.StockItem{}, "id = ?", id).Error
}

func (r *stockRepository) List(ctx context.Context, params *domainRepo.StockFilterParams) ([]entity.StockItem, int64, error) {
	var items []entity.StockItem
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.StockItem{})

	if params.Search != "" {
		query = query.Where("item_name ILIKE ?", "%"+params.Search+"%")
	}

	if params.Category != nil {
		query = query.Where("category = ?", *params.Category)
	}

	if params.LowStock {
		query = query.Where("quantity <= quantity_alert")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("updated_at DESC").
		Find(&items).Error

	return items, total, err
}

func (r *stockRepository) GetLowStock(ctx context.Context) ([]entity.StockItem, error) {
	var items []entity.StockItem
	err := r.db.WithContext(ctx).
		Where("quantity <= quantity_alert").
		Order("quantity ASC").
		Find(&items).Error
	return items, err
}

// ApplyDraws deducts every draw inside one transaction, locking the affected
// rows with SELECT ... FOR UPDATE so concurrent sales never draw against a
// stale gallon state. Any failed line rolls back the whole batch.
func (r *stockRepository) ApplyDraws(ctx context.Context, draws []domainRepo.StockDraw, allowPartial bool) ([]entity.StockItem, []domainRepo.AppliedDraw, error) {
	if len(draws) == 0 {
		return nil, nil, nil
	}

	var updated []entity.StockItem
	var applied []domainRepo.AppliedDraw

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, draw := range draws {
			var item entity.StockItem
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&item, "id = ?", draw.StockItemID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &domainRepo.DrawError{
					StockItemID: draw.StockItemID,
					Err:         gorm.ErrRecordNotFound,
				}
			}
			if err != nil {
				return err
			}

			record := domainRepo.AppliedDraw{StockItemID: item.ID}

			if draw.Litres.Sign() > 0 {
				delivered, drawErr := item.DrawDown(draw.Litres, allowPartial)
				if drawErr != nil {
					return &domainRepo.DrawError{
						StockItemID: item.ID,
						ItemName:    item.ItemName,
						Err:         drawErr,
					}
				}
				record.LitresDelivered = delivered
			} else {
				before := item.Quantity
				if drawErr := item.DeductUnits(draw.Units, allowPartial); drawErr != nil {
					return &domainRepo.DrawError{
						StockItemID: item.ID,
						ItemName:    item.ItemName,
						Err:         drawErr,
					}
				}
				record.UnitsDelivered = before - item.Quantity
			}

			if err := tx.Save(&item).Error; err != nil {
				return err
			}

			updated = append(updated, item)
			applied = append(applied, record)
		}
		return nil
	})

	if err != nil {
		return nil, nil, err
	}
	return updated, applied, nil
}

// RestoreDraws is the compensation path: it re-adds exactly what a committed
// draw took, used when the write following the draw transaction fails.
func (r *stockRepository) RestoreDraws(ctx context.Context, applied []domainRepo.AppliedDraw) error {
	if len(applied) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, record := range applied {
			var item entity.StockItem
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&item, "id = ?", record.StockItemID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Item deleted since the draw; nothing left to restore into.
				continue
			}
			if err != nil {
				return err
			}

			if record.LitresDelivered.Sign() > 0 {
				item.RestoreLitres(record.LitresDelivered)
			}
			if record.UnitsDelivered > 0 {
				item.Quantity += record.UnitsDelivered
			}

			if err := tx.Save(&item).Error; err != nil {
				return fmt.Errorf("failed to restore stock for %s: %w", item.ItemName, err)
			}
		}
		return nil
	})
}
