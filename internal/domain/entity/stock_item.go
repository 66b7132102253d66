package entity

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lubetrack/lubetrack-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Draw-down failure modes. The service layer maps these onto the HTTP
// error taxonomy.
var (
	ErrNonPositiveAmount = errors.New("requested amount must be positive")
	ErrNotOilItem        = errors.New("item is not an oil item")
	ErrNoGallonVolume    = errors.New("oil item has no gallon volume configured")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// StockItem represents one sellable item: either oil tracked in mixed
// units (whole closed gallons plus the partial volume of the single
// currently open gallon) or a filter tracked as a unit count.
type StockItem struct {
	ID       uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	ItemName string             `gorm:"size:255;not null" json:"itemName"`
	Category enum.StockCategory `gorm:"size:50;not null;index" json:"category"`

	// Filter pricing, stored in cents.
	CostPrice int64 `gorm:"default:0" json:"-"`
	SalePrice int64 `gorm:"default:0" json:"-"`

	// For oil: count of closed (unopened) gallons. For filters: unit count.
	Quantity      int `gorm:"default:0" json:"quantity"`
	QuantityAlert int `gorm:"default:2" json:"quantityAlert"`

	// Oil-only fields. RemainingLitres is the volume left in the gallon
	// currently open for dispensing; zero means no gallon is open.
	LitresPerGallon decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"litresPerGallon"`
	PricePerLitre   int64           `gorm:"default:0" json:"-"`
	RemainingLitres decimal.Decimal `gorm:"type:numeric(12,2);default:0;column:remaining_litres_in_current_gallon" json:"remainingLitresInCurrentGallon"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new stock item
func (s *StockItem) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StockItem model
func (StockItem) TableName() string {
	return "stock_items"
}

// TotalDeliverableLitres returns quantity*litresPerGallon + remaining open
// volume. A sale may only ever decrease this, by exactly the volume sold.
func (s *StockItem) TotalDeliverableLitres() decimal.Decimal {
	closed := s.LitresPerGallon.Mul(decimal.NewFromInt(int64(s.Quantity)))
	return closed.Add(s.RemainingLitres)
}

// DrawDown deducts litres from an oil item, draining the open gallon first
// and opening closed gallons only as needed. It returns the litres actually
// delivered.
//
// With allowPartial false (the default policy) a request exceeding the
// deliverable volume is rejected with ErrInsufficientStock and the item is
// left untouched. With allowPartial true the item delivers as much as
// exists and is drained to zero, matching the shop's historical
// best-effort behaviour.
func (s *StockItem) DrawDown(litres decimal.Decimal, allowPartial bool) (decimal.Decimal, error) {
	if litres.Sign() <= 0 {
		return decimal.Zero, ErrNonPositiveAmount
	}
	if !s.Category.IsOil() {
		return decimal.Zero, ErrNotOilItem
	}
	if s.LitresPerGallon.Sign() <= 0 {
		return decimal.Zero, ErrNoGallonVolume
	}
	if !allowPartial && litres.GreaterThan(s.TotalDeliverableLitres()) {
		return decimal.Zero, ErrInsufficientStock
	}

	need := litres
	open := s.RemainingLitres
	closed := s.Quantity

	// Drain the currently open gallon first.
	take := decimal.Min(need, open)
	open = open.Sub(take)
	need = need.Sub(take)

	// Open fresh gallons one at a time until satisfied or exhausted.
	for need.Sign() > 0 && closed > 0 {
		closed--
		open = s.LitresPerGallon
		take = decimal.Min(need, open)
		open = open.Sub(take)
		need = need.Sub(take)
	}

	if closed < 0 {
		closed = 0
	}
	s.Quantity = closed
	s.RemainingLitres = open

	return litres.Sub(need), nil
}

// DeductUnits deducts a unit count from a filter item. With allowPartial
// false a sale exceeding the available count is rejected; with it true the
// count clamps at zero.
func (s *StockItem) DeductUnits(count int, allowPartial bool) error {
	if count <= 0 {
		return ErrNonPositiveAmount
	}
	if count > s.Quantity {
		if !allowPartial {
			return ErrInsufficientStock
		}
		s.Quantity = 0
		return nil
	}
	s.Quantity -= count
	return nil
}

// RestoreLitres is the exact inverse of DrawDown, used to compensate a
// committed draw when a later write in the sale fails. Volume pours back
// into the open gallon; full gallons re-close, an exactly filled open
// gallon included, so the open volume stays strictly below one gallon.
func (s *StockItem) RestoreLitres(litres decimal.Decimal) {
	if litres.Sign() <= 0 || s.LitresPerGallon.Sign() <= 0 {
		return
	}
	open := s.RemainingLitres.Add(litres)
	for open.GreaterThanOrEqual(s.LitresPerGallon) {
		open = open.Sub(s.LitresPerGallon)
		s.Quantity++
	}
	s.RemainingLitres = open
}

// LowStock reports whether the item is at or below its alert threshold.
func (s *StockItem) LowStock() bool {
	return s.Quantity <= s.QuantityAlert
}

// stockItemJSON mirrors the persisted document shape: cents rendered as
// decimal currency, litre volumes as plain numbers.
type stockItemJSON struct {
	ID              uuid.UUID          `json:"id"`
	ItemName        string             `json:"itemName"`
	Category        enum.StockCategory `json:"category"`
	CostPrice       float64            `json:"costPrice"`
	SalePrice       float64            `json:"salePrice"`
	Quantity        int                `json:"quantity"`
	QuantityAlert   int                `json:"quantityAlert"`
	LitresPerGallon float64            `json:"litresPerGallon"`
	PricePerLitre   float64            `json:"pricePerLitre"`
	RemainingLitres float64            `json:"remainingLitresInCurrentGallon"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

// MarshalJSON converts StockItem to JSON with decimal prices
func (s StockItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(stockItemJSON{
		ID:              s.ID,
		ItemName:        s.ItemName,
		Category:        s.Category,
		CostPrice:       float64(s.CostPrice) / 100,
		SalePrice:       float64(s.SalePrice) / 100,
		Quantity:        s.Quantity,
		QuantityAlert:   s.QuantityAlert,
		LitresPerGallon: s.LitresPerGallon.InexactFloat64(),
		PricePerLitre:   float64(s.PricePerLitre) / 100,
		RemainingLitres: s.RemainingLitres.InexactFloat64(),
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	})
}
