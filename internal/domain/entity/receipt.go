package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lubetrack/lubetrack-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Receipt records one completed service transaction. Receipts are
// immutable after creation; deleting one does not restore stock.
type Receipt struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptNo     string     `gorm:"size:100;unique;not null" json:"receiptNo"`
	CustomerID    *uuid.UUID `gorm:"type:uuid;index" json:"customerId,omitempty"`
	CustomerName  string     `gorm:"size:255;index" json:"customerName"`
	CustomerPhone string     `gorm:"size:50;index" json:"customerPhone"`
	VehicleNo     string     `gorm:"size:50;index" json:"vehicleNo"`
	Model         string     `gorm:"size:100" json:"model"`

	// Mileage block recorded at oil-change time.
	UsedMileage int `gorm:"default:0" json:"usedMileage"`
	OverMileage int `gorm:"default:0" json:"overMileage"`
	NewMileage  int `gorm:"default:0" json:"newMileage"`
	NewRunning  int `gorm:"default:0" json:"newRunning"`
	AfterChange int `gorm:"default:0" json:"afterChange"`

	// Totals in cents.
	Subtotal    int64 `gorm:"default:0" json:"-"`
	TotalAmount int64 `gorm:"default:0" json:"-"`

	CreatedAt time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Customer *Customer     `gorm:"foreignKey:CustomerID" json:"-"`
	Items    []ReceiptItem `gorm:"foreignKey:ReceiptID" json:"items"`
}

// BeforeCreate generates a UUID before creating a new receipt
func (r *Receipt) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Receipt model
func (Receipt) TableName() string {
	return "receipts"
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (r Receipt) MarshalJSON() ([]byte, error) {
	type Alias Receipt
	return json.Marshal(&struct {
		Alias
		Subtotal    float64 `json:"subtotal"`
		TotalAmount float64 `json:"totalAmount"`
	}{
		Alias:       Alias(r),
		Subtotal:    float64(r.Subtotal) / 100,
		TotalAmount: float64(r.TotalAmount) / 100,
	})
}

// ReceiptItem is one line of a receipt. Category and prices are snapshots
// taken from the stock item at sale time: later stock edits never change
// historical receipts.
type ReceiptItem struct {
	ID          uuid.UUID          `gorm:"type:uuid;primary_key" json:"-"`
	ReceiptID   uuid.UUID          `gorm:"type:uuid;not null;index" json:"-"`
	StockItemID uuid.UUID          `gorm:"type:uuid;not null;index" json:"itemId"`
	ItemName    string             `gorm:"size:255;not null" json:"itemName"`
	Category    enum.StockCategory `gorm:"size:50;not null" json:"category"`

	// Unit count for filters; zero for oil lines.
	Quantity int `gorm:"default:0" json:"quantity"`
	// Litres delivered for oil lines; zero for filters. Under the partial
	// draw policy this may be less than what was requested.
	Litres decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"litres"`

	// Price snapshots in cents: unit price (per litre for oil, per unit
	// otherwise), cost at sale time, and the line total.
	Price     int64 `gorm:"not null" json:"-"`
	CostPrice int64 `gorm:"default:0" json:"-"`
	Total     int64 `gorm:"not null" json:"-"`

	CreatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Receipt   Receipt   `gorm:"foreignKey:ReceiptID" json:"-"`
	StockItem StockItem `gorm:"foreignKey:StockItemID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new receipt item
func (ri *ReceiptItem) BeforeCreate(tx *gorm.DB) error {
	if ri.ID == uuid.Nil {
		ri.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ReceiptItem model
func (ReceiptItem) TableName() string {
	return "receipt_items"
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (ri ReceiptItem) MarshalJSON() ([]byte, error) {
	type Alias ReceiptItem
	return json.Marshal(&struct {
		Alias
		Litres    float64 `json:"litres"`
		Price     float64 `json:"price"`
		CostPrice float64 `json:"costPrice"`
		Total     float64 `json:"total"`
	}{
		Alias:     Alias(ri),
		Litres:    ri.Litres.InexactFloat64(),
		Price:     float64(ri.Price) / 100,
		CostPrice: float64(ri.CostPrice) / 100,
		Total:     float64(ri.Total) / 100,
	})
}
