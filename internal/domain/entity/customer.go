package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer represents a shop customer. Customer records are short-lived
// contact cards (purged after 30 days); receipts and loans carry their own
// name/phone snapshots and outlive them.
type Customer struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null;index" json:"name"`
	Phone     string         `gorm:"size:50;not null;index" json:"phone"`
	VehicleNo string         `gorm:"size:50;not null;index" json:"vehicleNo"`
	Model     string         `gorm:"size:100;not null" json:"model"`
	CreatedAt time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Receipts []Receipt `gorm:"foreignKey:CustomerID" json:"-"`
	Loans    []Loan    `gorm:"foreignKey:CustomerID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
