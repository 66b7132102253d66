package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the shop operator account. The system is single-location and
// single-role: whoever can log in can do everything.
type User struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Username    string         `gorm:"size:255;unique;not null" json:"username"`
	DisplayName string         `gorm:"size:255" json:"display_name"`
	Password    string         `gorm:"size:255;not null" json:"-"`
	ShopName    *string        `gorm:"size:255" json:"shop_name,omitempty"`
	ShopAddress *string        `gorm:"type:text" json:"shop_address,omitempty"`
	ShopPhone   *string        `gorm:"size:50" json:"shop_phone,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}
