package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CartItem struct {
	ID        string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	CartID    string          `gorm:"size:36;not null;index" json:"cart_id"`
	Cart      *Cart           `gorm:"foreignKey:CartID"`
	ProductID string          `gorm:"size:36;not null;index" json:"product_id"`
	Product   *Product        `gorm:"foreignKey:ProductID"`
	Qty       int             `gorm:"not null" json:"qty"`
	Price     decimal.Decimal `gorm:"type:decimal(16,2)" json:"price"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(16,2)" json:"subtotal"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ci *CartItem) BeforeCreate(tx *gorm.DB) (err error) {
	if ci.ID == "" {
		ci.ID = uuid.New().String()
	}
	return
}
