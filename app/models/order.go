package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	OrderStatusPending   = 1
	OrderStatusConfirmed = 2
	OrderStatusShipped   = 3
	OrderStatusCompleted = 4
	OrderStatusCancelled = 5
)

type Order struct {
	ID         string    `gorm:"size:36;not null;uniqueIndex;primary_key"`
	OrderCode  string    `gorm:"size:50;not null;uniqueIndex" json:"order_code"`
	ShopID     string    `gorm:"size:36;not null;index"`
	Shop       *Shop     `gorm:"foreignKey:ShopID"`
	UserID     string    `gorm:"size:36;not null;index"`
	User       *User     `gorm:"foreignKey:UserID"`
	OrderDate  time.Time `gorm:"not null" json:"order_date"`
	OrderItems []OrderItem
	GrandTotal decimal.Decimal `gorm:"type:decimal(16,2)" json:"grand_total"`
	Comment    string          `gorm:"type:text"`
	Status     int             `gorm:"default:1"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return
}
