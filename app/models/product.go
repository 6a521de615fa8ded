package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID               string          `gorm:"size:36;not null;uniqueIndex;primary_key"`
	ShopID           string          `gorm:"size:36;not null;index"`
	Shop             *Shop           `gorm:"foreignKey:ShopID"`
	CategoryID       *string         `gorm:"size:36;index"`
	Category         *Category       `gorm:"foreignKey:CategoryID"`
	Name             string          `gorm:"size:255;not null"`
	Slug             string          `gorm:"size:255;not null;uniqueIndex"`
	Description      string          `gorm:"type:text"`
	Price            decimal.Decimal `gorm:"type:decimal(16,2);not null"`
	Currency         string          `gorm:"size:10;default:'RUB'"`
	Stock            int             `gorm:"not null;default:0"`
	Active           bool            `gorm:"not null;default:true"`
	PublishUniversal bool            `gorm:"default:false"`
	ProductImages    []ProductImage
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}

type ProductImage struct {
	ID        string   `gorm:"size:36;not null;uniqueIndex;primary_key"`
	ProductID string   `gorm:"size:36;not null;index"`
	Product   *Product `gorm:"foreignKey:ProductID"`
	ImageID   string   `gorm:"size:36;index"`
	Path      string   `gorm:"size:512;not null"`
	Position  int      `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (pi *ProductImage) BeforeCreate(tx *gorm.DB) (err error) {
	if pi.ID == "" {
		pi.ID = uuid.New().String()
	}
	return
}
