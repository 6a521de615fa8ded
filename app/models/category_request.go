package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CategoryRequestPending  = "pending"
	CategoryRequestApproved = "approved"
	CategoryRequestRejected = "rejected"
)

// CategoryRequest is a shop's request for a category that does not exist yet.
type CategoryRequest struct {
	ID         string `gorm:"size:36;not null;uniqueIndex;primary_key"`
	ShopID     string `gorm:"size:36;not null;index"`
	Shop       *Shop  `gorm:"foreignKey:ShopID"`
	Name       string `gorm:"size:100;not null"`
	ParentSlug string `gorm:"size:100"`
	Comment    string `gorm:"type:text"`
	Status     string `gorm:"size:20;default:'pending';not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (cr *CategoryRequest) BeforeCreate(tx *gorm.DB) (err error) {
	if cr.ID == "" {
		cr.ID = uuid.New().String()
	}
	return
}
