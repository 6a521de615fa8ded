package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ShopStatusOpen   = "open"
	ShopStatusClosed = "closed"
	ShopStatusPaused = "paused"
)

// Shop is soft-deleted by setting DeletedAt explicitly. A plain *time.Time is
// used instead of gorm.DeletedAt so deleted shops stay queryable for the
// restore flow; listing queries filter on deleted_at IS NULL themselves.
type Shop struct {
	ID               string `gorm:"size:36;not null;uniqueIndex;primary_key"`
	Slug             string `gorm:"size:100;not null;uniqueIndex"`
	Name             string `gorm:"size:255;not null"`
	Description      string `gorm:"type:text"`
	Status           string `gorm:"size:20;default:'open';not null"`
	PublishUniversal bool   `gorm:"default:false"`
	Members          []ShopMember
	Products         []Product
	DeletedAt        *time.Time `gorm:"index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (s *Shop) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return
}
