package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Image is a shop-scoped uploaded file record. The bytes themselves live in
// object storage; only the path and metadata are kept here.
type Image struct {
	ID        string `gorm:"size:36;not null;uniqueIndex;primary_key"`
	ShopID    string `gorm:"size:36;not null;index"`
	Shop      *Shop  `gorm:"foreignKey:ShopID"`
	Path      string `gorm:"size:512;not null"`
	MimeType  string `gorm:"size:100"`
	SizeBytes int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (i *Image) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return
}
