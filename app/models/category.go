package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category forms a global forest shared by every shop. Slug is unique across
// the whole forest, not per sibling group, so categories can be looked up flat
// by slug regardless of where they sit in the tree.
type Category struct {
	ID        string    `gorm:"size:36;not null;uniqueIndex;primary_key"`
	Slug      string    `gorm:"size:100;not null;uniqueIndex"`
	Name      string    `gorm:"size:100;not null"`
	Icon      string    `gorm:"size:100"`
	ParentID  *string   `gorm:"size:36;index"`
	Parent    *Category `gorm:"foreignKey:ParentID"`
	Level     int       `gorm:"not null;default:0"`
	Position  int       `gorm:"not null;default:0"`
	Active    bool      `gorm:"not null;default:true"`
	Locales   []CategoryLocale
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Category) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

// CategoryLocale carries one display name per locale per category.
type CategoryLocale struct {
	ID         string    `gorm:"size:36;not null;uniqueIndex;primary_key"`
	CategoryID string    `gorm:"size:36;not null;index:idx_category_locale,unique"`
	Category   *Category `gorm:"foreignKey:CategoryID"`
	Locale     string    `gorm:"size:10;not null;index:idx_category_locale,unique"`
	Name       string    `gorm:"size:100;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (cl *CategoryLocale) BeforeCreate(tx *gorm.DB) (err error) {
	if cl.ID == "" {
		cl.ID = uuid.New().String()
	}
	return
}

// CategorySynonym holds alternative search terms for a category.
type CategorySynonym struct {
	ID         string    `gorm:"size:36;not null;uniqueIndex;primary_key"`
	CategoryID string    `gorm:"size:36;not null;index"`
	Category   *Category `gorm:"foreignKey:CategoryID"`
	Term       string    `gorm:"size:100;not null;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (cs *CategorySynonym) BeforeCreate(tx *gorm.DB) (err error) {
	if cs.ID == "" {
		cs.ID = uuid.New().String()
	}
	return
}
