package models

import (
	"time"
)

type User struct {
	ID           string `gorm:"size:36;not null;uniqueIndex;primary_key"`
	TelegramID   int64  `gorm:"uniqueIndex"`
	FirstName    string `gorm:"size:100;not null"`
	LastName     string `gorm:"size:100"`
	Username     string `gorm:"size:100;index"`
	LanguageCode string `gorm:"size:10"`
	PhotoURL     string `gorm:"size:512"`
	Password     string `gorm:"size:255"`
	Role         string `gorm:"size:20;default:'customer';not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)
