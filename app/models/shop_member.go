package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MemberRoleOwner        = "OWNER"
	MemberRoleCollaborator = "COLLABORATOR"
	MemberRoleHelper       = "HELPER"
	MemberRoleMember       = "MEMBER"
)

type ShopMember struct {
	ID        string `gorm:"size:36;not null;uniqueIndex;primary_key"`
	ShopID    string `gorm:"size:36;not null;index:idx_shop_user,unique"`
	Shop      *Shop  `gorm:"foreignKey:ShopID"`
	UserID    string `gorm:"size:36;not null;index:idx_shop_user,unique"`
	User      *User  `gorm:"foreignKey:UserID"`
	Role      string `gorm:"size:20;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (m *ShopMember) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}
