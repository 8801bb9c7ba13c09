package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const UserRoleAdmin = "admin"

type UserModel struct {
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`

	UserUsername     string `gorm:"column:user_username;type:varchar(100);not null;uniqueIndex" json:"user_username"`
	UserPasswordHash string `gorm:"column:user_password_hash;type:varchar(255);not null" json:"-"`
	UserRole         string `gorm:"column:user_role;type:varchar(16);not null;default:'admin'" json:"user_role"`

	UserCreatedAt time.Time `gorm:"column:user_created_at;autoCreateTime" json:"user_created_at"`
}

func (UserModel) TableName() string { return "users" }

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	if u.UserRole == "" {
		u.UserRole = UserRoleAdmin
	}
	return nil
}
