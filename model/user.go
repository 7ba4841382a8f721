package model

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/datatypes"
)

type User struct {
	ID             string         `gorm:"column:user_id;type:varchar(36);primaryKey" json:"id"`
	Email          string         `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	HashedPassword string         `gorm:"column:hashed_password;type:varchar(255);not null" json:"-"`
	Name           string         `gorm:"column:name;type:varchar(255);not null" json:"name"`
	IsAdmin        bool           `gorm:"column:is_admin;not null;default:false" json:"is_admin"`
	IsSuperuser    bool           `gorm:"column:is_superuser;not null;default:false" json:"is_superuser"`
	Profile        string         `gorm:"column:profile;type:varchar(255)" json:"profile"`
	Settings       datatypes.JSON `gorm:"column:settings" json:"settings,omitempty"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "user"
}

// AccessClaims is the payload of a bearer token.
type AccessClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}
