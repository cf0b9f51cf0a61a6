package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type Role string

const (
	RoleOrdinary  Role = "ordinary"
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
)

// User is the profile record of an identity owned by the authentication
// service. Only its compact summary is joined into responses.
type User struct {
	ID         string    `json:"id" gorm:"primaryKey;size:64"`
	UserName   string    `json:"userName" gorm:"size:100;index"`
	ProfileImg string    `json:"profileImg"`
	Role       Role      `json:"role" gorm:"size:20;default:'ordinary'"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// UserCompact is the author summary attached to posts and rankings
type UserCompact struct {
	ID         string `json:"id"`
	UserName   string `json:"userName"`
	ProfileImg string `json:"profileImg"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{ID: u.ID, UserName: u.UserName, ProfileImg: u.ProfileImg}
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
	jwt.RegisteredClaims
}
