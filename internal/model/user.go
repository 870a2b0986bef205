package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the closed set of roles a user can hold.
type Role string

const (
	RoleUser  Role = "User"
	RoleAgent Role = "Agent"
	RoleAdmin Role = "Admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAgent, RoleAdmin:
		return true
	}
	return false
}

// ParseRole returns the role named by s, falling back to RoleUser for
// anything that is not a known role.
func ParseRole(s string) Role {
	if r := Role(s); r.Valid() {
		return r
	}
	return RoleUser
}

// UserStatus tells whether an account may log in.
type UserStatus string

const (
	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"
)

// User represents an account in the ticketing system.
type User struct {
	ID                     uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey" swaggertype:"string" format:"uuid"`
	Name                   string     `json:"name" gorm:"size:255;not null"`
	Email                  string     `json:"email" gorm:"type:varchar(255) COLLATE utf8mb4_bin;uniqueIndex;not null"`
	PasswordHash           string     `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role                   Role       `json:"role" gorm:"type:varchar(20);not null;default:'User';index"`
	Status                 UserStatus `json:"status" gorm:"type:varchar(20);not null;default:'active';index"`
	IsVerified             bool       `json:"is_verified" gorm:"default:false"`
	Gender                 string     `json:"gender,omitempty" gorm:"size:32"`
	Contact                string     `json:"contact,omitempty" gorm:"size:64"`
	ResetToken             *string    `json:"-" gorm:"size:64;index"`
	EmailVerificationToken *string    `json:"-" gorm:"size:64;index"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`

	// Relations
	RefreshTokens []RefreshToken `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Blocked reports whether the account has been disabled by an admin.
func (u *User) Blocked() bool {
	return u.Status == UserStatusBlocked
}

// RefreshToken is one outstanding refresh token of a user. A refresh token
// is only honoured while its exact string is present here.
type RefreshToken struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	UserID    uuid.UUID `json:"-" gorm:"type:char(36);not null;index"`
	Token     string    `json:"-" gorm:"type:varbinary(1024);not null;index"`
	CreatedAt time.Time `json:"-"`
}
