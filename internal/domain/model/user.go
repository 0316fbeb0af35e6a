package model

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleOrganizer Role = "organizer"
)

type User struct {
	ID           string  `json:"id" gorm:"type:uuid;primaryKey"`
	Username     string  `json:"username" gorm:"type:varchar(24);uniqueIndex;not null"`
	Email        string  `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash *string `json:"-" gorm:"column:password_hash"`
	Role         Role    `json:"role" gorm:"type:varchar(20);not null;default:'user'"`

	// 2FAは未使用（カラムだけ確保）
	TwoFactorEnabled bool    `json:"-" gorm:"not null;default:false"`
	TwoFactorSecret  *string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Userを消すとSessionも消える
	Sessions []Session `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
