package models

import "time"

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

type User struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	Name      string  `gorm:"type:varchar(255);not null" json:"name"`
	Email     string  `gorm:"type:varchar(255);unique;not null" json:"email"`
	Password  string  `gorm:"type:varchar(255);not null" json:"-"`
	Role      string  `gorm:"type:varchar(20);not null;default:'employee'" json:"role"`
	PhotoUrl  *string `gorm:"type:varchar(255)" json:"photo_url,omitempty"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
