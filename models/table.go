package models

import "time"

type Table struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Number    int       `gorm:"not null;uniqueIndex" json:"number"`
	Color     string    `gorm:"type:varchar(30)" json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
