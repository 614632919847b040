package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Dish struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	User        User            `gorm:"foreignKey:UserID" json:"-"`
	Name        string          `gorm:"type:varchar(100);not null" json:"name"`
	Ingredients string          `gorm:"type:text" json:"ingredients"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Active      bool            `gorm:"not null;default:true" json:"active"`
	PhotoUrl    *string         `gorm:"type:varchar(255)" json:"photo_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// IngredientList splits the stored ingredient string back into its entries.
func (d *Dish) IngredientList() []string {
	if d.Ingredients == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(d.Ingredients, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
