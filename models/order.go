package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusInProgress = "in_progress"
	OrderStatusServed     = "served"
	OrderStatusCancelled  = "cancelled"
)

type Order struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AccountID uint      `gorm:"not null;index" json:"account_id"`
	UserID    *uint     `gorm:"index" json:"user_id,omitempty"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
	Status    string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Note      string    `gorm:"type:text" json:"note,omitempty"`
	Dishes    []Dish    `gorm:"many2many:order_dishes" json:"dishes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Total is always derived from the order's dishes, never stored.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, d := range o.Dishes {
		total = total.Add(d.Price)
	}
	return total
}
