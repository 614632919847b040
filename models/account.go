package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TakeoutLabel is what a table-less account shows as on screens and exports.
const TakeoutLabel = "Para llevar"

type Account struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	TableID   *uint           `gorm:"index" json:"table_id,omitempty"`
	Table     *Table          `gorm:"foreignKey:TableID" json:"table,omitempty"`
	UserID    uint            `gorm:"not null" json:"user_id"`
	User      User            `gorm:"foreignKey:UserID" json:"-"`
	Total     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0.00" json:"total"`
	Active    bool            `gorm:"not null;default:true;index" json:"active"`
	ClosedAt  *time.Time      `gorm:"index" json:"closed_at,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	Orders []Order       `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE" json:"orders,omitempty"`
	Dishes []AccountDish `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE" json:"-"`
}

// Label names the account for floor screens and the corte export.
func (a *Account) Label() string {
	if a.Table != nil {
		return fmt.Sprintf("Mesa %d", a.Table.Number)
	}
	return TakeoutLabel
}

// AccountDish is one attachment of a dish to an account. A dish attaches once
// per order that contained it, so the rows form a multiset, not a set.
type AccountDish struct {
	ID        uint `gorm:"primaryKey"`
	AccountID uint `gorm:"not null;index"`
	DishID    uint `gorm:"not null;index"`
	Dish      Dish `gorm:"foreignKey:DishID"`
	CreatedAt time.Time
}
