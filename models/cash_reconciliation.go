package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashReconciliation is the corte de caja: one row per calendar date.
// Recomputing a date replaces the existing row instead of adding another.
type CashReconciliation struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Date         time.Time       `gorm:"type:date;not null;uniqueIndex" json:"date"`
	StartingCash decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0.00" json:"starting_cash"`
	SalesTotal   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0.00" json:"sales_total"`
	ExpenseTotal decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0.00" json:"expense_total"`
	ExtraCash    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0.00" json:"extra_cash"`
	CashInDrawer decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0.00" json:"cash_in_drawer"`
	UserID       uint            `gorm:"not null" json:"user_id"`
	User         User            `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
