package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ExtraExpense struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Date        time.Time       `gorm:"type:date;not null;index" json:"date"`
	Description string          `gorm:"type:varchar(255);not null" json:"description"`
	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
