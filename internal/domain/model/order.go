package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order は確定済みの注文。作成後は一切変更しない。
type Order struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *int64          `gorm:"index" json:"user_id"` // ゲスト購入はnull
	FullName  string          `gorm:"type:varchar(255);not null" json:"full_name"`
	Email     string          `gorm:"type:varchar(255);not null" json:"email"`
	Address   string          `gorm:"type:text" json:"address"`
	City      string          `gorm:"type:varchar(100)" json:"city"`
	Notes     string          `gorm:"type:text" json:"notes"`
	Subtotal  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	Total     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
