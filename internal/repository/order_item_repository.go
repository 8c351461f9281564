package repository

import (
	"context"

	"freshmart/internal/domain/model"

	"github.com/shopspring/decimal"
)

// 注文明細＋表示用の現在の商品名。
// price は明細のスナップショットで、商品テーブルの現在価格ではない。
type OrderItemRow struct {
	ID          int64           `json:"id"`
	OrderID     int64           `json:"-"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
	// 挿入順（id昇順）で返す。
	ListByOrderID(ctx context.Context, orderID int64) ([]OrderItemRow, error)
}
