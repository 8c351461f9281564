package repository

import (
	"context"

	"freshmart/internal/domain/model"
)

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	// user_id 指定があればそのユーザーの注文だけ。新しい順。
	List(ctx context.Context, userID *int64) ([]model.Order, error)
	Create(ctx context.Context, order model.Order) (int64, error)
}
