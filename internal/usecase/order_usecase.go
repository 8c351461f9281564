package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"freshmart/internal/domain/model"
	repo "freshmart/internal/repository"

	"github.com/shopspring/decimal"
)

type OrderUsecase struct {
	tx repo.TransactionManager
}

func NewOrderUsecase(tx repo.TransactionManager) *OrderUsecase {
	return &OrderUsecase{tx: tx}
}

// カート1行。product_id/quantityは文字列でも数値でも受ける。
type CartItemInput struct {
	ProductID interface{}
	Quantity  interface{}
}

type CreateOrderInput struct {
	FullName string
	Email    string
	Address  string
	City     string
	Notes    string
	UserID   *int64
	Items    []CartItemInput
}

type OrderItemOutput struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

type OrderOutput struct {
	ID        int64             `json:"id"`
	UserID    *int64            `json:"user_id"`
	FullName  string            `json:"full_name"`
	Email     string            `json:"email"`
	Address   string            `json:"address"`
	City      string            `json:"city"`
	Notes     string            `json:"notes"`
	Subtotal  decimal.Decimal   `json:"subtotal"`
	Total     decimal.Decimal   `json:"total"`
	CreatedAt time.Time         `json:"created_at"`
	Items     []OrderItemOutput `json:"items"`
}

// CreateOrder はカートを検証して注文＋明細を1トランザクションで作る。
// 価格は必ず商品テーブルの現在値を採用する（クライアントの申告は信用しない）。
func (u *OrderUsecase) CreateOrder(ctx context.Context, in CreateOrderInput) (OrderOutput, error) {
	if len(in.Items) == 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "at least one item required")
	}

	fullName := strings.TrimSpace(in.FullName)
	email := strings.TrimSpace(in.Email)
	if fullName == "" || email == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "full_name and email are required")
	}

	var out OrderOutput

	//検証〜insertまで同じトランザクションで行う
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orderItems := make([]model.OrderItem, 0, len(in.Items))
		subtotal := decimal.Zero

		for i, raw := range in.Items {
			productID, err := coerceInt64(raw.ProductID)
			if err != nil {
				return NewHTTPError(http.StatusBadRequest, fmt.Sprintf("item %d: invalid product_id", i+1))
			}
			quantity, err := coerceInt64(raw.Quantity)
			if err != nil {
				return NewHTTPError(http.StatusBadRequest, fmt.Sprintf("item %d: invalid quantity", i+1))
			}
			if quantity <= 0 {
				return NewHTTPError(http.StatusBadRequest, fmt.Sprintf("item %d: quantity must be at least 1", i+1))
			}

			p, err := r.Products().FindByID(ctx, productID)
			if err == repo.ErrNotFound {
				//1件でも欠けていたら注文全体を中止
				return NewHTTPError(http.StatusNotFound, fmt.Sprintf("product %d not found", productID))
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			//価格スナップショット
			lineTotal := p.Price.Mul(decimal.NewFromInt(quantity))
			subtotal = subtotal.Add(lineTotal)

			orderItems = append(orderItems, model.OrderItem{
				ProductID: productID,
				Quantity:  quantity,
				Price:     p.Price,
			})
		}

		//税・送料なし
		total := subtotal

		orderID, err := r.Orders().Create(ctx, model.Order{
			UserID:   in.UserID,
			FullName: fullName,
			Email:    email,
			Address:  strings.TrimSpace(in.Address),
			City:     strings.TrimSpace(in.City),
			Notes:    strings.TrimSpace(in.Notes),
			Subtotal: subtotal,
			Total:    total,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//レスポンスは読み出しと同じ組み立てで返す
		composed, err := composeOrder(ctx, r, orderID)
		if err != nil {
			return err
		}
		out = composed
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) GetOrder(ctx context.Context, orderID int64) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		composed, err := composeOrder(ctx, r, orderID)
		if err != nil {
			return err
		}
		out = composed
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) ListOrders(ctx context.Context, userID *int64) ([]OrderOutput, error) {
	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().List(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func composeOrder(ctx context.Context, r repo.TxRepos, orderID int64) (OrderOutput, error) {
	o, err := r.Orders().FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := r.OrderItems().ListByOrderID(ctx, orderID)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toOrderOutput(o, items), nil
}

func toOrderOutput(o model.Order, items []repo.OrderItemRow) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       it.Price,
			//凍結した価格から計算する（現在の商品価格は使わない）
			LineTotal: it.Price.Mul(decimal.NewFromInt(it.Quantity)),
		})
	}

	return OrderOutput{
		ID:        o.ID,
		UserID:    o.UserID,
		FullName:  o.FullName,
		Email:     o.Email,
		Address:   o.Address,
		City:      o.City,
		Notes:     o.Notes,
		Subtotal:  o.Subtotal,
		Total:     o.Total,
		CreatedAt: o.CreatedAt,
		Items:     outItems,
	}
}
