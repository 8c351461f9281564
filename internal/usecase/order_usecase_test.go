package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"freshmart/internal/domain/model"
	repo "freshmart/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =====================
// Mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) List(ctx context.Context, userID *int64) ([]model.Order, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Error(1)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]repo.OrderItemRow, error) {
	args := m.Called(ctx, orderID)
	rows, _ := args.Get(0).([]repo.OrderItemRow)
	return rows, args.Error(1)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) List(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// トランザクション差し替え。fnがエラーを返したらそのまま返す＝ロールバック相当。
type fakeTxRepos struct {
	orders     *OrderRepoMock
	orderItems *OrderItemRepoMock
	products   *ProductRepoMock
}

func (r *fakeTxRepos) Orders() repo.OrderRepository         { return r.orders }
func (r *fakeTxRepos) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *fakeTxRepos) Products() repo.ProductRepository     { return r.products }

type fakeTxManager struct {
	repos *fakeTxRepos
	calls int
}

func (tm *fakeTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	tm.calls++
	return fn(tm.repos)
}

func newOrderFixture() (*OrderUsecase, *fakeTxManager, *OrderRepoMock, *OrderItemRepoMock, *ProductRepoMock) {
	orders := new(OrderRepoMock)
	orderItems := new(OrderItemRepoMock)
	products := new(ProductRepoMock)
	tm := &fakeTxManager{repos: &fakeTxRepos{orders: orders, orderItems: orderItems, products: products}}
	return NewOrderUsecase(tm), tm, orders, orderItems, products
}

func assertHTTPError(t *testing.T, err error, wantStatus int, wantContains string) {
	t.Helper()
	require.Error(t, err)
	he, ok := AsHTTPError(err)
	require.True(t, ok, "expected HTTPError, got %v", err)
	assert.Equal(t, wantStatus, he.Status)
	assert.Contains(t, he.Message, wantContains)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// =====================
// CreateOrder
// =====================

func TestCreateOrder_EmptyCart(t *testing.T) {
	uc, tm, _, _, _ := newOrderFixture()

	_, err := uc.CreateOrder(context.Background(), CreateOrderInput{
		FullName: "Taro Yamada",
		Email:    "taro@example.com",
		Items:    nil,
	})

	assertHTTPError(t, err, 400, "at least one item required")
	// 何も書かれていない
	assert.Equal(t, 0, tm.calls)
}

func TestCreateOrder_MissingBuyerFields(t *testing.T) {
	uc, tm, _, _, _ := newOrderFixture()

	_, err := uc.CreateOrder(context.Background(), CreateOrderInput{
		FullName: "   ",
		Email:    "taro@example.com",
		Items:    []CartItemInput{{ProductID: float64(1), Quantity: float64(1)}},
	})

	assertHTTPError(t, err, 400, "full_name and email are required")
	assert.Equal(t, 0, tm.calls)
}

func TestCreateOrder_MalformedProductID(t *testing.T) {
	uc, _, orders, _, _ := newOrderFixture()

	_, err := uc.CreateOrder(context.Background(), CreateOrderInput{
		FullName: "Taro Yamada",
		Email:    "taro@example.com",
		Items:    []CartItemInput{{ProductID: "abc", Quantity: float64(1)}},
	})

	assertHTTPError(t, err, 400, "item 1: invalid product_id")
	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateOrder_MalformedQuantity(t *testing.T) {
	uc, _, orders, _, _ := newOrderFixture()

	_, err := uc.CreateOrder(context.Background(), CreateOrderInput{
		FullName: "Taro Yamada",
		Email:    "taro@example.com",
		Items:    []CartItemInput{{ProductID: float64(1), Quantity: "x"}},
	})

	assertHTTPError(t, err, 400, "item 1: invalid quantity")
	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateOrder_ZeroQuantity(t *testing.T) {
	uc, _, orders, _, _ := newOrderFixture()

	_, err := uc.CreateOrder(context.Background(), CreateOrderInput{
		FullName: "Taro Yamada",
		Email:    "taro@example.com",
		Items:    []CartItemInput{{ProductID: float64(1), Quantity: float64(0)}},
	})

	assertHTTPError(t, err, 400, "quantity must be at least 1")
	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateOrder_ProductNotFound_NoPartialWrite(t *testing.T) {
	uc, _, orders, orderItems, products := newOrderFixture()

	products.On("FindByID", mock.Anything, int64(999)).Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.CreateOrder(context.Background(), CreateOrderInput{
		FullName: "Taro Yamada",
		Email:    "taro@example.com",
		Items:    []CartItemInput{{ProductID: float64(999), Quantity: float64(1)}},
	})

	assertHTTPError(t, err, 404, "product 999 not found")
	// 注文も明細も一切作られない
	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	orderItems.AssertNotCalled(t, "CreateBulk", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateOrder_SecondItemMissing_AbortsWholeOrder(t *testing.T) {
	uc, _, orders, orderItems, products := newOrderFixture()

	products.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, Name: "Bananas (1kg)", Price: dec("1.49")}, nil)
	products.On("FindByID", mock.Anything, int64(999)).Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.CreateOrder(context.Background(), CreateOrderInput{
		FullName: "Taro Yamada",
		Email:    "taro@example.com",
		Items: []CartItemInput{
			{ProductID: float64(1), Quantity: float64(1)},
			{ProductID: float64(999), Quantity: float64(1)},
		},
	})

	assertHTTPError(t, err, 404, "product 999 not found")
	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	orderItems.AssertNotCalled(t, "CreateBulk", mock.Anything, mock.Anything, mock.Anything)
}

// カート [{product_id:1, quantity:2}] 価格1.49 → subtotal/total 2.98
func TestCreateOrder_Success_TotalsFromSnapshotPrice(t *testing.T) {
	uc, _, orders, orderItems, products := newOrderFixture()
	ctx := context.Background()

	products.On("FindByID", mock.Anything, int64(1)).
		Return(model.Product{ID: 1, Name: "Bananas (1kg)", Price: dec("1.49"), Stock: 30}, nil)

	orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.Subtotal.Equal(dec("2.98")) &&
			o.Total.Equal(dec("2.98")) &&
			o.FullName == "Taro Yamada" &&
			o.Email == "taro@example.com"
	})).Return(int64(10), nil)

	orderItems.On("CreateBulk", mock.Anything, int64(10), mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 1 &&
			items[0].ProductID == 1 &&
			items[0].Quantity == 2 &&
			items[0].Price.Equal(dec("1.49"))
	})).Return(nil)

	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	orders.On("FindByID", mock.Anything, int64(10)).Return(model.Order{
		ID:        10,
		FullName:  "Taro Yamada",
		Email:     "taro@example.com",
		Subtotal:  dec("2.98"),
		Total:     dec("2.98"),
		CreatedAt: createdAt,
	}, nil)
	orderItems.On("ListByOrderID", mock.Anything, int64(10)).Return([]repo.OrderItemRow{
		{ID: 100, OrderID: 10, ProductID: 1, ProductName: "Bananas (1kg)", Quantity: 2, Price: dec("1.49")},
	}, nil)

	out, err := uc.CreateOrder(ctx, CreateOrderInput{
		FullName: "Taro Yamada",
		Email:    "taro@example.com",
		Items:    []CartItemInput{{ProductID: float64(1), Quantity: float64(2)}},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(10), out.ID)
	assert.True(t, out.Subtotal.Equal(dec("2.98")), "subtotal = %s", out.Subtotal)
	assert.True(t, out.Total.Equal(dec("2.98")), "total = %s", out.Total)
	require.Len(t, out.Items, 1)
	assert.True(t, out.Items[0].Price.Equal(dec("1.49")))
	assert.Equal(t, int64(2), out.Items[0].Quantity)
	assert.True(t, out.Items[0].LineTotal.Equal(dec("2.98")))

	orders.AssertExpectations(t)
	orderItems.AssertExpectations(t)
	products.AssertExpectations(t)
}

// product_id/quantityが文字列で来ても通す
func TestCreateOrder_StringNumbersAccepted(t *testing.T) {
	uc, _, orders, orderItems, products := newOrderFixture()

	products.On("FindByID", mock.Anything, int64(2)).
		Return(model.Product{ID: 2, Name: "Milk 1L", Price: dec("0.99")}, nil)
	orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.Subtotal.Equal(dec("2.97"))
	})).Return(int64(11), nil)
	orderItems.On("CreateBulk", mock.Anything, int64(11), mock.Anything).Return(nil)
	orders.On("FindByID", mock.Anything, int64(11)).Return(model.Order{ID: 11, Subtotal: dec("2.97"), Total: dec("2.97")}, nil)
	orderItems.On("ListByOrderID", mock.Anything, int64(11)).Return([]repo.OrderItemRow{
		{ID: 101, OrderID: 11, ProductID: 2, ProductName: "Milk 1L", Quantity: 3, Price: dec("0.99")},
	}, nil)

	out, err := uc.CreateOrder(context.Background(), CreateOrderInput{
		FullName: "Hanako Sato",
		Email:    "hanako@example.com",
		Items:    []CartItemInput{{ProductID: "2", Quantity: "3"}},
	})

	require.NoError(t, err)
	assert.True(t, out.Subtotal.Equal(dec("2.97")))
}

// 複数明細の合計
func TestCreateOrder_MultipleItems_SubtotalIsSumOfLineTotals(t *testing.T) {
	uc, _, orders, orderItems, products := newOrderFixture()

	products.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, Price: dec("1.49")}, nil)
	products.On("FindByID", mock.Anything, int64(2)).Return(model.Product{ID: 2, Price: dec("0.99")}, nil)

	// 1.49*2 + 0.99*1 = 3.97
	orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.Subtotal.Equal(dec("3.97")) && o.Total.Equal(o.Subtotal)
	})).Return(int64(12), nil)
	orderItems.On("CreateBulk", mock.Anything, int64(12), mock.MatchedBy(func(items []model.OrderItem) bool {
		//入力順が保たれる
		return len(items) == 2 && items[0].ProductID == 1 && items[1].ProductID == 2
	})).Return(nil)
	orders.On("FindByID", mock.Anything, int64(12)).Return(model.Order{ID: 12, Subtotal: dec("3.97"), Total: dec("3.97")}, nil)
	orderItems.On("ListByOrderID", mock.Anything, int64(12)).Return([]repo.OrderItemRow{}, nil)

	_, err := uc.CreateOrder(context.Background(), CreateOrderInput{
		FullName: "Taro Yamada",
		Email:    "taro@example.com",
		Items: []CartItemInput{
			{ProductID: float64(1), Quantity: float64(2)},
			{ProductID: float64(2), Quantity: float64(1)},
		},
	})

	require.NoError(t, err)
	orders.AssertExpectations(t)
	orderItems.AssertExpectations(t)
}

// 明細insertで落ちたら500で返し、fnのエラーがそのままTxに伝わる（＝ロールバック）
func TestCreateOrder_ItemInsertFailure_RollsBack(t *testing.T) {
	uc, _, orders, orderItems, products := newOrderFixture()

	products.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, Price: dec("1.49")}, nil)
	orders.On("Create", mock.Anything, mock.Anything).Return(int64(13), nil)
	orderItems.On("CreateBulk", mock.Anything, int64(13), mock.Anything).Return(errors.New("connection reset"))

	_, err := uc.CreateOrder(context.Background(), CreateOrderInput{
		FullName: "Taro Yamada",
		Email:    "taro@example.com",
		Items:    []CartItemInput{{ProductID: float64(1), Quantity: float64(1)}},
	})

	// 内部事情は漏らさない
	assertHTTPError(t, err, 500, "db error")
}

// =====================
// GetOrder / ListOrders
// =====================

func TestGetOrder_NotFound(t *testing.T) {
	uc, _, orders, _, _ := newOrderFixture()

	orders.On("FindByID", mock.Anything, int64(99)).Return(model.Order{}, repo.ErrNotFound)

	_, err := uc.GetOrder(context.Background(), 99)
	assertHTTPError(t, err, 404, "order not found")
}

// 商品価格を後から変えても、返ってくる明細価格は凍結値のまま
func TestGetOrder_PriceStaysFrozenAfterProductEdit(t *testing.T) {
	uc, _, orders, orderItems, _ := newOrderFixture()

	orders.On("FindByID", mock.Anything, int64(10)).Return(model.Order{
		ID: 10, Subtotal: dec("2.98"), Total: dec("2.98"),
	}, nil)
	// 商品テーブル上の価格は9.99に変わった想定だが、明細rowは1.49を持っている
	orderItems.On("ListByOrderID", mock.Anything, int64(10)).Return([]repo.OrderItemRow{
		{ID: 100, OrderID: 10, ProductID: 1, ProductName: "Bananas (1kg)", Quantity: 2, Price: dec("1.49")},
	}, nil)

	out, err := uc.GetOrder(context.Background(), 10)

	require.NoError(t, err)
	assert.True(t, out.Subtotal.Equal(dec("2.98")))
	require.Len(t, out.Items, 1)
	assert.True(t, out.Items[0].Price.Equal(dec("1.49")))
	assert.True(t, out.Items[0].LineTotal.Equal(dec("2.98")))
}

func TestListOrders_FilterByUser(t *testing.T) {
	uc, _, orders, orderItems, _ := newOrderFixture()

	userID := int64(7)
	orders.On("List", mock.Anything, &userID).Return([]model.Order{
		{ID: 2, Subtotal: dec("5.00"), Total: dec("5.00")},
		{ID: 1, Subtotal: dec("3.00"), Total: dec("3.00")},
	}, nil)
	orderItems.On("ListByOrderID", mock.Anything, int64(2)).Return([]repo.OrderItemRow{}, nil)
	orderItems.On("ListByOrderID", mock.Anything, int64(1)).Return([]repo.OrderItemRow{}, nil)

	out, err := uc.ListOrders(context.Background(), &userID)

	require.NoError(t, err)
	require.Len(t, out, 2)
	// repoが返した順（新しい順）を崩さない
	assert.Equal(t, int64(2), out[0].ID)
	assert.Equal(t, int64(1), out[1].ID)
	orders.AssertExpectations(t)
}

func TestListOrders_All(t *testing.T) {
	uc, _, orders, _, _ := newOrderFixture()

	orders.On("List", mock.Anything, (*int64)(nil)).Return([]model.Order{}, nil)

	out, err := uc.ListOrders(context.Background(), nil)

	require.NoError(t, err)
	assert.Len(t, out, 0)
}
