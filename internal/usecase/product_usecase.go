package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"freshmart/internal/cache"
	"freshmart/internal/domain/model"
	repo "freshmart/internal/repository"

	"github.com/shopspring/decimal"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

const (
	productCacheTTL = 5 * time.Minute
	productListKey  = "products:all"
)

func productCacheKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}

type ProductUsecase struct {
	productRepo repo.ProductRepository
	cache       *cache.Client // nilでもよい（キャッシュ無効）
}

// DI
func NewProductUsecase(productRepo repo.ProductRepository, cacheClient *cache.Client) *ProductUsecase {
	return &ProductUsecase{
		productRepo: productRepo,
		cache:       cacheClient,
	}
}

func (u *ProductUsecase) ListProducts(ctx context.Context) ([]model.Product, error) {
	if b, _ := u.cache.Get(ctx, productListKey); b != nil {
		var cached []model.Product
		if err := json.Unmarshal(b, &cached); err == nil {
			return cached, nil
		}
	}

	items, err := u.productRepo.List(ctx)
	if err != nil {
		return []model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if b, err := json.Marshal(items); err == nil {
		_ = u.cache.Set(ctx, productListKey, b, productCacheTTL)
	}
	return items, nil
}

func (u *ProductUsecase) GetProduct(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	if b, _ := u.cache.Get(ctx, productCacheKey(productID)); b != nil {
		var cached model.Product
		if err := json.Unmarshal(b, &cached); err == nil {
			return cached, nil
		}
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if b, err := json.Marshal(p); err == nil {
		_ = u.cache.Set(ctx, productCacheKey(p.ID), b, productCacheTTL)
	}
	return p, nil
}

// 作成の入力。price/stock/discount/is_featuredはJSONの型が揺れるのでany受け。
type CreateProductInput struct {
	Name        string
	Price       interface{}
	Stock       interface{}
	Category    string
	Description string
	ImageURL    string
	Discount    interface{}
	IsFeatured  interface{}
}

func (u *ProductUsecase) CreateProduct(ctx context.Context, in CreateProductInput) (model.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "name is required")
	}

	price := decimal.Zero
	if in.Price != nil {
		v, err := coerceDecimal(in.Price)
		if err != nil {
			return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid price")
		}
		price = v
	}
	if price.IsNegative() {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}

	var stock int64
	if in.Stock != nil {
		v, err := coerceInt64(in.Stock)
		if err != nil {
			return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid stock")
		}
		stock = v
	}
	if stock < 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}

	discount := decimal.Zero
	if in.Discount != nil {
		v, err := coerceDecimal(in.Discount)
		if err != nil {
			return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid discount")
		}
		discount = v
	}
	if discount.IsNegative() {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "discount must be >= 0")
	}

	created, err := u.productRepo.Create(ctx, model.Product{
		Name:        name,
		Price:       price,
		Stock:       stock,
		Category:    strings.TrimSpace(in.Category),
		Description: in.Description,
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Discount:    discount,
		IsFeatured:  coerceTruthy(in.IsFeatured),
	})
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.invalidate(ctx, created.ID)
	return created, nil
}

// 部分更新の入力。nilのフィールドは現状維持。
type UpdateProductInput struct {
	Name        *string
	Price       interface{}
	Stock       interface{}
	Category    *string
	Description *string
	ImageURL    *string
	Discount    interface{}
	IsFeatured  interface{}
}

func (u *ProductUsecase) UpdateProduct(ctx context.Context, productID int64, in UpdateProductInput) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	current, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//指定されたものだけ上書き
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return model.Product{}, NewHTTPError(http.StatusBadRequest, "name is required")
		}
		current.Name = name
	}
	if in.Price != nil {
		v, err := coerceDecimal(in.Price)
		if err != nil {
			return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid price")
		}
		if v.IsNegative() {
			return model.Product{}, NewHTTPError(http.StatusBadRequest, "price must be >= 0")
		}
		current.Price = v
	}
	if in.Stock != nil {
		v, err := coerceInt64(in.Stock)
		if err != nil {
			return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid stock")
		}
		if v < 0 {
			return model.Product{}, NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
		}
		current.Stock = v
	}
	if in.Category != nil {
		current.Category = strings.TrimSpace(*in.Category)
	}
	if in.Description != nil {
		current.Description = *in.Description
	}
	if in.ImageURL != nil {
		current.ImageURL = strings.TrimSpace(*in.ImageURL)
	}
	if in.Discount != nil {
		v, err := coerceDecimal(in.Discount)
		if err != nil {
			return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid discount")
		}
		if v.IsNegative() {
			return model.Product{}, NewHTTPError(http.StatusBadRequest, "discount must be >= 0")
		}
		current.Discount = v
	}
	if in.IsFeatured != nil {
		current.IsFeatured = coerceTruthy(in.IsFeatured)
	}

	if err := u.productRepo.Update(ctx, current); err != nil {
		if err == repo.ErrNotFound {
			return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
		}
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.invalidate(ctx, productID)
	return current, nil
}

func (u *ProductUsecase) DeleteProduct(ctx context.Context, productID int64) error {
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	err := u.productRepo.Delete(ctx, productID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.invalidate(ctx, productID)
	return nil
}

func (u *ProductUsecase) invalidate(ctx context.Context, productID int64) {
	_ = u.cache.Delete(ctx, productCacheKey(productID), productListKey)
}
