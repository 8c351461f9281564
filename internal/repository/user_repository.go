package repository

import (
	"context"
	"errors"

	"freshmart/internal/domain/model"
)

// email重複を統一
var ErrEmailTaken = errors.New("email already taken")

// 保存・取得を約束
type UserRepository interface {
	// 新規ユーザー作成。email重複は ErrEmailTaken を返す。
	Create(ctx context.Context, user *model.User) error
	// メールからユーザーを1件取得する。見つからなければ (nil, nil)。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// IDからユーザーを1件取得する。見つからなければ (nil, nil)。
	FindByID(ctx context.Context, userID int64) (*model.User, error)
}
