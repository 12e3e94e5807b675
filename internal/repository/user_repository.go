package repository

import (
	"context"

	"bookmarket/internal/domain/model"
)

type UserRepository interface {
	Create(ctx context.Context, user model.User) (model.User, error)
	FindByID(ctx context.Context, userID int64) (model.User, error)
	FindByUsername(ctx context.Context, username string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)

	// 管理画面用（ID昇順）
	ListAll(ctx context.Context) ([]model.User, error)

	UpdateStatus(ctx context.Context, userID int64, status model.UserStatus) error
}
