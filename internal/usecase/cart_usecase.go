package usecase

import (
	"context"
	"net/http"

	"bookmarket/internal/domain/model"
	repo "bookmarket/internal/repository"
	"bookmarket/internal/session"

	"github.com/shopspring/decimal"
)

// CartUsecase は /cart の業務ロジック。
// カートはDBに置かず、session.CartStoreの本IDだけを持つ。
type CartUsecase struct {
	bookRepo repo.BookRepository
	carts    *session.CartStore
}

func NewCartUsecase(bookRepo repo.BookRepository, carts *session.CartStore) *CartUsecase {
	return &CartUsecase{bookRepo: bookRepo, carts: carts}
}

type CartResponse struct {
	Books []model.Book    `json:"books"`
	Total decimal.Decimal `json:"total"` // チェックアウト前の目安（確定額は注文側で導出する）
	Count int             `json:"count"`
}

type AddToCartResult struct {
	Added   bool   `json:"added"`
	Warning string `json:"warning,omitempty"`
	Count   int    `json:"count"`
}

// View はカートの中身（本とおおよその合計）を返す。
func (u *CartUsecase) View(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	ids := u.carts.IDs(userID)
	if len(ids) == 0 {
		return CartResponse{Books: []model.Book{}, Total: decimal.Zero.Round(2)}, nil
	}

	books, err := u.bookRepo.FindByIDs(ctx, ids)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	total := decimal.Zero
	for _, b := range books {
		total = total.Add(b.Price)
	}

	return CartResponse{
		Books: books,
		Total: total.Round(2),
		Count: len(ids),
	}, nil
}

// Add はカートに本を入れる。
// 既に売れた本は拒否（警告のみ、状態は変えない）。重複もno-op。
func (u *CartUsecase) Add(ctx context.Context, userID int64, bookID int64) (AddToCartResult, error) {
	if userID <= 0 {
		return AddToCartResult{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if bookID <= 0 {
		return AddToCartResult{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	b, err := u.bookRepo.FindByID(ctx, bookID)
	if err == repo.ErrNotFound {
		return AddToCartResult{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return AddToCartResult{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if !b.IsAvailable {
		return AddToCartResult{
			Added:   false,
			Warning: "this book has already been purchased by another user",
			Count:   u.carts.Count(userID),
		}, nil
	}

	added := u.carts.Add(userID, bookID)
	res := AddToCartResult{Added: added, Count: u.carts.Count(userID)}
	if !added {
		res.Warning = "book is already in the cart"
	}
	return res, nil
}

// Remove はカートから本を外す。無ければno-op。
func (u *CartUsecase) Remove(ctx context.Context, userID int64, bookID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if bookID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	u.carts.Remove(userID, bookID)
	return u.View(ctx, userID)
}
