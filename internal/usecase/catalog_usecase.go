package usecase

import (
	"context"
	"net/http"
	"strings"

	"bookmarket/internal/domain/model"
	repo "bookmarket/internal/repository"

	"github.com/shopspring/decimal"
)

// CatalogUsecase は /books の公開カタログ。
type CatalogUsecase struct {
	bookRepo     repo.BookRepository
	categoryRepo repo.CategoryRepository
}

func NewCatalogUsecase(bookRepo repo.BookRepository, categoryRepo repo.CategoryRepository) *CatalogUsecase {
	return &CatalogUsecase{bookRepo: bookRepo, categoryRepo: categoryRepo}
}

// クエリパラメータそのまま。価格は文字列で受けて、ここで緩くパースする。
type CatalogFilterInput struct {
	Q        string
	GenreID  *int64
	Author   string
	MinPrice string
	MaxPrice string
}

type CatalogOutput struct {
	Books      []model.Book     `json:"books"`
	Categories []model.Category `json:"categories"`
}

// ListBooks は購入可能な本だけを、全フィルタのANDで新着順に返す。
func (u *CatalogUsecase) ListBooks(ctx context.Context, in CatalogFilterInput) (CatalogOutput, error) {
	q := repo.BookListQuery{
		Q:          strings.TrimSpace(in.Q),
		CategoryID: in.GenreID,
		Author:     strings.TrimSpace(in.Author),
	}

	// 価格の上下限は「パースできたときだけ」適用する。
	// 変な文字列が来てもエラーにしない（検索を寛容に保つ）。
	if d, ok := parsePriceBound(in.MinPrice); ok {
		q.MinPrice = &d
	}
	if d, ok := parsePriceBound(in.MaxPrice); ok {
		q.MaxPrice = &d
	}

	books, err := u.bookRepo.ListAvailable(ctx, q)
	if err != nil {
		return CatalogOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	categories, err := u.categoryRepo.ListOrdered(ctx)
	if err != nil {
		return CatalogOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return CatalogOutput{Books: books, Categories: categories}, nil
}

// GetBook は本の詳細。販売済みでも詳細ページ自体は見える。
func (u *CatalogUsecase) GetBook(ctx context.Context, bookID int64) (model.Book, error) {
	if bookID <= 0 {
		return model.Book{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	b, err := u.bookRepo.FindByID(ctx, bookID)
	if err == repo.ErrNotFound {
		return model.Book{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Book{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return b, nil
}

// カンマ小数もドットに直して受ける
func parsePriceBound(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, false
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
