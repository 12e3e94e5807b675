package usecase

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"bookmarket/internal/domain/model"
	repo "bookmarket/internal/repository"

	"github.com/shopspring/decimal"
)

// BookUsecase は出品（本のCRUD）の業務ロジック。
type BookUsecase struct {
	tx repo.TransactionManager
}

func NewBookUsecase(tx repo.TransactionManager) *BookUsecase {
	return &BookUsecase{tx: tx}
}

// 出品フォーム。数値系は文字列で受けてここで検証する。
type BookFormInput struct {
	Title       string
	Author      string
	Description string
	YearRaw     string
	PriceRaw    string
	Condition   string
	CategoryID  string // selectで選んだ既存ジャンル
	NewCategory string // 入力された新ジャンル（こちらが優先）
	Cover       string // 保存済みの表紙ファイル名（無ければ空）
}

func (u *BookUsecase) ListMine(ctx context.Context, ownerID int64) ([]model.Book, error) {
	if ownerID <= 0 {
		return []model.Book{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var books []model.Book
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		books, err = r.Books().ListByOwnerID(ctx, ownerID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
	if err != nil {
		return []model.Book{}, err
	}
	return books, nil
}

func (u *BookUsecase) CreateBook(ctx context.Context, ownerID int64, in BookFormInput) (model.Book, error) {
	if ownerID <= 0 {
		return model.Book{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	fields, err := validateBookForm(in)
	if err != nil {
		return model.Book{}, err
	}

	var created model.Book
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		categoryID, err := resolveCategory(ctx, r, in)
		if err != nil {
			return err
		}

		b := model.Book{
			Title:       fields.title,
			Author:      fields.author,
			Year:        fields.year,
			Description: strings.TrimSpace(in.Description),
			Price:       fields.price,
			Cover:       in.Cover,
			Condition:   fields.condition,
			OwnerID:     ownerID,
			CategoryID:  categoryID,
			IsAvailable: true,
		}

		created, err = r.Books().Create(ctx, b)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
	if err != nil {
		return model.Book{}, err
	}
	return created, nil
}

// 編集は出品者本人だけ。
func (u *BookUsecase) UpdateBook(ctx context.Context, userID int64, bookID int64, in BookFormInput) (model.Book, error) {
	if userID <= 0 {
		return model.Book{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if bookID <= 0 {
		return model.Book{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	fields, err := validateBookForm(in)
	if err != nil {
		return model.Book{}, err
	}

	var updated model.Book
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		b, err := r.Books().FindByID(ctx, bookID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if b.OwnerID != userID {
			return NewHTTPError(http.StatusForbidden, "forbidden")
		}

		categoryID, err := resolveCategory(ctx, r, in)
		if err != nil {
			return err
		}

		b.Title = fields.title
		b.Author = fields.author
		b.Year = fields.year
		b.Description = strings.TrimSpace(in.Description)
		b.Price = fields.price
		b.Condition = fields.condition
		b.CategoryID = categoryID
		if in.Cover != "" {
			b.Cover = in.Cover
		}

		if err := r.Books().Update(ctx, b); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		updated = b
		return nil
	})
	if err != nil {
		return model.Book{}, err
	}
	return updated, nil
}

// 削除は出品者本人か管理者。
// キャンセル済み以外の注文から参照されている間は消せない
// （注文履歴はスナップショットが守るので、参照が歴史だけになれば消してよい）。
func (u *BookUsecase) DeleteBook(ctx context.Context, userID int64, role model.Role, bookID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if bookID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		b, err := r.Books().FindByID(ctx, bookID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if b.OwnerID != userID && role != model.RoleAdmin {
			return NewHTTPError(http.StatusForbidden, "forbidden")
		}

		n, err := r.OrderItems().CountActiveByBookID(ctx, bookID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if n > 0 {
			return NewHTTPError(http.StatusConflict, "book is referenced by an active order")
		}

		if err := r.Books().Delete(ctx, bookID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

type bookFormFields struct {
	title     string
	author    string
	year      *int
	price     decimal.Decimal
	condition model.BookCondition
}

func validateBookForm(in BookFormInput) (bookFormFields, error) {
	var f bookFormFields

	f.title = strings.TrimSpace(in.Title)
	f.author = strings.TrimSpace(in.Author)
	if f.title == "" || f.author == "" {
		return f, NewHTTPError(http.StatusBadRequest, "title and author are required")
	}

	// 年は任意。入っていたら数値であること。
	if s := strings.TrimSpace(in.YearRaw); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil {
			return f, NewHTTPError(http.StatusBadRequest, "year must be a number")
		}
		f.year = &y
	}

	price, ok := parsePriceBound(in.PriceRaw)
	if !ok || price.IsNegative() {
		return f, NewHTTPError(http.StatusBadRequest, "invalid price")
	}
	f.price = price.Round(2)

	switch model.BookCondition(in.Condition) {
	case model.BookConditionExcellent, model.BookConditionGood, model.BookConditionFair, model.BookConditionPoor:
		f.condition = model.BookCondition(in.Condition)
	case "":
		f.condition = model.BookConditionGood
	default:
		return f, NewHTTPError(http.StatusBadRequest, "invalid condition")
	}

	return f, nil
}

// 新ジャンル名が入っていたら、大文字小文字を無視して既存を探し、
// 無ければ作る。入っていなければselectのジャンルを使う。
func resolveCategory(ctx context.Context, r repo.TxRepos, in BookFormInput) (*int64, error) {
	if name := strings.TrimSpace(in.NewCategory); name != "" {
		cat, err := r.Categories().FindByNameFold(ctx, name)
		if err == repo.ErrNotFound {
			cat, err = r.Categories().Create(ctx, model.Category{Name: name})
			if err != nil {
				return nil, NewHTTPError(http.StatusInternalServerError, "db error")
			}
			return &cat.ID, nil
		}
		if err != nil {
			return nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return &cat.ID, nil
	}

	if s := strings.TrimSpace(in.CategoryID); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, NewHTTPError(http.StatusBadRequest, "invalid category_id")
		}
		cat, err := r.Categories().FindByID(ctx, id)
		if err == repo.ErrNotFound {
			// 消えたジャンルを指していたら「ジャンルなし」にする
			return nil, nil
		}
		if err != nil {
			return nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return &cat.ID, nil
	}

	return nil, nil
}
