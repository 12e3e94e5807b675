package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"bookmarket/internal/domain/model"
	repo "bookmarket/internal/repository"

	"github.com/shopspring/decimal"
)

// CheckoutUsecase はカート→注文の変換（Order Builder）。
type CheckoutUsecase struct {
	tx repo.TransactionManager
}

func NewCheckoutUsecase(tx repo.TransactionManager) *CheckoutUsecase {
	return &CheckoutUsecase{tx: tx}
}

// BookIDs はhandlerがCartStoreから取ったスナップショット。
// usecaseはストア自体には触らない（成功時のクリアはhandler側）。
type PlaceOrderInput struct {
	BookIDs  []int64
	FullName string
	Phone    string
	Address  string
	Email    string
	Comment  string
}

type OrderItemOutput struct {
	ID          int64           `json:"id"`
	BookID      int64           `json:"book_id"`
	PriceAtTime decimal.Decimal `json:"price_at_time"`
	Quantity    int64           `json:"quantity"`
}

type OrderOutput struct {
	ID        int64             `json:"id"`
	UserID    int64             `json:"user_id"`
	Status    string            `json:"status"`
	Total     decimal.Decimal   `json:"total"`
	FullName  string            `json:"full_name"`
	Phone     string            `json:"phone"`
	Email     string            `json:"email"`
	Address   string            `json:"address"`
	Comment   string            `json:"comment"`
	CreatedAt time.Time         `json:"created_at"`
	Items     []OrderItemOutput `json:"items"`
}

// PlaceOrder はチェックアウト本体。全部成功か、全部なしか。
//  1. カートの本を引き直して存在と購入可否を再確認
//  2. status=new の注文を作成
//  3. 明細に price_at_time をスナップショット（数量は常に1）
//  4. 合計を明細から合算
//  5. 各本を is_available=false に
//
// 全てひとつのトランザクションの中で行う。
func (u *CheckoutUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if len(in.BookIDs) == 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "cart is empty")
	}

	fullName := strings.TrimSpace(in.FullName)
	phone := strings.TrimSpace(in.Phone)
	address := strings.TrimSpace(in.Address)
	if fullName == "" || phone == "" || address == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "full name, phone and address are required")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		books, err := r.Books().FindByIDs(ctx, in.BookIDs)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(books) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart is empty")
		}

		// カート投入後に売れてしまった本はここで弾く。
		// 1出品＝現物1冊なので、見逃すと同じ本を二人に売ることになる。
		for _, b := range books {
			if !b.IsAvailable {
				return NewHTTPError(http.StatusConflict, "no longer available: "+b.Title)
			}
		}

		total := decimal.Zero
		items := make([]model.OrderItem, 0, len(books))
		for _, b := range books {
			items = append(items, model.OrderItem{
				BookID:      b.ID,
				PriceAtTime: b.Price,
				Quantity:    1,
			})
			total = total.Add(b.Price)
		}

		orderID, err := r.Orders().Create(ctx, model.Order{
			UserID:   userID,
			Total:    total.Round(2),
			Status:   model.OrderStatusNew,
			FullName: fullName,
			Phone:    phone,
			Email:    strings.TrimSpace(in.Email),
			Address:  address,
			Comment:  strings.TrimSpace(in.Comment),
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, items); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// 購入された本はカタログから消す
		for _, b := range books {
			if err := r.Books().SetAvailability(ctx, b.ID, false); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		created, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, created)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ID:          it.ID,
			BookID:      it.BookID,
			PriceAtTime: it.PriceAtTime,
			Quantity:    it.Quantity,
		})
	}

	return OrderOutput{
		ID:        o.ID,
		UserID:    o.UserID,
		Status:    string(o.Status),
		Total:     o.Total,
		FullName:  o.FullName,
		Phone:     o.Phone,
		Email:     o.Email,
		Address:   o.Address,
		Comment:   o.Comment,
		CreatedAt: o.CreatedAt,
		Items:     outItems,
	}
}
