package usecase

import (
	"context"
	"net/http"
	"strings"

	"bookmarket/internal/domain/model"
	repo "bookmarket/internal/repository"

	"github.com/shopspring/decimal"
)

// OrderUsecase は注文のライフサイクル（編集・キャンセル・削除）。
// どの操作も「注文の持ち主か管理者」だけに許す。
type OrderUsecase struct {
	tx repo.TransactionManager
}

func NewOrderUsecase(tx repo.TransactionManager) *OrderUsecase {
	return &OrderUsecase{tx: tx}
}

type EditOrderInput struct {
	FullName string
	Phone    string
	Address  string
	Email    string
	Comment  string

	// 残す本のID。ここに無い既存明細は削除される。
	// 明細の追加はできない。
	KeepBookIDs []int64
}

type CancelResult struct {
	Cancelled bool   `json:"cancelled"`
	Warning   string `json:"warning,omitempty"`
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListByUserID(ctx, userID)
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

// 編集フォーム用の注文詳細。
func (u *OrderUsecase) GetOrderForEdit(ctx context.Context, userID int64, role model.Role, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := loadManagedOrder(ctx, r, userID, role, orderID)
		if err != nil {
			return err
		}
		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = toOrderOutput(o, items)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// EditOrder は配送先の更新と明細の間引き。終端になった注文は編集不可。
// 間引いた本はカタログへ戻し、合計は必ず明細から再計算する。
func (u *OrderUsecase) EditOrder(ctx context.Context, userID int64, role model.Role, orderID int64, in EditOrderInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	fullName := strings.TrimSpace(in.FullName)
	phone := strings.TrimSpace(in.Phone)
	address := strings.TrimSpace(in.Address)
	if fullName == "" || phone == "" || address == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "full name, phone and address are required")
	}

	keep := make(map[int64]bool, len(in.KeepBookIDs))
	for _, id := range in.KeepBookIDs {
		keep[id] = true
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := loadManagedOrder(ctx, r, userID, role, orderID)
		if err != nil {
			return err
		}
		if o.Status.Terminal() {
			return NewHTTPError(http.StatusConflict, "order can no longer be edited")
		}

		o.FullName = fullName
		o.Phone = phone
		o.Address = address
		o.Email = strings.TrimSpace(in.Email)
		o.Comment = strings.TrimSpace(in.Comment)
		if err := r.Orders().UpdateShipping(ctx, o); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// 「残す」に入っていない明細を消して、その本は戻す
		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		for _, it := range items {
			if keep[it.BookID] {
				continue
			}
			if err := restockBook(ctx, r, it.BookID); err != nil {
				return err
			}
			if err := r.OrderItems().DeleteByID(ctx, it.ID); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		total, err := recalcTotal(ctx, r, orderID)
		if err != nil {
			return err
		}
		o.Total = total

		// 全部間引かれたら空注文は残せないのでキャンセルにする
		n, err := r.OrderItems().CountByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if n == 0 {
			if err := r.Orders().UpdateStatus(ctx, orderID, model.OrderStatusCancelled); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			o.Status = model.OrderStatusCancelled
		}

		remaining, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = toOrderOutput(o, remaining)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// CancelOrder は全明細の本を戻してstatusをcancelledにする。
// 既に終端なら何もしない（警告だけ返す、エラーではない）。
func (u *OrderUsecase) CancelOrder(ctx context.Context, userID int64, role model.Role, orderID int64) (CancelResult, error) {
	if userID <= 0 {
		return CancelResult{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return CancelResult{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var res CancelResult
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := loadManagedOrder(ctx, r, userID, role, orderID)
		if err != nil {
			return err
		}

		if o.Status.Terminal() {
			res = CancelResult{Cancelled: false, Warning: "this order can no longer be cancelled"}
			return nil
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		for _, it := range items {
			if err := restockBook(ctx, r, it.BookID); err != nil {
				return err
			}
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, model.OrderStatusCancelled); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		res = CancelResult{Cancelled: true}
		return nil
	})
	if err != nil {
		return CancelResult{}, err
	}
	return res, nil
}

// DeleteItem は明細1件の削除。
// 本を戻す → 明細を消す → 合計再計算。明細が無くなったら注文はキャンセル。
func (u *OrderUsecase) DeleteItem(ctx context.Context, userID int64, role model.Role, orderID int64, itemID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 || itemID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := loadManagedOrder(ctx, r, userID, role, orderID)
		if err != nil {
			return err
		}
		if o.Status.Terminal() {
			return NewHTTPError(http.StatusConflict, "order can no longer be edited")
		}

		it, err := r.OrderItems().FindByID(ctx, orderID, itemID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := restockBook(ctx, r, it.BookID); err != nil {
			return err
		}
		if err := r.OrderItems().DeleteByID(ctx, it.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		total, err := recalcTotal(ctx, r, orderID)
		if err != nil {
			return err
		}
		o.Total = total

		n, err := r.OrderItems().CountByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if n == 0 {
			if err := r.Orders().UpdateStatus(ctx, orderID, model.OrderStatusCancelled); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			o.Status = model.OrderStatusCancelled
		}

		remaining, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = toOrderOutput(o, remaining)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// DeleteOrder は注文ごと消す。消す前に全明細の本を戻す。
func (u *OrderUsecase) DeleteOrder(ctx context.Context, userID int64, role model.Role, orderID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := loadManagedOrder(ctx, r, userID, role, orderID); err != nil {
			return err
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		for _, it := range items {
			if err := restockBook(ctx, r, it.BookID); err != nil {
				return err
			}
		}

		if err := r.Orders().Delete(ctx, orderID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

// 注文を引いて、持ち主か管理者だけを通す共通ガード。
func loadManagedOrder(ctx context.Context, r repo.TxRepos, userID int64, role model.Role, orderID int64) (model.Order, error) {
	o, err := r.Orders().FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if o.UserID != userID && role != model.RoleAdmin {
		return model.Order{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}
	return o, nil
}

// 合計をDBの明細から再計算して上書きする。
func recalcTotal(ctx context.Context, r repo.TxRepos, orderID int64) (decimal.Decimal, error) {
	total, err := r.OrderItems().SumTotal(ctx, orderID)
	if err != nil {
		return decimal.Zero, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if err := r.Orders().UpdateTotal(ctx, orderID, total); err != nil {
		return decimal.Zero, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return total, nil
}

// 本をカタログへ戻す。明細が既に消えた本を指していても気にしない。
func restockBook(ctx context.Context, r repo.TxRepos, bookID int64) error {
	err := r.Books().SetAvailability(ctx, bookID, true)
	if err != nil && err != repo.ErrNotFound {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
