package usecase

import (
	"context"
	"net/http"
	"strings"

	"bookmarket/internal/domain/model"
	repo "bookmarket/internal/repository"
)

// AdminUsecase は管理画面（ユーザー状態・注文状態・ダッシュボード）。
// 認可はミドルウェアのAdminRoleGuardが済ませている前提。
type AdminUsecase struct {
	tx repo.TransactionManager
}

func NewAdminUsecase(tx repo.TransactionManager) *AdminUsecase {
	return &AdminUsecase{tx: tx}
}

type DashboardOutput struct {
	Users  []model.User  `json:"users"`
	Books  []model.Book  `json:"books"`
	Orders []OrderOutput `json:"orders"`
}

func (u *AdminUsecase) Dashboard(ctx context.Context) (DashboardOutput, error) {
	var out DashboardOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		users, err := r.Users().ListAll(ctx)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		books, err := r.Books().ListAll(ctx)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		orders, err := r.Orders().ListAll(ctx)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs := make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}

		out = DashboardOutput{Users: users, Books: books, Orders: outs}
		return nil
	})
	if err != nil {
		return DashboardOutput{}, err
	}
	return out, nil
}

// SetUserStatus はユーザーの状態変更（active/banned/pending）。
func (u *AdminUsecase) SetUserStatus(ctx context.Context, userID int64, status string) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	s := model.UserStatus(strings.TrimSpace(status))
	switch s {
	case model.UserStatusActive, model.UserStatusBanned, model.UserStatusPending:
	default:
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Users().UpdateStatus(ctx, userID, s); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

// SetOrderStatus は管理者による直接のステータス変更。
// 遷移グラフの強制はしない（列挙値チェックのみ）。終端ガードも管理者は通る。
// ただし在庫フラグの整合は守る：
//   - cancelled へ入るとき … 明細の本を全部カタログへ戻す
//   - cancelled から出るとき … 明細の本を再び販売済みにする
func (u *AdminUsecase) SetOrderStatus(ctx context.Context, orderID int64, status string) error {
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	raw := strings.TrimSpace(status)
	if !model.ValidOrderStatus(raw) {
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	newStatus := model.OrderStatus(raw)

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// 同じ値なら何もしない
		if o.Status == newStatus {
			return nil
		}

		enteringCancelled := newStatus == model.OrderStatusCancelled
		leavingCancelled := o.Status == model.OrderStatusCancelled

		if enteringCancelled || leavingCancelled {
			items, err := r.OrderItems().ListByOrderID(ctx, orderID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			for _, it := range items {
				err := r.Books().SetAvailability(ctx, it.BookID, enteringCancelled)
				if err != nil && err != repo.ErrNotFound {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
			}
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, newStatus); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}
