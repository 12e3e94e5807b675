package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"bookmarket/internal/domain/model"
	repo "bookmarket/internal/repository"
	"bookmarket/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newAdminFixture() (*usecase.AdminUsecase, *TxManagerMock, *BookRepoMock, *OrderRepoMock, *OrderItemRepoMock, *UserRepoMock) {
	books := new(BookRepoMock)
	orders := new(OrderRepoMock)
	items := new(OrderItemRepoMock)
	users := new(UserRepoMock)

	tx := &TxManagerMock{Repos: &TxReposMock{
		books:      books,
		orders:     orders,
		orderItems: items,
		users:      users,
	}}
	tx.On("WithinTx", mock.Anything).Return(nil).Maybe()

	return usecase.NewAdminUsecase(tx), tx, books, orders, items, users
}

func TestSetUserStatus_InvalidValue(t *testing.T) {
	uc, tx, _, _, _, _ := newAdminFixture()

	err := uc.SetUserStatus(context.Background(), 3, "frozen")

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	tx.AssertNotCalled(t, "WithinTx", mock.Anything)
}

func TestSetUserStatus_Banned(t *testing.T) {
	uc, _, _, _, _, users := newAdminFixture()

	users.On("UpdateStatus", mock.Anything, int64(3), model.UserStatusBanned).Return(nil)

	err := uc.SetUserStatus(context.Background(), 3, "banned")

	assert.NoError(t, err)
	users.AssertExpectations(t)
}

func TestSetUserStatus_UserMissing(t *testing.T) {
	uc, _, _, _, _, users := newAdminFixture()

	users.On("UpdateStatus", mock.Anything, int64(3), model.UserStatusActive).Return(repo.ErrNotFound)

	err := uc.SetUserStatus(context.Background(), 3, "active")

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
}

func TestSetOrderStatus_InvalidValue(t *testing.T) {
	uc, tx, _, _, _, _ := newAdminFixture()

	err := uc.SetOrderStatus(context.Background(), 5, "shipped")

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	tx.AssertNotCalled(t, "WithinTx", mock.Anything)
}

func TestSetOrderStatus_EnteringCancelledRestocks(t *testing.T) {
	uc, _, books, orders, items, _ := newAdminFixture()

	orders.On("FindByID", mock.Anything, int64(5)).Return(model.Order{
		ID: 5, Status: model.OrderStatusProcessing,
	}, nil)
	items.On("ListByOrderID", mock.Anything, int64(5)).Return([]model.OrderItem{
		{ID: 1, OrderID: 5, BookID: 11},
		{ID: 2, OrderID: 5, BookID: 12},
	}, nil)
	books.On("SetAvailability", mock.Anything, int64(11), true).Return(nil)
	books.On("SetAvailability", mock.Anything, int64(12), true).Return(nil)
	orders.On("UpdateStatus", mock.Anything, int64(5), model.OrderStatusCancelled).Return(nil)

	err := uc.SetOrderStatus(context.Background(), 5, "cancelled")

	assert.NoError(t, err)
	books.AssertExpectations(t)
	orders.AssertExpectations(t)
}

func TestSetOrderStatus_LeavingCancelledReservesBooks(t *testing.T) {
	uc, _, books, orders, items, _ := newAdminFixture()

	// キャンセル済みをnewに戻す＝本は再び販売済みに
	orders.On("FindByID", mock.Anything, int64(5)).Return(model.Order{
		ID: 5, Status: model.OrderStatusCancelled,
	}, nil)
	items.On("ListByOrderID", mock.Anything, int64(5)).Return([]model.OrderItem{
		{ID: 1, OrderID: 5, BookID: 11},
	}, nil)
	books.On("SetAvailability", mock.Anything, int64(11), false).Return(nil)
	orders.On("UpdateStatus", mock.Anything, int64(5), model.OrderStatusNew).Return(nil)

	err := uc.SetOrderStatus(context.Background(), 5, "new")

	assert.NoError(t, err)
	books.AssertExpectations(t)
}

func TestSetOrderStatus_SameValueIsNoop(t *testing.T) {
	uc, _, books, orders, _, _ := newAdminFixture()

	orders.On("FindByID", mock.Anything, int64(5)).Return(model.Order{
		ID: 5, Status: model.OrderStatusProcessing,
	}, nil)

	err := uc.SetOrderStatus(context.Background(), 5, "processing")

	assert.NoError(t, err)
	orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	books.AssertNotCalled(t, "SetAvailability", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetOrderStatus_PlainTransitionSkipsBooks(t *testing.T) {
	uc, _, books, orders, items, _ := newAdminFixture()

	// new → processing は在庫フラグに触らない
	orders.On("FindByID", mock.Anything, int64(5)).Return(model.Order{
		ID: 5, Status: model.OrderStatusNew,
	}, nil)
	orders.On("UpdateStatus", mock.Anything, int64(5), model.OrderStatusProcessing).Return(nil)

	err := uc.SetOrderStatus(context.Background(), 5, "processing")

	assert.NoError(t, err)
	items.AssertNotCalled(t, "ListByOrderID", mock.Anything, mock.Anything)
	books.AssertNotCalled(t, "SetAvailability", mock.Anything, mock.Anything, mock.Anything)
}

func TestDashboard_CollectsEverything(t *testing.T) {
	uc, _, books, orders, items, users := newAdminFixture()

	users.On("ListAll", mock.Anything).Return([]model.User{{ID: 1, Username: "admin"}}, nil)
	books.On("ListAll", mock.Anything).Return([]model.Book{{ID: 11, Title: "Solaris"}}, nil)
	orders.On("ListAll", mock.Anything).Return([]model.Order{
		{ID: 5, UserID: 7, Status: model.OrderStatusNew},
	}, nil)
	items.On("ListByOrderID", mock.Anything, int64(5)).Return([]model.OrderItem{
		{ID: 1, OrderID: 5, BookID: 11, Quantity: 1},
	}, nil)

	out, err := uc.Dashboard(context.Background())

	assert.NoError(t, err)
	assert.Len(t, out.Users, 1)
	assert.Len(t, out.Books, 1)
	assert.Len(t, out.Orders, 1)
	assert.Len(t, out.Orders[0].Items, 1)
}
