package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"bookmarket/internal/domain/model"
	"bookmarket/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newCheckoutFixture() (*usecase.CheckoutUsecase, *TxManagerMock, *BookRepoMock, *OrderRepoMock, *OrderItemRepoMock) {
	books := new(BookRepoMock)
	orders := new(OrderRepoMock)
	items := new(OrderItemRepoMock)

	tx := &TxManagerMock{Repos: &TxReposMock{
		books:      books,
		orders:     orders,
		orderItems: items,
	}}
	tx.On("WithinTx", mock.Anything).Return(nil).Maybe()

	return usecase.NewCheckoutUsecase(tx), tx, books, orders, items
}

func validShipping() usecase.PlaceOrderInput {
	return usecase.PlaceOrderInput{
		FullName: "Ivan Petrov",
		Phone:    "+7 900 000-00-00",
		Address:  "Moscow, Tverskaya 1",
		Email:    "ivan@example.com",
	}
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	uc, tx, _, _, _ := newCheckoutFixture()

	in := validShipping()
	in.BookIDs = nil

	_, err := uc.PlaceOrder(context.Background(), 7, in)

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assertErrContains(t, err, "cart is empty")
	// トランザクションに入る前に弾く
	tx.AssertNotCalled(t, "WithinTx", mock.Anything)
}

func TestPlaceOrder_MissingShipping(t *testing.T) {
	uc, tx, _, _, _ := newCheckoutFixture()

	in := usecase.PlaceOrderInput{
		BookIDs:  []int64{1},
		FullName: "Ivan Petrov",
		Phone:    "   ", // 空白のみは未入力扱い
		Address:  "Moscow",
	}

	_, err := uc.PlaceOrder(context.Background(), 7, in)

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	tx.AssertNotCalled(t, "WithinTx", mock.Anything)
}

func TestPlaceOrder_Success(t *testing.T) {
	uc, _, books, orders, items := newCheckoutFixture()

	bookA := model.Book{ID: 1, Title: "Solaris", Price: mustDecimal(t, "5.00"), IsAvailable: true}
	bookB := model.Book{ID: 2, Title: "Roadside Picnic", Price: mustDecimal(t, "7.50"), IsAvailable: true}

	books.On("FindByIDs", mock.Anything, []int64{1, 2}).Return([]model.Book{bookA, bookB}, nil)

	orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.UserID == 7 &&
			o.Status == model.OrderStatusNew &&
			o.Total.Equal(mustDecimal(t, "12.50")) &&
			o.FullName == "Ivan Petrov"
	})).Return(int64(10), nil)

	items.On("CreateBulk", mock.Anything, int64(10), mock.MatchedBy(func(created []model.OrderItem) bool {
		if len(created) != 2 {
			return false
		}
		// 価格は注文時点の値を持ち、数量は常に1
		return created[0].BookID == 1 && created[0].PriceAtTime.Equal(bookA.Price) && created[0].Quantity == 1 &&
			created[1].BookID == 2 && created[1].PriceAtTime.Equal(bookB.Price) && created[1].Quantity == 1
	})).Return(nil)

	books.On("SetAvailability", mock.Anything, int64(1), false).Return(nil)
	books.On("SetAvailability", mock.Anything, int64(2), false).Return(nil)

	orders.On("FindByID", mock.Anything, int64(10)).Return(model.Order{
		ID:     10,
		UserID: 7,
		Status: model.OrderStatusNew,
		Total:  mustDecimal(t, "12.50"),
	}, nil)
	items.On("ListByOrderID", mock.Anything, int64(10)).Return([]model.OrderItem{
		{ID: 100, OrderID: 10, BookID: 1, PriceAtTime: bookA.Price, Quantity: 1},
		{ID: 101, OrderID: 10, BookID: 2, PriceAtTime: bookB.Price, Quantity: 1},
	}, nil)

	in := validShipping()
	in.BookIDs = []int64{1, 2}

	out, err := uc.PlaceOrder(context.Background(), 7, in)

	assert.NoError(t, err)
	assert.Equal(t, int64(10), out.ID)
	assert.Equal(t, string(model.OrderStatusNew), out.Status)
	assertDecimalEqual(t, "12.50", out.Total)
	assert.Len(t, out.Items, 2)

	books.AssertExpectations(t)
	orders.AssertExpectations(t)
	items.AssertExpectations(t)
}

func TestPlaceOrder_BookAlreadySold(t *testing.T) {
	uc, _, books, orders, items := newCheckoutFixture()

	sold := model.Book{ID: 3, Title: "Dune", Price: mustDecimal(t, "9.99"), IsAvailable: false}
	books.On("FindByIDs", mock.Anything, []int64{3}).Return([]model.Book{sold}, nil)

	in := validShipping()
	in.BookIDs = []int64{3}

	_, err := uc.PlaceOrder(context.Background(), 7, in)

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Status)
	assertErrContains(t, err, "Dune")

	// 注文も明細も作られない（全部成功か全部なし）
	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	items.AssertNotCalled(t, "CreateBulk", mock.Anything, mock.Anything, mock.Anything)
}

func TestPlaceOrder_BooksGoneFromCatalog(t *testing.T) {
	uc, _, books, orders, _ := newCheckoutFixture()

	// カートのIDが全部DBから消えているケース
	books.On("FindByIDs", mock.Anything, []int64{99}).Return([]model.Book{}, nil)

	in := validShipping()
	in.BookIDs = []int64{99}

	_, err := uc.PlaceOrder(context.Background(), 7, in)

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPlaceOrder_CreateBulkFails(t *testing.T) {
	uc, _, books, orders, items := newCheckoutFixture()

	bookA := model.Book{ID: 1, Title: "Solaris", Price: mustDecimal(t, "5.00"), IsAvailable: true}
	books.On("FindByIDs", mock.Anything, []int64{1}).Return([]model.Book{bookA}, nil)
	orders.On("Create", mock.Anything, mock.Anything).Return(int64(10), nil)
	items.On("CreateBulk", mock.Anything, int64(10), mock.Anything).Return(assert.AnError)

	in := validShipping()
	in.BookIDs = []int64{1}

	_, err := uc.PlaceOrder(context.Background(), 7, in)

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, he.Status)
	// 失敗したら在庫フラグには触らない（ロールバック前提）
	books.AssertNotCalled(t, "SetAvailability", mock.Anything, mock.Anything, mock.Anything)
}
