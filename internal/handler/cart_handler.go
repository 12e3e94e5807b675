package handler

import (
	"net/http"
	"strconv"

	"bookmarket/internal/config"
	"bookmarket/internal/middleware"
	"bookmarket/internal/session"
	"bookmarket/internal/usecase"

	"github.com/labstack/echo/v4"
)

// カートとチェックアウトのHTTP。
type CartHandler struct {
	cart     *usecase.CartUsecase
	checkout *usecase.CheckoutUsecase
	carts    *session.CartStore
}

func NewCartHandler(cart *usecase.CartUsecase, checkout *usecase.CheckoutUsecase, carts *session.CartStore) *CartHandler {
	return &CartHandler{cart: cart, checkout: checkout, carts: carts}
}

type CheckoutRequest struct {
	FullName string `json:"full_name" form:"full_name" validate:"required"`
	Phone    string `json:"phone" form:"phone" validate:"required"`
	Address  string `json:"address" form:"address" validate:"required"`
	Email    string `json:"email" form:"email" validate:"omitempty,email"`
	Comment  string `json:"comment" form:"comment"`
}

func (h *CartHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	auth := middleware.AuthJWT(cfg)

	e.POST("/add_to_cart/:id", h.add, auth)
	e.GET("/cart", h.view, auth)
	e.POST("/cart/remove/:id", h.remove, auth)
	e.GET("/cart/checkout", h.view, auth) // フォーム表示＝カートの中身
	e.POST("/cart/checkout", h.checkoutPost, auth)
}

func (h *CartHandler) add(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.cart.Add(c.Request().Context(), userID, id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) view(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.cart.View(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) remove(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.cart.Remove(c.Request().Context(), userID, id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) checkoutPost(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "full name, phone and address are required"})
	}

	// usecaseにはカートのスナップショットを渡す
	ids := h.carts.IDs(userID)

	out, err := h.checkout.PlaceOrder(c.Request().Context(), userID, usecase.PlaceOrderInput{
		BookIDs:  ids,
		FullName: req.FullName,
		Phone:    req.Phone,
		Address:  req.Address,
		Email:    req.Email,
		Comment:  req.Comment,
	})
	if err != nil {
		// 失敗時はカートをそのまま残す
		return writeError(c, err)
	}

	// コミットできたときだけカートを空にする
	h.carts.Clear(userID)

	return c.JSON(http.StatusCreated, out)
}
