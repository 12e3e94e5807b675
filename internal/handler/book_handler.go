package handler

import (
	"net/http"
	"strconv"

	"bookmarket/internal/config"
	"bookmarket/internal/middleware"
	"bookmarket/internal/upload"
	"bookmarket/internal/usecase"

	"github.com/labstack/echo/v4"
)

// カタログと出品CRUDのHTTP。
type BookHandler struct {
	catalog *usecase.CatalogUsecase
	books   *usecase.BookUsecase
	uploads *upload.Store
}

func NewBookHandler(catalog *usecase.CatalogUsecase, books *usecase.BookUsecase, uploads *upload.Store) *BookHandler {
	return &BookHandler{catalog: catalog, books: books, uploads: uploads}
}

func (h *BookHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	// 公開
	e.GET("/books", h.list)
	e.GET("/book/:id", h.detail)

	// 要ログイン
	auth := middleware.AuthJWT(cfg)
	e.GET("/my_books", h.myBooks, auth)
	e.POST("/book/new", h.create, auth)
	e.POST("/book/:id/edit", h.edit, auth)
	e.POST("/book/:id/delete", h.delete, auth)
}

// GET /books?q=&genre_id=&author=&min_price=&max_price=
func (h *BookHandler) list(c echo.Context) error {
	in := usecase.CatalogFilterInput{
		Q:        c.QueryParam("q"),
		Author:   c.QueryParam("author"),
		MinPrice: c.QueryParam("min_price"),
		MaxPrice: c.QueryParam("max_price"),
	}

	// genre_idは数値のときだけ適用（価格と同じく寛容に）
	if v := c.QueryParam("genre_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil && id > 0 {
			in.GenreID = &id
		}
	}

	out, err := h.catalog.ListBooks(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *BookHandler) detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	b, err := h.catalog.GetBook(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, b)
}

func (h *BookHandler) myBooks(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	books, err := h.books.ListMine(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *BookHandler) create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	in := h.parseBookForm(c)

	b, err := h.books.CreateBook(c.Request().Context(), userID, in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, b)
}

func (h *BookHandler) edit(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	in := h.parseBookForm(c)

	b, err := h.books.UpdateBook(c.Request().Context(), userID, id, in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, b)
}

func (h *BookHandler) delete(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.books.DeleteBook(c.Request().Context(), userID, getUserRoleFromContext(c), id); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "book deleted"})
}

// multipart/form-data の出品フォームを読む。
// 表紙は許可された拡張子のときだけ保存（それ以外は黙って無視）。
func (h *BookHandler) parseBookForm(c echo.Context) usecase.BookFormInput {
	in := usecase.BookFormInput{
		Title:       c.FormValue("title"),
		Author:      c.FormValue("author"),
		Description: c.FormValue("description"),
		YearRaw:     c.FormValue("year"),
		PriceRaw:    c.FormValue("price"),
		Condition:   c.FormValue("condition"),
		CategoryID:  c.FormValue("category_id"),
		NewCategory: c.FormValue("new_category"),
	}

	if fh, err := c.FormFile("photo"); err == nil && fh != nil && h.uploads.Allowed(fh.Filename) {
		if name, err := h.uploads.Save(fh); err == nil {
			in.Cover = name
		}
	}

	return in
}
