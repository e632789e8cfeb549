package catalog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"library-backend/internal/platform/apierr"
)

type BookService interface {
	ListBooks(ctx context.Context, q BookQuery, p Page) (ListBooksResponse, error)
	GetBook(ctx context.Context, id int64) (BookResponse, error)
	CreateBook(ctx context.Context, in CreateBookRequest) (BookResponse, error)
	ReplaceBook(ctx context.Context, id int64, in ReplaceBookRequest) (BookResponse, error)
	PatchBook(ctx context.Context, id int64, p BookPatch) (BookResponse, error)
	DeleteBook(ctx context.Context, id int64) error
}

type Handler struct{ svc BookService }

func RegisterRoutes(r gin.IRoutes, svc BookService, adminOnly gin.HandlerFunc) {
	h := &Handler{svc: svc}

	r.GET("/books", h.ListBooks)
	r.POST("/books", h.CreateBook)
	r.GET("/books/:book_id", h.GetBook)
	r.PUT("/books/:book_id", h.ReplaceBook)
	r.PATCH("/books/:book_id", h.PatchBook)
	r.DELETE("/books/:book_id", adminOnly, h.DeleteBook)
}

// @Summary  List books
// @Tags     catalog
// @Produce  json
// @Param    q      query string false "title or author contains"
// @Param    limit  query int    false "page size"  default(50)
// @Param    offset query int    false "offset"     default(0)
// @Success  200 {object} ListBooksResponse
// @Router   /books [get]
func (h *Handler) ListBooks(c *gin.Context) {
	p := Page{
		Limit:  atoiDef(c.Query("limit"), defaultLimit),
		Offset: atoiDef(c.Query("offset"), 0),
	}
	res, err := h.svc.ListBooks(c.Request.Context(), BookQuery{Q: c.Query("q")}, p)
	if err != nil {
		apierr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary  Get a book
// @Tags     catalog
// @Produce  json
// @Param    book_id path int true "book id"
// @Success  200 {object} BookResponse
// @Failure  404 {object} apierr.ErrorDTO
// @Router   /books/{book_id} [get]
func (h *Handler) GetBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}
	res, err := h.svc.GetBook(c.Request.Context(), id)
	if err != nil {
		apierr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary  Create a book
// @Tags     catalog
// @Accept   json
// @Produce  json
// @Param    body body CreateBookRequest true "book"
// @Success  201 {object} BookResponse
// @Failure  400 {object} apierr.ErrorDTO
// @Failure  409 {object} apierr.ErrorDTO
// @Router   /books [post]
func (h *Handler) CreateBook(c *gin.Context) {
	var req CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Abort(c, apierr.ErrInvalid("invalid json: "+err.Error()))
		return
	}
	res, err := h.svc.CreateBook(c.Request.Context(), req)
	if err != nil {
		apierr.Abort(c, err)
		return
	}
	c.Header("Location", "/books/"+strconv.FormatInt(res.ID, 10))
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) ReplaceBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}
	var req ReplaceBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Abort(c, apierr.ErrInvalid("invalid json: "+err.Error()))
		return
	}
	res, err := h.svc.ReplaceBook(c.Request.Context(), id, req)
	if err != nil {
		apierr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) PatchBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}
	var req BookPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Abort(c, apierr.ErrInvalid("invalid json: "+err.Error()))
		return
	}
	res, err := h.svc.PatchBook(c.Request.Context(), id, req)
	if err != nil {
		apierr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) DeleteBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteBook(c.Request.Context(), id); err != nil {
		apierr.Abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ===== helpers =====

func bookID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("book_id"), 10, 64)
	if err != nil || id <= 0 {
		apierr.Abort(c, apierr.ErrInvalid("book_id must be a positive integer"))
		return 0, false
	}
	return id, true
}

func atoiDef(s string, d int) int {
	if s == "" {
		return d
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return n
}
