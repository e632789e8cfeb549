package lending

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"library-backend/internal/platform/apierr"
	"library-backend/internal/platform/auth"
	"library-backend/internal/platform/logger"
)

type LendingService interface {
	Lend(ctx context.Context, bookID, readerID int64) (Loan, error)
	Return(ctx context.Context, loanID, readerID int64) (Loan, error)
	ActiveLoans(ctx context.Context, readerID int64) ([]Loan, error)
	AllLoans(ctx context.Context, readerID int64) ([]Loan, error)
	GetLoan(ctx context.Context, loanID int64) (Loan, error)
	Overdue(ctx context.Context) ([]Loan, error)
	AdjustCopies(ctx context.Context, bookID int64, delta int) (Stock, error)
}

type LendingHandler struct{ svc LendingService }

// RegisterRoutes mounts the lending endpoints. adminOnly guards inventory changes.
func RegisterRoutes(r gin.IRoutes, svc LendingService, adminOnly gin.HandlerFunc) {
	h := &LendingHandler{svc: svc}
	r.POST("/books/lend", h.Lend)
	r.POST("/books/return", h.Return)
	r.GET("/books/borrows/:reader_id", h.AllLoans)
	r.GET("/books/borrows/notreturn/:reader_id", h.ActiveLoans)
	r.POST("/books/:book_id/copies", adminOnly, h.AdjustCopies)
	r.GET("/loans/overdue", h.Overdue)
	r.GET("/loans/:loan_id", h.GetLoan)
}

func abort(c *gin.Context, err error) {
	apierr.AbortWithStatus(c, ToHTTPStatus(err), err)
}

// deskCtx tags the request logger with the librarian performing the operation.
func deskCtx(c *gin.Context) context.Context {
	ctx := c.Request.Context()
	if id, ok := auth.CurrentIdentity(c); ok {
		return logger.WithLogger(ctx, logger.FromContext(ctx).WithField("librarian_id", id.UserID))
	}
	return ctx
}

// pathID reads a positive numeric path parameter.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		abort(c, apierr.ErrInvalid(name+" must be a positive integer"))
		return 0, false
	}
	return id, true
}

// @Summary  Lend a book to a reader
// @Tags     lending
// @Accept   json
// @Produce  json
// @Param    body body LendRequest true "book and reader"
// @Success  200 {object} LoanResponse
// @Failure  400 {object} apierr.ErrorDTO
// @Failure  404 {object} apierr.ErrorDTO
// @Router   /books/lend [post]
func (h *LendingHandler) Lend(c *gin.Context) {
	var req LendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, apierr.ErrInvalid("book_id and reader_id are required"))
		return
	}
	loan, err := h.svc.Lend(deskCtx(c), req.BookID, req.ReaderID)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, toLoanResponse(loan))
}

// @Summary  Return a borrowed book
// @Tags     lending
// @Accept   json
// @Produce  json
// @Param    body body ReturnRequest true "loan and reader"
// @Success  200 {object} LoanResponse
// @Failure  400 {object} apierr.ErrorDTO
// @Failure  403 {object} apierr.ErrorDTO
// @Failure  404 {object} apierr.ErrorDTO
// @Router   /books/return [post]
func (h *LendingHandler) Return(c *gin.Context) {
	var req ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, apierr.ErrInvalid("borrow_id and reader_id are required"))
		return
	}
	loan, err := h.svc.Return(deskCtx(c), req.BorrowID, req.ReaderID)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, toLoanResponse(loan))
}

// @Summary  List a reader's loans
// @Tags     lending
// @Produce  json
// @Param    reader_id path int true "reader id"
// @Success  200 {array} LoanResponse
// @Failure  400 {object} apierr.ErrorDTO
// @Failure  404 {object} apierr.ErrorDTO
// @Router   /books/borrows/{reader_id} [get]
func (h *LendingHandler) AllLoans(c *gin.Context) {
	h.listLoans(c, h.svc.AllLoans)
}

// @Summary  List a reader's unreturned loans
// @Tags     lending
// @Produce  json
// @Param    reader_id path int true "reader id"
// @Success  200 {array} LoanResponse
// @Failure  400 {object} apierr.ErrorDTO
// @Failure  404 {object} apierr.ErrorDTO
// @Router   /books/borrows/notreturn/{reader_id} [get]
func (h *LendingHandler) ActiveLoans(c *gin.Context) {
	h.listLoans(c, h.svc.ActiveLoans)
}

func (h *LendingHandler) listLoans(c *gin.Context, list func(context.Context, int64) ([]Loan, error)) {
	readerID, ok := pathID(c, "reader_id")
	if !ok {
		return
	}
	loans, err := list(c.Request.Context(), readerID)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, toLoanResponses(loans))
}

// @Summary  Get a loan
// @Tags     lending
// @Produce  json
// @Param    loan_id path int true "loan id"
// @Success  200 {object} LoanResponse
// @Failure  400 {object} apierr.ErrorDTO
// @Failure  404 {object} apierr.ErrorDTO
// @Router   /loans/{loan_id} [get]
func (h *LendingHandler) GetLoan(c *gin.Context) {
	loanID, ok := pathID(c, "loan_id")
	if !ok {
		return
	}
	loan, err := h.svc.GetLoan(c.Request.Context(), loanID)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, toLoanResponse(loan))
}

// @Summary  List open loans past their due date
// @Tags     lending
// @Produce  json
// @Success  200 {array} LoanResponse
// @Router   /loans/overdue [get]
func (h *LendingHandler) Overdue(c *gin.Context) {
	loans, err := h.svc.Overdue(c.Request.Context())
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, toLoanResponses(loans))
}

// @Summary  Add or withdraw physical copies (admin)
// @Tags     lending
// @Accept   json
// @Produce  json
// @Param    book_id path int true "book id"
// @Param    body body AdjustCopiesRequest true "delta"
// @Success  200 {object} StockResponse
// @Failure  400 {object} apierr.ErrorDTO
// @Failure  404 {object} apierr.ErrorDTO
// @Router   /books/{book_id}/copies [post]
func (h *LendingHandler) AdjustCopies(c *gin.Context) {
	bookID, ok := pathID(c, "book_id")
	if !ok {
		return
	}
	var req AdjustCopiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, apierr.ErrInvalid("delta must be a non-zero integer"))
		return
	}
	stock, err := h.svc.AdjustCopies(deskCtx(c), bookID, req.Delta)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, toStockResponse(stock))
}
