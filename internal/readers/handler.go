package readers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"library-backend/internal/platform/apierr"
)

type ReaderService interface {
	ListReaders(ctx context.Context, p Page) (ListReadersResponse, error)
	GetReader(ctx context.Context, id int64) (ReaderResponse, error)
	CreateReader(ctx context.Context, in CreateReaderRequest) (ReaderResponse, error)
	ReplaceReader(ctx context.Context, id int64, in CreateReaderRequest) (ReaderResponse, error)
	PatchReader(ctx context.Context, id int64, p ReaderPatch) (ReaderResponse, error)
	DeleteReader(ctx context.Context, id int64) error
}

type Handler struct{ svc ReaderService }

func RegisterRoutes(r gin.IRoutes, svc ReaderService, adminOnly gin.HandlerFunc) {
	h := &Handler{svc: svc}
	r.GET("/readers", h.List)
	r.POST("/readers", h.Create)
	r.GET("/readers/:reader_id", h.Get)
	r.PUT("/readers/:reader_id", h.Replace)
	r.PATCH("/readers/:reader_id", h.Patch)
	r.DELETE("/readers/:reader_id", adminOnly, h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	res, err := h.svc.ListReaders(c.Request.Context(), Page{Limit: limit, Offset: offset})
	if err != nil {
		apierr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := readerID(c)
	if !ok {
		return
	}
	res, err := h.svc.GetReader(c.Request.Context(), id)
	if err != nil {
		apierr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary  Register a reader
// @Tags     readers
// @Accept   json
// @Produce  json
// @Param    body body CreateReaderRequest true "reader"
// @Success  201 {object} ReaderResponse
// @Failure  409 {object} apierr.ErrorDTO
// @Router   /readers [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateReaderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Abort(c, apierr.ErrInvalid("full_name and a valid email are required"))
		return
	}
	res, err := h.svc.CreateReader(c.Request.Context(), req)
	if err != nil {
		apierr.Abort(c, err)
		return
	}
	c.Header("Location", "/readers/"+strconv.FormatInt(res.ID, 10))
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) Replace(c *gin.Context) {
	id, ok := readerID(c)
	if !ok {
		return
	}
	var req CreateReaderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Abort(c, apierr.ErrInvalid("full_name and a valid email are required"))
		return
	}
	res, err := h.svc.ReplaceReader(c.Request.Context(), id, req)
	if err != nil {
		apierr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Patch(c *gin.Context) {
	id, ok := readerID(c)
	if !ok {
		return
	}
	var req ReaderPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Abort(c, apierr.ErrInvalid("invalid json"))
		return
	}
	res, err := h.svc.PatchReader(c.Request.Context(), id, req)
	if err != nil {
		apierr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := readerID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteReader(c.Request.Context(), id); err != nil {
		apierr.Abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func readerID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("reader_id"), 10, 64)
	if err != nil || id <= 0 {
		apierr.Abort(c, apierr.ErrInvalid("reader_id must be a positive integer"))
		return 0, false
	}
	return id, true
}
