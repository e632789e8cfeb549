package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"library-backend/internal/platform/apierr"
	"library-backend/internal/platform/logger"
)

type AuthHandler struct{ svc AuthService }

func RegisterRoutes(r gin.IRoutes, svc AuthService) {
	h := &AuthHandler{svc: svc}
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
}

type CredentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type RegisterResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Abort(c, apierr.ErrInvalid("email and a password of at least 8 characters are required"))
		return
	}

	id, err := h.svc.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			apierr.Abort(c, apierr.ErrConflict("user with this email already exists"))
			return
		}
		logger.FromContext(c.Request.Context()).WithError(err).Error("register failed")
		apierr.Abort(c, apierr.FromStore(err))
		return
	}

	c.JSON(http.StatusCreated, RegisterResponse{ID: id.UserID, Email: id.Email})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Abort(c, apierr.ErrInvalid("invalid request"))
		return
	}

	id, err := h.svc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			apierr.Abort(c, apierr.ErrUnauthorized("incorrect email or password"))
			return
		}
		logger.FromContext(c.Request.Context()).WithError(err).Error("login failed")
		apierr.Abort(c, apierr.FromStore(err))
		return
	}

	token, exp, err := h.svc.IssueToken(id)
	if err != nil {
		logger.FromContext(c.Request.Context()).WithError(err).Error("sign token")
		apierr.Abort(c, apierr.ErrInternal("could not issue token"))
		return
	}

	c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer", ExpiresAt: exp})
}
