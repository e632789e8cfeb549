// Package apierr is the error model shared by every feature package:
// a stable machine-checkable Code, an optional Reason naming the rule that
// tripped, and a human-readable Message.
package apierr

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
)

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeUnauthorized    Code = "UNAUTHORIZED"
	CodeForbidden       Code = "FORBIDDEN"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeUnavailable     Code = "UNAVAILABLE"
	CodeInternal        Code = "INTERNAL"
)

// MySQL server error numbers we branch on.
const (
	MySQLDuplicateEntry  = 1062
	MySQLForeignKey      = 1452
	MySQLLockWaitTimeout = 1205
	MySQLDeadlock        = 1213
	MySQLCheckConstraint = 3819
	MySQLOutOfRange      = 1264
)

type APIError struct {
	Code    Code
	Reason  string
	Message string
	// cause is kept for logs and errors.Is, never rendered to clients
	cause error
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s(%s): %s", e.Code, e.Reason, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error { return e.cause }

func ErrInvalid(msg string) *APIError      { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrUnauthorized(msg string) *APIError { return &APIError{Code: CodeUnauthorized, Message: msg} }
func ErrForbidden(msg string) *APIError    { return &APIError{Code: CodeForbidden, Message: msg} }
func ErrNotFound(msg string) *APIError     { return &APIError{Code: CodeNotFound, Message: msg} }
func ErrConflict(msg string) *APIError     { return &APIError{Code: CodeConflict, Message: msg} }
func ErrInternal(msg string) *APIError     { return &APIError{Code: CodeInternal, Message: msg} }

// WithReason returns a copy carrying the rule name.
func (e *APIError) WithReason(reason string) *APIError {
	cp := *e
	cp.Reason = reason
	return &cp
}

// FromStore classifies a persistence error. Transient failures (lost connection,
// lock wait timeout, deadlock, cancelled context) become UNAVAILABLE so the caller
// can decide to retry; anything else is INTERNAL. Errors that already are
// *APIError pass through untouched.
func FromStore(err error) error {
	if err == nil {
		return nil
	}
	var api *APIError
	if errors.As(err, &api) {
		return err
	}
	if IsTransient(err) {
		return &APIError{Code: CodeUnavailable, Message: "storage temporarily unavailable", cause: err}
	}
	return &APIError{Code: CodeInternal, Message: "storage failure", cause: err}
}

func IsTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == MySQLLockWaitTimeout || me.Number == MySQLDeadlock
	}
	return false
}

// MySQLNumber returns the server error number, or 0 for non-MySQL errors.
func MySQLNumber(err error) uint16 {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number
	}
	return 0
}

func ToHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return http.StatusBadRequest
		case CodeUnauthorized:
			return http.StatusUnauthorized
		case CodeForbidden:
			return http.StatusForbidden
		case CodeNotFound:
			return http.StatusNotFound
		case CodeConflict:
			return http.StatusConflict
		case CodeUnavailable:
			return http.StatusServiceUnavailable
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}

// ---------- JSON envelope ----------

type ErrorDTO struct {
	Error struct {
		Code    Code   `json:"code"`
		Reason  string `json:"reason,omitempty"`
		Message string `json:"message"`
	} `json:"error"`
}

func Body(code Code, msg string) ErrorDTO {
	var e ErrorDTO
	e.Error.Code = code
	e.Error.Message = msg
	return e
}

// BodyFrom renders err for clients. Unclassified errors never leak their text.
func BodyFrom(err error) ErrorDTO {
	var api *APIError
	if errors.As(err, &api) {
		e := Body(api.Code, api.Message)
		e.Error.Reason = api.Reason
		return e
	}
	return Body(CodeInternal, "internal error")
}

// Abort writes the error with the default status mapping.
func Abort(c *gin.Context, err error) {
	AbortWithStatus(c, ToHTTPStatus(err), err)
}

func AbortWithStatus(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, BodyFrom(err))
}
