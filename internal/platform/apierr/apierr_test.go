package apierr_test

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"

	"library-backend/internal/platform/apierr"
)

func Test_ToHTTPStatus(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"invalid", apierr.ErrInvalid("x"), http.StatusBadRequest},
		{"unauthorized", apierr.ErrUnauthorized("x"), http.StatusUnauthorized},
		{"forbidden", apierr.ErrForbidden("x"), http.StatusForbidden},
		{"not found", apierr.ErrNotFound("x"), http.StatusNotFound},
		{"conflict", apierr.ErrConflict("x"), http.StatusConflict},
		{"internal", apierr.ErrInternal("x"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("ctx: %w", apierr.ErrNotFound("x")), http.StatusNotFound},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, apierr.ToHTTPStatus(tc.err))
		})
	}
}

func Test_FromStore_ClassifiesTransientFailures(t *testing.T) {
	testCases := []struct {
		name string
		err  error
	}{
		{"bad conn", driver.ErrBadConn},
		{"invalid conn", mysql.ErrInvalidConn},
		{"deadline", context.DeadlineExceeded},
		{"canceled", fmt.Errorf("query: %w", context.Canceled)},
		{"deadlock", &mysql.MySQLError{Number: apierr.MySQLDeadlock, Message: "Deadlock found"}},
		{"lock wait", &mysql.MySQLError{Number: apierr.MySQLLockWaitTimeout, Message: "Lock wait timeout"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := apierr.FromStore(tc.err)

			assert.Equal(t, http.StatusServiceUnavailable, apierr.ToHTTPStatus(got))
			assert.ErrorIs(t, got, tc.err)
		})
	}
}

func Test_FromStore_OtherErrorsAreInternal(t *testing.T) {
	cause := &mysql.MySQLError{Number: 1146, Message: "Table doesn't exist"}

	got := apierr.FromStore(cause)

	assert.Equal(t, http.StatusInternalServerError, apierr.ToHTTPStatus(got))
	assert.ErrorIs(t, got, cause)
	assert.Nil(t, apierr.FromStore(nil))
}

func Test_FromStore_PassesAPIErrorsThrough(t *testing.T) {
	in := apierr.ErrConflict("no copies").WithReason("NO_COPIES_AVAILABLE")

	got := apierr.FromStore(in)

	assert.Same(t, in, got)
}

func Test_BodyFrom_HidesUnclassifiedErrors(t *testing.T) {
	body := apierr.BodyFrom(errors.New("dial tcp 10.0.0.3:3306: connection refused"))

	assert.Equal(t, apierr.CodeInternal, body.Error.Code)
	assert.Equal(t, "internal error", body.Error.Message)
}

func Test_BodyFrom_CarriesReason(t *testing.T) {
	body := apierr.BodyFrom(apierr.ErrConflict("reader has reached the borrow limit").WithReason("BORROW_LIMIT_REACHED"))

	assert.Equal(t, apierr.CodeConflict, body.Error.Code)
	assert.Equal(t, "BORROW_LIMIT_REACHED", body.Error.Reason)
	assert.Equal(t, "reader has reached the borrow limit", body.Error.Message)
}
