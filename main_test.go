package main

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/platform/db"
	"library-backend/internal/platform/logger"
	"library-backend/internal/platform/validation"
)

func testConfig(t *testing.T) *db.Config {
	t.Helper()
	cfg, err := db.ParseConfig([]byte(`
mode: dev
database:
  host: 127.0.0.1
  port: 1
  dbname: library
auth:
  jwt_secret: test
`))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	return cfg
}

// sql.Open does not dial, so the router can be built against an unreachable server.
func unreachableDB(t *testing.T, cfg *db.Config) *sql.DB {
	t.Helper()
	conn, err := sql.Open("mysql", db.DSN(cfg.DB))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func Test_SetupRouter_Wiring(t *testing.T) {
	// arrange
	require.NoError(t, validation.Register())
	cfg := testConfig(t)
	r := setupRouter(cfg, unreachableDB(t, cfg))

	cases := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/api/v1/books", http.StatusUnauthorized},
		{http.MethodPost, "/api/v1/books/lend", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/books/borrows/notreturn/1", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/loans/overdue", http.StatusUnauthorized},
		{http.MethodDelete, "/api/v1/readers/1", http.StatusUnauthorized},
		{http.MethodPost, "/api/v1/auth/login", http.StatusBadRequest},
		{http.MethodGet, "/api/v1/nope", http.StatusNotFound},
		{http.MethodGet, "/healthz", http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			// act
			r.ServeHTTP(w, req)

			// assert
			assert.Equal(t, tc.status, w.Code)
			assert.NotEmpty(t, w.Header().Get(logger.RequestIDHeader))
		})
	}
}
