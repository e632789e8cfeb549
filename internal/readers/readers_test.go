package readers

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/platform/apierr"
	"library-backend/internal/platform/validation"
)

type memReaders struct {
	nextID int64
	rows   map[int64]*readerRow
	open   map[int64]int
}

func newMemReaders() *memReaders {
	return &memReaders{rows: map[int64]*readerRow{}, open: map[int64]int{}}
}

func (m *memReaders) emailTaken(email string, except int64) bool {
	for id, r := range m.rows {
		if id != except && r.Email == email {
			return true
		}
	}
	return false
}

func (m *memReaders) List(_ context.Context, p Page) ([]readerRow, int64, error) {
	out := []readerRow{}
	for id := int64(1); id <= m.nextID; id++ {
		if r, ok := m.rows[id]; ok {
			out = append(out, *r)
		}
	}
	total := int64(len(out))
	if p.Offset >= len(out) {
		return []readerRow{}, total, nil
	}
	end := p.Offset + p.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[p.Offset:end], total, nil
}

func (m *memReaders) Get(_ context.Context, id int64) (*readerRow, error) {
	r, ok := m.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *r
	return &cp, nil
}

func (m *memReaders) Insert(_ context.Context, fullName, email string) (int64, error) {
	if m.emailTaken(email, 0) {
		return 0, &mysql.MySQLError{Number: apierr.MySQLDuplicateEntry}
	}
	m.nextID++
	now := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	m.rows[m.nextID] = &readerRow{ID: m.nextID, FullName: fullName, Email: email, CreatedAt: now, UpdatedAt: now}
	return m.nextID, nil
}

func (m *memReaders) Update(_ context.Context, id int64, p ReaderPatch) error {
	r, ok := m.rows[id]
	if !ok {
		return sql.ErrNoRows
	}
	if p.Email != nil && m.emailTaken(*p.Email, id) {
		return &mysql.MySQLError{Number: apierr.MySQLDuplicateEntry}
	}
	if p.FullName != nil {
		r.FullName = *p.FullName
	}
	if p.Email != nil {
		r.Email = *p.Email
	}
	return nil
}

func (m *memReaders) Delete(_ context.Context, id int64) error {
	if _, ok := m.rows[id]; !ok {
		return sql.ErrNoRows
	}
	if m.open[id] > 0 {
		return ErrHasOpenLoans
	}
	delete(m.rows, id)
	return nil
}

func Test_Service_CreateLowercasesEmail(t *testing.T) {
	svc := &Service{repo: newMemReaders()}

	got, err := svc.CreateReader(context.Background(), CreateReaderRequest{FullName: " Paul  ", Email: "Paul@Example.com"})

	require.NoError(t, err)
	assert.Equal(t, "Paul", got.FullName)
	assert.Equal(t, "paul@example.com", got.Email)
}

func Test_Service_EmailIsUnique(t *testing.T) {
	svc := &Service{repo: newMemReaders()}
	ctx := context.Background()
	_, err := svc.CreateReader(ctx, CreateReaderRequest{FullName: "Paul", Email: "paul@example.com"})
	require.NoError(t, err)
	other, err := svc.CreateReader(ctx, CreateReaderRequest{FullName: "Jessica", Email: "jessica@example.com"})
	require.NoError(t, err)

	_, err = svc.CreateReader(ctx, CreateReaderRequest{FullName: "Paul 2", Email: "PAUL@example.com"})
	var api *apierr.APIError
	require.ErrorAs(t, err, &api)
	assert.Equal(t, apierr.CodeConflict, api.Code)

	email := "paul@example.com"
	_, err = svc.PatchReader(ctx, other.ID, ReaderPatch{Email: &email})
	require.ErrorAs(t, err, &api)
	assert.Equal(t, apierr.CodeConflict, api.Code)
}

func Test_Service_DeleteRefusedWhileBorrowing(t *testing.T) {
	repo := newMemReaders()
	svc := &Service{repo: repo}
	ctx := context.Background()
	r, err := svc.CreateReader(ctx, CreateReaderRequest{FullName: "Paul", Email: "paul@example.com"})
	require.NoError(t, err)
	repo.open[r.ID] = 2

	err = svc.DeleteReader(ctx, r.ID)
	var api *apierr.APIError
	require.ErrorAs(t, err, &api)
	assert.Equal(t, apierr.CodeConflict, api.Code)

	repo.open[r.ID] = 0
	assert.NoError(t, svc.DeleteReader(ctx, r.ID))
}

func Test_Handler_ReaderLifecycle(t *testing.T) {
	// arrange
	gin.SetMode(gin.TestMode)
	require.NoError(t, validation.Register())
	r := gin.New()
	RegisterRoutes(r, &Service{repo: newMemReaders()}, func(c *gin.Context) { c.Next() })
	send := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	// act + assert
	w := send(http.MethodPost, "/readers", `{"full_name":"Paul Atreides","email":"paul@example.com"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/readers/1", w.Header().Get("Location"))

	w = send(http.MethodPost, "/readers", `{"full_name":"Paul Atreides","email":"paul@example.com"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = send(http.MethodPost, "/readers", `{"full_name":"Paul","email":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(http.MethodPatch, "/readers/1", `{"full_name":"Muad'Dib"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"full_name":"Muad'Dib"`)
	assert.Contains(t, w.Body.String(), `"email":"paul@example.com"`)

	w = send(http.MethodPut, "/readers/1", `{"full_name":"Paul"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(http.MethodGet, "/readers", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)

	w = send(http.MethodDelete, "/readers/1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = send(http.MethodGet, "/readers/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
