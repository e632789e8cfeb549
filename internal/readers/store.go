package readers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"library-backend/internal/platform/db"
)

// ErrHasOpenLoans: the reader still holds books and cannot be deleted.
var ErrHasOpenLoans = errors.New("reader has open loans")

type ReaderRepository interface {
	List(ctx context.Context, p Page) ([]readerRow, int64, error)
	Get(ctx context.Context, id int64) (*readerRow, error)
	Insert(ctx context.Context, fullName, email string) (int64, error)
	Update(ctx context.Context, id int64, p ReaderPatch) error
	Delete(ctx context.Context, id int64) error
}

type Store struct {
	db *sql.DB
}

func NewStore(conn *sql.DB) *Store { return &Store{db: conn} }

const readerColumns = `id, full_name, email, created_at, updated_at`

func scanReader(sc interface{ Scan(...any) error }) (readerRow, error) {
	var r readerRow
	err := sc.Scan(&r.ID, &r.FullName, &r.Email, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func (s *Store) List(ctx context.Context, p Page) ([]readerRow, int64, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM readers`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+readerColumns+` FROM readers ORDER BY id LIMIT ? OFFSET ?`, p.Limit, p.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := []readerRow{}
	for rows.Next() {
		r, err := scanReader(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (s *Store) Get(ctx context.Context, id int64) (*readerRow, error) {
	r, err := scanReader(s.db.QueryRowContext(ctx, `SELECT `+readerColumns+` FROM readers WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) Insert(ctx context.Context, fullName, email string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO readers (full_name, email) VALUES (?, ?)`, fullName, email)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Update applies the non-nil fields of p. PUT passes both.
func (s *Store) Update(ctx context.Context, id int64, p ReaderPatch) error {
	sets := []string{}
	args := []any{}
	if p.FullName != nil {
		sets = append(sets, "full_name = ?")
		args = append(args, *p.FullName)
	}
	if p.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *p.Email)
	}
	if len(sets) > 0 {
		args = append(args, id)
		q := fmt.Sprintf(`UPDATE readers SET %s WHERE id = ?`, strings.Join(sets, ", "))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	var one int
	return s.db.QueryRowContext(ctx, `SELECT 1 FROM readers WHERE id = ?`, id).Scan(&one)
}

// Delete refuses readers with open loans; closed history goes with the reader.
func (s *Store) Delete(ctx context.Context, id int64) error {
	return db.RunInTx(ctx, s.db, db.ReadCommitted, func(ctx context.Context, tx db.DBTX) error {
		var locked int64
		if err := tx.QueryRowContext(ctx, `SELECT id FROM readers WHERE id = ? FOR UPDATE`, id).Scan(&locked); err != nil {
			return err
		}
		var open int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM loans WHERE reader_id = ? AND return_date IS NULL`, id).Scan(&open); err != nil {
			return err
		}
		if open > 0 {
			return ErrHasOpenLoans
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM readers WHERE id = ?`, id)
		return err
	})
}
