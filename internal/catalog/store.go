package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"library-backend/internal/platform/db"
)

// ErrHasOpenLoans: the book is still lent out and cannot be deleted.
var ErrHasOpenLoans = errors.New("book has open loans")

type BookRepository interface {
	List(ctx context.Context, q BookQuery, p Page) ([]bookRow, int64, error)
	Get(ctx context.Context, id int64) (*bookRow, error)
	Insert(ctx context.Context, f bookFields, copies int) (int64, error)
	Replace(ctx context.Context, id int64, f bookFields) error
	Patch(ctx context.Context, id int64, p BookPatch) error
	Delete(ctx context.Context, id int64) error
}

type Store struct {
	db *sql.DB
}

func NewStore(conn *sql.DB) *Store { return &Store{db: conn} }

const bookColumns = `id, title, author, description, year, isbn, total_copies, available_copies, created_at, updated_at`

func scanBook(sc interface{ Scan(...any) error }) (bookRow, error) {
	var b bookRow
	err := sc.Scan(
		&b.ID, &b.Title, &b.Author, &b.Description, &b.Year, &b.ISBN,
		&b.TotalCopies, &b.AvailableCopies, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (s *Store) List(ctx context.Context, q BookQuery, p Page) ([]bookRow, int64, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if q.Q != "" {
		pattern := "%" + likeEscaper.Replace(q.Q) + "%"
		where += ` AND (title LIKE ? OR author LIKE ?)`
		args = append(args, pattern, pattern)
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + bookColumns + ` FROM books` + where + ` ORDER BY id LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, query, append(args, p.Limit, p.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := []bookRow{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Get returns sql.ErrNoRows for an unknown id.
func (s *Store) Get(ctx context.Context, id int64) (*bookRow, error) {
	b, err := scanBook(s.db.QueryRowContext(ctx, `SELECT `+bookColumns+` FROM books WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Store) Insert(ctx context.Context, f bookFields, copies int) (int64, error) {
	const q = `
INSERT INTO books (title, author, description, year, isbn, total_copies, available_copies)
VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q, f.Title, f.Author, f.Description, f.Year, f.ISBN, copies, copies)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) Replace(ctx context.Context, id int64, f bookFields) error {
	const q = `UPDATE books SET title = ?, author = ?, description = ?, year = ?, isbn = ? WHERE id = ?`
	if _, err := s.db.ExecContext(ctx, q, f.Title, f.Author, f.Description, f.Year, f.ISBN, id); err != nil {
		return err
	}
	// an unchanged row reports 0 affected, so existence is checked separately
	return s.exists(ctx, id)
}

func (s *Store) Patch(ctx context.Context, id int64, p BookPatch) error {
	sets := []string{}
	args := []any{}
	if p.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *p.Title)
	}
	if p.Author != nil {
		sets = append(sets, "author = ?")
		args = append(args, *p.Author)
	}
	if p.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *p.Description)
	}
	if p.Year != nil {
		sets = append(sets, "year = ?")
		args = append(args, *p.Year)
	}
	if p.ISBN != nil {
		sets = append(sets, "isbn = ?")
		args = append(args, *p.ISBN)
	}
	if len(sets) == 0 {
		return s.exists(ctx, id)
	}
	args = append(args, id)
	q := fmt.Sprintf(`UPDATE books SET %s WHERE id = ?`, strings.Join(sets, ", "))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return err
	}
	return s.exists(ctx, id)
}

func (s *Store) exists(ctx context.Context, id int64) error {
	var one int
	return s.db.QueryRowContext(ctx, `SELECT 1 FROM books WHERE id = ?`, id).Scan(&one)
}

// Delete removes the book and its closed loan history. A book with an open
// loan is refused with ErrHasOpenLoans so the copy counters stay consistent.
func (s *Store) Delete(ctx context.Context, id int64) error {
	return db.RunInTx(ctx, s.db, db.ReadCommitted, func(ctx context.Context, tx db.DBTX) error {
		var locked int64
		if err := tx.QueryRowContext(ctx, `SELECT id FROM books WHERE id = ? FOR UPDATE`, id).Scan(&locked); err != nil {
			return err
		}
		var open int
		const countQ = `SELECT COUNT(*) FROM loans WHERE book_id = ? AND return_date IS NULL`
		if err := tx.QueryRowContext(ctx, countQ, id).Scan(&open); err != nil {
			return err
		}
		if open > 0 {
			return ErrHasOpenLoans
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
		return err
	})
}
