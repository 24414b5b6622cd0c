// Package catalog persists the book catalog in a single SQLite table.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// Book is one catalog row. URL is an opaque locator for the PDF content;
// nothing in this package or the matching core inspects it.
type Book struct {
	Scholar string `json:"scholar"`
	Title   string `json:"title"`
	URL     string `json:"url"`
}

// ErrDuplicate is returned by Insert when (scholar, title) already exists.
var ErrDuplicate = errors.New("book already in catalog")

// Store manages the books SQLite table. It is safe for concurrent use;
// writes are serialized by the caller and by SQLite's busy timeout.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path and ensures the
// books table exists. The unique index enforces the composite key.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open catalog db: %w", err)
	}

	const ddl = `CREATE TABLE IF NOT EXISTS books (
		id      INTEGER PRIMARY KEY AUTOINCREMENT,
		scholar TEXT NOT NULL,
		title   TEXT NOT NULL,
		url     TEXT NOT NULL
	);
	CREATE UNIQUE INDEX IF NOT EXISTS books_scholar_title ON books(scholar, title)`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("create books table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// LoadAll returns the full catalog snapshot, ordered by scholar then title.
func (s *Store) LoadAll(ctx context.Context) ([]Book, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT scholar, title, url FROM books ORDER BY scholar, title`)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	defer rows.Close()

	var books []Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.Scholar, &b.Title, &b.URL); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// Insert adds one book. Returns ErrDuplicate when (scholar, title) is
// already present.
func (s *Store) Insert(ctx context.Context, b Book) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO books (scholar, title, url) VALUES (?, ?, ?)`,
		b.Scholar, b.Title, b.URL)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: %s / %s", ErrDuplicate, b.Scholar, b.Title)
		}
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

// Delete removes all rows matching (scholar, title) and returns the count.
// One row is the expected case; removing several is a silent repair of a
// catalog that predates the unique index.
func (s *Store) Delete(ctx context.Context, scholar, title string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM books WHERE scholar = ? AND title = ?`, scholar, title)
	if err != nil {
		return 0, fmt.Errorf("delete book: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete book: %w", err)
	}
	return n, nil
}

// Scholars returns the distinct scholar names in order.
func (s *Store) Scholars(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT scholar FROM books ORDER BY scholar`)
	if err != nil {
		return nil, fmt.Errorf("list scholars: %w", err)
	}
	defer rows.Close()

	var scholars []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan scholar: %w", err)
		}
		scholars = append(scholars, name)
	}
	return scholars, rows.Err()
}

// TitlesByScholar returns one scholar's titles in order.
func (s *Store) TitlesByScholar(ctx context.Context, scholar string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title FROM books WHERE scholar = ? ORDER BY title`, scholar)
	if err != nil {
		return nil, fmt.Errorf("list titles for %s: %w", scholar, err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("scan title: %w", err)
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

// Locator returns the URL stored for (scholar, title). The second return
// reports whether the row exists.
func (s *Store) Locator(ctx context.Context, scholar, title string) (string, bool, error) {
	var url string
	err := s.db.QueryRowContext(ctx,
		`SELECT url FROM books WHERE scholar = ? AND title = ?`, scholar, title).Scan(&url)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("locator for %s / %s: %w", scholar, title, err)
	}
	return url, true, nil
}

// Count returns the number of books in the catalog.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return n, nil
}
