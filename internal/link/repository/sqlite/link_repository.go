package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"shortlink/internal/link/domain"
	"shortlink/internal/link/usecase"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// LinkRepository implements the usecase.LinkStore interface on SQLite.
type LinkRepository struct {
	db *sql.DB
}

// NewLinkRepository creates a new SQLite-backed link repository
func NewLinkRepository(db *sql.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

// Ensure LinkRepository implements usecase.LinkStore at compile time
var _ usecase.LinkStore = (*LinkRepository)(nil)

const linkColumns = `id, token, original_url, owner, created_at`

// ExistsByToken reports whether the token is already taken.
func (r *LinkRepository) ExistsByToken(ctx context.Context, token string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM links WHERE token = ?)`, token,
	).Scan(&exists)
	return exists, err
}

// InsertLink stores a new link. The unique index on token turns a lost
// race into domain.ErrDuplicateToken.
func (r *LinkRepository) InsertLink(ctx context.Context, link *domain.Link) (*domain.Link, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO links (`+linkColumns+`) VALUES (?, ?, ?, ?, ?)`,
		link.ID, link.Token, link.OriginalURL, link.Owner, link.CreatedAt.UnixMicro(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateToken
		}
		return nil, err
	}

	stored := *link
	stored.CreatedAt = time.UnixMicro(link.CreatedAt.UnixMicro()).UTC()
	return &stored, nil
}

// GetByToken retrieves a link by its token.
func (r *LinkRepository) GetByToken(ctx context.Context, token string) (*domain.Link, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+linkColumns+` FROM links WHERE token = ?`, token)
	return scanLink(row)
}

// GetByID retrieves a link by its id.
func (r *LinkRepository) GetByID(ctx context.Context, id string) (*domain.Link, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+linkColumns+` FROM links WHERE id = ?`, id)
	return scanLink(row)
}

// ListByOwner returns the owner's links, newest first.
func (r *LinkRepository) ListByOwner(ctx context.Context, owner string, limit, offset int) ([]*domain.Link, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+linkColumns+` FROM links WHERE owner = ? ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
		owner, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := make([]*domain.Link, 0)
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLink(s scanner) (*domain.Link, error) {
	var (
		link      domain.Link
		owner     sql.NullString
		createdAt int64
	)
	if err := s.Scan(&link.ID, &link.Token, &link.OriginalURL, &owner, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if owner.Valid {
		link.Owner = &owner.String
	}
	link.CreatedAt = time.UnixMicro(createdAt).UTC()
	return &link, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch code := sqliteErr.Code(); {
	case code == sqlite3.SQLITE_CONSTRAINT_UNIQUE, code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	case code&0xff == sqlite3.SQLITE_CONSTRAINT:
		// Primary result code only, extended codes disabled.
		return strings.Contains(sqliteErr.Error(), "UNIQUE constraint failed")
	default:
		return false
	}
}
