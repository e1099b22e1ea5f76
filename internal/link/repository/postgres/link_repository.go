package postgres

import (
	"context"
	"database/sql"
	"errors"

	"shortlink/internal/link/domain"
	"shortlink/internal/link/usecase"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = pq.ErrorCode("23505")

// LinkRepository implements usecase.LinkStore on PostgreSQL.
type LinkRepository struct {
	db *sql.DB
}

// NewLinkRepository creates a new PostgreSQL-backed link repository.
func NewLinkRepository(db *sql.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

var _ usecase.LinkStore = (*LinkRepository)(nil)

const linkColumns = `id, token, original_url, owner, created_at`

func (r *LinkRepository) ExistsByToken(ctx context.Context, token string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM links WHERE token = $1)`, token,
	).Scan(&exists)
	return exists, err
}

// InsertLink stores a new link; the unique index on token reports a lost
// race as domain.ErrDuplicateToken.
func (r *LinkRepository) InsertLink(ctx context.Context, link *domain.Link) (*domain.Link, error) {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO links (`+linkColumns+`) VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+linkColumns,
		link.ID, link.Token, link.OriginalURL, link.Owner, link.CreatedAt,
	)

	stored, err := scanLink(row)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, domain.ErrDuplicateToken
		}
		return nil, err
	}
	return stored, nil
}

func (r *LinkRepository) GetByToken(ctx context.Context, token string) (*domain.Link, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+linkColumns+` FROM links WHERE token = $1`, token)
	return scanLink(row)
}

// GetByID returns ErrNotFound for ids that are not UUIDs.
func (r *LinkRepository) GetByID(ctx context.Context, id string) (*domain.Link, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx,
		`SELECT `+linkColumns+` FROM links WHERE id = $1`, parsed.String())
	return scanLink(row)
}

func (r *LinkRepository) ListByOwner(ctx context.Context, owner string, limit, offset int) ([]*domain.Link, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+linkColumns+` FROM links WHERE owner = $1
		 ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`,
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
		link  domain.Link
		owner sql.NullString
	)
	if err := s.Scan(&link.ID, &link.Token, &link.OriginalURL, &owner, &link.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if owner.Valid {
		link.Owner = &owner.String
	}
	link.CreatedAt = link.CreatedAt.UTC()
	return &link, nil
}
