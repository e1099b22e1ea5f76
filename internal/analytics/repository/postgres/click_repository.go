package postgres

import (
	"context"
	"database/sql"

	"shortlink/internal/analytics/domain"
	"shortlink/internal/analytics/usecase"

	"github.com/google/uuid"
)

// ClickRepository implements the usecase.ClickRepository interface on PostgreSQL.
type ClickRepository struct {
	db *sql.DB
}

// NewClickRepository creates a new PostgreSQL-backed click repository
func NewClickRepository(db *sql.DB) *ClickRepository {
	return &ClickRepository{db: db}
}

var _ usecase.ClickRepository = (*ClickRepository)(nil)

const clickColumns = `id, link_id, ip_address, user_agent, browser, os, device_type, country, city, referrer, created_at`

// InsertClick stores a click event with its enrichment data.
func (r *ClickRepository) InsertClick(ctx context.Context, click *domain.ClickEvent) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO clicks (`+clickColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		click.ID,
		click.LinkID,
		click.IPAddress,
		click.UserAgentRaw,
		click.Browser,
		click.OS,
		string(click.DeviceType),
		click.Country,
		click.City,
		click.Referrer,
		click.CreatedAt,
	)
	return err
}

// ListByLinkID returns all clicks for a link, newest first.
func (r *ClickRepository) ListByLinkID(ctx context.Context, linkID string) ([]domain.ClickEvent, error) {
	clicks := make([]domain.ClickEvent, 0)

	// link_id is a UUID column; anything else cannot match.
	if _, err := uuid.Parse(linkID); err != nil {
		return clicks, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+clickColumns+` FROM clicks WHERE link_id = $1 ORDER BY created_at DESC, id`,
		linkID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			click                   domain.ClickEvent
			deviceType              string
			country, city, referrer sql.NullString
		)
		if err := rows.Scan(
			&click.ID,
			&click.LinkID,
			&click.IPAddress,
			&click.UserAgentRaw,
			&click.Browser,
			&click.OS,
			&deviceType,
			&country,
			&city,
			&referrer,
			&click.CreatedAt,
		); err != nil {
			return nil, err
		}

		click.DeviceType = domain.DeviceType(deviceType)
		if country.Valid {
			click.Country = &country.String
		}
		if city.Valid {
			click.City = &city.String
		}
		if referrer.Valid {
			click.Referrer = &referrer.String
		}
		click.CreatedAt = click.CreatedAt.UTC()
		clicks = append(clicks, click)
	}
	return clicks, rows.Err()
}
