package sqlite

import (
	"context"
	"database/sql"
	"time"

	"shortlink/internal/analytics/domain"
	"shortlink/internal/analytics/usecase"
)

// ClickRepository implements the usecase.ClickRepository interface on SQLite.
type ClickRepository struct {
	db *sql.DB
}

// NewClickRepository creates a new SQLite-backed click repository
func NewClickRepository(db *sql.DB) *ClickRepository {
	return &ClickRepository{db: db}
}

// Ensure ClickRepository implements usecase.ClickRepository at compile time
var _ usecase.ClickRepository = (*ClickRepository)(nil)

const clickColumns = `id, link_id, ip_address, user_agent, browser, os, device_type, country, city, referrer, created_at`

// InsertClick stores a click event with its enrichment data.
func (r *ClickRepository) InsertClick(ctx context.Context, click *domain.ClickEvent) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO clicks (`+clickColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
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
		click.CreatedAt.UnixMicro(),
	)
	return err
}

// ListByLinkID returns all clicks for a link, newest first.
func (r *ClickRepository) ListByLinkID(ctx context.Context, linkID string) ([]domain.ClickEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+clickColumns+` FROM clicks WHERE link_id = ? ORDER BY created_at DESC, id`,
		linkID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clicks := make([]domain.ClickEvent, 0)
	for rows.Next() {
		var (
			click                   domain.ClickEvent
			deviceType              string
			country, city, referrer sql.NullString
			createdAt               int64
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
			&createdAt,
		); err != nil {
			return nil, err
		}

		click.DeviceType = domain.DeviceType(deviceType)
		click.Country = nullString(country)
		click.City = nullString(city)
		click.Referrer = nullString(referrer)
		click.CreatedAt = time.UnixMicro(createdAt).UTC()
		clicks = append(clicks, click)
	}
	return clicks, rows.Err()
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
