package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"schoolgate/internal/institution/models"
	id "schoolgate/pkg/domain"
	"schoolgate/pkg/platform/sentinel"
)

// Postgres persists institutions via database/sql. Schema lives in
// migrations/001_init.sql.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, institution *models.Institution) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO institutions (id, name, address, latitude, longitude, trusted_ssid, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		institution.ID.String(),
		institution.Name,
		institution.Address,
		nullFloat(institution.Latitude),
		nullFloat(institution.Longitude),
		institution.TrustedSSID,
		institution.CreatedAt,
		institution.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert institution: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, institutionID id.InstitutionID) (*models.Institution, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, address, latitude, longitude, trusted_ssid, created_at, updated_at
		FROM institutions
		WHERE id = $1`,
		institutionID.String(),
	)

	var (
		rawID       string
		institution models.Institution
		lat, lon    sql.NullFloat64
	)
	err := row.Scan(&rawID, &institution.Name, &institution.Address, &lat, &lon,
		&institution.TrustedSSID, &institution.CreatedAt, &institution.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find institution: %w", err)
	}

	parsed, err := id.ParseInstitutionID(rawID)
	if err != nil {
		return nil, fmt.Errorf("scan institution id: %w", err)
	}
	institution.ID = parsed
	if lat.Valid {
		institution.Latitude = &lat.Float64
	}
	if lon.Valid {
		institution.Longitude = &lon.Float64
	}
	return &institution, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
