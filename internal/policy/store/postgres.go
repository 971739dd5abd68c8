package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"schoolgate/internal/policy/models"
	id "schoolgate/pkg/domain"
	"schoolgate/pkg/platform/sentinel"
)

// Postgres persists policy entries. The schema carries a unique index on
// (institution_id, app_name); that is the Registry-side uniqueness guarantee
// the core itself does not provide.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) CreateBatch(ctx context.Context, entries []*models.PolicyEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin policy batch: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, entry := range entries {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO policy_entries (id, institution_id, app_name, package_name, allowed, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			entry.ID.String(),
			entry.InstitutionID.String(),
			entry.AppName,
			entry.PackageName,
			entry.Allowed,
			entry.CreatedAt,
			entry.UpdatedAt,
		)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == "23505" {
				return sentinel.ErrAlreadyUsed
			}
			return fmt.Errorf("insert policy entry: %w", err)
		}
	}
	return tx.Commit()
}

func (s *Postgres) ListByInstitution(ctx context.Context, institutionID id.InstitutionID) ([]*models.PolicyEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, institution_id, app_name, package_name, allowed, created_at, updated_at
		FROM policy_entries
		WHERE institution_id = $1
		ORDER BY created_at, app_name`,
		institutionID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list policy entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.PolicyEntry
	for rows.Next() {
		var (
			rawID     string
			rawInstID string
			entry     models.PolicyEntry
		)
		if err := rows.Scan(&rawID, &rawInstID, &entry.AppName, &entry.PackageName,
			&entry.Allowed, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan policy entry: %w", err)
		}
		entryID, err := id.ParsePolicyEntryID(rawID)
		if err != nil {
			return nil, fmt.Errorf("scan policy entry id: %w", err)
		}
		instID, err := id.ParseInstitutionID(rawInstID)
		if err != nil {
			return nil, fmt.Errorf("scan institution id: %w", err)
		}
		entry.ID = entryID
		entry.InstitutionID = instID
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

func (s *Postgres) SetAllowed(ctx context.Context, institutionID id.InstitutionID, appName string, allowed bool) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE policy_entries
		SET allowed = $3, updated_at = now()
		WHERE institution_id = $1 AND app_name = $2`,
		institutionID.String(),
		appName,
		allowed,
	)
	if err != nil {
		return false, fmt.Errorf("update policy entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update policy entry: %w", err)
	}
	return affected > 0, nil
}
