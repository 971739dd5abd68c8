package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"schoolgate/internal/student/models"
	id "schoolgate/pkg/domain"
	"schoolgate/pkg/platform/sentinel"
)

// Postgres persists student records. The partial unique index on device_id
// is the Registry-side guarantee behind DuplicateHardwareDevice.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, student *models.Student) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO students (id, name, institution_id, device_id, credential, active, registered_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7)`,
		student.ID.String(),
		student.Name,
		student.InstitutionID.String(),
		student.DeviceID,
		student.Credential,
		student.Active,
		student.RegisteredAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert student: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, studentID id.StudentID) (*models.Student, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, institution_id, COALESCE(device_id, ''), credential, active, registered_at
		FROM students
		WHERE id = $1`,
		studentID.String(),
	)

	var (
		rawID     string
		rawInstID string
		student   models.Student
	)
	err := row.Scan(&rawID, &student.Name, &rawInstID, &student.DeviceID,
		&student.Credential, &student.Active, &student.RegisteredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find student: %w", err)
	}

	parsedID, err := id.ParseStudentID(rawID)
	if err != nil {
		return nil, fmt.Errorf("scan student id: %w", err)
	}
	parsedInstID, err := id.ParseInstitutionID(rawInstID)
	if err != nil {
		return nil, fmt.Errorf("scan institution id: %w", err)
	}
	student.ID = parsedID
	student.InstitutionID = parsedInstID
	return &student, nil
}
