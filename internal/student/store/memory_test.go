package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolgate/internal/student/models"
	id "schoolgate/pkg/domain"
	"schoolgate/pkg/platform/sentinel"
)

func newStudent(t *testing.T, deviceID string) *models.Student {
	t.Helper()
	student, err := models.NewStudent(
		id.StudentID(uuid.New()), "Ada Lovelace",
		id.InstitutionID(uuid.New()), deviceID, time.Now())
	require.NoError(t, err)
	student.Credential = "3QJmnh"
	return student
}

func TestInMemoryCreateAndFind(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()
	student := newStudent(t, "tablet-001")

	require.NoError(t, store.Create(ctx, student))

	found, err := store.FindByID(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", found.Name)
	assert.Equal(t, "3QJmnh", found.Credential)
}

func TestInMemoryDuplicateDevice(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()

	require.NoError(t, store.Create(ctx, newStudent(t, "tablet-001")))

	err := store.Create(ctx, newStudent(t, "tablet-001"))
	require.ErrorIs(t, err, sentinel.ErrAlreadyUsed,
		"device uniqueness holds across institutions")
}

func TestInMemoryEmptyDeviceNotUnique(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()

	require.NoError(t, store.Create(ctx, newStudent(t, "")))
	require.NoError(t, store.Create(ctx, newStudent(t, "")))
}

func TestInMemoryNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()

	_, err := store.FindByID(ctx, id.StudentID(uuid.New()))
	require.ErrorIs(t, err, sentinel.ErrNotFound)
}
