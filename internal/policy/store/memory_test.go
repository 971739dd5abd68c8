package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolgate/internal/policy/models"
	id "schoolgate/pkg/domain"
)

func newEntry(institutionID id.InstitutionID, appName string, allowed bool) *models.PolicyEntry {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	return &models.PolicyEntry{
		ID:            id.PolicyEntryID(uuid.New()),
		InstitutionID: institutionID,
		AppName:       appName,
		PackageName:   "com.example.app",
		Allowed:       allowed,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestInMemoryPreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()
	institutionID := id.InstitutionID(uuid.New())

	require.NoError(t, store.CreateBatch(ctx, []*models.PolicyEntry{
		newEntry(institutionID, "Notes", true),
		newEntry(institutionID, "Games", false),
		newEntry(institutionID, "Calculator", true),
	}))

	entries, err := store.ListByInstitution(ctx, institutionID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Notes", entries[0].AppName)
	assert.Equal(t, "Games", entries[1].AppName)
	assert.Equal(t, "Calculator", entries[2].AppName)
}

func TestInMemoryIsolatesInstitutions(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()
	a := id.InstitutionID(uuid.New())
	b := id.InstitutionID(uuid.New())

	require.NoError(t, store.CreateBatch(ctx, []*models.PolicyEntry{newEntry(a, "Notes", true)}))

	entries, err := store.ListByInstitution(ctx, b)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestInMemorySetAllowed(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()
	institutionID := id.InstitutionID(uuid.New())

	require.NoError(t, store.CreateBatch(ctx, []*models.PolicyEntry{
		newEntry(institutionID, "Games", false),
	}))

	t.Run("matching entry flips", func(t *testing.T) {
		matched, err := store.SetAllowed(ctx, institutionID, "Games", true)
		require.NoError(t, err)
		assert.True(t, matched)

		entries, err := store.ListByInstitution(ctx, institutionID)
		require.NoError(t, err)
		assert.True(t, entries[0].Allowed)
	})

	t.Run("unknown app is a miss, not an error", func(t *testing.T) {
		matched, err := store.SetAllowed(ctx, institutionID, "Fortnite", true)
		require.NoError(t, err)
		assert.False(t, matched)
	})

	t.Run("match is case-sensitive", func(t *testing.T) {
		matched, err := store.SetAllowed(ctx, institutionID, "games", false)
		require.NoError(t, err)
		assert.False(t, matched)
	})
}

func TestInMemorySetAllowedFirstMatchWins(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()
	institutionID := id.InstitutionID(uuid.New())

	first := newEntry(institutionID, "Notes", false)
	second := newEntry(institutionID, "Notes", false)
	require.NoError(t, store.CreateBatch(ctx, []*models.PolicyEntry{first, second}))

	matched, err := store.SetAllowed(ctx, institutionID, "Notes", true)
	require.NoError(t, err)
	assert.True(t, matched)

	entries, err := store.ListByInstitution(ctx, institutionID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, entries[0].Allowed)
	assert.False(t, entries[1].Allowed, "only the first duplicate may change")
}

func TestInMemoryListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()
	institutionID := id.InstitutionID(uuid.New())

	require.NoError(t, store.CreateBatch(ctx, []*models.PolicyEntry{newEntry(institutionID, "Notes", true)}))

	entries, err := store.ListByInstitution(ctx, institutionID)
	require.NoError(t, err)
	entries[0].Allowed = false

	again, err := store.ListByInstitution(ctx, institutionID)
	require.NoError(t, err)
	assert.True(t, again[0].Allowed, "mutating a returned entry must not affect the store")
}
