//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolgate/internal/institution/models"
	id "schoolgate/pkg/domain"
	"schoolgate/pkg/platform/sentinel"
	"schoolgate/pkg/testutil/containers"
)

func TestPostgresInstitutionStore(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	t.Cleanup(func() {
		_ = pg.DB.Close()
		_ = pg.Container.Terminate(context.Background())
	})

	ctx := context.Background()
	store := NewPostgres(pg.DB)

	t.Run("create and find with anchor", func(t *testing.T) {
		require.NoError(t, pg.Truncate(ctx))
		institution, err := models.NewInstitution(
			id.InstitutionID(uuid.New()), "Riverside High", "12 River Rd",
			f(40.7128), f(-74.0060), "SchoolWiFi", time.Now().UTC().Truncate(time.Microsecond))
		require.NoError(t, err)

		require.NoError(t, store.Create(ctx, institution))

		found, err := store.FindByID(ctx, institution.ID)
		require.NoError(t, err)
		assert.Equal(t, institution.Name, found.Name)
		assert.Equal(t, institution.TrustedSSID, found.TrustedSSID)
		lat, lon, ok := found.Anchor()
		require.True(t, ok)
		assert.Equal(t, 40.7128, lat)
		assert.Equal(t, -74.0060, lon)
	})

	t.Run("create without anchor stores nulls", func(t *testing.T) {
		require.NoError(t, pg.Truncate(ctx))
		institution, err := models.NewInstitution(
			id.InstitutionID(uuid.New()), "Hillside Prep", "", nil, nil, "", time.Now().UTC())
		require.NoError(t, err)

		require.NoError(t, store.Create(ctx, institution))

		found, err := store.FindByID(ctx, institution.ID)
		require.NoError(t, err)
		_, _, ok := found.Anchor()
		assert.False(t, ok)
	})

	t.Run("duplicate id conflicts", func(t *testing.T) {
		require.NoError(t, pg.Truncate(ctx))
		institution, err := models.NewInstitution(
			id.InstitutionID(uuid.New()), "Riverside High", "", nil, nil, "", time.Now().UTC())
		require.NoError(t, err)

		require.NoError(t, store.Create(ctx, institution))
		require.ErrorIs(t, store.Create(ctx, institution), sentinel.ErrConflict)
	})

	t.Run("missing row maps to ErrNotFound", func(t *testing.T) {
		_, err := store.FindByID(ctx, id.InstitutionID(uuid.New()))
		require.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}
