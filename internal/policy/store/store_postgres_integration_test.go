//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	institutionmodels "schoolgate/internal/institution/models"
	institutionstore "schoolgate/internal/institution/store"
	"schoolgate/internal/policy/models"
	id "schoolgate/pkg/domain"
	"schoolgate/pkg/platform/sentinel"
	"schoolgate/pkg/testutil/containers"
)

func TestPostgresPolicyStore(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	t.Cleanup(func() {
		_ = pg.DB.Close()
		_ = pg.Container.Terminate(context.Background())
	})

	ctx := context.Background()
	store := NewPostgres(pg.DB)
	institutions := institutionstore.NewPostgres(pg.DB)

	seedInstitution := func(t *testing.T) id.InstitutionID {
		t.Helper()
		institutionID := id.InstitutionID(uuid.New())
		institution, err := institutionmodels.NewInstitution(
			institutionID, "Riverside High", "", nil, nil, "", time.Now().UTC())
		require.NoError(t, err)
		require.NoError(t, institutions.Create(ctx, institution))
		return institutionID
	}

	entriesFromTemplate := func(institutionID id.InstitutionID) []*models.PolicyEntry {
		now := time.Now().UTC().Truncate(time.Microsecond)
		template := models.DefaultTemplate()
		out := make([]*models.PolicyEntry, 0, len(template))
		for i, item := range template {
			out = append(out, &models.PolicyEntry{
				ID:            id.PolicyEntryID(uuid.New()),
				InstitutionID: institutionID,
				AppName:       item.AppName,
				PackageName:   item.PackageName,
				Allowed:       item.Allowed,
				CreatedAt:     now.Add(time.Duration(i) * time.Microsecond),
				UpdatedAt:     now,
			})
		}
		return out
	}

	t.Run("batch insert and ordered list", func(t *testing.T) {
		require.NoError(t, pg.Truncate(ctx))
		institutionID := seedInstitution(t)

		require.NoError(t, store.CreateBatch(ctx, entriesFromTemplate(institutionID)))

		listed, err := store.ListByInstitution(ctx, institutionID)
		require.NoError(t, err)
		require.Len(t, listed, 7)
		assert.Equal(t, "Google Classroom", listed[0].AppName)
		assert.Equal(t, "Games", listed[6].AppName)
	})

	t.Run("second bootstrap hits the unique index", func(t *testing.T) {
		require.NoError(t, pg.Truncate(ctx))
		institutionID := seedInstitution(t)

		require.NoError(t, store.CreateBatch(ctx, entriesFromTemplate(institutionID)))
		err := store.CreateBatch(ctx, entriesFromTemplate(institutionID))
		require.ErrorIs(t, err, sentinel.ErrAlreadyUsed)

		listed, err := store.ListByInstitution(ctx, institutionID)
		require.NoError(t, err)
		assert.Len(t, listed, 7, "failed batch must roll back entirely")
	})

	t.Run("set allowed reports matches", func(t *testing.T) {
		require.NoError(t, pg.Truncate(ctx))
		institutionID := seedInstitution(t)
		require.NoError(t, store.CreateBatch(ctx, entriesFromTemplate(institutionID)))

		matched, err := store.SetAllowed(ctx, institutionID, "WhatsApp", true)
		require.NoError(t, err)
		assert.True(t, matched)

		matched, err = store.SetAllowed(ctx, institutionID, "whatsapp", false)
		require.NoError(t, err)
		assert.False(t, matched, "match is case-sensitive")

		matched, err = store.SetAllowed(ctx, institutionID, "TikTok", true)
		require.NoError(t, err)
		assert.False(t, matched)
	})
}
