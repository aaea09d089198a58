package integration

import (
	"context"
	"testing"
	"time"

	"github.com/dimitrije/securevault-api/internal/services"
	"github.com/dimitrije/securevault-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVaultService_Integration_OwnerIsolation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewVaultService(tdb.DB)
	ctx := context.Background()

	alice := fixtures.CreateAccount(t)
	bob := fixtures.CreateAccount(t)

	record, err := svc.Create(ctx, alice.ID, services.VaultRecordInput{Title: "bank", SecretValue: "x"})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, record.OwnerID)
	assert.Equal(t, "Other", record.Category)

	bobsView, err := svc.List(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, bobsView)

	title := "stolen"
	_, err = svc.Update(ctx, bob.ID, record.ID, services.VaultRecordPatch{Title: &title})
	assert.ErrorIs(t, err, services.ErrVaultRecordNotFound)

	deleted, err := svc.Delete(ctx, bob.ID, record.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	alicesView, err := svc.List(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, alicesView, 1)
	assert.Equal(t, "bank", alicesView[0].Title)
}

func TestVaultService_Integration_UpdateAndOrdering(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewVaultService(tdb.DB)
	ctx := context.Background()

	owner := fixtures.CreateAccount(t)
	first := fixtures.CreateVaultRecord(t, owner.ID, testutil.WithTitle("first"))
	fixtures.CreateVaultRecord(t, owner.ID, testutil.WithTitle("second"))

	time.Sleep(10 * time.Millisecond)

	notes := "rotated"
	updated, err := svc.Update(ctx, owner.ID, first.ID, services.VaultRecordPatch{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "first", updated.Title)
	assert.Equal(t, first.SecretValue, updated.SecretValue)
	assert.Equal(t, "rotated", updated.Notes)
	assert.True(t, updated.UpdatedAt.After(first.UpdatedAt))

	records, err := svc.List(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "first", records[0].Title)

	deleted, err := svc.Delete(ctx, owner.ID, first.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	records, err = svc.List(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
