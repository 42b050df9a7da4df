package store

import (
	"context"
	"testing"

	"github.com/prajwal-kadam12/reqgen/internal/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationAllTargetsAdminAndAnalystOnly(t *testing.T) {
	memory := NewMemoryStore()
	notifications := memory.Notifications()
	ctx := context.Background()

	require.NoError(t, notifications.Create(ctx, &models.Notification{
		ID:         "n1",
		Title:      "Document approved",
		TargetRole: models.TargetAll,
	}))

	for _, role := range []models.UserRole{models.RoleAdmin, models.RoleAnalyst} {
		got, err := notifications.ListForRole(ctx, role)
		require.NoError(t, err)
		assert.Len(t, got, 1, "role %s should see 'all' notifications", role)
	}

	got, err := notifications.ListForRole(ctx, models.RoleClient)
	require.NoError(t, err)
	assert.Empty(t, got, "client must not see 'all' notifications")
}

func TestDocumentUpdateUnknownColumnIgnored(t *testing.T) {
	memory := NewMemoryStore()
	documents := memory.Documents()
	ctx := context.Background()

	require.NoError(t, documents.Create(ctx, &models.Document{ID: "d1", Name: "BRD", Status: models.StatusPending}))

	doc, err := documents.Update(ctx, "d1", map[string]any{
		"status":     string(models.StatusApproved),
		"created_by": "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, doc.Status)
	assert.Empty(t, doc.CreatedBy)
}

func TestDocumentStoreNotFound(t *testing.T) {
	memory := NewMemoryStore()
	ctx := context.Background()

	_, err := memory.Documents().Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = memory.Documents().Update(ctx, "missing", map[string]any{"name": "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, memory.Documents().Delete(ctx, "missing"), ErrNotFound)
}

func TestSettingsDefaultAndRoundTrip(t *testing.T) {
	memory := NewMemoryStore()
	settings := memory.Settings()
	ctx := context.Background()

	got, err := settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ReqGen", got.CompanyName)

	require.NoError(t, settings.Put(ctx, &models.Settings{CompanyName: "Acme", DefaultLanguage: "mr"}))
	got, err = settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.CompanyName)
	assert.Equal(t, "mr", got.DefaultLanguage)
}
