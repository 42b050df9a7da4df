package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prajwal-kadam12/reqgen/internal/api/middleware"
	"github.com/prajwal-kadam12/reqgen/internal/db/models"
	"github.com/prajwal-kadam12/reqgen/internal/store"
	"github.com/prajwal-kadam12/reqgen/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type documentTestEnv struct {
	engine *gin.Engine
	memory *store.MemoryStore
}

func newDocumentTestEnv(t *testing.T) *documentTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	memory := store.NewMemoryStore()
	h := NewDocumentHandler(memory.Documents(), memory.Notifications(), zap.NewNop(), metrics.NewMetricsCollector())
	am := middleware.NewAuthMiddleware(zap.NewNop())

	anyRole := am.RequireRole(models.RoleAdmin, models.RoleAnalyst, models.RoleClient)
	staffOnly := am.RequireRole(models.RoleAdmin, models.RoleAnalyst)

	engine := gin.New()
	engine.POST("/api/documents", staffOnly, h.CreateDocument)
	engine.GET("/api/documents", anyRole, h.ListDocuments)
	engine.GET("/api/documents/:id", anyRole, h.GetDocument)
	engine.PATCH("/api/documents/:id", anyRole, h.UpdateDocument)
	engine.DELETE("/api/documents/:id", staffOnly, h.DeleteDocument)

	return &documentTestEnv{engine: engine, memory: memory}
}

func (env *documentTestEnv) do(t *testing.T, method, path, role string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set(middleware.HeaderUserRole, role)
		req.Header.Set(middleware.HeaderUserEmail, role+"@reqgen.app")
	}
	rec := httptest.NewRecorder()
	env.engine.ServeHTTP(rec, req)
	return rec
}

func (env *documentTestEnv) createDocument(t *testing.T) models.Document {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/documents", "analyst", gin.H{
		"name":    "Payments BRD",
		"type":    "brd",
		"content": "<h1>Payments</h1>",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var doc models.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	return doc
}

func (env *documentTestEnv) notificationsFor(t *testing.T, role models.UserRole) []models.Notification {
	t.Helper()
	ns, err := env.memory.Notifications().ListForRole(context.Background(), role)
	require.NoError(t, err)
	return ns
}

func TestCreateDocumentValidation(t *testing.T) {
	env := newDocumentTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/documents", "admin", gin.H{"type": "brd"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid data")

	rec = env.do(t, http.MethodPost, "/api/documents", "admin", gin.H{"name": "X", "type": "resume"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateDocumentRoleGate(t *testing.T) {
	env := newDocumentTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/documents", "client", gin.H{"name": "X"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/documents", "", gin.H{"name": "X"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetDocumentNotFound(t *testing.T) {
	env := newDocumentTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/documents/no-such-id", "admin", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestClientUpdateNarrowedToAllowedFields(t *testing.T) {
	env := newDocumentTestEnv(t)
	doc := env.createDocument(t)

	rec := env.do(t, http.MethodPatch, "/api/documents/"+doc.ID, "client", gin.H{
		"status":        "approved",
		"clientMessage": "Looks good",
		"name":          "Hijacked name",
		"content":       "<script>alert(1)</script>",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, models.StatusApproved, updated.Status)
	assert.Equal(t, "Looks good", updated.ClientMessage)
	assert.Equal(t, "Payments BRD", updated.Name, "client update must drop the name field")
	assert.Equal(t, "<h1>Payments</h1>", updated.Content, "client update must drop the content field")
}

func TestClientUpdateRejectsDisallowedStatus(t *testing.T) {
	env := newDocumentTestEnv(t)
	doc := env.createDocument(t)

	rec := env.do(t, http.MethodPatch, "/api/documents/"+doc.ID, "client", gin.H{"status": "draft"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid status value")
}

func TestClientApprovalCreatesOneNotification(t *testing.T) {
	env := newDocumentTestEnv(t)
	doc := env.createDocument(t)

	rec := env.do(t, http.MethodPatch, "/api/documents/"+doc.ID, "client", gin.H{"status": "approved"})
	require.Equal(t, http.StatusOK, rec.Code)

	ns := env.notificationsFor(t, models.RoleAdmin)
	require.Len(t, ns, 1)
	assert.Equal(t, models.TargetAll, ns[0].TargetRole)
	assert.Equal(t, doc.ID, ns[0].DocumentID)
	assert.Equal(t, doc.Name, ns[0].DocumentName)
	assert.Equal(t, models.RoleClient, ns[0].CreatorRole)

	// The "all" audience resolves to admin and analyst, never client.
	assert.Len(t, env.notificationsFor(t, models.RoleAnalyst), 1)
	assert.Empty(t, env.notificationsFor(t, models.RoleClient))
}

func TestClientNeedsChangesCreatesNotificationWithMessage(t *testing.T) {
	env := newDocumentTestEnv(t)
	doc := env.createDocument(t)

	rec := env.do(t, http.MethodPatch, "/api/documents/"+doc.ID, "client", gin.H{
		"status":        "needs_changes",
		"clientMessage": "Section 2 is wrong",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	ns := env.notificationsFor(t, models.RoleAdmin)
	require.Len(t, ns, 1)
	assert.Equal(t, "Changes requested", ns[0].Title)
	assert.Contains(t, ns[0].Message, "Section 2 is wrong")
}

func TestClientPendingUpdateCreatesNoNotification(t *testing.T) {
	env := newDocumentTestEnv(t)
	doc := env.createDocument(t)

	rec := env.do(t, http.MethodPatch, "/api/documents/"+doc.ID, "client", gin.H{"status": "pending"})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Empty(t, env.notificationsFor(t, models.RoleAdmin))
}

func TestStaffUpdatePassesFieldsAndSkipsNotification(t *testing.T) {
	env := newDocumentTestEnv(t)
	doc := env.createDocument(t)

	rec := env.do(t, http.MethodPatch, "/api/documents/"+doc.ID, "analyst", gin.H{
		"name":    "Payments BRD v2",
		"content": "<h1>Payments v2</h1>",
		"status":  "approved",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "Payments BRD v2", updated.Name)
	assert.Equal(t, models.StatusApproved, updated.Status)

	// Only client-initiated transitions notify.
	assert.Empty(t, env.notificationsFor(t, models.RoleAdmin))
}

func TestUpdateDocumentNotFound(t *testing.T) {
	env := newDocumentTestEnv(t)

	rec := env.do(t, http.MethodPatch, "/api/documents/missing", "admin", gin.H{"name": "X"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteDocument(t *testing.T) {
	env := newDocumentTestEnv(t)
	doc := env.createDocument(t)

	rec := env.do(t, http.MethodDelete, "/api/documents/"+doc.ID, "admin", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/documents/"+doc.ID, "admin", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/documents/"+doc.ID, "admin", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
