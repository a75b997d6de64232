package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mtp-backend/application/ports"
	"mtp-backend/application/services"
	"mtp-backend/infrastructure/config"
	"mtp-backend/pkg/auth"
	apperrors "mtp-backend/pkg/errors"
	"mtp-backend/pkg/observability"
)

// memStore is an in-memory ports.Store backing the end-to-end tests
type memStore struct {
	items map[string]map[string]interface{}
}

func newMemStore() *memStore {
	return &memStore{items: map[string]map[string]interface{}{}}
}

func (m *memStore) key(pk, sk string) string { return pk + "|" + sk }

func (m *memStore) PutItemIfAbsent(ctx context.Context, item map[string]interface{}) error {
	key := m.key(item["PK"].(string), item["SK"].(string))
	if _, exists := m.items[key]; exists {
		return apperrors.NewConflictError("Item already exists")
	}
	m.items[key] = item
	return nil
}

func (m *memStore) GetItem(ctx context.Context, pk, sk string) (map[string]interface{}, error) {
	item, ok := m.items[m.key(pk, sk)]
	if !ok {
		return nil, nil
	}
	return item, nil
}

func (m *memStore) DeleteItem(ctx context.Context, pk, sk string) error {
	delete(m.items, m.key(pk, sk))
	return nil
}

func (m *memStore) UpdateItem(ctx context.Context, pk, sk string, set map[string]interface{}) (map[string]interface{}, error) {
	item, ok := m.items[m.key(pk, sk)]
	if !ok {
		return nil, apperrors.NewNotFoundError("Item")
	}
	for name, value := range set {
		item[name] = value
	}
	return item, nil
}

func (m *memStore) QueryByPartition(ctx context.Context, pk, skPrefix string, limit int32, lastKey string) (*ports.Page, error) {
	items := []map[string]interface{}{}
	for _, item := range m.items {
		if item["PK"] == pk && strings.HasPrefix(item["SK"].(string), skPrefix) {
			items = append(items, item)
		}
	}
	return &ports.Page{Items: items}, nil
}

func (m *memStore) QueryGSI1(ctx context.Context, gsi1pk string, limit int32, lastKey string) (*ports.Page, error) {
	items := []map[string]interface{}{}
	for _, item := range m.items {
		if item["GSI1PK"] == gsi1pk {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		a, _ := items[i]["GSI1SK"].(string)
		b, _ := items[j]["GSI1SK"].(string)
		return a > b
	})
	if limit > 0 && int(limit) < len(items) {
		items = items[:limit]
	}
	return &ports.Page{Items: items}, nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(ctx context.Context, detailType string, detail interface{}) {}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	logger := zap.NewNop()
	store := newMemStore()
	events := nopPublisher{}

	cfg := &config.Config{
		Environment:   "development",
		DynamoDBTable: "mtp_app",
		IndexName:     "GSI1",
		DevMode:       true,
		DevUserHeader: auth.DefaultDevUserHeader,
	}

	router := NewRouter(
		services.NewNoteService(store, events, logger),
		services.NewStrategyService(store, events, logger),
		services.NewReportService(store, logger),
		auth.NewResolver(cfg.DevMode, cfg.DevUserHeader),
		observability.NewCollector(),
		cfg,
		logger,
	)
	return router.Setup()
}

func doJSON(t *testing.T, handler http.Handler, method, path, user string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set(auth.DefaultDevUserHeader, user)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	body := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRouter_UnauthenticatedRejected(t *testing.T) {
	// Arrange
	handler := newTestHandler(t)

	// Act
	rec := doJSON(t, handler, "GET", "/v1/notes", "", nil)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized", decodeBody(t, rec)["message"])
}

func TestRouter_UnknownRoute(t *testing.T) {
	// Arrange
	handler := newTestHandler(t)

	// Act
	rec := doJSON(t, handler, "GET", "/v1/nothing-here", "trader1", nil)

	// Assert
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found", decodeBody(t, rec)["message"])
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	// Arrange
	handler := newTestHandler(t)

	// Act
	rec := doJSON(t, handler, "DELETE", "/v1/health", "", nil)

	// Assert
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "Method not allowed", decodeBody(t, rec)["message"])
}

func TestRouter_HealthOpen(t *testing.T) {
	// Arrange
	handler := newTestHandler(t)

	// Act
	rec := doJSON(t, handler, "GET", "/v1/health", "", nil)

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "1.0.0", body["version"])

	env := body["environment"].(map[string]interface{})
	assert.Equal(t, true, env["table_name_configured"])
	assert.Equal(t, true, env["dev_mode"])
	assert.Contains(t, body, "metrics")
}

func TestRouter_MetricsOpen(t *testing.T) {
	// Arrange
	handler := newTestHandler(t)

	// Act
	rec := doJSON(t, handler, "GET", "/v1/metrics", "", nil)

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; version=0.0.4", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "# TYPE requests_total gauge")
}

func TestRouter_NoteLifecycle(t *testing.T) {
	// Arrange
	handler := newTestHandler(t)

	// Act: create
	rec := doJSON(t, handler, "POST", "/v1/notes", "trader1", map[string]interface{}{
		"date":       "2026-08-01",
		"text":       "Long EURUSD off the London open",
		"session":    "LONDON",
		"hit_miss":   "HIT",
		"win_amount": 125.5,
	})

	// Assert: create
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody(t, rec)
	assert.Equal(t, "Note created successfully", created["message"])
	noteID := created["noteId"].(string)
	require.NotEmpty(t, noteID)

	// Act: get
	rec = doJSON(t, handler, "GET", "/v1/notes/"+noteID, "trader1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	note := decodeBody(t, rec)["note"].(map[string]interface{})
	assert.Equal(t, "2026-08-01", note["date"])
	assert.Equal(t, "LONDON", note["session"])

	// Act: list
	rec = doJSON(t, handler, "GET", "/v1/notes", "trader1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	notes := decodeBody(t, rec)["notes"].([]interface{})
	assert.Len(t, notes, 1)

	// Act: update
	rec = doJSON(t, handler, "PUT", "/v1/notes/"+noteID, "trader1", map[string]interface{}{
		"text": "Revised after review",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeBody(t, rec)
	assert.Equal(t, "Note updated successfully", updated["message"])
	assert.Equal(t, "Revised after review", updated["note"].(map[string]interface{})["text"])

	// Act: delete
	rec = doJSON(t, handler, "DELETE", "/v1/notes/"+noteID, "trader1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Note deleted successfully", decodeBody(t, rec)["message"])

	// Act: get after delete
	rec = doJSON(t, handler, "GET", "/v1/notes/"+noteID, "trader1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Note not found", decodeBody(t, rec)["message"])
}

func TestRouter_NoteValidation(t *testing.T) {
	// Arrange
	handler := newTestHandler(t)

	// Act
	rec := doJSON(t, handler, "POST", "/v1/notes", "trader1", map[string]interface{}{
		"date": "2026-08-01",
	})

	// Assert
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["message"], "Validation error")
}

func TestRouter_NotesScopedPerUser(t *testing.T) {
	// Arrange
	handler := newTestHandler(t)
	rec := doJSON(t, handler, "POST", "/v1/notes", "trader1", map[string]interface{}{
		"date": "2026-08-01", "text": "private",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	noteID := decodeBody(t, rec)["noteId"].(string)

	// Act
	rec = doJSON(t, handler, "GET", "/v1/notes/"+noteID, "trader2", nil)

	// Assert
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_StrategyLifecycle(t *testing.T) {
	// Arrange
	handler := newTestHandler(t)

	// Act: create
	rec := doJSON(t, handler, "POST", "/v1/strategies", "trader1", map[string]interface{}{
		"name":      "Breakout",
		"market":    "EURUSD",
		"timeframe": "H1",
		"dsl":       map[string]interface{}{"entry": "close > high[1]"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody(t, rec)
	assert.Equal(t, "Strategy created successfully", created["message"])
	strategyID := created["strategyId"].(string)

	// Act: get, the dsl must come back structured
	rec = doJSON(t, handler, "GET", "/v1/strategies/"+strategyID, "trader1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	strategy := decodeBody(t, rec)["strategy"].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"entry": "close > high[1]"}, strategy["dsl"])

	// Act: list
	rec = doJSON(t, handler, "GET", "/v1/strategies", "trader1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	strategies := decodeBody(t, rec)["strategies"].([]interface{})
	assert.Len(t, strategies, 1)

	// Act: delete
	rec = doJSON(t, handler, "DELETE", "/v1/strategies/"+strategyID, "trader1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Strategy deleted successfully", decodeBody(t, rec)["message"])
}

func TestRouter_StrategyValidation(t *testing.T) {
	// Arrange
	handler := newTestHandler(t)

	// Act
	rec := doJSON(t, handler, "POST", "/v1/strategies", "trader1", map[string]interface{}{
		"name": "No market",
	})

	// Assert
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_NotesSummaryReport(t *testing.T) {
	// Arrange
	handler := newTestHandler(t)
	seed := []map[string]interface{}{
		{"date": "2026-08-01", "text": "a", "hit_miss": "HIT", "session": "LONDON", "win_amount": 150.0},
		{"date": "2026-08-02", "text": "b", "hit_miss": "HIT", "session": "NY", "win_amount": 50.0},
		{"date": "2026-08-03", "text": "c", "hit_miss": "MISS", "session": "LONDON"},
	}
	for _, fields := range seed {
		rec := doJSON(t, handler, "POST", "/v1/notes", "trader1", fields)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	// Act
	rec := doJSON(t, handler, "GET", "/v1/reports/notes-summary?from=2026-08-01&to=2026-08-31", "trader1", nil)

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decodeBody(t, rec)["summary"].(map[string]interface{})
	assert.Equal(t, float64(3), summary["totalNotes"])
	assert.Equal(t, map[string]interface{}{"HIT": float64(2), "MISS": float64(1)}, summary["byHitMiss"])
	assert.Equal(t, float64(100), summary["averageWinAmount"])
}
