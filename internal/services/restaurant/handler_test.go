package restaurant

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-ordering/internal/database"
	"restaurant-ordering/internal/logger"
	"restaurant-ordering/internal/models"
)

type memoryStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]models.Restaurant
	err    error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{rows: make(map[int64]models.Restaurant)}
}

func (m *memoryStore) List(ctx context.Context) ([]models.Restaurant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]models.Restaurant, 0, len(m.rows))
	for _, r := range m.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memoryStore) Get(ctx context.Context, id int64) (*models.Restaurant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	r, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *memoryStore) Insert(ctx context.Context, name string, address *string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	m.nextID++
	m.rows[m.nextID] = models.Restaurant{ID: m.nextID, Name: name, Address: address}
	return m.nextID, nil
}

func (m *memoryStore) Update(ctx context.Context, id int64, name string, address *string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	if _, ok := m.rows[id]; !ok {
		return 0, nil
	}
	m.rows[id] = models.Restaurant{ID: id, Name: name, Address: address}
	return 1, nil
}

func (m *memoryStore) Delete(ctx context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	if _, ok := m.rows[id]; !ok {
		return 0, nil
	}
	delete(m.rows, id)
	return 1, nil
}

func newTestServer(t *testing.T, store Store) *httptest.Server {
	t.Helper()
	log := logger.NewWithWriter("test", io.Discard, "error")
	mux := http.NewServeMux()
	NewHandler(NewService(store), log).RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rdr)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func TestCreateRestaurant(t *testing.T) {
	srv := newTestServer(t, newMemoryStore())

	resp, body := do(t, http.MethodPost, srv.URL+"/api/restaurants", `{"name":"Dosa Hut","address":"MG Road"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.EqualValues(t, 1, body["id"])
	assert.Equal(t, "Dosa Hut", body["name"])
	assert.Equal(t, "MG Road", body["address"])
}

func TestCreateRestaurant_AddressOptional(t *testing.T) {
	srv := newTestServer(t, newMemoryStore())

	for _, payload := range []string{`{"name":"A"}`, `{"name":"A","address":""}`} {
		resp, body := do(t, http.MethodPost, srv.URL+"/api/restaurants", payload)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Contains(t, body, "address")
		assert.Nil(t, body["address"])
	}
}

func TestCreateRestaurant_NameRequired(t *testing.T) {
	store := newMemoryStore()
	srv := newTestServer(t, store)

	for _, payload := range []string{`{"address":"X"}`, `{"name":"","address":"X"}`, ``} {
		resp, body := do(t, http.MethodPost, srv.URL+"/api/restaurants", payload)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "name is required", body["error"])
	}
	assert.Empty(t, store.rows)
}

func TestCreateRestaurant_InvalidJSON(t *testing.T) {
	srv := newTestServer(t, newMemoryStore())
	resp, body := do(t, http.MethodPost, srv.URL+"/api/restaurants", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid JSON format", body["error"])
}

func TestListRestaurants_NewestFirst(t *testing.T) {
	store := newMemoryStore()
	srv := newTestServer(t, store)
	for _, name := range []string{"first", "second", "third"} {
		_, err := store.Insert(context.Background(), name, nil)
		require.NoError(t, err)
	}

	resp, err := http.Get(srv.URL + "/api/restaurants")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []models.Restaurant
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 3)
	assert.Equal(t, []string{"third", "second", "first"}, []string{list[0].Name, list[1].Name, list[2].Name})
}

func TestListRestaurants_EmptyIsArray(t *testing.T) {
	srv := newTestServer(t, newMemoryStore())
	resp, err := http.Get(srv.URL + "/api/restaurants")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestGetRestaurant(t *testing.T) {
	store := newMemoryStore()
	srv := newTestServer(t, store)
	id, _ := store.Insert(context.Background(), "Thali House", nil)

	tests := []struct {
		name   string
		path   string
		status int
		errMsg string
	}{
		{"existing", "/api/restaurants/1", http.StatusOK, ""},
		{"missing", "/api/restaurants/999", http.StatusNotFound, "Not found"},
		{"non numeric", "/api/restaurants/abc", http.StatusNotFound, "Not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, http.MethodGet, srv.URL+tt.path, "")
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.errMsg != "" {
				assert.Equal(t, tt.errMsg, body["error"])
				return
			}
			assert.EqualValues(t, id, body["id"])
		})
	}
}

func TestUpdateRestaurant(t *testing.T) {
	store := newMemoryStore()
	srv := newTestServer(t, store)
	_, _ = store.Insert(context.Background(), "Old", nil)

	resp, body := do(t, http.MethodPut, srv.URL+"/api/restaurants/1", `{"name":"New","address":"Ring Road"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "New", body["name"])
	assert.Equal(t, "Ring Road", *store.rows[1].Address)

	resp, body = do(t, http.MethodPut, srv.URL+"/api/restaurants/42", `{"name":"New"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Not found", body["error"])

	resp, body = do(t, http.MethodPut, srv.URL+"/api/restaurants/1", `{"address":"Y"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "name is required", body["error"])
}

func TestDeleteRestaurant(t *testing.T) {
	store := newMemoryStore()
	srv := newTestServer(t, store)
	_, _ = store.Insert(context.Background(), "Gone soon", nil)

	resp, _ := do(t, http.MethodDelete, srv.URL+"/api/restaurants/1", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, store.rows)

	resp, body := do(t, http.MethodDelete, srv.URL+"/api/restaurants/1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Not found", body["error"])
}

func TestStorageFailureIs500WithMessage(t *testing.T) {
	store := newMemoryStore()
	store.err = &database.DataAccessError{Op: "query_all", Err: errors.New("connection refused")}
	srv := newTestServer(t, store)

	resp, body := do(t, http.MethodGet, srv.URL+"/api/restaurants", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "connection refused", body["error"])

	resp, body = do(t, http.MethodPost, srv.URL+"/api/restaurants", `{"name":"X"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "connection refused", body["error"])
}
