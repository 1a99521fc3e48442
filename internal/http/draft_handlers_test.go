package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cryolab-data/internal/store"

	"go.uber.org/zap"
)

type fakeKV struct {
	data map[string]string
}

func newFakeKV() *fakeKV { return &fakeKV{data: map[string]string{}} }

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", store.ErrMiss
	}
	return v, nil
}

func (f *fakeKV) Set(_ context.Context, key string, value string, _ time.Duration) error {
	f.data[key] = value
	return nil
}

func (f *fakeKV) Del(_ context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func (f *fakeKV) ScanKeys(_ context.Context, pattern string) ([]string, error) {
	prefix := strings.TrimSuffix(pattern, "*")
	var keys []string
	for k := range f.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func newDraftTestRouter(kv store.KV) *Router {
	logger := zap.NewNop()
	router := NewRouter(logger)
	router.RegisterDraftRoutes(NewDraftsHandler(kv, logger))
	return router
}

func TestDrafts_SaveLoadDelete(t *testing.T) {
	kv := newFakeKV()
	router := newDraftTestRouter(kv)

	draft := `{"session":{"user_name":"alice"},"grids":[{"slot_number":1}]}`
	req := httptest.NewRequest(http.MethodPut, "/lab/api/v1/drafts/alice/session-entry", strings.NewReader(draft))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/lab/api/v1/drafts/alice/session-entry", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	// the blob comes back untouched: drafts are never validated
	if !strings.Contains(w.Body.String(), `"user_name":"alice"`) {
		t.Fatalf("expected draft content, got: %s", w.Body.String())
	}

	req = httptest.NewRequest(http.MethodDelete, "/lab/api/v1/drafts/alice/session-entry", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/lab/api/v1/drafts/alice/session-entry", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
}

func TestDrafts_InvalidJSONRejected(t *testing.T) {
	router := newDraftTestRouter(newFakeKV())

	req := httptest.NewRequest(http.MethodPut, "/lab/api/v1/drafts/alice/session-entry", strings.NewReader(`{not json`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDrafts_ListByUser(t *testing.T) {
	kv := newFakeKV()
	router := newDraftTestRouter(kv)

	for _, form := range []string{"session-entry", "grid-type"} {
		req := httptest.NewRequest(http.MethodPut, "/lab/api/v1/drafts/alice/"+form, strings.NewReader(`{}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("seed failed for %s: %d", form, w.Code)
		}
	}
	// another user's draft must not leak into alice's list
	req := httptest.NewRequest(http.MethodPut, "/lab/api/v1/drafts/bob/session-entry", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	req = httptest.NewRequest(http.MethodGet, "/lab/api/v1/drafts?user=alice", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, "session-entry") || !strings.Contains(body, "grid-type") {
		t.Fatalf("expected both forms, got: %s", body)
	}
	if strings.Count(body, "session-entry") != 1 {
		t.Fatalf("bob's draft leaked into alice's list: %s", body)
	}

	// user query param is mandatory
	req = httptest.NewRequest(http.MethodGet, "/lab/api/v1/drafts", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without user, got %d", w.Code)
	}
}
