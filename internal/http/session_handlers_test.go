package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cryolab-data/internal/repository"
	"cryolab-data/internal/service"

	"go.uber.org/zap"
)

func newSessionTestRouter() *Router {
	logger := zap.NewNop()
	repo := repository.NewMemorySessionsRepo()
	svc := service.NewSessionService(repo, nil, logger)
	router := NewRouter(logger)
	router.RegisterSessionRoutes(NewSessionsHandler(svc, logger))
	return router
}

const validSessionBody = `{
  "session": {"user_name":"alice","date":"2026-03-05","grid_box_name":"Box-A1"},
  "sample": {"sample_name":"apoferritin","default_volume_ul":"4"},
  "vitrobot_settings": {"humidity_percent":"95","blot_force":"15"},
  "grids": [
    {"slot_number":"1","include_in_session":true},
    {"slot_number":"2","include_in_session":false}
  ]
}`

func TestSessions_CreateAndGet(t *testing.T) {
	router := newSessionTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/lab/api/v1/sessions", strings.NewReader(validSessionBody))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created struct {
		Success bool `json:"success"`
		Result  struct {
			SessionID string `json:"session_id"`
		} `json:"result"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !created.Success || created.Result.SessionID == "" {
		t.Fatalf("expected success with session_id, got: %s", w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/lab/api/v1/sessions/"+created.Result.SessionID, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, `"user_name":"alice"`) {
		t.Fatalf("expected session in body, got: %s", body)
	}
	// slot 1 resolves blot force from the session default, slot 2 is unused
	if !strings.Contains(body, `"blot_force":"15"`) {
		t.Fatalf("expected resolved blot force, got: %s", body)
	}
	if !strings.Contains(body, `"blot_force":"Slot not used"`) {
		t.Fatalf("expected unused slot sentinel, got: %s", body)
	}
}

func TestSessions_CreateValidationFailure(t *testing.T) {
	router := newSessionTestRouter()

	body := `{
	  "session": {"user_name":"","date":"invalid-date","grid_box_name":"Box"},
	  "grids": [{"slot_number":"not a number"}]
	}`
	req := httptest.NewRequest(http.MethodPost, "/lab/api/v1/sessions", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Success bool     `json:"success"`
		Message string   `json:"message"`
		Errors  []string `json:"errors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Success || resp.Message != "Validation failed" {
		t.Fatalf("expected validation failure envelope, got: %s", w.Body.String())
	}
	for _, msg := range []string{
		"Session: user_name is required",
		"Session: date must be a valid date",
		"Grid 1: slot_number must be a valid integer",
	} {
		found := false
		for _, e := range resp.Errors {
			if e == msg {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("missing error %q in %v", msg, resp.Errors)
		}
	}
}

func TestSessions_GetUnknownIs404(t *testing.T) {
	router := newSessionTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/lab/api/v1/sessions/no-such-id", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSessions_TrashSlot(t *testing.T) {
	router := newSessionTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/lab/api/v1/sessions", strings.NewReader(validSessionBody))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var created struct {
		Result struct {
			SessionID string `json:"session_id"`
		} `json:"result"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &created)
	id := created.Result.SessionID

	req = httptest.NewRequest(http.MethodPost, "/lab/api/v1/sessions/"+id+"/slots/1/trash", strings.NewReader(`{"trashed":true}`))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/lab/api/v1/sessions/"+id, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if !strings.Contains(w.Body.String(), `"trashed":true`) {
		t.Fatalf("expected trashed slot, got: %s", w.Body.String())
	}

	// unknown slot number
	req = httptest.NewRequest(http.MethodPost, "/lab/api/v1/sessions/"+id+"/slots/4/trash", strings.NewReader(`{"trashed":true}`))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown slot, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSessions_ListFilters(t *testing.T) {
	router := newSessionTestRouter()

	for _, body := range []string{
		`{"session":{"user_name":"alice","date":"2026-03-05","grid_box_name":"Box-A1"},"grids":[]}`,
		`{"session":{"user_name":"bob","date":"2026-03-06","grid_box_name":"Box-B7"},"grids":[]}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/lab/api/v1/sessions", strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("seed failed: %d %s", w.Code, w.Body.String())
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/lab/api/v1/sessions?user_name=alice", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	body := w.Body.String()
	if !strings.Contains(body, `"total":1`) || !strings.Contains(body, "Box-A1") || strings.Contains(body, "Box-B7") {
		t.Fatalf("expected only alice's session, got: %s", body)
	}
}

func TestSessions_ExportReturnsWorkbook(t *testing.T) {
	router := newSessionTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/lab/api/v1/sessions", strings.NewReader(validSessionBody))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var created struct {
		Result struct {
			SessionID string `json:"session_id"`
		} `json:"result"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &created)

	req = httptest.NewRequest(http.MethodGet, "/lab/api/v1/sessions/"+created.Result.SessionID+"/export", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Fatalf("expected xlsx content type, got %q", ct)
	}
	// xlsx files are zip archives
	if body := w.Body.Bytes(); len(body) < 4 || body[0] != 'P' || body[1] != 'K' {
		t.Fatalf("expected zip magic in export body")
	}
}
