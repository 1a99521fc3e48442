package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cryolab-data/internal/repository"

	"go.uber.org/zap"
)

func newMicroscopeTestRouter() *Router {
	logger := zap.NewNop()
	router := NewRouter(logger)
	router.RegisterMicroscopeRoutes(NewMicroscopeHandler(repository.NewMemoryMicroscopeRepo(), logger))
	return router
}

func TestMicroscopeSessions_CreateAndListBySession(t *testing.T) {
	router := newMicroscopeTestRouter()

	body := `{
	  "session_id": "prep-1",
	  "slot_number": 7,
	  "microscope": "Krios G4",
	  "operator": "alice",
	  "session_date": "2026-03-10",
	  "magnification": 105000,
	  "images_collected": 4200
	}`
	req := httptest.NewRequest(http.MethodPost, "/lab/api/v1/microscope-sessions", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/lab/api/v1/microscope-sessions?session_id=prep-1", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	resp := w.Body.String()
	if !strings.Contains(resp, `"microscope":"Krios G4"`) || !strings.Contains(resp, `"slot_number":7`) {
		t.Fatalf("expected created session in list, got: %s", resp)
	}
}

func TestMicroscopeSessions_SlotRange(t *testing.T) {
	router := newMicroscopeTestRouter()

	// holder positions run 1..12, not the 4-slot grid box range
	body := `{"session_id":"prep-1","slot_number":13,"microscope":"Krios G4","operator":"alice","session_date":"2026-03-10"}`
	req := httptest.NewRequest(http.MethodPost, "/lab/api/v1/microscope-sessions", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "slot_number must be between 1 and 12") {
		t.Fatalf("expected slot range error, got: %s", w.Body.String())
	}
}

func TestMicroscopeSessions_FilterAndDelete(t *testing.T) {
	router := newMicroscopeTestRouter()

	for _, b := range []string{
		`{"session_id":"prep-1","slot_number":1,"microscope":"Krios G4","operator":"alice","session_date":"2026-03-10"}`,
		`{"session_id":"prep-2","slot_number":2,"microscope":"Glacios","operator":"bob","session_date":"2026-03-11"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/lab/api/v1/microscope-sessions", strings.NewReader(b))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("seed failed: %d %s", w.Code, w.Body.String())
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/lab/api/v1/microscope-sessions?microscope=Glacios", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	body := w.Body.String()
	if !strings.Contains(body, `"total":1`) || !strings.Contains(body, "Glacios") || strings.Contains(body, "Krios") {
		t.Fatalf("expected only the Glacios session, got: %s", body)
	}

	var list struct {
		Result struct {
			Items []struct {
				MicroscopeSessionID string `json:"microscope_session_id"`
			} `json:"items"`
		} `json:"result"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil || len(list.Result.Items) != 1 {
		t.Fatalf("unmarshal list: %v (%s)", err, body)
	}

	req = httptest.NewRequest(http.MethodDelete, "/lab/api/v1/microscope-sessions/"+list.Result.Items[0].MicroscopeSessionID, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodDelete, "/lab/api/v1/microscope-sessions/"+list.Result.Items[0].MicroscopeSessionID, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", w.Code)
	}
}
