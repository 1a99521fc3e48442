package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cryolab-data/internal/store"

	"go.uber.org/zap"
)

const (
	draftsPrefix = "/lab/api/v1/drafts"

	draftKeyPrefix = "cryolab:draft"
	draftTTL       = 24 * time.Hour
)

// DraftsHandler 表单草稿自动保存 HTTP 入口
// Drafts are opaque JSON blobs keyed by (user, form); they are never
// validated — a half-filled form is the whole point. Redis TTL handles
// expiry, so abandoned drafts clean themselves up.
type DraftsHandler struct {
	kv     store.KV
	logger *zap.Logger
}

func NewDraftsHandler(kv store.KV, logger *zap.Logger) *DraftsHandler {
	return &DraftsHandler{kv: kv, logger: logger}
}

func draftKey(user, form string) string {
	return fmt.Sprintf("%s:%s:%s", draftKeyPrefix, user, form)
}

// Handle serves /lab/api/v1/drafts/{user}/{form}.
func (h *DraftsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, draftsPrefix+"/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	user, form := parts[0], parts[1]

	switch r.Method {
	case http.MethodGet:
		val, err := h.kv.Get(r.Context(), draftKey(user, form))
		if err != nil {
			if errors.Is(err, store.ErrMiss) {
				writeJSON(w, http.StatusNotFound, Fail("draft not found"))
				return
			}
			h.logger.Error("draft read failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, Fail("failed to read draft"))
			return
		}
		writeJSON(w, http.StatusOK, Ok(json.RawMessage(val)))
	case http.MethodPut:
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
			return
		}
		if !json.Valid(body) {
			writeJSON(w, http.StatusBadRequest, Fail("draft must be valid JSON"))
			return
		}
		if err := h.kv.Set(r.Context(), draftKey(user, form), string(body), draftTTL); err != nil {
			h.logger.Error("draft save failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, Fail("failed to save draft"))
			return
		}
		writeJSON(w, http.StatusOK, Ok(nil))
	case http.MethodDelete:
		if err := h.kv.Del(r.Context(), draftKey(user, form)); err != nil {
			h.logger.Error("draft delete failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, Fail("failed to delete draft"))
			return
		}
		writeJSON(w, http.StatusOK, Ok(nil))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// List serves /lab/api/v1/drafts?user=alice: the form names with a live
// draft for that user.
func (h *DraftsHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	user := r.URL.Query().Get("user")
	if user == "" {
		writeJSON(w, http.StatusBadRequest, Fail("user is required"))
		return
	}
	keys, err := h.kv.ScanKeys(r.Context(), draftKey(user, "*"))
	if err != nil {
		h.logger.Error("draft scan failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to list drafts"))
		return
	}
	forms := make([]string, 0, len(keys))
	prefix := draftKey(user, "")
	for _, k := range keys {
		forms = append(forms, strings.TrimPrefix(k, prefix))
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"forms": forms}))
}
