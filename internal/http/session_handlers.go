package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cryolab-data/internal/repository"
	"cryolab-data/internal/schema"
	"cryolab-data/internal/service"

	"go.uber.org/zap"
)

const sessionsPrefix = "/lab/api/v1/sessions"

// SessionsHandler 制备会话 HTTP 入口
type SessionsHandler struct {
	svc    service.SessionService
	logger *zap.Logger
}

func NewSessionsHandler(svc service.SessionService, logger *zap.Logger) *SessionsHandler {
	return &SessionsHandler{svc: svc, logger: logger}
}

// Collection handles /lab/api/v1/sessions (list + create).
func (h *SessionsHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		filter := repository.SessionFilters{
			UserName: r.URL.Query().Get("user_name"),
			DateFrom: r.URL.Query().Get("date_from"),
			DateTo:   r.URL.Query().Get("date_to"),
			Search:   r.URL.Query().Get("search"),
		}
		page := parseInt(r.URL.Query().Get("page"), 1)
		size := parseInt(r.URL.Query().Get("size"), 50)
		items, total, err := h.svc.ListSessions(r.Context(), filter, page, size)
		if err != nil {
			h.logger.Error("list sessions failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, Fail("failed to list sessions"))
			return
		}
		writeJSON(w, http.StatusOK, Ok(map[string]any{"items": items, "total": total}))
	case http.MethodPost:
		ValidateSessionBody(h.create)(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *SessionsHandler) create(w http.ResponseWriter, r *http.Request, p schema.SessionPayload) {
	id, err := h.svc.CreateSession(r.Context(), p)
	if err != nil {
		h.logger.Error("create session failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to create session"))
		return
	}
	writeJSON(w, http.StatusCreated, Ok(map[string]any{"session_id": id}))
}

// ByID handles /lab/api/v1/sessions/{id} and its sub-resources
// ({id}/export, {id}/slots/{n}/trash).
func (h *SessionsHandler) ByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, sessionsPrefix+"/")
	parts := strings.Split(rest, "/")
	if len(parts) == 0 || parts[0] == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	sessionID := parts[0]

	switch {
	case len(parts) == 1:
		h.sessionByID(w, r, sessionID)
	case len(parts) == 2 && parts[1] == "export" && r.Method == http.MethodGet:
		h.export(w, r, sessionID)
	case len(parts) == 4 && parts[1] == "slots" && parts[3] == "trash" && r.Method == http.MethodPost:
		h.trashSlot(w, r, sessionID, parseInt(parts[2], 0))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *SessionsHandler) sessionByID(w http.ResponseWriter, r *http.Request, sessionID string) {
	switch r.Method {
	case http.MethodGet:
		view, err := h.svc.GetSession(r.Context(), sessionID)
		if err != nil {
			h.writeError(w, err, "failed to get session")
			return
		}
		writeJSON(w, http.StatusOK, Ok(view))
	case http.MethodPut:
		ValidateSessionBody(func(w http.ResponseWriter, r *http.Request, p schema.SessionPayload) {
			if err := h.svc.UpdateSession(r.Context(), sessionID, p); err != nil {
				h.writeError(w, err, "failed to update session")
				return
			}
			writeJSON(w, http.StatusOK, Ok(map[string]any{"session_id": sessionID}))
		})(w, r)
	case http.MethodDelete:
		if err := h.svc.DeleteSession(r.Context(), sessionID); err != nil {
			h.writeError(w, err, "failed to delete session")
			return
		}
		writeJSON(w, http.StatusOK, Ok(nil))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *SessionsHandler) trashSlot(w http.ResponseWriter, r *http.Request, sessionID string, slotNumber int) {
	if slotNumber < 1 {
		writeJSON(w, http.StatusBadRequest, Fail("invalid slot number"))
		return
	}
	var body struct {
		Trashed bool `json:"trashed"`
	}
	if err := readBodyJSON(r, maxBodyBytes, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	if err := h.svc.SetSlotTrashed(r.Context(), sessionID, slotNumber, body.Trashed); err != nil {
		h.writeError(w, err, "failed to set slot trashed")
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"slot_number": slotNumber, "trashed": body.Trashed}))
}

func (h *SessionsHandler) export(w http.ResponseWriter, r *http.Request, sessionID string) {
	view, err := h.svc.GetSession(r.Context(), sessionID)
	if err != nil {
		h.writeError(w, err, "failed to get session")
		return
	}
	data, err := GenerateSessionExport(view)
	if err != nil {
		h.logger.Error("session export failed", zap.String("session_id", sessionID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to generate export"))
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="session-%s.xlsx"`, sessionID))
	_, _ = w.Write(data)
}

func (h *SessionsHandler) writeError(w http.ResponseWriter, err error, msg string) {
	if errors.Is(err, repository.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, Fail("session not found"))
		return
	}
	h.logger.Error(msg, zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, Fail(msg))
}
