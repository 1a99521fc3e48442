package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cryolab-data/internal/domain"
	"cryolab-data/internal/repository"

	"go.uber.org/zap"
)

const microscopePrefix = "/lab/api/v1/microscope-sessions"

// MicroscopeHandler 显微镜成像会话 HTTP 入口
// Thin handler over the repository: imaging sessions are typed records, not
// schema-driven forms, so validation lives here.
type MicroscopeHandler struct {
	repo   repository.MicroscopeRepository
	logger *zap.Logger
}

func NewMicroscopeHandler(repo repository.MicroscopeRepository, logger *zap.Logger) *MicroscopeHandler {
	return &MicroscopeHandler{repo: repo, logger: logger}
}

type microscopeSessionRequest struct {
	SessionID       string   `json:"session_id"`
	SlotNumber      int      `json:"slot_number"`
	Microscope      string   `json:"microscope"`
	Operator        string   `json:"operator"`
	SessionDate     string   `json:"session_date"`
	Magnification   *int     `json:"magnification"`
	ImagesCollected *int     `json:"images_collected"`
	DoseRate        *float64 `json:"dose_rate"`
	Notes           *string  `json:"notes"`
}

func (req *microscopeSessionRequest) validate() []string {
	var errs []string
	if req.SessionID == "" {
		errs = append(errs, "session_id is required")
	}
	if req.SlotNumber < 1 || req.SlotNumber > 12 {
		errs = append(errs, "slot_number must be between 1 and 12")
	}
	if req.Microscope == "" {
		errs = append(errs, "microscope is required")
	}
	if req.Operator == "" {
		errs = append(errs, "operator is required")
	}
	if req.SessionDate == "" {
		errs = append(errs, "session_date is required")
	} else if _, err := time.ParseInLocation("2006-01-02", req.SessionDate, time.Local); err != nil {
		errs = append(errs, "session_date must be a valid date")
	}
	if req.Magnification != nil && *req.Magnification <= 0 {
		errs = append(errs, "magnification must be positive")
	}
	if req.ImagesCollected != nil && *req.ImagesCollected < 0 {
		errs = append(errs, "images_collected must be at least 0")
	}
	if req.DoseRate != nil && *req.DoseRate < 0 {
		errs = append(errs, "dose_rate must be at least 0")
	}
	return errs
}

// Collection handles /lab/api/v1/microscope-sessions (list + create).
func (h *MicroscopeHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		if sessionID := q.Get("session_id"); sessionID != "" {
			items, err := h.repo.ListBySession(r.Context(), sessionID)
			if err != nil {
				h.logger.Error("list microscope sessions failed", zap.Error(err))
				writeJSON(w, http.StatusInternalServerError, Fail("failed to list microscope sessions"))
				return
			}
			writeJSON(w, http.StatusOK, Ok(map[string]any{"items": items, "total": len(items)}))
			return
		}
		filter := repository.MicroscopeFilters{
			Microscope: q.Get("microscope"),
			Operator:   q.Get("operator"),
			DateFrom:   q.Get("date_from"),
			DateTo:     q.Get("date_to"),
		}
		page := parseInt(q.Get("page"), 1)
		size := parseInt(q.Get("size"), 50)
		items, total, err := h.repo.ListMicroscopeSessions(r.Context(), filter, page, size)
		if err != nil {
			h.logger.Error("list microscope sessions failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, Fail("failed to list microscope sessions"))
			return
		}
		writeJSON(w, http.StatusOK, Ok(map[string]any{"items": items, "total": total}))
	case http.MethodPost:
		var req microscopeSessionRequest
		if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
			return
		}
		if errs := req.validate(); len(errs) > 0 {
			writeJSON(w, http.StatusBadRequest, FailValidation(errs))
			return
		}
		id, err := h.repo.CreateMicroscopeSession(r.Context(), &domain.MicroscopeSession{
			SessionID:       req.SessionID,
			SlotNumber:      req.SlotNumber,
			Microscope:      req.Microscope,
			Operator:        req.Operator,
			SessionDate:     req.SessionDate,
			Magnification:   req.Magnification,
			ImagesCollected: req.ImagesCollected,
			DoseRate:        req.DoseRate,
			Notes:           req.Notes,
		})
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				writeJSON(w, http.StatusBadRequest,
					Fail(fmt.Sprintf("preparation session %s not found", req.SessionID)))
				return
			}
			h.logger.Error("create microscope session failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, Fail("failed to create microscope session"))
			return
		}
		writeJSON(w, http.StatusCreated, Ok(map[string]any{"microscope_session_id": id}))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// ByID handles /lab/api/v1/microscope-sessions/{id}.
func (h *MicroscopeHandler) ByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, microscopePrefix+"/")
	if id == "" || strings.Contains(id, "/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := h.repo.DeleteMicroscopeSession(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, Fail("not found"))
			return
		}
		h.logger.Error("delete microscope session failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to delete microscope session"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(nil))
}
