package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"cryolab-data/internal/domain"
	"cryolab-data/internal/repository"
	"cryolab-data/internal/schema"
	"cryolab-data/internal/service"

	"go.uber.org/zap"
)

const (
	gridTypesPrefix = "/lab/api/v1/grid-types"
	batchesPrefix   = "/lab/api/v1/batches"
)

// InventoryHandler 网格类型/批次库存 HTTP 入口
type InventoryHandler struct {
	svc    service.InventoryService
	logger *zap.Logger
}

func NewInventoryHandler(svc service.InventoryService, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{svc: svc, logger: logger}
}

// GridTypes handles /lab/api/v1/grid-types (list + create).
func (h *InventoryHandler) GridTypes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		search := r.URL.Query().Get("search")
		page := parseInt(r.URL.Query().Get("page"), 1)
		size := parseInt(r.URL.Query().Get("size"), 50)
		items, total, err := h.svc.ListGridTypes(r.Context(), search, page, size)
		if err != nil {
			h.logger.Error("list grid types failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, Fail("failed to list grid types"))
			return
		}
		writeJSON(w, http.StatusOK, Ok(map[string]any{"items": items, "total": total}))
	case http.MethodPost:
		ValidateRecordBody(schema.TableGridTypes, func(w http.ResponseWriter, r *http.Request, data map[string]any) {
			id, err := h.svc.CreateGridType(r.Context(), gridTypeFromRecord(data))
			if err != nil {
				h.logger.Error("create grid type failed", zap.Error(err))
				writeJSON(w, http.StatusInternalServerError, Fail("failed to create grid type"))
				return
			}
			writeJSON(w, http.StatusCreated, Ok(map[string]any{"grid_type_id": id}))
		})(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// GridTypeByID handles /lab/api/v1/grid-types/{id} and {id}/batches.
func (h *InventoryHandler) GridTypeByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, gridTypesPrefix+"/")
	parts := strings.Split(rest, "/")
	if len(parts) == 0 || parts[0] == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	gridTypeID := parts[0]

	if len(parts) == 2 && parts[1] == "batches" {
		h.batches(w, r, gridTypeID)
		return
	}
	if len(parts) != 1 {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		gt, err := h.svc.GetGridType(r.Context(), gridTypeID)
		if err != nil {
			h.writeError(w, err, "failed to get grid type")
			return
		}
		writeJSON(w, http.StatusOK, Ok(gt))
	case http.MethodPut:
		ValidateRecordBody(schema.TableGridTypes, func(w http.ResponseWriter, r *http.Request, data map[string]any) {
			if err := h.svc.UpdateGridType(r.Context(), gridTypeID, gridTypeFromRecord(data)); err != nil {
				h.writeError(w, err, "failed to update grid type")
				return
			}
			writeJSON(w, http.StatusOK, Ok(map[string]any{"grid_type_id": gridTypeID}))
		})(w, r)
	case http.MethodDelete:
		if err := h.svc.DeleteGridType(r.Context(), gridTypeID); err != nil {
			h.writeError(w, err, "failed to delete grid type")
			return
		}
		writeJSON(w, http.StatusOK, Ok(nil))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *InventoryHandler) batches(w http.ResponseWriter, r *http.Request, gridTypeID string) {
	switch r.Method {
	case http.MethodGet:
		items, err := h.svc.ListBatches(r.Context(), gridTypeID)
		if err != nil {
			h.logger.Error("list batches failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, Fail("failed to list batches"))
			return
		}
		writeJSON(w, http.StatusOK, Ok(map[string]any{"items": items}))
	case http.MethodPost:
		var body struct {
			BatchCode         string  `json:"batch_code"`
			ReceivedDate      *string `json:"received_date"`
			QuantityRemaining *int    `json:"quantity_remaining"`
			Notes             *string `json:"notes"`
		}
		if err := readBodyJSON(r, maxBodyBytes, &body); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
			return
		}
		if body.BatchCode == "" {
			writeJSON(w, http.StatusBadRequest, FailValidation([]string{"batch_code is required"}))
			return
		}
		id, err := h.svc.CreateBatch(r.Context(), &domain.GridBatch{
			GridTypeID:        gridTypeID,
			BatchCode:         body.BatchCode,
			ReceivedDate:      body.ReceivedDate,
			QuantityRemaining: body.QuantityRemaining,
			Notes:             body.Notes,
		})
		if err != nil {
			h.logger.Error("create batch failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, Fail("failed to create batch"))
			return
		}
		writeJSON(w, http.StatusCreated, Ok(map[string]any{"batch_id": id}))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// BatchByID handles /lab/api/v1/batches/{id} and {id}/adjust.
func (h *InventoryHandler) BatchByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, batchesPrefix+"/")
	parts := strings.Split(rest, "/")
	if len(parts) == 0 || parts[0] == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	batchID := parts[0]

	switch {
	case len(parts) == 1 && r.Method == http.MethodDelete:
		if err := h.svc.DeleteBatch(r.Context(), batchID); err != nil {
			h.writeError(w, err, "failed to delete batch")
			return
		}
		writeJSON(w, http.StatusOK, Ok(nil))
	case len(parts) == 2 && parts[1] == "adjust" && r.Method == http.MethodPost:
		var body struct {
			Delta int `json:"delta"`
		}
		if err := readBodyJSON(r, maxBodyBytes, &body); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
			return
		}
		if err := h.svc.AdjustBatchQuantity(r.Context(), batchID, body.Delta); err != nil {
			h.writeError(w, err, "failed to adjust batch quantity")
			return
		}
		writeJSON(w, http.StatusOK, Ok(nil))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *InventoryHandler) writeError(w http.ResponseWriter, err error, msg string) {
	if errors.Is(err, repository.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, Fail("not found"))
		return
	}
	h.logger.Error(msg, zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, Fail(msg))
}

// gridTypeFromRecord maps a sanitized grid_types record onto the domain
// model. Sanitized values are canonically typed, so plain assertions are
// enough here.
func gridTypeFromRecord(data map[string]any) *domain.GridType {
	gt := &domain.GridType{}
	if v, ok := data["name"].(string); ok {
		gt.Name = v
	}
	if v, ok := data["manufacturer"].(string); ok {
		gt.Manufacturer = &v
	}
	if v, ok := data["material"].(string); ok {
		gt.Material = &v
	}
	if v, ok := data["mesh_size"].(int64); ok {
		n := int(v)
		gt.MeshSize = &n
	}
	if v, ok := data["hole_size_um"].(float64); ok {
		gt.HoleSizeUm = &v
	}
	if v, ok := data["film_type"].(string); ok {
		gt.FilmType = &v
	}
	return gt
}
