package httpapi

import (
	"net/http"

	"cryolab-data/internal/schema"
)

const maxBodyBytes = 1 << 20

// ValidateSessionBody decodes a SessionPayload from the request body, runs
// the full payload validation and hands the sanitized payload to next. On
// any validation error the request stops here with a 400 and the flat
// error list; nothing is persisted (all-or-nothing at the boundary).
func ValidateSessionBody(next func(w http.ResponseWriter, r *http.Request, p schema.SessionPayload)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload schema.SessionPayload
		if err := readBodyJSON(r, maxBodyBytes, &payload); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
			return
		}
		if errs := schema.ValidatePayload(payload); len(errs) > 0 {
			writeJSON(w, http.StatusBadRequest, FailValidation(errs))
			return
		}
		next(w, r, schema.SanitizePayload(payload))
	}
}

// ValidateRecordBody is the single-table variant used by the inventory
// endpoints: validate against one named schema, sanitize, pass on.
func ValidateRecordBody(table string, next func(w http.ResponseWriter, r *http.Request, data map[string]any)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var data map[string]any
		if err := readBodyJSON(r, maxBodyBytes, &data); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
			return
		}
		if data == nil {
			data = map[string]any{}
		}
		if errs := schema.Validate(table, data); len(errs) > 0 {
			writeJSON(w, http.StatusBadRequest, FailValidation(errs))
			return
		}
		next(w, r, schema.Sanitize(table, data))
	}
}
