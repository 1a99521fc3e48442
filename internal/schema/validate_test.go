package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_SessionsHappyPath(t *testing.T) {
	errs := Validate(TableSessions, map[string]any{
		"user_name":     "alice",
		"date":          "2026-03-05",
		"grid_box_name": "Box-A1",
		"notes":         "first freeze of the day",
	})
	assert.Empty(t, errs)
}

func TestValidate_SessionsCollectsAllErrors(t *testing.T) {
	errs := Validate(TableSessions, map[string]any{
		"user_name":     "",
		"date":          "invalid-date",
		"grid_box_name": strings.Repeat("A", 300),
	})
	require.GreaterOrEqual(t, len(errs), 3)
	assert.Contains(t, errs, "user_name is required")
	assert.Contains(t, errs, "date must be a valid date")
	assert.Contains(t, errs, "grid_box_name must be at most 255 characters")
}

func TestValidate_MissingRequiredFields(t *testing.T) {
	errs := Validate(TableSessions, map[string]any{})
	assert.Contains(t, errs, "user_name is required")
	assert.Contains(t, errs, "date is required")
	assert.Contains(t, errs, "grid_box_name is required")
}

func TestValidate_EmptyOptionalFieldIsAccepted(t *testing.T) {
	errs := Validate(TableSessions, map[string]any{
		"user_name":        "alice",
		"date":             "2026-03-05",
		"grid_box_name":    "Box-A1",
		"storage_location": "",
		"notes":            nil,
	})
	assert.Empty(t, errs)
}

func TestValidate_IntegerField(t *testing.T) {
	// non-numeric input yields exactly one error: the type failure
	// short-circuits the range checks
	errs := Validate(TableVitrobotSettings, map[string]any{"blot_force": "abc"})
	require.Len(t, errs, 1)
	assert.Equal(t, "blot_force must be a valid integer", errs[0])

	// numeric strings and floats are integers after truncation
	assert.Empty(t, Validate(TableVitrobotSettings, map[string]any{"blot_force": "15"}))
	assert.Empty(t, Validate(TableVitrobotSettings, map[string]any{"blot_force": 3.7}))

	// range is enforced on the truncated value
	errs = Validate(TableVitrobotSettings, map[string]any{"blot_force": 30})
	assert.Contains(t, errs, "blot_force must be at most 25")
	errs = Validate(TableVitrobotSettings, map[string]any{"blot_force": -30})
	assert.Contains(t, errs, "blot_force must be at least -25")
}

func TestValidate_DecimalRangeAndPrecision(t *testing.T) {
	assert.Empty(t, Validate(TableVitrobotSettings, map[string]any{"humidity_percent": 85.5}))
	assert.Empty(t, Validate(TableVitrobotSettings, map[string]any{"humidity_percent": "85.5"}))

	errs := Validate(TableVitrobotSettings, map[string]any{"humidity_percent": 101})
	assert.Contains(t, errs, "humidity_percent must be at most 100")

	errs = Validate(TableVitrobotSettings, map[string]any{"humidity_percent": 85.55})
	assert.Contains(t, errs, "humidity_percent must have at most 1 digits after the decimal point")

	// precision 2 on glow discharge current
	assert.Empty(t, Validate(TableVitrobotSettings, map[string]any{"glow_discharge_current_ma": 15.25}))
	errs = Validate(TableVitrobotSettings, map[string]any{"glow_discharge_current_ma": 15.255})
	assert.Contains(t, errs, "glow_discharge_current_ma must have at most 2 digits after the decimal point")

	errs = Validate(TableVitrobotSettings, map[string]any{"humidity_percent": "not-a-number"})
	require.Len(t, errs, 1)
	assert.Equal(t, "humidity_percent must be a valid number", errs[0])
}

func TestValidate_BooleanField(t *testing.T) {
	for _, ok := range []any{true, false, "true", "false", 1, 0, float64(1)} {
		assert.Empty(t, Validate(TableVitrobotSettings, map[string]any{"glow_discharge_applied": ok}), "value %v", ok)
	}
	errs := Validate(TableVitrobotSettings, map[string]any{"glow_discharge_applied": "yes"})
	assert.Contains(t, errs, "glow_discharge_applied must be a boolean")
	errs = Validate(TableVitrobotSettings, map[string]any{"glow_discharge_applied": 2})
	assert.Contains(t, errs, "glow_discharge_applied must be a boolean")
}

func TestValidate_DateLayouts(t *testing.T) {
	for _, ok := range []string{
		"2026-03-05",
		"2026-03-05T10:30:00Z",
		"2026-03-05 10:30:00",
		"03/05/2026",
	} {
		assert.Empty(t, Validate(TableSessions, map[string]any{
			"user_name": "alice", "date": ok, "grid_box_name": "Box",
		}), "layout %q", ok)
	}
	errs := Validate(TableSessions, map[string]any{
		"user_name": "alice", "date": "05.03.2026", "grid_box_name": "Box",
	})
	assert.Contains(t, errs, "date must be a valid date")
}

func TestValidate_GridPreparations(t *testing.T) {
	assert.Empty(t, Validate(TableGridPreparations, map[string]any{
		"slot_number":        1,
		"include_in_session": true,
		"volume_override_ul": 3.5,
	}))

	errs := Validate(TableGridPreparations, map[string]any{"slot_number": 5})
	assert.Contains(t, errs, "slot_number must be at most 4")

	errs = Validate(TableGridPreparations, map[string]any{"slot_number": 1, "volume_override_ul": 10.5})
	assert.Contains(t, errs, "volume_override_ul must be at most 10")
}

func TestValidate_UnknownFieldsIgnored(t *testing.T) {
	errs := Validate(TableSessions, map[string]any{
		"user_name":     "alice",
		"date":          "2026-03-05",
		"grid_box_name": "Box",
		"frontend_only": "whatever",
	})
	assert.Empty(t, errs)
}

func TestValidate_UnknownTablePanics(t *testing.T) {
	assert.Panics(t, func() {
		Validate("no_such_table", map[string]any{})
	})
}
