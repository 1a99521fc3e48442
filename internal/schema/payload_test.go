package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSession() map[string]any {
	return map[string]any{
		"user_name":     "alice",
		"date":          "2026-03-05",
		"grid_box_name": "Box-A1",
	}
}

func TestValidatePayload_AllSectionsClean(t *testing.T) {
	p := SessionPayload{
		Session: validSession(),
		Sample: map[string]any{
			"sample_name": "apoferritin",
		},
		Vitrobot: map[string]any{
			"humidity_percent": 95,
			"blot_force":       -5,
		},
		GridInfo: map[string]any{
			"grid_type": "Quantifoil R1.2/1.3",
		},
		Grids: []map[string]any{
			{"slot_number": 1, "include_in_session": true},
			{"slot_number": 2, "include_in_session": false},
		},
	}
	assert.Empty(t, ValidatePayload(p))
}

func TestValidatePayload_SectionLabels(t *testing.T) {
	p := SessionPayload{
		Session: map[string]any{
			"user_name":     "",
			"date":          "2026-03-05",
			"grid_box_name": "Box",
		},
		Vitrobot: map[string]any{"blot_force": "abc"},
		Grids: []map[string]any{
			{"slot_number": 1},
			{"slot_number": "not a number"},
		},
	}
	errs := ValidatePayload(p)
	assert.Contains(t, errs, "Session: user_name is required")
	assert.Contains(t, errs, "Vitrobot Settings: blot_force must be a valid integer")
	// grids are 1-indexed in labels
	assert.Contains(t, errs, "Grid 2: slot_number must be a valid integer")
	for _, e := range errs {
		assert.False(t, strings.HasPrefix(e, "Grid 1:"), "slot 1 is valid, got %q", e)
	}
}

func TestValidatePayload_MissingSessionSection(t *testing.T) {
	errs := ValidatePayload(SessionPayload{})
	assert.Contains(t, errs, "Session: user_name is required")
	assert.Contains(t, errs, "Session: date is required")
	assert.Contains(t, errs, "Session: grid_box_name is required")
}

func TestValidatePayload_InlineSlotSample(t *testing.T) {
	// a slot introducing sample fields is re-checked as a samples record:
	// concentration without a name fails the samples schema
	p := SessionPayload{
		Session: validSession(),
		Grids: []map[string]any{
			{"slot_number": 1, "sample_concentration": "2 mg/ml"},
		},
	}
	errs := ValidatePayload(p)
	assert.Contains(t, errs, "Grid 1 Sample: sample_name is required")

	// with a name the inline sample is fine
	p.Grids[0]["sample_name"] = "apoferritin"
	assert.Empty(t, ValidatePayload(p))
}

func TestValidatePayload_NoInlineSampleWhenFieldsEmpty(t *testing.T) {
	// empty-string sample fields do not summon the samples schema
	p := SessionPayload{
		Session: validSession(),
		Grids: []map[string]any{
			{"slot_number": 1, "sample_name": "", "sample_concentration": ""},
		},
	}
	assert.Empty(t, ValidatePayload(p))
}

func TestSanitizePayload_SectionsSanitizedIndependently(t *testing.T) {
	p := SessionPayload{
		Session: map[string]any{
			"user_name":     "  alice ",
			"date":          "03/05/2026",
			"grid_box_name": "Box",
		},
		Vitrobot: map[string]any{"blot_force": "15"},
		Grids: []map[string]any{
			{"slot_number": "2", "include_in_session": "true", "volume_override_ul": ""},
		},
	}
	require.Empty(t, ValidatePayload(p))

	out := SanitizePayload(p)
	assert.Equal(t, "alice", out.Session["user_name"])
	assert.Equal(t, "2026-03-05", out.Session["date"])
	assert.Equal(t, int64(15), out.Vitrobot["blot_force"])
	require.Len(t, out.Grids, 1)
	assert.Equal(t, int64(2), out.Grids[0]["slot_number"])
	assert.Equal(t, true, out.Grids[0]["include_in_session"])
	assert.Nil(t, out.Grids[0]["volume_override_ul"])

	// absent sections stay absent
	assert.Nil(t, out.Sample)
	assert.Nil(t, out.GridInfo)
}
