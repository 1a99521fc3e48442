package domain

// GridSlot 单个网格槽位（对应 grid_preparations 表）
// Slot numbers run 1..4 inside a grid box. The *_override fields take
// precedence over the session-level defaults when resolving effective
// values for display; the plain fields are legacy per-slot values kept for
// records imported before overrides existed.
type GridSlot struct {
	SlotID           string `db:"slot_id" json:"slot_id"` // UUID, PRIMARY KEY
	SessionID        string `db:"session_id" json:"session_id"`
	SlotNumber       int    `db:"slot_number" json:"slot_number"`
	IncludeInSession bool   `db:"include_in_session" json:"include_in_session"`
	Trashed          bool   `db:"trashed" json:"trashed"`

	VolumeOverrideUl    *float64 `db:"volume_override_ul" json:"volume_override_ul"`
	BlotForceOverride   *int     `db:"blot_force_override" json:"blot_force_override"`
	BlotTimeOverrideSec *float64 `db:"blot_time_override_sec" json:"blot_time_override_sec"`
	GridBatchOverride   *string  `db:"grid_batch_override" json:"grid_batch_override"`
	AdditivesOverride   *string  `db:"additives_override" json:"additives_override"`
	GridTypeOverride    *string  `db:"grid_type_override" json:"grid_type_override"`

	// legacy same-named per-slot values (pre-override records)
	VolumeUl    *float64 `db:"volume_ul" json:"volume_ul"`
	BlotForce   *int     `db:"blot_force" json:"blot_force"`
	BlotTimeSec *float64 `db:"blot_time_sec" json:"blot_time_sec"`
	GridBatch   *string  `db:"grid_batch" json:"grid_batch"`
	Additives   *string  `db:"additives" json:"additives"`
	GridType    *string  `db:"grid_type" json:"grid_type"`

	// inline sample introduced on this slot, if any
	SampleName          *string  `db:"sample_name" json:"sample_name"`
	SampleConcentration *string  `db:"sample_concentration" json:"sample_concentration"`
	DefaultVolumeUl     *float64 `db:"default_volume_ul" json:"default_volume_ul"`

	Comments *string `db:"comments" json:"comments"`
}

// Sample 样品领域模型（对应 samples 表）
type Sample struct {
	SampleID            string   `db:"sample_id" json:"sample_id"` // UUID, PRIMARY KEY
	SessionID           string   `db:"session_id" json:"session_id"`
	SampleName          string   `db:"sample_name" json:"sample_name"`
	SampleConcentration *string  `db:"sample_concentration" json:"sample_concentration"`
	Additives           *string  `db:"additives" json:"additives"`
	DefaultVolumeUl     *float64 `db:"default_volume_ul" json:"default_volume_ul"`
}
