package domain

import "time"

// Session 制备会话领域模型（对应 sessions 表）
// One session = one grid box prepared on the Vitrobot (up to 4 slots).
type Session struct {
	SessionID       string    `db:"session_id" json:"session_id"` // UUID, PRIMARY KEY
	UserName        string    `db:"user_name" json:"user_name"`
	Date            string    `db:"session_date" json:"date"` // YYYY-MM-DD
	GridBoxName     string    `db:"grid_box_name" json:"grid_box_name"`
	StorageLocation *string   `db:"storage_location" json:"storage_location"` // nullable
	Notes           *string   `db:"notes" json:"notes"`                       // nullable
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// VitrobotSettings 会话级 Vitrobot 参数（对应 vitrobot_settings 表）
// All fields nullable: a historical record may predate a given knob.
type VitrobotSettings struct {
	SessionID              string   `db:"session_id" json:"session_id"`
	HumidityPercent        *float64 `db:"humidity_percent" json:"humidity_percent"`
	TemperatureC           *float64 `db:"temperature_c" json:"temperature_c"`
	BlotForce              *int     `db:"blot_force" json:"blot_force"`
	BlotTimeSec            *float64 `db:"blot_time_sec" json:"blot_time_sec"`
	WaitTimeSec            *float64 `db:"wait_time_sec" json:"wait_time_sec"`
	DrainTimeSec           *float64 `db:"drain_time_sec" json:"drain_time_sec"`
	GlowDischargeApplied   *bool    `db:"glow_discharge_applied" json:"glow_discharge_applied"`
	GlowDischargeCurrentMA *float64 `db:"glow_discharge_current_ma" json:"glow_discharge_current_ma"`
	GlowDischargeTimeSec   *int     `db:"glow_discharge_time_sec" json:"glow_discharge_time_sec"`
}

// GridInfo 会话级网格默认信息（对应 grid_info 表）
type GridInfo struct {
	SessionID       string  `db:"session_id" json:"session_id"`
	GridType        *string `db:"grid_type" json:"grid_type"`
	GridBatch       *string `db:"grid_batch" json:"grid_batch"`
	StorageLocation *string `db:"storage_location" json:"storage_location"`
	HoleType        *string `db:"hole_type" json:"hole_type"`
}

// SessionRecord is the full composite handed to and returned by the
// repository: the session row plus its nested sections and slots.
type SessionRecord struct {
	Session  Session           `json:"session"`
	Sample   *Sample           `json:"sample,omitempty"`
	Settings *VitrobotSettings `json:"vitrobot_settings,omitempty"`
	GridInfo *GridInfo         `json:"grid_info,omitempty"`
	Slots    []GridSlot        `json:"grids"`
}
