package domain

import "time"

// MicroscopeSession 显微镜成像会话（对应 microscope_sessions 表）
// One imaging session of one grid slot on a microscope holder position
// (positions run 1..12, unlike the 4-slot Vitrobot grid box).
type MicroscopeSession struct {
	MicroscopeSessionID string    `db:"microscope_session_id" json:"microscope_session_id"` // UUID, PRIMARY KEY
	SessionID           string    `db:"session_id" json:"session_id"`                       // parent preparation session
	SlotNumber          int       `db:"slot_number" json:"slot_number"`                     // 1..12 holder position
	Microscope          string    `db:"microscope" json:"microscope"`
	Operator            string    `db:"operator" json:"operator"`
	SessionDate         string    `db:"session_date" json:"session_date"` // YYYY-MM-DD
	Magnification       *int      `db:"magnification" json:"magnification"`
	ImagesCollected     *int      `db:"images_collected" json:"images_collected"`
	DoseRate            *float64  `db:"dose_rate" json:"dose_rate"` // e/Å²/s
	Notes               *string   `db:"notes" json:"notes"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
}
