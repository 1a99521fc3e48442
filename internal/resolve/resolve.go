// Package resolve computes the effective, display-time value of each
// overridable grid-slot attribute. The precedence chain is fixed:
//
//	slot override  ->  legacy per-slot value  ->  session-level default  ->  "N/A"
//
// Presence is decided by explicit nil checks, never truthiness: a blot
// force override of 0 is a real value and must win over a session default.
package resolve

import (
	"strconv"

	"cryolab-data/internal/domain"
)

// Sentinels are display-only values; neither is ever persisted.
const (
	NotAvailable = "N/A"
	SlotNotUsed  = "Slot not used"
)

// EffectiveSlot carries the resolved per-attribute values for one slot,
// ready for presentation. For an unused slot every attribute holds
// SlotNotUsed and the chain is never evaluated.
type EffectiveSlot struct {
	SlotNumber int    `json:"slot_number"`
	Used       bool   `json:"used"`
	Trashed    bool   `json:"trashed"`
	VolumeUl   string `json:"volume_ul"`
	BlotForce  string `json:"blot_force"`
	BlotTime   string `json:"blot_time_sec"`
	GridBatch  string `json:"grid_batch"`
	Additives  string `json:"additives"`
	GridType   string `json:"grid_type"`
}

// First returns the first non-nil candidate. Zero values are legitimate;
// only nil means absent.
func First[T any](candidates ...*T) *T {
	for _, c := range candidates {
		if c != nil {
			return c
		}
	}
	return nil
}

// FirstString is First with the empty string treated as absent, matching
// how blank form fields round-trip through storage.
func FirstString(candidates ...*string) *string {
	for _, c := range candidates {
		if c != nil && *c != "" {
			return c
		}
	}
	return nil
}

// Slot resolves every attribute of one grid slot against the session-level
// defaults. sample, info and settings may be nil for sparse records.
func Slot(s domain.GridSlot, sample *domain.Sample, info *domain.GridInfo, settings *domain.VitrobotSettings) EffectiveSlot {
	if !s.IncludeInSession {
		return EffectiveSlot{
			SlotNumber: s.SlotNumber,
			Used:       false,
			VolumeUl:   SlotNotUsed,
			BlotForce:  SlotNotUsed,
			BlotTime:   SlotNotUsed,
			GridBatch:  SlotNotUsed,
			Additives:  SlotNotUsed,
			GridType:   SlotNotUsed,
		}
	}

	var sampleAdditives *string
	var sampleVolume *float64
	if sample != nil {
		sampleAdditives = sample.Additives
		sampleVolume = sample.DefaultVolumeUl
	}
	var defBlotForce *int
	var defBlotTime *float64
	if settings != nil {
		defBlotForce = settings.BlotForce
		defBlotTime = settings.BlotTimeSec
	}
	var defBatch, defType *string
	if info != nil {
		defBatch = info.GridBatch
		defType = info.GridType
	}

	return EffectiveSlot{
		SlotNumber: s.SlotNumber,
		Used:       true,
		Trashed:    s.Trashed,
		VolumeUl:   floatDisplay(First(s.VolumeOverrideUl, s.VolumeUl, s.DefaultVolumeUl, sampleVolume)),
		BlotForce:  intDisplay(First(s.BlotForceOverride, s.BlotForce, defBlotForce)),
		BlotTime:   floatDisplay(First(s.BlotTimeOverrideSec, s.BlotTimeSec, defBlotTime)),
		GridBatch:  stringDisplay(FirstString(s.GridBatchOverride, s.GridBatch, defBatch)),
		Additives:  stringDisplay(FirstString(s.AdditivesOverride, s.Additives, sampleAdditives)),
		GridType:   stringDisplay(FirstString(s.GridTypeOverride, s.GridType, defType)),
	}
}

// Slots resolves a whole record in slot order.
func Slots(rec *domain.SessionRecord) []EffectiveSlot {
	out := make([]EffectiveSlot, 0, len(rec.Slots))
	for _, s := range rec.Slots {
		out = append(out, Slot(s, rec.Sample, rec.GridInfo, rec.Settings))
	}
	return out
}

func floatDisplay(v *float64) string {
	if v == nil {
		return NotAvailable
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func intDisplay(v *int) string {
	if v == nil {
		return NotAvailable
	}
	return strconv.Itoa(*v)
}

func stringDisplay(v *string) string {
	if v == nil {
		return NotAvailable
	}
	return *v
}
