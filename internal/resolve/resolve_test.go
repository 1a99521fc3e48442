package resolve

import (
	"testing"

	"cryolab-data/internal/domain"

	"github.com/stretchr/testify/assert"
)

func fv(v float64) *float64 { return &v }
func iv(v int) *int         { return &v }
func sv(v string) *string   { return &v }

func TestSlot_OverrideWinsOverDefault(t *testing.T) {
	settings := &domain.VitrobotSettings{BlotForce: iv(15), BlotTimeSec: fv(4)}
	s := domain.GridSlot{
		SlotNumber:        1,
		IncludeInSession:  true,
		BlotForceOverride: iv(5),
	}
	eff := Slot(s, nil, nil, settings)
	assert.Equal(t, "5", eff.BlotForce)
	assert.Equal(t, "4", eff.BlotTime)
}

func TestSlot_ZeroOverrideIsARealValue(t *testing.T) {
	// blot force 0 must beat the session default 15: presence is nil
	// checks, never truthiness
	settings := &domain.VitrobotSettings{BlotForce: iv(15)}
	s := domain.GridSlot{
		SlotNumber:        1,
		IncludeInSession:  true,
		BlotForceOverride: iv(0),
	}
	eff := Slot(s, nil, nil, settings)
	assert.Equal(t, "0", eff.BlotForce)
}

func TestSlot_LegacyValueBeforeSessionDefault(t *testing.T) {
	settings := &domain.VitrobotSettings{BlotForce: iv(15)}
	s := domain.GridSlot{
		SlotNumber:       1,
		IncludeInSession: true,
		BlotForce:        iv(-3), // legacy per-slot value, no override
	}
	eff := Slot(s, nil, nil, settings)
	assert.Equal(t, "-3", eff.BlotForce)
}

func TestSlot_VolumeFallsBackToSampleDefault(t *testing.T) {
	sample := &domain.Sample{SampleName: "apoferritin", DefaultVolumeUl: fv(4)}
	s := domain.GridSlot{SlotNumber: 2, IncludeInSession: true}
	eff := Slot(s, sample, nil, nil)
	assert.Equal(t, "4", eff.VolumeUl)
}

func TestSlot_ChainExhaustedIsNotAvailable(t *testing.T) {
	s := domain.GridSlot{SlotNumber: 3, IncludeInSession: true}
	eff := Slot(s, nil, nil, nil)
	assert.Equal(t, NotAvailable, eff.VolumeUl)
	assert.Equal(t, NotAvailable, eff.BlotForce)
	assert.Equal(t, NotAvailable, eff.GridType)
	assert.Equal(t, NotAvailable, eff.Additives)
}

func TestSlot_UnusedSlot(t *testing.T) {
	settings := &domain.VitrobotSettings{BlotForce: iv(15)}
	s := domain.GridSlot{
		SlotNumber:        4,
		IncludeInSession:  false,
		BlotForceOverride: iv(5), // present but must not be consulted
	}
	eff := Slot(s, nil, nil, settings)
	assert.False(t, eff.Used)
	assert.Equal(t, SlotNotUsed, eff.VolumeUl)
	assert.Equal(t, SlotNotUsed, eff.BlotForce)
	assert.Equal(t, SlotNotUsed, eff.BlotTime)
	assert.Equal(t, SlotNotUsed, eff.GridBatch)
	assert.Equal(t, SlotNotUsed, eff.Additives)
	assert.Equal(t, SlotNotUsed, eff.GridType)
}

func TestSlot_TrashedResolvesNormally(t *testing.T) {
	info := &domain.GridInfo{GridType: sv("Quantifoil R1.2/1.3")}
	s := domain.GridSlot{
		SlotNumber:       1,
		IncludeInSession: true,
		Trashed:          true,
	}
	eff := Slot(s, nil, info, nil)
	assert.True(t, eff.Trashed)
	assert.Equal(t, "Quantifoil R1.2/1.3", eff.GridType)
}

func TestSlot_StringChain(t *testing.T) {
	sample := &domain.Sample{SampleName: "apoferritin", Additives: sv("DDM 0.1%")}
	info := &domain.GridInfo{GridBatch: sv("batch-7"), GridType: sv("UltrAuFoil")}
	s := domain.GridSlot{
		SlotNumber:        1,
		IncludeInSession:  true,
		GridTypeOverride:  sv("Quantifoil"),
		GridBatchOverride: sv(""), // stored blank = absent, falls through
	}
	eff := Slot(s, sample, info, nil)
	assert.Equal(t, "Quantifoil", eff.GridType)
	assert.Equal(t, "batch-7", eff.GridBatch)
	assert.Equal(t, "DDM 0.1%", eff.Additives)
}

func TestSlots_ResolvesWholeRecord(t *testing.T) {
	rec := &domain.SessionRecord{
		Settings: &domain.VitrobotSettings{BlotForce: iv(10)},
		Slots: []domain.GridSlot{
			{SlotNumber: 1, IncludeInSession: true},
			{SlotNumber: 2, IncludeInSession: false},
		},
	}
	out := Slots(rec)
	assert.Len(t, out, 2)
	assert.Equal(t, "10", out[0].BlotForce)
	assert.Equal(t, SlotNotUsed, out[1].BlotForce)
}

func TestFirst_Generics(t *testing.T) {
	assert.Nil(t, First[int]())
	assert.Equal(t, 0, *First(iv(0), iv(7)))
	assert.Equal(t, 7, *First(nil, iv(7)))
}
