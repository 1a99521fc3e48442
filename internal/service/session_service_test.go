package service

import (
	"context"
	"testing"

	"cryolab-data/internal/repository"
	"cryolab-data/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sanitizedPayload(t *testing.T, p schema.SessionPayload) schema.SessionPayload {
	t.Helper()
	require.Empty(t, schema.ValidatePayload(p))
	return schema.SanitizePayload(p)
}

func TestSessionService_CreateAndGet(t *testing.T) {
	repo := repository.NewMemorySessionsRepo()
	svc := NewSessionService(repo, nil, zap.NewNop())

	p := sanitizedPayload(t, schema.SessionPayload{
		Session: map[string]any{
			"user_name":     "alice",
			"date":          "2026-03-05",
			"grid_box_name": "Box-A1",
		},
		Sample: map[string]any{
			"sample_name":       "apoferritin",
			"default_volume_ul": "4",
		},
		Vitrobot: map[string]any{
			"humidity_percent": "95",
			"blot_force":       "15",
		},
		Grids: []map[string]any{
			{"slot_number": "1", "include_in_session": "true"},
			{"slot_number": "2", "include_in_session": "true", "blot_force_override": 0},
			{"slot_number": "3", "include_in_session": "false"},
		},
	})

	id, err := svc.CreateSession(context.Background(), p)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	view, err := svc.GetSession(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, "alice", view.Session.UserName)
	assert.Equal(t, "2026-03-05", view.Session.Date)
	require.NotNil(t, view.Sample)
	assert.Equal(t, "apoferritin", view.Sample.SampleName)
	require.NotNil(t, view.Settings)
	require.NotNil(t, view.Settings.BlotForce)
	assert.Equal(t, 15, *view.Settings.BlotForce)

	require.Len(t, view.Effective, 3)
	// slot 1: session defaults all the way down
	assert.Equal(t, "15", view.Effective[0].BlotForce)
	assert.Equal(t, "4", view.Effective[0].VolumeUl)
	// slot 2: zero override beats the default
	assert.Equal(t, "0", view.Effective[1].BlotForce)
	// slot 3: excluded
	assert.Equal(t, "Slot not used", view.Effective[2].BlotForce)
}

func TestSessionService_UpdateReplacesChildren(t *testing.T) {
	repo := repository.NewMemorySessionsRepo()
	svc := NewSessionService(repo, nil, zap.NewNop())

	base := schema.SessionPayload{
		Session: map[string]any{
			"user_name":     "alice",
			"date":          "2026-03-05",
			"grid_box_name": "Box-A1",
		},
		Grids: []map[string]any{
			{"slot_number": 1, "include_in_session": true},
			{"slot_number": 2, "include_in_session": true},
		},
	}
	id, err := svc.CreateSession(context.Background(), sanitizedPayload(t, base))
	require.NoError(t, err)

	updated := schema.SessionPayload{
		Session: map[string]any{
			"user_name":     "bob",
			"date":          "2026-03-06",
			"grid_box_name": "Box-A1",
		},
		Grids: []map[string]any{
			{"slot_number": 1, "include_in_session": true},
		},
	}
	require.NoError(t, svc.UpdateSession(context.Background(), id, sanitizedPayload(t, updated)))

	view, err := svc.GetSession(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "bob", view.Session.UserName)
	assert.Len(t, view.Slots, 1)
}

func TestSessionService_SetSlotTrashed(t *testing.T) {
	repo := repository.NewMemorySessionsRepo()
	svc := NewSessionService(repo, nil, zap.NewNop())

	id, err := svc.CreateSession(context.Background(), sanitizedPayload(t, schema.SessionPayload{
		Session: map[string]any{
			"user_name":     "alice",
			"date":          "2026-03-05",
			"grid_box_name": "Box-A1",
		},
		Grids: []map[string]any{
			{"slot_number": 1, "include_in_session": true},
		},
	}))
	require.NoError(t, err)

	require.NoError(t, svc.SetSlotTrashed(context.Background(), id, 1, true))

	view, err := svc.GetSession(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, view.Effective, 1)
	assert.True(t, view.Effective[0].Trashed)
	// trashed slots still resolve, they are only flagged
	assert.True(t, view.Effective[0].Used)

	err = svc.SetSlotTrashed(context.Background(), id, 4, true)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPayloadToRecord_NilSectionsStayNil(t *testing.T) {
	rec := payloadToRecord(schema.SessionPayload{
		Session: map[string]any{
			"user_name":     "alice",
			"date":          "2026-03-05",
			"grid_box_name": "Box",
		},
	})
	assert.Nil(t, rec.Sample)
	assert.Nil(t, rec.Settings)
	assert.Nil(t, rec.GridInfo)
	assert.Empty(t, rec.Slots)
}

func TestPayloadToRecord_SanitizedTypes(t *testing.T) {
	p := sanitizedPayload(t, schema.SessionPayload{
		Session: map[string]any{
			"user_name":     "alice",
			"date":          "2026-03-05",
			"grid_box_name": "Box",
		},
		Vitrobot: map[string]any{
			"blot_force":             "-5",
			"humidity_percent":       "85.5",
			"glow_discharge_applied": 1,
		},
		Grids: []map[string]any{
			{"slot_number": "2", "include_in_session": true, "volume_override_ul": "3.5"},
		},
	})
	rec := payloadToRecord(p)

	require.NotNil(t, rec.Settings)
	require.NotNil(t, rec.Settings.BlotForce)
	assert.Equal(t, -5, *rec.Settings.BlotForce)
	require.NotNil(t, rec.Settings.HumidityPercent)
	assert.Equal(t, 85.5, *rec.Settings.HumidityPercent)
	require.NotNil(t, rec.Settings.GlowDischargeApplied)
	assert.True(t, *rec.Settings.GlowDischargeApplied)

	require.Len(t, rec.Slots, 1)
	assert.Equal(t, 2, rec.Slots[0].SlotNumber)
	assert.True(t, rec.Slots[0].IncludeInSession)
	require.NotNil(t, rec.Slots[0].VolumeOverrideUl)
	assert.Equal(t, 3.5, *rec.Slots[0].VolumeOverrideUl)
}
