package service

import (
	"context"
	"fmt"

	"cryolab-data/internal/domain"
	"cryolab-data/internal/repository"
	"cryolab-data/internal/resolve"
	"cryolab-data/internal/schema"

	"go.uber.org/zap"
)

// SessionService 制备会话服务接口
// Payloads arriving here have already been validated and sanitized by the
// HTTP layer; this service maps them onto domain records, persists them and
// resolves effective slot values for reads.
type SessionService interface {
	CreateSession(ctx context.Context, p schema.SessionPayload) (string, error)
	GetSession(ctx context.Context, sessionID string) (*SessionView, error)
	ListSessions(ctx context.Context, filter repository.SessionFilters, page, size int) ([]*domain.Session, int, error)
	UpdateSession(ctx context.Context, sessionID string, p schema.SessionPayload) error
	DeleteSession(ctx context.Context, sessionID string) error
	SetSlotTrashed(ctx context.Context, sessionID string, slotNumber int, trashed bool) error
}

// SessionView GET 响应组合：存储记录 + 每个槽位的显示时解析结果
type SessionView struct {
	Session   domain.Session           `json:"session"`
	Sample    *domain.Sample           `json:"sample,omitempty"`
	Settings  *domain.VitrobotSettings `json:"vitrobot_settings,omitempty"`
	GridInfo  *domain.GridInfo         `json:"grid_info,omitempty"`
	Slots     []domain.GridSlot        `json:"grids"`
	Effective []resolve.EffectiveSlot  `json:"effective_slots"`
}

type sessionService struct {
	repo     repository.SessionsRepository
	notifier *Notifier
	logger   *zap.Logger
}

// NewSessionService 创建 SessionService 实例（notifier 可为 nil）
func NewSessionService(repo repository.SessionsRepository, notifier *Notifier, logger *zap.Logger) SessionService {
	return &sessionService{repo: repo, notifier: notifier, logger: logger}
}

func (s *sessionService) CreateSession(ctx context.Context, p schema.SessionPayload) (string, error) {
	rec := payloadToRecord(p)
	id, err := s.repo.CreateSession(ctx, rec)
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	s.logger.Info("session created",
		zap.String("session_id", id),
		zap.String("grid_box_name", rec.Session.GridBoxName),
		zap.Int("slots", len(rec.Slots)),
	)
	if s.notifier != nil {
		// fire and forget: a dead webhook must not fail data entry
		go s.notifier.SessionCreated(context.Background(), SessionCreatedEvent{
			SessionID:   id,
			UserName:    rec.Session.UserName,
			GridBoxName: rec.Session.GridBoxName,
			Date:        rec.Session.Date,
		})
	}
	return id, nil
}

func (s *sessionService) GetSession(ctx context.Context, sessionID string) (*SessionView, error) {
	rec, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &SessionView{
		Session:   rec.Session,
		Sample:    rec.Sample,
		Settings:  rec.Settings,
		GridInfo:  rec.GridInfo,
		Slots:     rec.Slots,
		Effective: resolve.Slots(rec),
	}, nil
}

func (s *sessionService) ListSessions(ctx context.Context, filter repository.SessionFilters, page, size int) ([]*domain.Session, int, error) {
	return s.repo.ListSessions(ctx, filter, page, size)
}

func (s *sessionService) UpdateSession(ctx context.Context, sessionID string, p schema.SessionPayload) error {
	rec := payloadToRecord(p)
	if err := s.repo.UpdateSession(ctx, sessionID, rec); err != nil {
		return err
	}
	s.logger.Info("session updated", zap.String("session_id", sessionID))
	return nil
}

func (s *sessionService) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.repo.DeleteSession(ctx, sessionID); err != nil {
		return err
	}
	s.logger.Info("session deleted", zap.String("session_id", sessionID))
	return nil
}

func (s *sessionService) SetSlotTrashed(ctx context.Context, sessionID string, slotNumber int, trashed bool) error {
	if err := s.repo.SetSlotTrashed(ctx, sessionID, slotNumber, trashed); err != nil {
		return err
	}
	s.logger.Info("slot trashed flag set",
		zap.String("session_id", sessionID),
		zap.Int("slot_number", slotNumber),
		zap.Bool("trashed", trashed),
	)
	return nil
}

// payloadToRecord maps a sanitized payload onto domain records. Sanitized
// values carry canonical types (string/int64/float64/bool or nil), so the
// accessors below only deal with those.
func payloadToRecord(p schema.SessionPayload) *domain.SessionRecord {
	rec := &domain.SessionRecord{}

	rec.Session = domain.Session{
		UserName:        sanStringVal(p.Session, "user_name"),
		Date:            sanStringVal(p.Session, "date"),
		GridBoxName:     sanStringVal(p.Session, "grid_box_name"),
		StorageLocation: sanString(p.Session, "storage_location"),
		Notes:           sanString(p.Session, "notes"),
	}

	if p.Sample != nil {
		rec.Sample = &domain.Sample{
			SampleName:          sanStringVal(p.Sample, "sample_name"),
			SampleConcentration: sanString(p.Sample, "sample_concentration"),
			Additives:           sanString(p.Sample, "additives"),
			DefaultVolumeUl:     sanFloat(p.Sample, "default_volume_ul"),
		}
	}

	if p.Vitrobot != nil {
		rec.Settings = &domain.VitrobotSettings{
			HumidityPercent:        sanFloat(p.Vitrobot, "humidity_percent"),
			TemperatureC:           sanFloat(p.Vitrobot, "temperature_c"),
			BlotForce:              sanInt(p.Vitrobot, "blot_force"),
			BlotTimeSec:            sanFloat(p.Vitrobot, "blot_time_sec"),
			WaitTimeSec:            sanFloat(p.Vitrobot, "wait_time_sec"),
			DrainTimeSec:           sanFloat(p.Vitrobot, "drain_time_sec"),
			GlowDischargeApplied:   sanBool(p.Vitrobot, "glow_discharge_applied"),
			GlowDischargeCurrentMA: sanFloat(p.Vitrobot, "glow_discharge_current_ma"),
			GlowDischargeTimeSec:   sanInt(p.Vitrobot, "glow_discharge_time_sec"),
		}
	}

	if p.GridInfo != nil {
		rec.GridInfo = &domain.GridInfo{
			GridType:        sanString(p.GridInfo, "grid_type"),
			GridBatch:       sanString(p.GridInfo, "grid_batch"),
			StorageLocation: sanString(p.GridInfo, "storage_location"),
			HoleType:        sanString(p.GridInfo, "hole_type"),
		}
	}

	for _, g := range p.Grids {
		slot := domain.GridSlot{
			SlotNumber:          sanIntVal(g, "slot_number"),
			IncludeInSession:    sanBoolVal(g, "include_in_session"),
			Trashed:             sanBoolVal(g, "trashed"),
			VolumeOverrideUl:    sanFloat(g, "volume_override_ul"),
			BlotForceOverride:   sanInt(g, "blot_force_override"),
			BlotTimeOverrideSec: sanFloat(g, "blot_time_override_sec"),
			GridBatchOverride:   sanString(g, "grid_batch_override"),
			AdditivesOverride:   sanString(g, "additives_override"),
			GridTypeOverride:    sanString(g, "grid_type_override"),
			SampleName:          sanString(g, "sample_name"),
			SampleConcentration: sanString(g, "sample_concentration"),
			Additives:           sanString(g, "additives"),
			DefaultVolumeUl:     sanFloat(g, "default_volume_ul"),
			Comments:            sanString(g, "comments"),
		}
		rec.Slots = append(rec.Slots, slot)
	}

	return rec
}

func sanString(m map[string]any, key string) *string {
	if v, ok := m[key].(string); ok {
		return &v
	}
	return nil
}

func sanStringVal(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return v
}

func sanFloat(m map[string]any, key string) *float64 {
	switch v := m[key].(type) {
	case float64:
		return &v
	case int64:
		f := float64(v)
		return &f
	}
	return nil
}

func sanInt(m map[string]any, key string) *int {
	switch v := m[key].(type) {
	case int64:
		n := int(v)
		return &n
	case float64:
		n := int(v)
		return &n
	}
	return nil
}

func sanIntVal(m map[string]any, key string) int {
	if v := sanInt(m, key); v != nil {
		return *v
	}
	return 0
}

func sanBool(m map[string]any, key string) *bool {
	if v, ok := m[key].(bool); ok {
		return &v
	}
	return nil
}

func sanBoolVal(m map[string]any, key string) bool {
	v, _ := m[key].(bool)
	return v
}
