package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"cryolab-data/internal/domain"

	"github.com/google/uuid"
)

// PostgresSessionsRepository 制备会话Repository实现
type PostgresSessionsRepository struct {
	db *sql.DB
}

// NewPostgresSessionsRepository 创建会话Repository
func NewPostgresSessionsRepository(db *sql.DB) *PostgresSessionsRepository {
	return &PostgresSessionsRepository{db: db}
}

// 确保实现了接口
var _ SessionsRepository = (*PostgresSessionsRepository)(nil)

func (r *PostgresSessionsRepository) GetSession(ctx context.Context, sessionID string) (*domain.SessionRecord, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session_id is required")
	}

	rec := &domain.SessionRecord{}

	query := `
		SELECT
			session_id::text,
			user_name,
			to_char(session_date, 'YYYY-MM-DD'),
			grid_box_name,
			storage_location,
			notes,
			created_at,
			updated_at
		FROM sessions
		WHERE session_id = $1::uuid
	`
	var storage, notes sql.NullString
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
		&rec.Session.SessionID,
		&rec.Session.UserName,
		&rec.Session.Date,
		&rec.Session.GridBoxName,
		&storage,
		&notes,
		&rec.Session.CreatedAt,
		&rec.Session.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	rec.Session.StorageLocation = strPtr(storage)
	rec.Session.Notes = strPtr(notes)

	if rec.Settings, err = r.getSettings(ctx, sessionID); err != nil {
		return nil, err
	}
	if rec.GridInfo, err = r.getGridInfo(ctx, sessionID); err != nil {
		return nil, err
	}
	if rec.Sample, err = r.getSample(ctx, sessionID); err != nil {
		return nil, err
	}
	if rec.Slots, err = r.getSlots(ctx, sessionID); err != nil {
		return nil, err
	}

	return rec, nil
}

func (r *PostgresSessionsRepository) getSettings(ctx context.Context, sessionID string) (*domain.VitrobotSettings, error) {
	query := `
		SELECT
			humidity_percent, temperature_c, blot_force, blot_time_sec,
			wait_time_sec, drain_time_sec, glow_discharge_applied,
			glow_discharge_current_ma, glow_discharge_time_sec
		FROM vitrobot_settings
		WHERE session_id = $1::uuid
	`
	var humidity, temperature, blotTime, waitTime, drainTime, gdCurrent sql.NullFloat64
	var blotForce, gdTime sql.NullInt64
	var gdApplied sql.NullBool
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
		&humidity, &temperature, &blotForce, &blotTime,
		&waitTime, &drainTime, &gdApplied, &gdCurrent, &gdTime,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get vitrobot settings: %w", err)
	}
	return &domain.VitrobotSettings{
		SessionID:              sessionID,
		HumidityPercent:        floatPtr(humidity),
		TemperatureC:           floatPtr(temperature),
		BlotForce:              intPtr(blotForce),
		BlotTimeSec:            floatPtr(blotTime),
		WaitTimeSec:            floatPtr(waitTime),
		DrainTimeSec:           floatPtr(drainTime),
		GlowDischargeApplied:   boolPtr(gdApplied),
		GlowDischargeCurrentMA: floatPtr(gdCurrent),
		GlowDischargeTimeSec:   intPtr(gdTime),
	}, nil
}

func (r *PostgresSessionsRepository) getGridInfo(ctx context.Context, sessionID string) (*domain.GridInfo, error) {
	query := `
		SELECT grid_type, grid_batch, storage_location, hole_type
		FROM grid_info
		WHERE session_id = $1::uuid
	`
	var gridType, gridBatch, storage, holeType sql.NullString
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(&gridType, &gridBatch, &storage, &holeType)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get grid info: %w", err)
	}
	return &domain.GridInfo{
		SessionID:       sessionID,
		GridType:        strPtr(gridType),
		GridBatch:       strPtr(gridBatch),
		StorageLocation: strPtr(storage),
		HoleType:        strPtr(holeType),
	}, nil
}

func (r *PostgresSessionsRepository) getSample(ctx context.Context, sessionID string) (*domain.Sample, error) {
	query := `
		SELECT sample_id::text, sample_name, sample_concentration, additives, default_volume_ul
		FROM samples
		WHERE session_id = $1::uuid AND slot_number IS NULL
	`
	var s domain.Sample
	var concentration, additives sql.NullString
	var volume sql.NullFloat64
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
		&s.SampleID, &s.SampleName, &concentration, &additives, &volume,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get sample: %w", err)
	}
	s.SessionID = sessionID
	s.SampleConcentration = strPtr(concentration)
	s.Additives = strPtr(additives)
	s.DefaultVolumeUl = floatPtr(volume)
	return &s, nil
}

func (r *PostgresSessionsRepository) getSlots(ctx context.Context, sessionID string) ([]domain.GridSlot, error) {
	query := `
		SELECT
			slot_id::text, slot_number, include_in_session, trashed,
			volume_override_ul, blot_force_override, blot_time_override_sec,
			grid_batch_override, additives_override, grid_type_override,
			volume_ul, blot_force, blot_time_sec, grid_batch, additives, grid_type,
			sample_name, sample_concentration, default_volume_ul, comments
		FROM grid_preparations
		WHERE session_id = $1::uuid
		ORDER BY slot_number
	`
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list grid slots: %w", err)
	}
	defer rows.Close()

	var slots []domain.GridSlot
	for rows.Next() {
		var s domain.GridSlot
		var volOvr, blotTimeOvr, vol, blotTime, defVol sql.NullFloat64
		var forceOvr, force sql.NullInt64
		var batchOvr, addOvr, typeOvr, batch, additives, gridType, sampleName, sampleConc, comments sql.NullString
		if err := rows.Scan(
			&s.SlotID, &s.SlotNumber, &s.IncludeInSession, &s.Trashed,
			&volOvr, &forceOvr, &blotTimeOvr,
			&batchOvr, &addOvr, &typeOvr,
			&vol, &force, &blotTime, &batch, &additives, &gridType,
			&sampleName, &sampleConc, &defVol, &comments,
		); err != nil {
			return nil, fmt.Errorf("failed to scan grid slot: %w", err)
		}
		s.SessionID = sessionID
		s.VolumeOverrideUl = floatPtr(volOvr)
		s.BlotForceOverride = intPtr(forceOvr)
		s.BlotTimeOverrideSec = floatPtr(blotTimeOvr)
		s.GridBatchOverride = strPtr(batchOvr)
		s.AdditivesOverride = strPtr(addOvr)
		s.GridTypeOverride = strPtr(typeOvr)
		s.VolumeUl = floatPtr(vol)
		s.BlotForce = intPtr(force)
		s.BlotTimeSec = floatPtr(blotTime)
		s.GridBatch = strPtr(batch)
		s.Additives = strPtr(additives)
		s.GridType = strPtr(gridType)
		s.SampleName = strPtr(sampleName)
		s.SampleConcentration = strPtr(sampleConc)
		s.DefaultVolumeUl = floatPtr(defVol)
		s.Comments = strPtr(comments)
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

func (r *PostgresSessionsRepository) ListSessions(ctx context.Context, filter SessionFilters, page, size int) ([]*domain.Session, int, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 200 {
		size = 50
	}

	conditions := []string{"1=1"}
	args := []any{}
	argN := 1
	if filter.UserName != "" {
		conditions = append(conditions, fmt.Sprintf("user_name = $%d", argN))
		args = append(args, filter.UserName)
		argN++
	}
	if filter.DateFrom != "" {
		conditions = append(conditions, fmt.Sprintf("session_date >= $%d::date", argN))
		args = append(args, filter.DateFrom)
		argN++
	}
	if filter.DateTo != "" {
		conditions = append(conditions, fmt.Sprintf("session_date <= $%d::date", argN))
		args = append(args, filter.DateTo)
		argN++
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("grid_box_name ILIKE $%d", argN))
		args = append(args, "%"+filter.Search+"%")
		argN++
	}
	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM sessions WHERE " + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT
			session_id::text, user_name, to_char(session_date, 'YYYY-MM-DD'),
			grid_box_name, storage_location, notes, created_at, updated_at
		FROM sessions
		WHERE %s
		ORDER BY session_date DESC, created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, argN, argN+1)
	args = append(args, size, (page-1)*size)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var out []*domain.Session
	for rows.Next() {
		var s domain.Session
		var storage, notes sql.NullString
		if err := rows.Scan(
			&s.SessionID, &s.UserName, &s.Date,
			&s.GridBoxName, &storage, &notes, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan session: %w", err)
		}
		s.StorageLocation = strPtr(storage)
		s.Notes = strPtr(notes)
		out = append(out, &s)
	}
	return out, total, rows.Err()
}

func (r *PostgresSessionsRepository) CreateSession(ctx context.Context, rec *domain.SessionRecord) (string, error) {
	sessionID := rec.Session.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (session_id, user_name, session_date, grid_box_name, storage_location, notes)
		 VALUES ($1::uuid, $2, $3::date, $4, $5, $6)`,
		sessionID, rec.Session.UserName, rec.Session.Date, rec.Session.GridBoxName,
		nullString(rec.Session.StorageLocation), nullString(rec.Session.Notes),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert session: %w", err)
	}

	if err := r.insertChildren(ctx, tx, sessionID, rec); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit session: %w", err)
	}
	return sessionID, nil
}

func (r *PostgresSessionsRepository) UpdateSession(ctx context.Context, sessionID string, rec *domain.SessionRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE sessions
		 SET user_name = $2, session_date = $3::date, grid_box_name = $4,
		     storage_location = $5, notes = $6, updated_at = now()
		 WHERE session_id = $1::uuid`,
		sessionID, rec.Session.UserName, rec.Session.Date, rec.Session.GridBoxName,
		nullString(rec.Session.StorageLocation), nullString(rec.Session.Notes),
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}

	// Replace nested records wholesale; simpler than diffing and still one
	// transaction.
	for _, table := range []string{"vitrobot_settings", "grid_info", "samples", "grid_preparations"} {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE session_id = $1::uuid", table), sessionID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	if err := r.insertChildren(ctx, tx, sessionID, rec); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session update: %w", err)
	}
	return nil
}

func (r *PostgresSessionsRepository) insertChildren(ctx context.Context, tx *sql.Tx, sessionID string, rec *domain.SessionRecord) error {
	if st := rec.Settings; st != nil {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO vitrobot_settings (
				session_id, humidity_percent, temperature_c, blot_force, blot_time_sec,
				wait_time_sec, drain_time_sec, glow_discharge_applied,
				glow_discharge_current_ma, glow_discharge_time_sec)
			 VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			sessionID, nullFloat(st.HumidityPercent), nullFloat(st.TemperatureC),
			nullInt(st.BlotForce), nullFloat(st.BlotTimeSec), nullFloat(st.WaitTimeSec),
			nullFloat(st.DrainTimeSec), nullBool(st.GlowDischargeApplied),
			nullFloat(st.GlowDischargeCurrentMA), nullInt(st.GlowDischargeTimeSec),
		)
		if err != nil {
			return fmt.Errorf("failed to insert vitrobot settings: %w", err)
		}
	}

	if gi := rec.GridInfo; gi != nil {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO grid_info (session_id, grid_type, grid_batch, storage_location, hole_type)
			 VALUES ($1::uuid, $2, $3, $4, $5)`,
			sessionID, nullString(gi.GridType), nullString(gi.GridBatch),
			nullString(gi.StorageLocation), nullString(gi.HoleType),
		)
		if err != nil {
			return fmt.Errorf("failed to insert grid info: %w", err)
		}
	}

	if sm := rec.Sample; sm != nil {
		sampleID := sm.SampleID
		if sampleID == "" {
			sampleID = uuid.NewString()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO samples (sample_id, session_id, slot_number, sample_name, sample_concentration, additives, default_volume_ul)
			 VALUES ($1::uuid, $2::uuid, NULL, $3, $4, $5, $6)`,
			sampleID, sessionID, sm.SampleName,
			nullString(sm.SampleConcentration), nullString(sm.Additives), nullFloat(sm.DefaultVolumeUl),
		)
		if err != nil {
			return fmt.Errorf("failed to insert sample: %w", err)
		}
	}

	for i := range rec.Slots {
		s := &rec.Slots[i]
		slotID := s.SlotID
		if slotID == "" {
			slotID = uuid.NewString()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO grid_preparations (
				slot_id, session_id, slot_number, include_in_session, trashed,
				volume_override_ul, blot_force_override, blot_time_override_sec,
				grid_batch_override, additives_override, grid_type_override,
				volume_ul, blot_force, blot_time_sec, grid_batch, additives, grid_type,
				sample_name, sample_concentration, default_volume_ul, comments)
			 VALUES ($1::uuid, $2::uuid, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			         $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`,
			slotID, sessionID, s.SlotNumber, s.IncludeInSession, s.Trashed,
			nullFloat(s.VolumeOverrideUl), nullInt(s.BlotForceOverride), nullFloat(s.BlotTimeOverrideSec),
			nullString(s.GridBatchOverride), nullString(s.AdditivesOverride), nullString(s.GridTypeOverride),
			nullFloat(s.VolumeUl), nullInt(s.BlotForce), nullFloat(s.BlotTimeSec),
			nullString(s.GridBatch), nullString(s.Additives), nullString(s.GridType),
			nullString(s.SampleName), nullString(s.SampleConcentration), nullFloat(s.DefaultVolumeUl),
			nullString(s.Comments),
		)
		if err != nil {
			return fmt.Errorf("failed to insert grid slot %d: %w", s.SlotNumber, err)
		}
	}

	return nil
}

func (r *PostgresSessionsRepository) SetSlotTrashed(ctx context.Context, sessionID string, slotNumber int, trashed bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE grid_preparations SET trashed = $3
		 WHERE session_id = $1::uuid AND slot_number = $2`,
		sessionID, slotNumber, trashed,
	)
	if err != nil {
		return fmt.Errorf("failed to set slot trashed: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("slot %d of session %s: %w", slotNumber, sessionID, ErrNotFound)
	}
	return nil
}

func (r *PostgresSessionsRepository) DeleteSession(ctx context.Context, sessionID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"grid_preparations", "samples", "grid_info", "vitrobot_settings"} {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE session_id = $1::uuid", table), sessionID); err != nil {
			return fmt.Errorf("failed to delete from %s: %w", table, err)
		}
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM sessions WHERE session_id = $1::uuid", sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session delete: %w", err)
	}
	return nil
}
