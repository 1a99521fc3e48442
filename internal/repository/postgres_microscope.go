package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"cryolab-data/internal/domain"

	"github.com/google/uuid"
)

// PostgresMicroscopeRepository 显微镜成像会话Repository实现
type PostgresMicroscopeRepository struct {
	db *sql.DB
}

func NewPostgresMicroscopeRepository(db *sql.DB) *PostgresMicroscopeRepository {
	return &PostgresMicroscopeRepository{db: db}
}

var _ MicroscopeRepository = (*PostgresMicroscopeRepository)(nil)

const microscopeColumns = `
	microscope_session_id::text, session_id::text, slot_number, microscope, operator,
	to_char(session_date, 'YYYY-MM-DD'), magnification, images_collected, dose_rate, notes, created_at
`

func scanMicroscopeSession(row interface{ Scan(...any) error }) (*domain.MicroscopeSession, error) {
	var ms domain.MicroscopeSession
	var magnification, images sql.NullInt64
	var doseRate sql.NullFloat64
	var notes sql.NullString
	if err := row.Scan(
		&ms.MicroscopeSessionID, &ms.SessionID, &ms.SlotNumber, &ms.Microscope, &ms.Operator,
		&ms.SessionDate, &magnification, &images, &doseRate, &notes, &ms.CreatedAt,
	); err != nil {
		return nil, err
	}
	ms.Magnification = intPtr(magnification)
	ms.ImagesCollected = intPtr(images)
	ms.DoseRate = floatPtr(doseRate)
	ms.Notes = strPtr(notes)
	return &ms, nil
}

func (r *PostgresMicroscopeRepository) CreateMicroscopeSession(ctx context.Context, ms *domain.MicroscopeSession) (string, error) {
	id := ms.MicroscopeSessionID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO microscope_sessions (
			microscope_session_id, session_id, slot_number, microscope, operator,
			session_date, magnification, images_collected, dose_rate, notes)
		 VALUES ($1::uuid, $2::uuid, $3, $4, $5, $6::date, $7, $8, $9, $10)`,
		id, ms.SessionID, ms.SlotNumber, ms.Microscope, ms.Operator,
		ms.SessionDate, nullInt(ms.Magnification), nullInt(ms.ImagesCollected),
		nullFloat(ms.DoseRate), nullString(ms.Notes),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert microscope session: %w", err)
	}
	return id, nil
}

func (r *PostgresMicroscopeRepository) ListBySession(ctx context.Context, sessionID string) ([]*domain.MicroscopeSession, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+microscopeColumns+` FROM microscope_sessions
		 WHERE session_id = $1::uuid
		 ORDER BY session_date DESC, slot_number`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list microscope sessions: %w", err)
	}
	defer rows.Close()
	return collectMicroscopeSessions(rows)
}

func (r *PostgresMicroscopeRepository) ListMicroscopeSessions(ctx context.Context, filter MicroscopeFilters, page, size int) ([]*domain.MicroscopeSession, int, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 200 {
		size = 50
	}

	conditions := []string{"1=1"}
	args := []any{}
	argN := 1
	if filter.Microscope != "" {
		conditions = append(conditions, fmt.Sprintf("microscope = $%d", argN))
		args = append(args, filter.Microscope)
		argN++
	}
	if filter.Operator != "" {
		conditions = append(conditions, fmt.Sprintf("operator = $%d", argN))
		args = append(args, filter.Operator)
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
	where := strings.Join(conditions, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM microscope_sessions WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count microscope sessions: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM microscope_sessions WHERE %s ORDER BY session_date DESC, created_at DESC LIMIT $%d OFFSET $%d",
		microscopeColumns, where, argN, argN+1)
	args = append(args, size, (page-1)*size)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list microscope sessions: %w", err)
	}
	defer rows.Close()

	out, err := collectMicroscopeSessions(rows)
	return out, total, err
}

func collectMicroscopeSessions(rows *sql.Rows) ([]*domain.MicroscopeSession, error) {
	var out []*domain.MicroscopeSession
	for rows.Next() {
		ms, err := scanMicroscopeSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan microscope session: %w", err)
		}
		out = append(out, ms)
	}
	return out, rows.Err()
}

func (r *PostgresMicroscopeRepository) DeleteMicroscopeSession(ctx context.Context, microscopeSessionID string) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM microscope_sessions WHERE microscope_session_id = $1::uuid", microscopeSessionID)
	if err != nil {
		return fmt.Errorf("failed to delete microscope session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("microscope session %s: %w", microscopeSessionID, ErrNotFound)
	}
	return nil
}
