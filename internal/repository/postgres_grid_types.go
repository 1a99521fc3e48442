package repository

import (
	"context"
	"database/sql"
	"fmt"

	"cryolab-data/internal/domain"

	"github.com/google/uuid"
)

// PostgresGridTypesRepository 网格类型/批次Repository实现
type PostgresGridTypesRepository struct {
	db *sql.DB
}

func NewPostgresGridTypesRepository(db *sql.DB) *PostgresGridTypesRepository {
	return &PostgresGridTypesRepository{db: db}
}

var _ GridTypesRepository = (*PostgresGridTypesRepository)(nil)

const gridTypeColumns = `
	grid_type_id::text, name, manufacturer, material, mesh_size, hole_size_um, film_type
`

func scanGridType(row interface{ Scan(...any) error }) (*domain.GridType, error) {
	var gt domain.GridType
	var manufacturer, material, filmType sql.NullString
	var meshSize sql.NullInt64
	var holeSize sql.NullFloat64
	if err := row.Scan(&gt.GridTypeID, &gt.Name, &manufacturer, &material, &meshSize, &holeSize, &filmType); err != nil {
		return nil, err
	}
	gt.Manufacturer = strPtr(manufacturer)
	gt.Material = strPtr(material)
	gt.MeshSize = intPtr(meshSize)
	gt.HoleSizeUm = floatPtr(holeSize)
	gt.FilmType = strPtr(filmType)
	return &gt, nil
}

func (r *PostgresGridTypesRepository) GetGridType(ctx context.Context, gridTypeID string) (*domain.GridType, error) {
	if gridTypeID == "" {
		return nil, fmt.Errorf("grid_type_id is required")
	}
	gt, err := scanGridType(r.db.QueryRowContext(ctx,
		"SELECT "+gridTypeColumns+" FROM grid_types WHERE grid_type_id = $1::uuid", gridTypeID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("grid type %s: %w", gridTypeID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get grid type: %w", err)
	}
	return gt, nil
}

func (r *PostgresGridTypesRepository) ListGridTypes(ctx context.Context, search string, page, size int) ([]*domain.GridType, int, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 200 {
		size = 50
	}

	where := "1=1"
	args := []any{}
	if search != "" {
		where = "name ILIKE $1"
		args = append(args, "%"+search+"%")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM grid_types WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count grid types: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM grid_types WHERE %s ORDER BY name LIMIT $%d OFFSET $%d",
		gridTypeColumns, where, len(args)+1, len(args)+2)
	args = append(args, size, (page-1)*size)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list grid types: %w", err)
	}
	defer rows.Close()

	var out []*domain.GridType
	for rows.Next() {
		gt, err := scanGridType(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan grid type: %w", err)
		}
		out = append(out, gt)
	}
	return out, total, rows.Err()
}

func (r *PostgresGridTypesRepository) CreateGridType(ctx context.Context, gt *domain.GridType) (string, error) {
	id := gt.GridTypeID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO grid_types (grid_type_id, name, manufacturer, material, mesh_size, hole_size_um, film_type)
		 VALUES ($1::uuid, $2, $3, $4, $5, $6, $7)`,
		id, gt.Name, nullString(gt.Manufacturer), nullString(gt.Material),
		nullInt(gt.MeshSize), nullFloat(gt.HoleSizeUm), nullString(gt.FilmType),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert grid type: %w", err)
	}
	return id, nil
}

func (r *PostgresGridTypesRepository) UpdateGridType(ctx context.Context, gridTypeID string, gt *domain.GridType) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE grid_types
		 SET name = $2, manufacturer = $3, material = $4, mesh_size = $5, hole_size_um = $6, film_type = $7
		 WHERE grid_type_id = $1::uuid`,
		gridTypeID, gt.Name, nullString(gt.Manufacturer), nullString(gt.Material),
		nullInt(gt.MeshSize), nullFloat(gt.HoleSizeUm), nullString(gt.FilmType),
	)
	if err != nil {
		return fmt.Errorf("failed to update grid type: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("grid type %s: %w", gridTypeID, ErrNotFound)
	}
	return nil
}

func (r *PostgresGridTypesRepository) DeleteGridType(ctx context.Context, gridTypeID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM grid_batches WHERE grid_type_id = $1::uuid", gridTypeID); err != nil {
		return fmt.Errorf("failed to delete grid batches: %w", err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM grid_types WHERE grid_type_id = $1::uuid", gridTypeID)
	if err != nil {
		return fmt.Errorf("failed to delete grid type: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("grid type %s: %w", gridTypeID, ErrNotFound)
	}
	return tx.Commit()
}

func (r *PostgresGridTypesRepository) ListBatches(ctx context.Context, gridTypeID string) ([]*domain.GridBatch, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT batch_id::text, grid_type_id::text, batch_code,
		        to_char(received_date, 'YYYY-MM-DD'), quantity_remaining, notes
		 FROM grid_batches
		 WHERE grid_type_id = $1::uuid
		 ORDER BY received_date DESC NULLS LAST, batch_code`,
		gridTypeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list grid batches: %w", err)
	}
	defer rows.Close()

	var out []*domain.GridBatch
	for rows.Next() {
		var b domain.GridBatch
		var received, notes sql.NullString
		var qty sql.NullInt64
		if err := rows.Scan(&b.BatchID, &b.GridTypeID, &b.BatchCode, &received, &qty, &notes); err != nil {
			return nil, fmt.Errorf("failed to scan grid batch: %w", err)
		}
		b.ReceivedDate = strPtr(received)
		b.QuantityRemaining = intPtr(qty)
		b.Notes = strPtr(notes)
		out = append(out, &b)
	}
	return out, rows.Err()
}

func (r *PostgresGridTypesRepository) CreateBatch(ctx context.Context, b *domain.GridBatch) (string, error) {
	id := b.BatchID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO grid_batches (batch_id, grid_type_id, batch_code, received_date, quantity_remaining, notes)
		 VALUES ($1::uuid, $2::uuid, $3, $4::date, $5, $6)`,
		id, b.GridTypeID, b.BatchCode,
		nullString(b.ReceivedDate), nullInt(b.QuantityRemaining), nullString(b.Notes),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert grid batch: %w", err)
	}
	return id, nil
}

func (r *PostgresGridTypesRepository) AdjustBatchQuantity(ctx context.Context, batchID string, delta int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE grid_batches
		 SET quantity_remaining = GREATEST(COALESCE(quantity_remaining, 0) + $2, 0)
		 WHERE batch_id = $1::uuid`,
		batchID, delta,
	)
	if err != nil {
		return fmt.Errorf("failed to adjust batch quantity: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("grid batch %s: %w", batchID, ErrNotFound)
	}
	return nil
}

func (r *PostgresGridTypesRepository) DeleteBatch(ctx context.Context, batchID string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM grid_batches WHERE batch_id = $1::uuid", batchID)
	if err != nil {
		return fmt.Errorf("failed to delete grid batch: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("grid batch %s: %w", batchID, ErrNotFound)
	}
	return nil
}
