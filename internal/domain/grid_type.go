package domain

// GridType 网格类型领域模型（对应 grid_types 表）
// Catalog entry for a purchasable grid product (e.g. Quantifoil R2/2 Cu 300).
type GridType struct {
	GridTypeID   string   `db:"grid_type_id" json:"grid_type_id"` // UUID, PRIMARY KEY
	Name         string   `db:"name" json:"name"`
	Manufacturer *string  `db:"manufacturer" json:"manufacturer"`
	Material     *string  `db:"material" json:"material"`
	MeshSize     *int     `db:"mesh_size" json:"mesh_size"`
	HoleSizeUm   *float64 `db:"hole_size_um" json:"hole_size_um"`
	FilmType     *string  `db:"film_type" json:"film_type"`
}

// GridBatch 网格批次（对应 grid_batches 表）
// A physical box of grids of one type received by the lab.
type GridBatch struct {
	BatchID           string  `db:"batch_id" json:"batch_id"` // UUID, PRIMARY KEY
	GridTypeID        string  `db:"grid_type_id" json:"grid_type_id"`
	BatchCode         string  `db:"batch_code" json:"batch_code"`
	ReceivedDate      *string `db:"received_date" json:"received_date"` // YYYY-MM-DD
	QuantityRemaining *int    `db:"quantity_remaining" json:"quantity_remaining"`
	Notes             *string `db:"notes" json:"notes"`
}
