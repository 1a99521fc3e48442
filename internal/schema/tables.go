package schema

// FieldType 字段类型（与前端表单字段一一对应）
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeText    FieldType = "text"
	TypeInteger FieldType = "integer"
	TypeDecimal FieldType = "decimal"
	TypeBoolean FieldType = "boolean"
	TypeDate    FieldType = "date"
)

// FieldSchema declares the constraints for a single field. Zero-valued
// pointers mean "no constraint". Instances are package-level constants and
// must never be mutated after init.
type FieldSchema struct {
	Type      FieldType
	Required  bool
	MinLength int // 0 = unset; not enforced for TypeText
	MaxLength int // 0 = unset
	Min       *float64
	Max       *float64
	Precision *int // max digits after the decimal point (TypeDecimal only)
}

// Field binds a name to its schema. Tables keep fields in declaration order
// so error output stays deterministic (Go maps are unordered).
type Field struct {
	Name   string
	Schema FieldSchema
}

// TableSchema 表结构定义
type TableSchema struct {
	Name   string
	Fields []Field
}

func (t TableSchema) lookup(name string) (FieldSchema, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f.Schema, true
		}
	}
	return FieldSchema{}, false
}

func fv(v float64) *float64 { return &v }
func iv(v int) *int         { return &v }

// Recognized table names. The set is fixed; handlers reference these
// constants instead of raw strings.
const (
	TableSessions         = "sessions"
	TableVitrobotSettings = "vitrobot_settings"
	TableGrids            = "grids"
	TableGridPreparations = "grid_preparations"
	TableSamples          = "samples"
	TableGridTypes        = "grid_types"
)

var tables = map[string]TableSchema{
	TableSessions: {
		Name: TableSessions,
		Fields: []Field{
			{"user_name", FieldSchema{Type: TypeString, Required: true, MaxLength: 100}},
			{"date", FieldSchema{Type: TypeDate, Required: true}},
			{"grid_box_name", FieldSchema{Type: TypeString, Required: true, MaxLength: 255}},
			{"storage_location", FieldSchema{Type: TypeString, MaxLength: 255}},
			{"notes", FieldSchema{Type: TypeText, MaxLength: 2000}},
		},
	},
	TableVitrobotSettings: {
		Name: TableVitrobotSettings,
		Fields: []Field{
			{"humidity_percent", FieldSchema{Type: TypeDecimal, Min: fv(0), Max: fv(100), Precision: iv(1)}},
			{"temperature_c", FieldSchema{Type: TypeDecimal, Min: fv(-10), Max: fv(60), Precision: iv(1)}},
			{"blot_force", FieldSchema{Type: TypeInteger, Min: fv(-25), Max: fv(25)}},
			{"blot_time_sec", FieldSchema{Type: TypeDecimal, Min: fv(0), Max: fv(60), Precision: iv(1)}},
			{"wait_time_sec", FieldSchema{Type: TypeDecimal, Min: fv(0), Max: fv(300), Precision: iv(1)}},
			{"drain_time_sec", FieldSchema{Type: TypeDecimal, Min: fv(0), Max: fv(60), Precision: iv(1)}},
			{"glow_discharge_applied", FieldSchema{Type: TypeBoolean}},
			{"glow_discharge_current_ma", FieldSchema{Type: TypeDecimal, Min: fv(0), Max: fv(100), Precision: iv(2)}},
			{"glow_discharge_time_sec", FieldSchema{Type: TypeInteger, Min: fv(0), Max: fv(600)}},
		},
	},
	TableGrids: {
		Name: TableGrids,
		Fields: []Field{
			{"grid_type", FieldSchema{Type: TypeString, MaxLength: 100}},
			{"grid_batch", FieldSchema{Type: TypeString, MaxLength: 100}},
			{"storage_location", FieldSchema{Type: TypeString, MaxLength: 255}},
			{"hole_type", FieldSchema{Type: TypeString, MaxLength: 50}},
		},
	},
	TableGridPreparations: {
		Name: TableGridPreparations,
		Fields: []Field{
			{"slot_number", FieldSchema{Type: TypeInteger, Required: true, Min: fv(1), Max: fv(4)}},
			{"include_in_session", FieldSchema{Type: TypeBoolean}},
			{"trashed", FieldSchema{Type: TypeBoolean}},
			{"volume_override_ul", FieldSchema{Type: TypeDecimal, Min: fv(0), Max: fv(10), Precision: iv(2)}},
			{"blot_force_override", FieldSchema{Type: TypeInteger, Min: fv(-25), Max: fv(25)}},
			{"blot_time_override_sec", FieldSchema{Type: TypeDecimal, Min: fv(0), Max: fv(60), Precision: iv(1)}},
			{"grid_batch_override", FieldSchema{Type: TypeString, MaxLength: 100}},
			{"additives_override", FieldSchema{Type: TypeString, MaxLength: 500}},
			{"grid_type_override", FieldSchema{Type: TypeString, MaxLength: 100}},
			{"sample_name", FieldSchema{Type: TypeString, MaxLength: 255}},
			{"sample_concentration", FieldSchema{Type: TypeString, MaxLength: 100}},
			{"additives", FieldSchema{Type: TypeString, MaxLength: 500}},
			{"default_volume_ul", FieldSchema{Type: TypeDecimal, Min: fv(0), Max: fv(10), Precision: iv(2)}},
			{"comments", FieldSchema{Type: TypeText, MaxLength: 1000}},
		},
	},
	TableSamples: {
		Name: TableSamples,
		Fields: []Field{
			{"sample_name", FieldSchema{Type: TypeString, Required: true, MaxLength: 255}},
			{"sample_concentration", FieldSchema{Type: TypeString, MaxLength: 100}},
			{"additives", FieldSchema{Type: TypeString, MaxLength: 500}},
			{"default_volume_ul", FieldSchema{Type: TypeDecimal, Min: fv(0), Max: fv(10), Precision: iv(2)}},
		},
	},
	TableGridTypes: {
		Name: TableGridTypes,
		Fields: []Field{
			{"name", FieldSchema{Type: TypeString, Required: true, MaxLength: 100}},
			{"manufacturer", FieldSchema{Type: TypeString, MaxLength: 100}},
			{"material", FieldSchema{Type: TypeString, MaxLength: 50}},
			{"mesh_size", FieldSchema{Type: TypeInteger, Min: fv(50), Max: fv(600)}},
			{"hole_size_um", FieldSchema{Type: TypeDecimal, Min: fv(0), Max: fv(10), Precision: iv(2)}},
			{"film_type", FieldSchema{Type: TypeString, MaxLength: 100}},
		},
	},
}

// Table returns the schema for a known table name. An unknown name is a
// wiring bug (a handler validating against a table that does not exist),
// not user input, so it panics instead of returning an empty error list.
func Table(name string) TableSchema {
	t, ok := tables[name]
	if !ok {
		panic("schema: unknown table " + name)
	}
	return t
}
