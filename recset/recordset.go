package recset

import (
	"github.com/cockroachdb/errors"
)

// FieldType is the inferred logical type of a column, widened across every
// record appended to a set.
type FieldType int

const (
	TypeUnknown FieldType = iota
	TypeInt
	TypeFloat
	TypeDecimal
	TypeString
	TypeTime
)

func (t FieldType) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeDecimal:
		return "decimal"
	case TypeString:
		return "string"
	case TypeTime:
		return "time"
	}
	return "unknown"
}

// Schema declares the ordered field names of a record set and the types
// inferred for them.
type Schema struct {
	fields []string
	types  []FieldType
	index  map[string]int
}

func NewSchema(fields []string) (*Schema, error) {
	index := make(map[string]int, len(fields))
	for i, f := range fields {
		if f == "" {
			return nil, errors.Newf("field %d has an empty name", i)
		}
		if _, ok := index[f]; ok {
			return nil, errors.Newf("duplicate field name %q", f)
		}
		index[f] = i
	}
	return &Schema{
		fields: fields,
		types:  make([]FieldType, len(fields)),
		index:  index,
	}, nil
}

func (s *Schema) Fields() []string {
	return s.fields
}

func (s *Schema) NumFields() int {
	return len(s.fields)
}

func (s *Schema) HasField(name string) bool {
	_, ok := s.index[name]
	return ok
}

func (s *Schema) FieldType(name string) FieldType {
	idx, ok := s.index[name]
	if !ok {
		return TypeUnknown
	}
	return s.types[idx]
}

func (s *Schema) widen(idx int, v Value) {
	var t FieldType
	switch v.Kind() {
	case KindNull:
		return
	case KindInt:
		t = TypeInt
	case KindFloat:
		t = TypeFloat
	case KindDecimal:
		t = TypeDecimal
	case KindString:
		t = TypeString
	case KindTime:
		t = TypeTime
	}
	cur := s.types[idx]
	switch {
	case cur == TypeUnknown:
		s.types[idx] = t
	case cur == t:
	case cur == TypeInt && (t == TypeFloat || t == TypeDecimal):
		s.types[idx] = t
	case (cur == TypeFloat || cur == TypeDecimal) && t == TypeInt:
	default:
		s.types[idx] = TypeString
	}
}

// Record is a read-only view over one row of a record set. All records of a
// set share the set's schema, so field lookups are index hops, not map walks.
type Record struct {
	schema *Schema
	vals   []Value
}

func (r Record) Get(field string) (Value, bool) {
	idx, ok := r.schema.index[field]
	if !ok {
		return Value{}, false
	}
	return r.vals[idx], true
}

func (r Record) Values() []Value {
	return r.vals
}

func (r Record) Fields() []string {
	return r.schema.fields
}

// RecordSet is an ordered, immutable-once-built collection of records with a
// shared schema. Builders construct it; the comparison engine only reads it.
type RecordSet struct {
	schema *Schema
	rows   [][]Value
}

func (rs *RecordSet) Schema() *Schema {
	return rs.schema
}

func (rs *RecordSet) NumRecords() int {
	return len(rs.rows)
}

func (rs *RecordSet) Record(i int) Record {
	return Record{schema: rs.schema, vals: rs.rows[i]}
}

// Builder accumulates rows for a record set. Append enforces the uniform
// field-set invariant and feeds schema type inference.
type Builder struct {
	schema *Schema
	rows   [][]Value
}

func NewBuilder(fields []string) (*Builder, error) {
	schema, err := NewSchema(fields)
	if err != nil {
		return nil, err
	}
	return &Builder{schema: schema}, nil
}

func (b *Builder) Append(vals ...Value) error {
	if len(vals) != b.schema.NumFields() {
		return errors.Newf(
			"record has %d values, schema has %d fields", len(vals), b.schema.NumFields())
	}
	row := make([]Value, len(vals))
	copy(row, vals)
	for i, v := range row {
		b.schema.widen(i, v)
	}
	b.rows = append(b.rows, row)
	return nil
}

// AppendMap appends a record given as a field-to-value mapping. Fields absent
// from the mapping become NULL; fields outside the schema are an error, since
// every record of a set must carry the same field set.
func (b *Builder) AppendMap(m map[string]Value) error {
	for f := range m {
		if !b.schema.HasField(f) {
			return errors.Newf("field %q is not part of the schema", f)
		}
	}
	row := make([]Value, b.schema.NumFields())
	for i, f := range b.schema.fields {
		if v, ok := m[f]; ok {
			row[i] = v
		} else {
			row[i] = Null()
		}
	}
	return b.Append(row...)
}

func (b *Builder) Finish() *RecordSet {
	rs := &RecordSet{schema: b.schema, rows: b.rows}
	b.rows = nil
	return rs
}
