// Package pica models PICA+ records: an ordered list of tagged fields, each
// holding an ordered list of subfields.
//
// Field tags are four characters; the first digit gives the level of the
// field (0 title data, 1 holding data, 2 item data). Level 2 fields carry
// an occurrence that numbers the item within its holding.
package pica

import (
	"strings"
)

// Levels of a field, derived from the first character of its tag
const (
	LevelTitle   = 0
	LevelHolding = 1
	LevelItem    = 2
)

// Tags with structural meaning
const (
	TagPPN = "003@" // record identifier, subfield 0
	TagILN = "101@" // starts a holding, subfield a
	TagEPN = "203@" // item identifier, subfield 0
)

// Subfield is a single coded value within a field
type Subfield struct {
	Code  byte
	Value string
}

// Field is a tagged data element
type Field struct {
	Tag        string
	Occurrence string // two or three digits, empty when absent
	Subfields  []Subfield
}

// Record is one bibliographic unit
type Record struct {
	// ID is the record identifier (PPN). Parsers fill it from the first 003@$0;
	// projection keeps it even when 003@ is dropped.
	ID     string
	Fields []Field
}

// NewField builds a field from alternating code/value pairs.
// Pairs with an empty code are skipped.
func NewField(tag, occurrence string, codeValues ...string) Field {
	f := Field{Tag: tag, Occurrence: occurrence}
	for i := 0; i+1 < len(codeValues); i += 2 {
		if codeValues[i] == "" {
			continue
		}
		f.Subfields = append(f.Subfields, Subfield{Code: codeValues[i][0], Value: codeValues[i+1]})
	}
	return f
}

// NewRecord builds a record from fields and derives its identifier
func NewRecord(fields ...Field) *Record {
	r := &Record{Fields: fields}
	r.ID = r.identifier()
	return r
}

// Level returns the field level (0, 1 or 2); -1 for malformed tags
func (f Field) Level() int {
	if f.Tag == "" {
		return -1
	}
	switch f.Tag[0] {
	case '0':
		return LevelTitle
	case '1':
		return LevelHolding
	case '2':
		return LevelItem
	}
	return -1
}

// Key returns TAG or TAG/OCC, the form used in messages and schema lookups
func (f Field) Key() string {
	if f.Occurrence == "" {
		return f.Tag
	}
	return f.Tag + "/" + f.Occurrence
}

// Value returns the first value of the given subfield
func (f Field) Value(code byte) (string, bool) {
	for _, sf := range f.Subfields {
		if sf.Code == code {
			return sf.Value, true
		}
	}
	return "", false
}

// String renders the field in annotated plain notation, for diagnostics
func (f Field) String() string {
	var b strings.Builder
	b.WriteString(f.Key())
	b.WriteByte(' ')
	for _, sf := range f.Subfields {
		b.WriteByte('$')
		b.WriteByte(sf.Code)
		b.WriteString(strings.ReplaceAll(sf.Value, "$", "$$"))
	}
	return b.String()
}

// identifier finds the first 003@$0
func (r *Record) identifier() string {
	for _, f := range r.Fields {
		if f.Tag == TagPPN {
			if v, ok := f.Value('0'); ok {
				return v
			}
		}
	}
	return ""
}

// Filter returns a new record with the fields for which keep returns true.
// Field order and the identifier are preserved.
func (r *Record) Filter(keep func(Field) bool) *Record {
	out := &Record{ID: r.ID, Fields: make([]Field, 0, len(r.Fields))}
	for _, f := range r.Fields {
		if keep(f) {
			out.Fields = append(out.Fields, f)
		}
	}
	return out
}

// TitleFields returns the level 0 fields
func (r *Record) TitleFields() []Field {
	var out []Field
	for _, f := range r.Fields {
		if f.Level() == LevelTitle {
			out = append(out, f)
		}
	}
	return out
}

// Holdings splits the level 1 and level 2 fields into holding records.
// A holding starts at each 101@ and at any level 1 field that follows a
// field of another level. Level 2 fields before the first holding form a
// holding of their own.
func (r *Record) Holdings() []*Record {
	var (
		out     []*Record
		current *Record
		prev    = -1
	)
	for _, f := range r.Fields {
		level := f.Level()
		if level != LevelHolding && level != LevelItem {
			prev = level
			continue
		}
		startHolding := current == nil ||
			(level == LevelHolding && (f.Tag == TagILN || prev != LevelHolding))
		if startHolding {
			current = &Record{ID: r.ID}
			out = append(out, current)
		}
		current.Fields = append(current.Fields, f)
		prev = level
	}
	return out
}

// Items splits the level 2 fields into item records. An item starts at a
// level 2 field that follows a field of another level or whose occurrence
// differs from the current item's.
func (r *Record) Items() []*Record {
	var (
		out     []*Record
		current *Record
		occ     string
		prev    = -1
	)
	for _, f := range r.Fields {
		level := f.Level()
		if level != LevelItem {
			prev = level
			continue
		}
		if current == nil || prev != LevelItem || f.Occurrence != occ {
			current = &Record{ID: r.ID}
			out = append(out, current)
			occ = f.Occurrence
		}
		current.Fields = append(current.Fields, f)
		prev = level
	}
	return out
}

// Equal reports whether two records carry the same identifier and fields
func (r *Record) Equal(other *Record) bool {
	if r == nil || other == nil {
		return r == other
	}
	if r.ID != other.ID || len(r.Fields) != len(other.Fields) {
		return false
	}
	for i := range r.Fields {
		a, b := r.Fields[i], other.Fields[i]
		if a.Tag != b.Tag || a.Occurrence != b.Occurrence || len(a.Subfields) != len(b.Subfields) {
			return false
		}
		for j := range a.Subfields {
			if a.Subfields[j] != b.Subfields[j] {
				return false
			}
		}
	}
	return true
}
