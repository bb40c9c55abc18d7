// Package schema validates PICA records against Avram schema documents.
//
// A schema lists the known fields by tag (or tag/occurrence) with their
// cardinality and, for each field, the known subfields with cardinality and
// an optional value pattern:
//
//	{
//	  "fields": {
//	    "003@": {
//	      "tag": "003@", "required": true,
//	      "subfields": {"0": {"code": "0", "required": true, "pattern": "^[0-9]+[0-9X]$"}}
//	    }
//	  }
//	}
package schema

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/teranos/picadata/pica"
)

// Schema is a loaded, compiled schema. It is immutable after loading and
// safe for reuse across records.
type Schema struct {
	Title       string                  `json:"title,omitempty" yaml:"title,omitempty"`
	Description string                  `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      map[string]*FieldSchema `json:"fields" yaml:"fields"`

	// required field keys per level, sorted
	required [3][]string
}

// FieldSchema describes one field
type FieldSchema struct {
	Tag        string                     `json:"tag,omitempty" yaml:"tag,omitempty"`
	Occurrence string                     `json:"occurrence,omitempty" yaml:"occurrence,omitempty"`
	Label      string                     `json:"label,omitempty" yaml:"label,omitempty"`
	Required   bool                       `json:"required,omitempty" yaml:"required,omitempty"`
	Repeatable bool                       `json:"repeatable,omitempty" yaml:"repeatable,omitempty"`
	Subfields  map[string]*SubfieldSchema `json:"subfields,omitempty" yaml:"subfields,omitempty"`

	key      string
	level    int
	required []byte // sorted required subfield codes
}

// SubfieldSchema describes one subfield
type SubfieldSchema struct {
	Code       string `json:"code,omitempty" yaml:"code,omitempty"`
	Label      string `json:"label,omitempty" yaml:"label,omitempty"`
	Required   bool   `json:"required,omitempty" yaml:"required,omitempty"`
	Repeatable bool   `json:"repeatable,omitempty" yaml:"repeatable,omitempty"`
	Pattern    string `json:"pattern,omitempty" yaml:"pattern,omitempty"`

	pattern *regexp.Regexp
}

// Check validates a record. The returned messages are empty for a valid
// record. With ignoreUnknown, fields and subfields the schema does not
// list are accepted silently.
//
// Cardinality is checked per level: level 0 fields on the record, level 1
// fields per holding and level 2 fields per item.
func (s *Schema) Check(rec *pica.Record, ignoreUnknown bool) []string {
	c := checker{schema: s, ignoreUnknown: ignoreUnknown}

	c.group(rec.TitleFields(), pica.LevelTitle)
	for _, h := range rec.Holdings() {
		var level1 []pica.Field
		for _, f := range h.Fields {
			if f.Level() == pica.LevelHolding {
				level1 = append(level1, f)
			}
		}
		c.group(level1, pica.LevelHolding)
	}
	for _, item := range rec.Items() {
		c.group(item.Fields, pica.LevelItem)
	}
	return c.errors
}

// Lookup finds the schema of a field: first by TAG/OCC, then by TAG.
// Level 2 occurrences number items and are never part of the key.
func (s *Schema) Lookup(f pica.Field) (*FieldSchema, bool) {
	if f.Occurrence != "" && f.Level() != pica.LevelItem {
		if fs, ok := s.Fields[f.Key()]; ok {
			return fs, true
		}
	}
	fs, ok := s.Fields[f.Tag]
	return fs, ok
}

type checker struct {
	schema        *Schema
	ignoreUnknown bool
	errors        []string
}

func (c *checker) addf(format string, args ...interface{}) {
	c.errors = append(c.errors, fmt.Sprintf(format, args...))
}

func (c *checker) group(fields []pica.Field, level int) {
	seen := make(map[string]int)
	for _, f := range fields {
		fs, ok := c.schema.Lookup(f)
		if !ok {
			if !c.ignoreUnknown {
				c.addf("unknown field %s", f.Key())
			}
			continue
		}
		seen[fs.key]++
		if seen[fs.key] == 2 && !fs.Repeatable {
			c.addf("field %s is not repeatable", fs.key)
		}
		c.subfields(f, fs)
	}
	for _, key := range c.schema.required[level] {
		if seen[key] == 0 {
			c.addf("missing field %s", key)
		}
	}
}

func (c *checker) subfields(f pica.Field, fs *FieldSchema) {
	seen := make(map[byte]int)
	for _, sf := range f.Subfields {
		ss, ok := fs.Subfields[string(sf.Code)]
		if !ok {
			if !c.ignoreUnknown {
				c.addf("unknown subfield %s$%c", fs.key, sf.Code)
			}
			continue
		}
		seen[sf.Code]++
		if seen[sf.Code] == 2 && !ss.Repeatable {
			c.addf("subfield %s$%c is not repeatable", fs.key, sf.Code)
		}
		if ss.pattern != nil && !ss.pattern.MatchString(sf.Value) {
			c.addf("subfield %s$%c value %q does not match %s", fs.key, sf.Code, sf.Value, ss.Pattern)
		}
	}
	for _, code := range fs.required {
		if seen[code] == 0 {
			c.addf("missing subfield %s$%c", fs.key, code)
		}
	}
}

// Keys returns the field keys of the schema, sorted
func (s *Schema) Keys() []string {
	keys := make([]string, 0, len(s.Fields))
	for k := range s.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String summarizes the schema for diagnostics
func (s *Schema) String() string {
	var b strings.Builder
	if s.Title != "" {
		b.WriteString(s.Title)
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "%d fields", len(s.Fields))
	return b.String()
}
