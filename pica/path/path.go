// Package path compiles PICA path expressions.
//
// An expression selects fields by tag and occurrence:
//
//	003@          field 003@
//	0...          every level 0 field
//	045Q/01       occurrence 01 of 045Q
//	045Q/01-09    occurrences 01 to 09
//	045Q/*        any occurrence
//	021A$ad       021A, subfields a and d
//
// Several expressions can be combined with "," or "|"; a field matches when
// any of them matches.
package path

import (
	"strconv"
	"strings"

	"github.com/teranos/picadata/errors"
	"github.com/teranos/picadata/pica"
)

// Path is one compiled expression
type Path struct {
	expr     string
	tag      [4]byte // '.' matches any character
	occ      occurrenceMatch
	subfield string // subfield codes, empty for all
}

type occurrenceKind int

const (
	occNone  occurrenceKind = iota // no occurrence given
	occAny                         // "/*"
	occRange                       // "/NN" or "/NN-MM"
)

type occurrenceMatch struct {
	kind     occurrenceKind
	from, to int
}

// Matcher is a compiled list of paths. It is immutable and safe for reuse.
type Matcher struct {
	paths []Path
	expr  string
}

// Compile parses one or more path expressions. Errors are marked
// errors.ErrInvalidPath.
func Compile(expr string) (*Matcher, error) {
	parts := strings.FieldsFunc(expr, func(r rune) bool { return r == ',' || r == '|' })
	if len(parts) == 0 {
		return nil, invalid(expr, "empty expression")
	}
	m := &Matcher{expr: expr}
	for _, part := range parts {
		p, err := compileOne(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		m.paths = append(m.paths, p)
	}
	return m, nil
}

// MustCompile is like Compile but panics on error
func MustCompile(expr string) *Matcher {
	m, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return m
}

func compileOne(expr string) (Path, error) {
	p := Path{expr: expr}
	if len(expr) < 4 {
		return p, invalid(expr, "tag must have four characters")
	}
	for i := 0; i < 4; i++ {
		if !tagCharOK(i, expr[i]) {
			return p, invalid(expr, "invalid character %q in tag", expr[i])
		}
		p.tag[i] = expr[i]
	}
	rest := expr[4:]

	if strings.HasPrefix(rest, "/") {
		end := strings.IndexByte(rest, '$')
		if end < 0 {
			end = len(rest)
		}
		occ, err := parseOccurrence(rest[1:end])
		if err != nil {
			return p, invalid(expr, "%v", err)
		}
		p.occ = occ
		rest = rest[end:]
	}

	rest = strings.TrimPrefix(rest, "$")
	for i := 0; i < len(rest); i++ {
		if !codeOK(rest[i]) {
			return p, invalid(expr, "invalid subfield code %q", rest[i])
		}
	}
	p.subfield = rest
	return p, nil
}

func parseOccurrence(s string) (occurrenceMatch, error) {
	if s == "*" {
		return occurrenceMatch{kind: occAny}, nil
	}
	from, to := s, s
	if i := strings.IndexByte(s, '-'); i >= 0 {
		from, to = s[:i], s[i+1:]
	}
	a, errA := parseOccNumber(from)
	b, errB := parseOccNumber(to)
	if errA != nil || errB != nil {
		return occurrenceMatch{}, errors.Newf("invalid occurrence %q", s)
	}
	if a > b {
		return occurrenceMatch{}, errors.Newf("occurrence range %q is reversed", s)
	}
	return occurrenceMatch{kind: occRange, from: a, to: b}, nil
}

func parseOccNumber(s string) (int, error) {
	if len(s) < 2 || len(s) > 3 {
		return 0, errors.New("occurrence needs two or three digits")
	}
	return strconv.Atoi(s)
}

func tagCharOK(pos int, c byte) bool {
	if c == '.' {
		return true
	}
	switch pos {
	case 0:
		return c >= '0' && c <= '2'
	case 1, 2:
		return c >= '0' && c <= '9'
	default:
		return c == '@' || (c >= 'A' && c <= 'Z')
	}
}

func codeOK(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func invalid(expr, format string, args ...interface{}) error {
	err := errors.Wrapf(errors.Markf(errors.ErrInvalidPath, format, args...), "path %q", expr)
	return errors.WithHint(err, "a path looks like 003@, 045Q/01, 0... or 021A$a")
}

// String returns the source expression
func (p Path) String() string { return p.expr }

// Subfields returns the subfield codes the path names, empty for all
func (p Path) Subfields() string { return p.subfield }

// MatchField reports whether the field's tag and occurrence match.
// A path without occurrence matches fields without occurrence (or "00");
// for level 2 tags, whose occurrence numbers the item, it matches any.
func (p Path) MatchField(f pica.Field) bool {
	if len(f.Tag) != 4 {
		return false
	}
	for i := 0; i < 4; i++ {
		if p.tag[i] != '.' && p.tag[i] != f.Tag[i] {
			return false
		}
	}
	switch p.occ.kind {
	case occAny:
		return true
	case occRange:
		if f.Occurrence == "" {
			return p.occ.from == 0
		}
		n, err := strconv.Atoi(f.Occurrence)
		return err == nil && n >= p.occ.from && n <= p.occ.to
	default:
		if f.Level() == pica.LevelItem {
			return true
		}
		return f.Occurrence == "" || f.Occurrence == "00"
	}
}

// String returns the expression the matcher was compiled from
func (m *Matcher) String() string { return m.expr }

// Paths returns the compiled paths
func (m *Matcher) Paths() []Path {
	return append([]Path(nil), m.paths...)
}

// MatchField reports whether any path matches the field
func (m *Matcher) MatchField(f pica.Field) bool {
	for _, p := range m.paths {
		if p.MatchField(f) {
			return true
		}
	}
	return false
}

// Apply returns a new record with only the matching fields, in their
// original order. The identifier is kept.
func (m *Matcher) Apply(rec *pica.Record) *pica.Record {
	return rec.Filter(m.MatchField)
}
