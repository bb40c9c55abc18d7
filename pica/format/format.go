// Package format is the closed registry of serialization types.
package format

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/teranos/picadata/errors"
)

// Type identifies a PICA serialization
type Type int

const (
	Unknown Type = iota
	Binary
	Plain
	Plus
	XML
	PPXML
)

// names maps every user-facing type name to its type. Keys are lower case.
var names = map[string]Type{
	"bin":    Binary,
	"dat":    Binary,
	"binary": Binary,
	"plain":  Plain,
	"plus":   Plus,
	"xml":    XML,
	"ppxml":  PPXML,
}

// extensions is the subset of names usable as file-extension hints
var extensions = map[string]Type{
	"bin":   Binary,
	"dat":   Binary,
	"plain": Plain,
	"plus":  Plus,
	"xml":   XML,
	"ppxml": PPXML,
}

var canonical = map[Type]string{
	Binary: "binary",
	Plain:  "plain",
	Plus:   "plus",
	XML:    "xml",
	PPXML:  "ppxml",
}

// String returns the canonical name of the type
func (t Type) String() string {
	if name, ok := canonical[t]; ok {
		return name
	}
	return "unknown"
}

// Lookup resolves a type name, case-insensitively
func Lookup(name string) (Type, bool) {
	t, ok := names[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// Resolve is Lookup with an error for unrecognized names. The error is
// marked errors.ErrUnknownType and hints at the known names.
func Resolve(name string) (Type, error) {
	if t, ok := Lookup(name); ok {
		return t, nil
	}
	err := errors.Markf(errors.ErrUnknownType, "unknown serialization type %q", name)
	return Unknown, errors.WithHintf(err, "known types: %s", strings.Join(Names(), ", "))
}

// FromExtension guesses a type from a file name. The extension is matched
// case-insensitively; a trailing ".gz" is ignored.
func FromExtension(filename string) (Type, bool) {
	base := filename
	if strings.EqualFold(filepath.Ext(base), ".gz") {
		base = base[:len(base)-len(".gz")]
	}
	ext := strings.TrimPrefix(filepath.Ext(base), ".")
	if ext == "" {
		return Unknown, false
	}
	t, ok := extensions[strings.ToLower(ext)]
	return t, ok
}

// Names lists every accepted type name, sorted
func Names() []string {
	out := make([]string, 0, len(names))
	for name := range names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// All lists the types in declaration order
func All() []Type {
	return []Type{Binary, Plain, Plus, XML, PPXML}
}
