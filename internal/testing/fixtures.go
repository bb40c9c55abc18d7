// Package testing holds fixtures shared by picadata tests.
package testing

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/teranos/picadata/pica"
)

// WriteFile writes content to name inside a per-test temporary directory and
// returns the full path. The directory is removed via t.Cleanup().
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write fixture %s: %v", name, err)
	}
	return path
}

// SampleRecord builds a title record with identifier id, a title field and
// one holding with a single item.
func SampleRecord(id string) *pica.Record {
	return pica.NewRecord(
		pica.NewField("003@", "", "0", id),
		pica.NewField("021A", "", "a", "Title of "+id),
		pica.NewField("101@", "", "a", "1"),
		pica.NewField("203@", "01", "0", "e"+id),
	)
}

// TitleRecord builds a record with only level 0 fields
func TitleRecord(id string, fields ...pica.Field) *pica.Record {
	return pica.NewRecord(append([]pica.Field{pica.NewField("003@", "", "0", id)}, fields...)...)
}

// Plain renders records in plain notation, one field per line and a blank
// line after each record.
func Plain(records ...*pica.Record) string {
	var b strings.Builder
	for _, rec := range records {
		for _, f := range rec.Fields {
			b.WriteString(f.String())
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	return b.String()
}
