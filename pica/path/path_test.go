package path

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/picadata/errors"
	"github.com/teranos/picadata/pica"
)

func TestCompileValid(t *testing.T) {
	tests := []struct {
		expr      string
		paths     int
		subfields string
	}{
		{"003@", 1, ""},
		{"0...", 1, ""},
		{"....", 1, ""},
		{"045Q/01", 1, ""},
		{"045Q/01-09", 1, ""},
		{"045Q/*", 1, ""},
		{"021A$ad", 1, "ad"},
		{"021Aa", 1, "a"},
		{"203@/01$0", 1, "0"},
		{"003@,021A", 2, ""},
		{"003@|021A|0...", 3, ""},
		{" 003@ , 021A ", 2, ""},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			m, err := Compile(tt.expr)
			require.NoError(t, err)
			require.Len(t, m.Paths(), tt.paths)
			assert.Equal(t, tt.subfields, m.Paths()[0].Subfields())
			assert.Equal(t, tt.expr, m.String())
		})
	}
}

func TestCompileInvalid(t *testing.T) {
	for _, expr := range []string{"", ",", "03@", "3003@", "003a", "X03@", "045Q/1", "045Q/abc", "045Q/09-01", "021A$!", "021A$a-"} {
		t.Run(expr, func(t *testing.T) {
			_, err := Compile(expr)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidPath), "%v", err)
			assert.NotEmpty(t, errors.GetAllHints(err))
		})
	}
}

func TestMustCompilePanics(t *testing.T) {
	assert.Panics(t, func() { MustCompile("bad") })
	assert.NotPanics(t, func() { MustCompile("003@") })
}

func TestMatchField(t *testing.T) {
	tests := []struct {
		expr  string
		field pica.Field
		want  bool
	}{
		{"003@", pica.NewField("003@", ""), true},
		{"003@", pica.NewField("003A", ""), false},
		{"003@", pica.NewField("003@", "00"), true},
		{"003@", pica.NewField("003@", "01"), false},
		{"0...", pica.NewField("021A", ""), true},
		{"0...", pica.NewField("101@", ""), false},
		{"..1.", pica.NewField("021A", ""), true},
		{"045Q/01", pica.NewField("045Q", "01"), true},
		{"045Q/01", pica.NewField("045Q", "02"), false},
		{"045Q/01", pica.NewField("045Q", ""), false},
		{"045Q/00", pica.NewField("045Q", ""), true},
		{"045Q/01-09", pica.NewField("045Q", "05"), true},
		{"045Q/01-09", pica.NewField("045Q", "10"), false},
		{"045Q/*", pica.NewField("045Q", "99"), true},
		{"045Q/*", pica.NewField("045Q", ""), true},
		{"203@", pica.NewField("203@", "01"), true},
		{"203@/02", pica.NewField("203@", "01"), false},
		{"203@/001", pica.NewField("203@", "01"), true},
	}

	for _, tt := range tests {
		t.Run(tt.expr+" "+tt.field.Key(), func(t *testing.T) {
			assert.Equal(t, tt.want, MustCompile(tt.expr).MatchField(tt.field))
		})
	}
}

func sample() *pica.Record {
	return pica.NewRecord(
		pica.NewField("003@", "", "0", "123"),
		pica.NewField("021A", "", "a", "Title"),
		pica.NewField("012@", "00", "a", "x"),
		pica.NewField("101@", "", "a", "20"),
		pica.NewField("203@", "01", "0", "9"),
	)
}

func TestApplyKeepsOnlyMatchingFields(t *testing.T) {
	projected := MustCompile("003@").Apply(sample())

	require.Len(t, projected.Fields, 1)
	assert.Equal(t, "003@", projected.Fields[0].Tag)
	assert.Equal(t, "123", projected.ID)
}

func TestApplyPreservesOrderAndID(t *testing.T) {
	projected := MustCompile("203@,021A").Apply(sample())

	require.Len(t, projected.Fields, 2)
	assert.Equal(t, "021A", projected.Fields[0].Tag)
	assert.Equal(t, "203@", projected.Fields[1].Tag)
	assert.Equal(t, "123", projected.ID, "identifier survives even without 003@")
	assert.Len(t, projected.Items(), 1)
}

func TestApplyIsIdempotent(t *testing.T) {
	for _, expr := range []string{"003@", "0...", "1...|2...", "045Q/*", "...."} {
		m := MustCompile(expr)
		once := m.Apply(sample())
		twice := m.Apply(once)
		assert.True(t, once.Equal(twice), expr)
	}
}
