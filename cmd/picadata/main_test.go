package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/picadata/config"
	pdtest "github.com/teranos/picadata/internal/testing"
	"github.com/teranos/picadata/pica"
)

func TestMain(m *testing.M) {
	pterm.DisableStyling()
	config.SearchPaths = func() []string { return nil }
	os.Exit(m.Run())
}

type result struct {
	code   int
	stdout string
	stderr string
}

func invoke(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return result{code, stdout.String(), stderr.String()}
}

const abcSchema = `{
  "fields": {
    "003@": {"required": true, "subfields": {"0": {"required": true}}},
    "021A": {"required": true, "subfields": {"a": {"required": true}}},
    "028A": {"required": true, "subfields": {"a": {}}}
  }
}`

func abcInput() string {
	full := func(id string) *pica.Record {
		return pdtest.TitleRecord(id,
			pica.NewField("021A", "", "a", "Title "+id),
			pica.NewField("028A", "", "a", "Author "+id),
		)
	}
	return pdtest.Plain(full("A"), pdtest.TitleRecord("B"), full("C"))
}

func TestValidateAndCount(t *testing.T) {
	schemaFile := pdtest.WriteFile(t, "schema.json", abcSchema)
	input := pdtest.WriteFile(t, "records.plain", abcInput())

	res := invoke(t, "", "-s", schemaFile, "-c", input)
	require.Equal(t, 0, res.code, res.stderr)

	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	var prefixed []string
	for _, l := range lines {
		if strings.HasPrefix(l, "B: ") {
			prefixed = append(prefixed, l)
		}
	}
	assert.Len(t, prefixed, 2)
	assert.Contains(t, lines, "3 records")
	assert.Contains(t, lines, "1 invalid")
}

func TestValidateWithoutCount(t *testing.T) {
	schemaFile := pdtest.WriteFile(t, "schema.json", abcSchema)
	res := invoke(t, abcInput(), "--schema", schemaFile)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "B: missing field 021A\nB: missing field 028A\n", res.stdout)
}

func TestToDefaultsToInputType(t *testing.T) {
	rec := pdtest.SampleRecord("1")
	input := pdtest.WriteFile(t, "records.txt", pdtest.Plain(rec))

	res := invoke(t, "", "--from", "plain", "--to", input)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, pdtest.Plain(rec), res.stdout)

	res = invoke(t, pdtest.Plain(rec), "-t")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, pdtest.Plain(rec), res.stdout)
}

func TestToWithType(t *testing.T) {
	input := pdtest.Plain(pdtest.SampleRecord("1"))

	for _, args := range [][]string{{"-t", "xml"}, {"--to", "XML"}, {"--to=xml"}, {"-t=xml"}, {"-vt", "xml"}} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			res := invoke(t, input, args...)
			require.Equal(t, 0, res.code, res.stderr)
			assert.True(t, strings.HasPrefix(res.stdout, "<?xml"))
			assert.True(t, strings.HasSuffix(res.stdout, "</collection>\n"))
		})
	}
}

func TestClusteredToWithType(t *testing.T) {
	res := invoke(t, pdtest.Plain(pdtest.SampleRecord("1")), "-ct", "xml")
	require.Equal(t, 0, res.code, res.stderr)
	assert.True(t, strings.HasPrefix(res.stdout, "<?xml"))
	assert.Contains(t, res.stdout, "</collection>\n")
	assert.Contains(t, strings.Split(res.stdout, "\n"), "1 records")
}

func TestPathProjection(t *testing.T) {
	rec := pdtest.TitleRecord("123",
		pica.NewField("021A", "", "a", "Title"),
		pica.NewField("012@", "00", "a", "x"),
	)
	res := invoke(t, pdtest.Plain(rec), "-p", "003@", "-t")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "003@ $0123\n\n", res.stdout)
}

func TestGuessesTypeFromExtension(t *testing.T) {
	xml := invoke(t, pdtest.Plain(pdtest.SampleRecord("1")), "-t", "xml").stdout
	input := pdtest.WriteFile(t, "records.XML", xml)

	res := invoke(t, "", "-c", input)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "1 records\n1 holdings\n1 items\n4 fields\n", res.stdout)

	// a declared type wins over the extension
	res = invoke(t, "", "-f", "plain", "-c", input)
	assert.Equal(t, 1, res.code)
}

func TestFatalErrors(t *testing.T) {
	dir := t.TempDir()
	good := pdtest.WriteFile(t, "records.plain", pdtest.Plain(pdtest.SampleRecord("1")))
	badSchema := pdtest.WriteFile(t, "bad.json", `{"fields": `)
	multiline := `<collection><record><datafield tag="003@"><subfield code="0">1</subfield>` +
		"<subfield code=\"a\">line1\nline2</subfield></datafield></record></collection>"

	tests := []struct {
		name   string
		stdin  string
		args   []string
		stderr string
	}{
		{"unknown from", "", []string{"-f", "marc", good}, "known types"},
		{"unknown to", "", []string{"--to=marc", good}, "unknown serialization type"},
		{"missing input", "", []string{filepath.Join(dir, "missing.dat")}, "cannot open input"},
		{"invalid path", "", []string{"-p", "0", good}, `path "0"`},
		{"unreadable schema", "", []string{"-s", filepath.Join(dir, "none.json"), good}, "schema"},
		{"malformed schema", "", []string{"-s", badSchema, good}, "decoding schema"},
		{"parse error", "003@ $01\n\nnot a field\n", []string{"-c"}, "record 2"},
		{"unrepresentable value", multiline, []string{"-f", "xml", "-t", "plain"}, "plain output cannot represent"},
		{"unknown flag", "", []string{"--bogus"}, "unknown flag"},
		{"too many files", "", []string{good, good}, "accepts at most 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := invoke(t, tt.stdin, tt.args...)
			assert.Equal(t, 1, res.code)
			assert.Contains(t, res.stderr, tt.stderr)
			assert.NotContains(t, res.stdout, "records")
		})
	}
}

func TestInvalidRecordsDoNotFail(t *testing.T) {
	schemaFile := pdtest.WriteFile(t, "schema.json", abcSchema)
	res := invoke(t, pdtest.Plain(pdtest.TitleRecord("B")), "-s", schemaFile, "-u")
	assert.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "B: missing field 021A")
}

func TestHelp(t *testing.T) {
	for _, flag := range []string{"-?", "--help"} {
		t.Run(flag, func(t *testing.T) {
			res := invoke(t, "003@ $01\n", flag)
			require.Equal(t, 0, res.code)
			assert.Contains(t, res.stdout, "Usage:")
			assert.Contains(t, res.stdout, "--from")
			assert.Contains(t, res.stdout, "-?, --help")
			assert.NotContains(t, res.stdout, "1 records")
		})
	}
}

type unreadable struct{ t *testing.T }

func (r unreadable) Read([]byte) (int, error) {
	r.t.Error("standard input was read")
	return 0, io.EOF
}

func TestUsageOnInteractiveStdin(t *testing.T) {
	stdinIsTerminal = func(interface{}) bool { return true }
	t.Cleanup(func() { stdinIsTerminal = isTerminal })

	var stdout, stderr bytes.Buffer
	code := run([]string{"-c"}, unreadable{t}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "Usage:")

	// an explicit "-" still reads the terminal
	stdout.Reset()
	code = run([]string{"-c", "-"}, strings.NewReader(pdtest.Plain(pdtest.SampleRecord("1"))), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.NotContains(t, stdout.String(), "Usage:")
}

func TestVersion(t *testing.T) {
	res := invoke(t, "", "--version")
	require.Equal(t, 0, res.code)
	assert.True(t, strings.HasPrefix(res.stdout, "picadata "))
}

func TestShowAndSaveConfig(t *testing.T) {
	res := invoke(t, "", "--show-config", "-f", "bin")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "from")
	assert.Contains(t, res.stdout, "flag (--from)")

	file := filepath.Join(t.TempDir(), "picadata.toml")
	res = invoke(t, "", "--save-config", file, "-c", "-f", "plus")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stderr, file)

	res = invoke(t, "", "--config", file, "--show-config")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "file ("+file+")")
}

func TestNormalizeArgs(t *testing.T) {
	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"-t", "xml", "in.dat"}, []string{"--to=xml", "in.dat"}},
		{[]string{"--to", "PLUS"}, []string{"--to=PLUS"}},
		{[]string{"--to", "in.dat"}, []string{"--to", "in.dat"}},
		{[]string{"-t"}, []string{"-t"}},
		{[]string{"-c", "--", "-t", "xml"}, []string{"-c", "--", "-t", "xml"}},
		{[]string{"-ct", "xml"}, []string{"-c", "--to=xml"}},
		{[]string{"-cuvt", "plus", "-"}, []string{"-cuv", "--to=plus", "-"}},
		{[]string{"-ct", "in.dat"}, []string{"-ct", "in.dat"}},
		{[]string{"-ft", "xml"}, []string{"-ft", "xml"}},
		{[]string{"-tc", "xml"}, []string{"-tc", "xml"}},
		{[]string{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeArgs(tt.args))
		})
	}
}
