package codec

import (
	"bufio"
	"io"
	"strings"

	"github.com/teranos/picadata/pica"
)

// plainParser reads PICA Plain: one field per line as "TAG[/OCC] $aval$bval",
// a literal "$" doubled, records separated by blank lines.
type plainParser struct {
	scanner *bufio.Scanner
	record  int
	line    int
}

func newPlainParser(r io.Reader) *plainParser {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 16*1024*1024)
	return &plainParser{scanner: s}
}

func (p *plainParser) Next() (*pica.Record, error) {
	var fields []pica.Field
	for p.scanner.Scan() {
		p.line++
		line := strings.TrimRight(p.scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			if len(fields) > 0 {
				return pica.NewRecord(fields...), nil
			}
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		if len(fields) == 0 {
			p.record++
		}
		field, err := parsePlainField(line)
		if err != nil {
			return nil, parseError(p.record, "line %d: %v", p.line, err)
		}
		fields = append(fields, field)
	}
	if err := p.scanner.Err(); err != nil {
		return nil, parseError(p.record+1, "reading plain input: %v", err)
	}
	if len(fields) > 0 {
		return pica.NewRecord(fields...), nil
	}
	return nil, io.EOF
}

func parsePlainField(line string) (pica.Field, error) {
	sp := strings.IndexByte(line, ' ')
	if sp < 0 {
		return pica.Field{}, fieldError("missing space after tag in %q", line)
	}
	tag, occ, err := parseFieldHead(line[:sp])
	if err != nil {
		return pica.Field{}, err
	}
	field := pica.Field{Tag: tag, Occurrence: occ}

	body := line[sp+1:]
	if !strings.HasPrefix(body, "$") {
		return pica.Field{}, fieldError("field %s does not start with a subfield", field.Key())
	}

	var value strings.Builder
	var code byte
	flush := func() {
		if code != 0 {
			field.Subfields = append(field.Subfields, pica.Subfield{Code: code, Value: value.String()})
		}
		value.Reset()
	}
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '$' {
			value.WriteByte(c)
			continue
		}
		if i+1 < len(body) && body[i+1] == '$' {
			value.WriteByte('$')
			i++
			continue
		}
		if i+1 >= len(body) || !validCode(body[i+1]) {
			return pica.Field{}, fieldError("invalid subfield code in field %s", field.Key())
		}
		flush()
		code = body[i+1]
		i++
	}
	flush()
	return field, nil
}

// plainWriter writes PICA Plain
type plainWriter struct {
	w *bufio.Writer
}

func newPlainWriter(w io.Writer) *plainWriter {
	return &plainWriter{w: bufio.NewWriter(w)}
}

func (w *plainWriter) Write(rec *pica.Record) error {
	// one field per line; "$" is escaped, line breaks cannot be
	if err := checkFraming(rec, "plain", "\n\r"); err != nil {
		return err
	}
	for _, f := range rec.Fields {
		w.w.WriteString(f.String())
		w.w.WriteByte('\n')
	}
	w.w.WriteByte('\n')
	return writeError(w.w.Flush())
}

func (w *plainWriter) Finalize() error {
	return writeError(w.w.Flush())
}
