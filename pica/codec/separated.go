package codec

import (
	"bufio"
	"bytes"
	"io"

	"github.com/teranos/picadata/pica"
)

// Control characters of normalized PICA+
const (
	subfieldMarker   = 0x1F
	fieldTerminator  = 0x1E
	recordTerminator = 0x1D
	lineFeed         = 0x0A
)

// separatedConfig describes one of the control-character framed formats
type separatedConfig struct {
	name             string
	recordTerminator byte
	forbidden        string // bytes a subfield value must not contain
}

var (
	binaryConfig = separatedConfig{
		name:             "binary",
		recordTerminator: recordTerminator,
		forbidden:        "\x1d\x1e\x1f",
	}
	plusConfig = separatedConfig{
		name:             "plus",
		recordTerminator: lineFeed,
		forbidden:        "\x1e\x1f\n",
	}
)

// separatedParser reads Binary and Plus streams: fields end with 0x1E,
// subfields start with 0x1F, records end with the configured terminator.
type separatedParser struct {
	r      *bufio.Reader
	cfg    separatedConfig
	record int
}

func newSeparatedParser(r io.Reader, cfg separatedConfig) *separatedParser {
	return &separatedParser{r: bufio.NewReader(r), cfg: cfg}
}

func (p *separatedParser) Next() (*pica.Record, error) {
	for {
		chunk, err := p.r.ReadBytes(p.cfg.recordTerminator)
		if err != nil && err != io.EOF {
			return nil, parseError(p.record+1, "reading %s input: %v", p.cfg.name, err)
		}
		atEOF := err == io.EOF
		chunk = bytes.TrimSuffix(chunk, []byte{p.cfg.recordTerminator})
		// Binary dumps often put a newline between records
		chunk = bytes.Trim(chunk, "\r\n")
		if len(chunk) == 0 {
			if atEOF {
				return nil, io.EOF
			}
			continue
		}
		p.record++
		return p.parseRecord(chunk)
	}
}

func (p *separatedParser) parseRecord(data []byte) (*pica.Record, error) {
	var fields []pica.Field
	for _, raw := range bytes.Split(data, []byte{fieldTerminator}) {
		if len(bytes.TrimSpace(raw)) == 0 {
			continue
		}
		field, err := parseSeparatedField(raw)
		if err != nil {
			return nil, parseError(p.record, "%v", err)
		}
		fields = append(fields, field)
	}
	if len(fields) == 0 {
		return nil, parseError(p.record, "record without fields")
	}
	return pica.NewRecord(fields...), nil
}

// parseSeparatedField parses "TAG[/OCC] \x1Fa...\x1Fb..."
func parseSeparatedField(raw []byte) (pica.Field, error) {
	sp := bytes.IndexByte(raw, ' ')
	if sp < 0 {
		return pica.Field{}, fieldError("missing space after tag in %q", raw)
	}
	tag, occ, err := parseFieldHead(string(raw[:sp]))
	if err != nil {
		return pica.Field{}, err
	}
	field := pica.Field{Tag: tag, Occurrence: occ}

	body := raw[sp+1:]
	if len(body) == 0 || body[0] != subfieldMarker {
		return pica.Field{}, fieldError("field %s does not start with a subfield", field.Key())
	}
	for _, sf := range bytes.Split(body[1:], []byte{subfieldMarker}) {
		if len(sf) == 0 || !validCode(sf[0]) {
			return pica.Field{}, fieldError("invalid subfield code in field %s", field.Key())
		}
		field.Subfields = append(field.Subfields, pica.Subfield{Code: sf[0], Value: string(sf[1:])})
	}
	return field, nil
}

// separatedWriter writes Binary and Plus streams
type separatedWriter struct {
	w   *bufio.Writer
	cfg separatedConfig
}

func newSeparatedWriter(w io.Writer, cfg separatedConfig) *separatedWriter {
	return &separatedWriter{w: bufio.NewWriter(w), cfg: cfg}
}

func (w *separatedWriter) Write(rec *pica.Record) error {
	if err := checkFraming(rec, w.cfg.name, w.cfg.forbidden); err != nil {
		return err
	}
	for _, f := range rec.Fields {
		w.w.WriteString(f.Key())
		w.w.WriteByte(' ')
		for _, sf := range f.Subfields {
			w.w.WriteByte(subfieldMarker)
			w.w.WriteByte(sf.Code)
			w.w.WriteString(sf.Value)
		}
		w.w.WriteByte(fieldTerminator)
	}
	w.w.WriteByte(w.cfg.recordTerminator)
	return writeError(w.w.Flush())
}

func (w *separatedWriter) Finalize() error {
	return writeError(w.w.Flush())
}
