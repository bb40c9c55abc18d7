package codec

import (
	"bufio"
	"encoding/xml"
	"io"

	"github.com/teranos/picadata/pica"
)

// PICAXMLNamespace is the namespace of PICA XML
const PICAXMLNamespace = "info:srw/schema/5/picaXML-v1.0"

const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

type xmlRecord struct {
	Fields []xmlDatafield `xml:"datafield"`
}

type xmlDatafield struct {
	Tag        string        `xml:"tag,attr"`
	Occurrence string        `xml:"occurrence,attr"`
	Subfields  []xmlSubfield `xml:"subfield"`
}

type xmlSubfield struct {
	Code  string `xml:"code,attr"`
	Value string `xml:",chardata"`
}

// xmlParser streams <record> elements from PICA XML, at any depth
type xmlParser struct {
	dec    *xml.Decoder
	record int
}

func newXMLParser(r io.Reader) *xmlParser {
	return &xmlParser{dec: xml.NewDecoder(r)}
}

func (p *xmlParser) Next() (*pica.Record, error) {
	for {
		tok, err := p.dec.Token()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, parseError(p.record+1, "reading xml input: %v", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "record" {
			continue
		}
		p.record++
		var raw xmlRecord
		if err := p.dec.DecodeElement(&raw, &start); err != nil {
			return nil, parseError(p.record, "decoding xml record: %v", err)
		}
		return p.convert(raw)
	}
}

func (p *xmlParser) convert(raw xmlRecord) (*pica.Record, error) {
	fields := make([]pica.Field, 0, len(raw.Fields))
	for _, df := range raw.Fields {
		head := df.Tag
		if df.Occurrence != "" {
			head += "/" + df.Occurrence
		}
		tag, occ, err := parseFieldHead(head)
		if err != nil {
			return nil, parseError(p.record, "%v", err)
		}
		field := pica.Field{Tag: tag, Occurrence: occ}
		for _, sf := range df.Subfields {
			if len(sf.Code) != 1 || !validCode(sf.Code[0]) {
				return nil, parseError(p.record, "invalid subfield code %q in field %s", sf.Code, field.Key())
			}
			field.Subfields = append(field.Subfields, pica.Subfield{Code: sf.Code[0], Value: sf.Value})
		}
		fields = append(fields, field)
	}
	return pica.NewRecord(fields...), nil
}

// xmlWriter writes a PICA XML collection. The collection start tag is written
// with the first record; Finalize closes it.
type xmlWriter struct {
	w       *bufio.Writer
	started bool
}

func newXMLWriter(w io.Writer) *xmlWriter {
	return &xmlWriter{w: bufio.NewWriter(w)}
}

func (w *xmlWriter) start() {
	if w.started {
		return
	}
	w.started = true
	w.w.WriteString(xmlHeader)
	w.w.WriteString(`<collection xmlns="` + PICAXMLNamespace + `">` + "\n")
}

func (w *xmlWriter) Write(rec *pica.Record) error {
	w.start()
	w.w.WriteString("  <record>\n")
	for _, f := range rec.Fields {
		w.w.WriteString(`    <datafield tag="` + f.Tag + `"`)
		if f.Occurrence != "" {
			w.w.WriteString(` occurrence="` + f.Occurrence + `"`)
		}
		w.w.WriteString(">\n")
		for _, sf := range f.Subfields {
			w.w.WriteString(`      <subfield code="`)
			xmlEscape(w.w, string(sf.Code))
			w.w.WriteString(`">`)
			xmlEscape(w.w, sf.Value)
			w.w.WriteString("</subfield>\n")
		}
		w.w.WriteString("    </datafield>\n")
	}
	w.w.WriteString("  </record>\n")
	return writeError(w.w.Flush())
}

func (w *xmlWriter) Finalize() error {
	w.start()
	w.w.WriteString("</collection>\n")
	return writeError(w.w.Flush())
}

// xmlEscape writes s with XML special characters escaped. Errors surface on
// the following Flush.
func xmlEscape(w io.Writer, s string) {
	_ = xml.EscapeText(w, []byte(s))
}
