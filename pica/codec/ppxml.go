package codec

import (
	"bufio"
	"encoding/xml"
	"io"

	"github.com/teranos/picadata/pica"
)

// PPXMLNamespace is the namespace of PICA Production XML
const PPXMLNamespace = "http://www.oclcpica.org/xmlns/ppxml-1.0"

type ppxmlTag struct {
	ID        string          `xml:"id,attr"`
	Occ       string          `xml:"occ,attr"`
	Subfields []ppxmlSubfield `xml:"subf"`
}

type ppxmlSubfield struct {
	ID    string `xml:"id,attr"`
	Value string `xml:",chardata"`
}

// ppxmlParser reads PPXML records. Tags are collected in document order
// regardless of their global/owner/copy nesting.
type ppxmlParser struct {
	dec    *xml.Decoder
	record int
}

func newPPXMLParser(r io.Reader) *ppxmlParser {
	return &ppxmlParser{dec: xml.NewDecoder(r)}
}

func (p *ppxmlParser) Next() (*pica.Record, error) {
	for {
		tok, err := p.dec.Token()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, parseError(p.record+1, "reading ppxml input: %v", err)
		}
		if start, ok := tok.(xml.StartElement); ok && start.Name.Local == "record" {
			p.record++
			return p.readRecord()
		}
	}
}

func (p *ppxmlParser) readRecord() (*pica.Record, error) {
	var fields []pica.Field
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return nil, parseError(p.record, "reading ppxml record: %v", err)
		}
		switch t := tok.(type) {
		case xml.EndElement:
			if t.Name.Local == "record" {
				return pica.NewRecord(fields...), nil
			}
		case xml.StartElement:
			if t.Name.Local != "tag" {
				continue
			}
			var raw ppxmlTag
			if err := p.dec.DecodeElement(&raw, &t); err != nil {
				return nil, parseError(p.record, "decoding ppxml tag: %v", err)
			}
			field, err := p.convert(raw)
			if err != nil {
				return nil, err
			}
			fields = append(fields, field)
		}
	}
}

func (p *ppxmlParser) convert(raw ppxmlTag) (pica.Field, error) {
	head := raw.ID
	if raw.Occ != "" && raw.Occ != "0" {
		head += "/" + raw.Occ
	}
	tag, occ, err := parseFieldHead(head)
	if err != nil {
		return pica.Field{}, parseError(p.record, "%v", err)
	}
	field := pica.Field{Tag: tag, Occurrence: occ}
	for _, sf := range raw.Subfields {
		if len(sf.ID) != 1 || !validCode(sf.ID[0]) {
			return pica.Field{}, parseError(p.record, "invalid subfield code %q in field %s", sf.ID, field.Key())
		}
		field.Subfields = append(field.Subfields, pica.Subfield{Code: sf.ID[0], Value: sf.Value})
	}
	return field, nil
}

// ppxmlWriter writes PPXML, nesting title fields in <global>, holdings in
// <owner> and items in <copy>.
type ppxmlWriter struct {
	w       *bufio.Writer
	started bool
}

func newPPXMLWriter(w io.Writer) *ppxmlWriter {
	return &ppxmlWriter{w: bufio.NewWriter(w)}
}

func (w *ppxmlWriter) start() {
	if w.started {
		return
	}
	w.started = true
	w.w.WriteString(xmlHeader)
	w.w.WriteString(`<ppxml:collection xmlns:ppxml="` + PPXMLNamespace + `">` + "\n")
}

func (w *ppxmlWriter) Write(rec *pica.Record) error {
	w.start()
	w.w.WriteString("<ppxml:record>\n")

	w.w.WriteString(`<ppxml:global opacflag="" status="">` + "\n")
	for _, f := range rec.TitleFields() {
		w.writeTag(f)
	}
	w.w.WriteString("</ppxml:global>\n")

	for _, holding := range rec.Holdings() {
		iln := firstValue(holding, pica.TagILN, 'a')
		w.w.WriteString(`<ppxml:owner iln="`)
		xmlEscape(w.w, iln)
		w.w.WriteString(`">` + "\n")
		for _, f := range holding.Fields {
			if f.Level() == pica.LevelHolding {
				w.writeTag(f)
			}
		}
		for _, item := range holding.Items() {
			occ := ""
			if len(item.Fields) > 0 {
				occ = item.Fields[0].Occurrence
			}
			w.w.WriteString(`<ppxml:copy occ="` + occ + `" epn="`)
			xmlEscape(w.w, firstValue(item, pica.TagEPN, '0'))
			w.w.WriteString(`">` + "\n")
			for _, f := range item.Fields {
				w.writeTag(f)
			}
			w.w.WriteString("</ppxml:copy>\n")
		}
		w.w.WriteString("</ppxml:owner>\n")
	}

	w.w.WriteString("</ppxml:record>\n")
	return writeError(w.w.Flush())
}

func (w *ppxmlWriter) writeTag(f pica.Field) {
	w.w.WriteString(`<ppxml:tag id="` + f.Tag + `" occ="` + f.Occurrence + `">`)
	for _, sf := range f.Subfields {
		w.w.WriteString(`<ppxml:subf id="`)
		xmlEscape(w.w, string(sf.Code))
		w.w.WriteString(`">`)
		xmlEscape(w.w, sf.Value)
		w.w.WriteString("</ppxml:subf>")
	}
	w.w.WriteString("</ppxml:tag>\n")
}

func (w *ppxmlWriter) Finalize() error {
	w.start()
	w.w.WriteString("</ppxml:collection>\n")
	return writeError(w.w.Flush())
}

func firstValue(rec *pica.Record, tag string, code byte) string {
	for _, f := range rec.Fields {
		if f.Tag == tag {
			if v, ok := f.Value(code); ok {
				return v
			}
		}
	}
	return ""
}
