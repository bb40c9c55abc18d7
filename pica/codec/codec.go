// Package codec reads and writes PICA record streams.
//
// Every serialization type of package format has exactly one Parser and one
// Writer constructor in the dispatch tables below; the type is resolved once
// when the run is configured.
package codec

import (
	"io"

	"github.com/teranos/picadata/errors"
	"github.com/teranos/picadata/pica"
	"github.com/teranos/picadata/pica/format"
)

// Parser yields one record at a time. Next returns io.EOF at the end of the
// stream; any other error is marked errors.ErrParse.
type Parser interface {
	Next() (*pica.Record, error)
}

// Writer serializes records. Each Write is flushed to the underlying writer
// before it returns. Finalize writes any closing syntax and must be called
// exactly once, after the last Write; it is a no-op for formats without a
// trailer.
type Writer interface {
	Write(rec *pica.Record) error
	Finalize() error
}

var parsers = map[format.Type]func(io.Reader) Parser{
	format.Binary: func(r io.Reader) Parser { return newSeparatedParser(r, binaryConfig) },
	format.Plus:   func(r io.Reader) Parser { return newSeparatedParser(r, plusConfig) },
	format.Plain:  func(r io.Reader) Parser { return newPlainParser(r) },
	format.XML:    func(r io.Reader) Parser { return newXMLParser(r) },
	format.PPXML:  func(r io.Reader) Parser { return newPPXMLParser(r) },
}

var writers = map[format.Type]func(io.Writer) Writer{
	format.Binary: func(w io.Writer) Writer { return newSeparatedWriter(w, binaryConfig) },
	format.Plus:   func(w io.Writer) Writer { return newSeparatedWriter(w, plusConfig) },
	format.Plain:  func(w io.Writer) Writer { return newPlainWriter(w) },
	format.XML:    func(w io.Writer) Writer { return newXMLWriter(w) },
	format.PPXML:  func(w io.Writer) Writer { return newPPXMLWriter(w) },
}

// NewParser returns the parser for t reading from r
func NewParser(t format.Type, r io.Reader) (Parser, error) {
	ctor, ok := parsers[t]
	if !ok {
		return nil, errors.Markf(errors.ErrUnknownType, "no parser for serialization type %s", t)
	}
	return ctor(r), nil
}

// NewWriter returns the writer for t writing to w
func NewWriter(t format.Type, w io.Writer) (Writer, error) {
	ctor, ok := writers[t]
	if !ok {
		return nil, errors.Markf(errors.ErrUnknownType, "no writer for serialization type %s", t)
	}
	return ctor(w), nil
}

// ReadAll drains a parser
func ReadAll(p Parser) ([]*pica.Record, error) {
	var out []*pica.Record
	for {
		rec, err := p.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}

// parseError marks a parse failure with its position in the stream
func parseError(record int, msg string, args ...interface{}) error {
	return errors.Wrapf(errors.Markf(errors.ErrParse, msg, args...), "record %d", record)
}

// writeError marks an output failure
func writeError(err error) error {
	if err == nil {
		return nil
	}
	return errors.Mark(errors.Wrap(err, "writing record"), errors.ErrWrite)
}
