package pipeline

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"

	"github.com/teranos/picadata/errors"
	"github.com/teranos/picadata/logger"
	"github.com/teranos/picadata/pica/format"
)

// StdinName names the standard input stream in logs and messages
const StdinName = "-"

var gzipMagic = []byte{0x1f, 0x8b}

// Input is the resolved byte source of a run
type Input struct {
	Name   string      // file name, or StdinName
	Type   format.Type // effective input type
	Reader io.Reader

	closers []io.Closer
}

// Close releases the input handle. Standard input is left open.
func (in *Input) Close() error {
	var first error
	for i := len(in.closers) - 1; i >= 0; i-- {
		if err := in.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	in.closers = nil
	return first
}

// ResolveType determines the input type. A declared type always wins; without
// one the type is guessed from the file extension, defaulting to plain.
func ResolveType(declared, filename string) (format.Type, error) {
	if declared != "" {
		return format.Resolve(declared)
	}
	if filename != "" {
		if t, ok := format.FromExtension(filename); ok {
			return t, nil
		}
	}
	return format.Plain, nil
}

// ResolveInput opens filename, or uses stdin when filename is empty, and
// resolves the input type. Gzip-compressed streams are decompressed
// transparently.
func ResolveInput(filename, declared string, stdin io.Reader) (*Input, error) {
	log := logger.ComponentLogger("input")

	t, err := ResolveType(declared, filename)
	if err != nil {
		return nil, err
	}

	in := &Input{Name: StdinName, Type: t, Reader: stdin}
	if filename != "" {
		f, err := os.Open(filename)
		if err != nil {
			return nil, errors.WithHint(
				errors.Mark(errors.Wrapf(err, "cannot open input %s", filename), errors.ErrUnreadableInput),
				"omit FILE to read from standard input")
		}
		in.Name = filename
		in.Reader = f
		in.closers = append(in.closers, f)
	}

	br := bufio.NewReader(in.Reader)
	in.Reader = br
	if magic, _ := br.Peek(len(gzipMagic)); bytes.Equal(magic, gzipMagic) {
		zr, err := gzip.NewReader(br)
		if err != nil {
			in.Close()
			return nil, errors.Mark(errors.Wrapf(err, "cannot decompress input %s", in.Name), errors.ErrUnreadableInput)
		}
		in.Reader = zr
		in.closers = append(in.closers, zr)
		log.Debugw("Decompressing gzip input", logger.FieldFile, in.Name)
	}

	log.Debugw("Resolved input",
		logger.FieldFile, in.Name,
		logger.FieldFormat, t.String(),
		"declared", declared != "")
	return in, nil
}
