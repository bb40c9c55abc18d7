package schema

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/teranos/picadata/errors"
	"github.com/teranos/picadata/pica"
)

// Encoding of a schema document
type Encoding int

const (
	// Detect picks JSON when the document starts with '{', YAML otherwise
	Detect Encoding = iota
	JSON
	YAML
)

// LoadFile reads a schema document; the encoding follows the file extension
// (.json, .yaml, .yml) or is detected from the content.
func LoadFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "reading schema %s", path), errors.ErrInvalidSchema)
	}
	enc := Detect
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		enc = JSON
	case ".yaml", ".yml":
		enc = YAML
	}
	s, err := Load(data, enc)
	if err != nil {
		return nil, errors.Wrapf(err, "schema %s", path)
	}
	return s, nil
}

// Load decodes and compiles a schema document. Errors are marked
// errors.ErrInvalidSchema.
func Load(data []byte, enc Encoding) (*Schema, error) {
	if enc == Detect {
		enc = YAML
		if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
			enc = JSON
		}
	}

	var s Schema
	var err error
	switch enc {
	case JSON:
		err = json.Unmarshal(data, &s)
	case YAML:
		err = yaml.Unmarshal(data, &s)
	default:
		err = errors.Newf("unsupported schema encoding %d", enc)
	}
	if err != nil {
		return nil, invalid(errors.Wrap(err, "decoding schema"))
	}
	if err := s.compile(); err != nil {
		return nil, invalid(err)
	}
	return &s, nil
}

func invalid(err error) error {
	return errors.Mark(err, errors.ErrInvalidSchema)
}

// compile checks keys and patterns and indexes required elements
func (s *Schema) compile() error {
	if len(s.Fields) == 0 {
		return errors.New("schema defines no fields")
	}
	for _, key := range s.Keys() {
		fs := s.Fields[key]
		if fs == nil {
			return errors.Newf("field %s has no definition", key)
		}
		tag, occ := key, ""
		if i := strings.IndexByte(key, '/'); i >= 0 {
			tag, occ = key[:i], key[i+1:]
		}
		if fs.Tag == "" {
			fs.Tag = tag
		}
		if fs.Occurrence == "" {
			fs.Occurrence = occ
		}
		if fs.Tag != tag || fs.Occurrence != occ {
			return errors.Newf("field key %s does not match tag %s", key, pica.Field{Tag: fs.Tag, Occurrence: fs.Occurrence}.Key())
		}
		fs.key = key
		fs.level = pica.Field{Tag: tag}.Level()
		if len(tag) != 4 || fs.level < 0 {
			return errors.Newf("invalid field tag %q", key)
		}
		if fs.Required {
			s.required[fs.level] = append(s.required[fs.level], key)
		}
		if err := fs.compile(); err != nil {
			return err
		}
	}
	return nil
}

func (fs *FieldSchema) compile() error {
	for code, ss := range fs.Subfields {
		if ss == nil {
			return errors.Newf("subfield %s$%s has no definition", fs.key, code)
		}
		if len(code) != 1 {
			return errors.Newf("invalid subfield code %q in field %s", code, fs.key)
		}
		if ss.Code == "" {
			ss.Code = code
		}
		if ss.Code != code {
			return errors.Newf("subfield key %s$%s does not match code %s", fs.key, code, ss.Code)
		}
		if ss.Pattern != "" {
			re, err := regexp.Compile(ss.Pattern)
			if err != nil {
				return errors.Wrapf(err, "pattern of subfield %s$%s", fs.key, code)
			}
			ss.pattern = re
		}
		if ss.Required {
			fs.required = append(fs.required, code[0])
		}
	}
	sort.Slice(fs.required, func(i, j int) bool { return fs.required[i] < fs.required[j] })
	return nil
}
