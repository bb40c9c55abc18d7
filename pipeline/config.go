// Package pipeline runs the one-pass record pipeline: parse, project,
// write, validate and count, strictly in input order.
package pipeline

import (
	"github.com/teranos/picadata/pica/format"
	"github.com/teranos/picadata/pica/path"
	"github.com/teranos/picadata/pica/schema"
)

// Config is the resolved configuration of one run. It is built once before
// the first record is read and cannot be changed afterwards.
type Config struct {
	from          format.Type
	to            format.Type
	schema        *schema.Schema
	matcher       *path.Matcher
	reportUnknown bool
	count         bool
}

// Option sets one aspect of a Config during construction
type Option func(*Config)

// NewConfig builds a Config reading the given input type
func NewConfig(from format.Type, opts ...Option) Config {
	c := Config{from: from}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithOutput enables writing records serialized as t
func WithOutput(t format.Type) Option {
	return func(c *Config) { c.to = t }
}

// WithSchema enables validation. Unknown fields and subfields are reported
// only when reportUnknown is set.
func WithSchema(s *schema.Schema, reportUnknown bool) Option {
	return func(c *Config) {
		c.schema = s
		c.reportUnknown = reportUnknown
	}
}

// WithPath restricts every record to the fields matched by m
func WithPath(m *path.Matcher) Option {
	return func(c *Config) { c.matcher = m }
}

// WithCount enables the summary counters
func WithCount(enabled bool) Option {
	return func(c *Config) { c.count = enabled }
}

// From returns the input type
func (c Config) From() format.Type { return c.from }

// To returns the output type and whether writing is enabled
func (c Config) To() (format.Type, bool) { return c.to, c.to != format.Unknown }

// Schema returns the validation schema, nil when validation is off
func (c Config) Schema() *schema.Schema { return c.schema }

// Path returns the projection matcher, nil when records pass unchanged
func (c Config) Path() *path.Matcher { return c.matcher }

// ReportUnknown reports whether unknown fields and subfields are errors
func (c Config) ReportUnknown() bool { return c.reportUnknown }

// Count reports whether the summary counters are enabled
func (c Config) Count() bool { return c.count }
