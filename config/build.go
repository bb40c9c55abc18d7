package config

import (
	"github.com/teranos/picadata/logger"
	"github.com/teranos/picadata/pica/format"
	"github.com/teranos/picadata/pica/path"
	"github.com/teranos/picadata/pica/schema"
	"github.com/teranos/picadata/pipeline"
)

// Pipeline compiles the path expression, loads the schema and returns the
// immutable run configuration for input of type from.
func (c *Config) Pipeline(from format.Type) (pipeline.Config, error) {
	opts := []pipeline.Option{pipeline.WithCount(c.Count)}

	if c.Writes() {
		to := from
		if c.To != SameAsInput {
			t, err := format.Resolve(c.To)
			if err != nil {
				return pipeline.Config{}, err
			}
			to = t
		}
		opts = append(opts, pipeline.WithOutput(to))
	}

	if c.Path != "" {
		m, err := path.Compile(c.Path)
		if err != nil {
			return pipeline.Config{}, err
		}
		opts = append(opts, pipeline.WithPath(m))
	}

	if c.Schema != "" {
		s, err := schema.LoadFile(c.Schema)
		if err != nil {
			return pipeline.Config{}, err
		}
		logger.Debugw("Loaded schema", logger.FieldSchema, c.Schema, logger.FieldCount, len(s.Fields))
		opts = append(opts, pipeline.WithSchema(s, c.Unknown))
	}

	return pipeline.NewConfig(from, opts...), nil
}
