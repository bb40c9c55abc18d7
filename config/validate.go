package config

import (
	"github.com/teranos/picadata/errors"
	"github.com/teranos/picadata/pica/format"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	// Empty from is valid: the type is guessed from the input file name
	if c.From != "" {
		if _, err := format.Resolve(c.From); err != nil {
			return errors.Wrap(err, "from")
		}
	}

	if c.To != "" && c.To != SameAsInput {
		if _, err := format.Resolve(c.To); err != nil {
			return errors.Wrap(err, "to")
		}
	}

	if c.Log.Verbosity < 0 {
		return errors.Markf(errors.ErrInvalidConfig, "log.verbosity must be >= 0, got %d", c.Log.Verbosity)
	}

	// Unknown only has an effect together with a schema; not an error
	return nil
}
