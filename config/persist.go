package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/picadata/errors"
)

// Save writes c as TOML to path. An existing file is kept as path.back1.
func Save(path string, c *Config) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "failed to create config directory %s", dir)
		}
	}

	if _, err := os.Stat(path); err == nil {
		if err := os.Rename(path, path+".back1"); err != nil {
			return errors.Wrap(err, "failed to back up config file")
		}
	}

	// Write to a temp file first so a failed write leaves no partial config
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "failed to move config into place at %s", path)
	}
	return nil
}
