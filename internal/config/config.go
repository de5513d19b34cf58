// Package config loads gitdu defaults from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the config file looked up at the repository top level.
const FileName = ".gitdu.toml"

// Config holds defaults for command-line flags. Unset keys leave the flag
// defaults untouched.
type Config struct {
	All           *bool   `toml:"all"`
	MaxDepth      *int    `toml:"max_depth"`
	Threshold     *string `toml:"threshold"`
	Extensions    *bool   `toml:"extensions"`
	HumanReadable *bool   `toml:"human_readable"`
	Output        *string `toml:"output"`
	Ignore        *string `toml:"ignore"`
	VerifyPack    *string `toml:"verify_pack"`
	RevList       *string `toml:"rev_list"`
}

// Load decodes the file at path. Relative file paths inside the config are
// resolved against the config's directory.
func Load(path string) (Config, error) {
	var cfg Config

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("loading config %q: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("loading config %q: unknown key %q", path, undecoded[0].String())
	}

	dir := filepath.Dir(path)
	for _, p := range []*string{cfg.Ignore, cfg.VerifyPack, cfg.RevList} {
		if p != nil && *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}

	return cfg, nil
}

// LoadOptional loads path when it exists and returns an empty config
// otherwise.
func LoadOptional(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}

	return cfg, err
}
