package config

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"github.com/a8m/envsubst"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/flashrobotics/devices/logging"
)

// Read reads a config from the given file. Environment variables written as ${VAR}
// are expanded before parsing.
func Read(
	ctx context.Context,
	filePath string,
	logger logging.Logger,
) (*Config, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config %q", filePath)
	}

	return FromReader(ctx, filePath, bytes.NewReader(buf), logger)
}

// FromReader reads a config from the given reader and specifies
// where, if applicable, the file the reader originated from. Paths ending in
// .yaml or .yml are parsed as YAML, everything else as JSON.
func FromReader(
	ctx context.Context,
	originalPath string,
	r io.Reader,
	logger logging.Logger,
) (*Config, error) {
	unprocessedConfig := Config{
		ConfigFilePath: originalPath,
	}

	if isYAML(originalPath) {
		if err := decodeYAML(r, &unprocessedConfig); err != nil {
			return nil, errors.Wrapf(err, "failed to decode Config from yaml")
		}
	} else if err := json.NewDecoder(r).Decode(&unprocessedConfig); err != nil {
		return nil, errors.Wrapf(err, "failed to decode Config from json")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := unprocessedConfig.Ensure(logger); err != nil {
		return nil, errors.Wrapf(err, "failed to process Config")
	}
	return &unprocessedConfig, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// decodeYAML goes through JSON so attribute maps and the json tags used
// everywhere else apply to YAML files unchanged.
func decodeYAML(r io.Reader, cfg *Config) error {
	var generic interface{}
	if err := yaml.NewDecoder(r).Decode(&generic); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty config")
		}
		return err
	}
	asJSON, err := json.Marshal(generic)
	if err != nil {
		return err
	}
	return json.Unmarshal(asJSON, cfg)
}
