package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var (
	// ErrConfigNotFound is returned by Load when the configuration file does not exist
	ErrConfigNotFound = errors.New("config file does not exist")

	// ErrConfigParse is returned by Load when the configuration file is not valid JSON
	ErrConfigParse = errors.New("config file cannot be parsed")

	// ErrConfigWrite is returned by Save when the configuration file cannot be written
	ErrConfigWrite = errors.New("config file cannot be written")
)

// Load reads a RadioConfig from the JSON document at path. The returned
// config is not semantically validated; call Validate when ranges matter.
func Load(path string) (RadioConfig, error) {
	var c RadioConfig

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return c, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err = json.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("%w: %s: %s", ErrConfigParse, path, err)
	}
	return c, nil
}

// Save serializes config as indented JSON to path, overwriting any
// existing file.
func Save(path string, config RadioConfig) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %s: %s", ErrConfigWrite, path, err)
	}

	if err = os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("%w: %s: %s", ErrConfigWrite, path, err)
	}
	return nil
}
