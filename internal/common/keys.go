package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/ternarybob/arbor"
)

// KeysDirConfig locates key/value files used for {key-name} replacement
type KeysDirConfig struct {
	// Dir holds *.toml files with [key-name] sections carrying value and optional description
	Dir string `toml:"dir"`
}

// KeyFileEntry is one [key-name] section of a key file
// Format:
// [upload-token]
// value = "some-value"
// description = "optional description"
type KeyFileEntry struct {
	Value       string `toml:"value"`
	Description string `toml:"description"`
}

// LoadKeys reads every *.toml file in dir into a key map. A missing directory yields an empty map.
func LoadKeys(dir string, logger arbor.ILogger) (map[string]string, error) {
	keys := make(map[string]string)
	if dir == "" {
		return keys, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug().Str("dir", dir).Msg("Keys directory not found, skipping")
			return keys, nil
		}
		return nil, fmt.Errorf("failed to read keys directory %s: %w", dir, err)
	}

	loaded, skipped := 0, 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			logger.Warn().Err(err).Str("file", path).Msg("Failed to read key file")
			continue
		}

		var sections map[string]KeyFileEntry
		if err := toml.Unmarshal(content, &sections); err != nil {
			logger.Warn().Err(err).Str("file", path).Msg("Failed to parse key file")
			continue
		}

		for key, section := range sections {
			if section.Value == "" {
				logger.Warn().Str("file", entry.Name()).Str("key", key).Msg("Skipping key with empty value")
				skipped++
				continue
			}
			keys[key] = section.Value
			loaded++
		}
	}

	logger.Debug().
		Int("loaded", loaded).
		Int("skipped", skipped).
		Str("dir", dir).
		Msg("Finished loading keys from files")

	return keys, nil
}
