package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/uicontrols/pkg/browser"
	"github.com/ternarybob/uicontrols/pkg/models"
)

// Backend names accepted by Config.Backend
const (
	BackendChrome     = "chrome"
	BackendPlaywright = "playwright"
	BackendDocument   = "document"
)

// Config represents the runner configuration
type Config struct {
	Environment string                   `toml:"environment"`
	Backend     string                   `toml:"backend" validate:"oneof=chrome playwright document"`
	BaseURL     string                   `toml:"base_url" validate:"omitempty,url"`
	Controls    models.Settings          `toml:"controls"`
	Chrome      browser.ChromeConfig     `toml:"chrome"`
	Playwright  browser.PlaywrightConfig `toml:"playwright"`
	Paths       PathsConfig              `toml:"paths"`
	Logging     LoggingConfig            `toml:"logging"`
	Variables   KeysDirConfig            `toml:"variables"` // directory of *.toml key files
	Keys        map[string]string        `toml:"keys"`      // inline keys, override key files
}

// PathsConfig locates the directories the helpers read and write
type PathsConfig struct {
	Fixtures  string `toml:"fixtures" validate:"required"`
	Downloads string `toml:"downloads" validate:"required"`
	Reports   string `toml:"reports"` // empty disables failure snapshots
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=debug info warn error"`
	Output []string `toml:"output"` // "stdout", "file"
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Backend:     BackendChrome,
		Controls:    *models.DefaultSettings(),
		Chrome:      browser.DefaultChromeConfig(),
		Playwright:  browser.DefaultPlaywrightConfig(),
		Paths: PathsConfig{
			Fixtures:  "./fixtures",
			Downloads: "./downloads",
			Reports:   "./results",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		Variables: KeysDirConfig{
			Dir: "./keys",
		},
		Keys: map[string]string{},
	}
}

// LoadFromFiles loads configuration with priority: default -> file1 -> file2 -> ... -> keys -> env.
// Later files override earlier files. {key-name} references are resolved from the keys
// directory, the [keys] table and UICONTROLS_KEY_* environment variables.
func LoadFromFiles(logger arbor.ILogger, paths ...string) (*Config, error) {
	if logger == nil {
		logger = GetLogger()
	}
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		// Unmarshal merges onto the existing values
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	kvMap, err := LoadKeys(config.Variables.Dir, logger)
	if err != nil {
		logger.Warn().Err(err).Str("dir", config.Variables.Dir).Msg("Failed to load key files, continuing with inline keys")
		kvMap = map[string]string{}
	}
	for k, v := range config.Keys {
		kvMap[k] = v
	}
	for k, v := range keysFromEnv(os.Environ()) {
		kvMap[k] = v
	}

	if len(kvMap) > 0 {
		if err := ReplaceInStruct(config, kvMap, logger); err != nil {
			logger.Warn().Err(err).Msg("Failed to replace key references in config")
		} else {
			logger.Debug().Int("keys", len(kvMap)).Msg("Applied key/value replacements to config")
		}
	}

	applyEnvOverrides(config)

	// the browser writes downloads where the download checks look for them
	if config.Chrome.DownloadDir == "" {
		config.Chrome.DownloadDir = config.Paths.Downloads
	}
	if config.Playwright.DownloadDir == "" {
		config.Playwright.DownloadDir = config.Paths.Downloads
	}

	return config, nil
}

// keysFromEnv maps UICONTROLS_KEY_UPLOAD_TOKEN=x to upload-token=x
func keysFromEnv(environ []string) map[string]string {
	const prefix = "UICONTROLS_KEY_"
	keys := make(map[string]string)
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, prefix) || len(name) == len(prefix) {
			continue
		}
		key := strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(name, prefix), "_", "-"))
		keys[key] = value
	}
	return keys
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("UICONTROLS_ENV"); env != "" {
		config.Environment = env
	}
	if backend := os.Getenv("UICONTROLS_BACKEND"); backend != "" {
		config.Backend = backend
	}
	if baseURL := os.Getenv("UICONTROLS_BASE_URL"); baseURL != "" {
		config.BaseURL = baseURL
	}

	// Browser configuration
	if headless := os.Getenv("UICONTROLS_HEADLESS"); headless != "" {
		if h, err := strconv.ParseBool(headless); err == nil {
			config.Chrome.Headless = h
			config.Playwright.Headless = h
		}
	}
	if execPath := os.Getenv("UICONTROLS_CHROME_PATH"); execPath != "" {
		config.Chrome.ExecPath = execPath
	}

	// Paths
	if dir := os.Getenv("UICONTROLS_FIXTURES_DIR"); dir != "" {
		config.Paths.Fixtures = dir
	}
	if dir := os.Getenv("UICONTROLS_DOWNLOADS_DIR"); dir != "" {
		config.Paths.Downloads = dir
	}
	if dir := os.Getenv("UICONTROLS_REPORTS_DIR"); dir != "" {
		config.Paths.Reports = dir
	}

	// Helper settings
	if endpoint := os.Getenv("UICONTROLS_UPLOAD_ENDPOINT"); endpoint != "" {
		config.Controls.Upload.Endpoint = endpoint
	}
	if ms := os.Getenv("UICONTROLS_DEFAULT_TIMEOUT_MS"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil {
			config.Controls.Timeouts.DefaultMs = v
		}
	}

	// Logging configuration
	if level := os.Getenv("UICONTROLS_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("UICONTROLS_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, backend, baseURL string) {
	if backend != "" {
		config.Backend = backend
	}
	if baseURL != "" {
		config.BaseURL = baseURL
	}
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// IsProduction reports whether the runner targets a production environment
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Environment)
	return env == "production" || env == "prod"
}
