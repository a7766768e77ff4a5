// Package fixtures loads test fixture files and inspects the browser's download directory.
package fixtures

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/uicontrols/pkg/models"
	"gopkg.in/yaml.v3"
)

// ErrFixtureNotFound is returned when a fixture file does not exist
var ErrFixtureNotFound = errors.New("fixture not found")

var newlinePattern = regexp.MustCompile(`\r\n|\n|\r`)

// Store reads fixtures from a directory
type Store struct {
	fs     afero.Fs
	dir    string
	logger arbor.ILogger
}

// NewStore creates a store rooted at dir on fs
func NewStore(fs afero.Fs, dir string, logger arbor.ILogger) *Store {
	return &Store{
		fs:     fs,
		dir:    dir,
		logger: logger,
	}
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, filepath.FromSlash(name))
}

// Read returns the raw bytes of a fixture
func (s *Store) Read(name string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, s.path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", name, ErrFixtureNotFound)
		}
		return nil, fmt.Errorf("failed to read fixture %s: %w", name, err)
	}
	return data, nil
}

// Load reads a fixture as an upload payload. The zip archive type is attached as raw
// bytes; anything else is attached as UTF-8 text. An empty mimeType is detected from content.
func (s *Store) Load(name, mimeType string) (models.FilePayload, error) {
	data, err := s.Read(name)
	if err != nil {
		return models.FilePayload{}, err
	}

	if mimeType == "" {
		mimeType = mimetype.Detect(data).String()
		s.logger.Debug().Str("fixture", name).Str("mime", mimeType).Msg("Detected fixture type")
	}

	payload := models.FilePayload{
		Name:     filepath.Base(name),
		MimeType: mimeType,
		Binary:   mimeType == models.ZipMimeType,
	}
	if payload.Binary {
		payload.Content = data
	} else {
		payload.Content = []byte(strings.ToValidUTF8(string(data), "�"))
	}
	return payload, nil
}

// LoadRaw reads a fixture as raw bytes with a detected content type
func (s *Store) LoadRaw(name string) (models.FilePayload, error) {
	data, err := s.Read(name)
	if err != nil {
		return models.FilePayload{}, err
	}
	return models.FilePayload{
		Name:     filepath.Base(name),
		MimeType: mimetype.Detect(data).String(),
		Content:  data,
		Binary:   true,
	}, nil
}

// Records decodes a fixture holding a list of records. .yaml/.yml files are YAML, anything else JSON.
func (s *Store) Records(name string, out interface{}) error {
	data, err := s.Read(name)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, out)
	default:
		err = json.Unmarshal(data, out)
	}
	if err != nil {
		return fmt.Errorf("failed to decode fixture %s: %w", name, err)
	}
	return nil
}

// CategoryRecord is one entry of a category tree fixture
type CategoryRecord struct {
	Code string `json:"code" yaml:"code"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Categories decodes a category tree fixture
func (s *Store) Categories(name string) ([]CategoryRecord, error) {
	var records []CategoryRecord
	if err := s.Records(name, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ReadNormalized reads a file and replaces every CRLF, LF or CR with a single space
func ReadNormalized(fs afero.Fs, path string) (string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return newlinePattern.ReplaceAllString(string(data), " "), nil
}
