package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fleetdesk/notify/pkg/notification"
)

// templateFile is the on-disk document shape: one file can carry any
// number of templates.
type templateFile struct {
	Templates []notification.Template `json:"templates" yaml:"templates"`
}

// LoadDirectory reads every .yaml/.yml/.json file in dir into a new
// MemoryStore. Format is detected by extension; other files are ignored.
func LoadDirectory(dir string) (*MemoryStore, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, dir)
		}
		return nil, fmt.Errorf("read templates dir: %w", err)
	}

	s := NewMemoryStore()
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" && ext != ".json" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := loadFile(s, path, ext); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func loadFile(s *MemoryStore, path, ext string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var doc templateFile
	if ext == ".json" {
		err = json.Unmarshal(data, &doc)
	} else {
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidFile, path, err)
	}

	for _, t := range doc.Templates {
		s.Put(t)
	}
	return nil
}

// LoadSettings reads the app settings from a YAML file into a flat map.
// The stored representation keeps values JSON-encoded (as the settings
// table does), so string values that parse as JSON are decoded; anything
// else passes through as-is. A missing path yields an empty map rather
// than an error: settings are fallback branding, not required input.
func LoadSettings(path string) (map[string]any, error) {
	if path == "" {
		return map[string]any{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFile, path, err)
	}

	settings := make(map[string]any, len(raw))
	for key, value := range raw {
		if s, ok := value.(string); ok {
			var decoded any
			if json.Unmarshal([]byte(s), &decoded) == nil {
				settings[key] = decoded
				continue
			}
		}
		settings[key] = value
	}
	return settings, nil
}
