package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed fallback.yaml
var embeddedFallback []byte

type fallbackFile struct {
	Films []Film `yaml:"films"`
}

// Fallback returns a fresh copy of the built-in offline catalog.
func Fallback() []Film {
	films, err := parseFallback(embeddedFallback)
	if err != nil {
		panic(fmt.Sprintf("embedded fallback catalog: %v", err))
	}
	return films
}

// LoadFallback reads an offline catalog from a YAML file. An empty path
// returns the built-in catalog.
func LoadFallback(path string) ([]Film, error) {
	if strings.TrimSpace(path) == "" {
		return Fallback(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fallback catalog: %w", err)
	}
	films, err := parseFallback(data)
	if err != nil {
		return nil, fmt.Errorf("parse fallback catalog %s: %w", path, err)
	}
	return films, nil
}

func parseFallback(data []byte) ([]Film, error) {
	var file fallbackFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if len(file.Films) == 0 {
		return nil, errors.New("no films defined")
	}
	seen := make(map[int64]struct{}, len(file.Films))
	for i, f := range file.Films {
		if f.ID <= 0 {
			return nil, fmt.Errorf("film %d: id must be positive", i)
		}
		if _, dup := seen[f.ID]; dup {
			return nil, fmt.Errorf("film %d: duplicate id %d", i, f.ID)
		}
		seen[f.ID] = struct{}{}
	}
	return file.Films, nil
}
