// Package config persists user preferences and decides where the
// per-user files (preferences, credential cache, response cache) live.
package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"

	"flyerhunt/pkg/models"

	"github.com/titanous/json5"
)

// Built-in defaults: Berlin-Mitte and the major German grocery chains.
const DefaultZip = "10115"

func DefaultStores() []string {
	return []string{"EDEKA", "REWE", "Lidl", "Aldi", "Penny", "Netto", "Kaufland"}
}

func Defaults() models.Preferences {
	return models.Preferences{
		DefaultZip:    DefaultZip,
		DefaultStores: DefaultStores(),
	}
}

// Store reads and writes the preference file.
type Store struct {
	Path string
}

func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Load never fails outward: a missing, unreadable or corrupt file is
// replaced with freshly written defaults.
func (s *Store) Load() models.Preferences {
	data, err := os.ReadFile(s.Path)
	if err == nil {
		var prefs models.Preferences
		// json5 tolerates comments and trailing commas in
		// hand-edited files.
		if err := json5.Unmarshal(data, &prefs); err == nil && prefs.DefaultZip != "" {
			return prefs
		}
		log.Printf("config: preference file %s unusable, restoring defaults", s.Path)
	}

	prefs := Defaults()
	if err := s.Save(prefs); err != nil {
		log.Printf("config: failed to write default preferences: %v", err)
	}
	return prefs
}

func (s *Store) Save(prefs models.Preferences) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path, data, 0o644)
}

// ParseList splits a comma-separated value, trims each entry and drops
// empties. Empty input yields nil.
func ParseList(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
