// Package settings loads the optional JSON settings file shared by the
// terrasculpt commands.
package settings

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"time"
)

// DefaultPath is where the commands look when no -settings flag is given.
const DefaultPath = "settings.json"

type Settings struct {
	Sim    string            `json:"sim"`
	Seed   int64             `json:"seed"`
	Params map[string]string `json:"params"`
	Server ServerSettings    `json:"server"`
}

type ServerSettings struct {
	Addr             string `json:"addr"`
	UpdateIntervalMs int    `json:"updateIntervalMs"`
}

// UpdateInterval returns the broadcast period, falling back to the default
// for non-positive values.
func (s ServerSettings) UpdateInterval() time.Duration {
	if s.UpdateIntervalMs <= 0 {
		return time.Duration(Default().Server.UpdateIntervalMs) * time.Millisecond
	}
	return time.Duration(s.UpdateIntervalMs) * time.Millisecond
}

// Default returns the settings used when no file is present.
func Default() Settings {
	return Settings{
		Sim:    "terrain",
		Params: map[string]string{},
		Server: ServerSettings{
			Addr:             ":8080",
			UpdateIntervalMs: 100,
		},
	}
}

// Load reads path over the defaults. A missing file is not an error; the
// boolean reports whether the file was found.
func Load(path string) (Settings, bool, error) {
	s := Default()
	if path == "" {
		path = DefaultPath
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, false, nil
		}
		return s, false, err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&s); err != nil {
		return Default(), true, fmt.Errorf("parse %s: %w", path, err)
	}
	if s.Params == nil {
		s.Params = map[string]string{}
	}
	return s, true, nil
}

// Merge layers overrides on top of the file params and returns a new map.
func (s Settings) Merge(overrides map[string]string) map[string]string {
	out := maps.Clone(s.Params)
	if out == nil {
		out = map[string]string{}
	}
	maps.Copy(out, overrides)
	return out
}
