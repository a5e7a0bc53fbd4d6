package spritegraph

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/quasilyte/gdata"
)

// settingsKey is the item name settings are stored under.
const settingsKey = "settings"

// Settings configures the window and renderer.
type Settings struct {
	Title      string  `json:"title"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Fullscreen bool    `json:"fullscreen"`
	VSync      bool    `json:"vsync"`
	HiDPI      float32 `json:"hidpi"`
	Debug      bool    `json:"debug"`
	ClearColor Color   `json:"clearColor"`
}

// DefaultSettings returns the settings used when none are stored.
func DefaultSettings() Settings {
	return Settings{
		Title:      "spritegraph",
		Width:      1280,
		Height:     720,
		VSync:      true,
		HiDPI:      1,
		ClearColor: Color{0, 0, 0, 1},
	}
}

// SettingsStore is the persistence backend. *gdata.Manager satisfies it.
type SettingsStore interface {
	LoadItem(key string) ([]byte, error)
	SaveItem(key string, data []byte) error
}

// OpenSettingsStore opens the per-user data store for app.
func OpenSettingsStore(app string) (*gdata.Manager, error) {
	m, err := gdata.Open(gdata.Config{AppName: app})
	if err != nil {
		return nil, fmt.Errorf("spritegraph: open settings store: %w", err)
	}
	return m, nil
}

// ParseSettings decodes a JSON document over DefaultSettings, so fields the
// document omits keep their defaults.
func ParseSettings(data []byte) (Settings, error) {
	s := DefaultSettings()
	if err := json.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("spritegraph: parse settings: %w", err)
	}
	return s, nil
}

// LoadSettings reads settings from store. Missing data yields defaults.
func LoadSettings(store SettingsStore) (Settings, error) {
	data, err := store.LoadItem(settingsKey)
	if err != nil {
		return DefaultSettings(), fmt.Errorf("spritegraph: load settings: %w", err)
	}
	if data == nil {
		return DefaultSettings(), nil
	}
	return ParseSettings(data)
}

// SaveSettings writes s to store.
func SaveSettings(store SettingsStore, s Settings) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("spritegraph: encode settings: %w", err)
	}
	if err := store.SaveItem(settingsKey, data); err != nil {
		return fmt.Errorf("spritegraph: save settings: %w", err)
	}
	return nil
}

// LoadAppSettings opens app's store and loads its settings. Any failure is
// logged and the defaults are returned; settings never stop a game starting.
func LoadAppSettings(app string) Settings {
	store, err := OpenSettingsStore(app)
	if err != nil {
		log.Printf("Warning: Could not initialize settings store: %v", err)
		return DefaultSettings()
	}
	s, err := LoadSettings(store)
	if err != nil {
		log.Printf("Warning: Could not load settings: %v", err)
	}
	return s
}
