package content

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
)

// Content is the start page document: the launcher sites, the search engine
// list, the tab groups, and the display preferences.
type Content struct {
	HotSites      []HotSite      `toml:"hot_sites" json:"hotSites"`
	SearchEngines []SearchEngine `toml:"search_engines" json:"searchEngines"`
	Tabs          []Tab          `toml:"tabs" json:"tabs"`
	Preferences   Preferences    `toml:"preferences" json:"preferences"`
}

type HotSite struct {
	Name string `toml:"name" json:"name"`
	URL  string `toml:"url" json:"url"`
	Icon string `toml:"icon" json:"icon"`
}

type SearchEngine struct {
	Name string `toml:"name" json:"name"`
	URL  string `toml:"url" json:"url"`
	Icon string `toml:"icon" json:"icon"`
}

type Tab struct {
	Name  string    `toml:"name" json:"name"`
	Sites []HotSite `toml:"sites" json:"sites"`
}

type Preferences struct {
	Theme         string `toml:"theme" json:"theme"`
	Wallpaper     string `toml:"wallpaper" json:"wallpaper"`
	DefaultEngine string `toml:"default_engine" json:"defaultEngine"`
	OpenInNewTab  bool   `toml:"open_in_new_tab" json:"openInNewTab"`
}

// Store persists the content document as a TOML file. Reads and writes are
// serialized; the write lands via temp file and rename so a crash never
// leaves a half-written document behind.
type Store struct {
	path string
	mu   sync.RWMutex
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the document from disk. A missing file yields the default
// content so a fresh install renders a usable page.
func (s *Store) Load() (*Content, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultContent(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read content file: %w", err)
	}

	doc := &Content{}
	if err := toml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to parse content file: %w", err)
	}
	return doc, nil
}

// Save writes the document to disk atomically.
func (s *Store) Save(doc *Content) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return fmt.Errorf("failed to encode content: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create content directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".content-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temp content file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp content file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp content file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace content file: %w", err)
	}
	return nil
}

// DefaultContent is what a fresh install serves before any customization.
func DefaultContent() *Content {
	return &Content{
		HotSites: []HotSite{
			{Name: "GitHub", URL: "https://github.com", Icon: "github"},
			{Name: "YouTube", URL: "https://youtube.com", Icon: "youtube"},
		},
		SearchEngines: []SearchEngine{
			{Name: "Google", URL: "https://www.google.com/search?q=%s", Icon: "google"},
			{Name: "Bing", URL: "https://www.bing.com/search?q=%s", Icon: "bing"},
			{Name: "DuckDuckGo", URL: "https://duckduckgo.com/?q=%s", Icon: "duckduckgo"},
		},
		Tabs: []Tab{},
		Preferences: Preferences{
			Theme:         "system",
			DefaultEngine: "Google",
			OpenInNewTab:  true,
		},
	}
}

// Merge overlays the non-nil sections of an update onto base. Sections the
// update leaves out keep their current value.
func Merge(base *Content, update *ContentUpdate) *Content {
	merged := *base
	if update.HotSites != nil {
		merged.HotSites = *update.HotSites
	}
	if update.SearchEngines != nil {
		merged.SearchEngines = *update.SearchEngines
	}
	if update.Tabs != nil {
		merged.Tabs = *update.Tabs
	}
	if update.Preferences != nil {
		merged.Preferences = *update.Preferences
	}
	return &merged
}

// ContentUpdate is a partial document: nil sections mean "leave unchanged".
type ContentUpdate struct {
	HotSites      *[]HotSite      `json:"hotSites"`
	SearchEngines *[]SearchEngine `json:"searchEngines"`
	Tabs          *[]Tab          `json:"tabs"`
	Preferences   *Preferences    `json:"preferences"`
}
