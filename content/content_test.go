package content

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestStoreLoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "content.toml"))

	doc, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(doc, DefaultContent()) {
		t.Errorf("Load() of missing file = %+v, want defaults", doc)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.toml")
	store := NewStore(path)

	doc := &Content{
		HotSites: []HotSite{{Name: "Example", URL: "https://example.com", Icon: "globe"}},
		SearchEngines: []SearchEngine{
			{Name: "Google", URL: "https://www.google.com/search?q=%s", Icon: "google"},
		},
		Tabs: []Tab{{Name: "Work", Sites: []HotSite{{Name: "Mail", URL: "https://mail.example.com"}}}},
		Preferences: Preferences{
			Theme:         "dark",
			DefaultEngine: "Google",
			OpenInNewTab:  true,
		},
	}

	if err := store.Save(doc); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(doc, loaded) {
		t.Errorf("round trip mismatch:\nsaved  %+v\nloaded %+v", doc, loaded)
	}
}

func TestStoreLoadBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.toml")
	if err := os.WriteFile(path, []byte("this is not toml = ["), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := NewStore(path).Load(); err == nil {
		t.Error("Load() error = nil, want parse failure")
	}
}

func TestMerge(t *testing.T) {
	base := DefaultContent()

	newSites := []HotSite{{Name: "Only", URL: "https://only.example.com"}}
	darkPrefs := Preferences{Theme: "dark", DefaultEngine: "Bing"}

	merged := Merge(base, &ContentUpdate{
		HotSites:    &newSites,
		Preferences: &darkPrefs,
	})

	if !reflect.DeepEqual(merged.HotSites, newSites) {
		t.Errorf("hot sites = %+v, want replaced", merged.HotSites)
	}
	if merged.Preferences != darkPrefs {
		t.Errorf("preferences = %+v, want replaced", merged.Preferences)
	}
	// Untouched sections keep base values.
	if !reflect.DeepEqual(merged.SearchEngines, base.SearchEngines) {
		t.Errorf("search engines changed on partial update")
	}
	if !reflect.DeepEqual(merged.Tabs, base.Tabs) {
		t.Errorf("tabs changed on partial update")
	}

	// The base itself is not mutated.
	if reflect.DeepEqual(base.HotSites, newSites) {
		t.Error("Merge() mutated the base document")
	}
}
