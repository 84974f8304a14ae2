package core

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/anvena/launchpad/cache/ristretto"
	"github.com/anvena/launchpad/content"
	"github.com/anvena/launchpad/db/mock"
)

// newContentApp builds an App whose content service works against a
// temp-dir document file.
func newContentApp(t *testing.T) *App {
	t.Helper()
	store := content.NewStore(filepath.Join(t.TempDir(), "content.toml"))
	c, err := ristretto.New[string, *content.Content](1000, 1<<20)
	if err != nil {
		t.Fatalf("ristretto.New() error = %v", err)
	}
	sketch := content.NewClickSketch(content.SketchParams{K: 8, Width: 256, Depth: 2, WindowSize: 4}, time.Now())
	app := newTestApp(t, &mock.Db{})
	app.SetContentService(content.NewService(store, c, sketch))
	return app
}

func TestContentSectionHandlers(t *testing.T) {
	app := newContentApp(t)

	sections := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"hot sites", app.HotSitesHandler},
		{"search engines", app.SearchEnginesHandler},
		{"tabs", app.TabsHandler},
		{"preferences", app.GetPreferencesHandler},
	}

	for _, s := range sections {
		t.Run(s.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			s.handler(rr, httptest.NewRequest("GET", "/", nil))
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rr.Code)
			}
			body := decodeBody(t, rr)
			if body["code"] != CodeOkContent {
				t.Errorf("code = %v, want %q", body["code"], CodeOkContent)
			}
			if _, ok := body["data"]; !ok {
				t.Error("response carries no data")
			}
		})
	}
}

func TestUpdatePreferencesHandler(t *testing.T) {
	app := newContentApp(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/api/user-preferences", strings.NewReader(`{"theme":"dark","defaultEngine":"DuckDuckGo","openInNewTab":true}`))
	req.Header.Set("Content-Type", "application/json")
	app.UpdatePreferencesHandler(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rr.Code, rr.Body)
	}
	data := decodeBody(t, rr)["data"].(map[string]interface{})
	if data["theme"] != "dark" || data["defaultEngine"] != "DuckDuckGo" {
		t.Errorf("updated preferences = %v, want dark/DuckDuckGo", data)
	}

	// The change must survive a fresh read.
	rr = httptest.NewRecorder()
	app.GetPreferencesHandler(rr, httptest.NewRequest("GET", "/api/user-preferences", nil))
	data = decodeBody(t, rr)["data"].(map[string]interface{})
	if data["theme"] != "dark" {
		t.Errorf("persisted theme = %v, want dark", data["theme"])
	}
}

func TestHotSiteClickHandlerRanksListing(t *testing.T) {
	app := newContentApp(t)

	// Default content lists GitHub before YouTube. Click YouTube twice.
	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		app.HotSiteClickHandler(rr, postJSON("/api/hot-sites/click", `{"name":"YouTube"}`))
		assertResponse(t, rr, okClickRecorded)
	}

	rr := httptest.NewRecorder()
	app.HotSitesHandler(rr, httptest.NewRequest("GET", "/api/hot-sites", nil))
	sites := decodeBody(t, rr)["data"].([]interface{})
	if len(sites) == 0 {
		t.Fatal("no hot sites returned")
	}
	first := sites[0].(map[string]interface{})
	if first["name"] != "YouTube" {
		t.Errorf("first hot site = %v, want the most clicked (YouTube)", first["name"])
	}
}

func TestHotSiteClickHandlerValidation(t *testing.T) {
	app := newContentApp(t)

	rr := httptest.NewRecorder()
	app.HotSiteClickHandler(rr, postJSON("/api/hot-sites/click", `{"name":"  "}`))
	assertResponse(t, rr, errorMissingFields)
}
