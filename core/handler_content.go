package core

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/anvena/launchpad/content"
)

// Content handlers serve the start page document: launcher shortcuts,
// search engines, bookmark tabs and display preferences. The document is a
// single TOML file behind the content service; these endpoints expose its
// sections individually so the page can load them independently.

const CodeOkContent = "ok_content"

// writeContentSection answers one section of the start page document.
func (a *App) writeContentSection(w http.ResponseWriter, data interface{}) {
	writeJsonWithData(w, JsonWithData{
		JsonBasic: JsonBasic{
			Status:  http.StatusOK,
			Code:    CodeOkContent,
			Message: "",
		},
		Data: data,
	})
}

// HotSitesHandler lists the launcher shortcuts, most clicked first.
// Endpoint: GET /api/hot-sites
// Authenticated: No
func (a *App) HotSitesHandler(w http.ResponseWriter, r *http.Request) {
	doc, err := a.ContentService().Get()
	if err != nil {
		a.Logger().Error("content: load failed", "error", err)
		writeJsonError(w, errorContentUnavailable)
		return
	}
	a.writeContentSection(w, doc.HotSites)
}

// SearchEnginesHandler lists the configured search engines.
// Endpoint: GET /api/search-engines
// Authenticated: No
func (a *App) SearchEnginesHandler(w http.ResponseWriter, r *http.Request) {
	doc, err := a.ContentService().Get()
	if err != nil {
		a.Logger().Error("content: load failed", "error", err)
		writeJsonError(w, errorContentUnavailable)
		return
	}
	a.writeContentSection(w, doc.SearchEngines)
}

// TabsHandler lists the bookmark tab groups.
// Endpoint: GET /api/tabs
// Authenticated: No
func (a *App) TabsHandler(w http.ResponseWriter, r *http.Request) {
	doc, err := a.ContentService().Get()
	if err != nil {
		a.Logger().Error("content: load failed", "error", err)
		writeJsonError(w, errorContentUnavailable)
		return
	}
	a.writeContentSection(w, doc.Tabs)
}

// GetPreferencesHandler returns the display preferences.
// Endpoint: GET /api/user-preferences
// Authenticated: No
func (a *App) GetPreferencesHandler(w http.ResponseWriter, r *http.Request) {
	doc, err := a.ContentService().Get()
	if err != nil {
		a.Logger().Error("content: load failed", "error", err)
		writeJsonError(w, errorContentUnavailable)
		return
	}
	a.writeContentSection(w, doc.Preferences)
}

// UpdatePreferencesHandler merges new display preferences into the document
// and persists it.
// Endpoint: PUT /api/user-preferences
// Allowed Mimetype: application/json
func (a *App) UpdatePreferencesHandler(w http.ResponseWriter, r *http.Request) {
	if resp, err := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}

	var prefs content.Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}

	doc, err := a.ContentService().Update(&content.ContentUpdate{Preferences: &prefs})
	if err != nil {
		a.Logger().Error("content: preferences update failed", "error", err)
		writeJsonError(w, errorContentUnavailable)
		return
	}

	a.writeContentSection(w, doc.Preferences)
}

// HotSiteClickHandler records a click on a launcher shortcut. The sliding
// popularity sketch behind the content service uses these to rank the hot
// site listing.
// Endpoint: POST /api/hot-sites/click
// Allowed Mimetype: application/json
func (a *App) HotSiteClickHandler(w http.ResponseWriter, r *http.Request) {
	if resp, err := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJsonError(w, errorMissingFields)
		return
	}

	a.ContentService().Click(req.Name)
	writeJsonOk(w, okClickRecorded)
}
