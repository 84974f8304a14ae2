package content

import (
	"time"

	"github.com/anvena/launchpad/cache"
)

const cacheKey = "content"

// Service serves the content document through a cache and keeps the click
// ranking. The cache takes the disk read off the hot path; every write goes
// through the store and refreshes the cached copy.
type Service struct {
	store  *Store
	cache  cache.Cache[string, *Content]
	clicks *ClickSketch
}

func NewService(store *Store, c cache.Cache[string, *Content], clicks *ClickSketch) *Service {
	return &Service{
		store:  store,
		cache:  c,
		clicks: clicks,
	}
}

// Get returns the current document with hot sites in click-rank order.
func (s *Service) Get() (*Content, error) {
	doc, found := s.cache.Get(cacheKey)
	if !found {
		loaded, err := s.store.Load()
		if err != nil {
			return nil, err
		}
		s.cache.Set(cacheKey, loaded, 1)
		doc = loaded
	}

	ranked := *doc
	ranked.HotSites = s.rankHotSites(doc.HotSites)
	return &ranked, nil
}

// Update merges a partial document over the stored one and persists it.
func (s *Service) Update(update *ContentUpdate) (*Content, error) {
	current, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	merged := Merge(current, update)
	if err := s.store.Save(merged); err != nil {
		return nil, err
	}
	s.cache.Set(cacheKey, merged, 1)

	result := *merged
	result.HotSites = s.rankHotSites(merged.HotSites)
	return &result, nil
}

// Click records a click on a named hot site.
func (s *Service) Click(name string) {
	s.clicks.Click(name, time.Now())
}

// rankHotSites reorders sites so recently clicked ones come first; sites
// without recent clicks keep their document order after them.
func (s *Service) rankHotSites(sites []HotSite) []HotSite {
	if len(sites) == 0 {
		return sites
	}

	byName := make(map[string]HotSite, len(sites))
	for _, site := range sites {
		byName[site.Name] = site
	}

	ordered := make([]HotSite, 0, len(sites))
	seen := make(map[string]bool, len(sites))
	for _, name := range s.clicks.Ranked(time.Now()) {
		site, ok := byName[name]
		if !ok {
			continue
		}
		ordered = append(ordered, site)
		seen[name] = true
	}
	for _, site := range sites {
		if !seen[site.Name] {
			ordered = append(ordered, site)
		}
	}
	return ordered
}
