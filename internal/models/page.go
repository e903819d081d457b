package models

import "time"

// Page is one page of movies.
type Page struct {
	Results      []Movie `json:"results"`
	TotalResults int     `json:"total_results"`
	TotalPages   int     `json:"total_pages"`
	Page         int     `json:"page"`
	Source       Source  `json:"source"`
}

// Clone returns a deep copy of p.
func (p Page) Clone() Page {
	c := p
	c.Results = make([]Movie, len(p.Results))
	for i, m := range p.Results {
		c.Results[i] = m.Clone()
	}
	return c
}

// Fallback reports whether the page was served from the offline catalog.
func (p Page) Fallback() bool { return p.Source == SourceFallback }

// ConnectivityState is the gate's view of the upstream API.
//
// A nil Available means the API has never been probed.
type ConnectivityState struct {
	Available     *bool     `json:"available"`
	LastCheckedAt time.Time `json:"last_checked_at"`
}

// Status reports configuration, reachability and cache size.
type Status struct {
	Configured    bool      `json:"configured"`
	Available     *bool     `json:"available"`
	LastCheckedAt time.Time `json:"last_checked_at"`
	Mode          Source    `json:"mode"`
	CacheBackend  string    `json:"cache_backend"`
	CacheEntries  int       `json:"cache_entries"`
	BaseURL       string    `json:"base_url"`
}

// Demo reports whether reads are being served from the offline catalog.
func (s Status) Demo() bool { return s.Mode == SourceFallback }
