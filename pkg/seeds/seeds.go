// Package seeds provides static offline activity data used by fallback
// paths when live search or synthesis is unavailable.
package seeds

import (
	"embed"
	"encoding/json"
	"path"
	"strings"

	"tripplanner/pkg/logx"
)

//go:embed data/*.json
var seedFS embed.FS

// Item is one offline activity entry.
type Item struct {
	Activity   string  `json:"activity"`
	Source     string  `json:"source,omitempty"`
	Day        int     `json:"day"`
	ApproxCost float64 `json:"approx_cost"`
}

// Set is the offline dataset for one destination.
type Set struct {
	Destination string `json:"destination"`
	Currency    string `json:"currency"`
	Notes       string `json:"notes"`
	Items       []Item `json:"items"`
}

//nolint:gochecknoglobals // Package logger
var logger = logx.NewLogger("seeds")

// Lookup returns the seed set whose destination appears in the given text
// (case-insensitive). Used both for destination names and raw search
// queries.
func Lookup(text string) (Set, bool) {
	text = strings.ToLower(text)

	entries, err := seedFS.ReadDir("data")
	if err != nil {
		logger.Error("failed to read seed data: %v", err)
		return Set{}, false
	}

	for _, entry := range entries {
		name := strings.TrimSuffix(entry.Name(), ".json")
		if !strings.Contains(text, name) {
			continue
		}

		raw, err := seedFS.ReadFile(path.Join("data", entry.Name()))
		if err != nil {
			logger.Error("failed to read seed file %s: %v", entry.Name(), err)
			return Set{}, false
		}

		var set Set
		if err := json.Unmarshal(raw, &set); err != nil {
			logger.Error("failed to decode seed file %s: %v", entry.Name(), err)
			return Set{}, false
		}
		return set, true
	}

	return Set{}, false
}
