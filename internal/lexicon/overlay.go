package lexicon

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Overlay extends selected library tables from a YAML file. Overlays only
// add entries; the built-in tables are never replaced, so a bad overlay can
// widen matching but not break the engine's defaults.
type Overlay struct {
	Interests             map[string][]string `yaml:"interests"`
	DestinationStopwords  []string            `yaml:"destination_stopwords"`
	LandscapeDestinations []string            `yaml:"landscape_destinations"`
	CityDestinations      []string            `yaml:"city_destinations"`
}

// LoadOverlay reads an overlay file and applies it to the library.
func (l *Library) LoadOverlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read lexicon overlay: %w", err)
	}

	var overlay Overlay
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parse lexicon overlay: %w", err)
	}

	l.Apply(&overlay)
	return nil
}

// Apply merges the overlay into the library tables.
func (l *Library) Apply(overlay *Overlay) {
	for tag, keywords := range overlay.Interests {
		idx := -1
		for i := range l.Interests {
			if l.Interests[i].Tag == tag {
				idx = i
				break
			}
		}
		if idx == -1 {
			l.Interests = append(l.Interests, InterestCluster{Tag: tag, Keywords: keywords})
			continue
		}
		for _, kw := range keywords {
			if !containsString(l.Interests[idx].Keywords, kw) {
				l.Interests[idx].Keywords = append(l.Interests[idx].Keywords, kw)
			}
		}
	}

	for _, word := range overlay.DestinationStopwords {
		l.DestinationStopwords[word] = struct{}{}
	}
	for _, dest := range overlay.LandscapeDestinations {
		if !containsString(l.LandscapeDestinations, dest) {
			l.LandscapeDestinations = append(l.LandscapeDestinations, dest)
			l.KnownDestinations = append(l.KnownDestinations, dest)
		}
	}
	for _, dest := range overlay.CityDestinations {
		if !containsString(l.CityDestinations, dest) {
			l.CityDestinations = append(l.CityDestinations, dest)
			l.KnownDestinations = append(l.KnownDestinations, dest)
		}
	}
}
