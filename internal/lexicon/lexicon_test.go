package lexicon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sofialabs/sofia/pkg/types"
)

func TestDefault_CoversEveryIntent(t *testing.T) {
	lib := Default()

	seen := make(map[types.Intent]bool)
	for _, entry := range lib.Intents {
		assert.NotEmpty(t, entry.Patterns, string(entry.Intent))
		seen[entry.Intent] = true
	}
	for _, intent := range types.AllIntents() {
		assert.True(t, seen[intent], "missing patterns for %s", intent)
	}
}

func TestDefault_TableDefaults(t *testing.T) {
	lib := Default()

	assert.Equal(t, "Explorer", lib.DefaultArchetype)
	assert.Equal(t, "Adaptive", lib.DefaultEnergy)
	assert.Equal(t, "Intuitive", lib.DefaultDecision)
	assert.Equal(t, "Adventure", lib.DefaultMotive)
	assert.Equal(t, "General", lib.DefaultLifeStage)

	// The defaults must name real table entries (except the life stage,
	// which is a pure fallback).
	names := func(lists []KeywordList) []string {
		out := make([]string, len(lists))
		for i, l := range lists {
			out[i] = l.Name
		}
		return out
	}
	assert.Contains(t, names(lib.Energies), lib.DefaultEnergy)
	assert.Contains(t, names(lib.Decisions), lib.DefaultDecision)
	assert.Contains(t, names(lib.Motivations), lib.DefaultMotive)
}

func TestDefault_DestinationHeuristicLists(t *testing.T) {
	lib := Default()

	assert.True(t, lib.IsLandscapeDestination("iceland"))
	assert.True(t, lib.IsCityDestination("paris"))
	assert.False(t, lib.IsCityDestination("iceland"))
	assert.True(t, lib.IsDestinationStopword("instagram"))
	assert.False(t, lib.IsDestinationStopword("reykjavik"))

	// Every known destination is classified exactly one way.
	for _, dest := range lib.KnownDestinations {
		landscape := lib.IsLandscapeDestination(dest)
		city := lib.IsCityDestination(dest)
		assert.NotEqual(t, landscape, city, dest)
	}
}

func TestApply_ExtendsWithoutReplacing(t *testing.T) {
	lib := Default()
	foodBefore := len(findCluster(t, lib, "food").Keywords)

	lib.Apply(&Overlay{
		Interests: map[string][]string{
			"food":     {"brunch", "eat"}, // "eat" already present
			"wellness": {"spa", "yoga"},
		},
		DestinationStopwords:  []string{"tiktok"},
		LandscapeDestinations: []string{"faroe islands"},
		CityDestinations:      []string{"rome"},
	})

	food := findCluster(t, lib, "food")
	assert.Len(t, food.Keywords, foodBefore+1)
	assert.Contains(t, food.Keywords, "brunch")

	wellness := findCluster(t, lib, "wellness")
	assert.Equal(t, []string{"spa", "yoga"}, wellness.Keywords)

	assert.True(t, lib.IsDestinationStopword("tiktok"))
	assert.True(t, lib.IsLandscapeDestination("faroe islands"))
	assert.True(t, lib.IsCityDestination("rome"))
	assert.Contains(t, lib.KnownDestinations, "rome")
}

func TestLoadOverlay_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overlay.yaml")
	content := `
interests:
  nature:
    - fjord
destination_stopwords:
  - linkedin
city_destinations:
  - rome
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	lib := Default()
	require.NoError(t, lib.LoadOverlay(path))

	assert.Contains(t, findCluster(t, lib, "nature").Keywords, "fjord")
	assert.True(t, lib.IsDestinationStopword("linkedin"))
	assert.True(t, lib.IsCityDestination("rome"))
}

func TestLoadOverlay_MissingFile(t *testing.T) {
	lib := Default()
	err := lib.LoadOverlay(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func findCluster(t *testing.T, lib *Library, tag string) InterestCluster {
	t.Helper()
	for _, c := range lib.Interests {
		if c.Tag == tag {
			return c
		}
	}
	t.Fatalf("cluster %q not found", tag)
	return InterestCluster{}
}
