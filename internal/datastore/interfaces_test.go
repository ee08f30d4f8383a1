package datastore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kicau/birdwatch-go/internal/conf"
	"github.com/kicau/birdwatch-go/internal/errors"
)

// createDatabase sets up a temporary SQLite database for testing.
func createDatabase(t *testing.T) Interface {
	t.Helper()

	settings := &conf.Settings{}
	settings.Output.SQLite.Enabled = true
	settings.Output.SQLite.Path = t.TempDir() + "/test.db"

	dataStore := New(settings)
	require.NoError(t, dataStore.Open(), "Failed to open database")

	t.Cleanup(func() {
		assert.NoError(t, dataStore.Close(), "Failed to close datastore")
	})

	return dataStore
}

// seedTestCatalog inserts a small fixed catalog used across tests.
func seedTestCatalog(t *testing.T, ds Interface) []Bird {
	t.Helper()

	birds := []Bird{
		{
			SpeciesCode:    "amecro",
			CommonName:     "American Crow",
			ScientificName: "Corvus brachyrhynchos",
			Family:         "Corvidae",
			Order:          "Passeriformes",
			Habitat:        "Open woodland, farmland and urban areas",
			LengthCM:       46.5,
			WingspanCM:     97.0,
			WeightG:        450.0,
		},
		{
			SpeciesCode:    "bobfly1",
			CommonName:     "Boat-billed Flycatcher",
			ScientificName: "Megarynchus pitangua",
			Habitat:        "Tropical Forest edges and clearings",
		},
		{
			SpeciesCode:    "fepowl",
			CommonName:     "Ferruginous Pygmy-Owl",
			ScientificName: "Glaucidium brasilianum",
			Habitat:        "dry forest and scrub",
		},
	}

	for i := range birds {
		require.NoError(t, ds.SaveBird(&birds[i]))
	}
	return birds
}

func TestGetBird(t *testing.T) {
	t.Parallel()

	ds := createDatabase(t)
	seeded := seedTestCatalog(t, ds)

	for _, want := range seeded {
		bird, err := ds.GetBird(want.ID)
		require.NoError(t, err)
		assert.Equal(t, want.ID, bird.ID)
		assert.Equal(t, want.SpeciesCode, bird.SpeciesCode)
	}
}

func TestGetBirdNotFound(t *testing.T) {
	t.Parallel()

	ds := createDatabase(t)
	seedTestCatalog(t, ds)

	_, err := ds.GetBird(9999)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err), "missing id must yield a not-found error")
}

func TestGetAllBirdsOrderedWithMedia(t *testing.T) {
	t.Parallel()

	ds := createDatabase(t)
	seeded := seedTestCatalog(t, ds)

	require.NoError(t, ds.SaveMediaReference(&MediaReference{
		BirdID: seeded[0].ID,
		URL:    "https://cdn.example.com/amecro.jpg",
		Kind:   "photo",
	}))
	require.NoError(t, ds.SaveMediaReference(&MediaReference{
		BirdID: seeded[0].ID,
		URL:    "https://cdn.example.com/amecro.mp3",
		Kind:   "voice",
	}))

	birds, err := ds.GetAllBirds()
	require.NoError(t, err)
	require.Len(t, birds, len(seeded))

	// Insertion order is preserved
	for i := 1; i < len(birds); i++ {
		assert.Less(t, birds[i-1].ID, birds[i].ID)
	}

	assert.Len(t, birds[0].Media, 2, "media references must be eagerly attached")
	assert.Empty(t, birds[1].Media)
}

func TestGetBirdByCommonName(t *testing.T) {
	t.Parallel()

	ds := createDatabase(t)
	seedTestCatalog(t, ds)

	bird, err := ds.GetBirdByCommonName("American Crow")
	require.NoError(t, err)
	assert.Equal(t, "amecro", bird.SpeciesCode)

	_, err = ds.GetBirdByCommonName("Dodo")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestGetBirdsByHabitatCaseInsensitive(t *testing.T) {
	t.Parallel()

	ds := createDatabase(t)
	seedTestCatalog(t, ds)

	// "forest" appears as "Forest" and "forest" in two seeded habitats
	birds, err := ds.GetBirdsByHabitat("forest")
	require.NoError(t, err)
	require.Len(t, birds, 2)

	codes := []string{birds[0].SpeciesCode, birds[1].SpeciesCode}
	assert.Contains(t, codes, "bobfly1")
	assert.Contains(t, codes, "fepowl")

	// No match is an empty result, not an error
	birds, err = ds.GetBirdsByHabitat("tundra")
	require.NoError(t, err)
	assert.Empty(t, birds)
}

func TestGetBirdBySpeciesCode(t *testing.T) {
	t.Parallel()

	ds := createDatabase(t)
	seedTestCatalog(t, ds)

	bird, err := ds.GetBirdBySpeciesCode("fepowl")
	require.NoError(t, err)
	assert.Equal(t, "Ferruginous Pygmy-Owl", bird.CommonName)

	_, err = ds.GetBirdBySpeciesCode("nosuch1")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestSpeciesCodeUniqueness(t *testing.T) {
	t.Parallel()

	ds := createDatabase(t)
	seedTestCatalog(t, ds)

	duplicate := Bird{
		SpeciesCode: "amecro",
		CommonName:  "Impostor Crow",
	}
	err := ds.SaveBird(&duplicate)
	require.Error(t, err, "duplicate species code must fail at the storage layer")
}

func TestSaveMediaReferenceRequiresBird(t *testing.T) {
	t.Parallel()

	ds := createDatabase(t)
	seedTestCatalog(t, ds)

	err := ds.SaveMediaReference(&MediaReference{
		BirdID: 4242,
		URL:    "https://cdn.example.com/ghost.jpg",
		Kind:   "photo",
	})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestCountBirds(t *testing.T) {
	t.Parallel()

	ds := createDatabase(t)

	count, err := ds.CountBirds()
	require.NoError(t, err)
	assert.Zero(t, count)

	seedTestCatalog(t, ds)

	count, err = ds.CountBirds()
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
