// seed.go: loads a yaml catalog fixture into an empty database.
package datastore

import (
	"encoding/json"
	"os"

	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"

	"github.com/kicau/birdwatch-go/internal/errors"
)

// seedMedia is a media reference entry in the seed file
type seedMedia struct {
	URL  string `yaml:"url"`
	Kind string `yaml:"kind"`
}

// seedBird is a catalog entry in the seed file
type seedBird struct {
	SpeciesCode        string         `yaml:"species_code"`
	CommonName         string         `yaml:"common_name"`
	ScientificName     string         `yaml:"scientific_name"`
	Family             string         `yaml:"family"`
	Order              string         `yaml:"order"`
	ConservationStatus string         `yaml:"conservation_status"`
	Habitat            string         `yaml:"habitat"`
	Diet               string         `yaml:"diet"`
	Behavior           string         `yaml:"behavior"`
	Nesting            string         `yaml:"nesting"`
	LengthCM           float64        `yaml:"length_cm"`
	WingspanCM         float64        `yaml:"wingspan_cm"`
	WeightG            float64        `yaml:"weight_g"`
	FunFacts           map[string]any `yaml:"fun_facts"`
	Media              []seedMedia    `yaml:"media"`
}

// Seed loads catalog entries from a yaml fixture file into the store. It is
// a no-op when the catalog already contains records, so repeated startups do
// not trip the species code uniqueness constraint.
func Seed(ds Interface, path string) (int, error) {
	count, err := ds.CountBirds()
	if err != nil {
		return 0, err
	}
	if count > 0 {
		getLogger().Debug("Catalog already populated, skipping seed", "birds", count)
		return 0, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, errors.Newf("reading seed file %s: %w", path, err).
			Category(errors.CategoryFileParsing).
			Context("path", path).
			Component("datastore").
			Build()
	}

	var entries []seedBird
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return 0, errors.Newf("parsing seed file %s: %w", path, err).
			Category(errors.CategoryFileParsing).
			Context("path", path).
			Component("datastore").
			Build()
	}

	seeded := 0
	for i := range entries {
		entry := &entries[i]
		bird := Bird{
			SpeciesCode:        entry.SpeciesCode,
			CommonName:         entry.CommonName,
			ScientificName:     entry.ScientificName,
			Family:             entry.Family,
			Order:              entry.Order,
			ConservationStatus: entry.ConservationStatus,
			Habitat:            entry.Habitat,
			Diet:               entry.Diet,
			Behavior:           entry.Behavior,
			Nesting:            entry.Nesting,
			LengthCM:           entry.LengthCM,
			WingspanCM:         entry.WingspanCM,
			WeightG:            entry.WeightG,
		}
		if entry.FunFacts != nil {
			facts, err := json.Marshal(entry.FunFacts)
			if err != nil {
				return seeded, errors.Newf("encoding fun facts for %q: %w", entry.SpeciesCode, err).
					Category(errors.CategoryFileParsing).
					Context("species_code", entry.SpeciesCode).
					Component("datastore").
					Build()
			}
			bird.FunFacts = datatypes.JSON(facts)
		}

		if err := ds.SaveBird(&bird); err != nil {
			return seeded, err
		}
		for _, media := range entry.Media {
			ref := MediaReference{BirdID: bird.ID, URL: media.URL, Kind: media.Kind}
			if err := ds.SaveMediaReference(&ref); err != nil {
				return seeded, err
			}
		}
		seeded++
	}

	getLogger().Info("Catalog seeded", "birds", seeded, "path", path)
	return seeded, nil
}
