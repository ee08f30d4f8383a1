// interfaces.go: this code defines the interface for the database operations
package datastore

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/kicau/birdwatch-go/internal/conf"
	"github.com/kicau/birdwatch-go/internal/errors"
)

// Interface abstracts the underlying database implementation and defines the
// operations the catalog supports.
type Interface interface {
	Open() error
	Close() error
	GetAllBirds() ([]Bird, error)
	GetBird(id uint) (Bird, error)
	GetBirdByCommonName(name string) (Bird, error)
	GetBirdsByHabitat(habitat string) ([]Bird, error)
	GetBirdBySpeciesCode(code string) (Bird, error)
	CountBirds() (int64, error)
	SaveBird(bird *Bird) error
	SaveMediaReference(media *MediaReference) error
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB *gorm.DB // GORM database instance
}

// New creates a new datastore instance based on the provided settings.
func New(settings *conf.Settings) Interface {
	switch {
	case settings.Output.SQLite.Enabled:
		return &SQLiteStore{
			Settings: settings,
		}
	case settings.Output.MySQL.Enabled:
		return &MySQLStore{
			Settings: settings,
		}
	default:
		return nil
	}
}

// GetAllBirds retrieves every catalog entry in insertion order with media
// references eagerly attached.
func (ds *DataStore) GetAllBirds() ([]Bird, error) {
	var birds []Bird
	if err := ds.DB.Preload("Media").Order("id").Find(&birds).Error; err != nil {
		return nil, errors.Newf("getting all birds: %w", err).
			Category(errors.CategoryDatabase).
			Component("datastore").
			Build()
	}
	return birds, nil
}

// GetBird retrieves a bird by its identifier with media references attached.
func (ds *DataStore) GetBird(id uint) (Bird, error) {
	var bird Bird
	if err := ds.DB.Preload("Media").First(&bird, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Bird{}, errors.Newf("bird with ID %d not found", id).
				Category(errors.CategoryNotFound).
				Context("bird_id", id).
				Component("datastore").
				Build()
		}
		return Bird{}, errors.Newf("getting bird with ID %d: %w", id, err).
			Category(errors.CategoryDatabase).
			Context("bird_id", id).
			Component("datastore").
			Build()
	}
	return bird, nil
}

// GetBirdByCommonName retrieves a single bird whose common name exactly
// matches name. Matching semantics follow the database's string equality.
func (ds *DataStore) GetBirdByCommonName(name string) (Bird, error) {
	var bird Bird
	if err := ds.DB.Preload("Media").Where("common_name = ?", name).First(&bird).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Bird{}, errors.Newf("bird with name %q not found", name).
				Category(errors.CategoryNotFound).
				Context("common_name", name).
				Component("datastore").
				Build()
		}
		return Bird{}, errors.Newf("getting bird with name %q: %w", name, err).
			Category(errors.CategoryDatabase).
			Context("common_name", name).
			Component("datastore").
			Build()
	}
	return bird, nil
}

// GetBirdsByHabitat retrieves all birds whose habitat text contains the given
// substring, case-insensitively. An empty result is not an error.
func (ds *DataStore) GetBirdsByHabitat(habitat string) ([]Bird, error) {
	var birds []Bird
	pattern := "%" + strings.ToLower(habitat) + "%"
	if err := ds.DB.Preload("Media").
		Where("LOWER(habitat) LIKE ?", pattern).
		Order("id").
		Find(&birds).Error; err != nil {
		return nil, errors.Newf("getting birds by habitat %q: %w", habitat, err).
			Category(errors.CategoryDatabase).
			Context("habitat", habitat).
			Component("datastore").
			Build()
	}
	return birds, nil
}

// GetBirdBySpeciesCode retrieves a single bird by its unique species code.
// Used by the identification proxy to resolve classifier output.
func (ds *DataStore) GetBirdBySpeciesCode(code string) (Bird, error) {
	var bird Bird
	if err := ds.DB.Preload("Media").Where("species_code = ?", code).First(&bird).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Bird{}, errors.Newf("bird with species code %q not found", code).
				Category(errors.CategoryNotFound).
				Context("species_code", code).
				Component("datastore").
				Build()
		}
		return Bird{}, errors.Newf("getting bird with species code %q: %w", code, err).
			Category(errors.CategoryDatabase).
			Context("species_code", code).
			Component("datastore").
			Build()
	}
	return bird, nil
}

// CountBirds returns the number of catalog entries.
func (ds *DataStore) CountBirds() (int64, error) {
	var count int64
	if err := ds.DB.Model(&Bird{}).Count(&count).Error; err != nil {
		return 0, errors.Newf("counting birds: %w", err).
			Category(errors.CategoryDatabase).
			Component("datastore").
			Build()
	}
	return count, nil
}

// SaveBird inserts a new catalog entry. The unique index on species_code
// makes duplicate codes fail at the database layer.
func (ds *DataStore) SaveBird(bird *Bird) error {
	if err := ds.DB.Create(bird).Error; err != nil {
		return errors.Newf("saving bird %q: %w", bird.SpeciesCode, err).
			Category(errors.CategoryDatabase).
			Context("species_code", bird.SpeciesCode).
			Component("datastore").
			Build()
	}
	return nil
}

// SaveMediaReference inserts a media reference after verifying the referenced
// bird exists.
func (ds *DataStore) SaveMediaReference(media *MediaReference) error {
	var count int64
	if err := ds.DB.Model(&Bird{}).Where("id = ?", media.BirdID).Count(&count).Error; err != nil {
		return errors.Newf("checking bird %d for media reference: %w", media.BirdID, err).
			Category(errors.CategoryDatabase).
			Context("bird_id", media.BirdID).
			Component("datastore").
			Build()
	}
	if count == 0 {
		return errors.Newf("bird with ID %d not found", media.BirdID).
			Category(errors.CategoryNotFound).
			Context("bird_id", media.BirdID).
			Component("datastore").
			Build()
	}
	if err := ds.DB.Create(media).Error; err != nil {
		return errors.Newf("saving media reference for bird %d: %w", media.BirdID, err).
			Category(errors.CategoryDatabase).
			Context("bird_id", media.BirdID).
			Component("datastore").
			Build()
	}
	return nil
}

// performAutoMigration automates database migrations with error handling.
func performAutoMigration(db *gorm.DB, debug bool, dbType, connectionInfo string) error {
	migrationStart := time.Now()

	tableMappings := []struct {
		model any
		name  string
	}{
		{&Bird{}, "birds"},
		{&MediaReference{}, "media_references"},
	}

	for _, table := range tableMappings {
		if err := db.AutoMigrate(table.model); err != nil {
			return errors.Newf("failed to auto-migrate %s table: %w", table.name, err).
				Category(errors.CategoryDatabase).
				Context("db_type", dbType).
				Context("table", table.name).
				Component("datastore").
				Build()
		}
	}

	if debug {
		getLogger().Debug("Database migration completed",
			"db_type", dbType,
			"connection", connectionInfo,
			"tables", len(tableMappings),
			"duration_ms", time.Since(migrationStart).Milliseconds())
	}

	return nil
}

// Close closes the underlying database connection.
func (ds *DataStore) Close() error {
	if ds.DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}
	sqlDB, err := ds.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to retrieve generic DB object: %w", err)
	}
	return sqlDB.Close()
}
