// model.go this code defines the data model for the application
package datastore

import (
	"time"

	"gorm.io/datatypes"
)

// Bird represents a single catalog entry for a bird species
type Bird struct {
	ID                 uint   `gorm:"primaryKey" json:"id"`
	SpeciesCode        string `gorm:"uniqueIndex:idx_birds_species_code;not null" json:"species_code"`
	CommonName         string `gorm:"index:idx_birds_common_name" json:"common_name"`
	ScientificName     string `gorm:"index:idx_birds_sci_name" json:"scientific_name"`
	Family             string `gorm:"index:idx_birds_family" json:"family,omitempty"`
	Order              string `gorm:"column:order_name;index:idx_birds_order" json:"order,omitempty"`
	ConservationStatus string `json:"conservation_status,omitempty"`
	Habitat            string `gorm:"type:text" json:"habitat,omitempty"`
	Diet               string `gorm:"type:text" json:"diet,omitempty"`
	Behavior           string `gorm:"type:text" json:"behavior,omitempty"`
	Nesting            string `gorm:"type:text" json:"nesting,omitempty"`

	// Measurements are stored as fixed-precision decimal columns
	LengthCM   float64 `gorm:"type:decimal(6,2)" json:"length_cm,omitempty"`
	WingspanCM float64 `gorm:"type:decimal(6,2)" json:"wingspan_cm,omitempty"`
	WeightG    float64 `gorm:"type:decimal(7,2)" json:"weight_g,omitempty"`

	FunFacts datatypes.JSON `json:"fun_facts,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Media []MediaReference `gorm:"foreignKey:BirdID" json:"media"`
}

// MediaReference represents a photo or voice asset URL belonging to a Bird
type MediaReference struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BirdID    uint      `gorm:"index;not null" json:"bird_id"`
	URL       string    `gorm:"not null" json:"url"`
	Kind      string    `gorm:"type:varchar(10)" json:"kind"` // "photo" or "voice"
	CreatedAt time.Time `json:"created_at"`
}
