package model

import "time"

// UserID identifies a registered user. It is the value of the species
// author column and of the session principal.
type UserID = string

// Kingdom is the closed set of taxonomic kingdoms a species record may
// be filed under.
type Kingdom string

const (
	KingdomAnimalia Kingdom = "Animalia"
	KingdomPlantae  Kingdom = "Plantae"
	KingdomFungi    Kingdom = "Fungi"
	KingdomProtista Kingdom = "Protista"
	KingdomArchaea  Kingdom = "Archaea"
	KingdomBacteria Kingdom = "Bacteria"
)

// Kingdoms returns the members of the enumeration in display order.
func Kingdoms() []Kingdom {
	return []Kingdom{
		KingdomAnimalia,
		KingdomPlantae,
		KingdomFungi,
		KingdomProtista,
		KingdomArchaea,
		KingdomBacteria,
	}
}

func (k Kingdom) Valid() bool {
	switch k {
	case KingdomAnimalia, KingdomPlantae, KingdomFungi, KingdomProtista, KingdomArchaea, KingdomBacteria:
		return true
	}
	return false
}

func (k Kingdom) String() string {
	return string(k)
}

// Species is a species row. Nullable columns are pointers: absence is
// NULL, never the empty string.
type Species struct {
	ID              int64     `db:"id" json:"id"`
	ScientificName  string    `db:"scientific_name" json:"scientific_name"`
	CommonName      *string   `db:"common_name" json:"common_name"`
	Kingdom         Kingdom   `db:"kingdom" json:"kingdom"`
	TotalPopulation *int64    `db:"total_population" json:"total_population"`
	Image           *string   `db:"image" json:"image"`
	Description     *string   `db:"description" json:"description"`
	Author          UserID    `db:"author" json:"author"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

const SpeciesType = "species"

// OwnedBy reports whether viewer is the record's author. Callers use it
// to gate edit and delete controls; the service layer re-checks it on
// every write.
func (s *Species) OwnedBy(viewer UserID) bool {
	return viewer != "" && s.Author == viewer
}

// ApplyPatch replaces every editable field with the patch values. The
// id, author and creation time never change.
func (s *Species) ApplyPatch(p SpeciesPatch) {
	s.ScientificName = p.ScientificName
	s.CommonName = p.CommonName
	s.Kingdom = p.Kingdom
	s.TotalPopulation = p.TotalPopulation
	s.Image = p.Image
	s.Description = p.Description
}

// SpeciesPatch carries the six editable fields in normalized form. A
// patch is always full: every field is sent on every update.
type SpeciesPatch struct {
	ScientificName  string  `json:"scientific_name"`
	CommonName      *string `json:"common_name"`
	Kingdom         Kingdom `json:"kingdom"`
	TotalPopulation *int64  `json:"total_population"`
	Image           *string `json:"image"`
	Description     *string `json:"description"`
}
