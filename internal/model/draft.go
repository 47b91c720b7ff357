package model

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Draft field names, also used as form input names and as FieldErrors
// keys.
const (
	FieldScientificName  = "scientific_name"
	FieldCommonName      = "common_name"
	FieldKingdom         = "kingdom"
	FieldTotalPopulation = "total_population"
	FieldImage           = "image"
	FieldDescription     = "description"
)

// SpeciesDraft is the in-memory working copy of a record's editable
// fields during an edit session. Fields are raw form values; they only
// become typed through Normalize after Validate passes.
type SpeciesDraft struct {
	ScientificName  string `json:"scientific_name"`
	CommonName      string `json:"common_name"`
	Kingdom         string `json:"kingdom"`
	TotalPopulation string `json:"total_population"`
	Image           string `json:"image"`
	Description     string `json:"description"`
}

// DraftOf renders the committed record back into form values. Editing
// always starts from this.
func DraftOf(s *Species) SpeciesDraft {
	d := SpeciesDraft{
		ScientificName: s.ScientificName,
		Kingdom:        string(s.Kingdom),
	}
	if s.CommonName != nil {
		d.CommonName = *s.CommonName
	}
	if s.TotalPopulation != nil {
		d.TotalPopulation = strconv.FormatInt(*s.TotalPopulation, 10)
	}
	if s.Image != nil {
		d.Image = *s.Image
	}
	if s.Description != nil {
		d.Description = *s.Description
	}
	return d
}

// FieldErrors maps a draft field name to its validation message. An
// empty map means the draft is valid.
type FieldErrors map[string]string

func (fe FieldErrors) Empty() bool { return len(fe) == 0 }

// ErrOrNil folds the per-field messages into a single error value for
// log lines and non-form callers.
func (fe FieldErrors) ErrOrNil() error {
	var result *multierror.Error
	for _, field := range []string{
		FieldScientificName, FieldCommonName, FieldKingdom,
		FieldTotalPopulation, FieldImage, FieldDescription,
	} {
		if msg, ok := fe[field]; ok {
			result = multierror.Append(result, fmt.Errorf("%s: %s", field, msg))
		}
	}
	return result.ErrorOrNil()
}

// Validate applies the per-field rules. It is field-local and never
// touches the store.
func (d SpeciesDraft) Validate() FieldErrors {
	fe := FieldErrors{}

	if strings.TrimSpace(d.ScientificName) == "" {
		fe[FieldScientificName] = "scientific name is required"
	}

	if !Kingdom(d.Kingdom).Valid() {
		fe[FieldKingdom] = "kingdom must be one of the known kingdoms"
	}

	if raw := strings.TrimSpace(d.TotalPopulation); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 {
			fe[FieldTotalPopulation] = "total population must be a positive whole number"
		}
	}

	if raw := strings.TrimSpace(d.Image); raw != "" {
		u, err := url.Parse(raw)
		if err != nil || !u.IsAbs() || u.Host == "" {
			fe[FieldImage] = "image must be an absolute URL"
		}
	}

	return fe
}

// Normalize turns a valid draft into a full patch: required text is
// trimmed, nullable text becomes nil when empty or whitespace-only,
// population is parsed. Normalizing an already-normalized draft yields
// the same patch.
func (d SpeciesDraft) Normalize() SpeciesPatch {
	p := SpeciesPatch{
		ScientificName: strings.TrimSpace(d.ScientificName),
		Kingdom:        Kingdom(d.Kingdom),
		CommonName:     nullableText(d.CommonName),
		Image:          nullableText(d.Image),
		Description:    nullableText(d.Description),
	}
	if raw := strings.TrimSpace(d.TotalPopulation); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			p.TotalPopulation = &n
		}
	}
	return p
}

func nullableText(s string) *string {
	t := strings.TrimSpace(s)
	if t == "" {
		return nil
	}
	return &t
}
