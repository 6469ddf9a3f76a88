package remedies

import (
	"bytes"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed remedies.yaml
var defaultCatalogYAML []byte

// catalogDoc is the yaml shape of the remedy catalog asset.
type catalogDoc struct {
	Version  int                         `yaml:"version"`
	Diseases map[string]diseaseEntrySpec `yaml:"diseases"`
}

type diseaseEntrySpec struct {
	TreatmentTerms []string     `yaml:"treatment_terms"`
	Remedies       []remedySpec `yaml:"remedies"`
}

type remedySpec struct {
	Key   string            `yaml:"key"`
	Texts map[string]string `yaml:"texts"`
}

// Remedy is one localized remedy entry for a disease.
type Remedy struct {
	Key   string
	Texts map[string]string
}

// Text returns the remedy text for lang, falling back to English.
func (r Remedy) Text(lang string) string {
	if t, ok := r.Texts[lang]; ok && t != "" {
		return t
	}
	return r.Texts["en"]
}

// Catalog holds the remedy texts and treatment vocabulary keyed by disease id.
type Catalog struct {
	version        int
	byDisease      map[string][]Remedy
	byKey          map[string]Remedy
	treatmentTerms map[string][]string
}

func parseCatalog(data []byte) (*Catalog, error) {
	var doc catalogDoc
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse remedy catalog: %w", err)
	}
	if doc.Version <= 0 {
		return nil, fmt.Errorf("remedy catalog missing version")
	}
	c := &Catalog{
		version:        doc.Version,
		byDisease:      make(map[string][]Remedy, len(doc.Diseases)),
		byKey:          make(map[string]Remedy),
		treatmentTerms: make(map[string][]string, len(doc.Diseases)),
	}
	for diseaseID, entry := range doc.Diseases {
		list := make([]Remedy, 0, len(entry.Remedies))
		for _, rs := range entry.Remedies {
			if rs.Key == "" {
				return nil, fmt.Errorf("remedy catalog: disease %q has a remedy without a key", diseaseID)
			}
			if _, dup := c.byKey[rs.Key]; dup {
				return nil, fmt.Errorf("remedy catalog: duplicate remedy key %q", rs.Key)
			}
			if rs.Texts["en"] == "" {
				return nil, fmt.Errorf("remedy catalog: remedy %q has no English text", rs.Key)
			}
			r := Remedy{Key: rs.Key, Texts: rs.Texts}
			c.byKey[rs.Key] = r
			list = append(list, r)
		}
		c.byDisease[diseaseID] = list
		c.treatmentTerms[diseaseID] = append([]string(nil), entry.TreatmentTerms...)
	}
	return c, nil
}

// DefaultCatalog parses the embedded remedy catalog.
func DefaultCatalog() (*Catalog, error) {
	return parseCatalog(defaultCatalogYAML)
}

// ByKey resolves a single remedy key.
func (c *Catalog) ByKey(key string) (Remedy, bool) {
	r, ok := c.byKey[key]
	return r, ok
}

// ForDisease returns the remedies listed for a disease, in catalog order.
func (c *Catalog) ForDisease(diseaseID string) []Remedy {
	return append([]Remedy(nil), c.byDisease[diseaseID]...)
}

// TreatmentTerms returns the accepted treatment vocabulary for a disease.
func (c *Catalog) TreatmentTerms(diseaseID string) []string {
	return append([]string(nil), c.treatmentTerms[diseaseID]...)
}
