package knowledge

import "fmt"

// ErrUnknownCrop is returned when a crop id has no entry in the crop table.
// Callers should treat it as a data/configuration problem on their side and
// present "no diseases known for this crop" rather than crash.
var ErrUnknownCrop = errUnknownCrop{}

type errUnknownCrop struct{}

func (errUnknownCrop) Error() string { return "unknown crop" }

// KnowledgeBase holds the crop/symptom/disease tables plus the two index
// mappings, treated as one immutable unit. All fields are read-only after
// Build; concurrent readers need no coordination.
type KnowledgeBase struct {
	version int

	crops    []Crop
	symptoms []Symptom
	diseases []Disease

	cropByID    map[string]int
	symptomByID map[string]int
	diseaseByID map[string]int

	// cropDiseases preserves table insertion order; the matcher's tie-break
	// depends on it.
	cropDiseases    map[string][]string
	diseaseSymptoms map[string]map[string]struct{}
}

// Version reports the dataset version declared by the source asset.
func (kb *KnowledgeBase) Version() int { return kb.version }

// Crops returns the crop table in insertion order.
func (kb *KnowledgeBase) Crops() []Crop {
	out := make([]Crop, len(kb.crops))
	copy(out, kb.crops)
	return out
}

// CropByID looks up a crop by id.
func (kb *KnowledgeBase) CropByID(id string) (Crop, bool) {
	idx, ok := kb.cropByID[id]
	if !ok {
		return Crop{}, false
	}
	return kb.crops[idx], true
}

// SymptomByID looks up a symptom by id.
func (kb *KnowledgeBase) SymptomByID(id string) (Symptom, bool) {
	idx, ok := kb.symptomByID[id]
	if !ok {
		return Symptom{}, false
	}
	return kb.symptoms[idx], true
}

// Diseases returns the disease table in insertion order.
func (kb *KnowledgeBase) Diseases() []Disease {
	out := make([]Disease, len(kb.diseases))
	copy(out, kb.diseases)
	return out
}

// DiseaseByID looks up a disease by id.
func (kb *KnowledgeBase) DiseaseByID(id string) (Disease, bool) {
	idx, ok := kb.diseaseByID[id]
	if !ok {
		return Disease{}, false
	}
	return kb.diseases[idx], true
}

// DiseasesForCrop returns the crop's disease ids in table order.
func (kb *KnowledgeBase) DiseasesForCrop(cropID string) []string {
	ids := kb.cropDiseases[cropID]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// SymptomSignature returns the symptom id set for a disease.
func (kb *KnowledgeBase) SymptomSignature(diseaseID string) map[string]struct{} {
	sig := kb.diseaseSymptoms[diseaseID]
	out := make(map[string]struct{}, len(sig))
	for id := range sig {
		out[id] = struct{}{}
	}
	return out
}

// Build validates the document and assembles an immutable KnowledgeBase.
// Referential integrity is enforced here once so runtime lookups can assume
// validity: every disease referenced by a crop and every symptom referenced
// by a disease must exist, and ids must be unique. A crop with zero diseases
// and a disease with zero symptoms are both valid data.
func Build(doc Document) (*KnowledgeBase, error) {
	kb := &KnowledgeBase{
		version:         doc.Version,
		cropByID:        make(map[string]int, len(doc.Crops)),
		symptomByID:     make(map[string]int, len(doc.Symptoms)),
		diseaseByID:     make(map[string]int, len(doc.Diseases)),
		cropDiseases:    make(map[string][]string, len(doc.Crops)),
		diseaseSymptoms: make(map[string]map[string]struct{}, len(doc.Diseases)),
	}

	for _, s := range doc.Symptoms {
		if s.ID == "" {
			return nil, fmt.Errorf("knowledge: symptom with empty id")
		}
		if _, dup := kb.symptomByID[s.ID]; dup {
			return nil, fmt.Errorf("knowledge: duplicate symptom id %q", s.ID)
		}
		kb.symptomByID[s.ID] = len(kb.symptoms)
		kb.symptoms = append(kb.symptoms, Symptom{
			ID:             s.ID,
			NameKey:        s.NameKey,
			DescriptionKey: s.DescriptionKey,
			Names:          s.Names,
			ImageRef:       s.Image,
		})
	}

	for _, d := range doc.Diseases {
		if d.ID == "" {
			return nil, fmt.Errorf("knowledge: disease with empty id")
		}
		if _, dup := kb.diseaseByID[d.ID]; dup {
			return nil, fmt.Errorf("knowledge: duplicate disease id %q", d.ID)
		}
		sig := make(map[string]struct{}, len(d.Symptoms))
		for _, symptomID := range d.Symptoms {
			if _, ok := kb.symptomByID[symptomID]; !ok {
				return nil, fmt.Errorf("knowledge: disease %q references unknown symptom %q", d.ID, symptomID)
			}
			sig[symptomID] = struct{}{}
		}
		kb.diseaseByID[d.ID] = len(kb.diseases)
		kb.diseases = append(kb.diseases, Disease{
			ID:             d.ID,
			NameKey:        d.NameKey,
			DescriptionKey: d.DescriptionKey,
			Names:          d.Names,
			RemedyKeys:     append([]string(nil), d.Remedies...),
		})
		kb.diseaseSymptoms[d.ID] = sig
	}

	for _, c := range doc.Crops {
		if c.ID == "" {
			return nil, fmt.Errorf("knowledge: crop with empty id")
		}
		if _, dup := kb.cropByID[c.ID]; dup {
			return nil, fmt.Errorf("knowledge: duplicate crop id %q", c.ID)
		}
		seen := make(map[string]struct{}, len(c.Diseases))
		for _, diseaseID := range c.Diseases {
			if _, ok := kb.diseaseByID[diseaseID]; !ok {
				return nil, fmt.Errorf("knowledge: crop %q references unknown disease %q", c.ID, diseaseID)
			}
			if _, dup := seen[diseaseID]; dup {
				return nil, fmt.Errorf("knowledge: crop %q lists disease %q twice", c.ID, diseaseID)
			}
			seen[diseaseID] = struct{}{}
		}
		kb.cropByID[c.ID] = len(kb.crops)
		kb.crops = append(kb.crops, Crop{
			ID:       c.ID,
			NameKey:  c.NameKey,
			Names:    c.Names,
			ImageRef: c.Image,
		})
		kb.cropDiseases[c.ID] = append([]string(nil), c.Diseases...)
	}

	return kb, nil
}
