package knowledge

// Crop is a supported crop. Crops are leaves with no internal structure;
// diseases are attached through the crop→disease index.
type Crop struct {
	ID       string            `json:"id"`
	NameKey  string            `json:"nameKey"`
	Names    map[string]string `json:"names,omitempty"`
	ImageRef string            `json:"imageRef,omitempty"`
}

// Symptom is a user-observable sign, independent of any crop.
type Symptom struct {
	ID             string            `json:"id"`
	NameKey        string            `json:"nameKey"`
	DescriptionKey string            `json:"descriptionKey,omitempty"`
	Names          map[string]string `json:"names,omitempty"`
	ImageRef       string            `json:"imageRef,omitempty"`
}

// Disease describes a diagnosable condition. RemedyKeys is ordered; the
// order is the remedy display priority.
type Disease struct {
	ID             string            `json:"id"`
	NameKey        string            `json:"nameKey"`
	DescriptionKey string            `json:"descriptionKey,omitempty"`
	Names          map[string]string `json:"names,omitempty"`
	RemedyKeys     []string          `json:"remedyKeys,omitempty"`
}

// DisplayName returns the crop name for the given language, falling back to
// English and then the id.
func (c Crop) DisplayName(lang string) string {
	return displayName(c.Names, lang, c.ID)
}

// DisplayName returns the symptom name for the given language, falling back
// to English and then the id.
func (s Symptom) DisplayName(lang string) string {
	return displayName(s.Names, lang, s.ID)
}

// DisplayName returns the disease name for the given language, falling back
// to English and then the id.
func (d Disease) DisplayName(lang string) string {
	return displayName(d.Names, lang, d.ID)
}

func displayName(names map[string]string, lang, fallback string) string {
	if name, ok := names[lang]; ok && name != "" {
		return name
	}
	if name, ok := names["en"]; ok && name != "" {
		return name
	}
	return fallback
}
