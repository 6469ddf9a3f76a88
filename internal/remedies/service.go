package remedies

import (
	"strings"

	"github.com/harikaa2703/ArogyaKrishi/internal/knowledge"
)

// SupportedLanguages lists the language codes the API accepts.
var SupportedLanguages = []string{"en", "te", "hi", "kn", "ml"}

// Service resolves remedy texts and treatment advice against the live
// knowledge snapshot.
type Service struct {
	catalog *Catalog
	matcher *knowledge.Matcher
}

func NewService(catalog *Catalog, matcher *knowledge.Matcher) *Service {
	return &Service{catalog: catalog, matcher: matcher}
}

// ValidateLanguage returns lang if supported, otherwise "en".
func ValidateLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	for _, s := range SupportedLanguages {
		if lang == s {
			return s
		}
	}
	return "en"
}

func canonKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeDiseaseName maps a disease name in any supported language, or a
// raw disease id, to the canonical disease id. Returns "" when nothing
// matches.
func (s *Service) NormalizeDiseaseName(name string) string {
	want := canonKey(name)
	if want == "" {
		return ""
	}
	kb := s.matcher.Snapshot()
	for _, d := range kb.Diseases() {
		if canonKey(d.ID) == want {
			return d.ID
		}
		for _, localized := range d.Names {
			if canonKey(localized) == want {
				return d.ID
			}
		}
	}
	return ""
}

// TranslatedDisease returns the display name of a disease in lang.
func (s *Service) TranslatedDisease(diseaseID, lang string) string {
	kb := s.matcher.Snapshot()
	d, ok := kb.DiseaseByID(diseaseID)
	if !ok {
		return diseaseID
	}
	return d.DisplayName(lang)
}

// TranslatedCrop returns the display name of a crop in lang.
func (s *Service) TranslatedCrop(cropID, lang string) string {
	kb := s.matcher.Snapshot()
	c, ok := kb.CropByID(cropID)
	if !ok {
		return cropID
	}
	return c.DisplayName(lang)
}

// RemediesList resolves the remedy texts for a disease in order. The
// knowledge base decides which remedy keys apply and in what order; the
// catalog supplies the localized text for each key.
func (s *Service) RemediesList(diseaseID, lang string) []string {
	lang = ValidateLanguage(lang)
	kb := s.matcher.Snapshot()
	d, ok := kb.DiseaseByID(diseaseID)
	if !ok {
		return genericAdvice(lang)
	}
	out := make([]string, 0, len(d.RemedyKeys))
	for _, key := range d.RemedyKeys {
		if r, found := s.catalog.ByKey(key); found {
			out = append(out, r.Text(lang))
		}
	}
	if len(out) == 0 {
		// Disease known but no keyed remedies; fall back to catalog order.
		for _, r := range s.catalog.ForDisease(diseaseID) {
			out = append(out, r.Text(lang))
		}
	}
	if len(out) == 0 {
		return genericAdvice(lang)
	}
	return out
}

var genericAdviceTexts = map[string][]string{
	"en": {
		"Isolate affected plants and avoid overhead watering.",
		"Consult your local agriculture extension officer for a field inspection.",
	},
	"hi": {
		"प्रभावित पौधों को अलग करें और ऊपर से सिंचाई से बचें।",
		"खेत निरीक्षण के लिए अपने स्थानीय कृषि विस्तार अधिकारी से संपर्क करें।",
	},
	"te": {
		"ప్రభావిత మొక్కలను వేరు చేసి, పై నుంచి నీరు పోయడం మానండి.",
		"పొల పరిశీలన కోసం మీ స్థానిక వ్యవసాయ విస్తరణ అధికారిని సంప్రదించండి.",
	},
}

func genericAdvice(lang string) []string {
	if texts, ok := genericAdviceTexts[lang]; ok {
		return append([]string(nil), texts...)
	}
	return append([]string(nil), genericAdviceTexts["en"]...)
}

// TreatmentVerdict is the outcome of checking a product label against a
// disease's accepted treatment vocabulary.
type TreatmentVerdict struct {
	Disease   string `json:"disease"`
	Language  string `json:"language"`
	ItemLabel string `json:"itemLabel"`
	WillCure  bool   `json:"willCure"`
	Feedback  string `json:"feedback"`
}

var treatmentFeedback = map[string]map[bool]string{
	"en": {
		true:  "This product contains an active ingredient recommended for %s.",
		false: "This product does not look effective against %s. Check the remedies list for recommended treatments.",
	},
	"hi": {
		true:  "इस उत्पाद में %s के लिए अनुशंसित सक्रिय तत्व है।",
		false: "यह उत्पाद %s के विरुद्ध प्रभावी नहीं लगता। अनुशंसित उपचारों के लिए उपाय सूची देखें।",
	},
	"te": {
		true:  "ఈ ఉత్పత్తిలో %s కోసం సిఫార్సు చేసిన క్రియాశీల పదార్థం ఉంది.",
		false: "ఈ ఉత్పత్తి %sపై ప్రభావవంతంగా కనిపించడం లేదు. సిఫార్సు చేసిన చికిత్సల కోసం పరిష్కారాల జాబితా చూడండి.",
	},
}

// EvaluateTreatment decides whether a scanned product label names any
// treatment term accepted for the disease. The disease may be given as a
// canonical id or a localized display name.
func (s *Service) EvaluateTreatment(disease, itemLabel, lang string) TreatmentVerdict {
	lang = ValidateLanguage(lang)
	diseaseID := s.NormalizeDiseaseName(disease)
	label := canonKey(itemLabel)

	willCure := false
	if diseaseID != "" && label != "" {
		for _, term := range s.catalog.TreatmentTerms(diseaseID) {
			if strings.Contains(label, canonKey(term)) {
				willCure = true
				break
			}
		}
	}

	displayDisease := disease
	if diseaseID != "" {
		displayDisease = s.TranslatedDisease(diseaseID, lang)
	}
	templates, ok := treatmentFeedback[lang]
	if !ok {
		templates = treatmentFeedback["en"]
	}
	feedback := strings.Replace(templates[willCure], "%s", displayDisease, 1)

	return TreatmentVerdict{
		Disease:   displayDisease,
		Language:  lang,
		ItemLabel: strings.TrimSpace(itemLabel),
		WillCure:  willCure,
		Feedback:  feedback,
	}
}
