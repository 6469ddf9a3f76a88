package chat

import (
	"context"
	"strings"

	"github.com/harikaa2703/ArogyaKrishi/internal/remedies"
)

// CannedResponder answers from the knowledge base without an external
// model. Used when no OpenAI key is configured.
type CannedResponder struct {
	Remedies *remedies.Service
}

var greetingWords = []string{"hello", "hi", "hey", "namaste", "नमस्ते", "నమస్తే"}

var cannedReplies = map[string]map[string]string{
	"greeting": {
		"en": "Hello! Ask me about a crop disease, or upload a photo from the home screen for a diagnosis.",
		"hi": "नमस्ते! मुझसे किसी फसल रोग के बारे में पूछें, या निदान के लिए होम स्क्रीन से फोटो अपलोड करें।",
		"te": "నమస్తే! పంట వ్యాధి గురించి నన్ను అడగండి, లేదా నిర్ధారణ కోసం హోమ్ స్క్రీన్ నుండి ఫోటో అప్‌లోడ్ చేయండి.",
	},
	"disease_intro": {
		"en": "Here is what I recommend for %s:",
		"hi": "%s के लिए मेरी सलाह यह है:",
		"te": "%s కోసం నా సిఫార్సులు ఇవి:",
	},
	"default": {
		"en": "I can help with crop diseases and treatments. Try naming the disease, or upload a photo of the affected plant for a diagnosis.",
		"hi": "मैं फसल रोगों और उपचारों में मदद कर सकता हूं। रोग का नाम बताएं, या प्रभावित पौधे की फोटो अपलोड करें।",
		"te": "నేను పంట వ్యాధులు, చికిత్సలలో సహాయం చేయగలను. వ్యాధి పేరు చెప్పండి, లేదా ప్రభావిత మొక్క ఫోటో అప్‌లోడ్ చేయండి.",
	},
}

func cannedReply(kind, lang string) string {
	replies := cannedReplies[kind]
	if text, ok := replies[lang]; ok {
		return text
	}
	return replies["en"]
}

// Reply matches the user's text against known diseases and falls back to
// generic guidance.
func (r *CannedResponder) Reply(ctx context.Context, history []Message, lang string) (string, error) {
	if len(history) == 0 {
		return cannedReply("default", lang), nil
	}
	text := history[len(history)-1].Content
	lower := strings.ToLower(text)

	for _, word := range strings.Fields(lower) {
		word = strings.Trim(word, ",.?!")
		for _, greeting := range greetingWords {
			if word == greeting {
				return cannedReply("greeting", lang), nil
			}
		}
	}

	if diseaseID := r.findDisease(text); diseaseID != "" {
		var b strings.Builder
		intro := cannedReply("disease_intro", lang)
		b.WriteString(strings.Replace(intro, "%s", r.Remedies.TranslatedDisease(diseaseID, lang), 1))
		for _, remedy := range r.Remedies.RemediesList(diseaseID, lang) {
			b.WriteString("\n- ")
			b.WriteString(remedy)
		}
		return b.String(), nil
	}

	return cannedReply("default", lang), nil
}

// findDisease scans the message for any disease name in any language.
// Disease names span up to four words, so every short phrase anchored at
// each word is tried; the first hit wins.
func (r *CannedResponder) findDisease(text string) string {
	cleaned := strings.Map(func(c rune) rune {
		switch c {
		case ',', '.', '?', '!', ';', ':':
			return ' '
		}
		return c
	}, text)

	words := strings.Fields(cleaned)
	for i := range words {
		for j := i + 1; j <= len(words) && j <= i+4; j++ {
			phrase := strings.Join(words[i:j], " ")
			if id := r.Remedies.NormalizeDiseaseName(phrase); id != "" {
				return id
			}
		}
	}
	return ""
}
