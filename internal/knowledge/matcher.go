package knowledge

import (
	"sort"
	"strings"
	"sync/atomic"
)

// MatchResult is the outcome of a disease match. NoMatch is a valid terminal
// outcome, not an error; only a single winner is ever reported.
type MatchResult struct {
	Matched bool
	Disease *Disease
	Score   int
}

// Matcher answers symptom-checklist and best-match queries over a knowledge
// base snapshot. Reload swaps the whole table set in one pointer store, so
// in-flight calls always see a fully consistent snapshot.
type Matcher struct {
	kb atomic.Pointer[KnowledgeBase]
}

// NewMatcher constructs a matcher over the given knowledge base.
func NewMatcher(kb *KnowledgeBase) *Matcher {
	m := &Matcher{}
	m.kb.Store(kb)
	return m
}

// Reload replaces the knowledge base. The argument must already be built
// (and therefore validated).
func (m *Matcher) Reload(kb *KnowledgeBase) {
	m.kb.Store(kb)
}

// Snapshot returns the current knowledge base.
func (m *Matcher) Snapshot() *KnowledgeBase {
	return m.kb.Load()
}

// CandidateSymptoms returns the checklist for a crop: the union of the
// symptom signatures of every disease known for it, deduplicated and sorted
// by display name in the given language. Symptoms irrelevant to the crop's
// diseases are deliberately excluded to keep the checklist short.
func (m *Matcher) CandidateSymptoms(cropID, lang string) ([]Symptom, error) {
	kb := m.kb.Load()
	if _, ok := kb.CropByID(cropID); !ok {
		return nil, ErrUnknownCrop
	}

	seen := make(map[string]struct{})
	var out []Symptom
	for _, diseaseID := range kb.cropDiseases[cropID] {
		for symptomID := range kb.diseaseSymptoms[diseaseID] {
			if _, dup := seen[symptomID]; dup {
				continue
			}
			seen[symptomID] = struct{}{}
			symptom, _ := kb.SymptomByID(symptomID)
			out = append(out, symptom)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a := strings.ToLower(out[i].DisplayName(lang))
		b := strings.ToLower(out[j].DisplayName(lang))
		if a != b {
			return a < b
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// MatchDisease scores every disease of the crop by the count of selected
// symptoms present in its signature and returns the single best match.
// Scores are raw overlap counts with no normalization. The winner is the
// first disease in the crop's table order whose score strictly exceeds the
// running maximum; a later disease with an equal score never displaces it.
// A maximum score of zero, an empty selection, or a crop with no diseases
// all yield NoMatch.
func (m *Matcher) MatchDisease(cropID string, selectedSymptomIDs []string) (MatchResult, error) {
	kb := m.kb.Load()
	if _, ok := kb.CropByID(cropID); !ok {
		return MatchResult{}, ErrUnknownCrop
	}

	selected := make(map[string]struct{}, len(selectedSymptomIDs))
	for _, id := range selectedSymptomIDs {
		selected[id] = struct{}{}
	}

	bestScore := 0
	var bestID string
	for _, diseaseID := range kb.cropDiseases[cropID] {
		score := 0
		for symptomID := range selected {
			if _, ok := kb.diseaseSymptoms[diseaseID][symptomID]; ok {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			bestID = diseaseID
		}
	}

	if bestScore == 0 {
		return MatchResult{}, nil
	}
	disease, _ := kb.DiseaseByID(bestID)
	return MatchResult{Matched: true, Disease: &disease, Score: bestScore}, nil
}
