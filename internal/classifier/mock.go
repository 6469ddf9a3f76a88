package classifier

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/harikaa2703/ArogyaKrishi/internal/knowledge"
)

// Mock is a deterministic stand-in for the real model: the same image bytes
// always yield the same prediction, drawn from the knowledge dataset's
// crop/disease pairs. Useful for development and tests without a model
// server.
type Mock struct {
	pairs []mockPair
}

type mockPair struct {
	crop    string
	disease string
}

// NewMock builds a mock classifier over the crop/disease pairs of kb.
func NewMock(kb *knowledge.KnowledgeBase) (*Mock, error) {
	var pairs []mockPair
	for _, crop := range kb.Crops() {
		for _, diseaseID := range kb.DiseasesForCrop(crop.ID) {
			pairs = append(pairs, mockPair{crop: crop.ID, disease: diseaseID})
		}
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("classifier: knowledge base has no crop/disease pairs")
	}
	return &Mock{pairs: pairs}, nil
}

// Classify hashes the image bytes and maps them onto a crop/disease pair
// and a confidence in [0.55, 0.99).
func (m *Mock) Classify(ctx context.Context, image []byte) (Prediction, error) {
	if err := ctx.Err(); err != nil {
		return Prediction{}, err
	}
	if len(image) == 0 {
		return Prediction{}, fmt.Errorf("classifier: empty image")
	}

	sum := sha256.Sum256(image)
	idx := binary.BigEndian.Uint64(sum[:8]) % uint64(len(m.pairs))
	pair := m.pairs[idx]

	// Second hash word drives the confidence so it does not correlate with
	// the chosen pair.
	frac := float64(binary.BigEndian.Uint16(sum[8:10])) / 65535.0
	confidence := 0.55 + frac*0.44

	return Prediction{
		Crop:       pair.crop,
		Disease:    pair.disease,
		Confidence: confidence,
	}, nil
}

var _ Classifier = (*Mock)(nil)
