package classifier

import "context"

// Prediction is the classifier verdict for one image. Crop and Disease are
// canonical English keys from the knowledge dataset.
type Prediction struct {
	Crop       string  `json:"crop"`
	Disease    string  `json:"disease"`
	Confidence float64 `json:"confidence"`
}

// Classifier turns raw image bytes into a disease prediction. The model
// itself is an external, opaque service; this package only speaks its
// JSON contract.
type Classifier interface {
	Classify(ctx context.Context, image []byte) (Prediction, error)
}
