package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Remote calls an external model server over HTTP. The server accepts a
// multipart upload and answers {"crop": ..., "disease": ..., "confidence": ...}.
type Remote struct {
	url        string
	httpClient *http.Client
}

// NewRemote constructs a remote classifier client.
func NewRemote(url string) (*Remote, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("CLASSIFIER_URL is required for remote mode")
	}
	timeout := 30 * time.Second
	if raw := strings.TrimSpace(os.Getenv("CLASSIFIER_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &Remote{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type remoteResponse struct {
	Crop       string  `json:"crop"`
	Disease    string  `json:"disease"`
	Confidence float64 `json:"confidence"`
	Error      string  `json:"error,omitempty"`
}

// Classify uploads the image and parses the prediction.
func (r *Remote) Classify(ctx context.Context, image []byte) (Prediction, error) {
	if len(image) == 0 {
		return Prediction{}, fmt.Errorf("classifier: empty image")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", "upload.jpg")
	if err != nil {
		return Prediction{}, fmt.Errorf("classifier: build request: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return Prediction{}, fmt.Errorf("classifier: build request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return Prediction{}, fmt.Errorf("classifier: build request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, &body)
	if err != nil {
		return Prediction{}, fmt.Errorf("classifier: new request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return Prediction{}, fmt.Errorf("classifier: call model server: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Prediction{}, fmt.Errorf("classifier: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Prediction{}, fmt.Errorf("classifier: model server status %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var decoded remoteResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return Prediction{}, fmt.Errorf("classifier: decode response: %w", err)
	}
	if decoded.Error != "" {
		return Prediction{}, fmt.Errorf("classifier: model server error: %s", decoded.Error)
	}
	if decoded.Disease == "" {
		return Prediction{}, fmt.Errorf("classifier: model server returned no disease")
	}

	return Prediction{
		Crop:       decoded.Crop,
		Disease:    decoded.Disease,
		Confidence: decoded.Confidence,
	}, nil
}

var _ Classifier = (*Remote)(nil)
