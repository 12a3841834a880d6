package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ecosort-tech/go-backend/internal/cfg"
	"github.com/ecosort-tech/go-backend/internal/domain"
	"github.com/ecosort-tech/go-backend/internal/usecase"
	"github.com/ecosort-tech/go-backend/pkg/e"
	"github.com/ecosort-tech/go-backend/pkg/logger"
)

const maxResponseSize = 1 << 20

type predictURLRequest struct {
	URL string `json:"url"`
}

type predictResponse struct {
	PredictedClass string             `json:"predicted_class"`
	WasteType      string             `json:"waste_type"`
	Probabilities  map[string]float64 `json:"probabilities"`
}

// HTTPClient вызывает REST-сервис классификации: POST {base}/predict {"url": ...}.
type HTTPClient struct {
	client  *http.Client
	baseURL string
	logger  logger.Logger
}

func NewHTTPClient(client *http.Client, cfg *cfg.InferenceCfg, logger logger.Logger) *HTTPClient {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &HTTPClient{
		client:  client,
		baseURL: cfg.HTTPURL,
		logger:  logger,
	}
}

// Classify отправляет ссылку на изображение. Один вызов, без повторов.
func (c *HTTPClient) Classify(ctx context.Context, req *usecase.ClassifyReq) (*domain.Classification, error) {
	const op = "HTTPClient.Classify"

	if req.ImageURL == "" {
		return nil, e.Wrap(op, errors.New("image url is required"))
	}

	body, err := json.Marshal(predictURLRequest{URL: req.ImageURL})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, e.Wrap(op, e.WithKind(e.ErrInferenceUnreachable, err))
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, e.Wrap(op, e.WithKind(e.ErrInferenceUnreachable, err))
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Warnf("Inference service responded with status %d: %s", resp.StatusCode, truncate(payload, 256))
		return nil, e.Wrap(op, e.WithKind(e.ErrInferenceRemoteError, fmt.Errorf("status %d", resp.StatusCode)))
	}

	var res predictResponse
	if err := json.Unmarshal(payload, &res); err != nil {
		return nil, e.Wrap(op, e.WithKind(e.ErrInferenceInvalidResponse, err))
	}

	classification, err := toClassification(res.PredictedClass, res.WasteType, res.Probabilities)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return classification, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}

	return string(b[:n]) + "..."
}
