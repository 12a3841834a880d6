package inference

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/ecosort-tech/go-backend/internal/cfg"
	"github.com/ecosort-tech/go-backend/internal/usecase"
	"github.com/ecosort-tech/go-backend/pkg/e"
	"github.com/ecosort-tech/go-backend/pkg/logger"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const robinURL = "http://robin.test"

func newMockedHTTPClient(t *testing.T) *HTTPClient {
	t.Helper()

	client := &http.Client{Timeout: time.Second}
	httpmock.ActivateNonDefault(client)
	t.Cleanup(func() {
		httpmock.DeactivateNonDefault(client)
		httpmock.Reset()
	})

	return NewHTTPClient(client, &cfg.InferenceCfg{HTTPURL: robinURL}, logger.NewNopLogger())
}

func classifyURLReq() *usecase.ClassifyReq {
	return usecase.NewClassifyReq("https://storage.test/tempImages/a.jpg", nil, "image/jpeg")
}

func TestHTTPClient_Classify_Success(t *testing.T) {
	c := newMockedHTTPClient(t)

	httpmock.RegisterResponder(http.MethodPost, robinURL+"/predict",
		func(req *http.Request) (*http.Response, error) {
			var body map[string]string
			if err := jsonDecode(req, &body); err != nil {
				return httpmock.NewStringResponse(http.StatusBadRequest, ""), nil
			}
			if body["url"] != "https://storage.test/tempImages/a.jpg" {
				return httpmock.NewStringResponse(http.StatusUnprocessableEntity, ""), nil
			}
			return httpmock.NewJsonResponse(http.StatusOK, map[string]any{
				"predicted_class": "plastic_bottle",
				"waste_type":      "recyclable",
				"probabilities":   map[string]float64{"plastic_bottle": 0.92, "other": 0.08},
			})
		})

	res, err := c.Classify(context.Background(), classifyURLReq())
	require.NoError(t, err)

	assert.Equal(t, "plastic_bottle", res.PredictedClass)
	assert.Equal(t, "recyclable", res.WasteType)
	assert.InDelta(t, 0.08, res.Probabilities["other"], 1e-9)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestHTTPClient_Classify_Failures(t *testing.T) {
	tests := []struct {
		name      string
		responder httpmock.Responder
		wantKind  error
	}{
		{
			name:      "unreachable",
			responder: httpmock.NewErrorResponder(errors.New("dial tcp: connection refused")),
			wantKind:  e.ErrInferenceUnreachable,
		},
		{
			name:      "remote error status",
			responder: httpmock.NewStringResponder(http.StatusInternalServerError, `{"detail":"model crashed"}`),
			wantKind:  e.ErrInferenceRemoteError,
		},
		{
			name:      "malformed json",
			responder: httpmock.NewStringResponder(http.StatusOK, `{"predicted_class":`),
			wantKind:  e.ErrInferenceInvalidResponse,
		},
		{
			name:      "missing predicted class",
			responder: httpmock.NewStringResponder(http.StatusOK, `{"waste_type":"recyclable","probabilities":{}}`),
			wantKind:  e.ErrInferenceInvalidResponse,
		},
		{
			name:      "empty predicted class",
			responder: httpmock.NewStringResponder(http.StatusOK, `{"predicted_class":"","waste_type":"recyclable"}`),
			wantKind:  e.ErrInferenceInvalidResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newMockedHTTPClient(t)
			httpmock.RegisterResponder(http.MethodPost, robinURL+"/predict", tt.responder)

			_, err := c.Classify(context.Background(), classifyURLReq())
			require.ErrorIs(t, err, tt.wantKind)
			assert.Equal(t, 1, httpmock.GetTotalCallCount())
		})
	}
}

func TestHTTPClient_Classify_RequiresURL(t *testing.T) {
	c := newMockedHTTPClient(t)

	_, err := c.Classify(context.Background(), usecase.NewClassifyReq("", []byte{1}, "image/jpeg"))
	require.Error(t, err)
	assert.Zero(t, httpmock.GetTotalCallCount())
}
