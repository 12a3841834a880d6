package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ecosort-tech/go-backend/internal/cfg"
	"github.com/ecosort-tech/go-backend/internal/infrastructure/auth"
	"github.com/ecosort-tech/go-backend/internal/infrastructure/metrics"
	"github.com/ecosort-tech/go-backend/internal/infrastructure/objectstore"
	"github.com/ecosort-tech/go-backend/internal/testutil"
	"github.com/ecosort-tech/go-backend/internal/usecase"
	"github.com/ecosort-tech/go-backend/pkg/e"
	"github.com/ecosort-tech/go-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testProject = "ecosort-dev"
	testIssuer  = "https://securetoken.google.com/" + testProject
	testUser    = "user-1"
)

var testSecret = []byte("router-test-secret")

type apiFixture struct {
	repo      *testutil.MemoryImageRepo
	inference *testutil.StubInference
	history   *testutil.MemoryHistory
	users     *testutil.MemoryUsers
	registry  *prometheus.Registry
	handler   http.Handler
}

func newAPIFixture(t *testing.T, maxUploadSize int64) *apiFixture {
	t.Helper()

	f := &apiFixture{
		repo:      testutil.NewMemoryImageRepo(),
		inference: testutil.NewStubInference(testutil.PlasticBottle()),
		history:   testutil.NewMemoryHistory(),
		users:     testutil.NewMemoryUsers(testUser),
		registry:  prometheus.NewRegistry(),
	}

	log := logger.NewNopLogger()
	storageCfg := &cfg.StorageCfg{
		TempPrefix:      "tempImages",
		PermanentPrefix: "predictedUploads",
		SignedURLTTL:    time.Hour,
		CleanupTimeout:  time.Second,
	}

	pipelineMetrics, err := metrics.NewPipelineMetrics(f.registry)
	require.NoError(t, err)

	uc := usecase.NewPredictionUC(
		objectstore.NewGateway(f.repo, storageCfg, log),
		f.inference,
		f.history,
		f.users,
		testutil.NewMemoryCache(),
		pipelineMetrics,
		log,
		storageCfg.CleanupTimeout,
	)

	verifier := auth.NewTokenVerifier(
		func(*jwt.Token) (any, error) { return testSecret, nil },
		&cfg.AuthCfg{Issuer: testIssuer, Audience: testProject, SigningMethods: []string{"HS256"}},
	)

	mux := chi.NewRouter()
	NewRouter(mux, log).Init(Deps{
		PredictionUC:  uc,
		Verifier:      verifier,
		Gatherer:      f.registry,
		MaxUploadSize: maxUploadSize,
		SwaggerURL:    "http://localhost:8080/swagger/doc.json",
	})
	f.handler = mux

	return f
}

func token(t *testing.T, subject string) string {
	t.Helper()

	now := time.Now()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.FirebaseClaims{
		Email: subject + "@ecosort.test",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    testIssuer,
			Audience:  jwt.ClaimStrings{testProject},
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}).SignedString(testSecret)
	require.NoError(t, err)

	return signed
}

// multipartBody собирает тело запроса. Пустой field — форма без файлов.
func multipartBody(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	if field != "" {
		part, err := w.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	} else {
		require.NoError(t, w.WriteField("comment", "no image here"))
	}
	require.NoError(t, w.Close())

	return body, w.FormDataContentType()
}

func (f *apiFixture) do(t *testing.T, r *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, r)
	return rec
}

func (f *apiFixture) predict(t *testing.T, bearer string, field string, data []byte) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := multipartBody(t, field, "bottle.jpg", data)
	r := httptest.NewRequest(http.MethodPost, "/predict", body)
	r.Header.Set("Content-Type", contentType)
	if bearer != "" {
		r.Header.Set("Authorization", "Bearer "+bearer)
	}

	return f.do(t, r)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestPredict_Success(t *testing.T) {
	f := newAPIFixture(t, 10<<20)

	rec := f.predict(t, token(t, testUser), imageField, testutil.JPEG(20*1024))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.ElementsMatch(t, []string{"imageUrl", "predicted_class", "waste_type", "probabilities"}, keys(body))
	assert.Equal(t, "plastic_bottle", body["predicted_class"])
	assert.Equal(t, "recyclable", body["waste_type"])
	assert.Contains(t, body["imageUrl"], "predictedUploads/")

	assert.Empty(t, f.repo.Keys("tempImages/"))
	assert.Len(t, f.repo.Keys("predictedUploads/"), 1)

	records, err := f.history.ListAll(t.Context())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, testUser, records[0].UserID)
	assert.Equal(t, []string{records[0].ID}, f.users.Collection(testUser))
}

func TestPredict_MissingImage(t *testing.T) {
	f := newAPIFixture(t, 10<<20)

	rec := f.predict(t, token(t, testUser), "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrorResponse{Code: http.StatusBadRequest, Message: "No image file provided"}, decodeError(t, rec))
	assert.Zero(t, f.repo.Uploads)
	assert.Zero(t, f.inference.Calls)
}

func TestPredict_NotMultipart(t *testing.T) {
	f := newAPIFixture(t, 10<<20)

	r := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(`{"image":"x"}`))
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Authorization", "Bearer "+token(t, testUser))

	rec := f.do(t, r)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrorResponse{Code: http.StatusBadRequest, Message: "No image file provided"}, decodeError(t, rec))
	assert.Zero(t, f.repo.Uploads)
	assert.Zero(t, f.inference.Calls)
}

func TestPredict_Unauthenticated(t *testing.T) {
	tests := []struct {
		name    string
		bearer  string
		wantMsg string
	}{
		{"no token", "", "Unauthorized: No token provided"},
		{"garbage token", "not.a.jwt", "Unauthorized: Invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAPIFixture(t, 10<<20)

			rec := f.predict(t, tt.bearer, imageField, testutil.JPEG(1024))
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeError(t, rec).Message)
			assert.Zero(t, f.repo.Uploads)
		})
	}
}

func TestPredict_InferenceUnreachable(t *testing.T) {
	f := newAPIFixture(t, 10<<20)
	f.inference.Err = e.WithKind(e.ErrInferenceUnreachable, errors.New("dial tcp: connection refused"))

	rec := f.predict(t, token(t, testUser), imageField, testutil.JPEG(1024))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", decodeError(t, rec).Message)
	assert.NotContains(t, rec.Body.String(), "connection refused")

	assert.Empty(t, f.repo.Keys(""))
	records, err := f.history.ListAll(t.Context())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestPredict_StorageFailures(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"unauthorized", e.WithKind(e.ErrStorageUnauthorized, errors.New("AccessDenied")), http.StatusForbidden, "Forbidden: Unauthorized access to storage"},
		{"canceled", e.WithKind(e.ErrStorageCanceled, errors.New("context canceled")), http.StatusRequestTimeout, "Request Timeout: Upload canceled"},
		{"unknown", e.WithKind(e.ErrStorageUnknown, errors.New("503")), http.StatusInternalServerError, "Internal Server Error: Unknown storage error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAPIFixture(t, 10<<20)
			f.repo.UploadErr = tt.err

			rec := f.predict(t, token(t, testUser), imageField, testutil.JPEG(1024))
			require.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeError(t, rec).Message)
			assert.Zero(t, f.repo.Deletes)
			assert.Zero(t, f.inference.Calls)
		})
	}
}

func TestPredict_UnsupportedMediaType(t *testing.T) {
	f := newAPIFixture(t, 10<<20)

	rec := f.predict(t, token(t, testUser), imageField, []byte("just some plain text, definitely not an image"))
	require.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Zero(t, f.repo.Uploads)
}

func TestPredict_TooLarge(t *testing.T) {
	f := newAPIFixture(t, 4*1024)

	rec := f.predict(t, token(t, testUser), imageField, testutil.JPEG(64*1024))
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Zero(t, f.repo.Uploads)
}

func TestCollections(t *testing.T) {
	f := newAPIFixture(t, 10<<20)
	bearer := token(t, testUser)

	for range 2 {
		require.Equal(t, http.StatusOK, f.predict(t, bearer, imageField, testutil.JPEG(1024)).Code)
	}

	r := httptest.NewRequest(http.MethodGet, "/predict/collections", nil)
	r.Header.Set("Authorization", "Bearer "+bearer)
	rec := f.do(t, r)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp PredictHistoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.PredictHistory, 2)
	for _, item := range resp.PredictHistory {
		assert.NotEmpty(t, item.ID)
		assert.Equal(t, testUser, item.UserID)
		assert.Equal(t, "plastic_bottle", item.PredictedClass)
	}
}

func TestCollections_EmptyIsArray(t *testing.T) {
	f := newAPIFixture(t, 10<<20)

	r := httptest.NewRequest(http.MethodGet, "/predict/collections", nil)
	r.Header.Set("Authorization", "Bearer "+token(t, testUser))
	rec := f.do(t, r)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"predictHistory":[]}`, rec.Body.String())
}

func TestGetRecord(t *testing.T) {
	f := newAPIFixture(t, 10<<20)
	bearer := token(t, testUser)

	require.Equal(t, http.StatusOK, f.predict(t, bearer, imageField, testutil.JPEG(1024)).Code)
	records, err := f.history.ListAll(t.Context())
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := httptest.NewRequest(http.MethodGet, "/predict/"+records[0].ID, nil)
	r.Header.Set("Authorization", "Bearer "+bearer)
	rec := f.do(t, r)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp PredictionRecordResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, records[0].ID, resp.ID)
	assert.Equal(t, records[0].ImageURL, resp.ImageURL)

	r = httptest.NewRequest(http.MethodGet, "/predict/does-not-exist", nil)
	r.Header.Set("Authorization", "Bearer "+bearer)
	rec = f.do(t, r)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserPredictions(t *testing.T) {
	f := newAPIFixture(t, 10<<20)
	bearer := token(t, testUser)

	require.Equal(t, http.StatusOK, f.predict(t, bearer, imageField, testutil.JPEG(1024)).Code)

	r := httptest.NewRequest(http.MethodGet, "/users/"+testUser+"/predictions", nil)
	r.Header.Set("Authorization", "Bearer "+bearer)
	rec := f.do(t, r)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp UserPredictionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.PredictHistoryItems, 1)
	assert.Equal(t, testUser, resp.PredictHistoryItems[0].UserID)
	assert.Contains(t, resp.PredictHistoryItems[0].ImageURL, "predictedUploads/")

	r = httptest.NewRequest(http.MethodGet, "/users/ghost/predictions", nil)
	r.Header.Set("Authorization", "Bearer "+bearer)
	rec = f.do(t, r)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ErrorResponse{Code: http.StatusNotFound, Message: "User not found"}, decodeError(t, rec))

	rec = f.do(t, httptest.NewRequest(http.MethodGet, "/users/"+testUser+"/predictions", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserPredictions_EmptyIsArray(t *testing.T) {
	f := newAPIFixture(t, 10<<20)

	r := httptest.NewRequest(http.MethodGet, "/users/"+testUser+"/predictions", nil)
	r.Header.Set("Authorization", "Bearer "+token(t, testUser))
	rec := f.do(t, r)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"predictHistoryItems":[]}`, rec.Body.String())
}

func TestHealthzAndMetrics(t *testing.T) {
	f := newAPIFixture(t, 10<<20)

	rec := f.do(t, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	require.Equal(t, http.StatusOK, f.predict(t, token(t, testUser), imageField, testutil.JPEG(1024)).Code)

	rec = f.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `prediction_requests_total{outcome="success"} 1`)
	assert.Contains(t, rec.Body.String(), "prediction_stage_duration_seconds")
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
